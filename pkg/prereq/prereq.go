// Package prereq verifies that the external tools tfdiagram drives are
// installed before any environment is touched.
package prereq

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/matzehuels/tfdiagram/pkg/command"
	"github.com/matzehuels/tfdiagram/pkg/errors"
)

// VersionFlag is the argument each tool is probed with.
const VersionFlag = "--version"

// Tool is a required executable.
type Tool struct {
	Name string
	// Role is shown in diagnostics (e.g. "planner").
	Role string
}

// DefaultTools returns the planner, visualizer and renderer in check order.
func DefaultTools() []Tool {
	return Tools("terraform", "blast-radius", "dot")
}

// Tools builds the required tool list from executable names.
func Tools(planner, visualizer, renderer string) []Tool {
	return []Tool{
		{Name: planner, Role: "planner"},
		{Name: visualizer, Role: "visualizer"},
		{Name: renderer, Role: "renderer"},
	}
}

// Status is the result of probing one tool.
type Status struct {
	Tool
	// Found is false when the executable is not on PATH.
	Found bool
	// Version is the first non-empty output line of the version query.
	Version string
	Err     error
}

// OK reports whether the tool was found and answered its version query.
func (s Status) OK() bool { return s.Found && s.Err == nil }

// Report collects the status of every required tool.
type Report struct {
	Statuses []Status
}

// OK reports whether every tool is usable.
func (r Report) OK() bool {
	for _, s := range r.Statuses {
		if !s.OK() {
			return false
		}
	}
	return true
}

// Missing returns the names of unusable tools.
func (r Report) Missing() []string {
	var names []string
	for _, s := range r.Statuses {
		if !s.OK() {
			names = append(names, s.Name)
		}
	}
	return names
}

// Err returns a MISSING_PREREQUISITE error naming the unusable tools, or
// nil when the report is OK.
func (r Report) Err() error {
	missing := r.Missing()
	if len(missing) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeMissingPrerequisite, "not installed or not in PATH: %s", strings.Join(missing, ", "))
}

// Check probes every tool with [VersionFlag]. All tools are probed even
// after a failure so the report lists everything that is missing.
func Check(ctx context.Context, r command.Runner, tools []Tool) Report {
	report := Report{Statuses: make([]Status, 0, len(tools))}
	for _, t := range tools {
		report.Statuses = append(report.Statuses, probe(ctx, r, t))
	}
	return report
}

func probe(ctx context.Context, r command.Runner, t Tool) Status {
	res, err := r.Capture(ctx, "", t.Name, VersionFlag)
	st := Status{Tool: t, Found: !command.IsNotFound(err), Err: err}
	// Graphviz prints its version on stderr.
	st.Version = firstLine(res.Stdout)
	if st.Version == "" {
		st.Version = firstLine(res.Stderr)
	}
	return st
}

func firstLine(b []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line
		}
	}
	return ""
}

// InstallGuide is printed when prerequisites are missing.
const InstallGuide = `Installation guide:
  pip install blastradius
  # Install Graphviz:
  #   Windows: choco install graphviz
  #   macOS:   brew install graphviz
  #   Linux:   sudo apt-get install graphviz
  # Install Terraform: https://developer.hashicorp.com/terraform/install`
