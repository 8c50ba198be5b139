package cli

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/tfdiagram/pkg/command"
	"github.com/matzehuels/tfdiagram/pkg/command/commandtest"
	"github.com/matzehuels/tfdiagram/pkg/errors"
	"github.com/matzehuels/tfdiagram/pkg/manifest"
)

type harness struct {
	cli  *CLI
	fake *commandtest.Runner
	env  []string
	logs bytes.Buffer
	out  bytes.Buffer
	root string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		root: t.TempDir(),
		fake: commandtest.New().
			On("blast-radius --svg", commandtest.Response{Stdout: `<svg xmlns="http://www.w3.org/2000/svg"/>`}).
			On("blast-radius --dot", commandtest.Response{Stdout: "digraph { a -> b }\n"}),
	}
	h.cli = New(&h.logs, LogInfo)
	h.cli.NewCommandRunner = func(env []string) command.Runner {
		h.env = env
		return h.fake
	}

	old := stdout
	stdout = &h.out
	t.Cleanup(func() { stdout = old })
	return h
}

func (h *harness) mkEnv(t *testing.T, key string) {
	t.Helper()
	dir := filepath.Join(h.root, filepath.FromSlash(key))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.tf"), nil, 0644); err != nil {
		t.Fatal(err)
	}
}

func (h *harness) write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(h.root, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func (h *harness) run(args ...string) error {
	root := h.cli.RootCommand()
	root.SetArgs(append(args, "--project-root", h.root))
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"generate", "serve", "environments", "check", "render", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %q in %v", want, names)
		}
	}
	for _, flag := range []string{"project-root", "config", "env-file", "verbose"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestGenerate(t *testing.T) {
	h := newHarness(t)
	h.mkEnv(t, "us-west-1/dev")
	h.mkEnv(t, "us-west-2/dev")

	if err := h.run("generate"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	m, err := manifest.ReadFile(filepath.Join(h.root, "diagrams", manifest.FileName))
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, d := range m.Diagrams {
		names = append(names, d.Name)
	}
	if !slices.Equal(names, []string{"dev-us-west-1", "dev-us-west-2"}) {
		t.Errorf("manifest diagrams = %v", names)
	}
	if !strings.Contains(h.out.String(), "Successfully generated") {
		t.Errorf("stdout = %q", h.out.String())
	}
	if !strings.Contains(h.logs.String(), "run=") {
		t.Error("generate logs should carry a run id")
	}
	if !strings.Contains(h.logs.String(), "us-west-1/staging") {
		t.Error("skipped environments should be reported")
	}
}

func TestGenerateMissingPrerequisites(t *testing.T) {
	h := newHarness(t)
	h.mkEnv(t, "us-west-1/dev")
	h.fake.On("dot --version", commandtest.Response{Err: exec.ErrNotFound})

	err := h.run("generate")
	if !errors.Is(err, errors.ErrCodeMissingPrerequisite) {
		t.Fatalf("generate = %v, want MISSING_PREREQUISITE", err)
	}
	if n := h.fake.Count("terraform init"); n != 0 {
		t.Errorf("terraform init ran %d times, want 0", n)
	}
	if _, err := os.Stat(filepath.Join(h.root, "diagrams")); !os.IsNotExist(err) {
		t.Error("no output should be written when prerequisites are missing")
	}
	out := h.out.String()
	if !strings.Contains(out, "dot is not installed") || !strings.Contains(out, "pip install blastradius") {
		t.Errorf("stdout should name the missing tool and the install guide, got %q", out)
	}
}

func TestServe(t *testing.T) {
	h := newHarness(t)
	h.mkEnv(t, "us-west-1/dev")

	if err := h.run("serve", "-e", "us-west-1/dev", "-p", "8080"); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if n := h.fake.Count("blast-radius --serve --port 8080"); n != 1 {
		t.Errorf("server launched %d times, want 1", n)
	}
}

func TestServeErrors(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		code      errors.Code
		listsKeys bool
	}{
		{"missing environment flag", []string{"serve"}, errors.ErrCodeMissingFlag, true},
		{"unknown environment", []string{"serve", "-e", "eu-central-1/dev"}, errors.ErrCodeUnknownEnvironment, true},
		{"missing directory", []string{"serve", "-e", "us-west-1/prod"}, errors.ErrCodeEnvironmentNotFound, false},
		{"invalid port", []string{"serve", "-e", "us-west-1/dev", "-p", "0"}, errors.ErrCodeInvalidFlag, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.mkEnv(t, "us-west-1/dev")

			err := h.run(tt.args...)
			if !errors.Is(err, tt.code) {
				t.Fatalf("serve = %v, want %s", err, tt.code)
			}
			if n := h.fake.Count("blast-radius --serve"); n != 0 {
				t.Error("no server should be launched")
			}
			if n := h.fake.Count("terraform init"); n != 0 {
				t.Error("terraform should not run")
			}
			if got := strings.Contains(h.out.String(), "us-west-2/dev"); got != tt.listsKeys {
				t.Errorf("lists available keys = %v, want %v", got, tt.listsKeys)
			}
		})
	}
}

func TestConfigFileOverridesTools(t *testing.T) {
	h := newHarness(t)
	h.mkEnv(t, "stacks/core")
	h.write(t, "tfdiagram.toml", `project = "acme"

[tools]
planner = "tofu"

[[environments]]
path = "stacks/core"
name = "core"
description = "Core stack"
color = "#abcdef"
`)

	if err := h.run("generate"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if n := h.fake.Count("tofu init -backend=false"); n != 1 {
		t.Errorf("tofu init ran %d times, want 1; calls: %v", n, h.fake.Lines())
	}
	if n := h.fake.Count("terraform "); n != 0 {
		t.Errorf("terraform ran %d times, want 0", n)
	}

	m, err := manifest.ReadFile(filepath.Join(h.root, "diagrams", manifest.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if m.Project != "acme" || len(m.Diagrams) != 1 || m.Diagrams[0].Name != "core" {
		t.Errorf("manifest = %+v", m)
	}
}

func TestEnvFileReachesChildProcesses(t *testing.T) {
	h := newHarness(t)
	h.write(t, ".env", "AWS_PROFILE=dev\n")

	if err := h.run("check"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if !slices.Equal(h.env, []string{"AWS_PROFILE=dev"}) {
		t.Errorf("child env = %v", h.env)
	}
}

func TestInvalidConfig(t *testing.T) {
	h := newHarness(t)
	h.write(t, "tfdiagram.yaml", "environments:\n  - path: ../outside\n    name: x\n    color: \"#fff\"\n")

	if err := h.run("environments"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("environments = %v, want INVALID_CONFIG", err)
	}
}

func TestEnvironments(t *testing.T) {
	h := newHarness(t)
	h.mkEnv(t, "us-west-1/dev")
	if err := os.MkdirAll(filepath.Join(h.root, "us-west-1", "staging"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := h.run("environments"); err != nil {
		t.Fatalf("environments: %v", err)
	}
	out := h.out.String()
	for _, want := range []string{"us-west-1/dev", "dev-us-west-1", "#3498db", "ready", "no main.tf", "missing"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if len(h.fake.Calls()) != 0 {
		t.Error("listing environments should not run any tool")
	}
}

func TestCheck(t *testing.T) {
	h := newHarness(t)
	h.fake.On("terraform --version", commandtest.Response{Stdout: "Terraform v1.9.0\non linux_amd64\n"})
	h.fake.On("blast-radius --version", commandtest.Response{ExitCode: 2})

	err := h.run("check")
	if !errors.Is(err, errors.ErrCodeMissingPrerequisite) {
		t.Fatalf("check = %v, want MISSING_PREREQUISITE", err)
	}
	out := h.out.String()
	if !strings.Contains(out, "Terraform v1.9.0") {
		t.Errorf("output should show the terraform version:\n%s", out)
	}
	if !strings.Contains(out, "blast-radius (visualizer) failed") {
		t.Errorf("output should report the failing tool:\n%s", out)
	}
	if n := len(h.fake.Calls()); n != 3 {
		t.Errorf("%d tools probed, want 3", n)
	}
}

func TestCheckCancelled(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := h.cli.RootCommand()
	root.SetArgs([]string{"check", "--project-root", h.root})
	if err := root.ExecuteContext(ctx); err != context.Canceled {
		t.Fatalf("check = %v, want context.Canceled", err)
	}
	if h.out.Len() != 0 {
		t.Errorf("a cancelled check should not print a report:\n%s", h.out.String())
	}
}

func TestRender(t *testing.T) {
	h := newHarness(t)
	in := h.write(t, "graph.dot", "digraph { a -> b }\n")

	if err := h.run("render", in); err != nil {
		t.Fatalf("render: %v", err)
	}
	svg, err := os.ReadFile(filepath.Join(h.root, "graph.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("output is not SVG: %.80s", svg)
	}
}

func TestRenderFluidLayout(t *testing.T) {
	h := newHarness(t)
	in := h.write(t, "graph.dot", "digraph { a -> b; b -> c; c -> a }\n")
	out := filepath.Join(h.root, "fluid.svg")

	if err := h.run("render", in, "-o", out, "--layout", "circo", "--fluid"); err != nil {
		t.Fatalf("render: %v", err)
	}
	svg, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	start := bytes.Index(svg, []byte("<svg"))
	if start < 0 {
		t.Fatalf("output is not SVG: %.80s", svg)
	}
	root := svg[start : start+bytes.IndexByte(svg[start:], '>')]
	if bytes.Contains(root, []byte("width=")) {
		t.Errorf("--fluid should drop the root size: %s", root)
	}
}

func TestRenderRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T, h *harness) []string
		code errors.Code
	}{
		{
			name: "missing file",
			args: func(t *testing.T, h *harness) []string { return []string{"render", filepath.Join(h.root, "nope.dot")} },
			code: errors.ErrCodeInvalidPath,
		},
		{
			name: "empty graph",
			args: func(t *testing.T, h *harness) []string { return []string{"render", h.write(t, "empty.dot", "")} },
			code: errors.ErrCodeInvalidFlag,
		},
		{
			name: "unknown layout",
			args: func(t *testing.T, h *harness) []string {
				return []string{"render", h.write(t, "g.dot", "digraph { a }"), "--layout", "spring"}
			},
			code: errors.ErrCodeInvalidFlag,
		},
		{
			name: "unparsable graph",
			args: func(t *testing.T, h *harness) []string { return []string{"render", h.write(t, "bad.dot", "digraph {")} },
			code: errors.ErrCodeInvalidFlag,
		},
		{
			name: "output equals input",
			args: func(t *testing.T, h *harness) []string {
				in := h.write(t, "g.svg", "digraph {}")
				return []string{"render", in, "-o", in}
			},
			code: errors.ErrCodeInvalidFlag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if err := h.run(tt.args(t, h)...); !errors.Is(err, tt.code) {
				t.Errorf("render = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSVGPathFor(t *testing.T) {
	tests := map[string]string{
		"diagrams/dev.dot": "diagrams/dev.svg",
		"graph":            "graph.svg",
		"a.b.gv":           "a.b.svg",
	}
	for in, want := range tests {
		if got := svgPathFor(in); got != want {
			t.Errorf("svgPathFor(%q) = %q, want %q", in, got, want)
		}
	}
}
