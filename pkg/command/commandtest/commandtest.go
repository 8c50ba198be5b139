// Package commandtest provides a scripted command.Runner for tests.
package commandtest

import (
	"context"
	"strings"
	"sync"

	"github.com/matzehuels/tfdiagram/pkg/command"
)

// Call records one invocation.
type Call struct {
	Dir    string
	Name   string
	Args   []string
	Attach bool
}

// Line returns the call's command line.
func (c Call) Line() string {
	return command.Line(c.Name, c.Args...)
}

// Response scripts the result of a matching call.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Err, when set, is returned as-is (e.g. a not-found error) and the
	// exit code is ignored.
	Err error
	// Hook runs before the response is returned.
	Hook func(ctx context.Context, call Call) error
}

// Runner is a fake command.Runner. Responses are keyed by command line
// ("terraform plan -out=tfplan") or by executable name ("terraform");
// the full line wins. Unscripted calls succeed with empty output.
type Runner struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []Call
}

// New returns an empty fake runner.
func New() *Runner {
	return &Runner{responses: make(map[string]Response)}
}

// On scripts the response for key.
func (r *Runner) On(key string, resp Response) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[key] = resp
	return r
}

// Calls returns the recorded calls in order.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Lines returns the recorded command lines in order.
func (r *Runner) Lines() []string {
	calls := r.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.Line()
	}
	return lines
}

// Count returns how many recorded calls start with prefix.
func (r *Runner) Count(prefix string) int {
	n := 0
	for _, line := range r.Lines() {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func (r *Runner) respond(ctx context.Context, call Call) (command.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	resp, ok := r.responses[call.Line()]
	if !ok {
		resp = r.responses[call.Name]
	}
	r.mu.Unlock()

	if resp.Hook != nil {
		if err := resp.Hook(ctx, call); err != nil {
			return command.Result{ExitCode: -1}, err
		}
	}
	if resp.Err != nil {
		return command.Result{ExitCode: -1}, resp.Err
	}

	res := command.Result{
		Stdout:   []byte(resp.Stdout),
		Stderr:   []byte(resp.Stderr),
		ExitCode: resp.ExitCode,
	}
	if resp.ExitCode != 0 {
		return res, &command.ExitError{Name: call.Name, Code: resp.ExitCode, Stderr: resp.Stderr}
	}
	return res, nil
}

// Capture implements command.Runner.
func (r *Runner) Capture(ctx context.Context, dir, name string, args ...string) (command.Result, error) {
	return r.respond(ctx, Call{Dir: dir, Name: name, Args: args})
}

// Attach implements command.Runner.
func (r *Runner) Attach(ctx context.Context, dir, name string, args ...string) error {
	_, err := r.respond(ctx, Call{Dir: dir, Name: name, Args: args, Attach: true})
	return err
}

var _ command.Runner = (*Runner)(nil)
