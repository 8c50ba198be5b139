// Package command runs external tools.
//
// Arguments are always passed as a discrete list to os/exec; nothing is
// interpreted by a shell. A [Runner] either captures a tool's output
// ([Runner.Capture]) or attaches it to the terminal ([Runner.Attach]) for
// long-running, operator-facing processes.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Result holds the captured output of a finished process.
type Result struct {
	Stdout []byte
	Stderr []byte
	// ExitCode is the process exit status, or -1 if it never ran.
	ExitCode int
}

// ExitError reports a process that ran but exited non-zero.
type ExitError struct {
	Name   string
	Code   int
	Stderr string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Name, e.Code)
}

// Runner executes external commands in a working directory.
type Runner interface {
	// Capture runs name with args in dir and collects stdout and stderr.
	// A non-zero exit yields an *ExitError alongside the populated Result.
	Capture(ctx context.Context, dir, name string, args ...string) (Result, error)
	// Attach runs name with args in dir connected to the terminal and
	// blocks until it exits or ctx is cancelled.
	Attach(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner is the os/exec implementation of Runner.
type ExecRunner struct {
	// Env is appended to the inherited environment of every child.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner attached to the process's standard streams.
func NewExecRunner(env []string) *ExecRunner {
	return &ExecRunner{
		Env:    env,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (r *ExecRunner) command(ctx context.Context, dir, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	return cmd
}

// Capture implements Runner.
func (r *ExecRunner) Capture(ctx context.Context, dir, name string, args ...string) (Result, error) {
	cmd := r.command(ctx, dir, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes(), ExitCode: exitCode(cmd, err)}
	if err != nil {
		return res, wrap(name, err, stderr.String())
	}
	return res, nil
}

// Attach implements Runner.
func (r *ExecRunner) Attach(ctx context.Context, dir, name string, args ...string) error {
	cmd := r.command(ctx, dir, name, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return wrap(name, err, "")
	}
	return nil
}

func exitCode(cmd *exec.Cmd, err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}

func wrap(name string, err error, stderr string) error {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{Name: name, Code: ee.ExitCode(), Stderr: strings.TrimSpace(stderr)}
	}
	return fmt.Errorf("run %s: %w", name, err)
}

// IsNotFound reports whether err means the executable was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}

// Line formats a command line for logs. Arguments are not shell-quoted.
func Line(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

var _ Runner = (*ExecRunner)(nil)
