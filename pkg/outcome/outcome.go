// Package outcome models the result of a single orchestration step.
//
// Every external tool invocation ends in one of three severities:
//
//   - OK: the step did what it was asked to do.
//   - Warn: the step failed, but the failure is tolerated and processing
//     continues (planner init/plan, textual graph capture).
//   - Fail: the step failed and the failure is recorded against the
//     environment (vector diagram capture).
package outcome

import (
	"fmt"
	"strings"
)

// Severity classifies an outcome.
type Severity int

const (
	OK Severity = iota
	Warn
	Fail
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case OK:
		return "ok"
	case Warn:
		return "warn"
	case Fail:
		return "fail"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Outcome is the result of one step.
type Outcome struct {
	Step     string
	Severity Severity
	// Err is the underlying error for Warn and Fail outcomes.
	Err error
	// Detail carries captured diagnostics, typically the tool's stderr.
	Detail string
}

// Ok returns a successful outcome for step.
func Ok(step string) Outcome {
	return Outcome{Step: step, Severity: OK}
}

// Warning returns a tolerated failure for step.
func Warning(step string, err error, detail string) Outcome {
	return Outcome{Step: step, Severity: Warn, Err: err, Detail: strings.TrimSpace(detail)}
}

// Failure returns a recorded failure for step.
func Failure(step string, err error, detail string) Outcome {
	return Outcome{Step: step, Severity: Fail, Err: err, Detail: strings.TrimSpace(detail)}
}

// IsOK reports whether the step succeeded.
func (o Outcome) IsOK() bool { return o.Severity == OK }

// Failed reports whether the outcome is a recorded failure.
func (o Outcome) Failed() bool { return o.Severity == Fail }

// String formats the outcome for logs.
func (o Outcome) String() string {
	if o.Severity == OK {
		return o.Step + ": ok"
	}
	msg := fmt.Sprintf("%s: %s", o.Step, o.Severity)
	if o.Err != nil {
		msg += ": " + o.Err.Error()
	}
	return msg
}

// Worst returns the highest severity among outcomes, or OK if there are none.
func Worst(outcomes ...Outcome) Severity {
	worst := OK
	for _, o := range outcomes {
		if o.Severity > worst {
			worst = o.Severity
		}
	}
	return worst
}
