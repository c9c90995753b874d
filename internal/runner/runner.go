// Package runner wraps external tool invocation behind a single interface so
// engine components never touch os/exec directly and tests can substitute
// canned output. Every call is bounded by a timeout; a missing binary, a
// non-zero exit and an exceeded budget each map to a distinct error code.
package runner

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"wifiscout/internal/errors"
)

// Runner executes external tools and reports their standard output.
type Runner interface {
	// Run invokes name with args, bounded by timeout, and returns stdout.
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error)
	// LookPath reports whether the named binary is installed.
	LookPath(name string) bool
}

// ExecRunner runs tools as blocking child processes via os/exec.
type ExecRunner struct{}

// New returns a Runner backed by os/exec.
func New() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the tool and returns its stdout. Exit status and timeouts are
// mapped to the error taxonomy; stdout captured before a failure is still
// returned so callers can log partial output.
func (r *ExecRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	if !r.LookPath(name) {
		return "", errors.NewToolUnavailable(name)
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := stdout.String()
	if err != nil {
		argStr := strings.Join(args, " ")
		if runCtx.Err() == context.DeadlineExceeded {
			return out, errors.NewToolTimeout(name, argStr)
		}
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		return out, errors.WrapToolError(name, argStr, err)
	}
	return out, nil
}

// LookPath reports whether the named binary is on PATH.
func (r *ExecRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
