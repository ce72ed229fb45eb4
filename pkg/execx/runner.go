// Package execx wraps external command invocation behind a narrow
// interface so probes can be tested without a live scheduler.
package execx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrTimeout marks a probe command that exceeded its deadline.
var ErrTimeout = errors.New("command timed out")

// DefaultTimeout bounds each probe command. The queries are idempotent
// read-only snapshots, so a hung scheduler is reported as unavailable
// rather than retried.
const DefaultTimeout = 5 * time.Second

// Runner executes an external command and returns its stdout.
type Runner interface {
	// Output runs name with args and returns trimmed stdout. Stdout is
	// returned even alongside a non-nil error, because some scontrol
	// queries exit non-zero while still printing usable records.
	Output(ctx context.Context, name string, args ...string) (string, error)
	// LookPath reports whether the named binary is on PATH.
	LookPath(name string) bool
}

// SystemRunner runs real subprocesses with a per-command timeout.
// The context passed by the caller carries interrupt cancellation, so
// in-flight commands are killed, not orphaned.
type SystemRunner struct {
	Timeout time.Duration
}

// NewRunner returns a SystemRunner with the default timeout.
func NewRunner() *SystemRunner {
	return &SystemRunner{Timeout: DefaultTimeout}
}

func (r *SystemRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(cctx, name, args...).Output()
	stdout := strings.TrimSpace(string(out))
	if cctx.Err() == context.DeadlineExceeded {
		return stdout, fmt.Errorf("%s: %w", name, ErrTimeout)
	}
	if err != nil {
		return stdout, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return stdout, nil
}

func (r *SystemRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// IsExitError reports whether err is a plain non-zero exit, as opposed
// to a missing binary, timeout, or cancellation.
func IsExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
