// Package process runs external programs for the install pipeline.
//
// Every invocation is synchronous and bounded by a context. Installers are
// expected to finish writing files before Run returns; callers never poll.
package process

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
)

// ErrTimeout indicates the process did not exit before its deadline.
var ErrTimeout = errors.New("process timed out")

// Runner executes a program and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs programs with os/exec. Output is streamed to Stdout and
// Stderr (os.Stdout / os.Stderr when nil); the last few KiB of stderr are
// kept for error messages.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer

	// WaitDelay bounds how long Run waits for output pipes after the
	// process is killed on cancellation.
	WaitDelay time.Duration
}

// Run starts name with args and waits for it to exit.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	tail := &tailBuffer{max: 4096}
	cmd.Stdout = stdout
	cmd.Stderr = io.MultiWriter(stderr, tail)
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = 10 * time.Second
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
		return errors.Wrapf(ErrTimeout, "%s", name)
	}
	if msg := strings.TrimSpace(tail.String()); msg != "" {
		return errors.WithDetail(errors.Wrapf(err, "running %s", name), msg)
	}
	return errors.Wrapf(err, "running %s", name)
}

// RunWithTimeout runs name under a deadline of timeout. A zero timeout means
// the parent context is the only bound.
func RunWithTimeout(ctx context.Context, r Runner, timeout time.Duration, name string, args ...string) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	err := r.Run(ctx, name, args...)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		return errors.Wrapf(ErrTimeout, "%s after %s: %v", name, timeout, err)
	}
	return err
}

// ExitCode extracts the process exit code from err, or -1.
func ExitCode(err error) int {
	var exitErr interface{ ExitCode() int }
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	buf bytes.Buffer
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf.Write(p)
	if over := t.buf.Len() - t.max; over > 0 {
		t.buf.Next(over)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return t.buf.String()
}
