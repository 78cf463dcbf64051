package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultCommandTimeout bounds every external call the pipeline makes.
const DefaultCommandTimeout = 10 * time.Second

// Runner executes external commands with a bounded timeout and stderr
// capture. Stdin is wired before the process starts so short-lived
// synthesizers cannot race us reading it.
type Runner struct {
	timeout time.Duration
}

// NewRunner creates a Runner. A non-positive timeout falls back to
// DefaultCommandTimeout.
func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &Runner{timeout: timeout}
}

// Run executes name with args and returns stdout. A deadline already on ctx
// wins over the Runner's own timeout.
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return r.run(ctx, "", name, args...)
}

// RunWithStdin executes name with args, feeding input on stdin.
func (r *Runner) RunWithStdin(ctx context.Context, input, name string, args ...string) ([]byte, error) {
	return r.run(ctx, input, name, args...)
}

func (r *Runner) run(ctx context.Context, input, name string, args ...string) ([]byte, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	log.Debug("subprocess finished",
		"command", name,
		"args", args,
		"duration", time.Since(start),
		"error", err)

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s timed out after %v", name, r.timeout)
		}
		return nil, fmt.Errorf("%s canceled: %w", name, ctxErr)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return stdout.Bytes(), nil
}
