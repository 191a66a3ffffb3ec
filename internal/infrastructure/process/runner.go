// Package process runs the external command-line collaborators of the
// pipeline: the docking engine, the structure converter and the optional
// validity checker.
package process

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/turtacn/tinydock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/tinydock/pkg/errors"
)

// stderrTailBytes bounds the stderr captured into an error.
const stderrTailBytes = 2048

// Runner runs a program to completion.  A non-zero exit, a failure to start,
// or the end of ctx is returned as an error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs programs with os/exec.  Stdout is discarded; the tail of
// stderr is attached to the returned error.
type ExecRunner struct {
	logger logging.Logger

	// WaitDelay bounds how long Run waits for output pipes after the process
	// is killed on context end.
	WaitDelay time.Duration
}

// NewExecRunner creates an ExecRunner.  A nil logger discards output.
func NewExecRunner(logger logging.Logger) *ExecRunner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ExecRunner{logger: logger, WaitDelay: 5 * time.Second}
}

// Run implements Runner.  When ctx ends first, the returned error wraps
// ctx.Err() so callers can tell a timeout from a non-zero exit with
// errors.Is(err, context.DeadlineExceeded).
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = r.WaitDelay
	tail := &tailBuffer{limit: stderrTailBytes}
	cmd.Stderr = tail

	r.logger.Debug("running command", logging.String("cmd", name), logging.Strings("args", args))

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrap(ctxErr, errors.CodeTimeout, "command did not finish").
			WithDetail(commandLine(name, args))
	}
	detail := commandLine(name, args)
	if s := strings.TrimSpace(tail.String()); s != "" {
		detail += ": " + s
	}
	return errors.Wrap(err, errors.CodeExternalTool, "command failed").WithDetail(detail)
}

func commandLine(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(p)
	t.buf.Write(p)
	if over := t.buf.Len() - t.limit; over > 0 {
		t.buf.Next(over)
	}
	return n, nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}

//Personal.AI order the ending
