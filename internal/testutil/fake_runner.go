package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Call is one recorded invocation of FakeRunner.
type Call struct {
	Name string
	Args []string
}

// Flag returns the value following flag in the arguments, or "".
func (c Call) Flag(flag string) string {
	for i := 0; i < len(c.Args)-1; i++ {
		if c.Args[i] == flag {
			return c.Args[i+1]
		}
	}
	return ""
}

// FakeRunner stands in for external programs.  Handler decides the outcome
// of each call; a nil Handler succeeds without side effects.
type FakeRunner struct {
	Handler func(ctx context.Context, call Call) error

	mu    sync.Mutex
	calls []Call
}

// Run records the call and delegates to Handler.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) error {
	call := Call{Name: name, Args: append([]string(nil), args...)}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	if f.Handler == nil {
		return nil
	}
	return f.Handler(ctx, call)
}

// Calls returns a copy of the recorded calls.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// WriteFile creates path and its parent directories with content.  It is a
// helper for handlers that emulate a program writing its output.
func WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// VinaLog renders an engine log with the given pose rows, each formatted as
// "rank affinity lb ub".  The layout has the banner, a blank line, the
// three-line table header, the rows, and a trailing status line.
func VinaLog(rows ...string) string {
	var sb strings.Builder
	for i := 0; i < 24; i++ {
		sb.WriteString("# AutoDock Vina banner line\n")
	}
	sb.WriteString("Refining results ... done.\n")
	sb.WriteString("\n")
	sb.WriteString("mode |   affinity | dist from best mode\n")
	sb.WriteString("     | (kcal/mol) | rmsd l.b.| rmsd u.b.\n")
	sb.WriteString("-----+------------+----------+----------\n")
	for _, r := range rows {
		sb.WriteString(r)
		sb.WriteString("\n")
	}
	sb.WriteString("Writing output ... done.\n")
	return sb.String()
}

//Personal.AI order the ending
