// Package executor provides command execution for pipeline stages that
// shell out: the test suite and the dependency-graph renderer.
package executor

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/relcut/relcut/internal/security"
)

// Runner is an interface for executing commands. It allows tests to inject
// fake implementations without running real processes.
type Runner interface {
	Execute(ctx context.Context, command string, cwd string, stdout io.Writer, stderr io.Writer) error
}

// Executor runs configured command strings as direct process invocations.
type Executor struct {
	DryRun  bool
	Verbose bool
}

// New returns a Runner backed by the real Executor implementation.
func New(dry, verbose bool) Runner {
	return &Executor{DryRun: dry, Verbose: verbose}
}

// sanitizeCommand normalizes unicode characters that editors commonly
// insert into command strings (smart quotes, NBSP, zero-width runes).
func sanitizeCommand(s string) string {
	r := strings.NewReplacer(
		"‘", "'", // left single quote
		"’", "'", // right single quote
		"“", "\"", // left double quote
		"”", "\"", // right double quote
		" ", " ", // NO-BREAK SPACE
		"​", "", // zero width space
	)
	rp := r.Replace(s)
	return strings.Map(func(c rune) rune {
		if c == 0 {
			return -1
		}
		return c
	}, rp)
}

// Execute splits command with shell quoting rules and runs it directly,
// without an intermediate shell. If cwd is non-empty, the command runs in
// that directory. stdout and stderr are written to the provided writers.
func (e *Executor) Execute(ctx context.Context, command string, cwd string, stdout io.Writer, stderr io.Writer) error {
	command = strings.TrimSpace(sanitizeCommand(command))
	if err := security.CheckAllowed(command); err != nil {
		return fmt.Errorf("refusing to run %q: %w", command, err)
	}

	parts, err := shellquote.Split(command)
	if err != nil {
		return fmt.Errorf("parse command %q: %w", command, err)
	}

	if e.DryRun {
		if e.Verbose && stdout != nil {
			fmt.Fprintf(stdout, "dry-run: %s\n", command)
		}
		return nil
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = cwd
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %q: %w", command, err)
	}
	return nil
}
