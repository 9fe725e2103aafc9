// Package gitops wraps the git commands the pipeline needs: staging and
// committing each logical change, and pushing the release branch.
package gitops

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Git runs git against a working tree with a fixed committer identity.
type Git struct {
	Dir    string
	Name   string
	Email  string
	DryRun bool
	Out    io.Writer
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	if g.DryRun {
		if g.Out != nil {
			fmt.Fprintf(g.Out, "dry-run: git %s\n", strings.Join(args, " "))
		}
		return "", nil
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(errb.String()))
	}
	return out.String(), nil
}

// CommitAll stages every change in the tree and commits it with message.
// A clean tree is not an error; the commit is skipped so that no-op
// rewrites do not produce empty commits.
func (g *Git) CommitAll(ctx context.Context, message string) error {
	if _, err := g.run(ctx, "add", "-A"); err != nil {
		return err
	}
	if !g.DryRun {
		status, err := g.run(ctx, "status", "--porcelain")
		if err != nil {
			return err
		}
		if strings.TrimSpace(status) == "" {
			return nil
		}
	}
	_, err := g.run(ctx,
		"-c", "user.name="+g.Name,
		"-c", "user.email="+g.Email,
		"commit", "-m", message)
	return err
}

// Push publishes branch to remote.
func (g *Git) Push(ctx context.Context, remote, branch string) error {
	_, err := g.run(ctx, "push", remote, branch)
	return err
}

// CurrentBranch reports the checked-out branch name.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
