// Package pipeline sequences a release preparation run: resolve the version
// bump, regenerate the dependency graph, rewrite the changelog and
// version-bearing files, run the tests, and push a release pull request.
// Every side effect goes through a collaborator interface so the whole
// pipeline is testable with fakes.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/relcut/relcut/internal/changelog"
	"github.com/relcut/relcut/internal/executor"
	"github.com/relcut/relcut/internal/manifest"
	"github.com/relcut/relcut/internal/notes"
	"github.com/relcut/relcut/internal/resolve"
	"github.com/relcut/relcut/internal/rewrite"
)

// Forge is the hosting-service surface the pipeline needs: release listing
// and pull-request search for the collector, plus pull-request creation.
type Forge interface {
	notes.ReleaseLister
	notes.PullSource
	CreatePullRequest(ctx context.Context, head, base, title, body string) (string, error)
}

// Git commits and pushes on behalf of the pipeline.
type Git interface {
	CommitAll(ctx context.Context, message string) error
	Push(ctx context.Context, remote, branch string) error
}

// FileStore reads and fully replaces text files.
type FileStore interface {
	Read(path string) (string, error)
	Write(path string, text string) error
}

// Config carries every input of a run. There is no ambient state: the
// orchestrator only sees what is passed here.
type Config struct {
	Owner string
	Repo  string
	Ref   string

	CommitterName  string
	CommitterEmail string

	ChangelogPath string
	HeadingLevel  string
	ReadmePath    string
	RootFilePath  string
	ManifestPath  string

	TestCommand     string
	GraphDir        string
	GraphCommand    string
	OptimizeCommand string

	BaseBranch string
	Remote     string
	WorkDir    string

	DryRun bool
	Now    func() time.Time
}

func (c *Config) applyDefaults() {
	if c.ChangelogPath == "" {
		c.ChangelogPath = "CHANGELOG.md"
	}
	if c.HeadingLevel == "" {
		c.HeadingLevel = "##"
	}
	if c.ManifestPath == "" {
		c.ManifestPath = "Cargo.toml"
	}
	if c.BaseBranch == "" {
		c.BaseBranch = "main"
	}
	if c.Remote == "" {
		c.Remote = "origin"
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Pipeline binds the configuration to its collaborators.
type Pipeline struct {
	Config Config
	Forge  Forge
	Git    Git
	Files  FileStore
	Runner executor.Runner
	Out    io.Writer
}

func (p *Pipeline) stage(name string) {
	if p.Out != nil {
		fmt.Fprintf(p.Out, "-> %s\n", name)
	}
}

func (p *Pipeline) write(path, text string) error {
	if p.Config.DryRun {
		if p.Out != nil {
			fmt.Fprintf(p.Out, "dry-run: write %s\n", path)
		}
		return nil
	}
	return p.Files.Write(path, text)
}

// Run executes the pipeline. The first failing stage aborts the run;
// commits already made are left in place for the operator to inspect.
// A ref that carries the current version exits successfully with no side
// effects.
func (p *Pipeline) Run(ctx context.Context) error {
	cfg := &p.Config
	cfg.applyDefaults()

	p.stage("resolve version")
	manifestText, err := p.Files.Read(cfg.ManifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	pkg, err := manifest.Parse(manifestText)
	if err != nil {
		return err
	}
	pair, err := resolve.Resolve(pkg.Version, cfg.Ref)
	if errors.Is(err, resolve.ErrNoReleaseNeeded) {
		if p.Out != nil {
			fmt.Fprintf(p.Out, "%s is already at %s, nothing to do\n", pkg.Name, pkg.Version)
		}
		return nil
	}
	if err != nil {
		return err
	}
	oldV, newV := pair.Old.String(), pair.New.String()
	branch := strings.TrimPrefix(cfg.Ref, "refs/heads/")

	if cfg.GraphDir != "" {
		p.stage("regenerate dependency graph")
		if err := p.renderGraph(ctx); err != nil {
			return err
		}
		if err := p.Git.CommitAll(ctx, "Update dependency graph"); err != nil {
			return err
		}
	}

	p.stage("collect release notes")
	collector := notes.Collector{Releases: p.Forge, Pulls: p.Forge}
	cutoff, err := collector.Cutoff(ctx, oldV)
	if err != nil {
		return err
	}
	prs, err := collector.Collect(ctx, cutoff)
	if err != nil {
		return err
	}
	fragment := notes.Render(prs)

	p.stage("update changelog")
	doc, err := p.Files.Read(cfg.ChangelogPath)
	if err != nil {
		return fmt.Errorf("read changelog: %w", err)
	}
	doc, err = changelog.Insert(doc, cfg.HeadingLevel, newV, fragment, cfg.Now())
	if err != nil {
		return err
	}
	if err := p.write(cfg.ChangelogPath, doc); err != nil {
		return fmt.Errorf("write changelog: %w", err)
	}
	if err := p.Git.CommitAll(ctx, "Update changelog for "+newV); err != nil {
		return err
	}

	p.stage("update version references")
	if err := p.rewriteDocs(pkg.Name, pair); err != nil {
		return err
	}
	if err := p.Git.CommitAll(ctx, "Update version references for "+newV); err != nil {
		return err
	}

	p.stage("bump manifest version")
	manifestText = rewrite.Apply(manifestText, rewrite.ManifestRules(oldV, newV))
	if err := p.write(cfg.ManifestPath, manifestText); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	if cfg.TestCommand != "" {
		p.stage("run tests")
		if err := p.Runner.Execute(ctx, cfg.TestCommand, cfg.WorkDir, p.Out, p.Out); err != nil {
			return fmt.Errorf("tests failed: %w", err)
		}
	}

	if err := p.Git.CommitAll(ctx, "Bump version to "+newV); err != nil {
		return err
	}

	p.stage("push " + branch)
	if err := p.Git.Push(ctx, cfg.Remote, branch); err != nil {
		return err
	}

	p.stage("open pull request")
	if cfg.DryRun {
		if p.Out != nil {
			fmt.Fprintf(p.Out, "dry-run: pull request %s -> %s\n", branch, cfg.BaseBranch)
		}
		return nil
	}
	url, err := p.Forge.CreatePullRequest(ctx, branch, cfg.BaseBranch, "Release "+newV, fragment)
	if err != nil {
		return err
	}
	if p.Out != nil {
		fmt.Fprintln(p.Out, url)
	}
	return nil
}

// rewriteDocs applies the README and library-root rule sets. Either target
// may be absent from the configuration; a rule matching nothing is fine.
func (p *Pipeline) rewriteDocs(name string, pair resolve.Pair) error {
	if p.Config.ReadmePath != "" {
		text, err := p.Files.Read(p.Config.ReadmePath)
		if err != nil {
			return fmt.Errorf("read readme: %w", err)
		}
		text = rewrite.Apply(text, rewrite.ReadmeRules(name, resolve.MajorMinor(pair.New)))
		if err := p.write(p.Config.ReadmePath, text); err != nil {
			return fmt.Errorf("write readme: %w", err)
		}
	}
	if p.Config.RootFilePath != "" {
		text, err := p.Files.Read(p.Config.RootFilePath)
		if err != nil {
			return fmt.Errorf("read root file: %w", err)
		}
		text = rewrite.Apply(text, rewrite.RootURLRules(name, pair.Old.String(), pair.New.String()))
		if err := p.write(p.Config.RootFilePath, text); err != nil {
			return fmt.Errorf("write root file: %w", err)
		}
	}
	return nil
}

// renderGraph runs the configured graph and optimizer commands. The stage
// only exists when an output directory is configured.
func (p *Pipeline) renderGraph(ctx context.Context) error {
	for _, command := range []string{p.Config.GraphCommand, p.Config.OptimizeCommand} {
		if command == "" {
			continue
		}
		if err := p.Runner.Execute(ctx, command, p.Config.WorkDir, p.Out, p.Out); err != nil {
			return fmt.Errorf("render dependency graph: %w", err)
		}
	}
	return nil
}
