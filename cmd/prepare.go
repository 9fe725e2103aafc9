package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/relcut/relcut/internal/executor"
	"github.com/relcut/relcut/internal/forge"
	"github.com/relcut/relcut/internal/gitops"
	"github.com/relcut/relcut/internal/pipeline"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Prepare a release pull request for the current release branch",
	// Binding at PreRun keeps the shared flag names (repo, ref, ...) from
	// colliding with the notes command's bindings.
	PreRun: func(cmd *cobra.Command, args []string) {
		_ = viper.BindPFlags(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, repo, err := splitRepo(viper.GetString("repo"))
		if err != nil {
			return err
		}
		dry := viper.GetBool("dry-run")

		cfg := pipeline.Config{
			Owner: owner,
			Repo:  repo,
			Ref:   viper.GetString("ref"),

			CommitterName:  viper.GetString("committer-name"),
			CommitterEmail: viper.GetString("committer-email"),

			ChangelogPath: viper.GetString("changelog"),
			HeadingLevel:  viper.GetString("heading-level"),
			ReadmePath:    viper.GetString("readme"),
			RootFilePath:  viper.GetString("root-file"),
			ManifestPath:  viper.GetString("manifest"),

			TestCommand:     viper.GetString("test-command"),
			GraphDir:        viper.GetString("graph-dir"),
			GraphCommand:    viper.GetString("graph-command"),
			OptimizeCommand: viper.GetString("optimize-command"),

			BaseBranch: viper.GetString("base"),
			Remote:     viper.GetString("remote"),
			WorkDir:    viper.GetString("workdir"),
			DryRun:     dry,
		}

		p := &pipeline.Pipeline{
			Config: cfg,
			Forge:  forge.NewClient(githubToken(), owner, repo),
			Git: &gitops.Git{
				Dir:    cfg.WorkDir,
				Name:   cfg.CommitterName,
				Email:  cfg.CommitterEmail,
				DryRun: dry,
				Out:    os.Stdout,
			},
			Files:  pipeline.DirStore{Root: cfg.WorkDir},
			Runner: executor.New(dry, true),
			Out:    os.Stdout,
		}
		return p.Run(cmd.Context())
	},
}

func init() {
	f := prepareCmd.Flags()
	f.String("repo", "", "Repository as owner/name")
	f.String("ref", "", "Release ref, e.g. refs/heads/release-1.3.0")
	f.String("committer-name", "Release Bot", "Committer name for release commits")
	f.String("committer-email", "release@invalid", "Committer email for release commits")
	f.String("changelog", "CHANGELOG.md", "Changelog filename")
	f.String("heading-level", "##", "Changelog heading level")
	f.String("readme", "README.md", "README file to rewrite (empty disables)")
	f.String("root-file", "", "Library root file carrying the canonical doc URL (empty disables)")
	f.String("manifest", "Cargo.toml", "Package manifest")
	f.String("test-command", "", "Test suite command (empty disables)")
	f.String("graph-dir", "", "Dependency graph output directory (empty disables)")
	f.String("graph-command", "", "Command that renders the dependency graph")
	f.String("optimize-command", "", "Command that optimizes the rendered graph")
	f.String("base", "main", "Base branch for the pull request")
	f.String("remote", "origin", "Git remote to push to")
	f.String("workdir", ".", "Working tree of the package being released")
	f.Bool("dry-run", false, "Report actions without mutating files, git, or the remote")

	rootCmd.AddCommand(prepareCmd)
}
