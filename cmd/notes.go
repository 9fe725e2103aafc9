package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/relcut/relcut/internal/forge"
	"github.com/relcut/relcut/internal/manifest"
	"github.com/relcut/relcut/internal/notes"
	"github.com/relcut/relcut/internal/resolve"
)

// notesCmd prints the changelog fragment for the pending release without
// touching any file, so an operator can review it first.
var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Print the changelog fragment for the pending release",
	PreRun: func(cmd *cobra.Command, args []string) {
		_ = viper.BindPFlags(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, repo, err := splitRepo(viper.GetString("repo"))
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(filepath.Join(viper.GetString("workdir"), viper.GetString("manifest")))
		if err != nil {
			return fmt.Errorf("read manifest: %w", err)
		}
		pkg, err := manifest.Parse(string(raw))
		if err != nil {
			return err
		}

		pair, err := resolve.Resolve(pkg.Version, viper.GetString("ref"))
		if errors.Is(err, resolve.ErrNoReleaseNeeded) {
			fmt.Printf("%s is already at %s, nothing to do\n", pkg.Name, pkg.Version)
			return nil
		}
		if err != nil {
			return err
		}

		client := forge.NewClient(githubToken(), owner, repo)
		collector := notes.Collector{Releases: client, Pulls: client}
		cutoff, err := collector.Cutoff(cmd.Context(), pair.Old.String())
		if err != nil {
			return err
		}
		prs, err := collector.Collect(cmd.Context(), cutoff)
		if err != nil {
			return err
		}
		fmt.Println(notes.Render(prs))
		return nil
	},
}

func init() {
	f := notesCmd.Flags()
	f.String("repo", "", "Repository as owner/name")
	f.String("ref", "", "Release ref, e.g. refs/heads/release-1.3.0")
	f.String("manifest", "Cargo.toml", "Package manifest")
	f.String("workdir", ".", "Working tree of the package being released")

	rootCmd.AddCommand(notesCmd)
}
