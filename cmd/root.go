package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/relcut/relcut/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "relcut",
	Short: "relcut prepares release pull requests",
	Long:  "relcut detects a version bump from a release branch, rewrites the changelog from merged pull requests, updates version strings, and opens the release pull request",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env file is how CI secrets usually reach local runs.
		_ = godotenv.Load()
		viper.SetEnvPrefix("relcut")
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv()
		if path, err := config.File(); err == nil {
			if _, statErr := os.Stat(path); statErr == nil {
				viper.SetConfigFile(path)
				_ = viper.ReadInConfig()
			}
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("relcut: run 'relcut --help' to see available commands")
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// githubToken returns the API token from the environment. GITHUB_TOKEN is
// what hosted runners export; RELCUT_GITHUB_TOKEN also works.
func githubToken() string {
	if t := os.Getenv("GITHUB_TOKEN"); t != "" {
		return t
	}
	return viper.GetString("github-token")
}

// splitRepo parses an "owner/name" repository identifier.
func splitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/name", repo)
	}
	return owner, name, nil
}
