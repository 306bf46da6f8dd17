// Package cli provides the Cobra command structure for dslint.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/dslint/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root dslint command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "dslint",
		Short: "A design-system linter for React and TypeScript codebases",
		Long: `dslint enforces design-system conventions in JavaScript and TypeScript
sources and in the code blocks of Markdown and MDX documentation.

Its rules catch raw Tailwind palette colors, hard-coded API paths outside the
API client layer, data fetching inside presentational components, i18n keys in
Storybook stories, and redundant i18n key properties. Fixable violations are
rewritten in place with conflict detection, dry-run diffs, and optional backups.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newLintCommand(info))
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
