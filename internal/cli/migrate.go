package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/dslint/internal/configloader"
	"github.com/yaklabco/dslint/internal/logging"
	"github.com/yaklabco/dslint/pkg/lint"
)

// migrateFlags holds the flags for the migrate command.
type migrateFlags struct {
	force  bool
	output string
	input  string
}

func newMigrateCommand() *cobra.Command {
	flags := &migrateFlags{}

	cmd := &cobra.Command{
		Use:   "migrate [input]",
		Short: "Convert an ESLint configuration to dslint format",
		Long: `Convert the design-system rules of an existing ESLint configuration file
(.eslintrc.json, .eslintrc, .eslintrc.yaml, etc.) to dslint format (.dslint.yml).

If no input file is specified, the command searches for an ESLint
configuration file in the current directory and its parents.

Only "design-system/*" rules are converted; rules from other plugins are
reported and skipped. JavaScript configuration files (.eslintrc.js,
eslint.config.js, ...) cannot be converted automatically.

Examples:
  dslint migrate                        Auto-detect and convert ESLint config
  dslint migrate .eslintrc.json         Convert specific file
  dslint migrate --output config.yml    Write to custom output path`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.input = args[0]
			}
			return runMigrate(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing output file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", ".dslint.yml", "Output file path")

	return cmd
}

func runMigrate(flags *migrateFlags) error {
	logger := logging.NewInteractive("info")

	inputPath := flags.input
	if inputPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return withExitCode(ExitIOError, fmt.Errorf("get working directory: %w", err))
		}

		inputPath = configloader.FindESLintConfig(cwd)
		if inputPath == "" {
			return withExitCode(ExitInvalidUsage, errors.New("no ESLint configuration file found"))
		}

		logger.Info("found ESLint config", logging.FieldPath, inputPath)
	}

	if _, err := os.Stat(inputPath); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("input file: %w", err))
	}

	if !configloader.CanMigrate(inputPath) {
		return withExitCode(ExitConfigError,
			fmt.Errorf("migration not supported: %s", configloader.GetMigrationWarning(inputPath)))
	}

	absOutput, err := filepath.Abs(flags.output)
	if err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("resolve output path: %w", err))
	}

	if _, err := os.Stat(absOutput); err == nil {
		if !flags.force {
			return withExitCode(ExitInvalidUsage,
				fmt.Errorf("output file %q already exists; use --force to overwrite", flags.output))
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	result, err := configloader.ConvertESLintConfig(inputPath, lint.DefaultCatalog)
	if err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("convert configuration: %w", err))
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}

	if validation := configloader.Validate(result.Config, lint.DefaultCatalog); !validation.Valid() {
		return withExitCode(ExitConfigError, fmt.Errorf("converted configuration is invalid: %w", validation.Err()))
	}

	header := configloader.GenerateMigrationHeader(inputPath)
	if err := configloader.WriteConfig(result.Config, absOutput, header); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("write output file: %w", err))
	}

	logger.Info("migration complete",
		logging.FieldInput, inputPath,
		logging.FieldOutput, flags.output,
		logging.FieldRules, result.RulesConverted,
	)

	if len(result.Warnings) > 0 {
		logger.Warn("review warnings above and verify the migrated configuration")
	}

	return nil
}
