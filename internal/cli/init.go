package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/dslint/internal/logging"
	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/lint/rules"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
	pack   string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new dslint configuration file",
		Long: `Create a new .dslint.yml configuration file in the current directory
with sensible defaults. The file can be customized to enable/disable rules,
change severities, and configure rule options.

Examples:
  dslint init                       Create minimal .dslint.yml
  dslint init --full                Create full config with all rules documented
  dslint init --pack strict         Start from the strict rule pack
  dslint init --format json         Create .dslint.json instead
  dslint init --output custom.yml   Write to a custom file path`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with all rules documented")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .dslint.yml or .dslint.json)")
	cmd.Flags().StringVar(&flags.pack, "pack", "",
		"Start from a rule pack: "+strings.Join(rules.PackNames(), ", "))

	return cmd
}

func runInit(flags *initFlags) error {
	logger := logging.NewInteractive("info")

	if flags.format != "yaml" && flags.format != "json" {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("invalid format %q: must be yaml or json", flags.format))
	}
	if flags.pack != "" && flags.format != "yaml" {
		return withExitCode(ExitInvalidUsage, errors.New("--pack requires --format yaml"))
	}
	if flags.pack != "" && flags.full {
		return withExitCode(ExitInvalidUsage, errors.New("--pack and --full cannot be combined"))
	}

	outputPath := flags.output
	if outputPath == "" {
		if flags.format == "json" {
			outputPath = ".dslint.json"
		} else {
			outputPath = ".dslint.yml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("resolve path: %w", err))
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return withExitCode(ExitInvalidUsage,
				fmt.Errorf("file %q already exists; use --force to overwrite", outputPath))
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := initContent(flags)
	if err != nil {
		return withExitCode(ExitInvalidUsage, err)
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("write file: %w", err))
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)

	switch {
	case flags.pack != "":
		logger.Info("configuration seeded from rule pack", logging.FieldName, flags.pack)
	case flags.full:
		logger.Info("full template includes all rules with documentation")
	}

	logger.Info("customize your configuration by editing the file")
	logger.Info("run 'dslint rules' to see all available rules")

	return nil
}

// initContent renders the configuration file for flags.
func initContent(flags *initFlags) ([]byte, error) {
	if flags.pack == "" {
		content, err := config.GenerateTemplate(config.TemplateOptions{
			Full:   flags.full,
			Format: flags.format,
		})
		if err != nil {
			return nil, fmt.Errorf("generate template: %w", err)
		}
		return content, nil
	}

	pack := rules.PackByName(flags.pack)
	if pack == nil {
		return nil, fmt.Errorf("unknown pack %q; available packs: %s",
			flags.pack, strings.Join(rules.PackNames(), ", "))
	}

	cfg := config.NewConfig()
	cfg.Rules = pack.Rules

	header := fmt.Sprintf("%s\n#\n# Pack: %s\n# %s\n", config.DefaultTemplateHeader(), pack.Name, pack.Description)
	content, err := cfg.ToYAMLWithHeader(header)
	if err != nil {
		return nil, fmt.Errorf("serialize configuration: %w", err)
	}
	return content, nil
}
