// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support, validation, and ESLint config migration.
package configloader

import (
	"bufio"
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/dslint/internal/logging"
	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/lint"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	// If set, project config discovery is skipped.
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// IgnoreESLint skips ESLint config detection and migration.
	IgnoreESLint bool

	// Verbose enables logging of configuration resolution steps.
	Verbose bool

	// NonInteractive disables interactive prompts (e.g., in CI).
	NonInteractive bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config

	// Catalog resolves rule keys. Defaults to lint.DefaultCatalog.
	Catalog *lint.Catalog
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string

	// MigrationPerformed is true if an ESLint config was converted.
	MigrationPerformed bool
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (DSLINT_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.dslint.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/dslint/config.yaml)
//  6. System config (/etc/dslint/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{
		Paths: &ConfigPaths{},
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = lint.DefaultCatalog
	}

	// Resolve working directory
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	// Start with defaults
	cfg := config.NewConfig()

	// Discover config paths
	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	result.Paths = paths

	// Handle explicit config path
	if opts.ExplicitPath != "" {
		result.Paths.Explicit = opts.ExplicitPath
	}

	if !opts.IgnoreESLint {
		migrated, err := handleESLintMigration(paths, result, opts, catalog, workDir)
		if err != nil {
			return nil, err
		}
		if migrated {
			// Re-discover paths after migration
			paths, err = DiscoverPaths(ctx, workDir)
			if err != nil {
				return nil, fmt.Errorf("discover paths after migration: %w", err)
			}
			result.Paths = paths
		}
	}

	// Load and merge in order (lowest to highest precedence)
	fileLayers := []struct {
		name string
		path string
		skip bool
	}{
		{name: "system", path: paths.System, skip: opts.IgnoreSystemConfig},
		{name: "user", path: paths.User, skip: opts.IgnoreUserConfig},
		{name: "project", path: paths.Project, skip: opts.IgnoreProjectConfig},
		{name: "explicit", path: opts.ExplicitPath},
	}
	for _, fl := range fileLayers {
		if fl.skip || fl.path == "" {
			continue
		}
		layer, err := loadConfigFile(fl.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", fl.name, err)
		}
		cfg = mergeLayer(cfg, layer, catalog, result)
		result.LoadedFrom = append(result.LoadedFrom, fl.path)
	}

	// Environment variables
	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	// CLI config (highest precedence)
	cfg = mergeLayer(cfg, opts.CLIConfig, catalog, result)

	validation := Validate(cfg, catalog)
	if !validation.Valid() {
		return nil, validation.Err()
	}

	// Add validation warnings to result
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Message)
	}

	logging.FromContext(ctx).Debug("configuration loaded",
		logging.FieldPaths, result.LoadedFrom,
		logging.FieldRules, len(cfg.Rules),
	)

	result.Config = cfg
	return result, nil
}

// loadConfigFile loads a configuration from a YAML file.
func loadConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := &config.Config{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	// Ensure Rules map is initialized
	if cfg.Rules == nil {
		cfg.Rules = make(map[string]config.RuleConfig)
	}

	return cfg, nil
}

// handleESLintMigration checks for an ESLint config and offers migration.
func handleESLintMigration(
	paths *ConfigPaths,
	result *LoadResult,
	opts LoadOptions,
	catalog *lint.Catalog,
	workDir string,
) (bool, error) {
	// An existing dslint config wins.
	if paths.Project != "" || opts.ExplicitPath != "" {
		return false, nil
	}

	if paths.ESLint == "" {
		return false, nil
	}

	if !CanMigrate(paths.ESLint) {
		result.Warnings = append(result.Warnings, GetMigrationWarning(paths.ESLint))
		return false, nil
	}

	if opts.NonInteractive || !isInteractive() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("found %s but no .dslint.yml; run 'dslint migrate' to convert", paths.ESLint))
		return false, nil
	}

	shouldMigrate, err := promptMigration(paths.ESLint)
	if err != nil {
		return false, err
	}
	if !shouldMigrate {
		return false, nil
	}

	migrationResult, err := ConvertESLintConfig(paths.ESLint, catalog)
	if err != nil {
		return false, fmt.Errorf("convert ESLint config: %w", err)
	}

	result.Warnings = append(result.Warnings, migrationResult.Warnings...)

	outputPath := filepath.Join(workDir, ".dslint.yml")
	if err := WriteConfig(migrationResult.Config, outputPath, GenerateMigrationHeader(paths.ESLint)); err != nil {
		return false, fmt.Errorf("write migrated config: %w", err)
	}

	result.MigrationPerformed = true
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("migrated %s to %s; ESLint keeps its own config", paths.ESLint, outputPath))

	return true, nil
}

// promptMigration asks the user if they want to migrate.
func promptMigration(eslintPath string) (bool, error) {
	if _, err := os.Stdout.WriteString("Found " + eslintPath + " but no .dslint.yml\n"); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}
	if _, err := os.Stdout.WriteString("Convert its design-system rules to dslint format? [Y/n] "); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "" || response == "y" || response == "yes", nil
}

// isInteractive returns true if stdin is a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// WriteConfig writes a configuration to a YAML file with a header comment.
func WriteConfig(cfg *config.Config, path, header string) error {
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if header == "" {
		header = `# dslint configuration
# See: https://github.com/yaklabco/dslint
`
	}
	fullContent := header + "\n" + string(content)

	if err := os.WriteFile(path, []byte(fullContent), configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// canonicalRules returns rules keyed by canonical rule name, resolving
// qualified names and aliases. Unknown keys are kept for validation to
// report. If a rule is configured under two keys, it warns and keeps the
// entry whose key sorts last.
func canonicalRules(rules map[string]config.RuleConfig, catalog *lint.Catalog, result *LoadResult) map[string]config.RuleConfig {
	if len(rules) == 0 {
		return nil
	}

	normalized := make(map[string]config.RuleConfig, len(rules))
	seen := make(map[string]string) // canonical name -> original key

	for _, key := range slices.Sorted(maps.Keys(rules)) {
		ruleCfg := rules[key]
		name := NormalizeRuleKey(catalog, key)
		if name == "" {
			normalized[key] = ruleCfg
			continue
		}

		if originalKey, exists := seen[name]; exists {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("duplicate rule configuration: %q and %q both refer to %s; using %q",
					originalKey, key, name, key))
		}

		seen[name] = key
		normalized[name] = ruleCfg
	}

	return normalized
}
