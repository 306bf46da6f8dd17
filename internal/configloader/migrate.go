package configloader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/lint"
)

// MigrationResult contains the result of converting an ESLint config.
type MigrationResult struct {
	// Config is the converted dslint configuration.
	Config *config.Config

	// Warnings contains non-fatal issues encountered during conversion.
	Warnings []string

	// SourcePath is the path to the original ESLint config.
	SourcePath string

	// RulesConverted counts the design-system rule entries carried over.
	RulesConverted int
}

// eslintConfig is the subset of an .eslintrc document the migration reads.
type eslintConfig struct {
	Rules          map[string]any `json:"rules" yaml:"rules"`
	IgnorePatterns any            `json:"ignorePatterns" yaml:"ignorePatterns"`
	Extends        any            `json:"extends" yaml:"extends"`
	Overrides      []any          `json:"overrides" yaml:"overrides"`
}

// ConvertESLintConfig converts the design-system section of an ESLint config
// file to dslint format. Rules from other plugins are skipped with a warning.
func ConvertESLintConfig(path string, catalog *lint.Catalog) (*MigrationResult, error) {
	if IsJavaScriptConfig(path) {
		return nil, fmt.Errorf("cannot convert JavaScript config file %q; please create a dslint config manually", path)
	}
	if catalog == nil {
		catalog = lint.DefaultCatalog
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var raw eslintConfig
	if IsJSONConfig(path) {
		if err := parseJSONC(content, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	} else if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	result := &MigrationResult{
		SourcePath: path,
		Config:     config.NewConfig(),
	}

	processSpecialKeys(&raw, result)

	keys := make([]string, 0, len(raw.Rules))
	for key := range raw.Rules {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		processRuleKey(catalog, key, raw.Rules[key], result)
	}

	return result, nil
}

// parseJSONC parses JSON with comments.
func parseJSONC(content []byte, target any) error {
	// Many .eslintrc files are plain JSON.
	if err := json.Unmarshal(content, target); err == nil {
		return nil
	}

	stripped := stripJSONComments(content)
	if err := json.Unmarshal(stripped, target); err != nil {
		return fmt.Errorf("unmarshal stripped JSON: %w", err)
	}
	return nil
}

// stripJSONComments removes JavaScript-style comments from JSON content.
func stripJSONComments(content []byte) []byte {
	var result []byte
	inString := false
	inSingleComment := false
	inMultiComment := false

	for idx := 0; idx < len(content); idx++ {
		char := content[idx]

		if inSingleComment {
			if char == '\n' {
				inSingleComment = false
				result = append(result, char)
			}
			continue
		}

		if inMultiComment {
			if char == '*' && idx+1 < len(content) && content[idx+1] == '/' {
				inMultiComment = false
				idx++
			}
			continue
		}

		if inString {
			result = append(result, char)
			if char == '\\' && idx+1 < len(content) {
				idx++
				result = append(result, content[idx])
			} else if char == '"' {
				inString = false
			}
			continue
		}

		if char == '"' {
			inString = true
			result = append(result, char)
			continue
		}

		if char == '/' && idx+1 < len(content) {
			switch content[idx+1] {
			case '/':
				inSingleComment = true
				idx++
				continue
			case '*':
				inMultiComment = true
				idx++
				continue
			}
		}

		result = append(result, char)
	}

	return result
}

// processSpecialKeys carries ignorePatterns over and warns about the ESLint
// features that have no dslint equivalent.
func processSpecialKeys(raw *eslintConfig, result *MigrationResult) {
	switch patterns := raw.IgnorePatterns.(type) {
	case string:
		result.Config.Ignore = []string{patterns}
	case []any:
		for _, p := range patterns {
			if s, ok := p.(string); ok {
				result.Config.Ignore = append(result.Config.Ignore, s)
			}
		}
	}

	if raw.Extends != nil {
		result.Warnings = append(result.Warnings,
			"'extends' is not supported; rules inherited from shared configs must be copied manually")
	}
	if len(raw.Overrides) > 0 {
		result.Warnings = append(result.Warnings,
			"'overrides' is not supported; use per-rule allowedFiles options instead")
	}
}

// processRuleKey converts a single ESLint rule entry.
func processRuleKey(catalog *lint.Catalog, key string, value any, result *MigrationResult) {
	if !strings.HasPrefix(key, config.RuleNamespace+"/") {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("rule %q is not a %s rule; skipping", key, config.RuleNamespace))
		return
	}

	name := NormalizeRuleKey(catalog, key)
	if name == "" {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unknown rule %q; skipping", key))
		return
	}

	ruleCfg, err := convertRuleValue(value)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("rule %q: %v; skipping", key, err))
		return
	}

	result.Config.Rules[name] = ruleCfg
	result.RulesConverted++
}

// convertRuleValue converts an ESLint rule setting ("error", 2,
// ["warn", {...}]) to a RuleConfig.
func convertRuleValue(value any) (config.RuleConfig, error) {
	var cfg config.RuleConfig

	level := value
	var options map[string]any
	if list, ok := value.([]any); ok {
		if len(list) == 0 {
			return cfg, errors.New("empty rule setting")
		}
		level = list[0]
		if len(list) > 1 {
			opts, ok := list[1].(map[string]any)
			if !ok {
				return cfg, errors.New("rule options must be an object")
			}
			options = opts
		}
	}

	severity, enabled, err := convertESLintLevel(level)
	if err != nil {
		return cfg, err
	}

	cfg.Enabled = &enabled
	if enabled {
		sev := string(severity)
		cfg.Severity = &sev
	}
	if len(options) > 0 {
		cfg.Options = options
	}

	return cfg, nil
}

// convertESLintLevel maps ESLint levels ("off"|"warn"|"error" or 0|1|2).
func convertESLintLevel(level any) (config.Severity, bool, error) {
	switch typed := level.(type) {
	case string:
		switch strings.ToLower(typed) {
		case "off":
			return "", false, nil
		case "warn":
			return config.SeverityWarning, true, nil
		case "error":
			return config.SeverityError, true, nil
		}
	case int:
		return numericLevel(float64(typed))
	case uint64:
		return numericLevel(float64(typed))
	case int64:
		return numericLevel(float64(typed))
	case float64:
		return numericLevel(typed)
	}
	return "", false, fmt.Errorf("invalid severity %v", level)
}

func numericLevel(level float64) (config.Severity, bool, error) {
	switch level {
	case 0:
		return "", false, nil
	case 1:
		return config.SeverityWarning, true, nil
	case 2:
		return config.SeverityError, true, nil
	default:
		return "", false, fmt.Errorf("invalid severity %v", level)
	}
}

// GenerateMigrationHeader returns a header comment for migrated configs.
func GenerateMigrationHeader(sourcePath string) string {
	return fmt.Sprintf(`# dslint configuration
# Migrated from: %s
# See: https://github.com/yaklabco/dslint
`, filepath.Base(sourcePath))
}

// CanMigrate returns true if the config file can be migrated.
// JavaScript config files cannot be migrated.
func CanMigrate(path string) bool {
	return !IsJavaScriptConfig(path)
}

// GetMigrationWarning returns a warning message for files that cannot be migrated.
func GetMigrationWarning(path string) string {
	if IsJavaScriptConfig(path) {
		return fmt.Sprintf("JavaScript ESLint config (%s) cannot be converted automatically; "+
			"please create a .dslint.yml file manually or run 'dslint init'", filepath.Base(path))
	}
	return ""
}

// DetectConfigFormat determines the format of a config file.
func DetectConfigFormat(path string) string {
	if IsJSONConfig(path) {
		return "json"
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".js", ".cjs", ".mjs":
		return "javascript"
	default:
		return "unknown"
	}
}
