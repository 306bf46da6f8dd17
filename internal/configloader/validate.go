package configloader

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/lint"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "rules.no-raw-tailwind-colors.severity").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err joins every validation error, or returns nil when valid.
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i := range r.Errors {
		errs[i] = &r.Errors[i]
	}
	return errors.Join(errs...)
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownFormats lists valid output format values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText:    true,
	config.FormatTable:   true,
	config.FormatJSON:    true,
	config.FormatSARIF:   true,
	config.FormatDiff:    true,
	config.FormatSummary: true,
}

// knownBackupModes lists valid backup mode values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownBackupModes = map[string]bool{
	"sidecar": true,
	"none":    true,
}

// Validate checks a configuration for errors and warnings against the rules
// of catalog. A nil catalog selects lint.DefaultCatalog.
func Validate(cfg *config.Config, catalog *lint.Catalog) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}
	if catalog == nil {
		catalog = lint.DefaultCatalog
	}

	if cfg.SeverityDefault != "" && !IsValidSeverity(cfg.SeverityDefault) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "severity_default",
			Value:   cfg.SeverityDefault,
			Message: fmt.Sprintf("invalid severity %q; must be one of: error, warning, info", cfg.SeverityDefault),
		})
	}

	if cfg.Format != "" && !knownFormats[cfg.Format] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, table, json, sarif, diff, summary", cfg.Format),
		})
	}

	if cfg.RuleFormat != "" && cfg.RuleFormat != config.RuleFormatName && cfg.RuleFormat != config.RuleFormatQualified {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "rule_format",
			Value:   cfg.RuleFormat,
			Message: fmt.Sprintf("invalid rule format %q; must be one of: name, qualified", cfg.RuleFormat),
		})
	}

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	if cfg.Backups.Mode != "" && !knownBackupModes[cfg.Backups.Mode] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "backups.mode",
			Value:   cfg.Backups.Mode,
			Message: fmt.Sprintf("invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode),
		})
	}

	validateRules(cfg, catalog, result)
	validateRuleLists(cfg, catalog, result)
	validateIgnorePatterns(cfg, result)
	validateExemptDirectories(cfg, result)

	return result
}

// validateRules checks each rule entry names a known rule and that its
// severity and options compile.
func validateRules(cfg *config.Config, catalog *lint.Catalog, result *ValidationResult) {
	keys := make([]string, 0, len(cfg.Rules))
	for key := range cfg.Rules {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		ruleCfg := cfg.Rules[key]
		field := "rules." + key

		_, def, ok := catalog.Resolve(key)
		if !ok {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Value:   key,
				Message: fmt.Sprintf("unknown rule %q", key),
			})
			continue
		}

		if ruleCfg.Severity != nil && !IsValidSeverity(*ruleCfg.Severity) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field + ".severity",
				Value:   *ruleCfg.Severity,
				Message: fmt.Sprintf("invalid severity %q; must be one of: error, warning, info", *ruleCfg.Severity),
			})
		}

		if ruleCfg.AutoFix != nil && *ruleCfg.AutoFix && !def.Fixable {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   field + ".auto_fix",
				Value:   true,
				Message: fmt.Sprintf("rule %s has no fixes; auto_fix has no effect", def.Name),
			})
		}

		if _, err := lint.NewRule(def, ruleCfg.Options); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field + ".options",
				Value:   ruleCfg.Options,
				Message: err.Error(),
			})
		}
	}
}

// validateRuleLists checks the enable/disable/fix rule lists.
func validateRuleLists(cfg *config.Config, catalog *lint.Catalog, result *ValidationResult) {
	lists := []struct {
		field string
		keys  []string
	}{
		{"enable_rules", cfg.EnableRules},
		{"disable_rules", cfg.DisableRules},
		{"fix_rules", cfg.FixRules},
	}

	for _, list := range lists {
		for i, key := range list.keys {
			if _, _, ok := catalog.Resolve(key); ok {
				continue
			}
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", list.field, i),
				Value:   key,
				Message: fmt.Sprintf("unknown rule %q", key),
			})
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(strings.TrimPrefix(pattern, "./"), '/'); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// validateExemptDirectories checks exempt directories are plain path segments.
func validateExemptDirectories(cfg *config.Config, result *ValidationResult) {
	for i, dir := range cfg.ExemptDirectories {
		if dir == "" || strings.ContainsAny(dir, `/\`) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("exempt_directories[%d]", i),
				Value:   dir,
				Message: "must be a single directory name",
			})
		}
	}
}

// IsValidSeverity returns true if the severity string is valid.
// "warn" is accepted as an alias of "warning".
func IsValidSeverity(s string) bool {
	_, ok := config.ParseSeverity(s)
	return ok
}
