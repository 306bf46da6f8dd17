// Package config defines core configuration types for dslint.
// These types are pure data structures with no dependency on the loader.
package config

import "strings"

// Severity represents the severity level of a lint violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity maps a configured severity to a Severity. ESLint's "warn"
// spelling is accepted as an alias for warning.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, true
	case "warn", "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	default:
		return "", false
	}
}

// Rank orders severities from info (1) to error (3). Unknown severities rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled  *bool          `yaml:"enabled"`
	Severity *string        `yaml:"severity"`
	AutoFix  *bool          `yaml:"auto_fix"`
	Options  map[string]any `yaml:"options"`
}

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	// Enabled is nil when no layer set it; backups default to on.
	Enabled *bool  `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar" or "none"
}

// IsEnabled reports whether fixed files are backed up.
func (b BackupsConfig) IsEnabled() bool {
	return b.Enabled == nil || *b.Enabled
}

// OutputFormat specifies the output format for violations.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatJSON, FormatSARIF, FormatDiff, FormatSummary:
		return true
	default:
		return false
	}
}

// RuleFormat controls how rule names appear in output.
type RuleFormat string

const (
	RuleFormatName      RuleFormat = "name"      // "no-raw-tailwind-colors"
	RuleFormatQualified RuleFormat = "qualified" // "design-system/no-raw-tailwind-colors"
)

// RuleNamespace prefixes qualified rule names, matching the ESLint plugin.
const RuleNamespace = "design-system"

// SummaryOrder controls the order of tables in summary output.
type SummaryOrder string

const (
	// SummaryOrderRules shows rules table first (default).
	SummaryOrderRules SummaryOrder = "rules"
	// SummaryOrderFiles shows files table first.
	SummaryOrderFiles SummaryOrder = "files"
)

// IsValid returns true if the summary order is valid.
func (s SummaryOrder) IsValid() bool {
	switch s {
	case SummaryOrderRules, SummaryOrderFiles:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure for dslint.
type Config struct {
	// SeverityDefault is the default severity for rules that don't specify one.
	SeverityDefault string `yaml:"severity_default"`

	// Rules contains per-rule configuration keyed by rule name or alias.
	Rules map[string]RuleConfig `yaml:"rules"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore"`

	// ExemptDirectories are path segments whose files no rule runs on.
	// Nil selects the built-in list.
	ExemptDirectories []string `yaml:"exempt_directories"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// Fix enables auto-fixing of issues.
	Fix bool `yaml:"-"`

	// DryRun shows what would be fixed without making changes.
	DryRun bool `yaml:"-"`

	// Strict makes warnings, rule crashes and fix conflicts fail the run.
	Strict bool `yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// RuleFormat controls how rule names appear in output.
	RuleFormat RuleFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// EnableRules contains rule names to explicitly enable.
	EnableRules []string `yaml:"-"`

	// DisableRules contains rule names to explicitly disable.
	DisableRules []string `yaml:"-"`

	// FixRules limits auto-fixing to specific rule names.
	FixRules []string `yaml:"-"`

	// NoBackups disables backup creation when fixing.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		SeverityDefault: string(SeverityWarning),
		Rules:           make(map[string]RuleConfig),
		Ignore:          nil,
		Backups: BackupsConfig{
			Mode: "sidecar",
		},
		Format:     FormatText,
		RuleFormat: RuleFormatName,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}
