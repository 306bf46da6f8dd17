package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes all rules with their documentation.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string

	// IncludeRules is a list of rule names to include.
	// If empty, all rules are included.
	IncludeRules []string
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	Name        string
	Description string
	AppliesTo   string
	Severity    Severity
	Tags        []string
	CanFix      bool
}

// RuleInfoProvider is a function that returns rule information.
// This allows decoupling from the lint package to avoid circular imports.
type RuleInfoProvider func() []RuleInfo

// DefaultRuleInfoProvider is set by the rules package during init.
//
//nolint:gochecknoglobals // Intentional extension point for rule info.
var DefaultRuleInfoProvider RuleInfoProvider

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON(opts)
	}
	if opts.Full {
		return generateFullTemplate(opts), nil
	}
	return generateMinimalTemplate(), nil
}

func generateMinimalTemplate() []byte {
	return []byte(DefaultTemplateHeader() + `

# Default severity for rules without one: error, warning, or info
# severity_default: warning

# File patterns to ignore (glob patterns)
# ignore:
#   - "**/*.gen.ts"

# Directories no rule runs on (defaults shown)
# exempt_directories:
#   - node_modules
#   - dist
#   - build
#   - coverage
#   - storybook-static

# Rule-specific configuration
# rules:
#   no-raw-tailwind-colors:
#     severity: error
#     options:
#       allowedPatterns:
#         - "^bg-brand-"
#   no-redundant-i18n-key:
#     auto_fix: true
#     options:
#       keyPairs:
#         labelKey: label
`)
}

func generateFullTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(` - Full Template
#
# This template includes all available rules with their default settings.
# Uncomment and modify settings as needed.

# Default severity for rules without one: error, warning, or info
severity_default: warning

# Backup configuration for auto-fix
backups:
  enabled: true
  mode: sidecar

# File patterns to ignore (glob patterns)
ignore:
  - "**/*.gen.ts"

# Directories no rule runs on
exempt_directories:
  - node_modules
  - dist
  - build
  - coverage
  - storybook-static

# Rule-specific configuration
rules:
`)

	for _, rule := range selectRules(opts.IncludeRules) {
		fmt.Fprintf(&buf, "\n  # %s\n", wrapComment(rule.Description, commentWrapWidth))
		if rule.AppliesTo != "" {
			fmt.Fprintf(&buf, "  # Applies to: %s\n", wrapComment(rule.AppliesTo, commentWrapWidth))
		}
		if len(rule.Tags) > 0 {
			fmt.Fprintf(&buf, "  # Tags: %s\n", strings.Join(rule.Tags, ", "))
		}
		if rule.CanFix {
			buf.WriteString("  # Auto-fix: yes\n")
		}
		fmt.Fprintf(&buf, "  %s:\n", rule.Name)
		buf.WriteString("    enabled: true\n")
		fmt.Fprintf(&buf, "    severity: %s\n", rule.Severity)
		buf.WriteString("    # options:\n")
		buf.WriteString("    #   allowedFiles: []\n")
	}

	return buf.Bytes()
}

// selectRules returns the known rules sorted by name, limited to include
// when it is non-empty.
func selectRules(include []string) []RuleInfo {
	rules := getRuleInfos()
	if len(include) > 0 {
		rules = slices.DeleteFunc(rules, func(r RuleInfo) bool {
			return !slices.Contains(include, r.Name)
		})
	}
	slices.SortFunc(rules, func(a, b RuleInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return rules
}

// getRuleInfos returns information about all registered rules.
func getRuleInfos() []RuleInfo {
	if DefaultRuleInfoProvider != nil {
		return DefaultRuleInfoProvider()
	}
	return nil
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// templateToJSON renders the template settings as JSON.
func templateToJSON(opts TemplateOptions) ([]byte, error) {
	rules := make(map[string]any)
	for _, r := range selectRules(opts.IncludeRules) {
		rules[r.Name] = map[string]any{
			"enabled":  true,
			"severity": string(r.Severity),
		}
	}

	cfg := map[string]any{
		"severity_default": string(SeverityWarning),
		"backups": map[string]any{
			"enabled": true,
			"mode":    "sidecar",
		},
		"ignore": []string{},
		"rules":  rules,
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# dslint configuration
# See: https://github.com/yaklabco/dslint`
}
