package rules

import "github.com/yaklabco/dslint/pkg/config"

// Pack describes a named group of rule defaults for a particular use case.
// Packs are configuration fragments that can be used as starting points
// for .dslint.yml files.
type Pack struct {
	// Name is the short identifier for the pack (e.g., "recommended", "strict").
	Name string

	// Description explains the purpose and characteristics of the pack.
	Description string

	// Rules contains rule configurations keyed by rule name.
	Rules map[string]config.RuleConfig
}

// RecommendedPack returns the default rule set: architecture rules as
// errors, i18n hygiene as warnings.
func RecommendedPack() Pack {
	return Pack{
		Name:        "recommended",
		Description: "Recommended: design tokens and architecture as errors, i18n hygiene as warnings",
		Rules: map[string]config.RuleConfig{
			RawTailwindColorsName:        enabled("error"),
			HardcodedAPIPathsName:        enabled("error"),
			DataFetchingInPresentersName: enabled("error"),
			I18nKeysInStoriesName:        enabled("warning"),
			RedundantI18nKeyName:         enabled("warning"),
		},
	}
}

// StrictPack returns every rule as an error.
func StrictPack() Pack {
	return Pack{
		Name:        "strict",
		Description: "Strict: every rule is an error",
		Rules: map[string]config.RuleConfig{
			RawTailwindColorsName:        enabled("error"),
			HardcodedAPIPathsName:        enabled("error"),
			DataFetchingInPresentersName: enabled("error"),
			I18nKeysInStoriesName:        enabled("error"),
			RedundantI18nKeyName:         enabled("error"),
		},
	}
}

// MigrationPack returns a low-noise pack for codebases adopting the
// design system: only token and i18n rules, as warnings.
func MigrationPack() Pack {
	return Pack{
		Name:        "migration",
		Description: "Migration: token and i18n rules as warnings, architecture rules off",
		Rules: map[string]config.RuleConfig{
			RawTailwindColorsName:        enabled("warning"),
			RedundantI18nKeyName:         enabled("warning"),
			I18nKeysInStoriesName:        enabled("info"),
			HardcodedAPIPathsName:        disabled(),
			DataFetchingInPresentersName: disabled(),
		},
	}
}

// Packs returns all built-in rule packs.
func Packs() []Pack {
	return []Pack{
		RecommendedPack(),
		StrictPack(),
		MigrationPack(),
	}
}

// PackByName returns a pack by name, or nil if not found.
func PackByName(name string) *Pack {
	for _, p := range Packs() {
		if p.Name == name {
			return &p
		}
	}
	return nil
}

// PackNames returns the names of all available packs.
func PackNames() []string {
	packs := Packs()
	names := make([]string, len(packs))
	for i, p := range packs {
		names[i] = p.Name
	}
	return names
}

// enabled creates a RuleConfig with the rule enabled and the given severity.
func enabled(sev string) config.RuleConfig {
	enabled := true
	return config.RuleConfig{
		Enabled:  &enabled,
		Severity: &sev,
	}
}

// disabled creates a RuleConfig with the rule turned off.
func disabled() config.RuleConfig {
	off := false
	sev := "warning"
	return config.RuleConfig{
		Enabled:  &off,
		Severity: &sev,
	}
}
