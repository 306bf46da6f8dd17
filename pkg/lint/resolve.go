package lint

import (
	"errors"
	"fmt"
	"slices"

	"github.com/yaklabco/dslint/pkg/config"
)

// UnknownRuleError reports a configuration key naming no known rule.
type UnknownRuleError struct {
	Key string
}

func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("unknown rule %q", e.Key)
}

// ResolvedRule pairs a definition with its resolved configuration.
type ResolvedRule struct {
	// Definition is the rule's definition.
	Definition *RuleDefinition

	// Enabled indicates whether the rule should be run.
	Enabled bool

	// Severity is the resolved severity for violations from this rule.
	// Empty when the rule's options decide.
	Severity config.Severity

	// AutoFix indicates whether auto-fix is enabled for this rule.
	AutoFix bool

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig
}

// ResolveRules builds a frozen Registry holding the enabled rules of
// catalog configured by cfg. Rule keys in cfg may be names or aliases.
// Every configuration problem is reported; the error joins them.
func ResolveRules(catalog *Catalog, cfg *config.Config) (*Registry, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	var errs []error
	ruleConfigs, err := canonicalRuleConfigs(catalog, cfg.Rules)
	if err != nil {
		errs = append(errs, err)
	}
	enable, err := canonicalNames(catalog, cfg.EnableRules)
	if err != nil {
		errs = append(errs, err)
	}
	disable, err := canonicalNames(catalog, cfg.DisableRules)
	if err != nil {
		errs = append(errs, err)
	}
	fixOnly, err := canonicalNames(catalog, cfg.FixRules)
	if err != nil {
		errs = append(errs, err)
	}

	fallback := config.Severity("")
	if cfg.SeverityDefault != "" {
		sev, ok := config.ParseSeverity(cfg.SeverityDefault)
		if !ok {
			errs = append(errs, fmt.Errorf("severity_default: invalid severity %q", cfg.SeverityDefault))
		}
		fallback = sev
	}

	registry := NewRegistry()
	if cfg.ExemptDirectories != nil {
		if err := registry.SetExemptDirectories(cfg.ExemptDirectories); err != nil {
			errs = append(errs, err)
		}
	}

	for _, def := range catalog.Definitions() {
		var ruleCfg *config.RuleConfig
		if rc, ok := ruleConfigs[def.Name]; ok {
			ruleCfg = &rc
		}

		rr, err := resolveRule(def, ruleCfg, cfg, enable, disable, fixOnly)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !rr.Enabled {
			continue
		}

		rule, err := buildRule(rr, fallback)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := registry.Register(rule); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	registry.Freeze()
	return registry, nil
}

// resolveRule resolves the configuration for a single rule.
func resolveRule(
	def *RuleDefinition,
	ruleCfg *config.RuleConfig,
	cfg *config.Config,
	enable, disable, fixOnly []string,
) (ResolvedRule, error) {
	rr := ResolvedRule{
		Definition: def,
		Enabled:    true,
		AutoFix:    def.Fixable,
		Config:     ruleCfg,
	}

	// Config file first, CLI flags override it.
	if ruleCfg != nil {
		if ruleCfg.Enabled != nil {
			rr.Enabled = *ruleCfg.Enabled
		}
		if ruleCfg.Severity != nil {
			sev, ok := config.ParseSeverity(*ruleCfg.Severity)
			if !ok {
				return rr, &OptionError{Option: def.Name + ".severity", Message: fmt.Sprintf("invalid severity %q", *ruleCfg.Severity)}
			}
			rr.Severity = sev
		}
		if ruleCfg.AutoFix != nil {
			rr.AutoFix = *ruleCfg.AutoFix && def.Fixable
		}
	}

	if slices.Contains(enable, def.Name) {
		rr.Enabled = true
	}
	if slices.Contains(disable, def.Name) {
		rr.Enabled = false
	}

	if len(fixOnly) > 0 {
		rr.AutoFix = def.Fixable && slices.Contains(fixOnly, def.Name)
	}

	// Disable auto-fix if --fix is not set.
	if !cfg.Fix {
		rr.AutoFix = false
	}

	return rr, nil
}

// buildRule compiles the rule's options and applies the resolved severity.
// Precedence: rule config severity, severity option, definition default,
// then severity_default.
func buildRule(rr ResolvedRule, fallback config.Severity) (*Rule, error) {
	var raw map[string]any
	if rr.Config != nil {
		raw = rr.Config.Options
	}

	rule, err := NewRule(rr.Definition, raw)
	if err != nil {
		return nil, err
	}

	switch {
	case rr.Severity != "":
		rule = rule.WithSeverity(rr.Severity)
	case rule.Options().Has(OptionSeverity), rr.Definition.DefaultSeverity != "":
	case fallback != "":
		rule = rule.WithSeverity(fallback)
	}

	return rule.WithAutoFix(rr.AutoFix), nil
}

func canonicalRuleConfigs(catalog *Catalog, rules map[string]config.RuleConfig) (map[string]config.RuleConfig, error) {
	out := make(map[string]config.RuleConfig, len(rules))
	var errs []error

	keys := make([]string, 0, len(rules))
	for key := range rules {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		name, _, ok := catalog.Resolve(key)
		if !ok {
			errs = append(errs, &UnknownRuleError{Key: key})
			continue
		}
		if _, dup := out[name]; dup {
			errs = append(errs, fmt.Errorf("rule %s configured more than once (via %q)", name, key))
			continue
		}
		out[name] = rules[key]
	}

	return out, errors.Join(errs...)
}

func canonicalNames(catalog *Catalog, keys []string) ([]string, error) {
	out := make([]string, 0, len(keys))
	var errs []error
	for _, key := range keys {
		name, _, ok := catalog.Resolve(key)
		if !ok {
			errs = append(errs, &UnknownRuleError{Key: key})
			continue
		}
		out = append(out, name)
	}
	return out, errors.Join(errs...)
}
