package configloader

import (
	"maps"
	"slices"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/lint"
)

// mergeLayer applies one configuration layer on top of cfg and returns the
// result; neither input is modified. A layer overrides only what it sets:
// non-empty strings, a non-zero job count, switches turned on, and non-nil
// slices and pointers. Rule entries are keyed by canonical rule name before
// merging, so layers that spell a rule differently (bare, qualified or
// legacy alias) still combine field by field.
func mergeLayer(cfg, layer *config.Config, catalog *lint.Catalog, result *LoadResult) *config.Config {
	if layer == nil {
		return cfg
	}
	out := *cfg

	setString(&out.SeverityDefault, layer.SeverityDefault)
	setString(&out.Format, layer.Format)
	setString(&out.RuleFormat, layer.RuleFormat)
	setString(&out.Backups.Mode, layer.Backups.Mode)
	if layer.Backups.Enabled != nil {
		enabled := *layer.Backups.Enabled
		out.Backups.Enabled = &enabled
	}
	if layer.Jobs != 0 {
		out.Jobs = layer.Jobs
	}

	// CLI switches only ever turn behaviour on.
	out.Fix = out.Fix || layer.Fix
	out.DryRun = out.DryRun || layer.DryRun
	out.Strict = out.Strict || layer.Strict
	out.NoBackups = out.NoBackups || layer.NoBackups

	setList(&out.Ignore, layer.Ignore)
	setList(&out.ExemptDirectories, layer.ExemptDirectories)
	setList(&out.EnableRules, layer.EnableRules)
	setList(&out.DisableRules, layer.DisableRules)
	setList(&out.FixRules, layer.FixRules)

	out.Rules = maps.Clone(cfg.Rules)
	if out.Rules == nil {
		out.Rules = make(map[string]config.RuleConfig)
	}
	for name, rule := range canonicalRules(layer.Rules, catalog, result) {
		out.Rules[name] = mergeRule(out.Rules[name], rule)
	}

	return &out
}

// mergeRule overlays the fields rule sets. Options merge per option name.
func mergeRule(base, rule config.RuleConfig) config.RuleConfig {
	if rule.Enabled != nil {
		base.Enabled = rule.Enabled
	}
	if rule.Severity != nil {
		base.Severity = rule.Severity
	}
	if rule.AutoFix != nil {
		base.AutoFix = rule.AutoFix
	}
	if len(rule.Options) > 0 {
		options := maps.Clone(base.Options)
		if options == nil {
			options = make(map[string]any, len(rule.Options))
		}
		maps.Copy(options, rule.Options)
		base.Options = options
	}
	return base
}

func setString[T ~string](dst *T, v T) {
	if v != "" {
		*dst = v
	}
}

// setList replaces dst when the layer configured the list, even as empty.
func setList(dst *[]string, v []string) {
	if v != nil {
		*dst = slices.Clone(v)
	}
}
