package configloader

import (
	"slices"
	"strings"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/lint"
)

// NormalizeRuleKey converts a rule name, qualified name or legacy alias to its
// canonical rule name. Returns empty string if the key names no known rule.
func NormalizeRuleKey(catalog *lint.Catalog, key string) string {
	if name, _, ok := catalog.Resolve(key); ok {
		return name
	}

	// Qualified names resolve even when only the bare name is registered.
	if bare, ok := strings.CutPrefix(key, config.RuleNamespace+"/"); ok {
		if name, _, ok := catalog.Resolve(bare); ok {
			return name
		}
	}

	return ""
}

// IsTag returns true if any rule in catalog carries tag.
func IsTag(catalog *lint.Catalog, tag string) bool {
	return len(TagRules(catalog, tag)) > 0
}

// TagRules returns the names of the rules carrying tag, sorted.
func TagRules(catalog *lint.Catalog, tag string) []string {
	var names []string
	for _, def := range catalog.Definitions() {
		if slices.Contains(def.Tags, tag) {
			names = append(names, def.Name)
		}
	}
	return names
}

// AliasesForRule returns all aliases registered for a canonical rule name, sorted.
func AliasesForRule(catalog *lint.Catalog, name string) []string {
	var aliases []string
	for alias, target := range catalog.Aliases() {
		if target == name {
			aliases = append(aliases, alias)
		}
	}
	slices.Sort(aliases)
	return aliases
}
