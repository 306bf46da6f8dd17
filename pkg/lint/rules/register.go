package rules

import (
	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/lint"
)

// Definitions returns fresh copies of all built-in rule definitions.
func Definitions() []*lint.RuleDefinition {
	return []*lint.RuleDefinition{
		NewRawTailwindColorsRule(),
		NewHardcodedAPIPathsRule(),
		NewDataFetchingInPresentersRule(),
		NewI18nKeysInStoriesRule(),
		NewRedundantI18nKeyRule(),
	}
}

// RegisterAll adds all built-in rules to the given catalog.
func RegisterAll(catalog *lint.Catalog) {
	for _, def := range Definitions() {
		catalog.MustAdd(def)
	}
}

// RegisterLegacyAliases registers the names the rules carried in the ESLint
// plugin, so existing configurations keep working. For example:
//   - "design-system/no-raw-colors" -> no-raw-tailwind-colors
//   - "design-system/no-i18n-keys-in-stories" -> no-i18n-keys-in-stories.
func RegisterLegacyAliases(catalog *lint.Catalog) {
	for _, def := range Definitions() {
		catalog.RegisterAlias(config.RuleNamespace+"/"+def.Name, def.Name)
	}

	catalog.RegisterAlias(config.RuleNamespace+"/no-raw-colors", RawTailwindColorsName)
	catalog.RegisterAlias(config.RuleNamespace+"/no-api-paths", HardcodedAPIPathsName)
	catalog.RegisterAlias(config.RuleNamespace+"/no-fetch-in-presenters", DataFetchingInPresentersName)
}

// RuleInfos describes the rules of a catalog for configuration templates.
func RuleInfos(catalog *lint.Catalog) []config.RuleInfo {
	defs := catalog.Definitions()
	infos := make([]config.RuleInfo, 0, len(defs))
	for _, def := range defs {
		infos = append(infos, config.RuleInfo{
			Name:        def.Name,
			Description: def.Description,
			AppliesTo:   lint.DescribePredicate(def.AppliesTo),
			Severity:    def.DefaultSeverity,
			Tags:        def.Tags,
			CanFix:      def.Fixable,
		})
	}
	return infos
}

// init registers all built-in rules with the default catalog.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultCatalog)
	RegisterLegacyAliases(lint.DefaultCatalog)

	config.DefaultRuleInfoProvider = func() []config.RuleInfo {
		return RuleInfos(lint.DefaultCatalog)
	}
}
