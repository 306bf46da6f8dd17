package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/lint"
)

func TestRegisterAll(t *testing.T) {
	t.Parallel()

	catalog := lint.NewCatalog()
	RegisterAll(catalog)

	assert.Equal(t, []string{
		DataFetchingInPresentersName,
		HardcodedAPIPathsName,
		I18nKeysInStoriesName,
		RawTailwindColorsName,
		RedundantI18nKeyName,
	}, catalog.Names())

	for _, def := range catalog.Definitions() {
		require.NoError(t, def.Validate(), def.Name)
		assert.NotEmpty(t, def.Description, def.Name)
		assert.NotEmpty(t, def.Messages, def.Name)
		assert.NotEmpty(t, def.DefaultSeverity, def.Name)
	}
}

func TestRegisterAll_Twice(t *testing.T) {
	t.Parallel()

	catalog := lint.NewCatalog()
	RegisterAll(catalog)

	assert.Panics(t, func() { RegisterAll(catalog) })
}

func TestRegisterLegacyAliases(t *testing.T) {
	t.Parallel()

	catalog := lint.NewCatalog()
	RegisterAll(catalog)
	RegisterLegacyAliases(catalog)

	tests := []struct {
		name         string
		alias        string
		expectName   string
		expectExists bool
	}{
		{
			name:         "legacy raw colors name",
			alias:        "design-system/no-raw-colors",
			expectName:   RawTailwindColorsName,
			expectExists: true,
		},
		{
			name:         "legacy api paths name",
			alias:        "design-system/no-api-paths",
			expectName:   HardcodedAPIPathsName,
			expectExists: true,
		},
		{
			name:         "qualified canonical name",
			alias:        "design-system/no-redundant-i18n-key",
			expectName:   RedundantI18nKeyName,
			expectExists: true,
		},
		{
			name:         "canonical name still works",
			alias:        I18nKeysInStoriesName,
			expectName:   I18nKeysInStoriesName,
			expectExists: true,
		},
		{
			name:         "nonexistent alias returns not found",
			alias:        "design-system/no-inline-styles",
			expectExists: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			name, def, ok := catalog.Resolve(tt.alias)

			if !tt.expectExists {
				assert.False(t, ok, "alias %q should not exist", tt.alias)
				return
			}

			require.True(t, ok, "alias %q should exist", tt.alias)
			assert.Equal(t, tt.expectName, name)
			assert.Equal(t, tt.expectName, def.Name)
		})
	}
}

func TestDefaultCatalogHasAllRules(t *testing.T) {
	t.Parallel()

	// init() must have populated the default catalog.
	assert.Len(t, lint.DefaultCatalog.Names(), len(Definitions()))

	name, _, ok := lint.DefaultCatalog.Resolve("design-system/no-raw-colors")
	require.True(t, ok)
	assert.Equal(t, RawTailwindColorsName, name)
}

func TestRuleInfoProvider(t *testing.T) {
	t.Parallel()

	require.NotNil(t, config.DefaultRuleInfoProvider)

	infos := config.DefaultRuleInfoProvider()
	require.Len(t, infos, len(Definitions()))

	byName := make(map[string]config.RuleInfo, len(infos))
	for _, info := range infos {
		byName[info.Name] = info
	}

	assert.True(t, byName[RedundantI18nKeyName].CanFix)
	assert.False(t, byName[RawTailwindColorsName].CanFix)
	assert.Equal(t, "story files", byName[I18nKeysInStoriesName].AppliesTo)
	assert.Equal(t, "all files", byName[RedundantI18nKeyName].AppliesTo)
	assert.Equal(t, config.SeverityError, byName[HardcodedAPIPathsName].Severity)
}

func TestDefaultsResolve(t *testing.T) {
	t.Parallel()

	registry, err := lint.ResolveRules(lint.DefaultCatalog, config.NewConfig())
	require.NoError(t, err)

	names := make([]string, 0)
	for _, r := range registry.Rules() {
		names = append(names, r.Name())
	}
	assert.ElementsMatch(t, lint.DefaultCatalog.Names(), names)
}
