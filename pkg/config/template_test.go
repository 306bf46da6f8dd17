package config

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRuleInfos(t *testing.T, infos []RuleInfo) {
	t.Helper()
	prev := DefaultRuleInfoProvider
	DefaultRuleInfoProvider = func() []RuleInfo { return infos }
	t.Cleanup(func() { DefaultRuleInfoProvider = prev })
}

func TestGenerateTemplate(t *testing.T) {
	withRuleInfos(t, []RuleInfo{
		{Name: "no-redundant-i18n-key", Description: "Drop i18n keys", Severity: SeverityWarning, CanFix: true},
		{Name: "no-hardcoded-api-paths", Description: "Use the API client", Severity: SeverityError, AppliesTo: "all files"},
	})

	t.Run("minimal", func(t *testing.T) {
		data, err := GenerateTemplate(TemplateOptions{})
		require.NoError(t, err)
		assert.Contains(t, string(data), "# dslint configuration")
		assert.Contains(t, string(data), "# exempt_directories:")
	})

	t.Run("full lists rules sorted", func(t *testing.T) {
		data, err := GenerateTemplate(TemplateOptions{Full: true})
		require.NoError(t, err)
		out := string(data)
		api := strings.Index(out, "  no-hardcoded-api-paths:")
		i18n := strings.Index(out, "  no-redundant-i18n-key:")
		require.Positive(t, api)
		require.Positive(t, i18n)
		assert.Less(t, api, i18n)
		assert.Contains(t, out, "# Auto-fix: yes")
		assert.Contains(t, out, "# Applies to: all files")
	})

	t.Run("include filter", func(t *testing.T) {
		data, err := GenerateTemplate(TemplateOptions{Full: true, IncludeRules: []string{"no-redundant-i18n-key"}})
		require.NoError(t, err)
		assert.NotContains(t, string(data), "no-hardcoded-api-paths:")
	})

	t.Run("json", func(t *testing.T) {
		data, err := GenerateTemplate(TemplateOptions{Format: "json"})
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		rules, ok := decoded["rules"].(map[string]any)
		require.True(t, ok)
		assert.Len(t, rules, 2)
	})
}

func TestWrapComment(t *testing.T) {
	short := "fits on one line"
	assert.Equal(t, short, wrapComment(short, 70))

	long := "one two three four five six seven"
	assert.Equal(t, "one two three\n  # four five six\n  # seven", wrapComment(long, 15))
}
