package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/dslint/pkg/config"
)

func TestRuleFormat_Values(t *testing.T) {
	t.Parallel()

	assert.Equal(t, config.RuleFormatName, config.RuleFormat("name"))
	assert.Equal(t, config.RuleFormatQualified, config.RuleFormat("qualified"))
}

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, config.RuleFormatName, cfg.RuleFormat)
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.Equal(t, string(config.SeverityWarning), cfg.SeverityDefault)
	assert.True(t, cfg.Backups.IsEnabled())
	assert.NotNil(t, cfg.Rules)
	assert.Nil(t, cfg.ExemptDirectories)
}

func TestOutputFormat_IsValid(t *testing.T) {
	t.Parallel()

	for _, f := range []config.OutputFormat{
		config.FormatText, config.FormatTable, config.FormatJSON, config.FormatSARIF, config.FormatDiff, config.FormatSummary,
	} {
		assert.True(t, f.IsValid(), f)
	}
	assert.False(t, config.OutputFormat("xml").IsValid())
}
