package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dslint/pkg/lint"
	"github.com/yaklabco/dslint/pkg/parser/treesitter"
)

// lintSource runs one rule definition over src as if it lived at path.
// Rules that do not apply to path produce no violations.
func lintSource(t *testing.T, def *lint.RuleDefinition, path, src string, raw map[string]any) []lint.Violation {
	t.Helper()

	file, err := treesitter.New().Parse(context.Background(), path, []byte(src))
	require.NoError(t, err)

	rule, err := lint.NewRule(def, raw)
	require.NoError(t, err)

	fc := lint.NewFileContext(path, lint.DefaultExemptDirectories)
	if !rule.AppliesTo(fc) {
		return nil
	}
	return lint.Dispatch(file, fc, []*lint.Rule{rule})
}

// dataValues collects one MessageData entry from each violation.
func dataValues(violations []lint.Violation, key string) []string {
	values := make([]string, 0, len(violations))
	for _, v := range violations {
		values = append(values, v.MessageData[key])
	}
	return values
}

// messageIDs collects the message ids of violations.
func messageIDs(violations []lint.Violation) []string {
	ids := make([]string, 0, len(violations))
	for _, v := range violations {
		ids = append(ids, v.MessageID)
	}
	return ids
}

func mustRule(t *testing.T, def *lint.RuleDefinition) *lint.Rule {
	t.Helper()
	rule, err := lint.NewRule(def, nil)
	require.NoError(t, err)
	return rule
}

func newFileContext(path string) lint.FileContext {
	return lint.NewFileContext(path, lint.DefaultExemptDirectories)
}
