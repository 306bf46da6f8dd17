package lint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dslint/pkg/fix"
	"github.com/yaklabco/dslint/pkg/jsast"
	"github.com/yaklabco/dslint/pkg/lint"
	"github.com/yaklabco/dslint/pkg/parser/treesitter"
)

func parse(t *testing.T, path, src string) *jsast.FileSnapshot {
	t.Helper()
	file, err := treesitter.New().Parse(context.Background(), path, []byte(src))
	require.NoError(t, err)
	return file
}

// redundantKeyDef reports labelKey properties and removes them.
func redundantKeyDef() *lint.RuleDefinition {
	return &lint.RuleDefinition{
		Name:     "test-redundant-key",
		Messages: map[string]string{"redundant": "{{key}} is redundant"},
		Fixable:  true,
		Visitors: map[jsast.Kind]lint.Handler{
			jsast.KindProperty: func(ctx *lint.HandlerContext, node *jsast.Node) error {
				key, ok := jsast.PropertyKey(node)
				if !ok || key != "labelKey" {
					return nil
				}
				ctx.Report("redundant", map[string]string{"key": key}, lint.RemovePropertyFix(node.File, node))
				return nil
			},
		},
	}
}

// kindRecorderDef reports every node of the given kinds.
func kindRecorderDef(name string, kinds ...jsast.Kind) *lint.RuleDefinition {
	visitors := make(map[jsast.Kind]lint.Handler, len(kinds))
	for _, k := range kinds {
		visitors[k] = func(ctx *lint.HandlerContext, node *jsast.Node) error {
			ctx.Report("seen", map[string]string{"kind": node.Kind.String()}, nil)
			return nil
		}
	}
	return &lint.RuleDefinition{
		Name:     name,
		Messages: map[string]string{"seen": "saw {{kind}}"},
		Visitors: visitors,
	}
}

// replaceStringDef rewrites every string literal to replacement.
func replaceStringDef(name, replacement string) *lint.RuleDefinition {
	return &lint.RuleDefinition{
		Name:     name,
		Fixable:  true,
		Messages: map[string]string{"replace": "replace string"},
		Visitors: map[jsast.Kind]lint.Handler{
			jsast.KindStringLiteral: func(ctx *lint.HandlerContext, node *jsast.Node) error {
				ctx.Report("replace", nil, []fix.TextEdit{{
					StartOffset: node.Range.Start,
					EndOffset:   node.Range.End,
					NewText:     replacement,
				}})
				return nil
			},
		},
	}
}

func newRegistry(t *testing.T, rules ...*lint.Rule) *lint.Registry {
	t.Helper()
	reg := lint.NewRegistry()
	for _, r := range rules {
		require.NoError(t, reg.Register(r))
	}
	reg.Freeze()
	return reg
}

func ruleNames(violations []lint.Violation) []string {
	names := make([]string, len(violations))
	for i, v := range violations {
		names[i] = v.RuleName
	}
	return names
}
