package rules

import (
	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/fix"
	"github.com/yaklabco/dslint/pkg/jsast"
	"github.com/yaklabco/dslint/pkg/lint"
)

// RedundantI18nKeyName is the name of the redundant i18n key rule.
const RedundantI18nKeyName = "no-redundant-i18n-key"

const optionKeyPairs = "keyPairs"

// NewRedundantI18nKeyRule creates the no-redundant-i18n-key rule.
//
// keyPairs maps i18n key properties to the direct property that carries the
// resolved text. An object holding both is fixed by removing the key
// property; an object holding only the key property is reported without a
// fix. Objects with spread elements or nested object values are reported as
// unsupported and never fixed.
func NewRedundantI18nKeyRule() *lint.RuleDefinition {
	return &lint.RuleDefinition{
		Name:        RedundantI18nKeyName,
		Description: "Objects must carry resolved text instead of i18n key properties",
		Messages: map[string]string{
			"redundantKey":     "{{key}} is redundant next to {{direct}}; remove the i18n key",
			"missingDirectKey": "{{key}} passes an i18n key; resolve it and pass {{direct}} instead",
			"unsupportedShape": "{{key}} is in an object with spread elements or nested objects and cannot be fixed automatically",
		},
		Fixable:         true,
		DefaultSeverity: config.SeverityWarning,
		Options: []lint.OptionSpec{
			{
				Name: optionKeyPairs,
				Kind: lint.OptionStringMap,
				Default: map[string]string{
					"labelKey":       "label",
					"titleKey":       "title",
					"descriptionKey": "description",
				},
				Description: "Map of i18n key properties to their direct properties.",
			},
		},
		Tags: []string{"i18n"},
		Visitors: map[jsast.Kind]lint.Handler{
			jsast.KindObjectExpression: checkRedundantKeys,
		},
	}
}

func checkRedundantKeys(ctx *lint.HandlerContext, node *jsast.Node) error {
	pairs := ctx.Options().StringMap(optionKeyPairs)
	if len(pairs) == 0 {
		return nil
	}

	present := make(map[string]bool)
	unsupported := false
	for member := node.FirstChild; member != nil; member = member.Next {
		switch member.Kind {
		case jsast.KindSpreadElement:
			unsupported = true
		case jsast.KindProperty:
			if value := member.ChildByField("value"); value != nil && value.Kind == jsast.KindObjectExpression {
				unsupported = true
			}
		}
		if key, ok := jsast.PropertyKey(member); ok {
			present[key] = true
		}
	}

	// Removals that would share a separator are deferred: the later key is
	// reported without a fix and removed by the next fix pass.
	var claimed []fix.TextEdit
	for member := node.FirstChild; member != nil; member = member.Next {
		if member.Kind != jsast.KindProperty {
			continue
		}
		key, ok := jsast.PropertyKey(member)
		if !ok {
			continue
		}
		direct, ok := pairs[key]
		if !ok {
			continue
		}

		data := map[string]string{"key": key, "direct": direct}
		switch {
		case unsupported:
			ctx.ReportAt(member.Range, "unsupportedShape", data, nil)
		case present[direct]:
			edits := lint.RemovePropertyFix(ctx.File, member)
			if overlapsAny(edits, claimed) {
				edits = nil
			}
			claimed = append(claimed, edits...)
			ctx.ReportAt(member.Range, "redundantKey", data, edits)
		default:
			ctx.ReportAt(member.Range, "missingDirectKey", data, nil)
		}
	}

	return nil
}

func overlapsAny(edits, claimed []fix.TextEdit) bool {
	for _, edit := range edits {
		for _, other := range claimed {
			if edit.Overlaps(other) {
				return true
			}
		}
	}
	return false
}
