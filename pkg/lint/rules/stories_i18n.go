package rules

import (
	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/jsast"
	"github.com/yaklabco/dslint/pkg/lint"
)

// I18nKeysInStoriesName is the name of the stories i18n rule.
const I18nKeysInStoriesName = "no-i18n-keys-in-stories"

const optionTranslateFunctions = "translateFunctions"

// NewI18nKeysInStoriesRule creates the no-i18n-keys-in-stories rule.
// Stories render presenters with literal text: translation calls and
// "*Key" properties holding i18n keys are reported.
func NewI18nKeysInStoriesRule() *lint.RuleDefinition {
	return &lint.RuleDefinition{
		Name:        I18nKeysInStoriesName,
		Description: "Stories must pass resolved text instead of i18n keys",
		AppliesTo:   lint.StoryFiles(),
		Messages: map[string]string{
			"translateCall": "Stories must not call {{callee}}(); pass the resolved text instead",
			"keyProperty":   "Stories must not pass the i18n key {{key}}; pass the resolved text instead",
		},
		DefaultSeverity: config.SeverityWarning,
		Options: []lint.OptionSpec{
			{
				Name:        lint.OptionAllowedPatterns,
				Kind:        lint.OptionRegexList,
				Description: "Regular expressions for property names or callees that are allowed.",
			},
			{
				Name:        optionTranslateFunctions,
				Kind:        lint.OptionStringList,
				Default:     []string{"t", "i18n.t", "i18next.t"},
				Description: "Translation functions stories may not call.",
			},
		},
		Tags: []string{"i18n", "storybook"},
		Visitors: map[jsast.Kind]lint.Handler{
			jsast.KindCallExpression: checkStoryTranslateCall,
			jsast.KindProperty:       checkStoryKeyProperty,
			jsast.KindJSXAttribute:   checkStoryKeyAttribute,
		},
	}
}

func checkStoryTranslateCall(ctx *lint.HandlerContext, node *jsast.Node) error {
	callee := jsast.Callee(node)
	if callee == "" {
		return nil
	}
	opts := ctx.Options()
	if opts.MatchesAny(lint.OptionAllowedPatterns, callee) {
		return nil
	}
	for _, fn := range opts.StringList(optionTranslateFunctions) {
		if callee == fn {
			ctx.Report("translateCall", map[string]string{"callee": callee}, nil)
			return nil
		}
	}
	return nil
}

func checkStoryKeyProperty(ctx *lint.HandlerContext, node *jsast.Node) error {
	key, ok := jsast.PropertyKey(node)
	if !ok || !hasKeySuffix(key) {
		return nil
	}
	if !isLiteral(node.ChildByField("value")) {
		return nil
	}
	reportStoryKey(ctx, key)
	return nil
}

// checkStoryKeyAttribute handles JSX props such as labelKey="nav.home".
func checkStoryKeyAttribute(ctx *lint.HandlerContext, node *jsast.Node) error {
	name := node.FirstChild
	if name == nil || name.Kind != jsast.KindIdentifier {
		return nil
	}
	key := string(name.Text())
	if !hasKeySuffix(key) {
		return nil
	}
	value := name.Next
	if value != nil && value.Kind == jsast.KindJSXExpression {
		value = value.FirstChild
	}
	if !isLiteral(value) {
		return nil
	}
	reportStoryKey(ctx, key)
	return nil
}

func reportStoryKey(ctx *lint.HandlerContext, key string) {
	if ctx.Options().MatchesAny(lint.OptionAllowedPatterns, key) {
		return
	}
	ctx.Report("keyProperty", map[string]string{"key": key}, nil)
}

// isLiteral reports whether node is a string or template literal.
func isLiteral(node *jsast.Node) bool {
	return node != nil && (node.Kind == jsast.KindStringLiteral || node.Kind == jsast.KindTemplateLiteral)
}
