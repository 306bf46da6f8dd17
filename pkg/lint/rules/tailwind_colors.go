package rules

import (
	"regexp"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/jsast"
	"github.com/yaklabco/dslint/pkg/lint"
)

// RawTailwindColorsName is the name of the raw Tailwind colors rule.
const RawTailwindColorsName = "no-raw-tailwind-colors"

// rawColorPattern matches one Tailwind class that uses a palette color:
// optional variants ("hover:", "dark:md:"), an optional important marker,
// a color utility, a palette color with shade, and an optional opacity.
//
//nolint:gochecknoglobals // Compiled once.
var rawColorPattern = regexp.MustCompile(
	`^(?:[a-z0-9\-\[\]&_@]+:)*!?` +
		`(?:bg|text|border(?:-[trblxyse])?|ring(?:-offset)?|outline|divide|from|via|to|fill|stroke|placeholder|caret|accent|decoration|shadow)-` +
		`(?:(?:slate|gray|zinc|neutral|stone|red|orange|amber|yellow|lime|green|emerald|teal|cyan|sky|blue|indigo|violet|purple|fuchsia|pink|rose)-(?:50|[1-9]00|950)|black|white)` +
		`(?:/(?:\d{1,3}|\[[^\]]+\]))?$`,
)

// NewRawTailwindColorsRule creates the no-raw-tailwind-colors rule.
// Class lists in string literals, template literals and JSX attribute values
// are scanned class by class; each palette color class is reported at its
// own span.
func NewRawTailwindColorsRule() *lint.RuleDefinition {
	return &lint.RuleDefinition{
		Name:        RawTailwindColorsName,
		Description: "Tailwind palette colors must be replaced by semantic design tokens",
		AppliesTo:   lint.Not(lint.TestFiles()),
		Messages: map[string]string{
			"rawColor": `Raw Tailwind color class "{{className}}"; use a semantic token class instead`,
		},
		DefaultSeverity: config.SeverityError,
		Options: []lint.OptionSpec{
			{
				Name:        lint.OptionAllowedPatterns,
				Kind:        lint.OptionRegexList,
				Description: "Regular expressions for class names that are allowed.",
			},
		},
		Tags: []string{"design-tokens", "tailwind"},
		Visitors: map[jsast.Kind]lint.Handler{
			jsast.KindStringLiteral:   checkRawColors,
			jsast.KindTemplateLiteral: checkRawColors,
		},
	}
}

func checkRawColors(ctx *lint.HandlerContext, node *jsast.Node) error {
	if isModuleSource(node) {
		return nil
	}

	opts := ctx.Options()
	content := node.File.Content

	for _, segment := range literalSegments(node) {
		for _, word := range splitClasses(content, segment) {
			className := string(content[word.Start:word.End])
			if !rawColorPattern.MatchString(className) {
				continue
			}
			if opts.MatchesAny(lint.OptionAllowedPatterns, className) {
				continue
			}
			ctx.ReportAt(word, "rawColor", map[string]string{"className": className}, nil)
		}
	}

	return nil
}
