package rules

import (
	"strings"

	"github.com/yaklabco/dslint/pkg/jsast"
)

// literalSegments returns the byte ranges of a string or template literal's
// literal text, excluding quotes and template substitutions.
func literalSegments(node *jsast.Node) []jsast.Range {
	if node.Range.Len() < 2 {
		return nil
	}
	inner := jsast.Range{Start: node.Range.Start + 1, End: node.Range.End - 1}

	if node.Kind != jsast.KindTemplateLiteral {
		return []jsast.Range{inner}
	}

	var segments []jsast.Range
	cursor := inner.Start
	for _, sub := range node.ChildrenOfKind(jsast.KindTemplateSubstitution) {
		if sub.Range.Start > cursor {
			segments = append(segments, jsast.Range{Start: cursor, End: sub.Range.Start})
		}
		cursor = sub.Range.End
	}
	if inner.End > cursor {
		segments = append(segments, jsast.Range{Start: cursor, End: inner.End})
	}
	return segments
}

// splitClasses splits a segment into whitespace separated words.
func splitClasses(content []byte, segment jsast.Range) []jsast.Range {
	var words []jsast.Range
	start := -1
	for i := segment.Start; i < segment.End; i++ {
		if isClassSpace(content[i]) {
			if start >= 0 {
				words = append(words, jsast.Range{Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, jsast.Range{Start: start, End: segment.End})
	}
	return words
}

func isClassSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// isModuleSource reports whether a literal is the source of an import or
// export declaration.
func isModuleSource(node *jsast.Node) bool {
	if node.Parent == nil || node.Field != "source" {
		return false
	}
	return node.Parent.Kind == jsast.KindImportDeclaration || node.Parent.Kind == jsast.KindExportDeclaration
}

// literalValue returns the static text of a string literal, or of a template
// literal up to its first substitution. complete is false when the template
// has substitutions.
func literalValue(node *jsast.Node) (value string, complete bool) {
	if v, ok := jsast.StringValue(node); ok {
		return v, true
	}
	if node.Kind == jsast.KindTemplateLiteral {
		return jsast.TemplateHead(node), false
	}
	return "", false
}

// hasKeySuffix reports whether name is a camelCase i18n key property such
// as "labelKey" or "i18nKey".
func hasKeySuffix(name string) bool {
	return len(name) > len("Key") && strings.HasSuffix(name, "Key")
}
