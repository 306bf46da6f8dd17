package treesitter

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/yaklabco/dslint/pkg/jsast"
)

// kindByType maps grammar node types onto the closed jsast kind set.
// Named types absent from the table become jsast.KindOther.
//
//nolint:gochecknoglobals // Read-only lookup table.
var kindByType = map[string]jsast.Kind{
	"program": jsast.KindProgram,

	"import_statement":    jsast.KindImportDeclaration,
	"import_specifier":    jsast.KindImportSpecifier,
	"namespace_import":    jsast.KindImportSpecifier,
	"export_statement":    jsast.KindExportDeclaration,
	"export_specifier":    jsast.KindOther,
	"import_clause":       jsast.KindOther,
	"named_imports":       jsast.KindOther,
	"variable_declarator": jsast.KindVariableDeclarator,

	"function_declaration":           jsast.KindFunction,
	"function_expression":            jsast.KindFunction,
	"function":                       jsast.KindFunction,
	"arrow_function":                 jsast.KindFunction,
	"generator_function":             jsast.KindFunction,
	"generator_function_declaration": jsast.KindFunction,
	"method_definition":              jsast.KindMethod,
	"class_declaration":              jsast.KindClass,
	"abstract_class_declaration":     jsast.KindClass,
	"class":                          jsast.KindClass,

	"call_expression":   jsast.KindCallExpression,
	"new_expression":    jsast.KindNewExpression,
	"member_expression": jsast.KindMemberExpression,
	"arguments":         jsast.KindArguments,

	"identifier":                    jsast.KindIdentifier,
	"property_identifier":           jsast.KindIdentifier,
	"private_property_identifier":   jsast.KindIdentifier,
	"shorthand_property_identifier": jsast.KindShorthandProperty,

	"string":                jsast.KindStringLiteral,
	"template_string":       jsast.KindTemplateLiteral,
	"template_substitution": jsast.KindTemplateSubstitution,
	"number":                jsast.KindNumberLiteral,

	"object":         jsast.KindObjectExpression,
	"pair":           jsast.KindProperty,
	"spread_element": jsast.KindSpreadElement,
	"array":          jsast.KindArrayExpression,
	"object_pattern": jsast.KindObjectPattern,

	"jsx_element":              jsast.KindJSXElement,
	"jsx_self_closing_element": jsast.KindJSXElement,
	"jsx_opening_element":      jsast.KindJSXOpeningElement,
	"jsx_attribute":            jsast.KindJSXAttribute,
	"jsx_expression":           jsast.KindJSXExpression,
	"jsx_text":                 jsast.KindJSXText,

	"comment":      jsast.KindComment,
	"html_comment": jsast.KindComment,
	"ERROR":        jsast.KindError,
}

// mapper converts a tree-sitter tree into jsast nodes and a token stream.
// Named grammar nodes become jsast nodes; every leaf becomes a token, and
// the bytes between leaves are filled with trivia tokens.
type mapper struct {
	content []byte
	tokens  []jsast.Token
	cursor  int
}

func newMapper(content []byte) *mapper {
	return &mapper{content: content}
}

// mapTree maps the root node and all of its descendants.
func (m *mapper) mapTree(root *sitter.Node) *jsast.Node {
	program := m.newNode(root, "")
	program.Kind = jsast.KindProgram
	m.mapChildren(root, program)
	return program
}

func (m *mapper) newNode(sn *sitter.Node, field string) *jsast.Node {
	kind, ok := kindByType[sn.Type()]
	if !ok {
		kind = jsast.KindOther
	}
	node := jsast.NewNode(kind, jsast.Range{Start: int(sn.StartByte()), End: int(sn.EndByte())})
	node.Type = sn.Type()
	node.Field = field
	return node
}

// mapChildren walks the children of sn, attaching named children to parent.
func (m *mapper) mapChildren(sn *sitter.Node, parent *jsast.Node) {
	for i := range int(sn.ChildCount()) {
		child := sn.Child(i)
		if child == nil {
			continue
		}

		if !child.IsNamed() {
			m.mapAnonymous(child, parent)
			continue
		}

		node := m.newNode(child, sn.FieldNameForChild(i))
		jsast.AppendChild(parent, node)
		if child.ChildCount() == 0 {
			m.emitLeaf(child)
		} else {
			m.mapChildren(child, node)
		}
	}
}

// mapAnonymous handles unnamed grammar nodes, which never become jsast nodes.
func (m *mapper) mapAnonymous(sn *sitter.Node, parent *jsast.Node) {
	if sn.ChildCount() == 0 {
		m.emitLeaf(sn)
		return
	}
	m.mapChildren(sn, parent)
}

// emitLeaf appends a token for a leaf, filling any gap before it.
func (m *mapper) emitLeaf(sn *sitter.Node) {
	start, end := int(sn.StartByte()), int(sn.EndByte())
	if start < m.cursor {
		start = m.cursor
	}
	if end <= start {
		return
	}

	m.fillGap(start)
	m.tokens = append(m.tokens, jsast.Token{
		Kind:        classifyLeaf(sn, m.content[start:end]),
		StartOffset: start,
		EndOffset:   end,
	})
	m.cursor = end
}

// finish fills the trailing gap and returns the token stream.
func (m *mapper) finish() []jsast.Token {
	m.fillGap(len(m.content))
	return m.tokens
}

// fillGap emits trivia tokens for bytes between the cursor and end.
func (m *mapper) fillGap(end int) {
	for m.cursor < end {
		start := m.cursor
		kind := gapKind(m.content[start])
		for m.cursor < end && gapKind(m.content[m.cursor]) == kind {
			m.cursor++
		}
		m.tokens = append(m.tokens, jsast.Token{Kind: kind, StartOffset: start, EndOffset: m.cursor})
	}
}

func gapKind(b byte) jsast.TokenKind {
	switch b {
	case '\n', '\r':
		return jsast.TokNewline
	case ' ', '\t', '\f', '\v':
		return jsast.TokWhitespace
	default:
		return jsast.TokOther
	}
}
