package jsast

// Kind classifies a syntax node. The set is closed: parsers map every grammar
// node type onto one of these values, falling back to KindOther.
type Kind uint16

// Node kinds.
const (
	KindProgram Kind = iota

	// Modules.
	KindImportDeclaration
	KindImportSpecifier
	KindExportDeclaration

	// Declarations and functions.
	KindVariableDeclarator
	KindFunction
	KindClass

	// Expressions.
	KindCallExpression
	KindNewExpression
	KindMemberExpression
	KindArguments
	KindIdentifier
	KindStringLiteral
	KindTemplateLiteral
	KindTemplateSubstitution
	KindNumberLiteral
	KindObjectExpression
	KindProperty
	KindShorthandProperty
	KindMethod
	KindSpreadElement
	KindArrayExpression
	KindObjectPattern

	// JSX.
	KindJSXElement
	KindJSXOpeningElement
	KindJSXAttribute
	KindJSXExpression
	KindJSXText

	// Trivia and recovery.
	KindComment
	KindError

	// Fallback for grammar nodes without a dedicated kind.
	KindOther

	kindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = [kindCount]string{
	KindProgram:              "Program",
	KindImportDeclaration:    "ImportDeclaration",
	KindImportSpecifier:      "ImportSpecifier",
	KindExportDeclaration:    "ExportDeclaration",
	KindVariableDeclarator:   "VariableDeclarator",
	KindFunction:             "Function",
	KindClass:                "Class",
	KindCallExpression:       "CallExpression",
	KindNewExpression:        "NewExpression",
	KindMemberExpression:     "MemberExpression",
	KindArguments:            "Arguments",
	KindIdentifier:           "Identifier",
	KindStringLiteral:        "StringLiteral",
	KindTemplateLiteral:      "TemplateLiteral",
	KindTemplateSubstitution: "TemplateSubstitution",
	KindNumberLiteral:        "NumberLiteral",
	KindObjectExpression:     "ObjectExpression",
	KindProperty:             "Property",
	KindShorthandProperty:    "ShorthandProperty",
	KindMethod:               "Method",
	KindSpreadElement:        "SpreadElement",
	KindArrayExpression:      "ArrayExpression",
	KindObjectPattern:        "ObjectPattern",
	KindJSXElement:           "JSXElement",
	KindJSXOpeningElement:    "JSXOpeningElement",
	KindJSXAttribute:         "JSXAttribute",
	KindJSXExpression:        "JSXExpression",
	KindJSXText:              "JSXText",
	KindComment:              "Comment",
	KindError:                "Error",
	KindOther:                "Other",
}

// String returns the kind name.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsValid reports whether k is one of the declared kinds.
func (k Kind) IsValid() bool {
	return k < kindCount
}

// Kinds returns every declared kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := range kindCount {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind converts a kind name back to a Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindOther, false
}
