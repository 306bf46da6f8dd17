package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/yaklabco/dslint/pkg/jsast"
)

// keywordLeaves are named grammar leaves that read as keywords.
//
//nolint:gochecknoglobals // Read-only lookup table.
var keywordLeaves = map[string]bool{
	"this":      true,
	"super":     true,
	"true":      true,
	"false":     true,
	"null":      true,
	"undefined": true,
}

// classifyLeaf assigns a token kind to a leaf node.
func classifyLeaf(sn *sitter.Node, text []byte) jsast.TokenKind {
	typ := sn.Type()

	switch typ {
	case "comment", "html_comment", "hash_bang_line":
		return jsast.TokComment
	case "number":
		return jsast.TokNumber
	case "jsx_text":
		return jsast.TokJSXText
	}

	if parent := sn.Parent(); parent != nil {
		switch parent.Type() {
		case "string":
			return jsast.TokString
		case "template_string":
			return jsast.TokTemplate
		}
	}

	if !sn.IsNamed() {
		if isWord(text) {
			return jsast.TokKeyword
		}
		return jsast.TokPunct
	}

	switch {
	case keywordLeaves[typ]:
		return jsast.TokKeyword
	case strings.HasSuffix(typ, "identifier"):
		return jsast.TokIdentifier
	case typ == "string_fragment", typ == "escape_sequence":
		return jsast.TokString
	default:
		return jsast.TokOther
	}
}

func isWord(text []byte) bool {
	if len(text) == 0 {
		return false
	}
	c := text[0]
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
