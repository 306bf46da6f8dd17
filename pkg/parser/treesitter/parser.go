// Package treesitter provides a lint.Parser implementation backed by the
// tree-sitter TypeScript, TSX and JavaScript grammars.
package treesitter

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/yaklabco/dslint/pkg/jsast"
	"github.com/yaklabco/dslint/pkg/langdetect"
)

// errorSnippetLen bounds the source excerpt quoted in parse error messages.
const errorSnippetLen = 24

// Parser implements lint.Parser using tree-sitter.
//
// A Parser is safe for concurrent use: every Parse call allocates its own
// tree-sitter parser and releases it before returning.
type Parser struct {
	language jsast.Language
}

// New creates a parser that picks the grammar from each file's path.
func New() *Parser {
	return &Parser{}
}

// NewForLanguage creates a parser that always uses the given grammar.
func NewForLanguage(lang jsast.Language) *Parser {
	return &Parser{language: lang}
}

// Parse converts source bytes into a fully-populated FileSnapshot.
//
// The method:
//  1. Checks for context cancellation.
//  2. Chooses a grammar (fixed, or from the path and content).
//  3. Parses content with tree-sitter.
//  4. Maps named grammar nodes onto jsast nodes and leaves onto tokens.
//  5. Sets File back-references throughout the tree.
//  6. Validates the token stream.
//
// Syntax errors return nil and a *jsast.ParseError locating the first
// error or missing node.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*jsast.FileSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	lang := p.language
	if lang == "" {
		lang = langdetect.ForPath(path, content)
	}

	snapshot := jsast.NewFileSnapshot(path, copyContent(content))
	snapshot.Language = lang

	tsParser := sitter.NewParser()
	defer tsParser.Close()
	tsParser.SetLanguage(grammarFor(lang))

	tree, err := tsParser.ParseCtx(ctx, nil, snapshot.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, newParseError(snapshot, root)
	}

	m := newMapper(snapshot.Content)
	snapshot.Root = m.mapTree(root)
	snapshot.Tokens = m.finish()

	jsast.SetFile(snapshot.Root, snapshot)

	if !jsast.ValidateTokens(snapshot.Tokens, len(snapshot.Content)) {
		return nil, errors.New("invalid token stream: tokens do not cover content")
	}

	return snapshot, nil
}

// grammarFor returns the tree-sitter grammar for a language.
// Unknown languages use TSX, which accepts the widest range of dashboard code.
func grammarFor(lang jsast.Language) *sitter.Language {
	switch lang {
	case jsast.LangTypeScript:
		return typescript.GetLanguage()
	case jsast.LangJavaScript:
		return javascript.GetLanguage()
	case jsast.LangTSX:
		return tsx.GetLanguage()
	default:
		return tsx.GetLanguage()
	}
}

// newParseError locates the first ERROR or MISSING node under root.
func newParseError(snapshot *jsast.FileSnapshot, root *sitter.Node) *jsast.ParseError {
	bad := firstErrorNode(root)
	if bad == nil {
		bad = root
	}

	offset := int(bad.StartByte())
	line, col := snapshot.LineAt(offset)

	var msg string
	switch {
	case bad.IsMissing():
		msg = fmt.Sprintf("syntax error: missing %s", bad.Type())
	default:
		end := min(int(bad.EndByte()), offset+errorSnippetLen, len(snapshot.Content))
		msg = fmt.Sprintf("syntax error: unexpected %q", snapshot.Content[offset:end])
	}

	return &jsast.ParseError{
		Path:    snapshot.Path,
		Offset:  offset,
		Line:    line,
		Column:  col,
		Message: msg,
	}
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := range int(n.ChildCount()) {
		if found := firstErrorNode(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// copyContent creates a copy of the content slice to ensure immutability.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
