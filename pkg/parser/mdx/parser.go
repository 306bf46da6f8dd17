// Package mdx extracts JavaScript-family code fences from Markdown and MDX
// documentation and parses each one with the tree-sitter grammars.
package mdx

import (
	"context"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/dslint/pkg/jsast"
	"github.com/yaklabco/dslint/pkg/langdetect"
	"github.com/yaklabco/dslint/pkg/parser/treesitter"
)

// Fence is a JavaScript-family code fence located in a document.
type Fence struct {
	// Info is the raw info string after the opening fence.
	Info string

	// Language is the grammar chosen for the fence.
	Language jsast.Language

	// Offset is the byte offset of the first code byte in the document.
	Offset int

	// Content is the code between the fences.
	Content []byte
}

// Parser implements lint.DocumentParser for Markdown and MDX files.
type Parser struct {
	md goldmark.Markdown
}

// New creates a document parser using the GFM flavour.
func New() *Parser {
	return &Parser{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Fences returns the JavaScript-family fences of a document in source order.
// Fences whose lines are not contiguous in the source (nested in block quotes
// or indented list items) are skipped, since their code cannot be mapped back
// onto the document byte for byte.
func (p *Parser) Fences(content []byte) []Fence {
	reader := text.NewReader(content)
	doc := p.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	var fences []Fence

	//nolint:errcheck,revive // the walker never returns an error
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if fence, ok := fenceFor(block, content); ok {
			fences = append(fences, fence)
		}
		return ast.WalkSkipChildren, nil
	})

	return fences
}

// ParseDocument parses every JavaScript-family fence of a document.
// Parse failures are reported per fence in Embedded.Err with document
// coordinates; the returned error is reserved for cancellation.
func (p *Parser) ParseDocument(ctx context.Context, path string, content []byte) ([]jsast.Embedded, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	host := jsast.NewFileSnapshot(path, content)
	fences := p.Fences(content)
	blocks := make([]jsast.Embedded, 0, len(fences))

	for _, fence := range fences {
		line, _ := host.LineAt(fence.Offset)
		block := jsast.Embedded{Offset: fence.Offset, Line: line}

		snap, err := treesitter.NewForLanguage(fence.Language).Parse(ctx, path, fence.Content)
		switch {
		case err == nil:
			block.Snapshot = snap
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			block.Err = shiftParseError(err, block, host)
		}

		blocks = append(blocks, block)
	}

	return blocks, nil
}

// fenceFor extracts the code of a fenced block when it is JavaScript-family
// code stored contiguously in the source.
func fenceFor(block *ast.FencedCodeBlock, content []byte) (Fence, bool) {
	lines := block.Lines()
	if lines.Len() == 0 {
		return Fence{}, false
	}

	first := lines.At(0)
	prevStop := first.Start
	for i := range lines.Len() {
		seg := lines.At(i)
		if seg.Start != prevStop || seg.Padding != 0 {
			return Fence{}, false
		}
		prevStop = seg.Stop
	}

	code := content[first.Start:prevStop]

	info := ""
	if block.Info != nil {
		info = string(block.Info.Segment.Value(content))
	}

	lang, ok := langdetect.ForFence(info, code)
	if !ok {
		return Fence{}, false
	}

	return Fence{
		Info:     info,
		Language: lang,
		Offset:   first.Start,
		Content:  code,
	}, true
}

// shiftParseError moves a block-relative parse error into host coordinates.
func shiftParseError(err error, block jsast.Embedded, host *jsast.FileSnapshot) error {
	var perr *jsast.ParseError
	if !errors.As(err, &perr) {
		return err
	}

	offset := perr.Offset + block.Offset
	line, col := host.LineAt(offset)

	return &jsast.ParseError{
		Path:    host.Path,
		Offset:  offset,
		Line:    line,
		Column:  col,
		Message: perr.Message,
	}
}
