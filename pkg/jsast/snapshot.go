// Package jsast provides the syntax tree representation dslint rules inspect.
// It defines a lossless view of a JavaScript / TypeScript source file:
// - FileSnapshot: content, line index, token stream and tree root
// - Token stream: every byte classified
// - Nodes: a closed set of kinds linked to parent, children and siblings
package jsast

import "sort"

// Language identifies the grammar a snapshot was parsed with.
type Language string

// Supported languages.
const (
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangJavaScript Language = "javascript"
)

// FileSnapshot is an immutable view of one source file at parse time.
type FileSnapshot struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Language is the grammar used to parse Content.
	Language Language

	// Content is the full file bytes.
	Content []byte

	// Lines contains metadata for each line in the file.
	Lines []LineInfo

	// Tokens is the full token stream covering every byte, sorted by offset.
	Tokens []Token

	// Root is the tree root (KindProgram).
	Root *Node
}

// LineInfo holds metadata for a single line in a file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For the last line without a newline this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// NewFileSnapshot creates a snapshot shell with the line index built.
// Tokens and Root are filled in by a parser.
func NewFileSnapshot(path string, content []byte) *FileSnapshot {
	return &FileSnapshot{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
}

// BuildLines constructs line metadata from file content.
// It handles both LF and CRLF line endings.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx, char := range content {
		if char != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Columns count bytes. Returns (0, 0) if the offset is out of range.
func (f *FileSnapshot) LineAt(offset int) (int, int) {
	if offset < 0 || len(f.Lines) == 0 {
		return 0, 0
	}

	if offset >= len(f.Content) {
		last := f.Lines[len(f.Lines)-1]
		return len(f.Lines), offset - last.StartOffset + 1
	}

	lineIdx := sort.Search(len(f.Lines), func(i int) bool {
		return f.Lines[i].EndOffset > offset
	})
	if lineIdx >= len(f.Lines) {
		lineIdx = len(f.Lines) - 1
	}

	info := f.Lines[lineIdx]
	if offset < info.StartOffset {
		return 0, 0
	}

	return lineIdx + 1, offset - info.StartOffset + 1
}

// LineContent returns the content of a 1-based line, excluding the newline.
// Returns nil if the line number is out of range.
func (f *FileSnapshot) LineContent(line int) []byte {
	if line < 1 || line > len(f.Lines) {
		return nil
	}
	info := f.Lines[line-1]
	return f.Content[info.StartOffset:info.NewlineStart]
}

// Position converts a byte range to a line/column range.
func (f *FileSnapshot) Position(r Range) SourcePosition {
	startLine, startCol := f.LineAt(r.Start)
	endLine, endCol := f.LineAt(r.End)
	return SourcePosition{
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}
}

// Slice returns the source text in r, or nil if r is out of bounds.
func (f *FileSnapshot) Slice(r Range) []byte {
	if r.Start < 0 || r.End > len(f.Content) || r.Start > r.End {
		return nil
	}
	return f.Content[r.Start:r.End]
}
