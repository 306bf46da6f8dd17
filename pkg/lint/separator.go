package lint

import (
	"github.com/yaklabco/dslint/pkg/fix"
	"github.com/yaklabco/dslint/pkg/jsast"
)

// RemovePropertyFix returns the edits deleting one member of an object-like
// structure together with exactly one adjacent separator.
//
// The first significant token after the member decides: if it is a
// separator, the removal extends through it and the horizontal whitespace
// after it. A member alone on its line is removed with its whole line.
// Otherwise, if the last significant token before the member is a
// separator, the removal extends backwards to include it.
func RemovePropertyFix(file *jsast.FileSnapshot, node *jsast.Node) []fix.TextEdit {
	if file == nil || node == nil {
		return nil
	}

	start, end := node.Range.Start, node.Range.End

	if next, ok := file.NextSignificantToken(end); ok && isSeparator(file, next) {
		end = next.EndOffset
		start, end = extendOverLayout(file, start, end)
		return []fix.TextEdit{{StartOffset: start, EndOffset: end}}
	}

	if prev, ok := file.PrevSignificantToken(start); ok && isSeparator(file, prev) {
		start = prev.StartOffset
	}

	return []fix.TextEdit{{StartOffset: start, EndOffset: end}}
}

func isSeparator(file *jsast.FileSnapshot, tok jsast.Token) bool {
	if tok.Kind != jsast.TokPunct {
		return false
	}
	text := file.TokenText(tok)
	return text == "," || text == ";"
}

// extendOverLayout grows [start, end) over the whitespace following a
// trailing separator. When the member starts its line and only whitespace
// follows the separator up to the line break, the indentation before the
// member and the line break are removed too.
func extendOverLayout(file *jsast.FileSnapshot, start, end int) (int, int) {
	content := file.Content

	wsEnd := end
	for wsEnd < len(content) && (content[wsEnd] == ' ' || content[wsEnd] == '\t') {
		wsEnd++
	}

	lineStart := start
	for lineStart > 0 && (content[lineStart-1] == ' ' || content[lineStart-1] == '\t') {
		lineStart--
	}
	startsLine := lineStart == 0 || content[lineStart-1] == '\n'

	if startsLine && wsEnd < len(content) {
		switch {
		case content[wsEnd] == '\n':
			return lineStart, wsEnd + 1
		case content[wsEnd] == '\r' && wsEnd+1 < len(content) && content[wsEnd+1] == '\n':
			return lineStart, wsEnd + 2
		}
	}

	if wsEnd < len(content) && (content[wsEnd] == '\n' || content[wsEnd] == '\r') {
		// Keep the line break; drop only trailing blanks.
		return start, wsEnd
	}

	return start, wsEnd
}
