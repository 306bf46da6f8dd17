package jsast

import "sort"

// TokenKind classifies a span of bytes in the source.
type TokenKind uint16

// Token kinds cover every byte in the source.
const (
	TokWhitespace TokenKind = iota
	TokNewline
	TokComment
	TokPunct      // ',', '{', '=>', ...
	TokKeyword    // anonymous word tokens such as 'import', 'const'
	TokIdentifier // identifiers and property names
	TokString     // quotes, string fragments, escape sequences
	TokTemplate   // template literal delimiters and chunks
	TokNumber
	TokJSXText
	TokOther
)

// Token is a classified span of bytes. Tokens are contiguous and
// non-overlapping, covering [0, len(Content)).
type Token struct {
	Kind TokenKind

	// StartOffset is the byte index where this token begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where this token ends (exclusive).
	EndOffset int
}

// Text returns the source text of this token from the given content.
func (t Token) Text(content []byte) []byte {
	if t.StartOffset < 0 || t.EndOffset > len(content) || t.StartOffset > t.EndOffset {
		return nil
	}
	return content[t.StartOffset:t.EndOffset]
}

// Len returns the length of this token in bytes.
func (t Token) Len() int {
	return t.EndOffset - t.StartOffset
}

// IsTrivia reports whether the token carries no syntax (whitespace or comment).
func (t Token) IsTrivia() bool {
	return t.Kind == TokWhitespace || t.Kind == TokNewline || t.Kind == TokComment
}

// ValidateTokens checks that tokens are contiguous, non-overlapping and
// cover [0, contentLen).
func ValidateTokens(tokens []Token, contentLen int) bool {
	if len(tokens) == 0 {
		return contentLen == 0
	}
	if tokens[0].StartOffset != 0 || tokens[len(tokens)-1].EndOffset != contentLen {
		return false
	}
	for i := 1; i < len(tokens); i++ {
		if tokens[i].StartOffset != tokens[i-1].EndOffset {
			return false
		}
	}
	return true
}

// TokenIndexAt returns the index of the token containing offset, or -1.
func (f *FileSnapshot) TokenIndexAt(offset int) int {
	idx := sort.Search(len(f.Tokens), func(i int) bool {
		return f.Tokens[i].EndOffset > offset
	})
	if idx >= len(f.Tokens) || f.Tokens[idx].StartOffset > offset {
		return -1
	}
	return idx
}

// NextSignificantToken returns the first non-trivia token starting at or
// after offset.
func (f *FileSnapshot) NextSignificantToken(offset int) (Token, bool) {
	idx := sort.Search(len(f.Tokens), func(i int) bool {
		return f.Tokens[i].StartOffset >= offset
	})
	for ; idx < len(f.Tokens); idx++ {
		if !f.Tokens[idx].IsTrivia() {
			return f.Tokens[idx], true
		}
	}
	return Token{}, false
}

// PrevSignificantToken returns the last non-trivia token ending at or
// before offset.
func (f *FileSnapshot) PrevSignificantToken(offset int) (Token, bool) {
	idx := sort.Search(len(f.Tokens), func(i int) bool {
		return f.Tokens[i].EndOffset > offset
	}) - 1
	for ; idx >= 0; idx-- {
		if !f.Tokens[idx].IsTrivia() {
			return f.Tokens[idx], true
		}
	}
	return Token{}, false
}

// TokenText returns the source text of tok.
func (f *FileSnapshot) TokenText(tok Token) string {
	return string(tok.Text(f.Content))
}
