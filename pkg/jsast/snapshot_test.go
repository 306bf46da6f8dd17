package jsast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dslint/pkg/jsast"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []jsast.LineInfo
	}{
		{name: "empty", content: "", want: []jsast.LineInfo{}},
		{name: "single line", content: "a;", want: []jsast.LineInfo{{0, 2, 2}}},
		{name: "lf", content: "a;\nb;", want: []jsast.LineInfo{{0, 2, 3}, {3, 5, 5}}},
		{name: "crlf", content: "a;\r\nb;\r\n", want: []jsast.LineInfo{{0, 2, 4}, {4, 6, 8}, {8, 8, 8}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, jsast.BuildLines([]byte(tt.content)))
		})
	}
}

func TestFileSnapshot_LineAt(t *testing.T) {
	t.Parallel()

	snap := jsast.NewFileSnapshot("a.ts", []byte("const a = 1;\nconst b = 2;\n"))

	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{0, 1, 1},
		{6, 1, 7},
		{12, 1, 13},
		{13, 2, 1},
		{19, 2, 7},
		{-1, 0, 0},
	}

	for _, tt := range tests {
		line, col := snap.LineAt(tt.offset)
		assert.Equal(t, tt.wantLine, line, "line for offset %d", tt.offset)
		assert.Equal(t, tt.wantCol, col, "column for offset %d", tt.offset)
	}

	assert.Equal(t, "const b = 2;", string(snap.LineContent(2)))
	assert.Nil(t, snap.LineContent(9))
}

func TestFileSnapshot_Position(t *testing.T) {
	t.Parallel()

	snap := jsast.NewFileSnapshot("a.ts", []byte("x = {\n  a: 1,\n};"))
	pos := snap.Position(jsast.Range{Start: 4, End: 15})

	assert.Equal(t, jsast.SourcePosition{StartLine: 1, StartColumn: 5, EndLine: 3, EndColumn: 2}, pos)
	assert.True(t, pos.IsValid())
	assert.False(t, pos.IsSingleLine())
	assert.Equal(t, "{\n  a: 1,\n}", string(snap.Slice(jsast.Range{Start: 4, End: 15})))
	assert.Nil(t, snap.Slice(jsast.Range{Start: 4, End: 99}))
}

func TestSignificantTokens(t *testing.T) {
	t.Parallel()

	// { a: 1, /* c */ b }
	content := []byte("{ a: 1, /* c */ b }")
	snap := jsast.NewFileSnapshot("a.ts", content)
	snap.Tokens = []jsast.Token{
		{Kind: jsast.TokPunct, StartOffset: 0, EndOffset: 1},
		{Kind: jsast.TokWhitespace, StartOffset: 1, EndOffset: 2},
		{Kind: jsast.TokIdentifier, StartOffset: 2, EndOffset: 3},
		{Kind: jsast.TokPunct, StartOffset: 3, EndOffset: 4},
		{Kind: jsast.TokWhitespace, StartOffset: 4, EndOffset: 5},
		{Kind: jsast.TokNumber, StartOffset: 5, EndOffset: 6},
		{Kind: jsast.TokPunct, StartOffset: 6, EndOffset: 7},
		{Kind: jsast.TokWhitespace, StartOffset: 7, EndOffset: 8},
		{Kind: jsast.TokComment, StartOffset: 8, EndOffset: 15},
		{Kind: jsast.TokWhitespace, StartOffset: 15, EndOffset: 16},
		{Kind: jsast.TokIdentifier, StartOffset: 16, EndOffset: 17},
		{Kind: jsast.TokWhitespace, StartOffset: 17, EndOffset: 18},
		{Kind: jsast.TokPunct, StartOffset: 18, EndOffset: 19},
	}
	require.True(t, jsast.ValidateTokens(snap.Tokens, len(content)))

	next, ok := snap.NextSignificantToken(7)
	require.True(t, ok)
	assert.Equal(t, "b", snap.TokenText(next))

	prev, ok := snap.PrevSignificantToken(16)
	require.True(t, ok)
	assert.Equal(t, ",", snap.TokenText(prev))

	assert.Equal(t, 8, snap.TokenIndexAt(10))
	assert.Equal(t, -1, snap.TokenIndexAt(40))

	_, ok = snap.NextSignificantToken(19)
	assert.False(t, ok)
}

func TestValidateTokens(t *testing.T) {
	t.Parallel()

	assert.True(t, jsast.ValidateTokens(nil, 0))
	assert.False(t, jsast.ValidateTokens(nil, 3))
	assert.False(t, jsast.ValidateTokens([]jsast.Token{{StartOffset: 0, EndOffset: 1}, {StartOffset: 2, EndOffset: 3}}, 3))
	assert.True(t, jsast.ValidateTokens([]jsast.Token{{StartOffset: 0, EndOffset: 1}, {StartOffset: 1, EndOffset: 3}}, 3))
}

func TestKind_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, k := range jsast.Kinds() {
		got, ok := jsast.ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}

	_, ok := jsast.ParseKind("NoSuchKind")
	assert.False(t, ok)
}
