package treesitter_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dslint/pkg/jsast"
	"github.com/yaklabco/dslint/pkg/parser/treesitter"
)

func parse(t *testing.T, path, src string) *jsast.FileSnapshot {
	t.Helper()
	snap, err := treesitter.New().Parse(context.Background(), path, []byte(src))
	require.NoError(t, err)
	require.NotNil(t, snap)
	return snap
}

func TestParse_ObjectLiteral(t *testing.T) {
	t.Parallel()

	snap := parse(t, "menu.ts", `const item = { labelKey: "sidebar.items.dashboard", label: "Dashboard" };`)

	assert.Equal(t, jsast.KindProgram, snap.Root.Kind)
	assert.Equal(t, jsast.LangTypeScript, snap.Language)
	assert.True(t, jsast.ValidateTokens(snap.Tokens, len(snap.Content)))

	objects := jsast.FindByKind(snap.Root, jsast.KindObjectExpression)
	require.Len(t, objects, 1)

	props := objects[0].ChildrenOfKind(jsast.KindProperty)
	require.Len(t, props, 2)

	key, ok := jsast.PropertyKey(props[0])
	require.True(t, ok)
	assert.Equal(t, "labelKey", key)

	value, ok := jsast.StringValue(props[0].ChildByField("value"))
	require.True(t, ok)
	assert.Equal(t, "sidebar.items.dashboard", value)

	for _, n := range jsast.FindAll(snap.Root, func(*jsast.Node) bool { return true }) {
		assert.Same(t, snap, n.File)
	}
}

func TestParse_TokenStream(t *testing.T) {
	t.Parallel()

	snap := parse(t, "a.ts", "const a = { x: 1, /* note */ y: 2 };\n")

	var commas, comments int
	for _, tok := range snap.Tokens {
		switch {
		case tok.Kind == jsast.TokPunct && snap.TokenText(tok) == ",":
			commas++
		case tok.Kind == jsast.TokComment:
			comments++
		}
	}
	assert.Equal(t, 1, commas)
	assert.Equal(t, 1, comments)

	last := snap.Tokens[len(snap.Tokens)-1]
	assert.Equal(t, jsast.TokNewline, last.Kind)
}

func TestParse_JSXAttribute(t *testing.T) {
	t.Parallel()

	snap := parse(t, "Badge.tsx", `export const Badge = () => <span className="bg-red-500 p-2">hi</span>;`)

	attrs := jsast.FindByKind(snap.Root, jsast.KindJSXAttribute)
	require.Len(t, attrs, 1)
	assert.Equal(t, "className", string(attrs[0].FirstChild.Text()))

	value, ok := jsast.StringValue(attrs[0].LastChild)
	require.True(t, ok)
	assert.Equal(t, "bg-red-500 p-2", value)

	require.Len(t, jsast.FindByKind(snap.Root, jsast.KindJSXElement), 1)
}

func TestParse_CallAndImport(t *testing.T) {
	t.Parallel()

	snap := parse(t, "a.js", "import axios from 'axios';\nconst r = api.client.get('/api/users');\n")
	assert.Equal(t, jsast.LangJavaScript, snap.Language)

	imports := jsast.FindByKind(snap.Root, jsast.KindImportDeclaration)
	require.Len(t, imports, 1)
	source, ok := jsast.StringValue(imports[0].ChildByField("source"))
	require.True(t, ok)
	assert.Equal(t, "axios", source)

	calls := jsast.FindByKind(snap.Root, jsast.KindCallExpression)
	require.Len(t, calls, 1)
	assert.Equal(t, "api.client.get", jsast.Callee(calls[0]))

	pos := calls[0].SourcePosition()
	assert.Equal(t, 2, pos.StartLine)
	assert.Equal(t, 11, pos.StartColumn)
}

func TestParse_TemplateLiteral(t *testing.T) {
	t.Parallel()

	snap := parse(t, "a.ts", "const u = `/api/users/${id}/roles`;")

	tpl := jsast.FindByKind(snap.Root, jsast.KindTemplateLiteral)
	require.Len(t, tpl, 1)
	assert.Equal(t, "/api/users/", jsast.TemplateHead(tpl[0]))

	_, ok := jsast.StringValue(tpl[0])
	assert.False(t, ok)
}

func TestParse_SyntaxError(t *testing.T) {
	t.Parallel()

	snap, err := treesitter.New().Parse(context.Background(), "broken.ts", []byte("const a = {\n  b: 1,\n  c: ;\n"))
	require.Error(t, err)
	assert.Nil(t, snap)

	var perr *jsast.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "broken.ts", perr.Path)
	assert.Positive(t, perr.Line)
	assert.Contains(t, perr.Error(), "syntax error")
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	snap := parse(t, "empty.ts", "")
	assert.Empty(t, snap.Tokens)
	assert.False(t, snap.Root.HasChildren())
}

func TestParse_WhitespaceOnly(t *testing.T) {
	t.Parallel()

	snap := parse(t, "blank.ts", "  \n\t\n")
	require.True(t, jsast.ValidateTokens(snap.Tokens, len(snap.Content)))
	for _, tok := range snap.Tokens {
		assert.True(t, tok.IsTrivia())
	}
}

func TestParse_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := treesitter.New().Parse(ctx, "a.ts", []byte("const a = 1;"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestParse_ContentIsCopied(t *testing.T) {
	t.Parallel()

	src := []byte("const a = 1;")
	snap, err := treesitter.New().Parse(context.Background(), "a.ts", src)
	require.NoError(t, err)
	src[0] = 'x'
	assert.Equal(t, "const a = 1;", string(snap.Content))
}
