package sourcecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esfix/internal/ast"
	"esfix/internal/source"
	"esfix/internal/token"
)

func makeSource(t *testing.T, src string) *SourceCode {
	t.Helper()
	fs := source.NewFileSet()
	sc, err := Parse(fs.Get(fs.AddVirtual("test.js", []byte(src))))
	require.NoError(t, err)
	return sc
}

func callOf(sc *SourceCode) *ast.Node {
	return sc.AST.Stmts[0].Expression
}

func TestTokenQueries(t *testing.T) {
	sc := makeSource(t, "foo(/* c */ a, (b));")
	call := callOf(sc)

	first := sc.FirstToken(call, nil)
	require.NotNil(t, first)
	assert.Equal(t, "foo", first.Text)

	last := sc.LastToken(call, nil)
	require.NotNil(t, last)
	assert.Equal(t, ")", last.Text)

	b := call.Arguments[1]
	before := sc.TokenBefore(b, nil)
	require.NotNil(t, before)
	assert.Equal(t, token.LParen, before.Kind)

	comma := sc.TokenBefore(b, token.IsComma)
	require.NotNil(t, comma)
	assert.Equal(t, uint32(13), comma.Span.Start)

	after := sc.TokenAfter(call, nil)
	require.NotNil(t, after)
	assert.Equal(t, token.Semicolon, after.Kind)
	assert.Nil(t, sc.TokenAfter(after, nil))

	open := sc.FirstToken(call, token.IsOpeningParen)
	require.NotNil(t, open)
	assert.Equal(t, uint32(3), open.Span.Start)
}

func TestTokensBeforeAfter(t *testing.T) {
	sc := makeSource(t, "a + b * c")
	bin := callOf(sc)
	c := bin.Right.Right

	before := sc.TokensBefore(c, 2, nil)
	require.Len(t, before, 2)
	assert.Equal(t, "b", before[0].Text)
	assert.Equal(t, "*", before[1].Text)

	after := sc.TokensAfter(bin.Left, 10, nil)
	assert.Len(t, after, 4)

	assert.Len(t, sc.TokensIn(bin.Right), 3)
}

func TestNodeAt(t *testing.T) {
	sc := makeSource(t, "if (a) { b.c(1) }")
	n := sc.NodeAt(13)
	require.NotNil(t, n)
	assert.Equal(t, ast.Literal, n.Kind)

	n = sc.NodeAt(5)
	assert.Equal(t, ast.IfStatement, n.Kind, "the ')' belongs to the if head")

	n = sc.NodeAt(11)
	assert.Equal(t, ast.Identifier, n.Kind)
	assert.Equal(t, "c", n.Name)
}

func TestCommentsAndLines(t *testing.T) {
	sc := makeSource(t, "f(a, // x\n  b)")
	call := callOf(sc)
	assert.True(t, sc.HasCommentsInside(call))
	assert.False(t, sc.HasCommentsInside(call.Arguments[0]))
	require.Len(t, sc.CommentsInside(call), 1)

	assert.True(t, sc.IsOnSameLine(call.Callee, call.Arguments[0]))
	assert.False(t, sc.IsOnSameLine(call.Arguments[0], call.Arguments[1]))
	assert.Equal(t, "f(a, // x\n  b)", sc.Text(call))
}
