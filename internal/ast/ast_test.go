package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ident(name string, start uint32) *Node {
	n := &Node{Kind: Identifier, Name: name}
	n.Span.Start, n.Span.End = start, start+uint32(len(name))
	return n
}

func TestChildrenSourceOrder(t *testing.T) {
	call := &Node{Kind: CallExpression, Callee: ident("f", 0), Arguments: []*Node{ident("a", 2), ident("b", 5)}}
	call.Span.End = 7
	got := call.Children()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"f", "a", "b"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestFieldsNamesAndHoles(t *testing.T) {
	arr := &Node{Kind: ArrayExpression, Elements: []*Node{ident("a", 1), nil, ident("b", 5)}}
	fields := arr.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, "elements", fields[0].Name)
	assert.Equal(t, 1, fields[1].Index)
	assert.Nil(t, fields[1].Node)

	sc := &Node{Kind: SwitchCase, Test: ident("x", 5), Stmts: []*Node{{Kind: EmptyStatement}}}
	names := []string{}
	for _, f := range sc.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"test", "consequent"}, names)
}

func TestWalkParentsAndAncestors(t *testing.T) {
	inner := ident("x", 4)
	member := &Node{Kind: MemberExpression, Object: ident("o", 2), Property: inner}
	prog := &Node{Kind: Program, Stmts: []*Node{{Kind: ExpressionStatement, Expression: member}}}
	SetParents(prog)

	assert.Same(t, member, inner.Parent)
	anc := inner.Ancestors()
	require.Len(t, anc, 3)
	assert.Equal(t, Program, anc[len(anc)-1].Kind)

	var kinds []Kind
	Inspect(prog, func(n *Node) bool {
		kinds = append(kinds, n.Kind)
		return n.Kind != MemberExpression
	})
	assert.Equal(t, []Kind{Program, ExpressionStatement, MemberExpression}, kinds)
}

func TestFlagNames(t *testing.T) {
	assert.Equal(t, []string{"computed", "optional"}, (FlagComputed | FlagOptional).Names())
	assert.Empty(t, Flags(0).Names())
}

func TestNodePredicates(t *testing.T) {
	undef := ident("undefined", 0)
	assert.True(t, undef.IsUndefined())
	assert.True(t, undef.IsIdent("a", "undefined"))
	assert.False(t, (*Node)(nil).Is(Identifier))

	call := &Node{Kind: CallExpression, Callee: &Node{Kind: MemberExpression, Object: ident("a", 0), Property: ident("map", 2)}}
	assert.True(t, call.IsMethodCall("map", "flat"))
	assert.False(t, call.IsMethodCall("flat"))
}
