package parser

// Тесты разбора выражений: приоритеты, цепочки, стрелки, литералы.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esfix/internal/ast"
	"esfix/internal/diag"
)

func TestParseBinaryPrecedence(t *testing.T) {
	expr, file := firstExpr(t, "a + b * c - d")
	require.Equal(t, ast.BinaryExpression, expr.Kind)
	assert.Equal(t, "-", expr.Operator)
	assert.Equal(t, "a + b * c", file.Text(expr.Left.Span))
	assert.Equal(t, "*", expr.Left.Right.Operator)

	expr, _ = firstExpr(t, "a ?? b || c && d")
	assert.Equal(t, ast.LogicalExpression, expr.Kind)
	assert.Equal(t, "??", expr.Operator)
	assert.Equal(t, "||", expr.Right.Operator)
	assert.Equal(t, "&&", expr.Right.Right.Operator)

	// ** правоассоциативен
	expr, file = firstExpr(t, "a ** b ** c")
	assert.Equal(t, "a", file.Text(expr.Left.Span))
	assert.Equal(t, "b ** c", file.Text(expr.Right.Span))
}

func TestParseParenthesizedSpans(t *testing.T) {
	expr, file := firstExpr(t, "(a + b) * c")
	require.Equal(t, ast.BinaryExpression, expr.Kind)
	assert.Equal(t, "(a + b) * c", file.Text(expr.Span))
	assert.Equal(t, "a + b", file.Text(expr.Left.Span))

	expr, file = firstExpr(t, "((a)).b")
	require.Equal(t, ast.MemberExpression, expr.Kind)
	assert.Equal(t, "a", file.Text(expr.Object.Span))
}

func TestParseAssignment(t *testing.T) {
	expr, _ := firstExpr(t, "[a, {b}] = c")
	require.Equal(t, ast.AssignmentExpression, expr.Kind)
	assert.Equal(t, ast.ArrayPattern, expr.Left.Kind)
	assert.Equal(t, ast.ObjectPattern, expr.Left.Elements[1].Kind)

	expr, _ = firstExpr(t, "a.b ??= c")
	assert.Equal(t, "??=", expr.Operator)

	se := parseError(t, "a + b = c")
	assert.Equal(t, diag.SynInvalidAssignTarget, se.Code)
}

func TestParseCallsAndNew(t *testing.T) {
	expr, file := firstExpr(t, "new Foo.Bar(1, ...rest).baz()")
	require.Equal(t, ast.CallExpression, expr.Kind)
	member := expr.Callee
	require.Equal(t, ast.MemberExpression, member.Kind)
	ne := member.Object
	require.Equal(t, ast.NewExpression, ne.Kind)
	assert.Equal(t, "Foo.Bar", file.Text(ne.Callee.Span))
	require.Len(t, ne.Arguments, 2)
	assert.Equal(t, ast.SpreadElement, ne.Arguments[1].Kind)

	expr, file = firstExpr(t, "new Foo")
	assert.Equal(t, ast.NewExpression, expr.Kind)
	assert.Empty(t, expr.Arguments)
	assert.Equal(t, "new Foo", file.Text(expr.Span))

	expr, _ = firstExpr(t, "new.target")
	assert.Equal(t, ast.MetaProperty, expr.Kind)
}

func TestParseOptionalChain(t *testing.T) {
	expr, file := firstExpr(t, "a?.b.c()")
	require.Equal(t, ast.ChainExpression, expr.Kind)
	call := expr.Expression
	require.Equal(t, ast.CallExpression, call.Kind)
	assert.Equal(t, "a?.b.c()", file.Text(expr.Span))
	assert.True(t, call.Callee.Object.Has(ast.FlagOptional))

	expr, _ = firstExpr(t, "(a?.b).c")
	require.Equal(t, ast.MemberExpression, expr.Kind)
	assert.Equal(t, ast.ChainExpression, expr.Object.Kind)

	expr, _ = firstExpr(t, "a?.[0]?.(x)")
	require.Equal(t, ast.ChainExpression, expr.Kind)
	assert.True(t, expr.Expression.Has(ast.FlagOptional))
	assert.True(t, expr.Expression.Callee.Has(ast.FlagOptional|ast.FlagComputed))
}

func TestParseArrowFunctions(t *testing.T) {
	expr, _ := firstExpr(t, "x => x * 2")
	require.Equal(t, ast.ArrowFunctionExpression, expr.Kind)
	assert.True(t, expr.Has(ast.FlagExpression))
	require.Len(t, expr.Params, 1)

	expr, _ = firstExpr(t, "async ({a}, [b] = []) => { await a }")
	require.Equal(t, ast.ArrowFunctionExpression, expr.Kind)
	assert.True(t, expr.Has(ast.FlagAsync))
	require.Len(t, expr.Params, 2)
	assert.Equal(t, ast.ObjectPattern, expr.Params[0].Kind)
	assert.Equal(t, ast.AwaitExpression, expr.Body.Stmts[0].Expression.Kind)

	expr, _ = firstExpr(t, "() => ({})")
	assert.Equal(t, ast.ObjectExpression, expr.Body.Kind)

	// вызов async(...) без стрелки остаётся вызовом
	expr, _ = firstExpr(t, "async(a, b)")
	assert.Equal(t, ast.CallExpression, expr.Kind)
}

func TestParseLiterals(t *testing.T) {
	expr, _ := firstExpr(t, `"ab\x63"`)
	require.Equal(t, ast.Literal, expr.Kind)
	assert.Equal(t, ast.LitString, expr.LitKind)
	assert.Equal(t, "abc", expr.Cooked)
	assert.Equal(t, `"ab\x63"`, expr.Raw)

	expr, _ = firstExpr(t, "[1n, 0x1F, /re[/]/g, true, null, , ]")
	require.Equal(t, ast.ArrayExpression, expr.Kind)
	require.Len(t, expr.Elements, 6)
	assert.Equal(t, ast.LitBigInt, expr.Elements[0].LitKind)
	assert.Equal(t, ast.LitNumber, expr.Elements[1].LitKind)
	assert.Equal(t, ast.LitRegExp, expr.Elements[2].LitKind)
	assert.Equal(t, "/re[/]/g", expr.Elements[2].Raw)
	assert.Equal(t, ast.LitBoolean, expr.Elements[3].LitKind)
	assert.Equal(t, ast.LitNull, expr.Elements[4].LitKind)
	assert.Nil(t, expr.Elements[5])
}

func TestParseTemplates(t *testing.T) {
	expr, file := firstExpr(t, "tag`a${b}c${d}e`")
	require.Equal(t, ast.TaggedTemplateExpression, expr.Kind)
	tpl := expr.Quasi
	require.Len(t, tpl.Quasis, 3)
	require.Len(t, tpl.Expressions, 2)
	assert.Equal(t, "`a${", file.Text(tpl.Quasis[0].Span))
	assert.Equal(t, "a", tpl.Quasis[0].Raw)
	assert.Equal(t, "}c${", file.Text(tpl.Quasis[1].Span))
	assert.Equal(t, "}e`", file.Text(tpl.Quasis[2].Span))
	assert.True(t, tpl.Quasis[2].Has(ast.FlagTail))
	assert.False(t, tpl.Quasis[0].Has(ast.FlagTail))

	expr, _ = firstExpr(t, "`plain`")
	require.Equal(t, ast.TemplateLiteral, expr.Kind)
	assert.Equal(t, "plain", expr.Quasis[0].Cooked)
}

func TestParseObjectLiteral(t *testing.T) {
	expr, _ := firstExpr(t, "({a, b: 1, [c]: 2, d() {}, get e() { return 1 }, async *f() {}, ...g, 'h': 3})")
	require.Equal(t, ast.ObjectExpression, expr.Kind)
	props := expr.Properties
	require.Len(t, props, 8)
	assert.True(t, props[0].Has(ast.FlagShorthand))
	assert.NotSame(t, props[0].Key, props[0].Value)
	assert.True(t, props[2].Has(ast.FlagComputed))
	assert.True(t, props[3].Has(ast.FlagMethod))
	assert.Equal(t, "get", props[4].DeclKind)
	assert.True(t, props[5].Value.Has(ast.FlagAsync|ast.FlagGenerator))
	assert.Equal(t, ast.SpreadElement, props[6].Kind)
	assert.Equal(t, ast.LitString, props[7].Key.LitKind)
}

func TestParseUnaryAndUpdate(t *testing.T) {
	expr, _ := firstExpr(t, "typeof void !-x")
	assert.Equal(t, "typeof", expr.Operator)
	assert.Equal(t, "void", expr.Argument.Operator)
	assert.Equal(t, "-", expr.Argument.Argument.Argument.Operator)

	expr, _ = firstExpr(t, "a.b++")
	assert.Equal(t, ast.UpdateExpression, expr.Kind)
	assert.False(t, expr.Has(ast.FlagPrefix))

	// верхний уровень модуля допускает await
	expr, _ = firstExpr(t, "await load()")
	assert.Equal(t, ast.AwaitExpression, expr.Kind)
}

func TestParseSequenceAndConditional(t *testing.T) {
	expr, _ := firstExpr(t, "a ? b : c, d")
	require.Equal(t, ast.SequenceExpression, expr.Kind)
	require.Len(t, expr.Expressions, 2)
	assert.Equal(t, ast.ConditionalExpression, expr.Expressions[0].Kind)
}

func TestParseImportExpression(t *testing.T) {
	expr, _ := firstExpr(t, "import('./x.js').then(f)")
	require.Equal(t, ast.CallExpression, expr.Kind)
	assert.Equal(t, ast.ImportExpression, expr.Callee.Object.Kind)

	expr, _ = firstExpr(t, "import.meta.url")
	assert.Equal(t, ast.MetaProperty, expr.Object.Kind)
}

func TestParsePrivateIn(t *testing.T) {
	res, _ := parseString(t, "class A { #x; static has(o) { return #x in o } }")
	ret := res.Program.Stmts[0].Body.Stmts[1].Value.Body.Stmts[0]
	require.Equal(t, ast.BinaryExpression, ret.Argument.Kind)
	assert.Equal(t, ast.PrivateIdentifier, ret.Argument.Left.Kind)
}
