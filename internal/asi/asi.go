// Package asi decides whether text inserted after a token would be read as
// a continuation of the previous statement when that statement relies on
// automatic semicolon insertion.
package asi

import (
	"strings"

	"esfix/internal/ast"
	"esfix/internal/sourcecode"
	"esfix/internal/token"
)

// hazardStart: символы, с которых фрагмент продолжает предыдущее выражение.
const hazardStart = "[(`+-*,./"

// NeedsTerminator reports whether a ';' must be inserted between before and
// fragment so that fragment starts a new statement.
func NeedsTerminator(sc *sourcecode.SourceCode, before *token.Token, fragment string) bool {
	if fragment == "" || !strings.ContainsRune(hazardStart, rune(fragment[0])) {
		return false
	}
	if before == nil || before.Kind == token.Semicolon {
		return false
	}

	switch before.Kind {
	case token.RBracket:
		return true
	case token.RParen:
		return !closesControlHead(sc, before)
	case token.RBrace:
		return closesExpression(sc.NodeAt(before.Span.Start))
	case token.PlusPlus, token.MinusMinus:
		return true
	case token.KwThis, token.KwSuper:
		return true
	case token.Ident:
		return !isOperatorKeyword(sc, before)
	}
	if before.IsTemplate() {
		return strings.HasSuffix(before.Text, "`")
	}
	return before.IsLiteral()
}

// closesExpression: '}' закрывает объектный литерал или тело функции/класса
// в позиции выражения.
func closesExpression(n *ast.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind == ast.ObjectExpression {
		return true
	}
	if n.Parent == nil || !n.Is(ast.BlockStatement, ast.ClassBody) {
		return false
	}
	return n.Parent.Is(ast.FunctionExpression, ast.ArrowFunctionExpression, ast.ClassExpression)
}

// closesControlHead: ')' закрывает заголовок if/for/while/with, и сразу за
// ним начинается тело.
func closesControlHead(sc *sourcecode.SourceCode, paren *token.Token) bool {
	n := sc.NodeAt(paren.Span.Start)
	if n == nil {
		return false
	}
	var body *ast.Node
	switch n.Kind {
	case ast.IfStatement:
		body = n.Consequent
	case ast.ForStatement, ast.ForInStatement, ast.ForOfStatement, ast.WhileStatement, ast.WithStatement:
		body = n.Body
	default:
		return false
	}
	if body == nil {
		return false
	}
	prev := sc.TokenBefore(body, nil)
	return prev != nil && prev.Span == paren.Span
}

// isOperatorKeyword: `of` в for-of и `await` в await-выражении работают
// как операторы, за ними следует операнд.
func isOperatorKeyword(sc *sourcecode.SourceCode, tok *token.Token) bool {
	switch tok.Text {
	case "of":
		n := sc.NodeAt(tok.Span.Start)
		return n != nil && n.Kind == ast.ForOfStatement
	case "await":
		n := sc.NodeAt(tok.Span.Start)
		return n != nil && n.Kind == ast.AwaitExpression
	}
	return false
}
