// Package parens finds the grouping parentheses wrapping a node. The parser
// drops them from the tree, so they are recovered from the token stream;
// parentheses that belong to the surrounding syntax (call arguments,
// statement heads) are never counted.
package parens

import (
	"esfix/internal/ast"
	"esfix/internal/source"
	"esfix/internal/sourcecode"
	"esfix/internal/token"
)

// Of returns the grouping parentheses around n: the opening tokens
// outermost first, followed by the closing tokens innermost first.
func Of(sc *sourcecode.SourceCode, n *ast.Node) []token.Token {
	if n == nil || n.Parent == nil {
		return nil
	}
	// параметр catch не может быть в скобках
	if n.Parent.Kind == ast.CatchClause && n.Parent.Param == n {
		return nil
	}

	syntax := syntaxParen(sc, n)
	var opens, closes []token.Token
	var cur source.Ranged = n
	for {
		before := sc.TokenBefore(cur, nil)
		after := sc.TokenAfter(cur, nil)
		if before == nil || after == nil || !token.IsOpeningParen(*before) || !token.IsClosingParen(*after) {
			break
		}
		if syntax != nil && before.Span == syntax.Span {
			break
		}
		opens = append(opens, *before)
		closes = append(closes, *after)
		cur = before.Span.Cover(after.Span)
	}
	if len(opens) == 0 {
		return nil
	}

	out := make([]token.Token, 0, len(opens)*2)
	for i := len(opens) - 1; i >= 0; i-- {
		out = append(out, opens[i])
	}
	return append(out, closes...)
}

// Count returns the number of grouping parenthesis pairs around n.
func Count(sc *sourcecode.SourceCode, n *ast.Node) int {
	return len(Of(sc, n)) / 2
}

// IsParenthesized reports whether n is wrapped in at least one pair.
func IsParenthesized(sc *sourcecode.SourceCode, n *ast.Node) bool {
	return Count(sc, n) > 0
}

// OuterSpan is n's span widened to its outermost grouping parentheses.
func OuterSpan(sc *sourcecode.SourceCode, n *ast.Node) source.Span {
	ps := Of(sc, n)
	if len(ps) == 0 {
		return n.Span
	}
	return ps[0].Span.Cover(ps[len(ps)-1].Span)
}

// OuterText is the source text of OuterSpan.
func OuterText(sc *sourcecode.SourceCode, n *ast.Node) string {
	return sc.Text(OuterSpan(sc, n))
}

// syntaxParen returns the '(' that belongs to the parent's syntax and
// directly precedes n, or nil.
func syntaxParen(sc *sourcecode.SourceCode, n *ast.Node) *token.Token {
	parent := n.Parent
	switch parent.Kind {
	case ast.CallExpression, ast.NewExpression:
		if len(parent.Arguments) == 1 && parent.Arguments[0] == n {
			return sc.TokenAfter(parent.Callee, token.IsOpeningParen)
		}
	case ast.DoWhileStatement:
		if parent.Test == n {
			return sc.TokenAfter(parent.Body, token.IsOpeningParen)
		}
	case ast.IfStatement, ast.WhileStatement:
		if parent.Test == n {
			return headParen(sc, parent)
		}
	case ast.SwitchStatement:
		if parent.Discriminant == n {
			return headParen(sc, parent)
		}
	case ast.WithStatement:
		if parent.Object == n {
			return headParen(sc, parent)
		}
	case ast.ImportExpression:
		if parent.Source == n {
			return headParen(sc, parent)
		}
	case ast.FunctionDeclaration, ast.FunctionExpression, ast.ArrowFunctionExpression:
		if len(parent.Params) == 1 && parent.Params[0] == n {
			if t := sc.TokenBefore(n, nil); t != nil && token.IsOpeningParen(*t) {
				return t
			}
		}
	}
	return nil
}

// headParen: '(' после ключевого слова заголовка.
func headParen(sc *sourcecode.SourceCode, parent *ast.Node) *token.Token {
	kw := sc.FirstToken(parent, nil)
	if kw == nil {
		return nil
	}
	return sc.TokenAfter(kw.Span, token.IsOpeningParen)
}
