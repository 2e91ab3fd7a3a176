package rules

import (
	"iter"

	"esfix/internal/ast"
	"esfix/internal/fix"
	"esfix/internal/parens"
	"esfix/internal/rule"
	"esfix/internal/sourcecode"
)

// PreferSpread prefers `[...x]` over Array.from(x) and splitting a string
// into characters.
func PreferSpread() *rule.Definition {
	return &rule.Definition{
		Name:           "prefer-spread",
		Description:    "Prefer the spread operator over `Array.from(…)` and `String#split('')`.",
		Fixable:        true,
		HasSuggestions: true,
		Messages: map[string]string{
			"array-from":   "Prefer the spread operator over `Array.from(…)`.",
			"string-split": "Prefer the spread operator over `String#split('')`.",
			"use-spread":   "Use `[...{{text}}]`.",
		},
		Create: func(ctx *rule.Context) error {
			sc := ctx.Source()
			ctx.On(ast.CallExpression, func(n *ast.Node) iter.Seq[*rule.Problem] {
				switch {
				case isArrayFrom(n):
					arg := n.Arguments[0]
					return rule.Report(&rule.Problem{
						Node:      n,
						MessageID: "array-from",
						Fix: func(fx *fix.Fixer) error {
							return replaceWithSpread(fx, sc, n, arg)
						},
					})
				case isSplitChars(n):
					obj := n.Callee.Object
					return rule.Report(&rule.Problem{
						Node:      n,
						MessageID: "string-split",
						Suggestions: []rule.Suggestion{{
							MessageID: "use-spread",
							Data:      map[string]string{"text": parens.OuterText(sc, obj)},
							Fix: func(fx *fix.Fixer) error {
								return replaceWithSpread(fx, sc, n, obj)
							},
						}},
					})
				}
				return nil
			})
			return nil
		},
	}
}

func isArrayFrom(n *ast.Node) bool {
	if !isPlainMethodCall(n, "from") || !n.Callee.Object.IsIdent("Array") || len(n.Arguments) != 1 {
		return false
	}
	// Array.from({length: n}) работает с array-like, spread нет
	return !n.Arguments[0].Is(ast.SpreadElement, ast.ObjectExpression)
}

func isSplitChars(n *ast.Node) bool {
	if !isPlainMethodCall(n, "split") || len(n.Arguments) != 1 {
		return false
	}
	a := n.Arguments[0]
	return a.IsStringLiteral() && a.Cooked == ""
}

func replaceWithSpread(fx *fix.Fixer, sc *sourcecode.SourceCode, call, operand *ast.Node) error {
	text := parens.OuterText(sc, operand)
	if operand.Kind == ast.SequenceExpression && !parens.IsParenthesized(sc, operand) {
		text = "(" + text + ")"
	}
	outer := parens.OuterSpan(sc, operand)
	if len(sc.CommentsInside(call)) != len(sc.CommentsInside(outer)) {
		fx.Demote("removes comments")
	}
	return fix.ReplaceNode(fx, call, "[..."+text+"]")
}
