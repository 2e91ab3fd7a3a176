package rules

import (
	"iter"

	"esfix/internal/ast"
	"esfix/internal/fix"
	"esfix/internal/rule"
)

// RequireNumberToFixedDigitsArgument asks for an explicit digits argument
// on Number#toFixed.
func RequireNumberToFixedDigitsArgument() *rule.Definition {
	return &rule.Definition{
		Name:        "require-number-to-fixed-digits-argument",
		Description: "Enforce using the digits argument with `Number#toFixed()`.",
		Fixable:     true,
		Messages: map[string]string{
			"missing": "Missing the digits argument.",
		},
		Create: func(ctx *rule.Context) error {
			ctx.On(ast.CallExpression, func(n *ast.Node) iter.Seq[*rule.Problem] {
				if !n.IsMethodCall("toFixed") || len(n.Arguments) != 0 {
					return nil
				}
				if n.Has(ast.FlagOptional) || n.Callee.Has(ast.FlagOptional) || n.Callee.Has(ast.FlagComputed) {
					return nil
				}
				// new BigNumber(1).toFixed(): другая сигнатура
				if n.Callee.Object.Kind == ast.NewExpression {
					return nil
				}
				return rule.Report(&rule.Problem{
					Node:      n,
					MessageID: "missing",
					Fix:       func(fx *fix.Fixer) error { return fix.AppendArgument(fx, n, "0") },
				})
			})
			return nil
		},
	}
}
