package rules

import (
	"iter"
	"regexp"

	"esfix/internal/ast"
	"esfix/internal/fix"
	"esfix/internal/rule"
)

var errorConstructor = regexp.MustCompile(`^(?:[A-Z][\da-z]*)*Error$`)

// ThrowNewError requires `new` when throwing an error.
func ThrowNewError() *rule.Definition {
	return &rule.Definition{
		Name:        "throw-new-error",
		Description: "Require `new` when creating an error.",
		Fixable:     true,
		Messages: map[string]string{
			"missing-new": "Use `new` when creating an error.",
		},
		Create: func(ctx *rule.Context) error {
			ctx.On(ast.ThrowStatement, func(n *ast.Node) iter.Seq[*rule.Problem] {
				call := n.Argument
				if call == nil || call.Kind != ast.CallExpression || call.Has(ast.FlagOptional) {
					return nil
				}
				if !isErrorCallee(call.Callee) {
					return nil
				}
				return rule.Report(&rule.Problem{
					Node:      call,
					MessageID: "missing-new",
					Fix:       func(fx *fix.Fixer) error { return fix.ToConstructExpression(fx, call) },
				})
			})
			return nil
		},
	}
}

func isErrorCallee(c *ast.Node) bool {
	switch c.Kind {
	case ast.Identifier:
		return errorConstructor.MatchString(c.Name)
	case ast.MemberExpression:
		if c.Has(ast.FlagComputed) || c.Has(ast.FlagOptional) {
			return false
		}
		name, ok := c.MemberName()
		return ok && errorConstructor.MatchString(name)
	}
	return false
}
