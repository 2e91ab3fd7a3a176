package rules

import (
	"iter"

	"esfix/internal/ast"
	"esfix/internal/fix"
	"esfix/internal/rule"
)

// PreferArrayFlatMap replaces `.map(…).flat()` with `.flatMap(…)`.
func PreferArrayFlatMap() *rule.Definition {
	return &rule.Definition{
		Name:        "prefer-array-flat-map",
		Description: "Prefer `.flatMap(…)` over `.map(…).flat()`.",
		Fixable:     true,
		Messages: map[string]string{
			"flat-map": "Prefer `.flatMap(…)` over `.map(…).flat()`.",
		},
		Create: func(ctx *rule.Context) error {
			ctx.On(ast.CallExpression, func(flat *ast.Node) iter.Seq[*rule.Problem] {
				if !isPlainMethodCall(flat, "flat") || !flatDepthOne(flat) {
					return nil
				}
				mapCall := flat.Callee.Object
				if !isPlainMethodCall(mapCall, "map") || len(mapCall.Arguments) == 0 || len(mapCall.Arguments) > 2 {
					return nil
				}
				if mapCall.Arguments[0].Kind == ast.SpreadElement {
					return nil
				}
				// React.Children.map(...) возвращает не массив с flat
				if obj := mapCall.Callee.Object; obj.IsIdent("Children") || isMember(obj, "React", "Children") {
					return nil
				}
				return rule.Report(&rule.Problem{
					Span:      mapCall.Callee.Property.Span.Cover(flat.Span),
					MessageID: "flat-map",
					Fix: func(fx *fix.Fixer) error {
						if err := fix.RemoveMethodCall(fx, flat); err != nil {
							return err
						}
						return fx.Replace(mapCall.Callee.Property, "flatMap")
					},
				})
			})
			return nil
		},
	}
}

// isPlainMethodCall: obj.name(...) без optional chaining и computed.
func isPlainMethodCall(n *ast.Node, name string) bool {
	if !n.IsMethodCall(name) || n.Has(ast.FlagOptional) {
		return false
	}
	c := n.Callee
	return !c.Has(ast.FlagOptional) && !c.Has(ast.FlagComputed)
}

func flatDepthOne(flat *ast.Node) bool {
	switch len(flat.Arguments) {
	case 0:
		return true
	case 1:
		a := flat.Arguments[0]
		return a.Kind == ast.Literal && a.LitKind == ast.LitNumber && a.Raw == "1"
	}
	return false
}

func isMember(n *ast.Node, object, property string) bool {
	if n == nil || n.Kind != ast.MemberExpression || !n.Object.IsIdent(object) {
		return false
	}
	name, ok := n.MemberName()
	return ok && name == property
}
