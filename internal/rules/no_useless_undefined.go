package rules

import (
	"iter"

	"esfix/internal/ast"
	"esfix/internal/fix"
	"esfix/internal/parens"
	"esfix/internal/rule"
	"esfix/internal/source"
)

// callees whose trailing undefined arguments are meaningful
var keepUndefinedArguments = map[string]bool{
	// assertion libraries
	"is": true, "equal": true, "notEqual": true, "strictEqual": true, "notStrictEqual": true,
	"propertyVal": true, "notPropertyVal": true, "not": true, "include": true, "property": true,
	"toBe": true, "toHaveBeenCalledWith": true, "toContain": true, "toContainEqual": true,
	"toEqual": true, "same": true, "notSame": true, "strictSame": true, "strictNotSame": true,
	// collections
	"set": true, "add": true, "has": true, "push": true, "unshift": true,
	"includes": true, "indexOf": true, "lastIndexOf": true,
	// react
	"createContext": true, "useState": true, "useRef": true, "setState": true,
}

// NoUselessUndefined removes `undefined` where it is implied.
func NoUselessUndefined() *rule.Definition {
	return &rule.Definition{
		Name:        "no-useless-undefined",
		Description: "Disallow useless undefined.",
		Fixable:     true,
		Messages: map[string]string{
			"no-useless-undefined": "Do not use useless `undefined`.",
		},
		Create: createNoUselessUndefined,
	}
}

func createNoUselessUndefined(ctx *rule.Context) error {
	opts := ctx.Options()
	checkArguments := opts.Bool("checkArguments", true)
	checkArrowBody := opts.Bool("checkArrowFunctionBody", true)
	sc := ctx.Source()

	// removeAfter удаляет всё от конца prev до внешнего конца undefined
	removeAfter := func(prevEnd uint32, undef *ast.Node) rule.Patch {
		return func(fx *fix.Fixer) error {
			sp := source.Span{File: sc.File.ID, Start: prevEnd, End: parens.OuterSpan(sc, undef).End}
			if sc.HasCommentsInside(sp) {
				fx.Demote("removes comments")
			}
			return fx.RemoveSpan(sp)
		}
	}
	report := func(undef *ast.Node, patch rule.Patch) iter.Seq[*rule.Problem] {
		return rule.Report(&rule.Problem{Node: undef, MessageID: "no-useless-undefined", Fix: patch})
	}

	ctx.OnAny([]ast.Kind{ast.ReturnStatement, ast.YieldExpression}, func(n *ast.Node) iter.Seq[*rule.Problem] {
		if !n.Argument.IsUndefined() || n.Has(ast.FlagDelegate) {
			return nil
		}
		kw := sc.FirstToken(n, nil)
		return report(n.Argument, removeAfter(kw.Span.End, n.Argument))
	})

	ctx.On(ast.VariableDeclarator, func(n *ast.Node) iter.Seq[*rule.Problem] {
		if !n.Init.IsUndefined() || n.Parent.DeclKind == "const" {
			return nil
		}
		return report(n.Init, removeAfter(parens.OuterSpan(sc, n.ID).End, n.Init))
	})

	ctx.On(ast.AssignmentPattern, func(n *ast.Node) iter.Seq[*rule.Problem] {
		if !n.Right.IsUndefined() {
			return nil
		}
		return report(n.Right, removeAfter(parens.OuterSpan(sc, n.Left).End, n.Right))
	})

	if checkArrowBody {
		ctx.On(ast.ArrowFunctionExpression, func(n *ast.Node) iter.Seq[*rule.Problem] {
			if !n.Has(ast.FlagExpression) || !n.Body.IsUndefined() {
				return nil
			}
			body := n.Body
			return report(body, func(fx *fix.Fixer) error {
				return fx.ReplaceSpan(parens.OuterSpan(sc, body), "{}")
			})
		})
	}

	if checkArguments {
		ctx.On(ast.CallExpression, func(n *ast.Node) iter.Seq[*rule.Problem] {
			if ignoredCallee(n.Callee) {
				return nil
			}
			first := len(n.Arguments)
			for first > 0 && n.Arguments[first-1].IsUndefined() {
				first--
			}
			if first == len(n.Arguments) {
				return nil
			}
			run := n.Arguments[first:]
			return rule.Report(&rule.Problem{
				Span:      run[0].Span.Cover(run[len(run)-1].Span),
				MessageID: "no-useless-undefined",
				Fix:       func(fx *fix.Fixer) error { return fix.RemoveArguments(fx, run) },
			})
		})
	}
	return nil
}

func ignoredCallee(c *ast.Node) bool {
	switch c.Kind {
	case ast.Identifier:
		return keepUndefinedArguments[c.Name]
	case ast.MemberExpression:
		name, ok := c.MemberName()
		if !ok {
			return false
		}
		// fn.bind(this, undefined) и т.п. сдвигают аргументы
		return keepUndefinedArguments[name] || name == "bind" || name == "call" || name == "apply"
	}
	return false
}
