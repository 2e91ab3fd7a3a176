package rules

import (
	"iter"

	"esfix/internal/ast"
	"esfix/internal/fix"
	"esfix/internal/rule"
)

var enforceNew = map[string]bool{
	"Object": true, "Array": true, "ArrayBuffer": true, "BigInt64Array": true,
	"BigUint64Array": true, "DataView": true, "Date": true, "Error": true,
	"Float32Array": true, "Float64Array": true, "Function": true,
	"Int8Array": true, "Int16Array": true, "Int32Array": true, "Map": true,
	"WeakMap": true, "Set": true, "WeakSet": true, "Promise": true,
	"RegExp": true, "Uint8Array": true, "Uint16Array": true, "Uint32Array": true,
	"Uint8ClampedArray": true, "SharedArrayBuffer": true, "Proxy": true,
	"WeakRef": true, "FinalizationRegistry": true,
}

var disallowNew = map[string]bool{
	"BigInt": true, "Boolean": true, "Number": true, "String": true, "Symbol": true,
}

// primitive wrappers: `new String(x)` is an object, `String(x)` is not,
// so the rewrite changes behaviour and is only suggested.
var wrapperTypes = map[string]bool{"Boolean": true, "Number": true, "String": true}

// NewForBuiltins enforces `new` for builtins that should be constructed and
// forbids it for the primitive factories.
func NewForBuiltins() *rule.Definition {
	return &rule.Definition{
		Name:           "new-for-builtins",
		Description:    "Enforce the use of `new` for all builtins, except String, Number, Boolean, Symbol and BigInt.",
		Fixable:        true,
		HasSuggestions: true,
		Messages: map[string]string{
			"enforce":        "Use `new {{name}}()` instead of `{{name}}()`.",
			"disallow":       "Use `{{name}}()` instead of `new {{name}}()`.",
			"enforce-date":   "Use `String(new Date())` instead of `Date()`.",
			"switch-to-call": "Switch to `{{name}}()`.",
		},
		Create: createNewForBuiltins,
	}
}

func createNewForBuiltins(ctx *rule.Context) error {
	declared := make(map[string]bool)
	var candidates []*ast.Node

	ctx.OnAny(declarationKinds, func(n *ast.Node) iter.Seq[*rule.Problem] {
		declaredNames(n, func(name string) { declared[name] = true })
		return nil
	})
	ctx.OnAny([]ast.Kind{ast.CallExpression, ast.NewExpression}, func(n *ast.Node) iter.Seq[*rule.Problem] {
		if name, _, ok := calleeGlobalName(n); ok && (enforceNew[name] || disallowNew[name]) {
			candidates = append(candidates, n)
		}
		return nil
	})

	// объявления могут идти после использования, поэтому решаем на выходе из Program
	ctx.OnExit(ast.Program, func(*ast.Node) iter.Seq[*rule.Problem] {
		return func(yield func(*rule.Problem) bool) {
			for _, n := range candidates {
				name, root, _ := calleeGlobalName(n)
				if declared[root] {
					continue
				}
				if p := newForBuiltinsProblem(n, name); p != nil && !yield(p) {
					return
				}
			}
		}
	})
	return nil
}

func newForBuiltinsProblem(n *ast.Node, name string) *rule.Problem {
	data := map[string]string{"name": name}
	switch {
	case n.Kind == ast.CallExpression && enforceNew[name]:
		if n.Has(ast.FlagOptional) || n.Parent.Is(ast.ChainExpression) {
			return nil
		}
		if name == "Date" {
			p := &rule.Problem{Node: n, MessageID: "enforce-date", Data: data}
			if len(n.Arguments) == 0 {
				p.Fix = func(fx *fix.Fixer) error { return fix.ReplaceNode(fx, n, "String(new Date())") }
			}
			return p
		}
		return &rule.Problem{Node: n, MessageID: "enforce", Data: data, Fix: func(fx *fix.Fixer) error {
			return fix.ToConstructExpression(fx, n)
		}}
	case n.Kind == ast.NewExpression && disallowNew[name]:
		p := &rule.Problem{Node: n, MessageID: "disallow", Data: data}
		patch := func(fx *fix.Fixer) error { return fix.ToCallExpression(fx, n) }
		if wrapperTypes[name] {
			p.Suggestions = []rule.Suggestion{{MessageID: "switch-to-call", Data: data, Fix: patch}}
		} else {
			p.Fix = patch
		}
		return p
	}
	return nil
}
