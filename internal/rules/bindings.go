package rules

import "esfix/internal/ast"

// declaredNames collects the names bound by n when n is a declaration site
// (variables, functions, classes, parameters, imports, catch parameters).
func declaredNames(n *ast.Node, add func(string)) {
	switch n.Kind {
	case ast.VariableDeclarator:
		patternNames(n.ID, add)
	case ast.FunctionDeclaration, ast.FunctionExpression, ast.ArrowFunctionExpression:
		if n.ID != nil {
			add(n.ID.Name)
		}
		for _, p := range n.Params {
			patternNames(p, add)
		}
	case ast.ClassDeclaration, ast.ClassExpression:
		if n.ID != nil {
			add(n.ID.Name)
		}
	case ast.ImportSpecifier, ast.ImportDefaultSpecifier, ast.ImportNamespaceSpecifier:
		if n.Local != nil {
			add(n.Local.Name)
		}
	case ast.CatchClause:
		patternNames(n.Param, add)
	}
}

func patternNames(p *ast.Node, add func(string)) {
	if p == nil {
		return
	}
	switch p.Kind {
	case ast.Identifier:
		add(p.Name)
	case ast.ArrayPattern:
		for _, e := range p.Elements {
			patternNames(e, add)
		}
	case ast.ObjectPattern:
		for _, prop := range p.Properties {
			if prop.Kind == ast.RestElement {
				patternNames(prop.Argument, add)
				continue
			}
			patternNames(prop.Value, add)
		}
	case ast.AssignmentPattern:
		patternNames(p.Left, add)
	case ast.RestElement:
		patternNames(p.Argument, add)
	}
}

var declarationKinds = []ast.Kind{
	ast.VariableDeclarator,
	ast.FunctionDeclaration,
	ast.FunctionExpression,
	ast.ArrowFunctionExpression,
	ast.ClassDeclaration,
	ast.ClassExpression,
	ast.ImportSpecifier,
	ast.ImportDefaultSpecifier,
	ast.ImportNamespaceSpecifier,
	ast.CatchClause,
}

// calleeGlobalName returns the builtin name called or constructed by n:
// a bare identifier, or a member of globalThis/window/self. root is the
// identifier a local declaration would have to shadow.
func calleeGlobalName(n *ast.Node) (name, root string, ok bool) {
	c := n.Callee
	if c == nil {
		return "", "", false
	}
	if c.Kind == ast.Identifier {
		return c.Name, c.Name, true
	}
	if c.Kind == ast.MemberExpression && c.Object.IsIdent("globalThis", "window", "self") {
		name, ok := c.MemberName()
		return name, c.Object.Name, ok
	}
	return "", "", false
}
