package ast

import "slices"

// Children returns the non-nil direct children of n in source order.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, 4)
	add := func(c *Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	for _, c := range []*Node{
		n.ID, n.Key, n.Value, n.Label, n.Tag, n.Meta, n.Local, n.Imported, n.Exported,
		n.Init, n.Test, n.Update, n.Left, n.Right, n.Discriminant,
		n.Callee, n.Object, n.Property, n.Param, n.SuperClass, n.Source, n.Declaration,
		n.Expression, n.Argument, n.Consequent, n.Alternate, n.Block, n.Handler, n.Finalizer,
		n.Body, n.Quasi,
	} {
		add(c)
	}
	for _, list := range [][]*Node{
		n.Stmts, n.Arguments, n.Elements, n.Properties, n.Params, n.Declarations,
		n.Expressions, n.Quasis, n.Cases, n.Specifiers,
	} {
		for _, c := range list {
			add(c)
		}
	}
	// shorthand {a} держит key и value с одинаковым span: стабильная сортировка
	// сохраняет key первым
	slices.SortStableFunc(out, func(a, b *Node) int {
		switch {
		case a.Span.Start < b.Span.Start:
			return -1
		case a.Span.Start > b.Span.Start:
			return 1
		}
		return 0
	})
	return out
}

// Visitor receives enter and exit events of a depth-first traversal.
type Visitor interface {
	Enter(n *Node)
	Exit(n *Node)
}

// Walk traverses the tree rooted at root depth-first in source order.
// Exit is called after the whole subtree of a node has been visited.
func Walk(root *Node, v Visitor) {
	if root == nil {
		return
	}
	v.Enter(root)
	for _, c := range root.Children() {
		Walk(c, v)
	}
	v.Exit(root)
}

// Inspect calls f for every node in depth-first source order; returning
// false skips the node's children.
func Inspect(root *Node, f func(*Node) bool) {
	if root == nil || !f(root) {
		return
	}
	for _, c := range root.Children() {
		Inspect(c, f)
	}
}

// SetParents links every node under root to its parent.
func SetParents(root *Node) {
	Inspect(root, func(n *Node) bool {
		for _, c := range n.Children() {
			c.Parent = n
		}
		return true
	})
}

// Ancestors returns the chain of parents of n, nearest first.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// Field is a child of a node together with the ESTree property holding it.
// Index is the position inside a list property and -1 for single children.
type Field struct {
	Name  string
	Index int
	Node  *Node
}

// Fields returns the named children of n in property order. Holes in
// ArrayExpression.elements are reported with a nil Node.
func (n *Node) Fields() []Field {
	if n == nil {
		return nil
	}
	var out []Field
	single := func(name string, c *Node) {
		if c != nil {
			out = append(out, Field{Name: name, Index: -1, Node: c})
		}
	}
	list := func(name string, cs []*Node) {
		for i, c := range cs {
			out = append(out, Field{Name: name, Index: i, Node: c})
		}
	}
	single("id", n.ID)
	single("key", n.Key)
	single("value", n.Value)
	single("label", n.Label)
	single("tag", n.Tag)
	single("meta", n.Meta)
	single("local", n.Local)
	single("imported", n.Imported)
	single("exported", n.Exported)
	single("init", n.Init)
	single("test", n.Test)
	single("update", n.Update)
	single("left", n.Left)
	single("right", n.Right)
	single("discriminant", n.Discriminant)
	single("callee", n.Callee)
	single("object", n.Object)
	single("property", n.Property)
	single("param", n.Param)
	single("superClass", n.SuperClass)
	single("source", n.Source)
	single("declaration", n.Declaration)
	single("expression", n.Expression)
	single("argument", n.Argument)
	single("consequent", n.Consequent)
	single("alternate", n.Alternate)
	single("block", n.Block)
	single("handler", n.Handler)
	single("finalizer", n.Finalizer)
	single("body", n.Body)
	single("quasi", n.Quasi)
	if n.Kind == SwitchCase {
		list("consequent", n.Stmts)
	} else {
		list("body", n.Stmts)
	}
	list("arguments", n.Arguments)
	list("elements", n.Elements)
	list("properties", n.Properties)
	list("params", n.Params)
	list("declarations", n.Declarations)
	list("expressions", n.Expressions)
	list("quasis", n.Quasis)
	list("cases", n.Cases)
	list("specifiers", n.Specifiers)
	return out
}
