package ast

import (
	"esfix/internal/source"
)

// Flags carries the boolean attributes of ESTree nodes.
type Flags uint16

const (
	FlagComputed   Flags = 1 << iota // obj[key], {[key]: v}, class members
	FlagOptional                     // a?.b, a?.()
	FlagPrefix                       // ++a
	FlagAsync                        // async functions
	FlagGenerator                    // function*
	FlagStatic                       // static class members
	FlagShorthand                    // {a}
	FlagMethod                       // {a() {}}
	FlagTail                         // last TemplateElement
	FlagDelegate                     // yield*
	FlagExpression                   // arrow function with expression body
	FlagAwait                        // for await (...)
)

// LitKind classifies Literal nodes.
type LitKind uint8

const (
	LitNone LitKind = iota
	LitString
	LitNumber
	LitBigInt
	LitBoolean
	LitNull
	LitRegExp
)

// Node is a syntax tree node shaped after ESTree. One struct serves every
// kind; fields a kind does not use stay zero. Child fields are named after
// the ESTree properties they hold.
type Node struct {
	Kind   Kind
	Span   source.Span
	Parent *Node

	Name     string  // Identifier, PrivateIdentifier; MetaProperty meta name
	Operator string  // Unary/Update/Binary/Logical/Assignment
	Raw      string  // Literal source text; TemplateElement raw body
	Cooked   string  // string Literal value; TemplateElement cooked value
	Cookable bool    // Cooked is valid (templates may carry invalid escapes)
	LitKind  LitKind // Literal
	// DeclKind is var/let/const for VariableDeclaration, method/get/set/
	// constructor for MethodDefinition and init/get/set for Property.
	DeclKind string
	Flags    Flags

	ID           *Node
	Expression   *Node
	Argument     *Node
	Test         *Node
	Consequent   *Node
	Alternate    *Node
	Body         *Node
	Init         *Node
	Update       *Node
	Left         *Node
	Right        *Node
	Callee       *Node
	Object       *Node
	Property     *Node
	Key          *Node
	Value        *Node
	Label        *Node
	Block        *Node
	Handler      *Node
	Finalizer    *Node
	Param        *Node
	SuperClass   *Node
	Source       *Node
	Declaration  *Node
	Discriminant *Node
	Local        *Node
	Imported     *Node
	Exported     *Node
	Tag          *Node
	Quasi        *Node
	Meta         *Node

	// Stmts holds statement lists: Program, BlockStatement, ClassBody,
	// StaticBlock and SwitchCase consequents.
	Stmts        []*Node
	Arguments    []*Node
	Elements     []*Node // nil entries are holes
	Properties   []*Node
	Params       []*Node
	Declarations []*Node
	Expressions  []*Node
	Quasis       []*Node
	Cases        []*Node
	Specifiers   []*Node
}

// Range makes Node satisfy source.Ranged.
func (n *Node) Range() source.Span { return n.Span }

// Is reports whether n is non-nil and of one of the given kinds.
func (n *Node) Is(kinds ...Kind) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// Has reports whether all flags in f are set.
func (n *Node) Has(f Flags) bool {
	return n != nil && n.Flags&f == f
}

// IsIdent reports whether n is an Identifier, optionally with one of names.
func (n *Node) IsIdent(names ...string) bool {
	if n == nil || n.Kind != Identifier {
		return false
	}
	if len(names) == 0 {
		return true
	}
	for _, name := range names {
		if n.Name == name {
			return true
		}
	}
	return false
}

// IsStringLiteral reports whether n is a string Literal.
func (n *Node) IsStringLiteral() bool {
	return n != nil && n.Kind == Literal && n.LitKind == LitString
}

// IsUndefined reports whether n is the identifier undefined.
func (n *Node) IsUndefined() bool {
	return n.IsIdent("undefined")
}

// MemberName returns the static property name of a non-computed
// MemberExpression (or a computed one with a string key).
func (n *Node) MemberName() (string, bool) {
	if n == nil || n.Kind != MemberExpression || n.Property == nil {
		return "", false
	}
	if !n.Has(FlagComputed) {
		if n.Property.Kind == Identifier {
			return n.Property.Name, true
		}
		return "", false
	}
	if n.Property.IsStringLiteral() {
		return n.Property.Cooked, true
	}
	return "", false
}

// IsMethodCall reports whether n is a call of the form obj.method(...) with
// one of the given method names (any name when none are given).
func (n *Node) IsMethodCall(methods ...string) bool {
	if n == nil || n.Kind != CallExpression || n.Callee == nil || n.Callee.Kind != MemberExpression {
		return false
	}
	name, ok := n.Callee.MemberName()
	if !ok {
		return false
	}
	if len(methods) == 0 {
		return true
	}
	for _, m := range methods {
		if m == name {
			return true
		}
	}
	return false
}

// Clone returns a shallow copy of n with no parent.
func (n *Node) Clone() *Node {
	c := *n
	c.Parent = nil
	return &c
}

var flagNames = [...]string{
	"computed", "optional", "prefix", "async", "generator", "static",
	"shorthand", "method", "tail", "delegate", "expression", "await",
}

// Names returns the names of the set flags in declaration order.
func (f Flags) Names() []string {
	var out []string
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	return out
}
