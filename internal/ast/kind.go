package ast

// Kind is the ESTree type of a node.
type Kind uint8

const (
	Invalid Kind = iota
	Program
	ExpressionStatement
	BlockStatement
	EmptyStatement
	DebuggerStatement
	WithStatement
	ReturnStatement
	LabeledStatement
	BreakStatement
	ContinueStatement
	IfStatement
	SwitchStatement
	SwitchCase
	ThrowStatement
	TryStatement
	CatchClause
	WhileStatement
	DoWhileStatement
	ForStatement
	ForInStatement
	ForOfStatement
	FunctionDeclaration
	VariableDeclaration
	VariableDeclarator
	ClassDeclaration
	ClassExpression
	ClassBody
	MethodDefinition
	PropertyDefinition
	StaticBlock
	ImportDeclaration
	ImportSpecifier
	ImportDefaultSpecifier
	ImportNamespaceSpecifier
	ExportNamedDeclaration
	ExportSpecifier
	ExportDefaultDeclaration
	ExportAllDeclaration
	Identifier
	PrivateIdentifier
	Literal
	ThisExpression
	Super
	ArrayExpression
	ObjectExpression
	Property
	FunctionExpression
	ArrowFunctionExpression
	UnaryExpression
	UpdateExpression
	BinaryExpression
	LogicalExpression
	AssignmentExpression
	ConditionalExpression
	CallExpression
	NewExpression
	MemberExpression
	ChainExpression
	SequenceExpression
	YieldExpression
	AwaitExpression
	TemplateLiteral
	TaggedTemplateExpression
	TemplateElement
	SpreadElement
	RestElement
	ArrayPattern
	ObjectPattern
	AssignmentPattern
	MetaProperty
	ImportExpression

	// NumKinds is the number of node kinds; handy for dispatch tables.
	NumKinds
)

var kindNames = [...]string{
	Invalid:                  "Invalid",
	Program:                  "Program",
	ExpressionStatement:      "ExpressionStatement",
	BlockStatement:           "BlockStatement",
	EmptyStatement:           "EmptyStatement",
	DebuggerStatement:        "DebuggerStatement",
	WithStatement:            "WithStatement",
	ReturnStatement:          "ReturnStatement",
	LabeledStatement:         "LabeledStatement",
	BreakStatement:           "BreakStatement",
	ContinueStatement:        "ContinueStatement",
	IfStatement:              "IfStatement",
	SwitchStatement:          "SwitchStatement",
	SwitchCase:               "SwitchCase",
	ThrowStatement:           "ThrowStatement",
	TryStatement:             "TryStatement",
	CatchClause:              "CatchClause",
	WhileStatement:           "WhileStatement",
	DoWhileStatement:         "DoWhileStatement",
	ForStatement:             "ForStatement",
	ForInStatement:           "ForInStatement",
	ForOfStatement:           "ForOfStatement",
	FunctionDeclaration:      "FunctionDeclaration",
	VariableDeclaration:      "VariableDeclaration",
	VariableDeclarator:       "VariableDeclarator",
	ClassDeclaration:         "ClassDeclaration",
	ClassExpression:          "ClassExpression",
	ClassBody:                "ClassBody",
	MethodDefinition:         "MethodDefinition",
	PropertyDefinition:       "PropertyDefinition",
	StaticBlock:              "StaticBlock",
	ImportDeclaration:        "ImportDeclaration",
	ImportSpecifier:          "ImportSpecifier",
	ImportDefaultSpecifier:   "ImportDefaultSpecifier",
	ImportNamespaceSpecifier: "ImportNamespaceSpecifier",
	ExportNamedDeclaration:   "ExportNamedDeclaration",
	ExportSpecifier:          "ExportSpecifier",
	ExportDefaultDeclaration: "ExportDefaultDeclaration",
	ExportAllDeclaration:     "ExportAllDeclaration",
	Identifier:               "Identifier",
	PrivateIdentifier:        "PrivateIdentifier",
	Literal:                  "Literal",
	ThisExpression:           "ThisExpression",
	Super:                    "Super",
	ArrayExpression:          "ArrayExpression",
	ObjectExpression:         "ObjectExpression",
	Property:                 "Property",
	FunctionExpression:       "FunctionExpression",
	ArrowFunctionExpression:  "ArrowFunctionExpression",
	UnaryExpression:          "UnaryExpression",
	UpdateExpression:         "UpdateExpression",
	BinaryExpression:         "BinaryExpression",
	LogicalExpression:        "LogicalExpression",
	AssignmentExpression:     "AssignmentExpression",
	ConditionalExpression:    "ConditionalExpression",
	CallExpression:           "CallExpression",
	NewExpression:            "NewExpression",
	MemberExpression:         "MemberExpression",
	ChainExpression:          "ChainExpression",
	SequenceExpression:       "SequenceExpression",
	YieldExpression:          "YieldExpression",
	AwaitExpression:          "AwaitExpression",
	TemplateLiteral:          "TemplateLiteral",
	TaggedTemplateExpression: "TaggedTemplateExpression",
	TemplateElement:          "TemplateElement",
	SpreadElement:            "SpreadElement",
	RestElement:              "RestElement",
	ArrayPattern:             "ArrayPattern",
	ObjectPattern:            "ObjectPattern",
	AssignmentPattern:        "AssignmentPattern",
	MetaProperty:             "MetaProperty",
	ImportExpression:         "ImportExpression",
}

// String returns the ESTree type name.
func (k Kind) String() string {
	if k < NumKinds {
		return kindNames[k]
	}
	return "Invalid"
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = Kind(k) // #nosec G115 -- len(kindNames) == NumKinds
	}
	return m
}()

// ParseKind maps an ESTree type name to its Kind.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok && k != Invalid
}

// IsFunction reports whether k is a function declaration or expression.
func (k Kind) IsFunction() bool {
	return k == FunctionDeclaration || k == FunctionExpression || k == ArrowFunctionExpression
}

// IsLoop reports whether k is one of the loop statements.
func (k Kind) IsLoop() bool {
	switch k {
	case ForStatement, ForInStatement, ForOfStatement, WhileStatement, DoWhileStatement:
		return true
	}
	return false
}
