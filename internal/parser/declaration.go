package parser

import (
	"esfix/internal/ast"
	"esfix/internal/token"
)

// parseFunction разбирает function-объявление или выражение, начиная с
// `async` (если async) или `function`. У объявления в `export default`
// имя может отсутствовать.
func (p *Parser) parseFunction(isDecl, async bool) *ast.Node {
	kind := ast.FunctionExpression
	if isDecl {
		kind = ast.FunctionDeclaration
	}
	n := p.node(kind, p.start())
	if async {
		p.advance()
		n.Flags |= ast.FlagAsync
	}
	p.expect(token.KwFunction)
	if p.eat(token.Star) {
		n.Flags |= ast.FlagGenerator
	}
	if p.at(token.Ident) {
		n.ID = p.ident(p.advance())
	}
	p.parseFunctionRest(n)
	return p.done(n)
}

// parseFunctionRest разбирает параметры и тело в контексте функции n.
func (p *Parser) parseFunctionRest(n *ast.Node) {
	saved := p.enterFunction(n.Has(ast.FlagAsync), n.Has(ast.FlagGenerator))
	defer p.leaveFunction(saved)
	n.Params = p.parseParams()
	n.Body = p.parseBlock()
}

// parseMethod разбирает значение метода: FunctionExpression от '(' до '}'.
func (p *Parser) parseMethod(flags ast.Flags) *ast.Node {
	n := p.node(ast.FunctionExpression, p.start())
	n.Flags = flags & (ast.FlagAsync | ast.FlagGenerator)
	p.parseFunctionRest(n)
	return p.done(n)
}

func (p *Parser) parseParams() []*ast.Node {
	p.expect(token.LParen)
	var params []*ast.Node
	for !p.eat(token.RParen) {
		if p.at(token.DotDotDot) {
			params = append(params, p.parseRest())
		} else {
			params = append(params, p.parseBindingElement())
		}
		if !p.at(token.RParen) {
			p.expect(token.Comma)
		}
	}
	return params
}

// parseClass разбирает class-объявление или выражение.
func (p *Parser) parseClass(isDecl bool) *ast.Node {
	kind := ast.ClassExpression
	if isDecl {
		kind = ast.ClassDeclaration
	}
	n := p.node(kind, p.start())
	p.expect(token.KwClass)
	if p.at(token.Ident) {
		n.ID = p.ident(p.advance())
	}
	if p.eat(token.KwExtends) {
		n.SuperClass = p.parseLHS()
	}

	body := p.node(ast.ClassBody, p.start())
	p.expect(token.LBrace)
	for !p.eat(token.RBrace) {
		if p.eat(token.Semicolon) {
			continue
		}
		if p.at(token.EOF) {
			p.unexpected("expected \"}\"")
		}
		body.Stmts = append(body.Stmts, p.parseClassMember())
	}
	n.Body = p.done(body)
	return p.done(n)
}

// isModifier: контекстное слово v стоит перед именем члена, а не является им.
func (p *Parser) isModifier(v string) bool {
	if !p.atValue(v) {
		return false
	}
	next := p.peekAt(1)
	switch next.Kind {
	case token.LParen, token.Assign, token.Semicolon, token.RBrace, token.Comma, token.Colon, token.EOF:
		return false
	}
	if v == "async" && next.NewlineBefore {
		return false
	}
	return true
}

func (p *Parser) parseClassMember() *ast.Node {
	start := p.start()
	var flags ast.Flags
	if p.isModifier("static") {
		p.advance()
		if p.at(token.LBrace) {
			n := p.node(ast.StaticBlock, start)
			saved := p.enterFunction(false, false)
			n.Stmts = p.parseBlock().Stmts
			p.leaveFunction(saved)
			return p.done(n)
		}
		flags |= ast.FlagStatic
	}
	if p.isModifier("async") {
		p.advance()
		flags |= ast.FlagAsync
	}
	if p.eat(token.Star) {
		flags |= ast.FlagGenerator
	}
	declKind := "method"
	if flags&(ast.FlagAsync|ast.FlagGenerator) == 0 && (p.isModifier("get") || p.isModifier("set")) {
		declKind = p.advance().Text
	}

	key, computed := p.parsePropertyKey()
	if computed {
		flags |= ast.FlagComputed
	}

	if p.at(token.LParen) {
		n := p.node(ast.MethodDefinition, start)
		if declKind == "method" && !computed && flags&ast.FlagStatic == 0 && propertyKeyName(key) == "constructor" {
			declKind = "constructor"
		}
		n.DeclKind = declKind
		n.Key = key
		n.Flags = flags &^ (ast.FlagAsync | ast.FlagGenerator)
		n.Value = p.parseMethod(flags)
		return p.done(n)
	}

	n := p.node(ast.PropertyDefinition, start)
	n.Key = key
	n.Flags = flags
	if p.eat(token.Assign) {
		saved := p.enterFunction(false, false)
		n.Value = p.parseAssign(false)
		p.leaveFunction(saved)
	}
	p.consumeSemicolon()
	return p.done(n)
}

// parsePropertyKey разбирает имя свойства или члена класса.
func (p *Parser) parsePropertyKey() (key *ast.Node, computed bool) {
	tok := p.peek()
	switch {
	case tok.Kind == token.LBracket:
		p.advance()
		key = p.parseAssign(false)
		p.expect(token.RBracket)
		return key, true
	case tok.Kind == token.String || tok.Kind == token.Number || tok.Kind == token.BigInt:
		return p.parseLiteral(), false
	case tok.Kind == token.PrivateName:
		p.advance()
		return &ast.Node{Kind: ast.PrivateIdentifier, Span: tok.Span, Name: tok.Text[1:]}, false
	case tok.Kind == token.Ident || tok.IsKeyword():
		return p.ident(p.advance()), false
	}
	p.unexpected("expected property name")
	return nil, false
}

func propertyKeyName(key *ast.Node) string {
	switch key.Kind {
	case ast.Identifier:
		return key.Name
	case ast.Literal:
		if key.LitKind == ast.LitString {
			return key.Cooked
		}
	}
	return ""
}
