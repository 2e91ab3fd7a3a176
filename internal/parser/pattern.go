package parser

import (
	"esfix/internal/ast"
	"esfix/internal/diag"
	"esfix/internal/token"
)

// parseBindingTarget разбирает связываемое имя: идентификатор или
// деструктурирующий шаблон.
func (p *Parser) parseBindingTarget() *ast.Node {
	switch p.peek().Kind {
	case token.Ident:
		return p.ident(p.advance())
	case token.LBracket:
		return p.parseArrayPattern()
	case token.LBrace:
		return p.parseObjectPattern()
	}
	p.unexpected("expected binding name or pattern")
	return nil
}

// parseBindingElement: цель со значением по умолчанию: `a = 1`.
func (p *Parser) parseBindingElement() *ast.Node {
	start := p.start()
	target := p.parseBindingTarget()
	if !p.at(token.Assign) {
		return target
	}
	p.advance()
	n := p.node(ast.AssignmentPattern, start)
	n.Left = target
	n.Right = p.parseAssign(false)
	return p.done(n)
}

func (p *Parser) parseRest() *ast.Node {
	n := p.node(ast.RestElement, p.start())
	p.expect(token.DotDotDot)
	n.Argument = p.parseBindingTarget()
	return p.done(n)
}

func (p *Parser) parseArrayPattern() *ast.Node {
	n := p.node(ast.ArrayPattern, p.start())
	p.expect(token.LBracket)
	for !p.eat(token.RBracket) {
		switch {
		case p.at(token.Comma):
			p.advance()
			n.Elements = append(n.Elements, nil)
			continue
		case p.at(token.DotDotDot):
			n.Elements = append(n.Elements, p.parseRest())
		default:
			n.Elements = append(n.Elements, p.parseBindingElement())
		}
		if !p.at(token.RBracket) {
			p.expect(token.Comma)
		}
	}
	return p.done(n)
}

func (p *Parser) parseObjectPattern() *ast.Node {
	n := p.node(ast.ObjectPattern, p.start())
	p.expect(token.LBrace)
	for !p.eat(token.RBrace) {
		if p.at(token.DotDotDot) {
			n.Properties = append(n.Properties, p.parseRest())
		} else {
			n.Properties = append(n.Properties, p.parseBindingProperty())
		}
		if !p.at(token.RBrace) {
			p.expect(token.Comma)
		}
	}
	return p.done(n)
}

func (p *Parser) parseBindingProperty() *ast.Node {
	n := p.node(ast.Property, p.start())
	n.DeclKind = "init"
	key, computed := p.parsePropertyKey()
	n.Key = key
	if computed {
		n.Flags |= ast.FlagComputed
	}
	if p.eat(token.Colon) {
		n.Value = p.parseBindingElement()
		return p.done(n)
	}
	if key.Kind != ast.Identifier || computed {
		p.unexpected("expected \":\"")
	}
	n.Flags |= ast.FlagShorthand
	n.Value = key.Clone()
	if p.eat(token.Assign) {
		def := p.node(ast.AssignmentPattern, key.Span.Start)
		def.Left = key.Clone()
		def.Right = p.parseAssign(false)
		n.Value = p.done(def)
	}
	return p.done(n)
}

// toPattern переписывает выражение, разобранное как левая часть
// присваивания или заголовка for-in/of, в шаблон на месте.
func (p *Parser) toPattern(n *ast.Node) *ast.Node {
	switch n.Kind {
	case ast.Identifier, ast.MemberExpression, ast.ArrayPattern, ast.ObjectPattern, ast.AssignmentPattern, ast.RestElement:
		return n
	case ast.ArrayExpression:
		n.Kind = ast.ArrayPattern
		for i, el := range n.Elements {
			if el != nil {
				n.Elements[i] = p.toPattern(el)
			}
		}
		return n
	case ast.ObjectExpression:
		n.Kind = ast.ObjectPattern
		for _, prop := range n.Properties {
			if prop.Kind == ast.SpreadElement {
				p.toPattern(prop)
				continue
			}
			if prop.DeclKind != "init" || prop.Has(ast.FlagMethod) {
				p.invalidTarget(prop)
			}
			prop.Value = p.toPattern(prop.Value)
		}
		return n
	case ast.SpreadElement:
		n.Kind = ast.RestElement
		n.Argument = p.toPattern(n.Argument)
		return n
	case ast.AssignmentExpression:
		if n.Operator != "=" {
			p.invalidTarget(n)
		}
		n.Kind = ast.AssignmentPattern
		n.Operator = ""
		n.Left = p.toPattern(n.Left)
		return n
	}
	p.invalidTarget(n)
	return nil
}

func (p *Parser) invalidTarget(n *ast.Node) {
	p.fail(diag.SynInvalidAssignTarget, n.Span, "invalid assignment target")
}
