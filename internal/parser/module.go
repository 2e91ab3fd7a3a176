package parser

import (
	"esfix/internal/ast"
	"esfix/internal/token"
)

func (p *Parser) parseImportDeclaration() *ast.Node {
	n := p.node(ast.ImportDeclaration, p.start())
	p.expect(token.KwImport)
	if p.at(token.String) {
		n.Source = p.parseLiteral()
		p.parseImportAttributes()
		p.consumeSemicolon()
		return p.done(n)
	}

	if p.at(token.Ident) {
		s := p.node(ast.ImportDefaultSpecifier, p.start())
		s.Local = p.ident(p.advance())
		n.Specifiers = append(n.Specifiers, p.done(s))
		if !p.eat(token.Comma) {
			return p.finishImport(n)
		}
	}

	switch {
	case p.at(token.Star):
		s := p.node(ast.ImportNamespaceSpecifier, p.start())
		p.advance()
		p.expectValue("as")
		s.Local = p.ident(p.expect(token.Ident))
		n.Specifiers = append(n.Specifiers, p.done(s))
	case p.eat(token.LBrace):
		for !p.eat(token.RBrace) {
			s := p.node(ast.ImportSpecifier, p.start())
			s.Imported = p.parseModuleExportName()
			if p.eatValue("as") {
				s.Local = p.ident(p.expect(token.Ident))
			} else {
				s.Local = s.Imported.Clone()
			}
			n.Specifiers = append(n.Specifiers, p.done(s))
			if !p.at(token.RBrace) {
				p.expect(token.Comma)
			}
		}
	default:
		p.unexpected("expected import specifier")
	}
	return p.finishImport(n)
}

func (p *Parser) finishImport(n *ast.Node) *ast.Node {
	p.expectValue("from")
	if !p.at(token.String) {
		p.unexpected("expected module specifier")
	}
	n.Source = p.parseLiteral()
	p.parseImportAttributes()
	p.consumeSemicolon()
	return p.done(n)
}

// parseImportAttributes пропускает `with { type: "json" }`; в дереве не хранится.
func (p *Parser) parseImportAttributes() {
	if p.at(token.KwWith) && !p.peek().NewlineBefore {
		p.advance()
		p.parseObjectLiteral()
	}
}

// parseModuleExportName: идентификатор, ключевое слово или строка.
func (p *Parser) parseModuleExportName() *ast.Node {
	tok := p.peek()
	switch {
	case tok.Kind == token.String:
		return p.parseLiteral()
	case tok.Kind == token.Ident || tok.IsKeyword():
		return p.ident(p.advance())
	}
	p.unexpected("expected export name")
	return nil
}

func (p *Parser) parseExportDeclaration() *ast.Node {
	start := p.start()
	p.expect(token.KwExport)

	switch {
	case p.eat(token.Star):
		n := p.node(ast.ExportAllDeclaration, start)
		if p.eatValue("as") {
			n.Exported = p.parseModuleExportName()
		}
		return p.finishExportFrom(n)

	case p.eat(token.KwDefault):
		n := p.node(ast.ExportDefaultDeclaration, start)
		switch {
		case p.at(token.KwFunction):
			n.Declaration = p.parseFunction(true, false)
		case p.isAsyncFunction():
			n.Declaration = p.parseFunction(true, true)
		case p.at(token.KwClass):
			n.Declaration = p.parseClass(true)
		default:
			n.Declaration = p.parseAssign(false)
			p.consumeSemicolon()
		}
		return p.done(n)

	case p.eat(token.LBrace):
		n := p.node(ast.ExportNamedDeclaration, start)
		for !p.eat(token.RBrace) {
			s := p.node(ast.ExportSpecifier, p.start())
			s.Local = p.parseModuleExportName()
			if p.eatValue("as") {
				s.Exported = p.parseModuleExportName()
			} else {
				s.Exported = s.Local.Clone()
			}
			n.Specifiers = append(n.Specifiers, p.done(s))
			if !p.at(token.RBrace) {
				p.expect(token.Comma)
			}
		}
		if p.atValue("from") {
			return p.finishExportFrom(n)
		}
		p.consumeSemicolon()
		return p.done(n)
	}

	n := p.node(ast.ExportNamedDeclaration, start)
	switch {
	case p.atOr(token.KwVar, token.KwConst, token.KwFunction, token.KwClass),
		p.isLetDeclaration(), p.isAsyncFunction():
		n.Declaration = p.parseStatement()
	default:
		p.unexpected("expected declaration after export")
	}
	return p.done(n)
}

func (p *Parser) finishExportFrom(n *ast.Node) *ast.Node {
	p.expectValue("from")
	if !p.at(token.String) {
		p.unexpected("expected module specifier")
	}
	n.Source = p.parseLiteral()
	p.parseImportAttributes()
	p.consumeSemicolon()
	return p.done(n)
}
