package parser

import (
	"esfix/internal/ast"
	"esfix/internal/diag"
	"esfix/internal/lexer"
	"esfix/internal/token"
)

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.KwThis:
		p.advance()
		return &ast.Node{Kind: ast.ThisExpression, Span: tok.Span}
	case token.KwSuper:
		p.advance()
		return &ast.Node{Kind: ast.Super, Span: tok.Span}
	case token.Ident:
		if p.isAsyncFunction() {
			return p.parseFunction(false, true)
		}
		return p.ident(p.advance())
	case token.Number, token.BigInt, token.String, token.RegExp, token.KwTrue, token.KwFalse, token.KwNull:
		return p.parseLiteral()
	case token.Template, token.TemplateHead:
		return p.parseTemplate()
	case token.LParen:
		return p.parseParenExpression()
	case token.LBracket:
		return p.parseArrayLiteral()
	case token.LBrace:
		return p.parseObjectLiteral()
	case token.KwFunction:
		return p.parseFunction(false, false)
	case token.KwClass:
		return p.parseClass(false)
	case token.KwNew:
		return p.parseNew()
	case token.KwImport:
		return p.parseImportMeta()
	}
	p.unexpected("")
	return nil
}

// parseLiteral разбирает литерал из одного токена. Raw хранит исходный
// текст, Cooked у строк: значение без кавычек с раскрытыми escape.
func (p *Parser) parseLiteral() *ast.Node {
	tok := p.advance()
	n := &ast.Node{Kind: ast.Literal, Span: tok.Span, Raw: tok.Text}
	switch tok.Kind {
	case token.String:
		n.LitKind = ast.LitString
		n.Cooked, n.Cookable = lexer.Cook(tok.Text[1 : len(tok.Text)-1])
	case token.Number:
		n.LitKind = ast.LitNumber
	case token.BigInt:
		n.LitKind = ast.LitBigInt
	case token.RegExp:
		n.LitKind = ast.LitRegExp
	case token.KwTrue, token.KwFalse:
		n.LitKind = ast.LitBoolean
	case token.KwNull:
		n.LitKind = ast.LitNull
	default:
		p.fail(diag.SynInvalidToken, tok.Span, "expected literal")
	}
	return n
}

// parseTemplate разбирает шаблонную строку; TemplateElement покрывает
// свой токен вместе с ограничителями '`', '${' и '}'.
func (p *Parser) parseTemplate() *ast.Node {
	n := p.node(ast.TemplateLiteral, p.start())
	tok := p.advance()
	if tok.Kind == token.Template {
		n.Quasis = append(n.Quasis, templateElement(tok))
		return p.done(n)
	}
	if tok.Kind != token.TemplateHead {
		p.fail(diag.SynInvalidToken, tok.Span, "expected template literal")
	}
	n.Quasis = append(n.Quasis, templateElement(tok))
	for {
		n.Expressions = append(n.Expressions, p.parseExpression(false))
		tok = p.peek()
		switch tok.Kind {
		case token.TemplateMiddle:
			p.advance()
			n.Quasis = append(n.Quasis, templateElement(tok))
		case token.TemplateTail:
			p.advance()
			n.Quasis = append(n.Quasis, templateElement(tok))
			return p.done(n)
		default:
			p.unexpected("expected \"}\" in template literal")
		}
	}
}

func templateElement(tok token.Token) *ast.Node {
	text := tok.Text
	// '`' или '}' в начале; '`' или '${' в конце
	end := len(text) - 1
	tail := tok.Kind == token.Template || tok.Kind == token.TemplateTail
	if !tail {
		end = len(text) - 2
	}
	raw := text[1:end]
	n := &ast.Node{Kind: ast.TemplateElement, Span: tok.Span, Raw: raw}
	n.Cooked, n.Cookable = lexer.Cook(raw)
	if tail {
		n.Flags |= ast.FlagTail
	}
	return n
}

// parseParenExpression возвращает внутреннее выражение; скобки в дерево
// не попадают, их восстанавливает пакет parens по токенам.
func (p *Parser) parseParenExpression() *ast.Node {
	p.expect(token.LParen)
	expr := p.parseExpression(false)
	p.expect(token.RParen)
	return expr
}

func (p *Parser) parseArrayLiteral() *ast.Node {
	n := p.node(ast.ArrayExpression, p.start())
	p.expect(token.LBracket)
	for !p.eat(token.RBracket) {
		if p.eat(token.Comma) {
			n.Elements = append(n.Elements, nil)
			continue
		}
		n.Elements = append(n.Elements, p.parseSpreadOrAssign())
		if !p.at(token.RBracket) {
			p.expect(token.Comma)
		}
	}
	return p.done(n)
}

func (p *Parser) parseObjectLiteral() *ast.Node {
	n := p.node(ast.ObjectExpression, p.start())
	p.expect(token.LBrace)
	for !p.eat(token.RBrace) {
		n.Properties = append(n.Properties, p.parseProperty())
		if !p.at(token.RBrace) {
			p.expect(token.Comma)
		}
	}
	return p.done(n)
}

func (p *Parser) parseProperty() *ast.Node {
	start := p.start()
	if p.at(token.DotDotDot) {
		return p.parseSpreadOrAssign()
	}

	n := p.node(ast.Property, start)
	n.DeclKind = "init"
	var fnFlags ast.Flags
	if p.isModifier("async") {
		p.advance()
		fnFlags |= ast.FlagAsync
	}
	if p.eat(token.Star) {
		fnFlags |= ast.FlagGenerator
	}
	if fnFlags == 0 && (p.isModifier("get") || p.isModifier("set")) {
		n.DeclKind = p.advance().Text
	}

	key, computed := p.parsePropertyKey()
	n.Key = key
	if computed {
		n.Flags |= ast.FlagComputed
	}

	switch {
	case n.DeclKind != "init":
		n.Value = p.parseMethod(0)
	case p.at(token.LParen):
		n.Flags |= ast.FlagMethod
		n.Value = p.parseMethod(fnFlags)
	case fnFlags != 0:
		p.unexpected("expected \"(\"")
	case p.eat(token.Colon):
		n.Value = p.parseAssign(false)
	case key.Kind == ast.Identifier && !computed:
		n.Flags |= ast.FlagShorthand
		n.Value = key.Clone()
		if p.eat(token.Assign) {
			// {a = 1} допустим только как шаблон; проверяется в toPattern
			def := p.node(ast.AssignmentPattern, key.Span.Start)
			def.Left = key.Clone()
			def.Right = p.parseAssign(false)
			n.Value = p.done(def)
		}
	default:
		p.unexpected("expected \":\"")
	}
	return p.done(n)
}

// parseImportMeta разбирает import(...) и import.meta.
func (p *Parser) parseImportMeta() *ast.Node {
	start := p.start()
	kw := p.expect(token.KwImport)
	if p.eat(token.Dot) {
		n := p.node(ast.MetaProperty, start)
		n.Meta = p.ident(kw)
		n.Property = p.ident(p.expectValue("meta"))
		return p.done(n)
	}
	n := p.node(ast.ImportExpression, start)
	p.expect(token.LParen)
	n.Source = p.parseAssign(false)
	if p.eat(token.Comma) && !p.at(token.RParen) {
		// второй аргумент: import options
		n.Argument = p.parseAssign(false)
		p.eat(token.Comma)
	}
	p.expect(token.RParen)
	return p.done(n)
}
