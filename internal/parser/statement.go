package parser

import (
	"esfix/internal/ast"
	"esfix/internal/diag"
	"esfix/internal/token"
)

// parseStatementListItem разбирает оператор верхнего уровня или блока,
// включая объявления и import/export.
func (p *Parser) parseStatementListItem() *ast.Node {
	switch p.peek().Kind {
	case token.KwImport:
		if next := p.peekAt(1).Kind; next != token.LParen && next != token.Dot {
			return p.parseImportDeclaration()
		}
	case token.KwExport:
		return p.parseExportDeclaration()
	}
	return p.parseStatement()
}

func (p *Parser) parseStatement() *ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		n := p.node(ast.EmptyStatement, tok.Span.Start)
		p.advance()
		return p.done(n)
	case token.KwVar, token.KwConst:
		return p.parseVarStatement()
	case token.KwFunction:
		return p.parseFunction(true, false)
	case token.KwClass:
		return p.parseClass(true)
	case token.KwIf:
		return p.parseIf()
	case token.KwFor:
		return p.parseFor()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDoWhile()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwBreak, token.KwContinue:
		return p.parseJump()
	case token.KwThrow:
		return p.parseThrow()
	case token.KwTry:
		return p.parseTry()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwWith:
		return p.parseWith()
	case token.KwDebugger:
		n := p.node(ast.DebuggerStatement, tok.Span.Start)
		p.advance()
		p.consumeSemicolon()
		return p.done(n)
	case token.Ident:
		if p.isLetDeclaration() {
			return p.parseVarStatement()
		}
		if p.isAsyncFunction() {
			return p.parseFunction(true, true)
		}
		if p.peekAt(1).Kind == token.Colon {
			return p.parseLabeled()
		}
	}
	return p.parseExpressionStatement()
}

// isLetDeclaration отличает `let x` от выражения с идентификатором let.
func (p *Parser) isLetDeclaration() bool {
	if !p.atValue("let") {
		return false
	}
	switch p.peekAt(1).Kind {
	case token.Ident, token.LBracket, token.LBrace:
		return true
	}
	return false
}

func (p *Parser) isAsyncFunction() bool {
	next := p.peekAt(1)
	return p.atValue("async") && next.Kind == token.KwFunction && !next.NewlineBefore
}

func (p *Parser) parseBlock() *ast.Node {
	n := p.node(ast.BlockStatement, p.start())
	p.expect(token.LBrace)
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.unexpected("expected \"}\"")
		}
		n.Stmts = append(n.Stmts, p.parseStatementListItem())
	}
	p.advance()
	return p.done(n)
}

func (p *Parser) parseExpressionStatement() *ast.Node {
	n := p.node(ast.ExpressionStatement, p.start())
	n.Expression = p.parseExpression(false)
	p.consumeSemicolon()
	return p.done(n)
}

func (p *Parser) parseVarStatement() *ast.Node {
	n := p.parseVarDeclaration(false)
	p.consumeSemicolon()
	return p.done(n)
}

// parseVarDeclaration разбирает var/let/const без завершающей ';'.
// noIn запрещает оператор in в инициализаторах (заголовок for).
func (p *Parser) parseVarDeclaration(noIn bool) *ast.Node {
	n := p.node(ast.VariableDeclaration, p.start())
	n.DeclKind = p.advance().Text
	for {
		d := p.node(ast.VariableDeclarator, p.start())
		d.ID = p.parseBindingTarget()
		if p.eat(token.Assign) {
			d.Init = p.parseAssign(noIn)
		}
		n.Declarations = append(n.Declarations, p.done(d))
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.done(n)
}

func (p *Parser) parseParenHead() *ast.Node {
	p.expect(token.LParen)
	expr := p.parseExpression(false)
	p.expect(token.RParen)
	return expr
}

func (p *Parser) parseIf() *ast.Node {
	n := p.node(ast.IfStatement, p.start())
	p.advance()
	n.Test = p.parseParenHead()
	n.Consequent = p.parseStatement()
	if p.eat(token.KwElse) {
		n.Alternate = p.parseStatement()
	}
	return p.done(n)
}

func (p *Parser) parseWhile() *ast.Node {
	n := p.node(ast.WhileStatement, p.start())
	p.advance()
	n.Test = p.parseParenHead()
	n.Body = p.parseStatement()
	return p.done(n)
}

func (p *Parser) parseDoWhile() *ast.Node {
	n := p.node(ast.DoWhileStatement, p.start())
	p.advance()
	n.Body = p.parseStatement()
	p.expect(token.KwWhile)
	n.Test = p.parseParenHead()
	// после do-while ';' вставляется всегда
	p.eat(token.Semicolon)
	return p.done(n)
}

func (p *Parser) parseWith() *ast.Node {
	n := p.node(ast.WithStatement, p.start())
	p.advance()
	n.Object = p.parseParenHead()
	n.Body = p.parseStatement()
	return p.done(n)
}

func (p *Parser) parseFor() *ast.Node {
	start := p.start()
	p.advance()
	var flags ast.Flags
	if p.eatValue("await") {
		flags |= ast.FlagAwait
	}
	p.expect(token.LParen)

	var init *ast.Node
	switch {
	case p.at(token.Semicolon):
	case p.atOr(token.KwVar, token.KwConst) || p.isLetDeclaration():
		init = p.parseVarDeclaration(true)
		if len(init.Declarations) == 1 && (p.atValue("of") || p.at(token.KwIn)) {
			return p.parseForInOf(start, flags, init)
		}
	default:
		expr := p.parseExpression(true)
		if p.atValue("of") || p.at(token.KwIn) {
			return p.parseForInOf(start, flags, p.toPattern(expr))
		}
		init = expr
	}

	n := p.node(ast.ForStatement, start)
	n.Init = init
	p.expect(token.Semicolon)
	if !p.at(token.Semicolon) {
		n.Test = p.parseExpression(false)
	}
	p.expect(token.Semicolon)
	if !p.at(token.RParen) {
		n.Update = p.parseExpression(false)
	}
	p.expect(token.RParen)
	n.Body = p.parseStatement()
	return p.done(n)
}

func (p *Parser) parseForInOf(start uint32, flags ast.Flags, left *ast.Node) *ast.Node {
	var n *ast.Node
	if p.eat(token.KwIn) {
		n = p.node(ast.ForInStatement, start)
		n.Right = p.parseExpression(false)
	} else {
		p.expectValue("of")
		n = p.node(ast.ForOfStatement, start)
		n.Right = p.parseAssign(false)
	}
	n.Flags = flags
	n.Left = left
	p.expect(token.RParen)
	n.Body = p.parseStatement()
	return p.done(n)
}

// canEndArgument: после return/break/continue аргумента нет.
func (p *Parser) canEndArgument() bool {
	tok := p.peek()
	return tok.NewlineBefore || tok.Kind == token.Semicolon || tok.Kind == token.RBrace || tok.Kind == token.EOF
}

func (p *Parser) parseReturn() *ast.Node {
	n := p.node(ast.ReturnStatement, p.start())
	p.advance()
	if !p.canEndArgument() {
		n.Argument = p.parseExpression(false)
	}
	p.consumeSemicolon()
	return p.done(n)
}

func (p *Parser) parseJump() *ast.Node {
	kind := ast.BreakStatement
	if p.at(token.KwContinue) {
		kind = ast.ContinueStatement
	}
	n := p.node(kind, p.start())
	p.advance()
	if p.at(token.Ident) && !p.peek().NewlineBefore {
		n.Label = p.ident(p.advance())
	}
	p.consumeSemicolon()
	return p.done(n)
}

func (p *Parser) parseThrow() *ast.Node {
	n := p.node(ast.ThrowStatement, p.start())
	p.advance()
	if tok := p.peek(); tok.NewlineBefore {
		p.fail(diag.SynUnexpectedToken, tok.Span, "illegal newline after throw")
	}
	n.Argument = p.parseExpression(false)
	p.consumeSemicolon()
	return p.done(n)
}

func (p *Parser) parseTry() *ast.Node {
	n := p.node(ast.TryStatement, p.start())
	p.advance()
	n.Block = p.parseBlock()
	if p.at(token.KwCatch) {
		h := p.node(ast.CatchClause, p.start())
		p.advance()
		if p.eat(token.LParen) {
			h.Param = p.parseBindingTarget()
			p.expect(token.RParen)
		}
		h.Body = p.parseBlock()
		n.Handler = p.done(h)
	}
	if p.eat(token.KwFinally) {
		n.Finalizer = p.parseBlock()
	}
	if n.Handler == nil && n.Finalizer == nil {
		p.unexpected("expected \"catch\" or \"finally\"")
	}
	return p.done(n)
}

func (p *Parser) parseSwitch() *ast.Node {
	n := p.node(ast.SwitchStatement, p.start())
	p.advance()
	n.Discriminant = p.parseParenHead()
	p.expect(token.LBrace)
	for !p.eat(token.RBrace) {
		c := p.node(ast.SwitchCase, p.start())
		switch {
		case p.eat(token.KwCase):
			c.Test = p.parseExpression(false)
		case p.eat(token.KwDefault):
		default:
			p.unexpected("expected \"case\" or \"default\"")
		}
		p.expect(token.Colon)
		for !p.atOr(token.KwCase, token.KwDefault, token.RBrace, token.EOF) {
			c.Stmts = append(c.Stmts, p.parseStatementListItem())
		}
		n.Cases = append(n.Cases, p.done(c))
	}
	return p.done(n)
}

func (p *Parser) parseLabeled() *ast.Node {
	n := p.node(ast.LabeledStatement, p.start())
	n.Label = p.ident(p.advance())
	p.expect(token.Colon)
	n.Body = p.parseStatement()
	return p.done(n)
}
