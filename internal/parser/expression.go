package parser

import (
	"esfix/internal/ast"
	"esfix/internal/token"
)

// parseExpression разбирает Expression (с запятыми).
func (p *Parser) parseExpression(noIn bool) *ast.Node {
	start := p.start()
	expr := p.parseAssign(noIn)
	if !p.at(token.Comma) {
		return expr
	}
	n := p.node(ast.SequenceExpression, start)
	n.Expressions = []*ast.Node{expr}
	for p.eat(token.Comma) {
		n.Expressions = append(n.Expressions, p.parseAssign(noIn))
	}
	return p.done(n)
}

// parseAssign разбирает AssignmentExpression: стрелки, yield, присваивания
// и всё, что ниже по приоритету.
func (p *Parser) parseAssign(noIn bool) *ast.Node {
	if async, ok := p.isArrowAhead(); ok {
		return p.parseArrow(noIn, async)
	}
	if p.inGenerator && p.atValue("yield") {
		return p.parseYield(noIn)
	}

	start := p.start()
	left := p.parseConditional(noIn)
	op := p.peek()
	if !token.IsAssignOp(op.Kind) {
		return left
	}
	if op.Kind == token.Assign {
		left = p.toPattern(left)
	} else if !left.Is(ast.Identifier, ast.MemberExpression) {
		p.invalidTarget(left)
	}
	p.advance()
	n := p.node(ast.AssignmentExpression, start)
	n.Operator = op.Text
	n.Left = left
	n.Right = p.parseAssign(noIn)
	return p.done(n)
}

// isArrowAhead смотрит вперёд: начинается ли здесь стрелочная функция.
func (p *Parser) isArrowAhead() (async, ok bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		next := p.peekAt(1)
		if next.Kind == token.FatArrow && !next.NewlineBefore {
			return false, true
		}
		if tok.Text != "async" || next.NewlineBefore {
			return false, false
		}
		if next.Kind == token.Ident {
			arrow := p.peekAt(2)
			return true, arrow.Kind == token.FatArrow && !arrow.NewlineBefore
		}
		if next.Kind == token.LParen {
			return true, p.arrowAfterParen(p.pos + 1)
		}
	case token.LParen:
		return false, p.arrowAfterParen(p.pos)
	}
	return false, false
}

func (p *Parser) arrowAfterParen(open int) bool {
	closeIdx := p.matchingParen(open)
	if closeIdx < 0 || closeIdx+1 >= len(p.toks) {
		return false
	}
	arrow := p.toks[closeIdx+1]
	return arrow.Kind == token.FatArrow && !arrow.NewlineBefore
}

func (p *Parser) parseArrow(noIn, async bool) *ast.Node {
	n := p.node(ast.ArrowFunctionExpression, p.start())
	if async {
		p.advance()
		n.Flags |= ast.FlagAsync
	}
	saved := p.enterFunction(async, false)
	defer p.leaveFunction(saved)

	if p.at(token.Ident) {
		n.Params = []*ast.Node{p.ident(p.advance())}
	} else {
		n.Params = p.parseParams()
	}
	p.expect(token.FatArrow)
	if p.at(token.LBrace) {
		n.Body = p.parseBlock()
	} else {
		n.Flags |= ast.FlagExpression
		n.Body = p.parseAssign(noIn)
	}
	return p.done(n)
}

func (p *Parser) parseYield(noIn bool) *ast.Node {
	n := p.node(ast.YieldExpression, p.start())
	p.advance()
	if p.eat(token.Star) {
		n.Flags |= ast.FlagDelegate
		n.Argument = p.parseAssign(noIn)
		return p.done(n)
	}
	if p.startsExpression() {
		n.Argument = p.parseAssign(noIn)
	}
	return p.done(n)
}

// startsExpression: может ли текущий токен (на той же строке) начать
// аргумент yield.
func (p *Parser) startsExpression() bool {
	tok := p.peek()
	if tok.NewlineBefore {
		return false
	}
	switch tok.Kind {
	case token.EOF, token.RParen, token.RBracket, token.RBrace, token.Comma,
		token.Semicolon, token.Colon, token.Question, token.TemplateMiddle, token.TemplateTail, token.KwIn:
		return false
	}
	return !token.IsAssignOp(tok.Kind)
}

func (p *Parser) parseConditional(noIn bool) *ast.Node {
	start := p.start()
	test := p.parseBinary(noIn)
	if !p.eat(token.Question) {
		return test
	}
	n := p.node(ast.ConditionalExpression, start)
	n.Test = test
	n.Consequent = p.parseAssign(false)
	p.expect(token.Colon)
	n.Alternate = p.parseAssign(noIn)
	return p.done(n)
}

func (p *Parser) parseBinary(noIn bool) *ast.Node {
	start := p.start()
	var left *ast.Node
	if tok := p.peek(); tok.Kind == token.PrivateName && p.peekAt(1).Kind == token.KwIn {
		// #x in obj
		p.advance()
		left = &ast.Node{Kind: ast.PrivateIdentifier, Span: tok.Span, Name: tok.Text[1:]}
	} else {
		left = p.parseUnary()
	}
	return p.parseBinaryRest(left, start, precNone, noIn)
}

// parseBinaryRest: подъём по приоритетам; '**' правоассоциативен.
func (p *Parser) parseBinaryRest(left *ast.Node, start uint32, minPrec int, noIn bool) *ast.Node {
	for {
		op := p.peek()
		prec, ok := getBinaryOperatorPrec(op.Kind, noIn)
		if !ok || prec <= minPrec {
			return left
		}
		p.advance()
		rightStart := p.start()
		nextMin := prec
		if op.Kind == token.StarStar {
			nextMin = prec - 1
		}
		right := p.parseBinaryRest(p.parseUnary(), rightStart, nextMin, noIn)

		kind := ast.BinaryExpression
		if isLogicalOperator(op.Kind) {
			kind = ast.LogicalExpression
		}
		n := p.node(kind, start)
		n.Operator = op.Text
		n.Left = left
		n.Right = right
		left = p.done(n)
	}
}

func (p *Parser) awaitAllowed() bool {
	return p.inAsync || !p.inFunction
}

func (p *Parser) parseUnary() *ast.Node {
	tok := p.peek()
	switch {
	case isUnaryOperator(tok.Kind):
		n := p.node(ast.UnaryExpression, tok.Span.Start)
		p.advance()
		n.Operator = tok.Text
		n.Flags |= ast.FlagPrefix
		n.Argument = p.parseUnary()
		return p.done(n)
	case tok.Kind == token.PlusPlus || tok.Kind == token.MinusMinus:
		n := p.node(ast.UpdateExpression, tok.Span.Start)
		p.advance()
		n.Operator = tok.Text
		n.Flags |= ast.FlagPrefix
		n.Argument = p.parseUnary()
		if !n.Argument.Is(ast.Identifier, ast.MemberExpression) {
			p.invalidTarget(n.Argument)
		}
		return p.done(n)
	case tok.Kind == token.Ident && tok.Text == "await" && p.awaitAllowed():
		n := p.node(ast.AwaitExpression, tok.Span.Start)
		p.advance()
		n.Argument = p.parseUnary()
		return p.done(n)
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() *ast.Node {
	start := p.start()
	expr := p.parseLHS()
	op := p.peek()
	if (op.Kind == token.PlusPlus || op.Kind == token.MinusMinus) && !op.NewlineBefore {
		if !expr.Is(ast.Identifier, ast.MemberExpression) {
			p.invalidTarget(expr)
		}
		p.advance()
		n := p.node(ast.UpdateExpression, start)
		n.Operator = op.Text
		n.Argument = expr
		return p.done(n)
	}
	return expr
}

// parseLHS разбирает LeftHandSideExpression: new, вызовы, доступ к членам.
func (p *Parser) parseLHS() *ast.Node {
	start := p.start()
	var expr *ast.Node
	if p.at(token.KwNew) {
		expr = p.parseNew()
	} else {
		expr = p.parsePrimary()
	}
	return p.parseCallTail(expr, start, false)
}

func (p *Parser) parseNew() *ast.Node {
	start := p.start()
	newTok := p.expect(token.KwNew)
	if p.eat(token.Dot) {
		n := p.node(ast.MetaProperty, start)
		n.Meta = p.ident(newTok)
		n.Property = p.ident(p.expectValue("target"))
		return p.done(n)
	}

	calleeStart := p.start()
	var callee *ast.Node
	if p.at(token.KwNew) {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	callee = p.parseCallTail(callee, calleeStart, true)

	n := p.node(ast.NewExpression, start)
	n.Callee = callee
	if p.at(token.LParen) {
		n.Arguments = p.parseArguments()
	}
	return p.done(n)
}

// parseCallTail разбирает цепочку .x, [x], ?.x, (args) и tagged-шаблоны.
// noCalls: для callee у new: вызовы не поглощаются.
func (p *Parser) parseCallTail(expr *ast.Node, start uint32, noCalls bool) *ast.Node {
	optionalChain := false
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.Dot:
			p.advance()
			expr = p.member(expr, start, p.parseMemberName(), 0)
		case tok.Kind == token.QuestionDot && !noCalls:
			p.advance()
			optionalChain = true
			switch {
			case p.at(token.LParen):
				expr = p.call(expr, start, ast.FlagOptional)
			case p.eat(token.LBracket):
				prop := p.parseExpression(false)
				p.expect(token.RBracket)
				expr = p.member(expr, start, prop, ast.FlagOptional|ast.FlagComputed)
			default:
				expr = p.member(expr, start, p.parseMemberName(), ast.FlagOptional)
			}
		case tok.Kind == token.LBracket:
			p.advance()
			prop := p.parseExpression(false)
			p.expect(token.RBracket)
			expr = p.member(expr, start, prop, ast.FlagComputed)
		case tok.Kind == token.LParen && !noCalls:
			expr = p.call(expr, start, 0)
		case tok.Kind == token.Template || tok.Kind == token.TemplateHead:
			if optionalChain {
				p.unexpected("tagged template cannot be used in optional chain")
			}
			n := p.node(ast.TaggedTemplateExpression, start)
			n.Tag = expr
			n.Quasi = p.parseTemplate()
			expr = p.done(n)
		default:
			if optionalChain {
				chain := p.node(ast.ChainExpression, start)
				chain.Expression = expr
				chain.Span = expr.Span
				return chain
			}
			return expr
		}
	}
}

func (p *Parser) member(object *ast.Node, start uint32, prop *ast.Node, flags ast.Flags) *ast.Node {
	n := p.node(ast.MemberExpression, start)
	n.Object = object
	n.Property = prop
	n.Flags = flags
	return p.done(n)
}

func (p *Parser) call(callee *ast.Node, start uint32, flags ast.Flags) *ast.Node {
	n := p.node(ast.CallExpression, start)
	n.Callee = callee
	n.Flags = flags
	n.Arguments = p.parseArguments()
	return p.done(n)
}

// parseMemberName: имя после '.': любое IdentifierName или #private.
func (p *Parser) parseMemberName() *ast.Node {
	tok := p.peek()
	switch {
	case tok.Kind == token.PrivateName:
		p.advance()
		return &ast.Node{Kind: ast.PrivateIdentifier, Span: tok.Span, Name: tok.Text[1:]}
	case tok.Kind == token.Ident || tok.IsKeyword():
		return p.ident(p.advance())
	}
	p.unexpected("expected property name")
	return nil
}

func (p *Parser) parseArguments() []*ast.Node {
	p.expect(token.LParen)
	var args []*ast.Node
	for !p.eat(token.RParen) {
		args = append(args, p.parseSpreadOrAssign())
		if !p.at(token.RParen) {
			p.expect(token.Comma)
		}
	}
	return args
}

func (p *Parser) parseSpreadOrAssign() *ast.Node {
	if !p.at(token.DotDotDot) {
		return p.parseAssign(false)
	}
	n := p.node(ast.SpreadElement, p.start())
	p.advance()
	n.Argument = p.parseAssign(false)
	return p.done(n)
}
