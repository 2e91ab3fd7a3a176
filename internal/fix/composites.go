package fix

import (
	"slices"

	"esfix/internal/asi"
	"esfix/internal/ast"
	"esfix/internal/lexer"
	"esfix/internal/parens"
	"esfix/internal/source"
	"esfix/internal/token"
)

// RemoveArgument removes one argument of a call or new expression.
func RemoveArgument(fx *Fixer, arg *ast.Node) error {
	return RemoveArguments(fx, []*ast.Node{arg})
}

// RemoveArguments removes a contiguous run of arguments together with their
// grouping parentheses and the separating comma: the one before the run,
// or when the run starts the list, everything up to the next argument. When
// the run is the whole list a trailing comma goes too.
func RemoveArguments(fx *Fixer, run []*ast.Node) error {
	if len(run) == 0 {
		return ErrNoPatch
	}
	sc := fx.Source()
	call := run[0].Parent
	if call == nil || !call.Is(ast.CallExpression, ast.NewExpression) {
		return ErrNoPatch
	}
	first := slices.Index(call.Arguments, run[0])
	last := first + len(run) - 1
	if first < 0 || last >= len(call.Arguments) || !slices.Equal(call.Arguments[first:last+1], run) {
		return ErrNoPatch
	}

	firstSpan := parens.OuterSpan(sc, run[0])
	lastSpan := parens.OuterSpan(sc, run[len(run)-1])
	start, end := firstSpan.Start, lastSpan.End

	switch {
	case first > 0:
		comma := sc.TokenBefore(firstSpan, nil)
		if comma == nil || !token.IsComma(*comma) {
			return ErrNoPatch
		}
		start = comma.Span.Start
	case last < len(call.Arguments)-1:
		end = parens.OuterSpan(sc, call.Arguments[last+1]).Start
	default:
		if after := sc.TokenAfter(lastSpan, nil); after != nil && token.IsComma(*after) {
			end = after.Span.End
		}
	}

	sp := source.Span{File: sc.File.ID, Start: start, End: end}
	if sc.HasCommentsInside(sp) {
		fx.Demote("removes comments")
	}
	return fx.RemoveSpan(sp)
}

// ArgumentsOpenParen returns the '(' opening the argument list of a call or
// new expression, or nil for `new Foo` without one.
func ArgumentsOpenParen(fx *Fixer, call *ast.Node) *token.Token {
	sc := fx.Source()
	tok := sc.TokenAfter(parens.OuterSpan(sc, call.Callee), nil)
	if tok != nil && tok.Kind == token.QuestionDot {
		tok = sc.TokenAfter(tok.Span, nil)
	}
	if tok == nil || tok.Kind != token.LParen || tok.Span.Start >= call.Span.End {
		return nil
	}
	return tok
}

// AppendArgument adds text as the last argument. An existing trailing comma
// is reused as the separator.
func AppendArgument(fx *Fixer, call *ast.Node, text string) error {
	if !call.Is(ast.CallExpression, ast.NewExpression) {
		return ErrNoPatch
	}
	sc := fx.Source()
	if ArgumentsOpenParen(fx, call) == nil {
		return fx.InsertAfter(call, "("+text+")")
	}
	closing := sc.LastToken(call, nil)
	if closing == nil || !token.IsClosingParen(*closing) {
		return ErrNoPatch
	}
	if len(call.Arguments) > 0 {
		if prev := sc.TokenBefore(closing.Span, nil); prev != nil && token.IsComma(*prev) {
			text = " " + text
		} else {
			text = ", " + text
		}
	}
	return fx.InsertBefore(closing.Span, text)
}

// RemoveMethodCall collapses `object.method(...)` to `object`, keeping the
// object's own parentheses.
func RemoveMethodCall(fx *Fixer, call *ast.Node) error {
	if call.Kind != ast.CallExpression || call.Callee.Kind != ast.MemberExpression {
		return ErrNoPatch
	}
	sc := fx.Source()
	member := call.Callee
	objectEnd := parens.OuterSpan(sc, member.Object).End
	memberEnd := parens.OuterSpan(sc, member).End

	access := source.Span{File: sc.File.ID, Start: objectEnd, End: member.Span.End}
	args := source.Span{File: sc.File.ID, Start: memberEnd, End: call.Span.End}
	if sc.HasCommentsInside(access) || sc.HasCommentsInside(args) {
		fx.Demote("removes comments")
	}
	if err := fx.RemoveSpan(access); err != nil {
		return err
	}
	return fx.RemoveSpan(args)
}

// ToConstructExpression turns `Foo(...)` into `new Foo(...)`.
func ToConstructExpression(fx *Fixer, call *ast.Node) error {
	if call.Kind != ast.CallExpression || call.Has(ast.FlagOptional) {
		return ErrNoPatch
	}
	sc := fx.Source()
	text := "new "
	if asi.NeedsTerminator(sc, sc.TokenBefore(call, nil), text) {
		text = ";" + text
	}
	if err := fx.InsertBefore(call, text); err != nil {
		return err
	}
	callee := call.Callee
	if !parens.IsParenthesized(sc, callee) && calleeNeedsParens(callee) {
		if err := fx.InsertBefore(callee, "("); err != nil {
			return err
		}
		return fx.InsertAfter(callee, ")")
	}
	return nil
}

// calleeNeedsParens: callee содержит вызов или optional chain; без скобок
// `new` захватил бы его аргументы.
func calleeNeedsParens(n *ast.Node) bool {
	switch n.Kind {
	case ast.Identifier, ast.ThisExpression, ast.Super, ast.MetaProperty:
		return false
	case ast.MemberExpression:
		return n.Has(ast.FlagOptional) || calleeNeedsParens(n.Object)
	}
	return true
}

// ToCallExpression turns `new Foo(...)` into `Foo(...)`.
func ToCallExpression(fx *Fixer, construct *ast.Node) error {
	if construct.Kind != ast.NewExpression {
		return ErrNoPatch
	}
	sc := fx.Source()
	newTok := sc.FirstToken(construct, nil)
	if newTok == nil || newTok.Kind != token.KwNew {
		return ErrNoPatch
	}
	callee := construct.Callee

	// `new` вместе с пробелами/табами после него
	end := newTok.Span.End
	content := sc.File.Content
	for end < uint32(len(content)) && (content[end] == ' ' || content[end] == '\t') { // #nosec G115 -- file size checked on load
		end++
	}

	// `new new Foo` → `(new Foo)()`, иначе `()` привязались бы к внутреннему new
	wrap := callee.Kind == ast.NewExpression && ArgumentsOpenParen(fx, callee) == nil && !parens.IsParenthesized(sc, callee)

	// после удаления `new` выражение начнётся с первого токена за ним
	fragment := "("
	if !wrap {
		fragment = ""
		if next := sc.TokenAfter(newTok.Span, nil); next != nil {
			fragment = next.Text
		}
	}
	if asi.NeedsTerminator(sc, sc.TokenBefore(newTok.Span, nil), fragment) {
		if err := fx.InsertAt(newTok.Span.Start, ";"); err != nil {
			return err
		}
	}
	if err := fx.RemoveSpan(source.Span{File: sc.File.ID, Start: newTok.Span.Start, End: end}); err != nil {
		return err
	}

	if wrap {
		if err := fx.InsertBefore(callee, "("); err != nil {
			return err
		}
		if err := fx.InsertAfter(callee, ")"); err != nil {
			return err
		}
	}

	if ArgumentsOpenParen(fx, construct) == nil {
		if err := fx.InsertAfter(construct, "()"); err != nil {
			return err
		}
	}

	if !sc.IsOnSameLine(newTok.Span, parens.OuterSpan(sc, callee)) && !parens.IsParenthesized(sc, construct) {
		parent := construct.Parent
		if parent != nil && parent.Is(ast.ReturnStatement, ast.ThrowStatement) && parent.Argument == construct {
			return WrapReturnArgument(fx, parent)
		}
	}
	return nil
}

// WrapReturnArgument wraps the argument of a return or throw statement in
// parentheses so that it starts on the keyword's line.
func WrapReturnArgument(fx *Fixer, stmt *ast.Node) error {
	if !stmt.Is(ast.ReturnStatement, ast.ThrowStatement) || stmt.Argument == nil {
		return ErrNoPatch
	}
	sc := fx.Source()
	kw := sc.FirstToken(stmt, nil)
	if err := fx.InsertAfter(kw.Span, " ("); err != nil {
		return err
	}
	last := sc.LastToken(stmt, nil)
	if last != nil && last.Kind == token.Semicolon {
		return fx.InsertBefore(last.Span, ")")
	}
	return fx.InsertAfter(stmt, ")")
}

// ReplaceLiteralRaw replaces the body of a string literal or template
// element with raw. It refuses (ErrNoPatch) when raw would not evaluate to
// the same value or would end the literal early.
func ReplaceLiteralRaw(fx *Fixer, lit *ast.Node, raw string) error {
	sc := fx.Source()
	var body source.Span
	var quote byte
	switch {
	case lit.Kind == ast.Literal && lit.LitKind == ast.LitString:
		quote = lit.Raw[0]
		body = source.Span{File: lit.Span.File, Start: lit.Span.Start + 1, End: lit.Span.End - 1}
	case lit.Kind == ast.TemplateElement:
		quote = '`'
		endTrim := uint32(2)
		if lit.Has(ast.FlagTail) {
			endTrim = 1
		}
		body = source.Span{File: lit.Span.File, Start: lit.Span.Start + 1, End: lit.Span.End - endTrim}
	default:
		return ErrNoPatch
	}
	if !rawStaysInside(raw, quote) {
		return ErrNoPatch
	}
	cooked, ok := lexer.Cook(raw)
	if !ok || !lit.Cookable || cooked != lit.Cooked {
		return ErrNoPatch
	}
	if sc.File.Text(body) == raw {
		return nil
	}
	return fx.ReplaceSpan(body, raw)
}

// rawStaysInside: в raw нет неэкранированной кавычки, перевода строки
// (для строк) и `${` (для шаблонов).
func rawStaysInside(raw string, quote byte) bool {
	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; {
		case c == '\\':
			if i+1 >= len(raw) {
				return false
			}
			i++
		case c == quote:
			return false
		case quote != '`' && (c == '\n' || c == '\r'):
			return false
		case quote == '`' && c == '$' && i+1 < len(raw) && raw[i+1] == '{':
			return false
		}
	}
	return true
}

// ReplaceNode replaces the node's text, prefixing ';' when the new text
// would otherwise continue the previous statement.
func ReplaceNode(fx *Fixer, n *ast.Node, text string) error {
	sc := fx.Source()
	if asi.NeedsTerminator(sc, sc.TokenBefore(n, nil), text) {
		text = ";" + text
	}
	return fx.Replace(n, text)
}
