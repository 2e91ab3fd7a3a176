package lexer

import (
	"esfix/internal/diag"
	"esfix/internal/token"
)

// Поддержка: 0, 123, 1_000, 0b..., 0o..., 0x..., 017 (legacy octal), 1.0, .5, 1., 1e-3, 10n.
// Неверные формы репортятся в opts.Reporter, токен по возможности завершаем.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.Number

	digits := func(ok func(byte) bool) int {
		n := 0
		for {
			b := lx.cursor.Peek()
			if !ok(b) && b != '_' {
				return n
			}
			lx.cursor.Bump()
			n++
		}
	}

	// ведущая точка: формат ".digits"
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		digits(isDec)
		return lx.finishNumber(start, kind, true)
	}

	if lx.cursor.Peek() == '0' {
		var accept func(byte) bool
		switch lx.cursor.PeekAt(1) {
		case 'b', 'B':
			accept = func(b byte) bool { return b == '0' || b == '1' }
		case 'o', 'O':
			accept = func(b byte) bool { return b >= '0' && b <= '7' }
		case 'x', 'X':
			accept = isHex
		}
		if accept != nil {
			lx.cursor.Bump()
			lx.cursor.Bump()
			if digits(accept) == 0 {
				sp := lx.cursor.SpanFrom(start)
				lx.errLex(diag.LexBadNumber, sp, "expected digits after radix prefix")
				return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
			}
			if lx.cursor.Eat('n') {
				kind = token.BigInt
			}
			return lx.finishNumber(start, kind, false)
		}
	}

	// десятичная целая часть
	digits(isDec)

	if lx.cursor.Eat('n') {
		return lx.finishNumber(start, token.BigInt, false)
	}

	// дробная часть
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		digits(isDec)
	}
	return lx.finishNumber(start, kind, true)
}

// finishNumber читает экспоненту (если разрешена) и проверяет, что за числом
// не следует идентификатор вплотную ("3in" это ошибка).
func (lx *Lexer) finishNumber(start Mark, kind token.Kind, allowExp bool) token.Token {
	if allowExp && (lx.cursor.Peek() == 'e' || lx.cursor.Peek() == 'E') {
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "expected digit after exponent")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}
	if b := lx.cursor.Peek(); isIdentStartByte(b) || isDec(b) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "identifier starts immediately after numeric literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return lx.emit(kind, start)
}
