package lexer

import (
	"esfix/internal/diag"
	"esfix/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует идентификатор и проверяет через LookupKeyword.
// Слова с escape-последовательностями (\u0061) никогда не считаются ключевыми.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	escaped, ok := lx.scanIdentName()
	if !ok {
		sp := lx.cursor.SpanFrom(start)
		if sp.Empty() {
			lx.bumpRune()
			sp = lx.cursor.SpanFrom(start)
		}
		lx.errLex(diag.LexUnknownChar, sp, "invalid character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if !escaped {
		if k, ok := token.LookupKeyword(text); ok {
			return token.Token{Kind: k, Span: sp, Text: text}
		}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// scanPrivateName сканирует #name.
func (lx *Lexer) scanPrivateName() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	if _, ok := lx.scanIdentName(); !ok {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unexpected character '#'")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return lx.emit(token.PrivateName, start)
}

// scanIdentName consumes IdentifierName. ok is false when the first
// character cannot start an identifier.
func (lx *Lexer) scanIdentName() (escaped, ok bool) {
	first := true
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\\':
			if !lx.scanUnicodeEscape() {
				return escaped, false
			}
			escaped = true
		case b < utf8RuneSelf:
			if (first && !isIdentStartByte(b)) || (!first && !isIdentContinueByte(b)) {
				return escaped, !first
			}
			lx.cursor.Bump()
		default:
			r, _ := lx.peekRune()
			if (first && !isIdentStartRune(r)) || (!first && !isIdentContinueRune(r)) {
				return escaped, !first
			}
			lx.bumpRune()
		}
		first = false
	}
	return escaped, !first
}

// \uXXXX или \u{X...}
func (lx *Lexer) scanUnicodeEscape() bool {
	mark := lx.cursor.Mark()
	lx.cursor.Bump() // '\'
	if !lx.cursor.Eat('u') {
		lx.cursor.Reset(mark)
		return false
	}
	if lx.cursor.Eat('{') {
		n := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			n++
		}
		if n == 0 || !lx.cursor.Eat('}') {
			lx.cursor.Reset(mark)
			return false
		}
		return true
	}
	for range 4 {
		if !isHex(lx.cursor.Peek()) {
			lx.cursor.Reset(mark)
			return false
		}
		lx.cursor.Bump()
	}
	return true
}
