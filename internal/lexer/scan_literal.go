package lexer

import (
	"esfix/internal/diag"
	"esfix/internal/token"
)

// scanString сканирует '...' или "...". Escape-последовательности не
// декодируются здесь (см. Cook), только пропускаются.
func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // открывающая кавычка
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case quote:
			lx.cursor.Bump()
			return lx.emit(token.String, start)
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				continue
			}
			lx.bumpRune()
			continue
		case '\n', '\r':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// scanTemplate сканирует часть шаблона, начиная с '`' (начало) или '}'
// (продолжение после подстановки).
func (lx *Lexer) scanTemplate() token.Token {
	start := lx.cursor.Mark()
	opening := lx.cursor.Bump() == '`'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '`':
			lx.cursor.Bump()
			if opening {
				return lx.emit(token.Template, start)
			}
			return lx.emit(token.TemplateTail, start)
		case '\\':
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.bumpRune()
			}
			continue
		case '$':
			if lx.cursor.EatString("${") {
				if opening {
					return lx.emit(token.TemplateHead, start)
				}
				return lx.emit(token.TemplateMiddle, start)
			}
		}
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedTemplate, sp, "unterminated template literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// scanRegExp сканирует /body/flags. Внутри классов [...] '/' не закрывает литерал.
func (lx *Lexer) scanRegExp() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	inClass := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\n' || b == '\r':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedRegExp, sp, "unterminated regular expression")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		case b == '\\':
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.bumpRune()
			}
			continue
		case b == '[':
			inClass = true
		case b == ']':
			inClass = false
		case b == '/' && !inClass:
			lx.cursor.Bump()
			for isIdentContinueByte(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			return lx.emit(token.RegExp, start)
		}
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedRegExp, sp, "unterminated regular expression")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
