package lexer

import (
	"unicode"

	"esfix/internal/diag"
	"esfix/internal/token"
)

// skipTrivia пропускает пробелы, переводы строк и комментарии перед значимым токеном.
// - переводы строк (\n, \r, U+2028, U+2029) выставляют lx.newline
// - //... и /* ... */ попадают в lx.comments; многострочный блок тоже считается переводом строки
// - #! в самом начале файла: hashbang-комментарий
func (lx *Lexer) skipTrivia() {
	if lx.cursor.AtStart() && lx.cursor.HasPrefix("#!") {
		lx.scanLineComment(token.CommentHashbang)
	}
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == ' ' || b == '\t' || b == '\v' || b == '\f':
			lx.cursor.Bump()
		case b == '\n' || b == '\r':
			lx.cursor.Bump()
			lx.newline = true
		case b == '/':
			if !lx.scanComment() {
				return
			}
		case b >= utf8RuneSelf:
			r, _ := lx.peekRune()
			switch {
			case r == '\u2028' || r == '\u2029':
				lx.bumpRune()
				lx.newline = true
			case r == '\uFEFF' || unicode.Is(unicode.Zs, r):
				lx.bumpRune()
			default:
				return
			}
		default:
			return
		}
	}
}

// //... или /* ... */; false если это не комментарий.
func (lx *Lexer) scanComment() bool {
	if lx.cursor.Peek() != '/' {
		return false
	}
	switch lx.cursor.PeekAt(1) {
	case '/':
		lx.scanLineComment(token.CommentLine)
		return true
	case '*':
		lx.scanBlockComment()
		return true
	}
	return false
}

func (lx *Lexer) scanLineComment(kind token.CommentKind) {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || b == '\r' {
			break
		}
		if b >= utf8RuneSelf {
			if r, _ := lx.peekRune(); r == '\u2028' || r == '\u2029' {
				break
			}
			lx.bumpRune()
			continue
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.comments = append(lx.comments, token.Comment{Kind: kind, Span: sp, Text: lx.text(sp)})
}

func (lx *Lexer) scanBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	closed := false
	for !lx.cursor.EOF() {
		if lx.cursor.EatString("*/") {
			closed = true
			break
		}
		b := lx.cursor.Bump()
		if b == '\n' || b == '\r' {
			lx.newline = true
		}
	}
	sp := lx.cursor.SpanFrom(start)
	if !closed {
		lx.errLex(diag.LexUnterminatedBlockComment, sp, "unterminated block comment")
	}
	lx.comments = append(lx.comments, token.Comment{Kind: token.CommentBlock, Span: sp, Text: lx.text(sp)})
}
