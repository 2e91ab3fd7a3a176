package lexer

import (
	"esfix/internal/source"
	"esfix/internal/token"
)

type Lexer struct {
	file     *source.File
	cursor   Cursor
	opts     Options
	look     *token.Token // 1 элементный буфер для токена
	prev     token.Token  // последний значимый токен (для эвристики regex/деление)
	hasPrev  bool
	newline  bool   // был перевод строки с момента последнего токена
	braces   []bool // стек '{': true, если это подстановка шаблона "${"
	comments []token.Comment
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Tokenize lexes the whole file and returns the significant tokens (without
// the trailing EOF) and the comments in source order.
func Tokenize(file *source.File, opts Options) ([]token.Token, []token.Comment) {
	lx := New(file, opts)
	toks := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		toks = append(toks, tok)
	}
	return toks, lx.Comments()
}

// Comments returns the comments seen so far.
func (lx *Lexer) Comments() []token.Comment {
	return lx.comments
}

// Next возвращает следующий значимый токен. Комментарии уходят в lx.comments.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind:          token.EOF,
			Span:          lx.emptySpan(),
			NewlineBefore: lx.newline,
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '#':
		tok = lx.scanPrivateName()

	case isIdentStartByte(ch) || ch == '\\':
		tok = lx.scanIdentOrKeyword()

	case ch >= utf8RuneSelf:
		// возможный Unicode идентификатор
		tok = lx.scanIdentOrKeyword()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()

	case ch == '"' || ch == '\'':
		tok = lx.scanString(ch)

	case ch == '`':
		tok = lx.scanTemplate()

	case ch == '}' && len(lx.braces) > 0 && lx.braces[len(lx.braces)-1]:
		// конец подстановки "${ ... }": продолжаем шаблон
		lx.braces = lx.braces[:len(lx.braces)-1]
		tok = lx.scanTemplate()

	case ch == '/' && lx.regexAllowed():
		tok = lx.scanRegExp()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	lx.trackBraces(tok)
	tok.NewlineBefore = lx.newline
	lx.newline = false
	lx.prev = tok
	lx.hasPrev = true
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) trackBraces(tok token.Token) {
	switch tok.Kind {
	case token.LBrace:
		lx.braces = append(lx.braces, false)
	case token.RBrace:
		if len(lx.braces) > 0 {
			lx.braces = lx.braces[:len(lx.braces)-1]
		}
	case token.TemplateHead, token.TemplateMiddle:
		lx.braces = append(lx.braces, true)
	}
}

// regexAllowed decides whether '/' starts a regular expression or is a
// division operator, looking only at the previous significant token.
func (lx *Lexer) regexAllowed() bool {
	if !lx.hasPrev {
		return true
	}
	switch lx.prev.Kind {
	case token.RParen, token.RBracket, token.RBrace,
		token.Number, token.BigInt, token.String, token.RegExp,
		token.Template, token.TemplateTail, token.PrivateName,
		token.KwThis, token.KwSuper, token.KwTrue, token.KwFalse, token.KwNull,
		token.PlusPlus, token.MinusMinus:
		return false
	case token.Ident:
		// операторные контекстные слова: после них идёт выражение
		switch lx.prev.Text {
		case "yield", "await", "of":
			return true
		}
		return false
	}
	return true
}

func (lx *Lexer) emptySpan() source.Span {
	return lx.cursor.Point()
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
}
