package lexer

import (
	"esfix/internal/diag"
	"esfix/internal/token"
)

// Жадность: сначала 4-символьные, затем 3-, 2- и 1-символьные.
var multiCharOps = []struct {
	op   string
	kind token.Kind
}{
	{">>>=", token.UShrAssign},

	{"===", token.EqEqEq},
	{"!==", token.BangEqEq},
	{"**=", token.StarStarAssign},
	{"<<=", token.ShlAssign},
	{">>=", token.ShrAssign},
	{">>>", token.UShr},
	{"...", token.DotDotDot},
	{"&&=", token.AndAndAssign},
	{"||=", token.OrOrAssign},
	{"??=", token.QuestionQuestionAssign},

	{"=>", token.FatArrow},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"??", token.QuestionQuestion},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"&=", token.AmpAssign},
	{"|=", token.PipeAssign},
	{"^=", token.CaretAssign},
	{"**", token.StarStar},
	{"<<", token.Shl},
	{">>", token.Shr},
}

var singleCharOps = [128]token.Kind{
	'{': token.LBrace,
	'}': token.RBrace,
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBracket,
	']': token.RBracket,
	'.': token.Dot,
	';': token.Semicolon,
	',': token.Comma,
	'<': token.Lt,
	'>': token.Gt,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'&': token.Amp,
	'|': token.Pipe,
	'^': token.Caret,
	'!': token.Bang,
	'~': token.Tilde,
	'?': token.Question,
	':': token.Colon,
	'=': token.Assign,
	'@': token.At,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	// "?." но не "?.5" (это тернарный оператор и число)
	if lx.cursor.HasPrefix("?.") && !isDec(lx.cursor.PeekAt(2)) {
		lx.cursor.EatString("?.")
		return lx.emit(token.QuestionDot, start)
	}

	for _, m := range multiCharOps {
		if lx.try(m.op) {
			return lx.emit(m.kind, start)
		}
	}

	ch := lx.cursor.Peek()
	if ch < utf8RuneSelf {
		if k := singleCharOps[ch]; k != token.Invalid {
			lx.cursor.Bump()
			return lx.emit(k, start)
		}
	}

	// неизвестный символ
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unknown character")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
