package token

import (
	"esfix/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	// NewlineBefore is set when a line terminator separates this token from
	// the previous one (comments included).
	NewlineBefore bool
}

// Range makes Token satisfy source.Ranged.
func (t Token) Range() source.Span { return t.Span }

// Is reports whether the token has the given kind.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// IsValue reports whether the token is an identifier or keyword spelled v.
func (t Token) IsValue(v string) bool {
	return (t.Kind == Ident || t.IsKeyword()) && t.Text == v
}

// IsLiteral reports whether the token is a string, number, bigint, regexp,
// template or one of the true/false/null literals.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, BigInt, String, RegExp, Template, TemplateHead, TemplateMiddle, TemplateTail,
		KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsTemplate reports whether the token is any part of a template literal.
func (t Token) IsTemplate() bool {
	switch t.Kind {
	case Template, TemplateHead, TemplateMiddle, TemplateTail:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuator or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= LBrace && t.Kind <= At
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwBreak && t.Kind <= KwNull
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsOpeningParen reports whether the token is "(".
func IsOpeningParen(t Token) bool { return t.Kind == LParen }

// IsClosingParen reports whether the token is ")".
func IsClosingParen(t Token) bool { return t.Kind == RParen }

// IsComma reports whether the token is ",".
func IsComma(t Token) bool { return t.Kind == Comma }

// IsAssignOp reports whether k is "=" or a compound assignment operator.
func IsAssignOp(k Kind) bool {
	return k >= Assign && k <= QuestionQuestionAssign
}
