package parser

import "esfix/internal/token"

// Приоритеты бинарных операторов (чем больше, тем сильнее связывает).
const (
	precNone = iota
	precNullish
	precLogicalOr
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precExponent
)

// getBinaryOperatorPrec returns the precedence of tok as a binary operator.
// With noIn the `in` operator is not recognised (for-statement heads).
func getBinaryOperatorPrec(kind token.Kind, noIn bool) (int, bool) {
	switch kind {
	case token.QuestionQuestion:
		return precNullish, true
	case token.OrOr:
		return precLogicalOr, true
	case token.AndAnd:
		return precLogicalAnd, true
	case token.Pipe:
		return precBitOr, true
	case token.Caret:
		return precBitXor, true
	case token.Amp:
		return precBitAnd, true
	case token.EqEq, token.BangEq, token.EqEqEq, token.BangEqEq:
		return precEquality, true
	case token.Lt, token.Gt, token.LtEq, token.GtEq, token.KwInstanceof:
		return precRelational, true
	case token.KwIn:
		if noIn {
			return precNone, false
		}
		return precRelational, true
	case token.Shl, token.Shr, token.UShr:
		return precShift, true
	case token.Plus, token.Minus:
		return precAdditive, true
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, true
	case token.StarStar:
		return precExponent, true
	}
	return precNone, false
}

func isLogicalOperator(kind token.Kind) bool {
	return kind == token.AndAnd || kind == token.OrOr || kind == token.QuestionQuestion
}

func isUnaryOperator(kind token.Kind) bool {
	switch kind {
	case token.Bang, token.Tilde, token.Plus, token.Minus, token.KwTypeof, token.KwVoid, token.KwDelete:
		return true
	}
	return false
}
