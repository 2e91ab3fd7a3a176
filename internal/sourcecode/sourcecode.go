// Package sourcecode is the read-only snapshot a lint pass and its fixes
// work on: the file, its syntax tree and its token and comment streams,
// plus position queries over them.
package sourcecode

import (
	"slices"

	"esfix/internal/ast"
	"esfix/internal/parser"
	"esfix/internal/source"
	"esfix/internal/token"
)

// SourceCode is immutable once built; all queries are safe to share.
type SourceCode struct {
	File     *source.File
	AST      *ast.Node
	Tokens   []token.Token
	Comments []token.Comment
}

// Filter selects tokens in the token queries. A nil filter accepts all.
type Filter func(token.Token) bool

// New wraps a parse result.
func New(file *source.File, res *parser.Result) *SourceCode {
	return &SourceCode{File: file, AST: res.Program, Tokens: res.Tokens, Comments: res.Comments}
}

// Parse parses file and wraps the result.
func Parse(file *source.File) (*SourceCode, error) {
	res, err := parser.ParseFile(file, parser.Options{})
	if err != nil {
		return nil, err
	}
	return New(file, res), nil
}

// Text returns the source text covered by r.
func (sc *SourceCode) Text(r source.Ranged) string {
	return sc.File.Text(r.Range())
}

// indexAtOrAfter: индекс первого токена, начинающегося не раньше off.
func (sc *SourceCode) indexAtOrAfter(off uint32) int {
	i, _ := slices.BinarySearchFunc(sc.Tokens, off, func(t token.Token, off uint32) int {
		if t.Span.Start < off {
			return -1
		}
		if t.Span.Start > off {
			return 1
		}
		return 0
	})
	return i
}

// indexEndingBefore: индекс последнего токена, заканчивающегося не позже off, или -1.
func (sc *SourceCode) indexEndingBefore(off uint32) int {
	i := sc.indexAtOrAfter(off)
	for i--; i >= 0; i-- {
		if sc.Tokens[i].Span.End <= off {
			return i
		}
	}
	return -1
}

func accept(t token.Token, filter Filter) bool {
	return filter == nil || filter(t)
}

// FirstToken returns the first token inside r accepted by filter.
func (sc *SourceCode) FirstToken(r source.Ranged, filter Filter) *token.Token {
	sp := r.Range()
	for i := sc.indexAtOrAfter(sp.Start); i < len(sc.Tokens) && sc.Tokens[i].Span.End <= sp.End; i++ {
		if accept(sc.Tokens[i], filter) {
			return &sc.Tokens[i]
		}
	}
	return nil
}

// LastToken returns the last token inside r accepted by filter.
func (sc *SourceCode) LastToken(r source.Ranged, filter Filter) *token.Token {
	sp := r.Range()
	for i := sc.indexEndingBefore(sp.End); i >= 0 && sc.Tokens[i].Span.Start >= sp.Start; i-- {
		if accept(sc.Tokens[i], filter) {
			return &sc.Tokens[i]
		}
	}
	return nil
}

// TokenBefore returns the nearest token ending at or before the start of r.
func (sc *SourceCode) TokenBefore(r source.Ranged, filter Filter) *token.Token {
	for i := sc.indexEndingBefore(r.Range().Start); i >= 0; i-- {
		if accept(sc.Tokens[i], filter) {
			return &sc.Tokens[i]
		}
	}
	return nil
}

// TokenAfter returns the nearest token starting at or after the end of r.
func (sc *SourceCode) TokenAfter(r source.Ranged, filter Filter) *token.Token {
	for i := sc.indexAtOrAfter(r.Range().End); i < len(sc.Tokens); i++ {
		if accept(sc.Tokens[i], filter) {
			return &sc.Tokens[i]
		}
	}
	return nil
}

// TokensBefore returns up to count accepted tokens before r, in source order.
func (sc *SourceCode) TokensBefore(r source.Ranged, count int, filter Filter) []token.Token {
	var out []token.Token
	for i := sc.indexEndingBefore(r.Range().Start); i >= 0 && len(out) < count; i-- {
		if accept(sc.Tokens[i], filter) {
			out = append(out, sc.Tokens[i])
		}
	}
	slices.Reverse(out)
	return out
}

// TokensAfter returns up to count accepted tokens after r, in source order.
func (sc *SourceCode) TokensAfter(r source.Ranged, count int, filter Filter) []token.Token {
	var out []token.Token
	for i := sc.indexAtOrAfter(r.Range().End); i < len(sc.Tokens) && len(out) < count; i++ {
		if accept(sc.Tokens[i], filter) {
			out = append(out, sc.Tokens[i])
		}
	}
	return out
}

// TokensIn returns every token inside r.
func (sc *SourceCode) TokensIn(r source.Ranged) []token.Token {
	sp := r.Range()
	lo := sc.indexAtOrAfter(sp.Start)
	hi := lo
	for hi < len(sc.Tokens) && sc.Tokens[hi].Span.End <= sp.End {
		hi++
	}
	return sc.Tokens[lo:hi]
}

// NodeAt returns the deepest node whose span contains off
// (start <= off < end). The Program node is returned for offsets outside
// every statement.
func (sc *SourceCode) NodeAt(off uint32) *ast.Node {
	n := sc.AST
	for {
		var next *ast.Node
		for _, c := range n.Children() {
			if c.Span.Start <= off && off < c.Span.End {
				next = c
				break
			}
		}
		if next == nil {
			return n
		}
		n = next
	}
}

// CommentsInside returns the comments lying entirely within r.
func (sc *SourceCode) CommentsInside(r source.Ranged) []token.Comment {
	sp := r.Range()
	var out []token.Comment
	for _, c := range sc.Comments {
		if c.Span.Start >= sp.Start && c.Span.End <= sp.End {
			out = append(out, c)
		}
	}
	return out
}

// HasCommentsInside reports whether any comment lies within r.
func (sc *SourceCode) HasCommentsInside(r source.Ranged) bool {
	return len(sc.CommentsInside(r)) > 0
}

// IsOnSameLine reports whether a ends on the line where b starts.
func (sc *SourceCode) IsOnSameLine(a, b source.Ranged) bool {
	return sc.File.Line(a.Range().End) == sc.File.Line(b.Range().Start)
}

// Line returns the 1-based line of off.
func (sc *SourceCode) Line(off uint32) uint32 {
	return sc.File.Line(off)
}
