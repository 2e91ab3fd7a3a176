package token

import "esfix/internal/source"

// CommentKind distinguishes the comment syntaxes.
type CommentKind uint8

const (
	CommentLine     CommentKind = iota // // ...
	CommentBlock                       // /* ... */
	CommentHashbang                    // #! ... (only at offset 0)
)

func (k CommentKind) String() string {
	switch k {
	case CommentLine:
		return "LineComment"
	case CommentBlock:
		return "BlockComment"
	case CommentHashbang:
		return "Hashbang"
	}
	return "Comment"
}

// Comment is a comment collected outside the token stream.
type Comment struct {
	Kind CommentKind
	Span source.Span
	// Text is the full comment including its delimiters.
	Text string
}

// Range makes Comment satisfy source.Ranged.
func (c Comment) Range() source.Span { return c.Span }

// Value returns the comment body without delimiters.
func (c Comment) Value() string {
	switch c.Kind {
	case CommentBlock:
		if len(c.Text) >= 4 {
			return c.Text[2 : len(c.Text)-2]
		}
		return ""
	default:
		if len(c.Text) >= 2 {
			return c.Text[2:]
		}
		return ""
	}
}
