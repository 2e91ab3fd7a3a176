package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"esfix/internal/source"
	"esfix/internal/token"
)

// TokenOutput is one entry of the JSON token dump.
type TokenOutput struct {
	Kind          string      `json:"kind"`
	Text          string      `json:"text,omitempty"`
	Span          source.Span `json:"span"`
	NewlineBefore bool        `json:"newline_before,omitempty"`
}

// TokensOutput is the JSON token dump of one file.
type TokensOutput struct {
	Tokens   []TokenOutput `json:"tokens"`
	Comments []TokenOutput `json:"comments,omitempty"`
}

// FormatTokensPretty выводит токены и комментарии в порядке исходника
func FormatTokensPretty(w io.Writer, tokens []token.Token, comments []token.Comment, fs *source.FileSet) error {
	ci := 0
	for i, tok := range tokens {
		for ci < len(comments) && comments[ci].Span.Start < tok.Span.Start {
			writeTokenLine(w, "  -", comments[ci].Kind.String(), comments[ci].Text, comments[ci].Span, fs, false)
			ci++
		}
		writeTokenLine(w, fmt.Sprintf("%3d", i+1), tok.Kind.String(), tok.Text, tok.Span, fs, tok.NewlineBefore)
	}
	for ; ci < len(comments); ci++ {
		writeTokenLine(w, "  -", comments[ci].Kind.String(), comments[ci].Text, comments[ci].Span, fs, false)
	}
	return nil
}

func writeTokenLine(w io.Writer, index, kind, text string, span source.Span, fs *source.FileSet, newline bool) {
	// Получаем позицию токена
	startPos, endPos := fs.Resolve(span)
	fmt.Fprintf(w, "%s: %-15s", index, kind)
	if text != "" {
		fmt.Fprintf(w, " %q", text)
	}
	fmt.Fprintf(w, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
	if newline {
		fmt.Fprint(w, " (newline before)")
	}
	fmt.Fprintln(w)
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, comments []token.Comment) error {
	output := TokensOutput{Tokens: make([]TokenOutput, 0, len(tokens))}
	for _, tok := range tokens {
		output.Tokens = append(output.Tokens, TokenOutput{
			Kind:          tok.Kind.String(),
			Text:          tok.Text,
			Span:          tok.Span,
			NewlineBefore: tok.NewlineBefore,
		})
	}
	for _, c := range comments {
		output.Comments = append(output.Comments, TokenOutput{Kind: c.Kind.String(), Text: c.Text, Span: c.Span})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
