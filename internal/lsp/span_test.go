package lsp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"esfix/internal/source"
)

func TestUTF16SpanMapping(t *testing.T) {
	src := strings.Join([]string{
		"const a = 1;",
		"const s = 'é🙂' + b;",
		"",
	}, "\n")
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.js", []byte(src)))

	off := uint32(strings.Index(src, "b;"))
	pos := positionForOffset(file, off)
	// e + U+0301 по одной единице, эмодзи: суррогатная пара
	assert.Equal(t, protocol.Position{Line: 1, Character: 19}, pos)
	assert.Equal(t, off, offsetForPosition(file, pos))

	// середина суррогатной пары прижимается к началу символа
	emoji := uint32(strings.Index(src, "🙂"))
	assert.Equal(t, emoji, offsetForPosition(file, protocol.Position{Line: 1, Character: 14}))

	// за концом строки: конец строки
	assert.Equal(t, uint32(len("const a = 1;")), offsetForPosition(file, protocol.Position{Line: 0, Character: 99}))
	assert.Equal(t, uint32(len(src)), offsetForPosition(file, protocol.Position{Line: 9, Character: 0}))

	span := source.Span{File: file.ID, Start: off, End: off + 1}
	r := rangeForSpan(file, span)
	assert.Equal(t, span, spanForRange(file, r))
}

func TestApplyChanges(t *testing.T) {
	text := "let a = '🙂';\nfoo();\n"
	got := applyChanges(text, []any{
		protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{Start: protocol.Position{Line: 0, Character: 9}, End: protocol.Position{Line: 0, Character: 11}},
			Text:  "x",
		},
		protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{Start: protocol.Position{Line: 1, Character: 0}, End: protocol.Position{Line: 1, Character: 3}},
			Text:  "bar",
		},
	})
	assert.Equal(t, "let a = 'x';\nbar();\n", got)

	got = applyChanges(got, []any{protocol.TextDocumentContentChangeEventWhole{Text: "whole"}})
	assert.Equal(t, "whole", got)
	got = applyChanges(got, []any{map[string]any{"text": "raw"}})
	assert.Equal(t, "raw", got)
}

func TestEndPosition(t *testing.T) {
	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, endPosition(""))
	assert.Equal(t, protocol.Position{Line: 1, Character: 3}, endPosition("a\r\n🙂b"))
}

func TestURIRoundTrip(t *testing.T) {
	path := uriToPath("file:///tmp/my%20dir/a.js")
	assert.Equal(t, "/tmp/my dir/a.js", path)
	assert.Equal(t, "/tmp/b.js", uriToPath("/tmp/b.js"))
	assert.Empty(t, uriToPath(""))
	assert.Empty(t, uriToPath("untitled:Untitled-1"))
	assert.Equal(t, "untitled:Untitled-1", documentPath("untitled:Untitled-1"))
}
