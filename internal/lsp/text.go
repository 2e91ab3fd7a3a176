package lsp

import (
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// applyChanges накатывает изменения didChange на текст документа.
// Событие без диапазона заменяет текст целиком.
func applyChanges(text string, changes []any) string {
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = c.Text
				continue
			}
			text = replaceRange(text, *c.Range, c.Text)
		case map[string]any:
			// клиент прислал сырой JSON: обрабатываем только полную замену
			if t, ok := c["text"].(string); ok {
				if _, ranged := c["range"]; !ranged {
					text = t
				}
			}
		}
	}
	return text
}

func replaceRange(text string, r protocol.Range, with string) string {
	start := offsetInText(text, r.Start)
	end := max(offsetInText(text, r.End), start)
	return text[:start] + with + text[end:]
}

// offsetInText: то же, что offsetForPosition, но по ещё не загруженному тексту.
func offsetInText(text string, pos protocol.Position) int {
	line := uint32(0)
	i := 0
	for i < len(text) && line < pos.Line {
		if text[i] == '\n' {
			line++
		}
		i++
	}
	if line < pos.Line {
		return len(text)
	}
	var units uint32
	for i < len(text) && text[i] != '\n' && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := utf16Len(r)
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
	}
	return i
}
