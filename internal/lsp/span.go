package lsp

import (
	"unicode/utf8"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"esfix/internal/source"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// utf16Len: сколько UTF-16 единиц занимает руна.
func utf16Len(r rune) uint32 {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// offsetForPosition переводит LSP-позицию (строка, UTF-16 единицы) в байтовое
// смещение file. Позиции за концом строки прижимаются к её концу.
func offsetForPosition(file *source.File, pos protocol.Position) uint32 {
	if file == nil {
		return 0
	}
	line := pos.Line + 1
	if line > file.LineCount() {
		return file.Len()
	}
	off, end := file.LineStart(line), file.LineEnd(line)
	for units := uint32(0); off < end; {
		r, size := utf8.DecodeRune(file.Content[off:end])
		units += utf16Len(r)
		if units > pos.Character {
			break
		}
		off += safeUint32(size)
	}
	return off
}

// positionForOffset: обратное к offsetForPosition.
func positionForOffset(file *source.File, offset uint32) protocol.Position {
	if file == nil {
		return protocol.Position{}
	}
	offset = min(offset, file.Len())
	line := file.Line(offset)
	var units uint32
	for off := file.LineStart(line); off < offset; {
		r, size := utf8.DecodeRune(file.Content[off:offset])
		units += utf16Len(r)
		off += safeUint32(size)
	}
	return protocol.Position{Line: line - 1, Character: units}
}

func rangeForSpan(file *source.File, span source.Span) protocol.Range {
	if file == nil {
		return protocol.Range{}
	}
	return protocol.Range{
		Start: positionForOffset(file, span.Start),
		End:   positionForOffset(file, span.End),
	}
}

// spanForRange переводит LSP-диапазон в span файла.
func spanForRange(file *source.File, r protocol.Range) source.Span {
	start := offsetForPosition(file, r.Start)
	end := max(offsetForPosition(file, r.End), start)
	return source.Span{File: file.ID, Start: start, End: end}
}
