package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"esfix/internal/source"
)

// Cursor walks the bytes of one file. Offsets are byte offsets into
// File.Content; runes are decoded only outside ASCII.
type Cursor struct {
	file *source.File
	src  []byte
	off  uint32
}

// NewCursor creates a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{file: f, src: f.Content}
}

// Offset returns the current byte offset.
func (c *Cursor) Offset() uint32 { return c.off }

// AtStart сообщает, что курсор ещё не сдвигался (нужно для #!).
func (c *Cursor) AtStart() bool { return c.off == 0 }

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return int(c.off) >= len(c.src)
}

// Peek возвращает текущий байт или 0 в конце файла.
func (c *Cursor) Peek() byte {
	return c.PeekAt(0)
}

// PeekAt смотрит на n байт вперёд; за концом файла 0.
func (c *Cursor) PeekAt(n int) byte {
	i := int(c.off) + n
	if i >= len(c.src) {
		return 0
	}
	return c.src[i]
}

// HasPrefix reports whether the unread input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	end := int(c.off) + len(s)
	return end <= len(c.src) && string(c.src[c.off:end]) == s
}

// PeekRune decodes the rune at the cursor. size is 0 at EOF.
func (c *Cursor) PeekRune() (r rune, size int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	if b := c.src[c.off]; b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.src[c.off:])
}

// Bump сдвигает курсор на байт и возвращает его; в конце файла 0.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.src[c.off]
	c.off++
	return b
}

// BumpRune skips the rune at the cursor.
func (c *Cursor) BumpRune() {
	_, size := c.PeekRune()
	c.advance(size)
}

func (c *Cursor) advance(n int) {
	end := min(int(c.off)+n, len(c.src))
	c.off = uint32(end) //nolint:gosec // длина файла проверена в NewCursor
}

// Eat consumes the next byte if it matches b.
func (c *Cursor) Eat(b byte) bool {
	if c.Peek() == b && !c.EOF() {
		c.off++
		return true
	}
	return false
}

// EatString consumes s if the unread input starts with it.
func (c *Cursor) EatString(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	c.advance(len(s))
	return true
}

// Mark is a saved cursor position.
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.off)
}

// SpanFrom returns the span read since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file.ID, Start: uint32(m), End: c.off}
}

// Point returns the empty span at the cursor.
func (c *Cursor) Point() source.Span {
	return source.Span{File: c.file.ID, Start: c.off, End: c.off}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.off = uint32(m)
}
