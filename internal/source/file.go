package source

import "sort"

type (
	// FileID identifies one version of a file inside a FileSet.
	FileID uint32
	// FileFlags records how the bytes on disk differ from Content.
	FileFlags uint8
)

const (
	// FileVirtual marks buffers that did not come from disk (stdin, tests, editor).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is one immutable version of a source text.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags

	starts []uint32 // смещение начала каждой строки, starts[0] == 0
}

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

func lineStarts(content []byte) []uint32 {
	starts := make([]uint32, 1, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, uint32(i+1)) // #nosec G115 -- size is checked in Add
		}
	}
	return starts
}

// Len returns the content length in bytes.
func (f *File) Len() uint32 {
	return uint32(len(f.Content)) // #nosec G115 -- size is checked in Add
}

// LineCount returns the number of lines. A trailing newline opens one more
// (empty) line.
func (f *File) LineCount() uint32 {
	return uint32(len(f.starts)) // #nosec G115
}

// LineStart returns the offset of the first byte of line n (1-based).
// Lines past the end start at Len.
func (f *File) LineStart(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	if n > f.LineCount() {
		return f.Len()
	}
	return f.starts[n-1]
}

// LineEnd returns the offset of the newline ending line n, or Len for the
// last line.
func (f *File) LineEnd(n uint32) uint32 {
	if n >= f.LineCount() {
		return f.Len()
	}
	return f.starts[n] - 1
}

// Position converts a byte offset into a line and column. A newline belongs
// to the line it ends.
func (f *File) Position(off uint32) LineCol {
	if len(f.starts) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	i := max(sort.Search(len(f.starts), func(i int) bool { return f.starts[i] > off })-1, 0)
	return LineCol{Line: uint32(i + 1), Col: off - f.starts[i] + 1} // #nosec G115
}

// Line returns the 1-based line containing off.
func (f *File) Line(off uint32) uint32 {
	return f.Position(off).Line
}

// GetLine returns line n without its newline; missing lines yield "".
func (f *File) GetLine(n uint32) string {
	if n == 0 || n > f.LineCount() {
		return ""
	}
	return string(f.Content[f.LineStart(n):f.LineEnd(n)])
}

// Text returns the bytes under span, clamped to the file.
func (f *File) Text(span Span) string {
	start, end := min(span.Start, f.Len()), min(span.End, f.Len())
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}
