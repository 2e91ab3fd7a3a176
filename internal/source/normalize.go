package source

import (
	"bytes"
	"slices"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normalize drops a leading UTF-8 BOM and turns CRLF pairs into LF. Lone CR
// bytes are kept. The returned flags say what was changed so that Denormalize
// can restore it.
func Normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		content = rest
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

// Denormalize is the inverse of Normalize for content about to be written
// back over the original file.
func Denormalize(content []byte, flags FileFlags) []byte {
	if flags&FileNormalizedCRLF != 0 {
		content = bytes.ReplaceAll(content, []byte("\n"), []byte("\r\n"))
	}
	if flags&FileHadBOM != 0 {
		content = append(slices.Clone(utf8BOM), content...)
	}
	return content
}
