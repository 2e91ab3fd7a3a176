package fix

import (
	"bytes"
	"fmt"

	"esfix/internal/diag"
)

// ApplyEdits returns content with edits applied. Edits must not overlap
// and every guard (OldText) must still match; otherwise content is left
// alone and an ErrInvariant is returned.
func ApplyEdits(content []byte, edits []diag.TextEdit) ([]byte, error) {
	sorted := append([]diag.TextEdit(nil), edits...)
	sortEdits(sorted)

	var out bytes.Buffer
	out.Grow(len(content))
	pos := 0
	for i, edit := range sorted {
		start, end := int(edit.Span.Start), int(edit.Span.End)
		if start < pos || end < start || end > len(content) {
			if start < pos {
				return nil, fmt.Errorf("%w: %s and %s", ErrOverlap, sorted[i-1].Span, edit.Span)
			}
			return nil, fmt.Errorf("%w: edit span %s out of range", ErrInvariant, edit.Span)
		}
		if edit.OldText != "" && string(content[start:end]) != edit.OldText {
			return nil, fmt.Errorf("%w: existing text does not match expected content at %s", ErrInvariant, edit.Span)
		}
		out.Write(content[pos:start])
		out.WriteString(edit.NewText)
		pos = end
	}
	out.Write(content[pos:])
	return out.Bytes(), nil
}

// Conflicts reports whether any edit of a overlaps any edit of b.
func Conflicts(a, b []diag.TextEdit) bool {
	for _, prev := range a {
		for _, cand := range b {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}
