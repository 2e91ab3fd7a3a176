package diagfmt

import (
	"fmt"
	"slices"
	"strings"

	"esfix/internal/diag"
	"esfix/internal/source"
)

// fixPreview is the block of whole lines a fix touches, before and after
// all of its edits.
type fixPreview struct {
	before []string
	after  []string
}

// previewFix applies every edit of fix to the lines they cover. Edits of a
// fix never overlap, so they are spliced right to left.
func previewFix(fs *source.FileSet, fix *diag.Fix) (fixPreview, error) {
	if len(fix.Edits) == 0 {
		return fixPreview{}, fmt.Errorf("fix %q has no edits", fix.Title)
	}
	id := fix.Edits[0].Span.File
	if !fs.Has(id) {
		return fixPreview{}, fmt.Errorf("file %d is not loaded", id)
	}
	file := fs.Get(id)

	edits := slices.Clone(fix.Edits)
	slices.SortFunc(edits, func(a, b diag.TextEdit) int { return int(b.Span.Start) - int(a.Span.Start) })

	first, last := file.Line(edits[len(edits)-1].Span.Start), uint32(0)
	for _, e := range edits {
		if e.Span.File != id || e.Span.Start > e.Span.End || e.Span.End > file.Len() {
			return fixPreview{}, fmt.Errorf("edit %v does not fit %s", e.Span, file.Path)
		}
		last = max(last, file.Line(e.Span.End))
	}
	lo, hi := file.LineStart(first), file.LineEnd(last)

	block := string(file.Content[lo:hi])
	after := block
	for _, e := range edits {
		after = after[:e.Span.Start-lo] + e.NewText + after[e.Span.End-lo:]
	}
	return fixPreview{before: strings.Split(block, "\n"), after: strings.Split(after, "\n")}, nil
}
