package diagfmt

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"esfix/internal/diag"
	"esfix/internal/source"
)

// shortLine is one rendered entry; notes become entries of their own.
type shortLine struct {
	sev  string
	code string
	path string
	line uint32
	col  uint32
	msg  string
}

// Short печатает по строке на диагностику: "<sev> <code> <path>:<line>:<col> <msg>".
// Lines are sorted by location so output is stable across parallel runs.
// Paths are relative to the file set's base directory.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	if fs == nil || bag.Len() == 0 {
		return nil
	}
	lines := make([]shortLine, 0, bag.Len())
	for _, d := range bag.Items() {
		code := d.Code.ID()
		if l, ok := shortLocation(fs, d.Primary); ok {
			l.sev, l.code, l.msg = shortSeverity(d.Severity), code, oneLine(d.Message)
			lines = append(lines, l)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := shortLocation(fs, n.Span); ok {
				l.sev, l.code, l.msg = "note", code, oneLine(n.Msg)
				lines = append(lines, l)
			}
		}
	}
	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.sev, b.sev),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})

	bw := bufio.NewWriter(w)
	for _, l := range lines {
		fmt.Fprintf(bw, "%s %s %s:%d:%d %s\n", l.sev, l.code, l.path, l.line, l.col, l.msg)
	}
	return bw.Flush()
}

// shortLocation: run-level диагностики (без файла) печатаются с путём "-".
func shortLocation(fs *source.FileSet, sp source.Span) (shortLine, bool) {
	if sp.IsNowhere() {
		return shortLine{path: "-"}, true
	}
	if !fs.Has(sp.File) {
		return shortLine{}, false
	}
	start, _ := fs.Resolve(sp)
	path := filepath.ToSlash(fs.Get(sp.File).DisplayPath(source.PathRelative, fs.BaseDir()))
	return shortLine{path: strings.TrimPrefix(path, "./"), line: start.Line, col: start.Col}, true
}

func shortSeverity(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func oneLine(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
