package diagfmt

import (
	"cmp"
	"encoding/json"
	"io"
	"slices"

	"esfix/internal/diag"
	"esfix/internal/source"
)

// JSONReport is the document written by `--format json`.
type JSONReport struct {
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Count       int              `json:"count"`
	// Truncated counts diagnostics left out by JSONOpts.Max.
	Truncated int `json:"truncated,omitempty"`
}

// JSONDiagnostic is one finding.
type JSONDiagnostic struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Location *JSONLocation `json:"location,omitempty"`
	Notes    []JSONNote    `json:"notes,omitempty"`
	Fixes    []JSONFix     `json:"fixes,omitempty"`
}

// JSONLocation is a byte range, plus 1-based line/column when requested.
// Run-level diagnostics have no location.
type JSONLocation struct {
	Path  string  `json:"path"`
	Start JSONPos `json:"start"`
	End   JSONPos `json:"end"`
}

// JSONPos is one end of a location.
type JSONPos struct {
	Offset uint32 `json:"offset"`
	Line   uint32 `json:"line,omitempty"`
	Column uint32 `json:"column,omitempty"`
}

type JSONNote struct {
	Message  string        `json:"message"`
	Location *JSONLocation `json:"location,omitempty"`
}

// JSONFix is a resolved fix. A fix whose edits could not be built carries
// Error and no edits.
type JSONFix struct {
	ID            string     `json:"id,omitempty"`
	Title         string     `json:"title"`
	Kind          string     `json:"kind"`
	Applicability string     `json:"applicability"`
	Preferred     bool       `json:"preferred,omitempty"`
	Error         string     `json:"error,omitempty"`
	Edits         []JSONEdit `json:"edits,omitempty"`
	// Before and After hold the lines the fix touches, with JSONOpts.IncludePreviews.
	Before []string `json:"before,omitempty"`
	After  []string `json:"after,omitempty"`
}

type JSONEdit struct {
	Location *JSONLocation `json:"location"`
	NewText  string        `json:"new_text"`
	OldText  string        `json:"old_text,omitempty"`
}

// JSON writes the bag as an indented JSONReport.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildJSONReport(bag, fs, opts))
}

// BuildJSONReport converts the bag without encoding it.
func BuildJSONReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) JSONReport {
	items := bag.Items()
	shown := items
	if opts.Max > 0 && len(items) > opts.Max {
		shown = items[:opts.Max]
	}
	enc := jsonEncoder{fs: fs, opts: opts}
	report := JSONReport{
		Diagnostics: make([]JSONDiagnostic, 0, len(shown)),
		Truncated:   len(items) - len(shown),
	}
	for _, d := range shown {
		report.Diagnostics = append(report.Diagnostics, enc.diagnostic(d))
	}
	report.Count = len(report.Diagnostics)
	return report
}

type jsonEncoder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (e jsonEncoder) diagnostic(d *diag.Diagnostic) JSONDiagnostic {
	out := JSONDiagnostic{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: e.location(d.Primary),
	}
	// отчёт о таймингах целиком живёт в заметке
	if e.opts.IncludeNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, JSONNote{Message: n.Msg, Location: e.location(n.Span)})
		}
	}
	if e.opts.IncludeFixes {
		for _, f := range orderFixes(d.Fixes) {
			out.Fixes = append(out.Fixes, e.fix(f))
		}
	}
	return out
}

func (e jsonEncoder) fix(f *diag.Fix) JSONFix {
	out := JSONFix{
		Title:         f.Title,
		Kind:          f.Kind.String(),
		Applicability: f.Applicability.String(),
	}
	resolved, err := f.Resolve(diag.FixBuildContext{FileSet: e.fs})
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.ID, out.Preferred = resolved.ID, resolved.IsPreferred
	for _, ed := range resolved.Edits {
		out.Edits = append(out.Edits, JSONEdit{Location: e.location(ed.Span), NewText: ed.NewText, OldText: ed.OldText})
	}
	if e.opts.IncludePreviews {
		if p, err := previewFix(e.fs, resolved); err == nil {
			out.Before, out.After = p.before, p.after
		}
	}
	return out
}

func (e jsonEncoder) location(sp source.Span) *JSONLocation {
	if sp.IsNowhere() || !e.fs.Has(sp.File) {
		return nil
	}
	f := e.fs.Get(sp.File)
	loc := &JSONLocation{
		Path:  formatPath(e.fs, f, e.opts.PathMode),
		Start: JSONPos{Offset: sp.Start},
		End:   JSONPos{Offset: sp.End},
	}
	if e.opts.IncludePositions {
		start, end := f.Position(sp.Start), f.Position(sp.End)
		loc.Start.Line, loc.Start.Column = start.Line, start.Col
		loc.End.Line, loc.End.Column = end.Line, end.Col
	}
	return loc
}

// orderFixes puts the preferred and the safest fixes first; ties keep the
// order the rule reported them in.
func orderFixes(fixes []*diag.Fix) []*diag.Fix {
	out := slices.Clone(fixes)
	slices.SortStableFunc(out, func(a, b *diag.Fix) int {
		if a.IsPreferred != b.IsPreferred {
			if a.IsPreferred {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Applicability, b.Applicability)
	})
	return out
}
