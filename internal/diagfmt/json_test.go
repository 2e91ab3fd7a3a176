package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esfix/internal/diag"
	"esfix/internal/source"
)

func decodeJSON(t *testing.T, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) JSONReport {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, bag, fs, opts))
	var report JSONReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report), buf.String())
	return report
}

func TestJSONLocation(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte("function main() {\n\tlet x = \"unterminated\n}"))

	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.LexUnterminatedString, source.Span{File: fileID, Start: 27, End: 40}, "Unterminated string literal")
	bag.Add(&d)

	report := decodeJSON(t, bag, fs, JSONOpts{IncludePositions: true, PathMode: source.PathBase})
	require.Equal(t, 1, report.Count)
	got := report.Diagnostics[0]
	assert.Equal(t, "ERROR", got.Severity)
	assert.Equal(t, "LEX1002", got.Code)
	require.NotNil(t, got.Location)
	assert.Equal(t, "test.js", got.Location.Path)
	assert.Equal(t, JSONPos{Offset: 27, Line: 2, Column: 10}, got.Location.Start)
	assert.Equal(t, JSONPos{Offset: 40, Line: 2, Column: 23}, got.Location.End)

	bare := decodeJSON(t, bag, fs, JSONOpts{})
	assert.Equal(t, JSONPos{Offset: 27}, bare.Diagnostics[0].Location.Start, "no line/column without IncludePositions")
}

func TestJSONNotesAndFixOrder(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte("throw Error('x');"))

	bag := diag.NewBag(10)
	d := diag.New(diag.SevWarning, "throw-new-error", source.Span{File: fileID, Start: 6, End: 16}, "Use `new` when creating an error.")
	d = d.WithNote(source.Span{File: fileID, Start: 6, End: 11}, "called here")
	d = d.WithFixSuggestion(&diag.Fix{
		Title:         "Rewrite manually",
		Applicability: diag.FixApplicabilityManualReview,
		Edits:         []diag.TextEdit{{Span: source.Span{File: fileID, Start: 0, End: 17}, NewText: ""}},
	})
	d = d.WithFix("Add `new`", diag.TextEdit{Span: source.Span{File: fileID, Start: 6, End: 6}, NewText: "new "})
	bag.Add(&d)

	got := decodeJSON(t, bag, fs, JSONOpts{IncludeNotes: true, IncludeFixes: true}).Diagnostics[0]
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "called here", got.Notes[0].Message)
	require.Len(t, got.Fixes, 2)
	// автоматический фикс идёт первым, хоть и добавлен вторым
	assert.Equal(t, "always-safe", got.Fixes[0].Applicability)
	assert.Equal(t, "manual-review", got.Fixes[1].Applicability)
	assert.Equal(t, "new ", got.Fixes[0].Edits[0].NewText)

	plain := decodeJSON(t, bag, fs, JSONOpts{}).Diagnostics[0]
	assert.Empty(t, plain.Notes)
	assert.Empty(t, plain.Fixes)
}

func TestJSONFixError(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.js", []byte("x;"))
	bag := diag.NewBag(1)
	d := diag.New(diag.SevWarning, "some-rule", source.Span{File: fileID, Start: 0, End: 1}, "x")
	d = d.WithFixSuggestion(&diag.Fix{
		Title: "broken",
		Thunk: diag.FixThunkFunc(func(diag.FixBuildContext) (diag.Fix, error) {
			return diag.Fix{}, assert.AnError
		}),
	})
	bag.Add(&d)

	fix := decodeJSON(t, bag, fs, JSONOpts{IncludeFixes: true}).Diagnostics[0].Fixes[0]
	assert.Equal(t, "broken", fix.Title)
	assert.NotEmpty(t, fix.Error)
	assert.Empty(t, fix.Edits)
}

func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte("a; b; c; d; e;"))
	bag := diag.NewBag(10)
	for i := range 5 {
		start := uint32(i * 3)
		d := diag.New(diag.SevInfo, "some-rule", source.Span{File: fileID, Start: start, End: start + 1}, "x")
		bag.Add(&d)
	}

	report := decodeJSON(t, bag, fs, JSONOpts{Max: 3})
	assert.Len(t, report.Diagnostics, 3)
	assert.Equal(t, 3, report.Count)
	assert.Equal(t, 2, report.Truncated)
}

func TestJSONPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	fileID := fs.AddVirtual("/home/user/project/src/main.js", []byte("test"))

	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.LexUnknownChar, source.Span{File: fileID, Start: 0, End: 1}, "Error")
	bag.Add(&d)

	tests := []struct {
		name     string
		pathMode source.PathStyle
		expected string
	}{
		{"Absolute", source.PathAbsolute, "/home/user/project/src/main.js"},
		{"Relative", source.PathRelative, "src/main.js"},
		{"Basename", source.PathBase, "main.js"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := decodeJSON(t, bag, fs, JSONOpts{PathMode: tt.pathMode})
			assert.Equal(t, tt.expected, report.Diagnostics[0].Location.Path)
		})
	}
}

func TestJSONRunLevelDiagnostic(t *testing.T) {
	bag := diag.NewBag(2)
	d := diag.New(diag.SevWarning, diag.EngUnknownRule, source.Nowhere, `unknown rule "x"`)
	bag.Add(&d)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, bag, source.NewFileSet(), JSONOpts{IncludePositions: true}))
	assert.NotContains(t, buf.String(), `"location"`)
}

func TestJSONFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("example.js", []byte("n.toFixed() // digits"))

	bag := diag.NewBag(2)
	insertSpan := source.Span{File: fileID, Start: 10, End: 10}
	d := diag.New(diag.SevWarning, "require-number-to-fixed-digits-argument", insertSpan, "Missing the digits argument.")
	d = d.WithFix("Add `0` argument", diag.TextEdit{Span: insertSpan, NewText: "0"})
	bag.Add(&d)

	fix := decodeJSON(t, bag, fs, JSONOpts{IncludeFixes: true, IncludePreviews: true}).Diagnostics[0].Fixes[0]
	assert.Equal(t, []string{"n.toFixed() // digits"}, fix.Before)
	assert.Equal(t, []string{"n.toFixed(0) // digits"}, fix.After)
}
