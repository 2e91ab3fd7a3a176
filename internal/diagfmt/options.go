package diagfmt

import "esfix/internal/source"

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Context     int8
	PathMode    source.PathStyle
	Width       uint8 // максимальная ширина строки, 0 - не ограничено
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         source.PathStyle
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
	// Rules describes the rule codes that may appear in results.
	Rules []SarifRule
}

// SarifRule is the tool.driver.rules entry of one rule.
type SarifRule struct {
	ID          string
	Description string
}

func formatPath(fs *source.FileSet, f *source.File, style source.PathStyle) string {
	return f.DisplayPath(style, fs.BaseDir())
}
