package diag

import (
	"esfix/internal/source"
)

// Note is a secondary span with a short explanation.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single finding produced by the lexer, parser or a rule.
type Diagnostic struct {
	Severity Severity
	Code     Code
	// MessageID is the rule-local message key the message was rendered from.
	MessageID string
	Message   string
	Primary   source.Span
	Notes     []Note
	// Fixes holds automatic fixes and suggestions; see Fix.IsAutomatic.
	Fixes []*Fix
}

// AutoFix returns the first automatic fix, or nil.
func (d *Diagnostic) AutoFix() *Fix {
	for _, f := range d.Fixes {
		if f != nil && f.IsAutomatic() {
			return f
		}
	}
	return nil
}

// Suggestions returns the fixes that require manual review.
func (d *Diagnostic) Suggestions() []*Fix {
	var out []*Fix
	for _, f := range d.Fixes {
		if f != nil && !f.IsAutomatic() {
			out = append(out, f)
		}
	}
	return out
}
