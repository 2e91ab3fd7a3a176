package diag

import (
	"errors"
	"fmt"

	"esfix/internal/source"
)

// FixKind is a coarse classification of a fix, mirrored to LSP code action kinds.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactor
	FixKindRefactorRewrite
	FixKindSourceAction
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindRefactor:
		return "refactor"
	case FixKindRefactorRewrite:
		return "refactor.rewrite"
	case FixKindSourceAction:
		return "source"
	}
	return "unknown"
}

// FixApplicability describes how confident the producer is in a fix.
type FixApplicability uint8

const (
	// FixApplicabilityAlwaysSafe fixes are applied by `fix` without asking.
	FixApplicabilityAlwaysSafe FixApplicability = iota
	// FixApplicabilitySafeWithHeuristics fixes are applied automatically too,
	// but their correctness depends on a heuristic (for example ASI analysis).
	FixApplicabilitySafeWithHeuristics
	// FixApplicabilityManualReview fixes are suggestions: only offered.
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// TextEdit replaces Span with NewText. A non-empty OldText is a guard: the
// edit only applies while the span still holds exactly that text.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// FixBuildContext is handed to lazy fix thunks.
type FixBuildContext struct {
	FileSet *source.FileSet
}

// FixThunk builds a fix on demand.
type FixThunk interface {
	BuildFix(ctx FixBuildContext) (Fix, error)
}

// FixThunkFunc adapts a function to FixThunk.
type FixThunkFunc func(ctx FixBuildContext) (Fix, error)

// BuildFix implements FixThunk.
func (f FixThunkFunc) BuildFix(ctx FixBuildContext) (Fix, error) { return f(ctx) }

// Fix is a possible automated correction.
type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	Edits         []TextEdit
	Thunk         FixThunk `msgpack:"-" json:"-"`
}

// IsAutomatic reports whether the fix may be applied without review.
func (f *Fix) IsAutomatic() bool {
	return f.Applicability != FixApplicabilityManualReview
}

// ErrEmptyFix is returned when a thunk produces no edits.
var ErrEmptyFix = errors.New("fix produced no edits")

// Resolve returns the fix with its thunk expanded. Metadata set on the
// receiver wins over what the thunk returns.
func (f *Fix) Resolve(ctx FixBuildContext) (*Fix, error) {
	if f == nil {
		return nil, nil
	}
	if f.Thunk == nil {
		return f, nil
	}
	built, err := f.Thunk.BuildFix(ctx)
	if err != nil {
		return nil, fmt.Errorf("build fix %q: %w", f.Title, err)
	}
	if len(built.Edits) == 0 {
		return nil, fmt.Errorf("build fix %q: %w", f.Title, ErrEmptyFix)
	}
	out := *f
	out.Thunk = nil
	out.Edits = built.Edits
	if out.Title == "" {
		out.Title = built.Title
	}
	if out.ID == "" {
		out.ID = built.ID
	}
	if built.Applicability > out.Applicability {
		out.Applicability = built.Applicability
	}
	return &out, nil
}
