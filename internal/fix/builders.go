package fix

import (
	"esfix/internal/diag"
	"esfix/internal/sourcecode"
)

// Option adjusts the metadata of a fix built by Lazy.
type Option func(*diag.Fix)

// WithApplicability sets the applicability the fix starts from. A demoted
// patch can only lower it further.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) { f.Applicability = app }
}

// Preferred marks the fix editors should offer first.
func Preferred() Option {
	return func(f *diag.Fix) { f.IsPreferred = true }
}

// Patch computes the edits of one fix with a Fixer.
type Patch func(fx *Fixer) error

// Lazy wraps patch into a quick fix whose edits are computed on Resolve
// against sc. A demoted patch resolves to a manual-review fix.
func Lazy(title string, sc *sourcecode.SourceCode, patch Patch, opts ...Option) *diag.Fix {
	f := &diag.Fix{
		Title: title,
		Kind:  diag.FixKindQuickFix,
		Thunk: diag.FixThunkFunc(func(diag.FixBuildContext) (diag.Fix, error) {
			fx := NewFixer(sc)
			if err := patch(fx); err != nil {
				return diag.Fix{}, err
			}
			return diag.Fix{Title: title, Applicability: fx.Applicability(), Edits: fx.Edits()}, nil
		}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}
