// Package fix computes the text edits that repair a diagnosed problem.
//
// A Fixer collects the edits of one patch against a SourceCode snapshot;
// primitives reject overlapping or out-of-file edits, and composites build
// common JavaScript rewrites on top of them.
package fix

import (
	"errors"
	"fmt"
	"sort"

	"esfix/internal/diag"
	"esfix/internal/source"
	"esfix/internal/sourcecode"
)

var (
	// ErrNoPatch reports that a composite could not prove its precondition;
	// the problem is reported without a fix.
	ErrNoPatch = errors.New("no safe patch for this code")
	// ErrInvariant marks a patch that broke an edit invariant. It aborts the rule.
	ErrInvariant = errors.New("patch invariant violated")
	// ErrOverlap is the ErrInvariant raised for overlapping edits.
	ErrOverlap = fmt.Errorf("%w: overlapping edits", ErrInvariant)
)

// Fixer accumulates the edits of one patch.
type Fixer struct {
	sc      *sourcecode.SourceCode
	edits   []diag.TextEdit
	demoted string
}

// NewFixer returns an empty fixer over sc.
func NewFixer(sc *sourcecode.SourceCode) *Fixer {
	return &Fixer{sc: sc}
}

// Source returns the snapshot the fixer edits.
func (fx *Fixer) Source() *sourcecode.SourceCode { return fx.sc }

// Edits returns the collected edits ordered by position.
func (fx *Fixer) Edits() []diag.TextEdit {
	out := append([]diag.TextEdit(nil), fx.edits...)
	sortEdits(out)
	return out
}

// Empty reports whether no edit was collected.
func (fx *Fixer) Empty() bool { return len(fx.edits) == 0 }

// Demote marks the patch as a suggestion: its edits are valid but may
// change behaviour, so they are only offered for review.
func (fx *Fixer) Demote(reason string) {
	if fx.demoted == "" {
		fx.demoted = reason
	}
}

// Demoted returns the demotion reason, if any.
func (fx *Fixer) Demoted() (string, bool) {
	return fx.demoted, fx.demoted != ""
}

// Applicability is ManualReview for demoted patches, AlwaysSafe otherwise.
func (fx *Fixer) Applicability() diag.FixApplicability {
	if fx.demoted != "" {
		return diag.FixApplicabilityManualReview
	}
	return diag.FixApplicabilityAlwaysSafe
}

// InsertBefore inserts text at the start of r.
func (fx *Fixer) InsertBefore(r source.Ranged, text string) error {
	return fx.InsertAt(r.Range().Start, text)
}

// InsertAfter inserts text at the end of r.
func (fx *Fixer) InsertAfter(r source.Ranged, text string) error {
	return fx.InsertAt(r.Range().End, text)
}

// InsertAt inserts text at off. Inserts at the same offset are merged in
// the order they were made.
func (fx *Fixer) InsertAt(off uint32, text string) error {
	if text == "" {
		return nil
	}
	return fx.add(diag.TextEdit{Span: source.Point(fx.sc.File.ID, off), NewText: text})
}

// Replace replaces the text of r.
func (fx *Fixer) Replace(r source.Ranged, text string) error {
	return fx.ReplaceSpan(r.Range(), text)
}

// ReplaceSpan replaces the text of sp; the current text becomes the edit's guard.
func (fx *Fixer) ReplaceSpan(sp source.Span, text string) error {
	if sp.Empty() {
		return fx.InsertAt(sp.Start, text)
	}
	return fx.add(diag.TextEdit{Span: sp, NewText: text, OldText: fx.sc.File.Text(sp)})
}

// Remove deletes the text of r.
func (fx *Fixer) Remove(r source.Ranged) error {
	return fx.RemoveSpan(r.Range())
}

// RemoveSpan deletes the text of sp.
func (fx *Fixer) RemoveSpan(sp source.Span) error {
	if sp.Empty() {
		return nil
	}
	return fx.ReplaceSpan(sp, "")
}

func (fx *Fixer) add(e diag.TextEdit) error {
	if e.Span.File != fx.sc.File.ID || e.Span.Start > e.Span.End || e.Span.End > fx.sc.File.Len() {
		return fmt.Errorf("%w: edit %s outside file", ErrInvariant, e.Span)
	}
	for i := range fx.edits {
		prev := &fx.edits[i]
		if prev.Span.Empty() && e.Span.Empty() && prev.Span.Start == e.Span.Start {
			// вставки в одну точку склеиваются в порядке вызова
			prev.NewText += e.NewText
			return nil
		}
		if spansConflict(*prev, e) {
			return fmt.Errorf("%w: %s and %s", ErrOverlap, prev.Span, e.Span)
		}
	}
	fx.edits = append(fx.edits, e)
	return nil
}

// spansConflict reports whether two edits overlap. Spans are half-open.
// Two inserts never conflict; an insert conflicts with a replacement only
// strictly inside it, so inserting at either boundary stays well-defined.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// sortEdits orders edits by start; at the same start an insert goes first.
func sortEdits(edits []diag.TextEdit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Span.Start != edits[j].Span.Start {
			return edits[i].Span.Start < edits[j].Span.Start
		}
		return edits[i].Span.Empty() && !edits[j].Span.Empty()
	})
}
