package fix

import (
	"errors"
	"testing"

	"esfix/internal/diag"
)

// TestLazyResolvesEdits проверяет, что Lazy строит правки только при Resolve
func TestLazyResolvesEdits(t *testing.T) {
	sc := makeSource(t, "f(a)")
	calls := 0
	f := Lazy("remove a", sc, func(fx *Fixer) error {
		calls++
		return RemoveArgument(fx, callOf(sc).Arguments[0])
	}, Preferred())

	if calls != 0 {
		t.Fatalf("patch ran before Resolve")
	}
	if !f.IsPreferred || f.Kind != diag.FixKindQuickFix {
		t.Fatalf("options not applied: %+v", f)
	}

	resolved, err := f.Resolve(diag.FixBuildContext{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 patch run, got %d", calls)
	}
	if len(resolved.Edits) != 1 || resolved.Edits[0].OldText != "a" {
		t.Fatalf("unexpected edits: %+v", resolved.Edits)
	}
	if resolved.Applicability != diag.FixApplicabilityAlwaysSafe {
		t.Errorf("expected always-safe, got %s", resolved.Applicability)
	}
}

// TestLazyDemotedBecomesManualReview проверяет понижение до подсказки
func TestLazyDemotedBecomesManualReview(t *testing.T) {
	sc := makeSource(t, "f(a, /* why */ b)")
	f := Lazy("remove b", sc, func(fx *Fixer) error {
		return RemoveArgument(fx, callOf(sc).Arguments[1])
	})
	resolved, err := f.Resolve(diag.FixBuildContext{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.IsAutomatic() {
		t.Errorf("expected a suggestion, got %s", resolved.Applicability)
	}
}

// TestLazyPropagatesNoPatch проверяет, что ErrNoPatch доходит до вызывающего
func TestLazyPropagatesNoPatch(t *testing.T) {
	sc := makeSource(t, "f(a)")
	f := Lazy("nothing", sc, func(*Fixer) error { return ErrNoPatch })
	resolved, err := f.Resolve(diag.FixBuildContext{})
	if !errors.Is(err, ErrNoPatch) {
		t.Fatalf("expected ErrNoPatch, got %v", err)
	}
	if resolved != nil {
		t.Errorf("failed fix must not resolve, got %+v", resolved)
	}
}

// TestWithApplicabilityKeepsDemotion проверяет, что стартовая применимость
// не поднимает понижённый патч
func TestWithApplicabilityKeepsDemotion(t *testing.T) {
	sc := makeSource(t, "f(a)")
	f := Lazy("semi", sc, func(fx *Fixer) error {
		return fx.InsertAt(0, ";")
	}, WithApplicability(diag.FixApplicabilitySafeWithHeuristics))
	resolved, err := f.Resolve(diag.FixBuildContext{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Applicability != diag.FixApplicabilitySafeWithHeuristics {
		t.Errorf("expected safe-with-heuristics, got %s", resolved.Applicability)
	}

	demoted := Lazy("remove b", makeSource(t, "f(a, /* why */ b)"), func(fx *Fixer) error {
		return RemoveArgument(fx, callOf(fx.sc).Arguments[1])
	}, WithApplicability(diag.FixApplicabilitySafeWithHeuristics))
	resolved, err = demoted.Resolve(diag.FixBuildContext{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Applicability != diag.FixApplicabilityManualReview {
		t.Errorf("expected manual-review, got %s", resolved.Applicability)
	}
}
