package diag

import (
	"sort"

	"esfix/internal/source"
)

// Bag collects the diagnostics of one file up to a limit. A limit <= 0 means
// unlimited; diagnostics past the limit are counted, not stored.
type Bag struct {
	items   []*Diagnostic
	limit   int
	dropped int
}

// NewBag returns an empty bag holding at most limit diagnostics.
func NewBag(limit int) *Bag {
	return &Bag{
		items: make([]*Diagnostic, 0, min(max(limit, 0), 64)),
		limit: limit,
	}
}

// Add stores d and reports whether it fit under the limit.
func (b *Bag) Add(d *Diagnostic) bool {
	if d == nil {
		return false
	}
	if b.limit > 0 && len(b.items) >= b.limit {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Items returns the stored diagnostics in their current order.
func (b *Bag) Items() []*Diagnostic { return b.items }

// Len returns the number of stored diagnostics.
func (b *Bag) Len() int { return len(b.items) }

// Limit returns the configured limit (<= 0 for none).
func (b *Bag) Limit() int { return b.limit }

// Dropped returns how many diagnostics did not fit under the limit.
func (b *Bag) Dropped() int { return b.dropped }

// HasErrors сообщает, есть ли хотя бы одна ошибка.
func (b *Bag) HasErrors() bool {
	return b.Count(SevError) > 0
}

// Count returns the number of diagnostics with exactly severity sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for _, d := range b.items {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Filter keeps only the diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(*Diagnostic) bool) {
	out := b.items[:0]
	for _, d := range b.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	clear(b.items[len(out):])
	b.items = out
}

// Sort orders diagnostics by file and position, then errors before
// warnings, then by code. Equal diagnostics keep their report order.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if c := compareSpans(di.Primary, dj.Primary); c != 0 {
			return c < 0
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

func compareSpans(a, b source.Span) int {
	switch {
	case a.File != b.File:
		return int(a.File) - int(b.File)
	case a.Start != b.Start:
		return int(a.Start) - int(b.Start)
	case a.End != b.End:
		return int(a.End) - int(b.End)
	}
	return 0
}

type dedupKey struct {
	code Code
	span source.Span
	msg  string
}

// Dedup drops repeated diagnostics with the same code, primary span and
// message, keeping the first one (два обработчика одного правила на одном узле).
func (b *Bag) Dedup() {
	seen := make(map[dedupKey]struct{}, len(b.items))
	b.Filter(func(d *Diagnostic) bool {
		key := dedupKey{code: d.Code, span: d.Primary, msg: d.Message}
		if _, ok := seen[key]; ok {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}
