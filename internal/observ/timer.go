// Package observ carries the run's timing and logging plumbing.
package observ

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Timer folds the durations of named phases (parse, lint, a fix pass). It is
// safe for concurrent use. A nil *Timer ignores every call.
type Timer struct {
	mu    sync.Mutex
	order []string
	stats map[string]*phaseStat
	log   *slog.Logger
}

type phaseStat struct {
	count int
	total time.Duration
	max   time.Duration
	note  string
}

// NewTimer returns an empty timer.
func NewTimer() *Timer {
	return &Timer{stats: make(map[string]*phaseStat)}
}

// WithLogger makes the timer log every finished phase at debug level.
func (t *Timer) WithLogger(l *slog.Logger) *Timer {
	if t != nil {
		t.log = l
	}
	return t
}

// Track starts timing one run of phase name. Calling the returned func ends
// it; note describes the run (usually a file path).
func (t *Timer) Track(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	started := time.Now()
	var once sync.Once
	return func(note string) {
		once.Do(func() { t.record(name, note, time.Since(started)) })
	}
}

func (t *Timer) record(name, note string, d time.Duration) {
	t.mu.Lock()
	st, ok := t.stats[name]
	if !ok {
		st = &phaseStat{}
		t.stats[name] = st
		t.order = append(t.order, name)
	}
	st.count++
	st.total += d
	st.max = max(st.max, d)
	// заметка имеет смысл только для единственного запуска
	st.note = ""
	if st.count == 1 {
		st.note = note
	}
	t.mu.Unlock()

	if t.log != nil {
		t.log.Debug("phase done", "phase", name, "note", note, "ms", millis(d))
	}
}

// PhaseReport is the serialisable view of one phase name.
type PhaseReport struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	DurationMS float64 `json:"duration_ms"`
	MaxMS      float64 `json:"max_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report aggregates the timer. Phases run in parallel overlap, so TotalMS is
// CPU time rather than wall time.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report lists phases in the order they first finished.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var rep Report
	for _, name := range t.order {
		st := t.stats[name]
		rep.Phases = append(rep.Phases, PhaseReport{
			Name:       name,
			Count:      st.count,
			DurationMS: millis(st.total),
			MaxMS:      millis(st.max),
			Note:       st.note,
		})
		rep.TotalMS += millis(st.total)
	}
	return rep
}

// Summary renders the report as a table for stderr.
func (t *Timer) Summary() string {
	rep := t.Report()
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("timings")
	tw.AppendHeader(table.Row{"phase", "runs", "total ms", "max ms", "note"})
	for _, p := range rep.Phases {
		tw.AppendRow(table.Row{p.Name, p.Count, ms(p.DurationMS), ms(p.MaxMS), p.Note})
	}
	tw.AppendFooter(table.Row{"total", "", ms(rep.TotalMS), "", ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render() + "\n"
}

func ms(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
