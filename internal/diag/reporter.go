package diag

// Reporter receives diagnostics from the lexer and the parser as they are
// found. Rules do not use it: the dispatcher collects their problems.
type Reporter interface {
	Report(d *Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(d *Diagnostic)

// Report calls f(d).
func (f ReporterFunc) Report(d *Diagnostic) { f(d) }

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

// Report adds d to the bag; a nil bag drops it.
func (r BagReporter) Report(d *Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// Emit sends d to r. A nil reporter drops it (фазы можно гонять без отчёта).
func Emit(r Reporter, d Diagnostic) {
	if r != nil {
		r.Report(&d)
	}
}
