package driver

import (
	"encoding/json"
	"fmt"

	"esfix/internal/diag"
	"esfix/internal/observ"
	"esfix/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Files   int                  `json:"files"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// TimingDiagnostic wraps the timer report into an info diagnostic whose
// single note carries the JSON payload, so machine formats keep it.
// It returns nil when nothing was timed.
func TimingDiagnostic(kind string, files int, timer *observ.Timer) *diag.Diagnostic {
	report := timer.Report()
	if len(report.Phases) == 0 {
		return nil
	}
	if kind == "" {
		kind = "lint"
	}
	data, err := json.Marshal(timingPayload{Kind: kind, Files: files, TotalMS: report.TotalMS, Phases: report.Phases})
	if err != nil {
		return nil
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms over %d files", kind, report.TotalMS, files)
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Nowhere, msg).WithNote(source.Nowhere, string(data))
	return &d
}
