package driver

import (
	"fmt"

	"esfix/internal/diag"
	"esfix/internal/source"
)

// CollectFixDiagnostics gathers the remaining diagnostics of every fix
// result into one FileSet holding the final content of each file, so a fix
// run prints like a lint run. Fixes that were skipped or rolled back become
// EngFixRejected warnings. The diagnostics of results are rebound in place.
func CollectFixDiagnostics(results []*FixResult) (*source.FileSet, []*diag.Diagnostic) {
	fs := source.NewFileSet()
	var out []*diag.Diagnostic
	for _, res := range results {
		if res == nil {
			continue
		}
		at := source.Nowhere
		if res.Fixed != nil {
			id := fs.Add(res.Path, res.Fixed, res.Flags)
			at = source.Point(id, 0)
			for _, d := range res.Remaining {
				rebind(d, id)
			}
		}
		out = append(out, res.Remaining...)
		for _, skip := range res.Skipped {
			msg := fmt.Sprintf("fix %q not applied: %s", skip.Title, skip.Reason)
			if at.IsNowhere() {
				msg = res.Path + ": " + msg
			}
			d := diag.NewWarning(diag.EngFixRejected, at, msg)
			if skip.ID != "" {
				d = d.WithNote(at, "fix id "+skip.ID)
			}
			out = append(out, &d)
		}
	}
	return fs, out
}
