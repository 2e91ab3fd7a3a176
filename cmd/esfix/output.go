package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"esfix/internal/diag"
	"esfix/internal/diagfmt"
	"esfix/internal/driver"
	"esfix/internal/rules"
	"esfix/internal/source"
	"esfix/internal/version"
)

// printDiagnostics writes diags in the selected --format. The slice is
// sorted in place by the bag.
func (env *cliEnv) printDiagnostics(w io.Writer, diags []*diag.Diagnostic, fs *source.FileSet) error {
	bag := diag.NewBag(0)
	for _, d := range diags {
		bag.Add(d)
	}
	bag.Sort()

	switch env.format {
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         env.pathMode,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
	case "sarif":
		return diagfmt.Sarif(w, bag, fs, sarifMeta())
	case "short":
		return diagfmt.Short(w, bag, fs, true)
	default:
		if bag.Len() == 0 {
			return nil
		}
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     env.color,
			Context:   1,
			PathMode:  env.pathMode,
			ShowNotes: true,
			ShowFixes: !env.quiet,
		})
		return nil
	}
}

func sarifMeta() diagfmt.SarifRunMeta {
	meta := diagfmt.SarifRunMeta{
		ToolName:       "esfix",
		ToolVersion:    version.Version,
		InvocationArgs: os.Args[1:],
	}
	for _, def := range rules.All() {
		meta.Rules = append(meta.Rules, diagfmt.SarifRule{ID: def.Name, Description: def.Description})
	}
	return meta
}

// printSummary печатает итог в stderr: число проблем, файлов и объём.
func (env *cliEnv) printSummary(w io.Writer, run *driver.Run) {
	if env.quiet || env.format != "pretty" {
		return
	}
	errs, warnings := run.Counts()
	var size uint64
	cached := 0
	for _, f := range run.Files {
		if f.File != nil {
			size += uint64(len(f.File.Content))
		}
		if f.Cached {
			cached++
		}
	}
	files := fmt.Sprintf("%s files (%s", humanize.Comma(int64(len(run.Files))), humanize.Bytes(size))
	if cached > 0 {
		files += fmt.Sprintf(", %s cached", humanize.Comma(int64(cached)))
	}
	files += ")"

	mark := color.New(color.FgGreen, color.Bold)
	if errs > 0 {
		mark = color.New(color.FgRed, color.Bold)
	} else if warnings > 0 {
		mark = color.New(color.FgYellow, color.Bold)
	}
	if !env.color {
		mark.DisableColor()
	}
	if errs+warnings == 0 {
		fmt.Fprintf(w, "%s no problems in %s\n", mark.Sprint("ok"), files)
		return
	}
	fmt.Fprintf(w, "%s %s problems (%s errors, %s warnings) in %s\n", mark.Sprint("x"),
		humanize.Comma(int64(errs+warnings)), humanize.Comma(int64(errs)), humanize.Comma(int64(warnings)), files)
}

// timingsDiagnostic returns the run timings as a diagnostic for machine
// formats; pretty output prints the table to stderr instead.
func (env *cliEnv) timingsDiagnostic(kind string, files int) *diag.Diagnostic {
	if !env.timings {
		return nil
	}
	if env.format == "pretty" {
		fmt.Fprint(env.stderr, env.timer.Summary())
		return nil
	}
	return driver.TimingDiagnostic(kind, files, env.timer)
}
