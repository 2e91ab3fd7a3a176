package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"esfix/internal/diag"
	"esfix/internal/driver"
	"esfix/internal/ui"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [file.js|directory]...",
	Short: "Report problems in JavaScript files",
	Long:  `Lint walks the given files and directories (default: current directory) and reports rule violations`,
	RunE:  runLint,
}

func init() {
	lintCmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
}

func runLint(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd, startDir(args))
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	run, err := lintTargets(cmd.Context(), env, args, !noCache)
	if err != nil {
		return err
	}
	return env.report(run)
}

// lintTargets expands targets and lints them, with the progress view when
// the terminal allows it.
func lintTargets(ctx context.Context, env *cliEnv, targets []string, withCache bool) (*driver.Run, error) {
	if len(targets) == 0 {
		targets = []string{"."}
	}
	files, err := driver.ListFiles(targets, env.cfg)
	if err != nil {
		return nil, err
	}
	opts := env.driverOptions(withCache)

	var run *driver.Run
	if !env.shouldUseTUI(len(files)) {
		run, err = driver.LintFiles(ctx, files, opts)
		return run, err
	}
	err = ui.Run(env.stderr, "Linting", files, func(obs driver.Observer) error {
		opts.Observer = obs
		var lintErr error
		run, lintErr = driver.LintFiles(ctx, files, opts)
		return lintErr
	})
	return run, err
}

// report prints the run and maps errors to errProblems.
func (env *cliEnv) report(run *driver.Run) error {
	diags := run.Diagnostics()
	if td := env.timingsDiagnostic("lint", len(run.Files)); td != nil {
		diags = append(diags, td)
	}
	if err := env.printDiagnostics(env.stdout, diags, run.FileSet); err != nil {
		return fmt.Errorf("failed to print diagnostics: %w", err)
	}
	env.printSummary(env.stderr, run)

	for _, f := range run.Files {
		if f.Err != nil {
			env.log.Error("file aborted", "file", f.Path, "err", f.Err)
		}
	}
	errs, _ := run.Counts()
	if errs > 0 || run.Failed() {
		return errProblems
	}
	return nil
}

func hasErrors(diags []*diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity >= diag.SevError {
			return true
		}
	}
	return false
}
