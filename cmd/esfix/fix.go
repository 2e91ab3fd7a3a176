package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"esfix/internal/driver"
	"esfix/internal/source"
	"esfix/internal/ui"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [file.js|directory]...",
	Short: "Apply automatic fixes to JavaScript files",
	Long: `Fix lints the targets and applies fixes pass by pass. Every patched
buffer is re-parsed; a fix that breaks the syntax is rolled back and reported.`,
	RunE: runFix,
}

func init() {
	fixCmd.Flags().String("mode", "all", "which fixes to apply (all|once|id)")
	fixCmd.Flags().String("id", "", "apply the fix with this identifier (implies --mode id)")
	fixCmd.Flags().Bool("dry-run", false, "do not write files")
	fixCmd.Flags().Bool("diff", false, "print a unified diff of the changes")
	fixCmd.Flags().Bool("suggestions", false, "also apply fixes that need manual review")
	fixCmd.Flags().Bool("verify", false, "cross-check every fix with tree-sitter")
	fixCmd.Flags().Int("max-passes", 0, "maximum fix passes per file (0 = from config)")
}

func runFix(cmd *cobra.Command, args []string) error {
	fo, showDiff, err := readFixFlags(cmd)
	if err != nil {
		return err
	}
	env, err := loadEnv(cmd, startDir(args))
	if err != nil {
		return err
	}
	targets := args
	if len(targets) == 0 {
		targets = []string{"."}
	}
	files, err := driver.ListFiles(targets, env.cfg)
	if err != nil {
		return err
	}
	// id уникален только в пределах файла
	if fo.Mode == driver.ApplyModeID && len(files) != 1 {
		return fmt.Errorf("fix: --id needs exactly one file, got %d", len(files))
	}

	results, err := fixTargets(cmd.Context(), env, files, fo)
	if err != nil {
		return err
	}

	if showDiff {
		for _, res := range results {
			if res == nil || !res.Changed() {
				continue
			}
			fmt.Fprint(env.stdout, driver.UnifiedDiff(res.Path,
				source.Denormalize(res.Original, res.Flags), source.Denormalize(res.Fixed, res.Flags)))
		}
	}

	fs, diags := driver.CollectFixDiagnostics(results)
	if td := env.timingsDiagnostic("fix", len(files)); td != nil {
		diags = append(diags, td)
	}
	out := env.stdout
	if showDiff {
		// stdout занят патчем
		out = env.stderr
	}
	if err := env.printDiagnostics(out, diags, fs); err != nil {
		return fmt.Errorf("failed to print diagnostics: %w", err)
	}
	env.printFixSummary(env.stderr, results, fo.DryRun)

	failed := hasErrors(diags)
	for _, res := range results {
		if res != nil && res.Err != nil {
			env.log.Error("fix failed", "file", res.Path, "err", res.Err)
			failed = true
		}
	}
	if failed {
		return errProblems
	}
	return nil
}

func readFixFlags(cmd *cobra.Command) (driver.FixOptions, bool, error) {
	var fo driver.FixOptions
	flags := cmd.Flags()
	modeFlag, err := flags.GetString("mode")
	if err != nil {
		return fo, false, err
	}
	if fo.TargetID, err = flags.GetString("id"); err != nil {
		return fo, false, err
	}
	if fo.TargetID != "" {
		if flags.Changed("mode") && modeFlag != "id" {
			return fo, false, fmt.Errorf("--id cannot be combined with --mode %s", modeFlag)
		}
		modeFlag = "id"
	}
	if fo.Mode, err = driver.ParseApplyMode(modeFlag); err != nil {
		return fo, false, err
	}
	if fo.Mode == driver.ApplyModeID && fo.TargetID == "" {
		return fo, false, fmt.Errorf("--mode id requires --id")
	}
	if fo.DryRun, err = flags.GetBool("dry-run"); err != nil {
		return fo, false, err
	}
	if fo.Suggestions, err = flags.GetBool("suggestions"); err != nil {
		return fo, false, err
	}
	if fo.Verify, err = flags.GetBool("verify"); err != nil {
		return fo, false, err
	}
	if fo.MaxPasses, err = flags.GetInt("max-passes"); err != nil {
		return fo, false, err
	}
	showDiff, err := flags.GetBool("diff")
	if err != nil {
		return fo, false, err
	}
	return fo, showDiff, nil
}

func fixTargets(ctx context.Context, env *cliEnv, files []string, fo driver.FixOptions) ([]*driver.FixResult, error) {
	opts := env.driverOptions(false)
	if !env.shouldUseTUI(len(files)) {
		return driver.FixFiles(ctx, files, opts, fo)
	}
	var results []*driver.FixResult
	err := ui.Run(env.stderr, "Fixing", files, func(obs driver.Observer) error {
		opts.Observer = obs
		var fixErr error
		results, fixErr = driver.FixFiles(ctx, files, opts, fo)
		return fixErr
	})
	return results, err
}

// printFixSummary печатает применённые фиксы по файлам и общий итог.
func (env *cliEnv) printFixSummary(w io.Writer, results []*driver.FixResult, dryRun bool) {
	if env.quiet || env.format != "pretty" {
		return
	}
	applied, changed := 0, 0
	for _, res := range results {
		if res == nil || !res.Changed() {
			continue
		}
		changed++
		applied += len(res.Applied)
		fmt.Fprintf(w, "%s:\n", res.Path)
		for _, a := range res.Applied {
			fmt.Fprintf(w, "  pass %d: %s (%s, %s)\n", a.Pass, a.Title, a.Code.ID(), a.Applicability)
		}
	}
	verb := "fixed"
	if dryRun {
		verb = "would fix"
	}
	fmt.Fprintf(w, "%s %s problems in %s of %s files\n", verb,
		humanize.Comma(int64(applied)), humanize.Comma(int64(changed)), humanize.Comma(int64(len(results))))
}
