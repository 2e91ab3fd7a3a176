package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"golang.org/x/sync/errgroup"

	"esfix/internal/diag"
	"esfix/internal/fix"
	"esfix/internal/linter"
	"esfix/internal/parser"
	"esfix/internal/pkgmeta"
	"esfix/internal/source"
	"esfix/internal/verify"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	// ApplyModeAll applies fixes pass by pass until none remain.
	ApplyModeAll ApplyMode = iota
	// ApplyModeOnce applies the first fix of each file and stops.
	ApplyModeOnce
	// ApplyModeID applies the fix with FixOptions.TargetID only.
	ApplyModeID
)

// ParseApplyMode parses "all", "once" or "id".
func ParseApplyMode(s string) (ApplyMode, error) {
	switch s {
	case "", "all":
		return ApplyModeAll, nil
	case "once":
		return ApplyModeOnce, nil
	case "id":
		return ApplyModeID, nil
	}
	return ApplyModeAll, fmt.Errorf("unknown fix mode %q (want all, once or id)", s)
}

// FixOptions configures how fixes are selected and written.
type FixOptions struct {
	Mode     ApplyMode
	TargetID string
	// Suggestions lets manual-review fixes through as well.
	Suggestions bool
	// MaxPasses bounds the lint/apply cycles per file; <= 0 uses the config.
	MaxPasses int
	// DryRun keeps the files on disk untouched.
	DryRun bool
	// Verify cross-checks every patched buffer with tree-sitter.
	Verify bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	EditCount     int
	Pass          int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FixResult summarises what the fix loop did to one file.
type FixResult struct {
	Path string
	// Original and Fixed hold normalized text (LF, no BOM).
	Original []byte
	Fixed    []byte
	Flags    source.FileFlags
	Applied  []AppliedFix
	Skipped  []SkippedFix
	// Remaining are the diagnostics of the final content.
	Remaining []*diag.Diagnostic
	Passes    int
	Written   bool
	Err       error
}

// Changed reports whether any fix was applied.
func (r *FixResult) Changed() bool {
	return len(r.Applied) > 0
}

type candidate struct {
	diag  *diag.Diagnostic
	fix   *diag.Fix
	order int
}

// FixFiles runs the fix loop over paths in parallel. Per-file failures are
// reported in FixResult.Err; the returned error is a cancellation.
func FixFiles(ctx context.Context, paths []string, opts Options, fo FixOptions) ([]*FixResult, error) {
	opts.normalize()
	results := make([]*FixResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	packages := pkgmeta.NewCache()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = fixFile(gctx, path, opts, fo, packages)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// FixFile runs the fix loop over one file on disk.
func FixFile(ctx context.Context, path string, opts Options, fo FixOptions) *FixResult {
	opts.normalize()
	return fixFile(ctx, path, opts, fo, pkgmeta.NewCache())
}

func fixFile(ctx context.Context, path string, opts Options, fo FixOptions, packages *pkgmeta.Cache) *FixResult {
	opts.Observer.emit(Event{File: path, Stage: StageFix, Status: StatusWorking})
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		d := diag.New(diag.SevError, diag.IOReadFailed, source.Nowhere, fmt.Sprintf("%s: %v", path, err))
		opts.Observer.emit(Event{File: path, Stage: StageFix, Status: StatusError})
		return &FixResult{Path: path, Err: err, Remaining: []*diag.Diagnostic{&d}}
	}
	content, flags := source.Normalize(raw)
	res := FixContent(ctx, path, content, flags, opts, fo, packages)
	if res.Err == nil && res.Changed() && !fo.DryRun {
		if err := writeBack(path, source.Denormalize(res.Fixed, flags)); err != nil {
			res.Err = err
			d := diag.New(diag.SevError, diag.IOWriteFailed, source.Nowhere, err.Error())
			res.Remaining = append(res.Remaining, &d)
		} else {
			res.Written = true
		}
	}
	status := StatusDone
	if res.Err != nil {
		status = StatusError
	}
	opts.Observer.emit(Event{File: path, Stage: StageFix, Status: status, Diagnostics: len(res.Remaining)})
	return res
}

// FixContent runs the fix loop over normalized content without touching
// the disk. Each pass lints, picks one fix, applies it and re-parses; a
// fix whose output does not parse is rolled back and skipped.
func FixContent(ctx context.Context, path string, content []byte, flags source.FileFlags, opts Options, fo FixOptions, packages *pkgmeta.Cache) *FixResult {
	opts.normalize()
	maxPasses := fo.MaxPasses
	if maxPasses <= 0 {
		maxPasses = opts.Config.Fix.MaxPasses
	}
	if maxPasses <= 0 {
		maxPasses = 10
	}
	if fo.Mode != ApplyModeAll {
		maxPasses = 1
	}
	if !fo.Suggestions {
		fo.Suggestions = opts.Config.Fix.Suggestions
	}
	if !fo.Verify {
		fo.Verify = opts.Config.Fix.Verify
	}
	log := opts.Logger.With("file", path)

	res := &FixResult{Path: path, Original: content, Fixed: content, Flags: flags}
	// отклонённые фиксы для текущего содержимого; сбрасываются при изменении
	rejected := make(map[string]bool)

	for {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		fs := source.NewFileSet()
		file := fs.Get(fs.Add(path, res.Fixed, flags))
		out, err := linter.LintFile(file, linter.Options{
			Rules:    opts.Rules,
			Config:   opts.Config,
			Packages: packages,
			Timer:    opts.Timer,
		})
		if err != nil {
			res.Err = err
			return res
		}
		res.Remaining = out.Diagnostics
		if out.SyntaxError() || res.Passes >= maxPasses {
			return res
		}

		cands, skips := gatherCandidates(fs, out.Diagnostics, fo)
		res.Skipped = append(res.Skipped, skips...)
		sortCandidates(cands)
		cand, skip, ok := selectCandidate(cands, fo, rejected)
		if skip != nil {
			res.Skipped = append(res.Skipped, *skip)
		}
		if !ok {
			return res
		}

		next, err := fix.ApplyEdits(res.Fixed, cand.fix.Edits)
		if err == nil {
			err = checkSyntax(ctx, path, next, fo.Verify)
		}
		if err != nil {
			// откат: содержимое не меняется, фикс больше не предлагается
			log.Debug("fix rolled back", "fix", cand.fix.ID, "err", err)
			rejected[cand.fix.ID] = true
			res.Skipped = append(res.Skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: err.Error()})
			if fo.Mode != ApplyModeAll {
				return res
			}
			continue
		}

		res.Passes++
		res.Fixed = next
		clear(rejected)
		res.Applied = append(res.Applied, AppliedFix{
			ID:            cand.fix.ID,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Message:       cand.diag.Message,
			Applicability: cand.fix.Applicability,
			EditCount:     len(cand.fix.Edits),
			Pass:          res.Passes,
		})
		log.Debug("fix applied", "pass", res.Passes, "rule", cand.diag.Code.ID(), "fix", cand.fix.Title)
	}
}

func checkSyntax(ctx context.Context, path string, content []byte, withTreeSitter bool) error {
	fs := source.NewFileSet()
	if _, err := parser.ParseFile(fs.Get(fs.Add(path, content, 0)), parser.Options{}); err != nil {
		return fmt.Errorf("%w: %w", fix.ErrInvariant, err)
	}
	if withTreeSitter {
		if err := verify.Check(ctx, content); err != nil {
			return fmt.Errorf("%w: %w", fix.ErrInvariant, err)
		}
	}
	return nil
}

// gatherCandidates resolves the fixes of diagnostics into candidates.
// Fixes without an ID get one built from the rule, the primary span and the
// fix index, so `fix --id` can address them.
func gatherCandidates(fs *source.FileSet, diagnostics []*diag.Diagnostic, fo FixOptions) ([]candidate, []SkippedFix) {
	ctx := diag.FixBuildContext{FileSet: fs}
	var cands []candidate
	var skips []SkippedFix

	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if f == nil {
				continue
			}
			resolved, err := f.Resolve(ctx)
			if err != nil {
				skips = append(skips, SkippedFix{Title: f.Title, Reason: fmt.Sprintf("failed to build fix: %v", err)})
				continue
			}
			if len(resolved.Edits) == 0 {
				continue
			}
			if resolved.ID == "" {
				resolved.ID = FixID(d, idx)
			}
			if !resolved.IsAutomatic() && !fo.Suggestions && fo.Mode != ApplyModeID {
				continue
			}
			cands = append(cands, candidate{diag: d, fix: resolved, order: order})
			order++
		}
	}
	return cands, skips
}

// FixID is the stable identifier of the idx-th fix of d.
func FixID(d *diag.Diagnostic, idx int) string {
	return fmt.Sprintf("%s-%d-%d", d.Code.ID(), d.Primary.Start, idx)
}

// sortCandidates orders by primary span, then emission order, then
// preference (automatic and preferred first).
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		fi, fj := candidates[i].fix, candidates[j].fix
		if fi.IsAutomatic() != fj.IsAutomatic() {
			return fi.IsAutomatic()
		}
		if fi.IsPreferred != fj.IsPreferred {
			return fi.IsPreferred
		}
		return candidates[i].order < candidates[j].order
	})
}

func selectCandidate(candidates []candidate, fo FixOptions, rejected map[string]bool) (candidate, *SkippedFix, bool) {
	if fo.Mode == ApplyModeID {
		for _, cand := range candidates {
			if cand.fix.ID == fo.TargetID {
				if rejected[cand.fix.ID] {
					return candidate{}, nil, false
				}
				return cand, nil, true
			}
		}
		return candidate{}, &SkippedFix{ID: fo.TargetID, Reason: "fix id not found"}, false
	}
	for _, cand := range candidates {
		if !rejected[cand.fix.ID] {
			return cand, nil, true
		}
	}
	return candidate{}, nil, false
}

func writeBack(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
