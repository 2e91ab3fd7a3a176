package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"esfix/internal/config"
	"esfix/internal/diag"
	"esfix/internal/linter"
	"esfix/internal/observ"
	"esfix/internal/pkgmeta"
	"esfix/internal/rule"
	"esfix/internal/source"
	"esfix/internal/version"
)

// Options configures a lint or fix run.
type Options struct {
	Config *config.Config
	Rules  []*rule.Definition
	// Jobs bounds the number of files processed at once; <= 0 means GOMAXPROCS.
	Jobs     int
	Cache    *ResultCache
	Logger   *slog.Logger
	Timer    *observ.Timer
	Observer Observer
	// Now is the clock used for date-keyed cache entries; nil means time.Now.
	Now func() time.Time
}

func (o *Options) normalize() {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Logger == nil {
		o.Logger = observ.Discard()
	}
	if o.Jobs <= 0 {
		o.Jobs = o.Config.Engine.Jobs
	}
	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

func (o *Options) enabledRules() []string {
	var names []string
	for _, def := range o.Rules {
		if _, ok := o.Config.RuleConfig(def.Name); ok {
			names = append(names, def.Name)
		}
	}
	return names
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path        string
	File        *source.File // nil when the file could not be read
	Diagnostics []*diag.Diagnostic
	Cached      bool
	// Err is set when the file pass was aborted under the file failure
	// policy.
	Err error
}

// Run is the outcome of LintFiles.
type Run struct {
	FileSet *source.FileSet
	Files   []FileResult
	// Config holds run-level problems such as unknown rule names.
	Config []*diag.Diagnostic
}

// Diagnostics returns every diagnostic of the run in file order.
func (r *Run) Diagnostics() []*diag.Diagnostic {
	out := append([]*diag.Diagnostic(nil), r.Config...)
	for _, f := range r.Files {
		out = append(out, f.Diagnostics...)
	}
	return out
}

// Counts returns the number of errors and warnings.
func (r *Run) Counts() (errs, warnings int) {
	for _, d := range r.Diagnostics() {
		switch {
		case d.Severity >= diag.SevError:
			errs++
		case d.Severity == diag.SevWarning:
			warnings++
		}
	}
	return errs, warnings
}

// Failed reports whether any file pass was aborted.
func (r *Run) Failed() bool {
	for _, f := range r.Files {
		if f.Err != nil {
			return true
		}
	}
	return false
}

// LintFiles lints paths in parallel. Files are loaded up front so that the
// FileSet is only read by the workers.
func LintFiles(ctx context.Context, paths []string, opts Options) (*Run, error) {
	opts.normalize()
	run := &Run{FileSet: source.NewFileSet(), Files: make([]FileResult, len(paths))}
	run.Config = unknownRuleDiagnostics(opts)

	// Создаём FileSet и предзагружаем все файлы
	fileIDs := make([]source.FileID, len(paths))
	loadErrors := make(map[int]error)
	for i, path := range paths {
		opts.Observer.emit(Event{File: path, Status: StatusQueued})
		id, err := run.FileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			continue
		}
		fileIDs[i] = id
	}
	if len(paths) == 0 {
		return run, nil
	}

	packages := pkgmeta.NewCache()
	ruleNames := opts.enabledRules()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			if loadErr, bad := loadErrors[i]; bad {
				d := diag.New(diag.SevError, diag.IOReadFailed, source.Nowhere, fmt.Sprintf("%s: %v", path, loadErr))
				run.Files[i] = FileResult{Path: path, Diagnostics: []*diag.Diagnostic{&d}}
				opts.Observer.emit(Event{File: path, Status: StatusError})
				return nil
			}
			// индекс i уникален, мьютекс не нужен
			run.Files[i] = lintOne(run.FileSet.Get(fileIDs[i]), opts, packages, ruleNames)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return run, err
	}
	return run, nil
}

func lintOne(file *source.File, opts Options, packages *pkgmeta.Cache, ruleNames []string) FileResult {
	res := FileResult{Path: file.Path, File: file}
	log := opts.Logger.With("file", file.Path)

	var key CacheKey
	useCache := opts.Cache != nil
	if useCache {
		pkg, err := packages.Nearest(filepath.Dir(file.Path))
		if err != nil {
			log.Debug("package.json lookup failed", "err", err)
		}
		key, err = KeyInput{
			File:        file,
			Fingerprint: opts.Config.Fingerprint(),
			Version:     version.Version,
			Rules:       ruleNames,
			Package:     pkg,
			Day:         opts.Now(),
		}.Key()
		if err != nil {
			useCache = false
		} else if diags, ok, err := opts.Cache.Get(key, file); err != nil {
			log.Debug("cache read failed", "err", err)
		} else if ok {
			log.Debug("cache hit")
			res.Diagnostics, res.Cached = diags, true
			opts.Observer.emit(Event{File: file.Path, Stage: StageLint, Status: StatusCached, Diagnostics: len(diags)})
			return res
		}
	}

	opts.Observer.emit(Event{File: file.Path, Stage: StageLint, Status: StatusWorking})
	out, err := linter.LintFile(file, linter.Options{
		Rules:    opts.Rules,
		Config:   opts.Config,
		Packages: packages,
		Timer:    opts.Timer,
	})
	if err != nil {
		var re *rule.RuleError
		if errors.As(err, &re) {
			log.Warn("rule failed, file skipped", "rule", re.Rule, "err", re.Err)
		}
		res.Err = err
		d := diag.New(diag.SevError, diag.EngRuleFailed, source.Point(file.ID, 0), err.Error())
		res.Diagnostics = []*diag.Diagnostic{&d}
		opts.Observer.emit(Event{File: file.Path, Stage: StageLint, Status: StatusError})
		return res
	}
	for _, f := range out.Failures {
		log.Warn("rule failed", "rule", f.Rule, "err", f.Err)
	}
	res.Diagnostics = out.Diagnostics
	if useCache {
		if err := opts.Cache.Put(key, file, res.Diagnostics); err != nil {
			log.Debug("cache write failed", "err", err)
		}
	}
	opts.Observer.emit(Event{File: file.Path, Stage: StageLint, Status: StatusDone, Diagnostics: len(res.Diagnostics)})
	return res
}

func unknownRuleDiagnostics(opts Options) []*diag.Diagnostic {
	known := make(map[string]bool, len(opts.Rules))
	for _, def := range opts.Rules {
		known[def.Name] = true
	}
	var out []*diag.Diagnostic
	for _, name := range opts.Config.UnknownRules(func(n string) bool { return known[n] }) {
		msg := fmt.Sprintf("unknown rule %q", name)
		if opts.Config.Path != "" {
			msg = fmt.Sprintf("%s: %s", opts.Config.Path, msg)
		}
		d := diag.NewWarning(diag.EngUnknownRule, source.Nowhere, msg)
		out = append(out, &d)
	}
	return out
}
