// Package linter runs a set of rules over one file in a single traversal.
package linter

import (
	"errors"
	"fmt"

	"esfix/internal/config"
	"esfix/internal/diag"
	"esfix/internal/observ"
	"esfix/internal/parser"
	"esfix/internal/pkgmeta"
	"esfix/internal/rule"
	"esfix/internal/source"
	"esfix/internal/sourcecode"
)

// Options selects the rules and their settings for LintFile.
type Options struct {
	// Rules are activated in this order; the order fixes report order
	// between rules on the same node.
	Rules  []*rule.Definition
	Config *config.Config
	// Packages is the per-run package.json memo; nil disables lookups.
	Packages *pkgmeta.Cache
	// Timer, when set, receives parse and lint phases.
	Timer *observ.Timer
}

// Result is the outcome of linting one file.
type Result struct {
	File        *source.File
	Source      *sourcecode.SourceCode // nil when the file does not parse
	Diagnostics []*diag.Diagnostic
	Failures    []*rule.RuleError
}

// SyntaxError reports whether the file failed to parse.
func (r *Result) SyntaxError() bool {
	return r.Source == nil && len(r.Diagnostics) > 0 && r.Diagnostics[0].Code.IsFatal()
}

// LintFile parses file and runs the enabled rules. A syntax error yields a
// single fatal diagnostic and no rule runs. An error is returned only under
// the file failure policy, when a rule fails.
func LintFile(file *source.File, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	res := &Result{File: file}

	done := opts.Timer.Track("parse")
	parsed, err := parser.ParseFile(file, parser.Options{})
	done(file.Path)
	if err != nil {
		var se *parser.SyntaxError
		if !errors.As(err, &se) {
			return nil, fmt.Errorf("%s: %w", file.Path, err)
		}
		res.Diagnostics = []*diag.Diagnostic{se.Diagnostic()}
		return res, nil
	}
	sc := sourcecode.New(file, parsed)
	res.Source = sc

	defer opts.Timer.Track("lint")(file.Path)

	contexts := make([]*rule.Context, 0, len(opts.Rules))
	for _, def := range opts.Rules {
		rc, enabled := cfg.RuleConfig(def.Name)
		if !enabled {
			continue
		}
		rc.Packages = opts.Packages
		ctx, err := rule.NewContext(def, sc, rc)
		if err != nil {
			// неверные опции правила относятся к конфигурации, а не к коду
			d := diag.New(diag.SevError, diag.EngRuleFailed, source.Point(file.ID, 0), err.Error())
			res.Diagnostics = append(res.Diagnostics, &d)
			continue
		}
		contexts = append(contexts, ctx)
	}

	v := rule.BuildVisitor(cfg.Policy(), contexts...)
	diags, err := v.Run(sc.AST)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Path, err)
	}
	res.Failures = v.Failures()

	bag := diag.NewBag(cfg.Engine.MaxDiagnostics)
	for _, d := range res.Diagnostics {
		bag.Add(d)
	}
	for _, d := range diags {
		bag.Add(d)
	}
	bag.Dedup()
	bag.Sort()
	res.Diagnostics = bag.Items()
	if n := bag.Dropped(); n > 0 {
		d := diag.New(diag.SevInfo, diag.EngTruncated, source.Point(file.ID, 0),
			fmt.Sprintf("%d more diagnostics not shown (max_diagnostics = %d)", n, bag.Limit()))
		res.Diagnostics = append(res.Diagnostics, &d)
	}
	return res, nil
}
