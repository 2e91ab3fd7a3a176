package rule

import (
	"fmt"
	"path/filepath"

	"esfix/internal/ast"
	"esfix/internal/diag"
	"esfix/internal/pkgmeta"
	"esfix/internal/sourcecode"
)

type registration struct {
	key     EventKey
	handler Handler
	owner   *Context
}

// Options is the free-form option table configured for a rule.
type Options map[string]any

// String returns the string option key, or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Bool returns the boolean option key, or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// Int returns the integer option key, or def. TOML integers decode as int64.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// Strings returns the string list option key.
func (o Options) Strings(key string) []string {
	raw, ok := o[key].([]any)
	if !ok {
		if s, ok := o[key].([]string); ok {
			return s
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Config is what the host hands to every rule activation.
type Config struct {
	Severity diag.Severity
	Options  Options
	Packages *pkgmeta.Cache
}

// Context is one rule's activation on one file.
type Context struct {
	def  *Definition
	sc   *sourcecode.SourceCode
	cfg  Config
	regs []registration
}

// NewContext activates def on sc: Create is called and its registrations kept.
func NewContext(def *Definition, sc *sourcecode.SourceCode, cfg Config) (*Context, error) {
	ctx := &Context{def: def, sc: sc, cfg: cfg}
	if def.Create == nil {
		return ctx, nil
	}
	if err := def.Create(ctx); err != nil {
		return nil, fmt.Errorf("rule %s: %w", def.Name, err)
	}
	return ctx, nil
}

// On registers h for nodes of kind on enter.
func (c *Context) On(kind ast.Kind, h Handler) {
	c.regs = append(c.regs, registration{key: EventKey{Kind: kind, Phase: PhaseEnter}, handler: h, owner: c})
}

// OnAny registers h for each of kinds on enter.
func (c *Context) OnAny(kinds []ast.Kind, h Handler) {
	for _, k := range kinds {
		c.On(k, h)
	}
}

// OnExit registers h for nodes of kind on exit.
func (c *Context) OnExit(kind ast.Kind, h Handler) {
	c.regs = append(c.regs, registration{key: EventKey{Kind: kind, Phase: PhaseExit}, handler: h, owner: c})
}

// OnExitAny registers h for each of kinds on exit.
func (c *Context) OnExitAny(kinds []ast.Kind, h Handler) {
	for _, k := range kinds {
		c.OnExit(k, h)
	}
}

// Rule returns the definition this context activates.
func (c *Context) Rule() *Definition { return c.def }

// Source returns the file snapshot.
func (c *Context) Source() *sourcecode.SourceCode { return c.sc }

// Options returns the rule's configured options.
func (c *Context) Options() Options {
	if c.cfg.Options == nil {
		return Options{}
	}
	return c.cfg.Options
}

// Filename returns the path of the file being linted.
func (c *Context) Filename() string { return c.sc.File.Path }

// PackageMeta returns the package.json nearest to the file, if any.
func (c *Context) PackageMeta() (*pkgmeta.Package, bool) {
	if c.cfg.Packages == nil {
		return nil, false
	}
	pkg, err := c.cfg.Packages.Nearest(filepath.Dir(c.Filename()))
	if err != nil || pkg == nil {
		return nil, false
	}
	return pkg, true
}
