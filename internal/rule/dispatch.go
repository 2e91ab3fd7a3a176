package rule

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"esfix/internal/ast"
	"esfix/internal/diag"
	"esfix/internal/fix"
	"esfix/internal/source"
)

// FailurePolicy decides what a failing rule takes down with it.
type FailurePolicy uint8

const (
	// FailRule drops everything the rule reported for the file and
	// replaces it with one rule-failed diagnostic.
	FailRule FailurePolicy = iota
	// FailFile aborts the whole file pass with an error.
	FailFile
)

// ParseFailurePolicy maps the config spelling ("rule", "file") to a policy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", "rule":
		return FailRule, nil
	case "file":
		return FailFile, nil
	}
	return FailRule, fmt.Errorf("unknown failure policy %q", s)
}

func (p FailurePolicy) String() string {
	if p == FailFile {
		return "file"
	}
	return "rule"
}

// RuleError is a rule failure surfaced under FailFile.
type RuleError struct {
	Rule string
	Span source.Span
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s failed at %s: %v", e.Rule, e.Span, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// ErrHandlerPanic wraps a recovered handler panic.
var ErrHandlerPanic = errors.New("handler panicked")

type ruleState struct {
	ctx     *Context
	failure *RuleError
}

type reported struct {
	owner *ruleState
	d     *diag.Diagnostic
}

// Visitor runs the handlers of several rule contexts in one traversal.
type Visitor struct {
	table   map[EventKey][]registration
	states  map[*Context]*ruleState
	order   []*ruleState
	policy  FailurePolicy
	out     []reported
	aborted *RuleError
}

// BuildVisitor merges the registrations of contexts. Handlers for the same
// key run in context order, then in registration order.
func BuildVisitor(policy FailurePolicy, contexts ...*Context) *Visitor {
	v := &Visitor{
		table:  make(map[EventKey][]registration),
		states: make(map[*Context]*ruleState, len(contexts)),
		policy: policy,
	}
	for _, c := range contexts {
		st := &ruleState{ctx: c}
		v.states[c] = st
		v.order = append(v.order, st)
		for _, r := range c.regs {
			v.table[r.key] = append(v.table[r.key], r)
		}
	}
	return v
}

// Enter implements ast.Visitor.
func (v *Visitor) Enter(n *ast.Node) { v.dispatch(EventKey{Kind: n.Kind, Phase: PhaseEnter}, n) }

// Exit implements ast.Visitor.
func (v *Visitor) Exit(n *ast.Node) { v.dispatch(EventKey{Kind: n.Kind, Phase: PhaseExit}, n) }

// Run walks root with v and returns the results.
func (v *Visitor) Run(root *ast.Node) ([]*diag.Diagnostic, error) {
	ast.Walk(root, v)
	return v.Results()
}

func (v *Visitor) dispatch(key EventKey, n *ast.Node) {
	if v.aborted != nil {
		return
	}
	for _, reg := range v.table[key] {
		st := v.states[reg.owner]
		if st.failure != nil {
			continue
		}
		v.run(st, reg.handler, n)
		if v.aborted != nil {
			return
		}
	}
}

// run вызывает обработчик и сразу выбирает все его проблемы.
func (v *Visitor) run(st *ruleState, h Handler, n *ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			v.fail(st, n, fmt.Errorf("%w: %v\n%s", ErrHandlerPanic, r, debug.Stack()))
		}
	}()
	seq := h(n)
	if seq == nil {
		return
	}
	for p := range seq {
		if p == nil {
			continue
		}
		d, err := st.ctx.materialize(p)
		if err != nil {
			v.fail(st, n, err)
			return
		}
		v.out = append(v.out, reported{owner: st, d: d})
	}
}

func (v *Visitor) fail(st *ruleState, n *ast.Node, err error) {
	st.failure = &RuleError{Rule: st.ctx.def.Name, Span: n.Span, Err: err}
	if v.policy == FailFile {
		v.aborted = st.failure
	}
}

// Results returns the diagnostics in report order. Rules that failed
// contribute a single rule-failed diagnostic instead of their reports.
// Under FailFile the first failure is returned as a *RuleError.
func (v *Visitor) Results() ([]*diag.Diagnostic, error) {
	if v.aborted != nil {
		return nil, v.aborted
	}
	out := make([]*diag.Diagnostic, 0, len(v.out))
	for _, r := range v.out {
		if r.owner.failure == nil {
			out = append(out, r.d)
		}
	}
	for _, st := range v.order {
		if st.failure == nil {
			continue
		}
		msg := fmt.Sprintf("rule %s failed: %v", st.failure.Rule, firstLine(st.failure.Err.Error()))
		d := diag.New(diag.SevError, diag.EngRuleFailed, st.failure.Span, msg)
		out = append(out, &d)
	}
	return out, nil
}

// Failures returns the failed rules' errors in context order.
func (v *Visitor) Failures() []*RuleError {
	var out []*RuleError
	for _, st := range v.order {
		if st.failure != nil {
			out = append(out, st.failure)
		}
	}
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// materialize превращает Problem в диагностику; патчи вычисляются здесь,
// чтобы нарушение инварианта засчитывалось правилу.
func (c *Context) materialize(p *Problem) (*diag.Diagnostic, error) {
	msg, err := c.message(p.MessageID, p.Message, p.Data)
	if err != nil {
		return nil, err
	}
	d := diag.New(c.cfg.Severity, diag.Code(c.def.Name), p.span(), msg)
	d.MessageID = p.MessageID

	if p.Fix != nil {
		f, err := c.resolve(fix.Lazy(msg, c.sc, p.Fix, fix.Preferred()))
		if err != nil {
			return nil, err
		}
		d = d.WithFixSuggestion(f)
	}
	for _, s := range p.Suggestions {
		title, err := c.message(s.MessageID, "", s.Data)
		if err != nil {
			return nil, err
		}
		f, err := c.resolve(fix.Lazy(title, c.sc, s.Fix, fix.WithApplicability(diag.FixApplicabilityManualReview)))
		if err != nil {
			return nil, err
		}
		d = d.WithFixSuggestion(f)
	}
	return &d, nil
}

// resolve вычисляет патч; ErrNoPatch и пустой патч дают диагностику без fix.
func (c *Context) resolve(f *diag.Fix) (*diag.Fix, error) {
	if f.Thunk == nil {
		return f, nil
	}
	resolved, err := f.Resolve(diag.FixBuildContext{})
	switch {
	case err == nil:
		return resolved, nil
	case errors.Is(err, fix.ErrNoPatch), errors.Is(err, diag.ErrEmptyFix):
		return nil, nil
	}
	return nil, err
}

// message renders a message template, replacing {{key}} with data[key].
func (c *Context) message(id, literal string, data map[string]string) (string, error) {
	tmpl := literal
	if id != "" {
		t, ok := c.def.Messages[id]
		if !ok {
			return "", fmt.Errorf("%w: unknown message id %q", fix.ErrInvariant, id)
		}
		tmpl = t
	}
	if tmpl == "" {
		return "", fmt.Errorf("%w: problem without message", fix.ErrInvariant)
	}
	if len(data) == 0 || !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}
	var b strings.Builder
	for {
		open := strings.Index(tmpl, "{{")
		if open < 0 {
			break
		}
		end := strings.Index(tmpl[open:], "}}")
		if end < 0 {
			break
		}
		key := strings.TrimSpace(tmpl[open+2 : open+end])
		b.WriteString(tmpl[:open])
		if v, ok := data[key]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(tmpl[open : open+end+2])
		}
		tmpl = tmpl[open+end+2:]
	}
	b.WriteString(tmpl)
	return b.String(), nil
}
