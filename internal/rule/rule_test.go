package rule

import (
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esfix/internal/ast"
	"esfix/internal/diag"
	"esfix/internal/fix"
	"esfix/internal/source"
	"esfix/internal/sourcecode"
)

func makeSource(t *testing.T, src string) *sourcecode.SourceCode {
	t.Helper()
	fs := source.NewFileSet()
	sc, err := sourcecode.Parse(fs.Get(fs.AddVirtual("test.js", []byte(src))))
	require.NoError(t, err)
	return sc
}

func activate(t *testing.T, sc *sourcecode.SourceCode, defs ...*Definition) []*Context {
	t.Helper()
	out := make([]*Context, 0, len(defs))
	for _, def := range defs {
		ctx, err := NewContext(def, sc, Config{Severity: diag.SevWarning})
		require.NoError(t, err)
		out = append(out, ctx)
	}
	return out
}

func run(t *testing.T, policy FailurePolicy, src string, defs ...*Definition) ([]*diag.Diagnostic, error) {
	t.Helper()
	sc := makeSource(t, src)
	return BuildVisitor(policy, activate(t, sc, defs...)...).Run(sc.AST)
}

func codes(diags []*diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, string(d.Code)+": "+d.Message)
	}
	return out
}

func TestEnterExitAccumulation(t *testing.T) {
	exits := 0
	def := &Definition{
		Name:     "count-idents",
		Messages: map[string]string{"total": "{{count}} identifiers"},
		Create: func(c *Context) error {
			var names []string
			c.On(ast.Identifier, func(n *ast.Node) iter.Seq[*Problem] {
				names = append(names, n.Name)
				return nil
			})
			c.OnExit(ast.Program, func(n *ast.Node) iter.Seq[*Problem] {
				exits++
				return Report(&Problem{Node: n, MessageID: "total", Data: map[string]string{
					"count": string(rune('0' + len(names))),
				}})
			})
			return nil
		},
	}
	diags, err := run(t, FailRule, "a(b, c); d", def)
	require.NoError(t, err)
	assert.Equal(t, 1, exits)
	assert.Equal(t, []string{"count-idents: 4 identifiers"}, codes(diags))
	assert.Equal(t, diag.SevWarning, diags[0].Severity)
}

func TestManyAndZeroProblems(t *testing.T) {
	def := &Definition{
		Name: "each-arg",
		Create: func(c *Context) error {
			c.On(ast.CallExpression, func(n *ast.Node) iter.Seq[*Problem] {
				return func(yield func(*Problem) bool) {
					for _, a := range n.Arguments {
						if !yield(&Problem{Node: a, Message: "arg " + a.Name}) {
							return
						}
					}
				}
			})
			c.On(ast.Identifier, func(*ast.Node) iter.Seq[*Problem] {
				return func(yield func(*Problem) bool) {
					yield(nil)
				}
			})
			return nil
		},
	}
	diags, err := run(t, FailRule, "f(a, b); g(); h(c)", def)
	require.NoError(t, err)
	assert.Equal(t, []string{"each-arg: arg a", "each-arg: arg b", "each-arg: arg c"}, codes(diags))
}

func TestOrderingAcrossRules(t *testing.T) {
	mk := func(name string) *Definition {
		return &Definition{
			Name: name,
			Create: func(c *Context) error {
				c.OnAny([]ast.Kind{ast.CallExpression, ast.NewExpression}, func(n *ast.Node) iter.Seq[*Problem] {
					return Report(&Problem{Node: n, Message: n.Callee.Name})
				})
				return nil
			},
		}
	}
	diags, err := run(t, FailRule, "f(); new G()", mk("first"), mk("second"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first: f", "second: f", "first: G", "second: G"}, codes(diags))
}

func TestPanicIsolatedToRule(t *testing.T) {
	good := &Definition{
		Name: "good",
		Create: func(c *Context) error {
			c.On(ast.CallExpression, func(n *ast.Node) iter.Seq[*Problem] {
				return Report(&Problem{Node: n, Message: "call"})
			})
			return nil
		},
	}
	calls := 0
	bad := &Definition{
		Name: "bad",
		Create: func(c *Context) error {
			c.On(ast.CallExpression, func(n *ast.Node) iter.Seq[*Problem] {
				calls++
				if calls == 2 {
					panic("boom")
				}
				return Report(&Problem{Node: n, Message: "reported before failure"})
			})
			return nil
		},
	}
	diags, err := run(t, FailRule, "f(); g(); h()", bad, good)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "failed rule must not run again")
	require.Len(t, diags, 4)
	for _, d := range diags[:3] {
		assert.Equal(t, diag.Code("good"), d.Code)
	}
	last := diags[3]
	assert.Equal(t, diag.EngRuleFailed, last.Code)
	assert.Contains(t, last.Message, "rule bad failed")
	assert.Contains(t, last.Message, "boom")
}

func TestFailFileAborts(t *testing.T) {
	bad := &Definition{
		Name: "bad",
		Create: func(c *Context) error {
			c.On(ast.Identifier, func(*ast.Node) iter.Seq[*Problem] {
				panic("boom")
			})
			return nil
		},
	}
	diags, err := run(t, FailFile, "x", bad)
	require.Error(t, err)
	assert.Nil(t, diags)
	var re *RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "bad", re.Rule)
	assert.ErrorIs(t, err, ErrHandlerPanic)
}

func TestFixResolution(t *testing.T) {
	def := &Definition{
		Name:     "fixes",
		Messages: map[string]string{"m": "call {{name}}", "s": "rename {{name}}"},
		Create: func(c *Context) error {
			c.On(ast.CallExpression, func(n *ast.Node) iter.Seq[*Problem] {
				p := &Problem{Node: n, MessageID: "m", Data: map[string]string{"name": n.Callee.Name}}
				switch n.Callee.Name {
				case "a":
					p.Fix = func(fx *fix.Fixer) error { return fx.Replace(n.Callee, "b") }
				case "noPatch":
					p.Fix = func(*fix.Fixer) error { return fix.ErrNoPatch }
				case "suggest":
					p.Suggestions = []Suggestion{{
						MessageID: "s",
						Data:      map[string]string{"name": "suggest"},
						Fix:       func(fx *fix.Fixer) error { return fx.Replace(n.Callee, "s") },
					}}
				}
				return Report(p)
			})
			return nil
		},
	}
	diags, err := run(t, FailRule, "a(); noPatch(); suggest()", def)
	require.NoError(t, err)
	require.Len(t, diags, 3)

	require.NotNil(t, diags[0].AutoFix())
	assert.Equal(t, "b", diags[0].AutoFix().Edits[0].NewText)
	assert.True(t, diags[0].AutoFix().IsPreferred)
	assert.Empty(t, diags[1].Fixes)
	assert.Nil(t, diags[2].AutoFix())
	require.Len(t, diags[2].Suggestions(), 1)
	assert.Equal(t, "rename suggest", diags[2].Suggestions()[0].Title)
	assert.False(t, diags[2].Suggestions()[0].IsPreferred)
}

func TestInvariantViolationFailsRule(t *testing.T) {
	def := &Definition{
		Name: "overlap",
		Create: func(c *Context) error {
			c.On(ast.CallExpression, func(n *ast.Node) iter.Seq[*Problem] {
				return Report(&Problem{Node: n, Message: "x", Fix: func(fx *fix.Fixer) error {
					if err := fx.Replace(n, "y"); err != nil {
						return err
					}
					return fx.Replace(n.Callee, "z")
				}})
			})
			return nil
		},
	}
	diags, err := run(t, FailRule, "f()", def)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.EngRuleFailed, diags[0].Code)
}

func TestUnknownMessageID(t *testing.T) {
	def := &Definition{
		Name: "missing",
		Create: func(c *Context) error {
			c.On(ast.Program, func(n *ast.Node) iter.Seq[*Problem] {
				return Report(&Problem{Node: n, MessageID: "nope"})
			})
			return nil
		},
	}
	sc := makeSource(t, "")
	v := BuildVisitor(FailRule, activate(t, sc, def)...)
	diags, err := v.Run(sc.AST)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	require.Len(t, v.Failures(), 1)
	assert.True(t, errors.Is(v.Failures()[0].Err, fix.ErrInvariant))
}

func TestCreateError(t *testing.T) {
	sc := makeSource(t, "")
	_, err := NewContext(&Definition{Name: "r", Create: func(*Context) error {
		return errors.New("bad option")
	}}, sc, Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule r")
}

func TestParseFailurePolicy(t *testing.T) {
	for in, want := range map[string]FailurePolicy{"": FailRule, "rule": FailRule, "file": FailFile} {
		got, err := ParseFailurePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NotEmpty(t, got.String())
	}
	_, err := ParseFailurePolicy("project")
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	opts := Options{"s": "x", "b": true, "i": int64(3), "f": 2.0, "l": []any{"a", "b"}}
	assert.Equal(t, "x", opts.String("s", ""))
	assert.Equal(t, "d", opts.String("missing", "d"))
	assert.True(t, opts.Bool("b", false))
	assert.Equal(t, 3, opts.Int("i", 0))
	assert.Equal(t, 2, opts.Int("f", 0))
	assert.Equal(t, []string{"a", "b"}, opts.Strings("l"))
}
