package linter

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esfix/internal/ast"
	"esfix/internal/config"
	"esfix/internal/diag"
	"esfix/internal/observ"
	"esfix/internal/rule"
	"esfix/internal/rules"
	"esfix/internal/source"
)

func virtualFile(src string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.js", []byte(src)))
}

func TestLintFileRunsEnabledRules(t *testing.T) {
	cfg := config.Default()
	cfg.Rules["prefer-spread"] = "off"
	cfg.Rules["throw-new-error"] = "warn"

	tm := observ.NewTimer()
	res, err := LintFile(virtualFile("throw lib.CustomError('x');\nconst a = Array.from(b);\nconst m = Map();"), Options{
		Rules:  rules.All(),
		Config: cfg,
		Timer:  tm,
	})
	require.NoError(t, err)
	require.False(t, res.SyntaxError())
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, diag.Code("throw-new-error"), res.Diagnostics[0].Code)
	assert.Equal(t, diag.SevWarning, res.Diagnostics[0].Severity)
	assert.Equal(t, diag.Code("new-for-builtins"), res.Diagnostics[1].Code)
	assert.Len(t, tm.Report().Phases, 2)
}

func TestLintFileSyntaxError(t *testing.T) {
	res, err := LintFile(virtualFile("const = 1;"), Options{Rules: rules.All()})
	require.NoError(t, err)
	assert.True(t, res.SyntaxError())
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diag.SevError, res.Diagnostics[0].Severity)
	assert.NotEqual(t, diag.EngRuleFailed, res.Diagnostics[0].Code)
}

func TestLintFileBadRuleOptions(t *testing.T) {
	cfg := config.Default()
	cfg.RuleOptions["expiring-todo-comments"] = map[string]any{"date": "tomorrow"}
	res, err := LintFile(virtualFile("x();"), Options{Rules: rules.All(), Config: cfg})
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diag.EngRuleFailed, res.Diagnostics[0].Code)
}

func panicky() *rule.Definition {
	return &rule.Definition{
		Name: "panicky",
		Create: func(c *rule.Context) error {
			c.On(ast.CallExpression, func(*ast.Node) iter.Seq[*rule.Problem] {
				panic("bad rule")
			})
			return nil
		},
	}
}

func TestLintFileFailurePolicy(t *testing.T) {
	defs := append(rules.All(), panicky())
	src := "throw lib.CustomError('x');"

	res, err := LintFile(virtualFile(src), Options{Rules: defs})
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Len(t, res.Diagnostics, 2)

	cfg := config.Default()
	cfg.Engine.OnRuleError = "file"
	_, err = LintFile(virtualFile(src), Options{Rules: defs, Config: cfg})
	var re *rule.RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "panicky", re.Rule)
}

func TestLintFileDiagnosticLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.MaxDiagnostics = 2
	res, err := LintFile(virtualFile("Map(); Set(); WeakMap();"), Options{Rules: rules.All(), Config: cfg})
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 3)
	assert.Equal(t, diag.Code("new-for-builtins"), res.Diagnostics[1].Code)
	last := res.Diagnostics[2]
	assert.Equal(t, diag.EngTruncated, last.Code)
	assert.Equal(t, diag.SevInfo, last.Severity)
	assert.Equal(t, "1 more diagnostics not shown (max_diagnostics = 2)", last.Message)
}
