package driver

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esfix/internal/ast"
	"esfix/internal/config"
	"esfix/internal/diag"
	"esfix/internal/fix"
	"esfix/internal/observ"
	"esfix/internal/rule"
	"esfix/internal/rules"
	"esfix/internal/source"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testOptions() Options {
	return Options{
		Config: config.Default(),
		Rules:  rules.All(),
		Jobs:   2,
		Now:    func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func diagCodes(diags []*diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.js", "")
	writeFile(t, dir, "b.ts", "")
	writeFile(t, dir, "node_modules/x.js", "")
	writeFile(t, dir, "sub/c.mjs", "")
	single := writeFile(t, dir, "other.txt", "")

	files, err := ListFiles([]string{dir, single}, config.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.js"),
		filepath.Join(dir, "other.txt"),
		filepath.Join(dir, "sub", "c.mjs"),
	}, files)

	_, err = ListFiles([]string{filepath.Join(dir, "missing")}, nil)
	assert.Error(t, err)
}

func TestLintFilesUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.js", "throw lib.CustomError('x');\n")
	cache, err := OpenResultCache(filepath.Join(dir, ".cache"))
	require.NoError(t, err)

	opts := testOptions()
	opts.Cache = cache
	var events []Event
	opts.Jobs = 1
	opts.Observer = func(ev Event) { events = append(events, ev) }

	first, err := LintFiles(context.Background(), []string{path}, opts)
	require.NoError(t, err)
	require.Len(t, first.Files, 1)
	assert.False(t, first.Files[0].Cached)
	assert.Equal(t, []string{"throw-new-error"}, diagCodes(first.Files[0].Diagnostics))

	second, err := LintFiles(context.Background(), []string{path}, opts)
	require.NoError(t, err)
	assert.True(t, second.Files[0].Cached)
	assert.Equal(t, first.Files[0].Diagnostics[0].Message, second.Files[0].Diagnostics[0].Message)
	assert.Equal(t, first.Files[0].Diagnostics[0].Primary.Start, second.Files[0].Diagnostics[0].Primary.Start)

	last := events[len(events)-1]
	assert.Equal(t, StatusCached, last.Status)
	assert.Equal(t, 1, last.Diagnostics)

	errs, warnings := second.Counts()
	assert.Equal(t, 1, errs)
	assert.Equal(t, 0, warnings)
}

func TestLintFilesReportsUnreadableFile(t *testing.T) {
	run, err := LintFiles(context.Background(), []string{filepath.Join(t.TempDir(), "gone.js")}, testOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{diag.IOReadFailed.ID()}, diagCodes(run.Diagnostics()))
}

func TestLintFilesUnknownRule(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.js", "let a = 1;\n")
	opts := testOptions()
	opts.Config.Rules["no-such-rule"] = "warn"

	run, err := LintFiles(context.Background(), []string{path}, opts)
	require.NoError(t, err)
	require.Len(t, run.Config, 1)
	assert.Equal(t, diag.EngUnknownRule, run.Config[0].Code)
	assert.Contains(t, run.Config[0].Message, "no-such-rule")
}

func TestFixFilesAppliesAllPasses(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.js", "const a = Array.from(b);\nthrow Error('x');\nfoo(1, undefined);\n")

	results, err := FixFiles(context.Background(), []string{path}, testOptions(), FixOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	res := results[0]
	require.NoError(t, res.Err)
	assert.True(t, res.Written)
	assert.Len(t, res.Applied, 3)
	assert.Empty(t, res.Remaining)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "const a = [...b];\nthrow new Error('x');\nfoo(1);\n", string(got))
}

func TestFixPreservesBOMAndCRLF(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.js", "\ufeffthrow Error('x');\r\nlet a = undefined;\r\n")
	require.NoError(t, os.Chmod(path, 0o600))

	res := FixFile(context.Background(), path, testOptions(), FixOptions{})
	require.NoError(t, res.Err)
	assert.Equal(t, source.FileHadBOM|source.FileNormalizedCRLF, res.Flags)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\ufeffthrow new Error('x');\r\nlet a;\r\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFixDryRunLeavesFile(t *testing.T) {
	const src = "throw Error('x');\n"
	path := writeFile(t, t.TempDir(), "a.js", src)

	res := FixFile(context.Background(), path, testOptions(), FixOptions{DryRun: true})
	require.NoError(t, res.Err)
	assert.False(t, res.Written)
	assert.Equal(t, "throw new Error('x');\n", string(res.Fixed))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src, string(got))

	patch := UnifiedDiff("a.js", res.Original, res.Fixed)
	assert.Contains(t, patch, "-throw Error('x');\n")
	assert.Contains(t, patch, "+throw new Error('x');\n")
}

func TestFixOnceAppliesSingleFix(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.js", "throw Error('x');\nthrow TypeError('y');\n")

	res := FixFile(context.Background(), path, testOptions(), FixOptions{Mode: ApplyModeOnce, DryRun: true})
	require.NoError(t, res.Err)
	require.Len(t, res.Applied, 1)
	assert.Equal(t, 1, res.Passes)
	assert.Equal(t, "throw new Error('x');\nthrow TypeError('y');\n", string(res.Fixed))
	assert.NotEmpty(t, res.Remaining)
}

func TestFixByID(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.js", "throw lib.CustomError('x');\nconst a = Array.from(b);\n")
	opts := testOptions()

	run, err := LintFiles(context.Background(), []string{path}, opts)
	require.NoError(t, err)
	var target string
	for _, d := range run.Diagnostics() {
		if d.Code == "prefer-spread" {
			target = FixID(d, 0)
		}
	}
	require.NotEmpty(t, target)

	res := FixFile(context.Background(), path, opts, FixOptions{Mode: ApplyModeID, TargetID: target, DryRun: true})
	require.NoError(t, res.Err)
	require.Len(t, res.Applied, 1)
	assert.Equal(t, "throw lib.CustomError('x');\nconst a = [...b];\n", string(res.Fixed))

	res = FixFile(context.Background(), path, opts, FixOptions{Mode: ApplyModeID, TargetID: "nope", DryRun: true})
	assert.Empty(t, res.Applied)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "fix id not found", res.Skipped[0].Reason)
}

func TestFixRollsBackBrokenOutput(t *testing.T) {
	broken := &rule.Definition{
		Name:    "broken-fix",
		Fixable: true,
		Create: func(c *rule.Context) error {
			c.On(ast.Identifier, func(n *ast.Node) iter.Seq[*rule.Problem] {
				if n.Name != "bad" {
					return nil
				}
				return rule.Report(&rule.Problem{Node: n, Message: "bad name", Fix: func(fx *fix.Fixer) error {
					return fx.Replace(n, "(")
				}})
			})
			return nil
		},
	}
	opts := testOptions()
	opts.Rules = []*rule.Definition{broken}
	content := []byte("bad();\n")

	res := FixContent(context.Background(), "a.js", content, 0, opts, FixOptions{}, nil)
	require.NoError(t, res.Err)
	assert.Empty(t, res.Applied)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, string(content), string(res.Fixed))
	assert.Len(t, res.Remaining, 1)

	fs, diags := CollectFixDiagnostics([]*FixResult{res, {Path: "gone.js", Remaining: []*diag.Diagnostic{
		ptr(diag.New(diag.SevError, diag.IOReadFailed, source.Nowhere, "gone.js: missing")),
	}}})
	require.Len(t, diags, 3)
	assert.Equal(t, []string{"broken-fix", string(diag.EngFixRejected), string(diag.IOReadFailed)}, diagCodes(diags))
	file := fs.Get(diags[0].Primary.File)
	assert.Equal(t, "bad", file.Text(diags[0].Primary))
	assert.Contains(t, diags[1].Message, "not applied")
	assert.True(t, diags[2].Primary.IsNowhere())
}

func ptr[T any](v T) *T { return &v }

func TestFixSkipsSyntaxErrors(t *testing.T) {
	res := FixContent(context.Background(), "a.js", []byte("throw Error(;\n"), 0, testOptions(), FixOptions{}, nil)
	require.NoError(t, res.Err)
	assert.Empty(t, res.Applied)
	require.Len(t, res.Remaining, 1)
	assert.True(t, res.Remaining[0].Code.IsFatal())
}

func TestParseApplyMode(t *testing.T) {
	for in, want := range map[string]ApplyMode{"": ApplyModeAll, "all": ApplyModeAll, "once": ApplyModeOnce, "id": ApplyModeID} {
		got, err := ParseApplyMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseApplyMode("some")
	assert.Error(t, err)
}

func TestUnifiedDiffHunks(t *testing.T) {
	var before, after []string
	for i := range 20 {
		line := "line" + string(rune('a'+i))
		before = append(before, line)
		if i == 2 || i == 15 {
			line = strings.ToUpper(line)
		}
		after = append(after, line)
	}
	patch := UnifiedDiff("x.js", []byte(strings.Join(before, "\n")+"\n"), []byte(strings.Join(after, "\n")+"\n"))
	assert.Equal(t, 2, strings.Count(patch, "@@ -"))
	assert.Contains(t, patch, "@@ -1,6 +1,6 @@\n")
	assert.Contains(t, patch, "-linec\n+LINEC\n")
	assert.Contains(t, patch, "-linep\n+LINEP\n")
	assert.Empty(t, UnifiedDiff("x.js", []byte("a\n"), []byte("a\n")))
}

func TestTokenizeAndParse(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.js", "// hi\nlet a = 1;\n")
	tok, err := Tokenize(path, 10)
	require.NoError(t, err)
	assert.Len(t, tok.Tokens, 5)
	assert.Len(t, tok.Comments, 1)

	parsed, err := Parse(path, 10)
	require.NoError(t, err)
	require.NotNil(t, parsed.Program)
	assert.Equal(t, ast.Program, parsed.Program.Kind)
	assert.Len(t, parsed.Tokens, 5)
	assert.Zero(t, parsed.Bag.Len())

	bad := writeFile(t, t.TempDir(), "b.js", "let = ;\n")
	parsed, err = Parse(bad, 10)
	require.NoError(t, err)
	assert.Nil(t, parsed.Program)
	assert.Equal(t, 1, parsed.Bag.Len())

	_, err = Parse(filepath.Join(t.TempDir(), "missing.js"), 10)
	assert.Error(t, err)
}

func TestTimingDiagnostic(t *testing.T) {
	assert.Nil(t, TimingDiagnostic("lint", 0, nil))

	timer := observ.NewTimer()
	timer.Track("parse")("a.js")
	d := TimingDiagnostic("", 1, timer)
	require.NotNil(t, d)
	assert.Equal(t, diag.ObsTimings, d.Code)
	assert.Contains(t, d.Message, "timings (lint)")
	require.Len(t, d.Notes, 1)
	assert.Contains(t, d.Notes[0].Msg, `"name":"parse"`)
}
