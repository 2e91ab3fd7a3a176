package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags возвращает флаги к значениям по умолчанию: rootCmd общий для тестов.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--color", "off", "--ui", "off"}, args...))
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeJS(t *testing.T, content string) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "app.js")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return dir, path
}

func TestLintReportsProblems(t *testing.T) {
	dir, _ := writeJS(t, "throw Error('x');\n")
	stdout, stderr, err := execute(t, "lint", "--no-cache", "--format", "short", dir)
	require.ErrorIs(t, err, errProblems)
	assert.Contains(t, stdout, "error throw-new-error")
	assert.Contains(t, stdout, "error new-for-builtins")
	assert.Contains(t, stdout, "app.js:1:7")
	// итог печатается только в pretty
	assert.Empty(t, stderr)
}

func TestLintCleanPretty(t *testing.T) {
	dir, _ := writeJS(t, "const a = [...b];\n")
	stdout, stderr, err := execute(t, "lint", "--no-cache", dir)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "ok no problems in 1 files")
}

func TestLintSarif(t *testing.T) {
	dir, _ := writeJS(t, "foo(1, undefined);\n")
	stdout, _, err := execute(t, "lint", "--no-cache", "--format", "sarif", dir)
	require.ErrorIs(t, err, errProblems)

	var log struct {
		Runs []struct {
			Results []struct {
				RuleID string `json:"ruleId"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &log))
	require.Len(t, log.Runs, 1)
	require.Len(t, log.Runs[0].Results, 1)
	assert.Equal(t, "no-useless-undefined", log.Runs[0].Results[0].RuleID)
}

func TestFixDryRunDiff(t *testing.T) {
	_, path := writeJS(t, "throw Error('x');\n")
	stdout, stderr, err := execute(t, "fix", "--dry-run", "--diff", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "-throw Error('x');")
	assert.Contains(t, stdout, "+throw new Error('x');")
	assert.Contains(t, stderr, "would fix 1 problems in 1 of 1 files")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "throw Error('x');\n", string(data))
}

func TestFixWritesFile(t *testing.T) {
	_, path := writeJS(t, "throw Error('x');\nfoo(1, undefined);\n")
	_, _, err := execute(t, "fix", "--quiet", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "throw new Error('x');\nfoo(1);\n", string(data))
}

func TestFixFlagValidation(t *testing.T) {
	_, path := writeJS(t, "x;\n")
	_, _, err := execute(t, "fix", "--mode", "id", path)
	require.ErrorContains(t, err, "--mode id requires --id")
	_, _, err = execute(t, "fix", "--mode", "once", "--id", "a-1-0", path)
	require.ErrorContains(t, err, "cannot be combined")
}

func TestInitWritesConfig(t *testing.T) {
	dir := t.TempDir()
	stdout, _, err := execute(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "created")

	data, err := os.ReadFile(filepath.Join(dir, ".esfix.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"throw-new-error" = "error"`)

	_, _, err = execute(t, "init", dir)
	require.ErrorContains(t, err, "already exists")
	_, _, err = execute(t, "init", "--force", dir)
	require.NoError(t, err)
}

func TestConfigDisablesRule(t *testing.T) {
	dir, _ := writeJS(t, "throw Error('x');\n")
	cfg := "[rules]\n\"throw-new-error\" = \"off\"\n\"new-for-builtins\" = \"off\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".esfix.toml"), []byte(cfg), 0o644))

	_, _, err := execute(t, "lint", "--no-cache", dir)
	require.NoError(t, err)

	stdout, _, err := execute(t, "rules", "--config", filepath.Join(dir, ".esfix.toml"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "throw-new-error")
	assert.Contains(t, stdout, "off")
	assert.Contains(t, stdout, "8 rules, 6 enabled")
}

func TestParseJSON(t *testing.T) {
	_, path := writeJS(t, "a + b;\n")
	stdout, _, err := execute(t, "parse", "--output", "json", path)
	require.NoError(t, err)
	var root struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &root))
	assert.Equal(t, "Program", root.Type)
}

func TestParseSyntaxError(t *testing.T) {
	_, path := writeJS(t, "let = ;\n")
	_, stderr, err := execute(t, "parse", path)
	require.ErrorIs(t, err, errProblems)
	assert.Contains(t, stderr, "SYN")
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--output", "json")
	require.NoError(t, err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Equal(t, "esfix", payload.Tool)
	assert.NotEmpty(t, payload.Version)
	assert.Empty(t, payload.GitCommit)
}

func TestParseToggle(t *testing.T) {
	mode, err := parseToggle("ui", " ON ")
	require.NoError(t, err)
	assert.Equal(t, toggleOn, mode)
	_, err = parseToggle("ui", "sometimes")
	assert.ErrorContains(t, err, "--ui")

	var buf bytes.Buffer
	assert.True(t, toggleOn.enabled(&buf))
	assert.False(t, toggleAuto.enabled(&buf), "a buffer is not a terminal")
	assert.False(t, toggleOff.enabled(&buf))
}

func TestChangedFiles(t *testing.T) {
	_, path := writeJS(t, "x;\n")
	files := changedFiles(map[string]struct{}{
		path:               {},
		filepath.Dir(path): {},
		path + ".deleted":  {},
	})
	assert.Equal(t, []string{path}, files)
}

func TestProfilingFlags(t *testing.T) {
	dir, _ := writeJS(t, "const a = [...b];\n")
	cpu := filepath.Join(t.TempDir(), "cpu.out")
	_, _, err := execute(t, "lint", "--no-cache", "--quiet", "--cpu-profile", cpu, dir)
	require.NoError(t, err)
	stopProfiling(rootCmd)

	info, err := os.Stat(cpu)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
