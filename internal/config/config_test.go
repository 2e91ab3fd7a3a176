package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esfix/internal/diag"
	"esfix/internal/rule"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, `
[engine]
on_rule_error = "file"
jobs = 4

[rules]
"throw-new-error" = "warn"
"prefer-spread" = "off"

[rule_options.no-useless-undefined]
checkArguments = false
`)
	deep := filepath.Join(root, "src", "lib")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	cfg, err := Load(deep)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, rule.FailFile, cfg.Policy())
	assert.Equal(t, 4, cfg.Engine.Jobs)
	assert.Equal(t, 10, cfg.Fix.MaxPasses, "defaults survive")
	assert.True(t, cfg.HasExtension("a.MJS"))

	rc, ok := cfg.RuleConfig("throw-new-error")
	require.True(t, ok)
	assert.Equal(t, diag.SevWarning, rc.Severity)

	_, ok = cfg.RuleConfig("prefer-spread")
	assert.False(t, ok)

	rc, ok = cfg.RuleConfig("no-useless-undefined")
	require.True(t, ok)
	assert.Equal(t, diag.SevError, rc.Severity)
	assert.False(t, rc.Options.Bool("checkArguments", true))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, rule.FailRule, cfg.Policy())
	assert.True(t, cfg.Excluded("node_modules"))
	assert.False(t, cfg.HasExtension("a.ts"))
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"syntax":         "[engine\n",
		"unknown key":    "[engine]\ncolour = true\n",
		"bad policy":     "[engine]\non_rule_error = \"project\"\n",
		"bad level":      "[rules]\nfoo = \"loud\"\n",
		"bad max passes": "[fix]\nmax_passes = 0\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), content)
			_, err := DecodeFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestUnknownRules(t *testing.T) {
	cfg := Default()
	cfg.Rules["known"] = "error"
	cfg.Rules["typo"] = "warn"
	cfg.RuleOptions["other"] = map[string]any{}
	got := cfg.UnknownRules(func(name string) bool { return name == "known" })
	assert.Equal(t, []string{"other", "typo"}, got)
}

func TestFingerprint(t *testing.T) {
	a, b := Default(), Default()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	b.Rules["throw-new-error"] = "off"
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	b = Default()
	b.Fix.Verify = true
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "fix settings do not change lint results")
}

func TestTemplateRoundTrips(t *testing.T) {
	path := writeConfig(t, t.TempDir(), Template([]string{"a-rule", "b-rule"}))
	cfg, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a-rule": "error", "b-rule": "error"}, cfg.Rules)
}
