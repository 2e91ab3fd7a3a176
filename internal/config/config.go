// Package config loads .esfix.toml, the project configuration discovered
// by walking up from the lint target.
package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"esfix/internal/diag"
	"esfix/internal/rule"
)

// FileName is the configuration file looked up by Find.
const FileName = ".esfix.toml"

// Config is the decoded configuration. Path and Root are empty when the
// defaults are used.
type Config struct {
	Path string `toml:"-"`
	Root string `toml:"-"`

	Engine      EngineConfig              `toml:"engine"`
	Fix         FixConfig                 `toml:"fix"`
	Files       FilesConfig               `toml:"files"`
	Cache       CacheConfig               `toml:"cache"`
	Rules       map[string]string         `toml:"rules"`
	RuleOptions map[string]map[string]any `toml:"rule_options"`
}

type EngineConfig struct {
	OnRuleError    string `toml:"on_rule_error"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Jobs           int    `toml:"jobs"`
}

type FixConfig struct {
	MaxPasses   int  `toml:"max_passes"`
	Suggestions bool `toml:"suggestions"`
	Verify      bool `toml:"verify"`
}

type FilesConfig struct {
	Extensions  []string `toml:"extensions"`
	ExcludeDirs []string `toml:"exclude_dirs"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{OnRuleError: "rule", MaxDiagnostics: 200},
		Fix:    FixConfig{MaxPasses: 10},
		Files: FilesConfig{
			Extensions:  []string{".js", ".mjs", ".cjs", ".jsx"},
			ExcludeDirs: []string{"node_modules", ".git"},
		},
		Cache:       CacheConfig{Enabled: true, Dir: ".esfix-cache"},
		Rules:       map[string]string{},
		RuleOptions: map[string]map[string]any{},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and decodes the configuration governing startDir, falling
// back to Default.
func Load(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return DecodeFile(path)
}

// DecodeFile decodes path over the defaults and validates the result.
func DecodeFile(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		var unknown []string
		for _, k := range undecoded {
			// [rule_options.*] свободные таблицы
			if len(k) > 0 && k[0] == "rule_options" {
				continue
			}
			unknown = append(unknown, k.String())
		}
		if len(unknown) > 0 {
			return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(unknown, ", "))
		}
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := rule.ParseFailurePolicy(c.Engine.OnRuleError); err != nil {
		return fmt.Errorf("[engine].on_rule_error: %w", err)
	}
	for name, sev := range c.Rules {
		if _, _, err := ParseSeverity(sev); err != nil {
			return fmt.Errorf("[rules].%s: %w", name, err)
		}
	}
	if c.Fix.MaxPasses < 1 {
		return fmt.Errorf("[fix].max_passes must be positive, got %d", c.Fix.MaxPasses)
	}
	if c.Engine.Jobs < 0 {
		return fmt.Errorf("[engine].jobs must not be negative, got %d", c.Engine.Jobs)
	}
	return nil
}

// ParseSeverity maps a rule level to a severity. "off" disables the rule.
func ParseSeverity(s string) (sev diag.Severity, enabled bool, err error) {
	switch s = strings.ToLower(s); s {
	case "":
		return diag.SevError, true, nil
	case "off", "0":
		return diag.SevInfo, false, nil
	}
	if sev, ok := diag.ParseSeverity(s); ok {
		return sev, true, nil
	}
	return diag.SevError, false, fmt.Errorf("unknown level %q (want error, warn, info or off)", s)
}

// Policy returns the configured failure policy.
func (c *Config) Policy() rule.FailurePolicy {
	p, err := rule.ParseFailurePolicy(c.Engine.OnRuleError)
	if err != nil {
		return rule.FailRule
	}
	return p
}

// RuleConfig returns the activation config of the named rule.
func (c *Config) RuleConfig(name string) (rule.Config, bool) {
	sev, enabled, err := ParseSeverity(c.Rules[name])
	if err != nil || !enabled {
		return rule.Config{}, false
	}
	return rule.Config{Severity: sev, Options: rule.Options(c.RuleOptions[name])}, true
}

// UnknownRules returns configured rule names for which known is false.
func (c *Config) UnknownRules(known func(string) bool) []string {
	var out []string
	for name := range c.Rules {
		if !known(name) {
			out = append(out, name)
		}
	}
	for name := range c.RuleOptions {
		if _, ok := c.Rules[name]; !ok && !known(name) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// HasExtension reports whether path has one of the configured extensions.
func (c *Config) HasExtension(path string) bool {
	return slices.Contains(c.Files.Extensions, strings.ToLower(filepath.Ext(path)))
}

// Excluded reports whether a directory name is skipped during discovery.
func (c *Config) Excluded(dirName string) bool {
	return slices.Contains(c.Files.ExcludeDirs, dirName)
}

// Fingerprint hashes everything that influences lint results; the result
// cache is keyed by it.
func (c *Config) Fingerprint() string {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	_ = enc.Encode(struct {
		Engine      EngineConfig              `toml:"engine"`
		Rules       map[string]string         `toml:"rules"`
		RuleOptions map[string]map[string]any `toml:"rule_options"`
	}{c.Engine, c.Rules, c.RuleOptions})
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:8])
}

// Template returns the file written by `esfix init`, listing every rule at
// its default level.
func Template(ruleNames []string) string {
	var b strings.Builder
	b.WriteString(`# esfix configuration
[engine]
# "rule" reports a failing rule as one diagnostic, "file" aborts the file
on_rule_error = "rule"
max_diagnostics = 200
jobs = 0

[fix]
max_passes = 10
suggestions = false
verify = false

[files]
extensions = [".js", ".mjs", ".cjs", ".jsx"]
exclude_dirs = ["node_modules", ".git"]

[cache]
enabled = true
dir = ".esfix-cache"

[rules]
`)
	for _, name := range ruleNames {
		fmt.Fprintf(&b, "%q = \"error\"\n", name)
	}
	return b.String()
}
