package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"esfix/internal/config"
	"esfix/internal/driver"
	"esfix/internal/observ"
	"esfix/internal/rules"
	"esfix/internal/source"
)

// cliEnv собирает то, что нужно всем командам: конфиг, логгер, флаги вывода.
type cliEnv struct {
	stdout   io.Writer
	stderr   io.Writer
	cfg      *config.Config
	log      *slog.Logger
	timer    *observ.Timer
	color    bool
	quiet    bool
	timings  bool
	format   string
	pathMode source.PathStyle
	ui       toggle
}

// loadEnv reads the persistent flags and the configuration governing
// startDir (or the --config file).
func loadEnv(cmd *cobra.Command, startDir string) (*cliEnv, error) {
	pf := cmd.Root().PersistentFlags()
	env := &cliEnv{stdout: cmd.OutOrStdout(), stderr: cmd.ErrOrStderr()}

	colorMode, err := readToggle(pf, "color")
	if err != nil {
		return nil, err
	}
	env.color = colorMode.enabled(env.stdout)

	if env.quiet, err = pf.GetBool("quiet"); err != nil {
		return nil, err
	}
	if env.timings, err = pf.GetBool("timings"); err != nil {
		return nil, err
	}
	if env.timings {
		env.timer = observ.NewTimer()
	}
	if env.format, err = pf.GetString("format"); err != nil {
		return nil, err
	}
	switch env.format {
	case "pretty", "json", "sarif", "short":
	default:
		return nil, fmt.Errorf("unknown format %q (expected pretty|json|sarif|short)", env.format)
	}

	pathMode, err := pf.GetString("path-mode")
	if err != nil {
		return nil, err
	}
	if env.pathMode, err = source.ParsePathStyle(pathMode); err != nil {
		return nil, err
	}
	if env.ui, err = readToggle(pf, "ui"); err != nil {
		return nil, err
	}

	level, _ := pf.GetString("log-level")
	logFormat, _ := pf.GetString("log-format")
	if env.log, err = observ.NewLogger(env.stderr, observ.LogConfig{Level: level, Format: logFormat}); err != nil {
		return nil, err
	}
	env.timer = env.timer.WithLogger(env.log)

	configPath, err := pf.GetString("config")
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		env.cfg, err = config.DecodeFile(configPath)
	} else {
		env.cfg, err = config.Load(startDir)
	}
	if err != nil {
		return nil, err
	}
	if env.cfg.Path != "" {
		env.log.Debug("configuration loaded", "path", env.cfg.Path)
	}

	if pf.Changed("max-diagnostics") {
		maxDiagnostics, err := pf.GetInt("max-diagnostics")
		if err != nil {
			return nil, err
		}
		env.cfg.Engine.MaxDiagnostics = maxDiagnostics
	}
	return env, nil
}

// startDir: откуда искать конфиг: первый аргумент (или его каталог).
func startDir(args []string) string {
	if len(args) == 0 {
		return "."
	}
	if info, err := os.Stat(args[0]); err == nil && !info.IsDir() {
		return filepath.Dir(args[0])
	}
	return args[0]
}

// driverOptions builds the driver options; withCache opens the result cache
// when the configuration enables it.
func (env *cliEnv) driverOptions(withCache bool) driver.Options {
	opts := driver.Options{
		Config: env.cfg,
		Rules:  rules.All(),
		Logger: env.log,
		Timer:  env.timer,
	}
	if withCache && env.cfg.Cache.Enabled {
		cache, err := driver.OpenResultCache(env.cacheDir())
		if err != nil {
			// без кеша линт всё равно работает
			env.log.Warn("result cache disabled", "err", err)
		} else {
			opts.Cache = cache
		}
	}
	return opts
}

func (env *cliEnv) cacheDir() string {
	dir := env.cfg.Cache.Dir
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	root := env.cfg.Root
	if root == "" {
		root = "."
	}
	return filepath.Join(root, dir)
}
