package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"esfix/internal/config"
	"esfix/internal/driver"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [directory]...",
	Short: "Lint files again whenever they change",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", 300*time.Millisecond, "quiet period before re-linting changed files")
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	env, err := loadEnv(cmd, startDir(args))
	if err != nil {
		return err
	}
	// в режиме наблюдения TUI мешает выводу
	env.ui = toggleOff
	targets := args
	if len(targets) == 0 {
		targets = []string{"."}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	for _, target := range targets {
		if err := addWatchDirs(w, target, env.cfg); err != nil {
			return err
		}
	}

	run, err := lintTargets(ctx, env, targets, true)
	if err != nil {
		return err
	}
	// ошибки линта не останавливают наблюдение
	_ = env.report(run)
	env.log.Info("watching", "targets", targets)
	return watchLoop(ctx, env, w, debounce)
}

func watchLoop(ctx context.Context, env *cliEnv, w *fsnotify.Watcher, debounce time.Duration) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if !env.cfg.Excluded(filepath.Base(ev.Name)) {
						if err := addWatchDirs(w, ev.Name, env.cfg); err != nil {
							env.log.Warn("cannot watch directory", "dir", ev.Name, "err", err)
						}
					}
					continue
				}
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !env.cfg.HasExtension(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			env.log.Warn("watch error", "err", err)

		case <-timer.C:
			files := changedFiles(pending)
			clear(pending)
			if len(files) == 0 {
				continue
			}
			env.log.Debug("re-linting", "files", len(files))
			run, err := driver.LintFiles(ctx, files, env.driverOptions(true))
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			fmt.Fprintf(env.stderr, "\n[%s] %d changed file(s)\n", time.Now().Format("15:04:05"), len(files))
			_ = env.report(run)
		}
	}
}

// changedFiles: отсортированные пути, которые ещё существуют.
func changedFiles(pending map[string]struct{}) []string {
	files := make([]string, 0, len(pending))
	for path := range pending {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			files = append(files, path)
		}
	}
	slices.Sort(files)
	return files
}

// addWatchDirs adds root and every non-excluded directory below it. A file
// root watches its directory.
func addWatchDirs(w *fsnotify.Watcher, root string, cfg *config.Config) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && cfg.Excluded(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
