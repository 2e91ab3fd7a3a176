package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"esfix/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [directory]",
	Short: "Remove the lint result cache",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd, startDir(args))
	if err != nil {
		return err
	}
	dir := env.cacheDir()
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintln(env.stdout, "cache directory not found")
				return nil
			}
			return fmt.Errorf("failed to stat %q: %w", dir, err)
		}
	}
	cache, err := driver.OpenResultCache(dir)
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove %q: %w", cache.Dir(), err)
	}
	if !env.quiet {
		fmt.Fprintf(env.stdout, "removed %s\n", cache.Dir())
	}
	return nil
}
