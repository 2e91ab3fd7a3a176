package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"esfix/internal/prof"
)

// profiling живёт от PersistentPreRunE до выхода из main.
var profiling *prof.Session

func startProfiling(cmd *cobra.Command, _ []string) error {
	pf := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = pf.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = pf.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = pf.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil
	}
	if profiling, err = prof.Start(opts); err != nil {
		return err
	}
	return nil
}

func stopProfiling(cmd *cobra.Command) {
	if err := profiling.Stop(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "esfix: %v\n", err)
	}
	profiling = nil
}
