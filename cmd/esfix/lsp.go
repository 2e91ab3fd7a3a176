package main

import (
	"github.com/spf13/cobra"

	"esfix/internal/lsp"
	"esfix/internal/rules"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the language server on stdio",
	Args:  cobra.NoArgs,
	RunE:  runLSP,
}

func init() {
	lspCmd.Flags().Duration("debounce", 0, "delay before re-linting a changed buffer (0 = default)")
}

func runLSP(cmd *cobra.Command, _ []string) error {
	env, err := loadEnv(cmd, ".")
	if err != nil {
		return err
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	// stdout занят протоколом, логи только в stderr
	srv := lsp.NewServer(lsp.Options{
		Config:   env.cfg,
		Rules:    rules.All(),
		Logger:   env.log,
		Debounce: debounce,
	})
	return srv.RunStdio()
}
