package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"esfix/internal/version"
)

// errProblems is returned when the run reported errors; main maps it to
// exit status 1 without printing it.
var errProblems = errors.New("problems found")

var rootCmd = &cobra.Command{
	Use:           "esfix",
	Short:         "JavaScript linter with automatic fixes",
	Long:          `esfix lints JavaScript sources and applies safe automatic fixes`,
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: startProfiling,
}

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics per file (0 = from config)")
	pf.String("config", "", "path to .esfix.toml (default: discovered from the target)")
	pf.String("log-level", "warn", "log level (debug|info|warn|error)")
	pf.String("log-format", "text", "log format (text|json)")
	pf.String("ui", "auto", "progress UI (auto|on|off)")
	pf.String("format", "pretty", "diagnostics format (pretty|json|sarif|short)")
	pf.String("path-mode", "auto", "path display (auto|absolute|relative|basename)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a runtime trace to this file")
}

// main запускает корневую команду; любая ошибка даёт код выхода 1.
func main() {
	err := rootCmd.Execute()
	stopProfiling(rootCmd)
	if err != nil {
		if !errors.Is(err, errProblems) {
			fmt.Fprintf(os.Stderr, "esfix: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// writerIsTerminal: true только для *os.File, подключённого к терминалу.
func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
