package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"esfix/internal/diagfmt"
	"esfix/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.js",
	Short: "Tokenize a JavaScript file",
	Long:  `Tokenize breaks down a JavaScript file into its tokens and comments`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.js",
	Short: "Parse a JavaScript file and print its syntax tree",
	Long:  `Parse builds the ESTree syntax tree of a JavaScript module and prints it`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	tokenizeCmd.Flags().String("output", "pretty", "output format (pretty|json)")
	parseCmd.Flags().String("output", "pretty", "output format (pretty|json|tree)")
}

// dumpOutput reads --output and checks it against the formats cmd knows.
func dumpOutput(cmd *cobra.Command, formats ...string) (string, error) {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", err
	}
	if !slices.Contains(formats, format) {
		return "", fmt.Errorf("unknown output format %q (expected one of %v)", format, formats)
	}
	return format, nil
}

// runDump loads the environment, runs stage over the file and prints what
// it found on stderr. A dump with errors ends in errProblems after render.
func runDump(cmd *cobra.Command, args []string, stage func(string, int) (*driver.Dump, error), render func(*cliEnv, *driver.Dump) error) error {
	env, err := loadEnv(cmd, startDir(args))
	if err != nil {
		return err
	}
	dump, err := stage(args[0], env.cfg.Engine.MaxDiagnostics)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	if dump.Bag.Len() > 0 {
		dump.Bag.Sort()
		diagfmt.Pretty(env.stderr, dump.Bag, dump.FileSet, diagfmt.PrettyOpts{
			Color:     env.color && writerIsTerminal(env.stderr),
			Context:   2,
			PathMode:  env.pathMode,
			ShowNotes: true,
		})
	}
	if err := render(env, dump); err != nil {
		return err
	}
	if dump.Bag.HasErrors() {
		return errProblems
	}
	return nil
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := dumpOutput(cmd, "pretty", "json")
	if err != nil {
		return err
	}
	return runDump(cmd, args, driver.Tokenize, func(env *cliEnv, d *driver.Dump) error {
		if format == "json" {
			return diagfmt.FormatTokensJSON(env.stdout, d.Tokens, d.Comments)
		}
		return diagfmt.FormatTokensPretty(env.stdout, d.Tokens, d.Comments, d.FileSet)
	})
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := dumpOutput(cmd, "pretty", "json", "tree")
	if err != nil {
		return err
	}
	return runDump(cmd, args, driver.Parse, func(env *cliEnv, d *driver.Dump) error {
		switch {
		case d.Program == nil:
			return nil
		case format == "json":
			return diagfmt.FormatASTJSON(env.stdout, d.Program)
		case format == "tree":
			return diagfmt.FormatASTTree(env.stdout, d.Program)
		}
		return diagfmt.FormatASTPretty(env.stdout, d.Program, d.FileSet)
	})
}
