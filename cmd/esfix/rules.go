package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"esfix/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in rules and their configured level",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, _ []string) error {
	env, err := loadEnv(cmd, ".")
	if err != nil {
		return err
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	// итог печатается как есть, без upper-case
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.AppendHeader(table.Row{"Rule", "Level", "Fix", "Description"})

	defs := rules.All()
	enabled := 0
	for _, def := range defs {
		level := "off"
		if rc, ok := env.cfg.RuleConfig(def.Name); ok {
			level = rc.Severity.String()
			enabled++
		}
		fixKind := ""
		switch {
		case def.Fixable && def.HasSuggestions:
			fixKind = "auto+suggest"
		case def.Fixable:
			fixKind = "auto"
		case def.HasSuggestions:
			fixKind = "suggest"
		}
		tbl.AppendRow(table.Row{def.Name, level, fixKind, def.Description})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("%d rules, %d enabled", len(defs), enabled)})

	_, err = fmt.Fprintln(env.stdout, tbl.Render())
	return err
}
