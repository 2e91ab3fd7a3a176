package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// toggle is an auto|on|off flag value; auto defers to whether the output
// is a terminal.
type toggle uint8

const (
	toggleAuto toggle = iota
	toggleOn
	toggleOff
)

func parseToggle(flag, value string) (toggle, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return toggleAuto, nil
	case "on", "always":
		return toggleOn, nil
	case "off", "never":
		return toggleOff, nil
	}
	return toggleAuto, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// readToggle parses the named persistent flag.
func readToggle(pf *pflag.FlagSet, name string) (toggle, error) {
	value, err := pf.GetString(name)
	if err != nil {
		return toggleAuto, err
	}
	return parseToggle(name, value)
}

func (t toggle) enabled(w io.Writer) bool {
	return t == toggleOn || (t == toggleAuto && writerIsTerminal(w))
}

// shouldUseTUI: прогресс рисуется в stderr; машинные форматы, --quiet и
// одиночный файл обходятся без него.
func (env *cliEnv) shouldUseTUI(files int) bool {
	if env.quiet || files < 2 {
		return false
	}
	if env.ui == toggleAuto && env.format != "pretty" {
		return false
	}
	return env.ui.enabled(env.stderr)
}
