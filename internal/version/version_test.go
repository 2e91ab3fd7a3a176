package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestColoredKeepsComponents(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()
	color.NoColor = true

	cases := map[string]string{
		"0.1.0-dev":  "0.1.0-dev",
		"1.2.3":      "1.2.3",
		"2.0.0-rc.1": "2.0.0-rc.1",
		"not-semver": "not-semver",
		"1.2":        "1.2",
	}
	for in, want := range cases {
		Version = in
		if got := Colored(); got != want {
			t.Errorf("Colored() with Version=%q = %q, want %q", in, got, want)
		}
	}
}

func TestStringIncludesBuildInfo(t *testing.T) {
	origCommit, origDate, origNoColor := GitCommit, BuildDate, color.NoColor
	defer func() { GitCommit, BuildDate, color.NoColor = origCommit, origDate, origNoColor }()
	color.NoColor = true

	GitCommit = "1234567890abcdef1234"
	BuildDate = "2024-01-15"
	got := String()
	for _, want := range []string{"esfix " + Version, "(1234567890ab)", "built 2024-01-15"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}

// BenchmarkColored benchmarks rendering the version banner
func BenchmarkColored(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Colored()
	}
}
