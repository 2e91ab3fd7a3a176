package observ

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerFoldsPhases(t *testing.T) {
	tm := NewTimer()
	for _, note := range []string{"a.js", "b.js"} {
		tm.Track("parse")(note)
	}
	stop := tm.Track("fix")
	stop("pass 1")
	stop("ignored")

	rep := tm.Report()
	require.Len(t, rep.Phases, 2)
	assert.Equal(t, "parse", rep.Phases[0].Name)
	assert.Equal(t, 2, rep.Phases[0].Count)
	assert.Empty(t, rep.Phases[0].Note)
	assert.Equal(t, "pass 1", rep.Phases[1].Note)
	assert.Equal(t, 1, rep.Phases[1].Count, "second stop call is ignored")
	assert.GreaterOrEqual(t, rep.Phases[0].DurationMS, rep.Phases[0].MaxMS)

	summary := tm.Summary()
	assert.Contains(t, strings.ToLower(summary), "timings")
	assert.Contains(t, strings.ToLower(summary), "total")
	assert.Contains(t, summary, "pass 1")
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Track("x")("")
	assert.Empty(t, tm.Report().Phases)
}

func TestTimerLogsPhases(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&buf, LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	tm := NewTimer().WithLogger(log)
	tm.Track("lint")("a.js")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "lint", rec["phase"])
	assert.Equal(t, "esfix", rec["service"])
}

func TestNewLoggerErrors(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, LogConfig{Level: "loud"})
	assert.Error(t, err)
	_, err = NewLogger(&bytes.Buffer{}, LogConfig{Format: "xml"})
	assert.Error(t, err)

	var buf bytes.Buffer
	log, err := NewLogger(&buf, LogConfig{})
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown")
	assert.False(t, strings.Contains(buf.String(), "hidden"))
	assert.True(t, strings.Contains(buf.String(), "shown"))
}
