package diag

// Severity defines the importance of a diagnostic. Higher values are more
// severe, so severities compare with the usual operators.
type Severity uint8

const (
	// SevInfo marks informational output such as timings.
	SevInfo Severity = iota
	// SevWarning marks problems that do not fail the run.
	SevWarning
	// SevError marks problems that make the run exit non-zero.
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// ParseSeverity maps the configuration spelling ("error", "warn", "info")
// to a Severity. "off" and unknown values report ok=false.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "error", "2":
		return SevError, true
	case "warn", "warning", "1":
		return SevWarning, true
	case "info":
		return SevInfo, true
	}
	return 0, false
}
