package diag

import (
	"fmt"
	"strings"
)

// Severity orders findings; higher is worse. Only warnings and errors are
// produced by the validators, SevInfo is kept for notes and tooling.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
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
	return fmt.Sprintf("Severity(%d)", uint8(s))
}

// Label is the lower-case form used by the golden and short formats.
func (s Severity) Label() string {
	if s > SevError {
		return "error"
	}
	return strings.ToLower(s.String())
}

// LSP maps the severity onto DiagnosticSeverity (1 error .. 3 information).
func (s Severity) LSP() int {
	switch s {
	case SevError:
		return 1
	case SevWarning:
		return 2
	}
	return 3
}

// ParseSeverity accepts either case of the names above plus "warn".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info", "note":
		return SevInfo, nil
	case "warning", "warn":
		return SevWarning, nil
	case "error":
		return SevError, nil
	}
	return SevInfo, fmt.Errorf("unknown severity %q", s)
}
