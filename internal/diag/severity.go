package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	// SevError is the only severity that fails a check run.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// LSP maps the severity onto the protocol's DiagnosticSeverity numbers.
func (s Severity) LSP() int {
	switch s {
	case SevError:
		return 1
	case SevWarning:
		return 2
	default:
		return 3
	}
}
