package engine

import "fmt"

// ErrorSeverity represents the severity level of an engine error.
type ErrorSeverity int

const (
	// SeverityCritical indicates an error that aborts the operation.
	SeverityCritical ErrorSeverity = iota
	// SeverityMajor indicates a damaged table which has been worked around.
	SeverityMajor
	// SeverityMinor indicates a minor issue that can be safely ignored in most cases.
	SeverityMinor
)

// String returns a human-readable representation of the error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// FontError represents an error encountered while reading or rewriting a
// font binary. The engine records the last error per subset input; it may be
// inspected with SubsetInputError.
type FontError struct {
	Table    string        // table where the error occurred, e.g. "glyf", or "" for the font as a whole
	Section  string        // specific section within the table, e.g. "loca" or "Format4"
	Issue    string        // human-readable description of the issue
	Severity ErrorSeverity // severity level of the error
}

// Error implements the error interface.
func (e FontError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Section, e.Issue)
	}
	return fmt.Sprintf("[%s] %s/%s: %s", e.Severity, e.Table, e.Section, e.Issue)
}

func critical(table, section, format string, args ...any) *FontError {
	return &FontError{
		Table:    table,
		Section:  section,
		Issue:    fmt.Sprintf(format, args...),
		Severity: SeverityCritical,
	}
}

// errorCollector accumulates non-fatal issues found while subsetting.
type errorCollector struct {
	errors []FontError
}

func (ec *errorCollector) addError(table, section, issue string, severity ErrorSeverity) {
	ec.errors = append(ec.errors, FontError{
		Table:    table,
		Section:  section,
		Issue:    issue,
		Severity: severity,
	})
	tracer().Infof("engine: %s", ec.errors[len(ec.errors)-1])
}
