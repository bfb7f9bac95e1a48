package htmltable

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/htmltable/markup"
)

var (
	// ErrInvalidConfig is returned by configuration methods given bad input.
	ErrInvalidConfig = errors.New("htmltable: invalid configuration")

	// ErrLocator is the parent of every table location failure.
	ErrLocator = errors.New("htmltable: table locator")

	// ErrTableNotFound means the table expression matched no element.
	ErrTableNotFound = fmt.Errorf("%w: no element matches the table expression", ErrLocator)

	// ErrNotATable means the table expression matched an element other than <table>.
	ErrNotATable = fmt.Errorf("%w: selected element is not a table", ErrLocator)

	// ErrDuplicateHeader means a header, given or derived, repeats a name.
	ErrDuplicateHeader = errors.New("htmltable: duplicate header name")

	// ErrStream means the input could not be opened or read.
	ErrStream = errors.New("htmltable: unreadable input")

	// ErrDiagnostics matches any *DiagnosticsError.
	ErrDiagnostics = errors.New("htmltable: markup diagnostics")
)

// DiagnosticsError is returned in strict mode when the markup parser reported
// problems it recovered from.
type DiagnosticsError struct {
	Diagnostics []markup.Diagnostic
}

func (e *DiagnosticsError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "htmltable: %d markup diagnostic(s)", len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		if i == 3 {
			fmt.Fprintf(&sb, "; and %d more", len(e.Diagnostics)-i)
			break
		}
		sb.WriteString("; ")
		sb.WriteString(d.String())
	}
	return sb.String()
}

// Is reports ErrDiagnostics as a match.
func (e *DiagnosticsError) Is(target error) bool {
	return target == ErrDiagnostics
}

// TransformError wraps an error returned by a record transform. Row is the
// zero-based index of the record that was rejected.
type TransformError struct {
	Row int
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("htmltable: record transform failed at row %d: %v", e.Row, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
