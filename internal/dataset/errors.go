package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions no loader handles.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// SchemaError reports a dataset that does not have the shape the dashboard needs.
type SchemaError struct {
	Source  string
	Column  string
	Missing []string
	// Row is the 1-based data row, 0 for column-level problems.
	Row    int
	Value  string
	Reason string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dataset %s: ", e.Source)
	switch {
	case len(e.Missing) > 0:
		fmt.Fprintf(&b, "missing required columns: %s", strings.Join(e.Missing, ", "))
	case e.Row > 0:
		fmt.Fprintf(&b, "row %d column %q: %s", e.Row, e.Column, e.Reason)
		if e.Value != "" {
			fmt.Fprintf(&b, " (got %q)", e.Value)
		}
	case e.Column != "":
		fmt.Fprintf(&b, "column %q: %s", e.Column, e.Reason)
	default:
		b.WriteString(e.Reason)
	}
	return b.String()
}

// IsSchemaError reports whether err is or wraps a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
