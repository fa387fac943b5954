package snapshot

import (
	"errors"
	"fmt"
)

// ErrSkipRow signals that a row is the header or blank and carries no record.
var ErrSkipRow = errors.New("row carries no record")

// MalformedCellError reports a cell whose value cannot be coerced to the column's type.
type MalformedCellError struct {
	// Row is the 0-based row index; the header is row 0.
	Row    int
	Column Column
	Value  string
	Err    error
}

func (e *MalformedCellError) Error() string {
	return fmt.Sprintf("row %d, column %s (%s): malformed value %q: %v",
		e.Row, e.Column.Letter(), e.Column.Header(), e.Value, e.Err)
}

func (e *MalformedCellError) Unwrap() error {
	return e.Err
}

// Header returns the header label of the offending column.
func (e *MalformedCellError) Header() string {
	return e.Column.Header()
}
