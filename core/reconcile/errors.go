package reconcile

import (
	"fmt"
	"strings"
)

// DuplicateIDError is returned when the same record id appears on more than one row.
// The snapshot is rejected before anything is planned.
type DuplicateIDError struct {
	ID   int
	Rows []int
}

func (e *DuplicateIDError) Error() string {
	rows := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		rows[i] = fmt.Sprint(r)
	}
	return fmt.Sprintf("id %d appears on multiple rows: %s", e.ID, strings.Join(rows, ", "))
}

// DatabaseWriteError is returned when a collaborator write fails during apply.
// Entries applied before it remain committed.
type DatabaseWriteError struct {
	// Row is the 0-based source row index of the failed entry.
	Row int
	// RecordID is the id being written, or 0 for an insert.
	RecordID int
	Action   ActionType
	Err      error
}

func (e *DatabaseWriteError) Error() string {
	if e.RecordID == 0 {
		return fmt.Sprintf("row %d: failed to %s: %v", e.Row, e.Action, e.Err)
	}
	return fmt.Sprintf("row %d (id %d): failed to %s: %v", e.Row, e.RecordID, e.Action, e.Err)
}

func (e *DatabaseWriteError) Unwrap() error {
	return e.Err
}
