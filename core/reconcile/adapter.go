package reconcile

import "context"

// Record is the value the planner compares. T is the concrete record type,
// usually a pointer, so implementations compare against their own kind.
type Record[T any] interface {
	// RecordID returns the persisted id, or false if the record has none.
	RecordID() (int, bool)

	// SetRecordID stores an id assigned by the database.
	SetRecordID(id int)

	// Equal reports full value equality, tags compared as sets.
	Equal(other T) bool

	// TagsEqual reports whether both tag sets contain the same elements.
	TagsEqual(other T) bool

	// WithTagsOf returns a fresh copy of the receiver carrying other's tags.
	// The receiver must not be modified.
	WithTagsOf(other T) T
}

// Checker is implemented by records that can report non-blocking data warnings
// (e.g. a series without a sequence number). Warnings are attached to plan
// entries and never change the planned action.
type Checker interface {
	Check() []string
}

// Mutator is the database collaborator the applier writes through.
// Each call is committed on its own; there is no transaction spanning calls.
type Mutator[T any] interface {
	// Insert creates the record and returns the id assigned by the database.
	// Any id carried by the record is ignored.
	Insert(ctx context.Context, rec T) (int, error)

	// SetTags replaces the tag set of the persisted record with rec's tags.
	SetTags(ctx context.Context, rec T) error

	// Update overwrites every scalar field of the persisted record with rec's values.
	Update(ctx context.Context, rec T) error
}
