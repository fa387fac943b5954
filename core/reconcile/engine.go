package reconcile

import "fmt"

// IndexByID indexes records by their persisted id. Records without an id are skipped.
func IndexByID[T Record[T]](records []T) map[int]T {
	index := make(map[int]T, len(records))
	for _, r := range records {
		if id, ok := r.RecordID(); ok {
			index[id] = r
		}
	}
	return index
}

// Classify decides the action for one record against the database index.
// The index is read only; the tag-reconciled comparison value is derived fresh.
func Classify[T Record[T]](rec T, index map[int]T) (action ActionType, matched T, reason string) {
	id, ok := rec.RecordID()
	if !ok {
		return ActionInsert, matched, "no id"
	}
	db, found := index[id]
	if !found {
		return ActionInsert, matched, fmt.Sprintf("id %d not in database", id)
	}

	if rec.Equal(db) {
		return ActionNoOp, db, "unchanged"
	}

	tagsChanged := !rec.TagsEqual(db)
	reconciled := db
	if tagsChanged {
		reconciled = db.WithTagsOf(rec)
	}

	if rec.Equal(reconciled) {
		return ActionUpdateTags, db, "tags changed"
	}
	if tagsChanged {
		return ActionUpdateTagsAndMetadata, db, "tags and metadata changed"
	}
	return ActionUpdateMetadata, db, "metadata changed"
}
