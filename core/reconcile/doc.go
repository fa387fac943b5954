// Package reconcile plans and applies the changes needed to bring a database
// in line with an edited snapshot of its records.
//
// The package is generic over the record type. A record only has to expose its
// id, full equality, tag-set equality and a way to derive a copy carrying
// another record's tags (see Record).
//
// # Planning
//
// BuildPlan classifies every incoming row against an id index captured once,
// before any write:
//
//  1. No id, or an id the database does not know: ActionInsert.
//  2. Fully equal to the database record: ActionNoOp.
//  3. Tags differ: derive db' = db with the incoming tags. The index entry is never modified.
//  4. Equal to db': ActionUpdateTags.
//  5. Otherwise ActionUpdateTagsAndMetadata if tags differed, else ActionUpdateMetadata.
//
// A tag-only edit therefore never triggers a metadata rewrite. Rows that share
// an id are rejected as a whole with a DuplicateIDError.
//
// # Applying
//
// ApplyPlan walks the entries in row order and issues exactly one collaborator
// call per action (two for ActionUpdateTagsAndMetadata, tags first). There is
// no transaction spanning the run: the first failure stops the run with a
// DatabaseWriteError and every earlier write stays committed. Inserts write
// the assigned id back onto the incoming record.
//
// Two operators applying overlapping plans are not coordinated; the last write
// wins per record.
//
// # Usage Example
//
//	index := reconcile.IndexByID(dbRecords)
//	plan, err := reconcile.BuildPlan(rows, index)
//	executed, err := reconcile.ApplyPlan(ctx, mutator, plan, reconcile.Options{Confirmed: true})
package reconcile
