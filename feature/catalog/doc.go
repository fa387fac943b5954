// Package catalog exports the library catalog to a spreadsheet snapshot and
// imports edited snapshots back.
//
// # Workflow
//
//  1. Export: every record, in id order, plus one synthetic row per e-book in the
//     bucket that no record references. Orphan audiobooks are listed on a second sheet.
//  2. Edit the workbook offline: fill in metadata, change tags, add rows.
//  3. Import: each row is classified as insert, tag update, metadata update, both,
//     or no-op against the database state read once at the start of the run.
//
// An import is not atomic. Rows are written one at a time and the first failure
// stops the run; rows written before it stay committed. Re-importing the same
// snapshot afterwards finishes the job because already-applied rows plan as no-ops.
//
// # HTTP Endpoints
//
//   - GET /catalog/snapshot : Downloads the snapshot.
//   - POST /catalog/snapshot : Uploads an edited snapshot (multipart field "file", supports ?dry_run=true).
//   - GET /catalog/orphans : Reports unreferenced, duplicated and missing assets.
package catalog
