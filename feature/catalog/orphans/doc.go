// Package orphans compares the object store listing with the catalog.
//
// A scan produces three diagnostics:
//
//   - Unreferenced keys, partitioned by kind (primary e-book, secondary e-book,
//     audiobook, unrecognized). Unrecognized keys are logged as
//     UnknownAssetKindError warnings.
//   - Duplicate references: one key used by the same asset field of several records.
//   - Missing assets: keys referenced by a record that the store does not have.
//
// Scans are read only and never block an import or export.
package orphans
