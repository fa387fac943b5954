// Package integrity provides system health checks for the library.
//
// Unlike the 'catalog' package, which reconciles snapshots with the database,
// this package only reports. Nothing is written.
//
// # Checks Provided
//
//   - Storage: Checks that the bucket exists and counts its objects by asset kind.
//   - Schema: Validates that the books and tags tables match the catalog models (columns, types).
//   - Assets: Cross-checks every record's object keys against the bucket listing. Reports keys that
//     are missing from the bucket, keys shared by several records, keys stored in the wrong field
//     and records failing data-quality rules.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks concurrently.
//   - GET /integrity/storage : Runs the storage check.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/assets : Runs the asset check.
package integrity
