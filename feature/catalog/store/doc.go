// Package store implements the catalog database on gorm.
//
// Records live in the 'books' table; tags live in 'tags' keyed by (book_id, tag).
// The store is the only writer of ids: Insert ignores any id on the incoming
// record and returns the one the database assigned.
package store
