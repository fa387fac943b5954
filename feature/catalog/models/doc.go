// Package models defines the catalog record and its database representation.
//
// LibraryRecord is the value the reconciliation planner compares. Two records
// are equal when every scalar field matches and their tag sets contain the same
// elements; tag order never matters. Book and Tag are the gorm rows of the
// 'books' and 'tags' tables.
package models
