// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL (production) or SQLite
// (local catalogs and tests) connections from the application's configuration.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table on either dialect. The integrity
// feature uses it to verify that the books and tags tables carry every column
// the catalog store reads and writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "books")
package database
