// Package database handles database connections and schema inspection.
//
// It wraps GORM to open sqlite, MySQL or PostgreSQL connections from the
// application's configuration. The SQL favorites store is the main consumer.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the favorites store verify at
// startup that an existing table carries every column it persists, so a
// stale schema fails loudly instead of silently dropping fields.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "favorite_universities", []string{"name"})
package database
