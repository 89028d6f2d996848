// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to properly configure MySQL connections
// based on the application's configuration. The connection is established
// once at startup and injected into the ledger store; components never open
// connections themselves.
//
// # Schema Inspection
//
// The package includes tools to inspect the ledger table's columns, used by
// the tracker's schema status check.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.VerifyColumns(db, "product_price_ledger", expected)
package database
