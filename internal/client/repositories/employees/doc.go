// Package employees provides the client-side persistence layer for cached
// staff records.
//
// The SQLite implementation (SQLiteRepository) works over a dbx.DBTX, so the
// same repository runs against *sql.DB for reads and inside a *sql.Tx when
// the store replaces the whole record set during a sync.
//
// Timestamps are stored as Unix milliseconds. Optional text attributes are
// stored as empty strings; tenure values are nullable integers.
package employees
