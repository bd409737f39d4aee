// Package history persists update runs and their change events in SQLite.
//
// The CSV change log remains the canonical append-only record; this
// database exists so `peloton history` can answer filtered queries (per
// race, per rider) without scanning the CSV. Schema changes bump the
// version in schema.go; users delete the database to adopt a new schema.
package history
