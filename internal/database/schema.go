// FilePath: internal/database/schema.go
package database

import (
	"fmt"

	nuts "github.com/vaudience/go-nuts"
)

// Schema is the ordered set of DDL statements bootstrapping a fresh
// database. Statements are limited to the SQL subset shared by
// PostgreSQL and SQLite so both backends run the same schema.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS modules (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		current_light INTEGER NOT NULL DEFAULT 0,
		light_threshold INTEGER NOT NULL DEFAULT 1000,
		auto_mode BOOLEAN NOT NULL DEFAULT TRUE,
		relay_on BOOLEAN NOT NULL DEFAULT FALSE,
		photo_requested BOOLEAN NOT NULL DEFAULT FALSE,
		last_photo TEXT,
		requester_id TEXT,
		last_update TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS status_events (
		id TEXT PRIMARY KEY,
		module_id TEXT NOT NULL,
		previous_status TEXT NOT NULL,
		new_status TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_status_events_module ON status_events (module_id, timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_status_events_status ON status_events (new_status, timestamp)`,

	`CREATE TABLE IF NOT EXISTS recipients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		chat_id TEXT NOT NULL UNIQUE,
		can_toggle_light BOOLEAN NOT NULL DEFAULT FALSE,
		can_request_photo BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

// EnsureSchema applies the schema statements in order. All statements
// are idempotent, so running it on every startup is safe.
func EnsureSchema(db DB) error {
	for i, stmt := range Schema {
		if _, err := db.GetDB().Exec(stmt); err != nil {
			return fmt.Errorf("schema statement %d failed: %w", i, err)
		}
	}
	nuts.L.Infof("[Database] Schema verified (%d statements)", len(Schema))
	return nil
}
