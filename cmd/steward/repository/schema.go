package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/tabular/steward/common/db"
)

// Schema statements applied at startup through the bootstrap DB init hook.
// Idempotent so repeated starts are safe.
// old_data/new_data use JSON rather than JSONB: the diff contract orders
// entries by the submission's key order, and JSONB would rewrite it.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS change_tracker (
		request_id  UUID PRIMARY KEY,
		table_name  TEXT NOT NULL,
		row_id      TEXT,
		old_data    JSON,
		new_data    JSON NOT NULL,
		status      TEXT NOT NULL DEFAULT 'pending',
		maker       TEXT NOT NULL,
		checker     TEXT,
		comments    TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_change_tracker_status_created
		ON change_tracker (status, created_at)`,
	`CREATE TABLE IF NOT EXISTS column_permission (
		table_name  TEXT PRIMARY KEY,
		column_list JSONB NOT NULL DEFAULT '[]',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS dropdown_option (
		table_name  TEXT PRIMARY KEY,
		options     JSONB NOT NULL DEFAULT '{}',
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// InitSchema creates the persistence tables if they do not exist
func InitSchema(database *db.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := database.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}

	return nil
}
