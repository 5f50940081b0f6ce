package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tabular/steward/common/apperr"
	"github.com/tabular/steward/common/db"
	"github.com/tabular/steward/common/models"
)

// ColumnConfigRepository owns column permissions and dropdown option sets.
//
// Permission updates merge; dropdown updates replace the whole table entry.
// The asymmetry is deliberate: admins edit permissions one column at a time
// but maintain dropdown sets as a batch per table.
type ColumnConfigRepository struct {
	db *db.DB
}

// NewColumnConfigRepository creates a new column config repository
func NewColumnConfigRepository(database *db.DB) *ColumnConfigRepository {
	return &ColumnConfigRepository{db: database}
}

// GetColumns returns a table's column_list; empty when the table has no
// configured permissions (all columns implicitly non-editable)
func (r *ColumnConfigRepository) GetColumns(ctx context.Context, tableName string) ([]models.ColumnPermission, error) {
	var data []byte
	err := r.db.QueryRow(ctx,
		`SELECT column_list FROM column_permission WHERE table_name = $1`,
		tableName,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return []models.ColumnPermission{}, nil
	}
	if err != nil {
		return nil, apperr.Storage(err, "get column permissions")
	}

	var columns []models.ColumnPermission
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, apperr.Storage(err, "decode column permissions")
	}
	return columns, nil
}

// MergeColumns merge-upserts incoming entries into the table's column_list.
// The read, merge and write run in one transaction with the row locked so a
// concurrent admin edit of another column cannot be lost.
func (r *ColumnConfigRepository) MergeColumns(ctx context.Context, tableName string, incoming []models.ColumnPermission) ([]models.ColumnPermission, error) {
	var merged []models.ColumnPermission

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		var data []byte
		err := tx.QueryRow(ctx,
			`SELECT column_list FROM column_permission WHERE table_name = $1 FOR UPDATE`,
			tableName,
		).Scan(&data)

		var existing []models.ColumnPermission
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			// First configuration for this table
		case err != nil:
			return apperr.Storage(err, "load column permissions")
		default:
			if err := json.Unmarshal(data, &existing); err != nil {
				return apperr.Storage(err, "decode column permissions")
			}
		}

		merged = models.MergeColumnList(existing, incoming)

		out, err := json.Marshal(merged)
		if err != nil {
			return apperr.Storage(err, "encode column permissions")
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO column_permission (table_name, column_list, created_at, updated_at)
			VALUES ($1, $2, NOW(), NOW())
			ON CONFLICT (table_name)
			DO UPDATE SET column_list = EXCLUDED.column_list, updated_at = NOW()
		`, tableName, out)
		if err != nil {
			return apperr.Storage(err, "store column permissions")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return merged, nil
}

// GetDropdowns returns the full column → options mapping for a table;
// empty when unset
func (r *ColumnConfigRepository) GetDropdowns(ctx context.Context, tableName string) (map[string][]string, error) {
	var data []byte
	err := r.db.QueryRow(ctx,
		`SELECT options FROM dropdown_option WHERE table_name = $1`,
		tableName,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, apperr.Storage(err, "get dropdown options")
	}

	var options map[string][]string
	if err := json.Unmarshal(data, &options); err != nil {
		return nil, apperr.Storage(err, "decode dropdown options")
	}
	return options, nil
}

// ReplaceDropdowns overwrites the table's entire dropdown configuration in
// one atomic upsert; columns absent from the new mapping lose their options
func (r *ColumnConfigRepository) ReplaceDropdowns(ctx context.Context, tableName string, options map[string][]string) error {
	out, err := json.Marshal(options)
	if err != nil {
		return apperr.Storage(err, "encode dropdown options")
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO dropdown_option (table_name, options, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (table_name)
		DO UPDATE SET options = EXCLUDED.options, updated_at = NOW()
	`, tableName, out)
	if err != nil {
		return apperr.Storage(err, "store dropdown options")
	}
	return nil
}
