package repository

import (
	"context"
	"fmt"

	"github.com/tabular/steward/common/apperr"
	"github.com/tabular/steward/common/db"
	"github.com/tabular/steward/common/models"
)

// TableRepository reads governed tables for the maker grid: table discovery
// via information_schema and paginated row listing. Table names are
// interpolated into SQL, so every caller goes through the safe-identifier
// check first.
type TableRepository struct {
	db *db.DB
}

// NewTableRepository creates a new table repository
func NewTableRepository(database *db.DB) *TableRepository {
	return &TableRepository{db: database}
}

// ListTables returns the names of tables in the public schema, excluding
// the portal's own bookkeeping tables
func (r *TableRepository) ListTables(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_type = 'BASE TABLE'
		  AND table_name NOT IN ('change_tracker', 'column_permission', 'dropdown_option')
		ORDER BY table_name
	`)
	if err != nil {
		return nil, apperr.Storage(err, "list tables")
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperr.Storage(err, "scan table name")
		}
		tables = append(tables, name)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err, "iterate tables")
	}

	return tables, nil
}

// TableExists reports whether a table is present in the public schema
func (r *TableRepository) TableExists(ctx context.Context, tableName string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`, tableName).Scan(&exists)
	if err != nil {
		return false, apperr.Storage(err, "check table existence")
	}
	return exists, nil
}

// ListColumns returns a table's column names in ordinal order
func (r *TableRepository) ListColumns(ctx context.Context, tableName string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position
	`, tableName)
	if err != nil {
		return nil, apperr.Storage(err, "list columns")
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperr.Storage(err, "scan column name")
		}
		columns = append(columns, name)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err, "iterate columns")
	}

	return columns, nil
}

// RowPage is one page of rows plus the total count
type RowPage struct {
	Rows  []map[string]any
	Total int64
}

// ListRows returns a page of rows from a governed table. tableName must have
// passed models.ValidIdentifier; pagination is 1-based.
func (r *TableRepository) ListRows(ctx context.Context, tableName string, page, pageSize int) (*RowPage, error) {
	if !models.ValidIdentifier(tableName) {
		return nil, apperr.InvalidArgument("invalid table name: %q", tableName)
	}

	offset := (page - 1) * pageSize

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM public.%s`, tableName)
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, apperr.Storage(err, "count rows of %s", tableName)
	}

	query := fmt.Sprintf(`SELECT * FROM public.%s LIMIT $1 OFFSET $2`, tableName)
	rows, err := r.db.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, apperr.Storage(err, "list rows of %s", tableName)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := &RowPage{Total: total}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, apperr.Storage(err, "scan row of %s", tableName)
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[string(fd.Name)] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err, "iterate rows of %s", tableName)
	}

	return result, nil
}
