package service

import (
	"context"

	"github.com/tabular/steward/cmd/steward/repository"
	"github.com/tabular/steward/common/apperr"
	"github.com/tabular/steward/common/logger"
	"github.com/tabular/steward/common/models"
)

// TableStore is the persistence contract for governed-table browsing
type TableStore interface {
	ListTables(ctx context.Context) ([]string, error)
	TableExists(ctx context.Context, tableName string) (bool, error)
	ListColumns(ctx context.Context, tableName string) ([]string, error)
	ListRows(ctx context.Context, tableName string, page, pageSize int) (*repository.RowPage, error)
}

// TableService supplies available tables, columns and rows to the maker
// grid and the admin configurator
type TableService struct {
	store TableStore
	log   *logger.Logger
}

// NewTableService creates a new table service
func NewTableService(store TableStore, log *logger.Logger) *TableService {
	return &TableService{
		store: store,
		log:   log,
	}
}

// ListTables returns the governed table names
func (s *TableService) ListTables(ctx context.Context) ([]string, error) {
	return s.store.ListTables(ctx)
}

// ListColumns returns a table's column names
func (s *TableService) ListColumns(ctx context.Context, tableName string) ([]string, error) {
	if !models.ValidIdentifier(tableName) {
		return nil, apperr.InvalidArgument("invalid table name: %q", tableName)
	}

	exists, err := s.store.TableExists(ctx, tableName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("table %s does not exist", tableName)
	}

	return s.store.ListColumns(ctx, tableName)
}

// RowListing is one page of table rows with pagination metadata
type RowListing struct {
	Rows       []map[string]any `json:"rows"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"total_pages"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

// ListRows returns a page of rows from a governed table
func (s *TableService) ListRows(ctx context.Context, tableName string, page, pageSize int) (*RowListing, error) {
	if !models.ValidIdentifier(tableName) {
		return nil, apperr.InvalidArgument("invalid table name: %q", tableName)
	}
	if page < 1 || pageSize < 1 {
		return nil, apperr.InvalidArgument("invalid pagination parameters")
	}

	exists, err := s.store.TableExists(ctx, tableName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("table %s does not exist", tableName)
	}

	result, err := s.store.ListRows(ctx, tableName, page, pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((result.Total + int64(pageSize) - 1) / int64(pageSize))

	rows := result.Rows
	if rows == nil {
		rows = []map[string]any{}
	}

	return &RowListing{
		Rows:       rows,
		Total:      result.Total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}
