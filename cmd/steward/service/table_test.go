package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabular/steward/cmd/steward/repository"
	"github.com/tabular/steward/common/apperr"
)

// fakeTableStore serves a fixed set of governed tables
type fakeTableStore struct {
	tables map[string][]map[string]any
}

func (s *fakeTableStore) ListTables(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	return names, nil
}

func (s *fakeTableStore) TableExists(ctx context.Context, tableName string) (bool, error) {
	_, ok := s.tables[tableName]
	return ok, nil
}

func (s *fakeTableStore) ListColumns(ctx context.Context, tableName string) ([]string, error) {
	rows := s.tables[tableName]
	if len(rows) == 0 {
		return nil, nil
	}
	columns := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		columns = append(columns, col)
	}
	return columns, nil
}

func (s *fakeTableStore) ListRows(ctx context.Context, tableName string, page, pageSize int) (*repository.RowPage, error) {
	rows := s.tables[tableName]
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}
	return &repository.RowPage{Rows: rows[start:end], Total: int64(len(rows))}, nil
}

func brokerTableStore() *fakeTableStore {
	rows := make([]map[string]any, 0, 5)
	for i := 0; i < 5; i++ {
		rows = append(rows, map[string]any{"BRN_ID": i, "BRN_NAME": "Branch"})
	}
	return &fakeTableStore{tables: map[string][]map[string]any{"broker": rows}}
}

func TestListRows_Pagination(t *testing.T) {
	svc := NewTableService(brokerTableStore(), testLogger())

	listing, err := svc.ListRows(context.Background(), "broker", 2, 2)
	require.NoError(t, err)

	assert.Len(t, listing.Rows, 2)
	assert.Equal(t, int64(5), listing.Total)
	assert.Equal(t, 3, listing.TotalPages)
	assert.Equal(t, 2, listing.Page)
}

func TestListRows_PastLastPageIsEmpty(t *testing.T) {
	svc := NewTableService(brokerTableStore(), testLogger())

	listing, err := svc.ListRows(context.Background(), "broker", 9, 10)
	require.NoError(t, err)
	assert.Empty(t, listing.Rows)
	assert.Equal(t, int64(5), listing.Total)
}

func TestListRows_Rejections(t *testing.T) {
	svc := NewTableService(brokerTableStore(), testLogger())

	_, err := svc.ListRows(context.Background(), "broker", 0, 10)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	_, err = svc.ListRows(context.Background(), "bad name", 1, 10)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	_, err = svc.ListRows(context.Background(), "no_such_table", 1, 10)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListColumns_UnknownTable(t *testing.T) {
	svc := NewTableService(brokerTableStore(), testLogger())

	_, err := svc.ListColumns(context.Background(), "no_such_table")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	columns, err := svc.ListColumns(context.Background(), "broker")
	require.NoError(t, err)
	assert.Len(t, columns, 2)
}
