package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabular/steward/common/apperr"
	"github.com/tabular/steward/common/cache"
	"github.com/tabular/steward/common/models"
)

func TestSetPermissions_MergeKeepsExisting(t *testing.T) {
	store := newFakeConfigStore()
	svc := NewConfigService(store, nil, 0, testLogger())

	_, err := svc.SetPermissions(context.Background(), "broker", []models.ColumnPermission{
		{ColumnName: "colA", ColumnStatus: models.ColumnEditable, EditType: models.EditTypeText},
	})
	require.NoError(t, err)

	// A later call for a different column must not drop colA
	merged, err := svc.SetPermissions(context.Background(), "broker", []models.ColumnPermission{
		{ColumnName: "colB", ColumnStatus: models.ColumnNonEditable, EditType: models.EditTypeText},
	})
	require.NoError(t, err)
	require.Len(t, merged, 2)

	byName := make(map[string]models.ColumnPermission, len(merged))
	for _, col := range merged {
		byName[col.ColumnName] = col
	}
	assert.Equal(t, models.ColumnEditable, byName["colA"].ColumnStatus)
	assert.Equal(t, models.ColumnNonEditable, byName["colB"].ColumnStatus)
}

func TestSetPermissions_OverwritesSameColumn(t *testing.T) {
	store := newFakeConfigStore()
	svc := NewConfigService(store, nil, 0, testLogger())

	_, err := svc.SetPermissions(context.Background(), "broker", []models.ColumnPermission{
		{ColumnName: "colA", ColumnStatus: models.ColumnEditable, EditType: models.EditTypeText},
	})
	require.NoError(t, err)

	merged, err := svc.SetPermissions(context.Background(), "broker", []models.ColumnPermission{
		{ColumnName: "colA", ColumnStatus: models.ColumnNonEditable, EditType: models.EditTypeDropdown},
	})
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, models.ColumnNonEditable, merged[0].ColumnStatus)
	assert.Equal(t, models.EditTypeDropdown, merged[0].EditType)
}

func TestSetPermissions_Rejections(t *testing.T) {
	store := newFakeConfigStore()
	svc := NewConfigService(store, nil, 0, testLogger())

	_, err := svc.SetPermissions(context.Background(), "broker", nil)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	_, err = svc.SetPermissions(context.Background(), "bad table", []models.ColumnPermission{
		{ColumnName: "colA", ColumnStatus: models.ColumnEditable},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	_, err = svc.SetPermissions(context.Background(), "broker", []models.ColumnPermission{
		{ColumnName: "colA", ColumnStatus: "frozen"},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestSetDropdownOptions_ReplacesWholeTable(t *testing.T) {
	store := newFakeConfigStore()
	svc := NewConfigService(store, nil, 0, testLogger())

	require.NoError(t, svc.SetDropdownOptions(context.Background(), "broker", map[string][]string{
		"colA": {"x", "y"},
	}))

	// Unlike column permissions, a dropdown set is authoritative for the
	// table: colA loses its options when the next call omits it
	require.NoError(t, svc.SetDropdownOptions(context.Background(), "broker", map[string][]string{
		"colB": {"z"},
	}))

	colA, err := svc.GetDropdownOptions(context.Background(), "broker", "colA")
	require.NoError(t, err)
	assert.Empty(t, colA)

	colB, err := svc.GetDropdownOptions(context.Background(), "broker", "colB")
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, colB)
}

func TestSetDropdownOptions_Dedupes(t *testing.T) {
	store := newFakeConfigStore()
	svc := NewConfigService(store, nil, 0, testLogger())

	require.NoError(t, svc.SetDropdownOptions(context.Background(), "broker", map[string][]string{
		"colA": {"x", "y", "x", "y", "z"},
	}))

	options, err := svc.GetDropdownOptions(context.Background(), "broker", "colA")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, options)
}

func TestGetPermissions_UnconfiguredTableIsEmpty(t *testing.T) {
	store := newFakeConfigStore()
	svc := NewConfigService(store, nil, 0, testLogger())

	columns, err := svc.GetPermissions(context.Background(), "never_configured")
	require.NoError(t, err)
	assert.Empty(t, columns)
}

// countingConfigStore counts reads so cache behavior is observable
type countingConfigStore struct {
	*fakeConfigStore
	columnReads int
}

func (s *countingConfigStore) GetColumns(ctx context.Context, tableName string) ([]models.ColumnPermission, error) {
	s.columnReads++
	return s.fakeConfigStore.GetColumns(ctx, tableName)
}

func TestGetPermissions_CacheAside(t *testing.T) {
	store := &countingConfigStore{fakeConfigStore: newFakeConfigStore()}
	memCache := cache.NewMemoryCache(testLogger())
	svc := NewConfigService(store, memCache, time.Minute, testLogger())

	_, err := svc.SetPermissions(context.Background(), "broker", []models.ColumnPermission{
		{ColumnName: "colA", ColumnStatus: models.ColumnEditable, EditType: models.EditTypeText},
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.GetPermissions(context.Background(), "broker")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, store.columnReads)

	// A write invalidates the cached entry, so the next read hits storage
	_, err = svc.SetPermissions(context.Background(), "broker", []models.ColumnPermission{
		{ColumnName: "colB", ColumnStatus: models.ColumnEditable, EditType: models.EditTypeText},
	})
	require.NoError(t, err)

	columns, err := svc.GetPermissions(context.Background(), "broker")
	require.NoError(t, err)
	assert.Len(t, columns, 2)
	assert.Equal(t, 2, store.columnReads)
}
