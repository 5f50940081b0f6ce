package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tabular/steward/common/apperr"
	"github.com/tabular/steward/common/cache"
	"github.com/tabular/steward/common/logger"
	"github.com/tabular/steward/common/models"
)

// ConfigStore is the persistence contract for column permissions and
// dropdown options; implemented by repository.ColumnConfigRepository and by
// in-memory fakes in tests
type ConfigStore interface {
	GetColumns(ctx context.Context, tableName string) ([]models.ColumnPermission, error)
	MergeColumns(ctx context.Context, tableName string, incoming []models.ColumnPermission) ([]models.ColumnPermission, error)
	GetDropdowns(ctx context.Context, tableName string) (map[string][]string, error)
	ReplaceDropdowns(ctx context.Context, tableName string, options map[string][]string) error
}

// ConfigService fronts the column configuration with identifier validation
// and a cache-aside layer. The database stays the source of truth; the cache
// is invalidated on every admin write.
type ConfigService struct {
	store    ConfigStore
	cache    cache.Cache
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewConfigService creates a new config service; cache may be nil
func NewConfigService(store ConfigStore, c cache.Cache, cacheTTL time.Duration, log *logger.Logger) *ConfigService {
	return &ConfigService{
		store:    store,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// GetPermissions returns a table's column_list, empty if unconfigured
func (s *ConfigService) GetPermissions(ctx context.Context, tableName string) ([]models.ColumnPermission, error) {
	if !models.ValidIdentifier(tableName) {
		return nil, apperr.InvalidArgument("invalid table name: %q", tableName)
	}

	cacheKey := "config:columns:" + tableName
	if s.cache != nil {
		if data, hit, err := s.cache.Get(ctx, cacheKey); err == nil && hit {
			var columns []models.ColumnPermission
			if err := json.Unmarshal(data, &columns); err == nil {
				return columns, nil
			}
			// Corrupt entry, fall through to storage
			_ = s.cache.Delete(ctx, cacheKey)
		}
	}

	columns, err := s.store.GetColumns(ctx, tableName)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(columns); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}

	return columns, nil
}

// SetPermissions merge-upserts the incoming entries into the table's
// column_list and returns the merged result
func (s *ConfigService) SetPermissions(ctx context.Context, tableName string, incoming []models.ColumnPermission) ([]models.ColumnPermission, error) {
	if !models.ValidIdentifier(tableName) {
		return nil, apperr.InvalidArgument("invalid table name: %q", tableName)
	}
	if len(incoming) == 0 {
		return nil, apperr.InvalidArgument("column_list must not be empty")
	}
	for _, col := range incoming {
		if !models.ValidIdentifier(col.ColumnName) {
			return nil, apperr.InvalidArgument("invalid column name: %q", col.ColumnName)
		}
		switch col.ColumnStatus {
		case models.ColumnEditable, models.ColumnNonEditable:
		default:
			return nil, apperr.InvalidArgument("invalid column status %q for column %q", col.ColumnStatus, col.ColumnName)
		}
	}

	merged, err := s.store.MergeColumns(ctx, tableName, incoming)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, "config:columns:"+tableName)

	s.log.Info("column permissions updated",
		"table_name", tableName,
		"columns", len(incoming),
	)

	return merged, nil
}

// GetDropdownOptions returns a column's configured options, empty if unset
func (s *ConfigService) GetDropdownOptions(ctx context.Context, tableName, columnName string) ([]string, error) {
	if !models.ValidIdentifier(tableName) {
		return nil, apperr.InvalidArgument("invalid table name: %q", tableName)
	}
	if !models.ValidIdentifier(columnName) {
		return nil, apperr.InvalidArgument("invalid column name: %q", columnName)
	}

	options, err := s.getTableDropdowns(ctx, tableName)
	if err != nil {
		return nil, err
	}

	if opts, ok := options[columnName]; ok {
		return opts, nil
	}
	return []string{}, nil
}

// SetDropdownOptions replaces a table's full dropdown configuration: a set
// call is authoritative for the table as a whole, so columns left out of
// optionsByColumn lose their options
func (s *ConfigService) SetDropdownOptions(ctx context.Context, tableName string, optionsByColumn map[string][]string) error {
	if !models.ValidIdentifier(tableName) {
		return apperr.InvalidArgument("invalid table name: %q", tableName)
	}

	cleaned := make(map[string][]string, len(optionsByColumn))
	for column, options := range optionsByColumn {
		if !models.ValidIdentifier(column) {
			return apperr.InvalidArgument("invalid column name: %q", column)
		}
		cleaned[column] = models.DedupeOptions(options)
	}

	if err := s.store.ReplaceDropdowns(ctx, tableName, cleaned); err != nil {
		return err
	}

	s.invalidate(ctx, "config:dropdowns:"+tableName)

	s.log.Info("dropdown options replaced",
		"table_name", tableName,
		"columns", len(cleaned),
	)

	return nil
}

// getTableDropdowns loads the table's full mapping through the cache
func (s *ConfigService) getTableDropdowns(ctx context.Context, tableName string) (map[string][]string, error) {
	cacheKey := "config:dropdowns:" + tableName
	if s.cache != nil {
		if data, hit, err := s.cache.Get(ctx, cacheKey); err == nil && hit {
			var options map[string][]string
			if err := json.Unmarshal(data, &options); err == nil {
				return options, nil
			}
			_ = s.cache.Delete(ctx, cacheKey)
		}
	}

	options, err := s.store.GetDropdowns(ctx, tableName)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(options); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}

	return options, nil
}

func (s *ConfigService) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warn("cache invalidation failed", "key", key, "error", err)
	}
}
