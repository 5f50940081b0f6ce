package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tabular/steward/common/apperr"
	"github.com/tabular/steward/common/models"
)

// fakeRequestStore is an in-memory RequestStore with the same transition
// guarantees as the SQL implementation
type fakeRequestStore struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*models.ChangeRequest
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[uuid.UUID]*models.ChangeRequest)}
}

func (s *fakeRequestStore) Create(ctx context.Context, req *models.ChangeRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *req
	s.requests[req.RequestID] = &clone
	return nil
}

func (s *fakeRequestStore) GetByID(ctx context.Context, requestID uuid.UUID) (*models.ChangeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return nil, apperr.NotFound("change request %s not found", requestID)
	}
	clone := *req
	return &clone, nil
}

func (s *fakeRequestStore) ListPending(ctx context.Context) ([]*models.ChangeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []*models.ChangeRequest
	for _, req := range s.requests {
		if req.Status == models.StatusPending {
			clone := *req
			pending = append(pending, &clone)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending, nil
}

func (s *fakeRequestStore) ListPendingByTable(ctx context.Context, tableName string) ([]*models.ChangeRequest, error) {
	all, _ := s.ListPending(ctx)
	var pending []*models.ChangeRequest
	for _, req := range all {
		if req.TableName == tableName {
			pending = append(pending, req)
		}
	}
	return pending, nil
}

func (s *fakeRequestStore) Transition(ctx context.Context, requestID uuid.UUID, to models.RequestStatus, checker string, comments *string) (*models.ChangeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[requestID]
	if !ok {
		return nil, apperr.NotFound("change request %s not found", requestID)
	}
	if req.Status != models.StatusPending {
		return nil, apperr.InvalidTransition("change request %s is already %s", requestID, req.Status)
	}

	req.Status = to
	req.Checker = &checker
	if comments != nil {
		req.Comments = comments
	}
	req.UpdatedAt = time.Now().UTC()

	clone := *req
	return &clone, nil
}

// fakeConfigStore is an in-memory ConfigStore
type fakeConfigStore struct {
	mu        sync.Mutex
	columns   map[string][]models.ColumnPermission
	dropdowns map[string]map[string][]string
}

func newFakeConfigStore() *fakeConfigStore {
	return &fakeConfigStore{
		columns:   make(map[string][]models.ColumnPermission),
		dropdowns: make(map[string]map[string][]string),
	}
}

func (s *fakeConfigStore) GetColumns(ctx context.Context, tableName string) ([]models.ColumnPermission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cols := s.columns[tableName]
	out := make([]models.ColumnPermission, len(cols))
	copy(out, cols)
	return out, nil
}

func (s *fakeConfigStore) MergeColumns(ctx context.Context, tableName string, incoming []models.ColumnPermission) ([]models.ColumnPermission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := models.MergeColumnList(s.columns[tableName], incoming)
	s.columns[tableName] = merged
	out := make([]models.ColumnPermission, len(merged))
	copy(out, merged)
	return out, nil
}

func (s *fakeConfigStore) GetDropdowns(ctx context.Context, tableName string) (map[string][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	options, ok := s.dropdowns[tableName]
	if !ok {
		return map[string][]string{}, nil
	}
	out := make(map[string][]string, len(options))
	for col, opts := range options {
		out[col] = append([]string(nil), opts...)
	}
	return out, nil
}

func (s *fakeConfigStore) ReplaceDropdowns(ctx context.Context, tableName string, options map[string][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	replaced := make(map[string][]string, len(options))
	for col, opts := range options {
		replaced[col] = append([]string(nil), opts...)
	}
	s.dropdowns[tableName] = replaced
	return nil
}
