package service

import (
	"context"
	"encoding/json"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"
	"github.com/tabular/steward/common/apperr"
	"github.com/tabular/steward/common/diff"
	"github.com/tabular/steward/common/logger"
	"github.com/tabular/steward/common/models"
	"github.com/tabular/steward/common/queue"
	"github.com/tabular/steward/common/validation"
)

// RequestStore is the persistence contract for the change tracker;
// implemented by repository.RequestRepository and by in-memory fakes in tests
type RequestStore interface {
	Create(ctx context.Context, req *models.ChangeRequest) error
	GetByID(ctx context.Context, requestID uuid.UUID) (*models.ChangeRequest, error)
	ListPending(ctx context.Context) ([]*models.ChangeRequest, error)
	ListPendingByTable(ctx context.Context, tableName string) ([]*models.ChangeRequest, error)
	Transition(ctx context.Context, requestID uuid.UUID, to models.RequestStatus, checker string, comments *string) (*models.ChangeRequest, error)
}

// Submission carries a maker's proposed edit or insertion
type Submission struct {
	RequestID string
	TableName string
	RowID     *string
	OldValues models.RowValues
	NewValues models.RowValues
	Maker     string
	Comments  *string
}

// RequestService owns maker submissions: permission enforcement, edit-type
// validation and no-op detection run here before anything is persisted.
type RequestService struct {
	store  RequestStore
	config *ConfigService
	queue  queue.Queue
	log    *logger.Logger
}

// NewRequestService creates a new request service
func NewRequestService(store RequestStore, config *ConfigService, q queue.Queue, log *logger.Logger) *RequestService {
	return &RequestService{
		store:  store,
		config: config,
		queue:  q,
		log:    log,
	}
}

// Submit validates a maker submission and records it as a pending change
// request. Client-side validation already ran in the grid, but it is not
// trustworthy, so the full pipeline runs again here.
func (s *RequestService) Submit(ctx context.Context, sub Submission) (*models.ChangeRequest, error) {
	if sub.TableName == "" || sub.Maker == "" {
		return nil, apperr.InvalidArgument("table_name and maker are required fields")
	}
	if !models.ValidIdentifier(sub.TableName) {
		return nil, apperr.InvalidArgument("invalid table name: %q", sub.TableName)
	}
	if sub.NewValues.IsEmpty() {
		return nil, apperr.InvalidArgument("new_values must not be empty")
	}

	requestID, err := resolveRequestID(sub.RequestID)
	if err != nil {
		return nil, err
	}

	columns, err := s.config.GetPermissions(ctx, sub.TableName)
	if err != nil {
		return nil, err
	}

	if err := s.validateSubmission(ctx, sub, columns); err != nil {
		return nil, err
	}

	// An edit that changes nothing is refused outright; an insertion always
	// counts as a change
	if sub.RowID != nil {
		if len(diff.Compute(sub.OldValues, sub.NewValues)) == 0 {
			return nil, apperr.InvalidArgument("no fields changed")
		}
	}

	now := time.Now().UTC()
	req := &models.ChangeRequest{
		RequestID: requestID,
		TableName: sub.TableName,
		RowID:     sub.RowID,
		OldValues: sub.OldValues,
		NewValues: sub.NewValues,
		Status:    models.StatusPending,
		Maker:     sub.Maker,
		Comments:  sub.Comments,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, req); err != nil {
		return nil, err
	}

	publishRequestEvent(ctx, s.queue, s.log, EventRequestCreated, req, req.Maker)

	s.log.Info("change request submitted",
		"request_id", req.RequestID,
		"table_name", req.TableName,
		"maker", req.Maker,
		"insertion", req.IsInsertion(),
		"columns", req.NewValues.Len(),
	)

	return req, nil
}

// Get returns a single request with its field-level diff
func (s *RequestService) Get(ctx context.Context, requestID uuid.UUID) (*models.ChangeRequest, []diff.Entry, error) {
	req, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	return req, diff.Compute(req.OldValues, req.NewValues), nil
}

// MergePatch renders a request as an RFC 7386 merge patch of old → new.
// Applying approved values back into the live table is the surrounding
// system's concern; this gives its applier a standard format to consume.
func (s *RequestService) MergePatch(ctx context.Context, requestID uuid.UUID) ([]byte, error) {
	req, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	oldJSON, err := json.Marshal(req.OldValues)
	if err != nil {
		return nil, apperr.Storage(err, "encode old values")
	}
	newJSON, err := json.Marshal(req.NewValues)
	if err != nil {
		return nil, apperr.Storage(err, "encode new values")
	}

	patch, err := jsonpatch.CreateMergePatch(oldJSON, newJSON)
	if err != nil {
		return nil, apperr.Storage(err, "compute merge patch")
	}

	return patch, nil
}

// ListPending returns the FIFO review queue, optionally scoped to one table
func (s *RequestService) ListPending(ctx context.Context, tableName string) ([]*models.ChangeRequest, error) {
	if tableName == "" {
		return s.store.ListPending(ctx)
	}
	if !models.ValidIdentifier(tableName) {
		return nil, apperr.InvalidArgument("invalid table name: %q", tableName)
	}
	return s.store.ListPendingByTable(ctx, tableName)
}

// validateSubmission enforces column permissions and edit-type rules for
// every proposed column
func (s *RequestService) validateSubmission(ctx context.Context, sub Submission, columns []models.ColumnPermission) error {
	policy := make(map[string]models.ColumnPermission, len(columns))
	for _, col := range columns {
		policy[col.ColumnName] = col
	}

	for _, column := range sub.NewValues.Columns() {
		col, configured := policy[column]
		if !configured || col.ColumnStatus != models.ColumnEditable {
			// Default policy: anything not explicitly editable is locked
			return apperr.ValidationFailed(column, "column is not editable")
		}

		value, _ := sub.NewValues.Get(column)

		var options []string
		if col.EditType.Normalize() == models.EditTypeDropdown {
			var err error
			options, err = s.config.GetDropdownOptions(ctx, sub.TableName, column)
			if err != nil {
				return err
			}
		}

		if err := validation.Validate(col.EditType, column, value, options); err != nil {
			return err
		}
	}

	return nil
}

// resolveRequestID parses a client-supplied id or generates a fresh one
func resolveRequestID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.InvalidArgument("invalid request_id: %q", raw)
	}
	return id, nil
}
