package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tabular/steward/common/apperr"
	"github.com/tabular/steward/common/db"
	"github.com/tabular/steward/common/models"
)

// RequestRepository handles database operations for change requests.
// The change_tracker table is append-only: rows are created once and only
// status, checker, comments and updated_at ever change.
type RequestRepository struct {
	db *db.DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(database *db.DB) *RequestRepository {
	return &RequestRepository{db: database}
}

const requestColumns = `request_id, table_name, row_id, old_data, new_data, status, maker, checker, comments, created_at, updated_at`

// Create inserts a new change request
func (r *RequestRepository) Create(ctx context.Context, req *models.ChangeRequest) error {
	oldData, err := marshalRowValues(req.OldValues)
	if err != nil {
		return apperr.Storage(err, "encode old values")
	}
	newData, err := json.Marshal(req.NewValues)
	if err != nil {
		return apperr.Storage(err, "encode new values")
	}

	query := `
		INSERT INTO change_tracker (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.Exec(
		ctx,
		query,
		req.RequestID,
		req.TableName,
		req.RowID,
		oldData,
		newData,
		req.Status,
		req.Maker,
		req.Checker,
		req.Comments,
		req.CreatedAt,
		req.UpdatedAt,
	)

	if err != nil {
		return apperr.Storage(err, "create change request")
	}

	return nil
}

// GetByID retrieves a change request by its ID
func (r *RequestRepository) GetByID(ctx context.Context, requestID uuid.UUID) (*models.ChangeRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM change_tracker
		WHERE request_id = $1
	`

	req, err := scanRequest(r.db.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("change request %s not found", requestID)
		}
		return nil, apperr.Storage(err, "get change request")
	}

	return req, nil
}

// ListPending retrieves pending requests oldest first (FIFO review queue)
func (r *RequestRepository) ListPending(ctx context.Context) ([]*models.ChangeRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM change_tracker
		WHERE status = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, models.StatusPending)
	if err != nil {
		return nil, apperr.Storage(err, "list pending requests")
	}
	defer rows.Close()

	var requests []*models.ChangeRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, apperr.Storage(err, "scan change request")
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err, "iterate change requests")
	}

	return requests, nil
}

// ListPendingByTable retrieves pending requests for one table, oldest first
func (r *RequestRepository) ListPendingByTable(ctx context.Context, tableName string) ([]*models.ChangeRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM change_tracker
		WHERE status = $1 AND table_name = $2
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, models.StatusPending, tableName)
	if err != nil {
		return nil, apperr.Storage(err, "list pending requests by table")
	}
	defer rows.Close()

	var requests []*models.ChangeRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, apperr.Storage(err, "scan change request")
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err, "iterate change requests")
	}

	return requests, nil
}

// Transition moves a pending request into a terminal status and records the
// checker. The guard and the write are one conditional UPDATE, so two racing
// calls resolve with exactly one winner; the loser sees InvalidTransition
// (or NotFound if the id never existed).
func (r *RequestRepository) Transition(ctx context.Context, requestID uuid.UUID, to models.RequestStatus, checker string, comments *string) (*models.ChangeRequest, error) {
	var updated *models.ChangeRequest

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE change_tracker
			SET status = $2,
			    checker = $3,
			    comments = COALESCE($4, comments),
			    updated_at = NOW()
			WHERE request_id = $1 AND status = $5
			RETURNING ` + requestColumns + `
		`

		req, err := scanRequest(tx.QueryRow(ctx, query, requestID, to, checker, comments, models.StatusPending))
		if err == nil {
			updated = req
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return apperr.Storage(err, "transition change request")
		}

		// No pending row matched: distinguish a resolved request from a
		// missing one
		var status models.RequestStatus
		err = tx.QueryRow(ctx, `SELECT status FROM change_tracker WHERE request_id = $1`, requestID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("change request %s not found", requestID)
		}
		if err != nil {
			return apperr.Storage(err, "load change request status")
		}
		return apperr.InvalidTransition("change request %s is already %s", requestID, status)
	})

	if err != nil {
		return nil, err
	}

	return updated, nil
}

// rowScanner covers pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*models.ChangeRequest, error) {
	req := &models.ChangeRequest{}
	var oldData, newData []byte

	err := row.Scan(
		&req.RequestID,
		&req.TableName,
		&req.RowID,
		&oldData,
		&newData,
		&req.Status,
		&req.Maker,
		&req.Checker,
		&req.Comments,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalRowValues(oldData, &req.OldValues); err != nil {
		return nil, fmt.Errorf("decode old values: %w", err)
	}
	if err := unmarshalRowValues(newData, &req.NewValues); err != nil {
		return nil, fmt.Errorf("decode new values: %w", err)
	}

	return req, nil
}

// marshalRowValues maps an empty set onto SQL NULL; insertions carry no
// prior values
func marshalRowValues(rv models.RowValues) ([]byte, error) {
	if rv.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(rv)
}

func unmarshalRowValues(data []byte, rv *models.RowValues) error {
	if len(data) == 0 {
		*rv = models.NewRowValues()
		return nil
	}
	return json.Unmarshal(data, rv)
}
