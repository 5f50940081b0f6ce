package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tabular/steward/common/apperr"
	"github.com/tabular/steward/common/logger"
	"github.com/tabular/steward/common/models"
	"github.com/tabular/steward/common/queue"
)

// ApprovalService is the state machine over pending change requests.
// pending → approved and pending → rejected are the only transitions; both
// are terminal. The guard lives in the store's Transition primitive, so
// concurrent duplicate calls resolve with exactly one winner.
type ApprovalService struct {
	store RequestStore
	queue queue.Queue
	log   *logger.Logger
}

// NewApprovalService creates a new approval service
func NewApprovalService(store RequestStore, q queue.Queue, log *logger.Logger) *ApprovalService {
	return &ApprovalService{
		store: store,
		queue: q,
		log:   log,
	}
}

// Approve moves a pending request to approved and records the checker.
// Comments are optional; existing maker comments are kept when absent.
func (s *ApprovalService) Approve(ctx context.Context, requestID uuid.UUID, checker string, comments *string) (*models.ChangeRequest, error) {
	if checker == "" {
		return nil, apperr.InvalidArgument("checker is required")
	}

	req, err := s.store.Transition(ctx, requestID, models.StatusApproved, checker, comments)
	if err != nil {
		return nil, err
	}

	publishRequestEvent(ctx, s.queue, s.log, EventRequestApproved, req, checker)

	s.log.Info("change request approved",
		"request_id", requestID,
		"table_name", req.TableName,
		"checker", checker,
	)

	return req, nil
}

// Reject moves a pending request to rejected. The reason is mandatory: it is
// surfaced to the maker as actionable feedback, so a blank rejection is a
// validation error and the request stays pending.
func (s *ApprovalService) Reject(ctx context.Context, requestID uuid.UUID, checker, reason string) (*models.ChangeRequest, error) {
	if checker == "" {
		return nil, apperr.InvalidArgument("checker is required")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperr.ValidationFailed("reason", "a rejection reason is required")
	}

	req, err := s.store.Transition(ctx, requestID, models.StatusRejected, checker, &reason)
	if err != nil {
		return nil, err
	}

	publishRequestEvent(ctx, s.queue, s.log, EventRequestRejected, req, checker)

	s.log.Info("change request rejected",
		"request_id", requestID,
		"table_name", req.TableName,
		"checker", checker,
	)

	return req, nil
}

// BulkOutcome reports one item of a bulk approve/reject
type BulkOutcome struct {
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Kind      apperr.Kind `json:"kind,omitempty"`
	Message   string      `json:"message,omitempty"`
}

// ApproveAll approves each selected request independently. One item failing
// (already reviewed, storage hiccup) never aborts the rest; the aggregate
// reports per-item outcomes in input order.
func (s *ApprovalService) ApproveAll(ctx context.Context, requestIDs []uuid.UUID, checker string, comments *string) []BulkOutcome {
	outcomes := make([]BulkOutcome, 0, len(requestIDs))
	for _, id := range requestIDs {
		_, err := s.Approve(ctx, id, checker, comments)
		outcomes = append(outcomes, outcomeFor(id, err))
	}
	return outcomes
}

// RejectAll rejects each selected request independently with one shared
// reason
func (s *ApprovalService) RejectAll(ctx context.Context, requestIDs []uuid.UUID, checker, reason string) []BulkOutcome {
	outcomes := make([]BulkOutcome, 0, len(requestIDs))
	for _, id := range requestIDs {
		_, err := s.Reject(ctx, id, checker, reason)
		outcomes = append(outcomes, outcomeFor(id, err))
	}
	return outcomes
}

func outcomeFor(id uuid.UUID, err error) BulkOutcome {
	if err == nil {
		return BulkOutcome{RequestID: id.String(), Success: true}
	}

	outcome := BulkOutcome{
		RequestID: id.String(),
		Kind:      apperr.KindOf(err),
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		outcome.Message = appErr.Message
	} else {
		outcome.Message = err.Error()
	}
	return outcome
}
