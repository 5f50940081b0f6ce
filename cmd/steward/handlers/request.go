package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/tabular/steward/cmd/steward/middleware"
	"github.com/tabular/steward/cmd/steward/models"
	"github.com/tabular/steward/cmd/steward/service"
	"github.com/tabular/steward/common/apperr"
	"github.com/tabular/steward/common/diff"
	commonmodels "github.com/tabular/steward/common/models"
)

// RequestHandler handles change-request submission and review
type RequestHandler struct {
	requests *service.RequestService
	approval *service.ApprovalService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requests *service.RequestService, approval *service.ApprovalService) *RequestHandler {
	return &RequestHandler{
		requests: requests,
		approval: approval,
	}
}

// Create submits a new change request
// POST /api/v1/requests
func (h *RequestHandler) Create(c echo.Context) error {
	var payload models.CreateRequestPayload
	if err := c.Bind(&payload); err != nil {
		return respondError(c, apperr.InvalidArgument("malformed request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return respondError(c, apperr.InvalidArgument("table_name and maker_id are required fields"))
	}

	req, err := h.requests.Submit(c.Request().Context(), service.Submission{
		RequestID: payload.RequestID,
		TableName: payload.TableName,
		RowID:     payload.RowID,
		OldValues: payload.OldValues,
		NewValues: payload.NewValues,
		Maker:     payload.MakerID,
		Comments:  payload.Comments,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusCreated, "Change request submitted", req)
}

// Get retrieves one request with its field-level diff
// GET /api/v1/requests/:id
func (h *RequestHandler) Get(c echo.Context) error {
	requestID, err := parseRequestID(c)
	if err != nil {
		return respondError(c, err)
	}

	req, entries, err := h.requests.Get(c.Request().Context(), requestID)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "", map[string]interface{}{
		"request": req,
		"diff":    entries,
	})
}

// ListPending returns the checker's FIFO review queue
// GET /api/v1/requests/pending?table=broker
func (h *RequestHandler) ListPending(c echo.Context) error {
	requests, err := h.requests.ListPending(c.Request().Context(), c.QueryParam("table"))
	if err != nil {
		return respondError(c, err)
	}

	// Enrich each pending request with its diff for the review screen
	type pendingItem struct {
		*commonmodels.ChangeRequest
		Diff []diff.Entry `json:"diff"`
	}

	items := make([]pendingItem, 0, len(requests))
	for _, req := range requests {
		items = append(items, pendingItem{
			ChangeRequest: req,
			Diff:          diff.Compute(req.OldValues, req.NewValues),
		})
	}

	return respond(c, http.StatusOK, "", items)
}

// MergePatch renders a request as an RFC 7386 merge patch
// GET /api/v1/requests/:id/merge-patch
func (h *RequestHandler) MergePatch(c echo.Context) error {
	requestID, err := parseRequestID(c)
	if err != nil {
		return respondError(c, err)
	}

	patch, err := h.requests.MergePatch(c.Request().Context(), requestID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Blob(http.StatusOK, "application/merge-patch+json", patch)
}

// Approve approves a pending request
// POST /api/v1/requests/:id/approve
func (h *RequestHandler) Approve(c echo.Context) error {
	requestID, err := parseRequestID(c)
	if err != nil {
		return respondError(c, err)
	}

	payload, err := h.bindReview(c)
	if err != nil {
		return respondError(c, err)
	}

	req, err := h.approval.Approve(c.Request().Context(), requestID, payload.CheckerID, payload.Comments)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "Change request approved", req)
}

// Reject rejects a pending request; the reason is mandatory
// POST /api/v1/requests/:id/reject
func (h *RequestHandler) Reject(c echo.Context) error {
	requestID, err := parseRequestID(c)
	if err != nil {
		return respondError(c, err)
	}

	payload, err := h.bindReview(c)
	if err != nil {
		return respondError(c, err)
	}

	req, err := h.approval.Reject(c.Request().Context(), requestID, payload.CheckerID, payload.Reason)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "Change request rejected", req)
}

// BulkApprove approves a selection; per-item outcomes, partial failure allowed
// POST /api/v1/requests/bulk/approve
func (h *RequestHandler) BulkApprove(c echo.Context) error {
	payload, ids, err := h.bindBulk(c)
	if err != nil {
		return respondError(c, err)
	}

	outcomes := h.approval.ApproveAll(c.Request().Context(), ids, payload.CheckerID, payload.Comments)
	return respond(c, http.StatusOK, "Bulk approval processed", outcomes)
}

// BulkReject rejects a selection with one shared reason
// POST /api/v1/requests/bulk/reject
func (h *RequestHandler) BulkReject(c echo.Context) error {
	payload, ids, err := h.bindBulk(c)
	if err != nil {
		return respondError(c, err)
	}

	outcomes := h.approval.RejectAll(c.Request().Context(), ids, payload.CheckerID, payload.Reason)
	return respond(c, http.StatusOK, "Bulk rejection processed", outcomes)
}

// bindReview binds the review payload, defaulting checker_id to the
// authenticated user when absent
func (h *RequestHandler) bindReview(c echo.Context) (*models.ReviewPayload, error) {
	var payload models.ReviewPayload
	if err := c.Bind(&payload); err != nil {
		return nil, apperr.InvalidArgument("malformed request body")
	}
	if payload.CheckerID == "" {
		payload.CheckerID = middleware.GetUserID(c)
	}
	if payload.CheckerID == "" {
		return nil, apperr.InvalidArgument("checker_id is required")
	}
	return &payload, nil
}

func (h *RequestHandler) bindBulk(c echo.Context) (*models.BulkReviewPayload, []uuid.UUID, error) {
	var payload models.BulkReviewPayload
	if err := c.Bind(&payload); err != nil {
		return nil, nil, apperr.InvalidArgument("malformed request body")
	}
	if payload.CheckerID == "" {
		payload.CheckerID = middleware.GetUserID(c)
	}
	if err := c.Validate(&payload); err != nil {
		return nil, nil, apperr.InvalidArgument("request_ids and checker_id are required")
	}

	ids := make([]uuid.UUID, 0, len(payload.RequestIDs))
	for _, raw := range payload.RequestIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil, apperr.InvalidArgument("invalid request_id: %q", raw)
		}
		ids = append(ids, id)
	}

	return &payload, ids, nil
}

func parseRequestID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.InvalidArgument("invalid request_id: %q", c.Param("id"))
	}
	return id, nil
}
