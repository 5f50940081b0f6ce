package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabular/steward/common/apperr"
	"github.com/tabular/steward/common/logger"
	"github.com/tabular/steward/common/models"
)

func testLogger() *logger.Logger {
	return logger.New("error", "json")
}

func pendingRequest(t *testing.T, store *fakeRequestStore, tableName string) *models.ChangeRequest {
	t.Helper()

	oldValues := models.NewRowValues()
	oldValues.Set("BRN_NAME", models.StringValue("Old"))
	newValues := models.NewRowValues()
	newValues.Set("BRN_NAME", models.StringValue("New"))

	rowID := "r1"
	req := &models.ChangeRequest{
		RequestID: uuid.New(),
		TableName: tableName,
		RowID:     &rowID,
		OldValues: oldValues,
		NewValues: newValues,
		Status:    models.StatusPending,
		Maker:     "m1",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Create(context.Background(), req))
	return req
}

func TestApprove_PendingRequest(t *testing.T) {
	store := newFakeRequestStore()
	svc := NewApprovalService(store, nil, testLogger())
	req := pendingRequest(t, store, "broker")

	approved, err := svc.Approve(context.Background(), req.RequestID, "c1", nil)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, approved.Status)
	require.NotNil(t, approved.Checker)
	assert.Equal(t, "c1", *approved.Checker)
}

func TestApprove_AlreadyApproved(t *testing.T) {
	store := newFakeRequestStore()
	svc := NewApprovalService(store, nil, testLogger())
	req := pendingRequest(t, store, "broker")

	first, err := svc.Approve(context.Background(), req.RequestID, "c1", nil)
	require.NoError(t, err)

	// A racing duplicate must fail cleanly and not double-apply
	_, err = svc.Approve(context.Background(), req.RequestID, "c2", nil)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))

	// Checker and updated_at must not move again
	current, err := store.GetByID(context.Background(), req.RequestID)
	require.NoError(t, err)
	assert.Equal(t, "c1", *current.Checker)
	assert.Equal(t, first.UpdatedAt, current.UpdatedAt)
}

func TestReject_RequiresReason(t *testing.T) {
	store := newFakeRequestStore()
	svc := NewApprovalService(store, nil, testLogger())
	req := pendingRequest(t, store, "broker")

	for _, reason := range []string{"", "   ", "\t"} {
		_, err := svc.Reject(context.Background(), req.RequestID, "c1", reason)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidationFailed))
	}

	// Request must remain pending after blank-reason attempts
	current, err := store.GetByID(context.Background(), req.RequestID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, current.Status)
	assert.Nil(t, current.Checker)
}

func TestReject_Pending(t *testing.T) {
	store := newFakeRequestStore()
	svc := NewApprovalService(store, nil, testLogger())
	req := pendingRequest(t, store, "broker")

	rejected, err := svc.Reject(context.Background(), req.RequestID, "c1", "value is stale")
	require.NoError(t, err)

	assert.Equal(t, models.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.Comments)
	assert.Equal(t, "value is stale", *rejected.Comments)

	// Rejection is terminal
	_, err = svc.Approve(context.Background(), req.RequestID, "c2", nil)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
}

func TestApprove_NotFound(t *testing.T) {
	store := newFakeRequestStore()
	svc := NewApprovalService(store, nil, testLogger())

	_, err := svc.Approve(context.Background(), uuid.New(), "c1", nil)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestApproveAll_PartialFailure(t *testing.T) {
	store := newFakeRequestStore()
	svc := NewApprovalService(store, nil, testLogger())

	first := pendingRequest(t, store, "broker")
	second := pendingRequest(t, store, "broker")
	third := pendingRequest(t, store, "broker")

	// Another session already approved the second request
	_, err := svc.Approve(context.Background(), second.RequestID, "other-checker", nil)
	require.NoError(t, err)

	outcomes := svc.ApproveAll(
		context.Background(),
		[]uuid.UUID{first.RequestID, second.RequestID, third.RequestID},
		"c1",
		nil,
	)

	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].Success)
	assert.False(t, outcomes[1].Success)
	assert.Equal(t, apperr.KindInvalidTransition, outcomes[1].Kind)
	assert.True(t, outcomes[2].Success)

	// The failures must not have aborted the rest
	for _, id := range []uuid.UUID{first.RequestID, third.RequestID} {
		req, err := store.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, req.Status)
	}
}

func TestRejectAll_SharedReason(t *testing.T) {
	store := newFakeRequestStore()
	svc := NewApprovalService(store, nil, testLogger())

	first := pendingRequest(t, store, "broker")
	second := pendingRequest(t, store, "broker")

	outcomes := svc.RejectAll(
		context.Background(),
		[]uuid.UUID{first.RequestID, second.RequestID},
		"c1",
		"bulk cleanup",
	)

	require.Len(t, outcomes, 2)
	for i, id := range []uuid.UUID{first.RequestID, second.RequestID} {
		assert.True(t, outcomes[i].Success)
		req, err := store.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, req.Status)
		require.NotNil(t, req.Comments)
		assert.Equal(t, "bulk cleanup", *req.Comments)
	}
}
