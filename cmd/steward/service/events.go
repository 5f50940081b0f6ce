package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tabular/steward/common/logger"
	"github.com/tabular/steward/common/models"
	"github.com/tabular/steward/common/queue"
)

// TopicRequests carries every change-request lifecycle event
const TopicRequests = "change-requests"

// Event kinds published on TopicRequests
const (
	EventRequestCreated  = "request.created"
	EventRequestApproved = "request.approved"
	EventRequestRejected = "request.rejected"
)

// RequestEvent is the payload published on every lifecycle transition
type RequestEvent struct {
	Kind      string               `json:"kind"`
	RequestID string               `json:"request_id"`
	TableName string               `json:"table_name"`
	Status    models.RequestStatus `json:"status"`
	Actor     string               `json:"actor"`
	At        time.Time            `json:"at"`
}

// publishRequestEvent serializes and publishes a lifecycle event. Publish
// failures are logged and swallowed: the record is already durable and the
// feed is advisory.
func publishRequestEvent(ctx context.Context, q queue.Queue, log *logger.Logger, kind string, req *models.ChangeRequest, actor string) {
	if q == nil {
		return
	}

	event := RequestEvent{
		Kind:      kind,
		RequestID: req.RequestID.String(),
		TableName: req.TableName,
		Status:    req.Status,
		Actor:     actor,
		At:        time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Warn("encode request event", "error", err)
		return
	}

	if err := q.Publish(ctx, TopicRequests, event.RequestID, payload); err != nil {
		log.Warn("publish request event", "kind", kind, "request_id", event.RequestID, "error", err)
	}
}

// StartAuditFeed subscribes a logging consumer to the request topic so every
// lifecycle transition leaves an audit line
func StartAuditFeed(ctx context.Context, q queue.Queue, log *logger.Logger) error {
	return q.Subscribe(ctx, TopicRequests, func(ctx context.Context, key string, value []byte) error {
		var event RequestEvent
		if err := json.Unmarshal(value, &event); err != nil {
			log.Warn("malformed request event", "key", key, "error", err)
			return nil
		}

		log.Info("audit",
			"event", event.Kind,
			"request_id", event.RequestID,
			"table_name", event.TableName,
			"status", event.Status,
			"actor", event.Actor,
			"at", event.At.Format(time.RFC3339),
		)
		return nil
	})
}
