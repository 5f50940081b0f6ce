package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus represents the lifecycle state of a change request
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed
func (s RequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ChangeRequest is one proposed edit or insertion awaiting review.
// Maps to: change_tracker table.
//
// table_name, row_id, old/new values, maker and created_at are immutable once
// created; only status, checker, comments and updated_at move, and only
// through the approval service while the request is still pending.
type ChangeRequest struct {
	// Unique request ID, generated at submission if the client omits one
	RequestID uuid.UUID `db:"request_id" json:"request_id"`

	// Target table, restricted to the safe-identifier pattern
	TableName string `db:"table_name" json:"table_name"`

	// Stable key of the target row; nil for an insertion
	RowID *string `db:"row_id" json:"row_id,omitempty"`

	// Prior values of the touched columns; empty for an insertion
	OldValues RowValues `db:"old_data" json:"old_values"`

	// Proposed values
	NewValues RowValues `db:"new_data" json:"new_values"`

	Status RequestStatus `db:"status" json:"status"`

	// Submitting user
	Maker string `db:"maker" json:"maker"`

	// Reviewing user, nil until reviewed
	Checker *string `db:"checker" json:"checker,omitempty"`

	// Rationale from the maker at submission or the checker at review
	Comments *string `db:"comments" json:"comments,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsInsertion reports whether the request creates a new row
func (r *ChangeRequest) IsInsertion() bool {
	return r.RowID == nil
}
