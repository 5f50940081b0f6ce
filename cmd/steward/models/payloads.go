package models

import (
	"github.com/tabular/steward/common/models"
)

// CreateRequestPayload is the maker submission body
// POST /api/v1/requests
type CreateRequestPayload struct {
	RequestID string           `json:"request_id,omitempty"`
	TableName string           `json:"table_name" validate:"required"`
	RowID     *string          `json:"row_id,omitempty"`
	OldValues models.RowValues `json:"old_values"`
	NewValues models.RowValues `json:"new_values"`
	MakerID   string           `json:"maker_id" validate:"required"`
	Comments  *string          `json:"comments,omitempty"`
}

// ReviewPayload is the single-request approve/reject body
// POST /api/v1/requests/:id/approve and .../reject
type ReviewPayload struct {
	CheckerID string  `json:"checker_id" validate:"required"`
	Comments  *string `json:"comments,omitempty"`
	// Reason is used by reject only; blank reasons are refused by the
	// approval service, not by payload validation, so the caller gets a
	// ValidationFailed it can surface to the checker
	Reason string `json:"reason,omitempty"`
}

// BulkReviewPayload is the bulk approve/reject body
// POST /api/v1/requests/bulk/approve and .../reject
type BulkReviewPayload struct {
	RequestIDs []string `json:"request_ids" validate:"required,min=1,dive,uuid"`
	CheckerID  string   `json:"checker_id" validate:"required"`
	Comments   *string  `json:"comments,omitempty"`
	// Reason is shared across the whole selection on bulk reject
	Reason string `json:"reason,omitempty"`
}

// ColumnPermissionPayload is one entry of a permission update
type ColumnPermissionPayload struct {
	ColumnName   string `json:"column_name" validate:"required"`
	ColumnStatus string `json:"column_status" validate:"required,oneof=editable non-editable"`
	EditType     string `json:"edit_type,omitempty"`
}

// SetColumnsPayload merge-upserts column permissions
// PUT /api/v1/config/:table/columns
type SetColumnsPayload struct {
	ColumnList []ColumnPermissionPayload `json:"column_list" validate:"required,min=1,dive"`
}

// SetDropdownsPayload replaces a table's dropdown configuration
// PUT /api/v1/config/:table/dropdowns
type SetDropdownsPayload struct {
	Options map[string][]string `json:"options" validate:"required"`
}

// Permissions converts payload entries to domain column permissions
func (p *SetColumnsPayload) Permissions() []models.ColumnPermission {
	columns := make([]models.ColumnPermission, 0, len(p.ColumnList))
	for _, col := range p.ColumnList {
		columns = append(columns, models.ColumnPermission{
			ColumnName:   col.ColumnName,
			ColumnStatus: models.ColumnStatus(col.ColumnStatus),
			EditType:     models.EditType(col.EditType),
		})
	}
	return columns
}
