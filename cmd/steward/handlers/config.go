package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tabular/steward/cmd/steward/models"
	"github.com/tabular/steward/cmd/steward/service"
	"github.com/tabular/steward/common/apperr"
)

// ConfigHandler handles the admin column configuration endpoints
type ConfigHandler struct {
	config *service.ConfigService
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(config *service.ConfigService) *ConfigHandler {
	return &ConfigHandler{config: config}
}

// GetColumns returns a table's column permissions
// GET /api/v1/config/:table/columns
func (h *ConfigHandler) GetColumns(c echo.Context) error {
	columns, err := h.config.GetPermissions(c.Request().Context(), c.Param("table"))
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "", map[string]interface{}{
		"table_name":  c.Param("table"),
		"column_list": columns,
	})
}

// SetColumns merge-upserts column permissions for a table
// PUT /api/v1/config/:table/columns
func (h *ConfigHandler) SetColumns(c echo.Context) error {
	var payload models.SetColumnsPayload
	if err := c.Bind(&payload); err != nil {
		return respondError(c, apperr.InvalidArgument("malformed request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return respondError(c, apperr.InvalidArgument("column_list is required and must be a non-empty array"))
	}

	merged, err := h.config.SetPermissions(c.Request().Context(), c.Param("table"), payload.Permissions())
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "Column permissions updated", map[string]interface{}{
		"table_name":  c.Param("table"),
		"column_list": merged,
	})
}

// GetDropdowns returns a column's configured options
// GET /api/v1/config/:table/dropdowns/:column
func (h *ConfigHandler) GetDropdowns(c echo.Context) error {
	options, err := h.config.GetDropdownOptions(c.Request().Context(), c.Param("table"), c.Param("column"))
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "", map[string]interface{}{
		"table_name":  c.Param("table"),
		"column_name": c.Param("column"),
		"options":     options,
	})
}

// SetDropdowns replaces a table's full dropdown configuration
// PUT /api/v1/config/:table/dropdowns
func (h *ConfigHandler) SetDropdowns(c echo.Context) error {
	var payload models.SetDropdownsPayload
	if err := c.Bind(&payload); err != nil {
		return respondError(c, apperr.InvalidArgument("malformed request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return respondError(c, apperr.InvalidArgument("options is required"))
	}

	if err := h.config.SetDropdownOptions(c.Request().Context(), c.Param("table"), payload.Options); err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "Dropdown options updated", nil)
}
