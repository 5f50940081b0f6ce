package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tabular/steward/cmd/steward/service"
	"github.com/tabular/steward/common/apperr"
)

// TableHandler handles governed-table browsing for the maker grid
type TableHandler struct {
	tables *service.TableService
}

// NewTableHandler creates a new table handler
func NewTableHandler(tables *service.TableService) *TableHandler {
	return &TableHandler{tables: tables}
}

// ListTables lists governed tables
// GET /api/v1/tables
func (h *TableHandler) ListTables(c echo.Context) error {
	tables, err := h.tables.ListTables(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	if tables == nil {
		tables = []string{}
	}

	return respond(c, http.StatusOK, "", tables)
}

// ListColumns lists a table's columns
// GET /api/v1/tables/:name/columns
func (h *TableHandler) ListColumns(c echo.Context) error {
	columns, err := h.tables.ListColumns(c.Request().Context(), c.Param("name"))
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "", columns)
}

// ListRows returns a page of rows
// GET /api/v1/tables/:name/rows?page=1&page_size=10
func (h *TableHandler) ListRows(c echo.Context) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return respondError(c, err)
	}
	pageSize, err := queryInt(c, "page_size", 10)
	if err != nil {
		return respondError(c, err)
	}

	listing, err := h.tables.ListRows(c.Request().Context(), c.Param("name"), page, pageSize)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "", listing)
}

func queryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, apperr.InvalidArgument("invalid pagination parameter %q", name)
	}
	return value, nil
}
