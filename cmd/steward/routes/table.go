package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/tabular/steward/cmd/steward/container"
	"github.com/tabular/steward/cmd/steward/handlers"
)

// RegisterTableRoutes registers governed-table browsing routes
func RegisterTableRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewTableHandler(c.TableService)

	tables := e.Group("/api/v1/tables")
	{
		tables.GET("", h.ListTables)               // GET /api/v1/tables
		tables.GET("/:name/columns", h.ListColumns) // GET /api/v1/tables/{name}/columns
		tables.GET("/:name/rows", h.ListRows)       // GET /api/v1/tables/{name}/rows
	}
}
