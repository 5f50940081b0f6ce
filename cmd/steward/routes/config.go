package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/tabular/steward/cmd/steward/container"
	"github.com/tabular/steward/cmd/steward/handlers"
)

// RegisterConfigRoutes registers the admin column configuration routes
func RegisterConfigRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewConfigHandler(c.ConfigService)

	config := e.Group("/api/v1/config")
	{
		config.GET("/:table/columns", h.GetColumns)             // GET /api/v1/config/{table}/columns
		config.PUT("/:table/columns", h.SetColumns)             // PUT /api/v1/config/{table}/columns
		config.GET("/:table/dropdowns/:column", h.GetDropdowns) // GET /api/v1/config/{table}/dropdowns/{column}
		config.PUT("/:table/dropdowns", h.SetDropdowns)         // PUT /api/v1/config/{table}/dropdowns
	}
}
