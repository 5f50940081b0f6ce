package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/tabular/steward/cmd/steward/container"
	"github.com/tabular/steward/cmd/steward/handlers"
)

// RegisterRequestRoutes registers change-request submission and review routes
func RegisterRequestRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewRequestHandler(c.RequestService, c.ApprovalService)

	requests := e.Group("/api/v1/requests")
	{
		requests.POST("", h.Create)                    // POST /api/v1/requests
		requests.GET("/pending", h.ListPending)        // GET  /api/v1/requests/pending
		requests.GET("/:id", h.Get)                    // GET  /api/v1/requests/{request_id}
		requests.GET("/:id/merge-patch", h.MergePatch) // GET  /api/v1/requests/{request_id}/merge-patch
		requests.POST("/:id/approve", h.Approve)       // POST /api/v1/requests/{request_id}/approve
		requests.POST("/:id/reject", h.Reject)         // POST /api/v1/requests/{request_id}/reject
		requests.POST("/bulk/approve", h.BulkApprove)  // POST /api/v1/requests/bulk/approve
		requests.POST("/bulk/reject", h.BulkReject)    // POST /api/v1/requests/bulk/reject
	}
}
