package main

import (
	"context"
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/tabular/steward/cmd/steward/container"
	"github.com/tabular/steward/cmd/steward/handlers"
	"github.com/tabular/steward/cmd/steward/middleware"
	"github.com/tabular/steward/cmd/steward/repository"
	"github.com/tabular/steward/cmd/steward/routes"
	"github.com/tabular/steward/common/bootstrap"
	"github.com/tabular/steward/common/db"
	commonmw "github.com/tabular/steward/common/middleware"
	"github.com/tabular/steward/common/server"
)

func main() {
	ctx := context.Background()

	// Bootstrap common components (DB, logger, queue, cache, telemetry)
	components, err := bootstrap.Setup(ctx, "steward",
		bootstrap.WithDBInit(func(database *db.DB) error {
			return repository.InitSchema(database)
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap steward: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(ctx, components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	// Initialize Echo server
	e := setupEcho()

	// Setup middleware
	setupMiddleware(e, serviceContainer)

	// Setup health check
	setupHealthCheck(e, components)

	// Register all routes
	registerRoutes(e, serviceContainer)

	// Start server with graceful shutdown
	srv := server.New("steward", components.Config.Service.Port, e, components.Logger)
	if err := srv.Start(); err != nil {
		components.Logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewPayloadValidator()
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo, c *container.Container) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestID())
	e.Use(middleware.ExtractUserID())

	if c.RateLimiter != nil {
		cfg := c.Components.Config.RateLimit
		e.Use(commonmw.UserRateLimitMiddleware(c.RateLimiter, cfg.UserLimit, cfg.WindowSec))
	}
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, components *bootstrap.Components) {
	e.GET("/health", func(c echo.Context) error {
		if err := components.Health(c.Request().Context()); err != nil {
			return c.JSON(503, map[string]string{
				"status":  "unhealthy",
				"service": "steward",
			})
		}
		return c.JSON(200, map[string]string{
			"status":  "ok",
			"service": "steward",
		})
	})
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	routes.RegisterRequestRoutes(e, serviceContainer)
	routes.RegisterConfigRoutes(e, serviceContainer)
	routes.RegisterTableRoutes(e, serviceContainer)
}
