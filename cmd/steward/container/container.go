package container

import (
	"context"

	"github.com/tabular/steward/cmd/steward/repository"
	"github.com/tabular/steward/cmd/steward/service"
	"github.com/tabular/steward/common/bootstrap"
	"github.com/tabular/steward/common/ratelimit"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components

	// Repositories
	RequestRepo *repository.RequestRepository
	ConfigRepo  *repository.ColumnConfigRepository
	TableRepo   *repository.TableRepository

	// Services
	ConfigService   *service.ConfigService
	RequestService  *service.RequestService
	ApprovalService *service.ApprovalService
	TableService    *service.TableService

	// Optional per-user rate limiter (nil when disabled)
	RateLimiter *ratelimit.RateLimiter
}

// NewContainer initializes all services and repositories once
func NewContainer(ctx context.Context, components *bootstrap.Components) (*Container, error) {
	// Initialize repositories
	requestRepo := repository.NewRequestRepository(components.DB)
	configRepo := repository.NewColumnConfigRepository(components.DB)
	tableRepo := repository.NewTableRepository(components.DB)

	// Initialize services (bottom-up: dependencies first)
	configService := service.NewConfigService(
		configRepo,
		components.Cache,
		components.Config.Cache.DefaultTTL,
		components.Logger,
	)
	requestService := service.NewRequestService(
		requestRepo,
		configService,
		components.Queue,
		components.Logger,
	)
	approvalService := service.NewApprovalService(
		requestRepo,
		components.Queue,
		components.Logger,
	)
	tableService := service.NewTableService(tableRepo, components.Logger)

	// Every lifecycle transition leaves an audit line
	if components.Queue != nil {
		if err := service.StartAuditFeed(ctx, components.Queue, components.Logger); err != nil {
			return nil, err
		}
	}

	var limiter *ratelimit.RateLimiter
	if components.Config.RateLimit.Enabled && components.Redis != nil {
		limiter = ratelimit.NewRateLimiter(components.Redis, components.Logger)
	}

	return &Container{
		Components:      components,
		RequestRepo:     requestRepo,
		ConfigRepo:      configRepo,
		TableRepo:       tableRepo,
		ConfigService:   configService,
		RequestService:  requestService,
		ApprovalService: approvalService,
		TableService:    tableService,
		RateLimiter:     limiter,
	}, nil
}
