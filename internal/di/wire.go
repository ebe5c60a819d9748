//go:build wireinject
// +build wireinject

package di

import (
	"CapTrack/pkg/config"
	"CapTrack/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvidePostgresClient,
		ProvideRedisCache,
		ProvideCacheService,
		ProvideEventPublisher,

		// Repositories
		ProvideUserRepository,
		ProvideSignalRepository,
		ProvideSignalRepo,
		ProvideTradeCommitter,
		ProvideCashflowRepository,
		ProvideRevenueRepository,

		// Use cases
		ProvideRevenueService,
		ProvideSignalProcessor,
		ProvideScheduler,
		ProvideSignalService,
		ProvideCashflowService,
		ProvideProjector,
		ProvideQueueConsumer,
		ProvideQueueService,

		// HTTP and application server
		ProvideRouter,
		ProvideApp,
	)
	return &server.App{}, nil
}
