//go:build wireinject
// +build wireinject

package di

import (
	"FractalPulse/pkg/config"
	"FractalPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideHeaderStorage,
		ProvideHeaderPublisher,
		ProvideUpstreamStream,

		// Use cases
		ProvideHeaderProcessor,
		ProvideSnapshotCollector,
		ProvideHeaderComposer,
		ProvideHistoryUseCase,
		ProvideKafkaHeadersHandler,

		// HTTP
		ProvideTerminalHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
