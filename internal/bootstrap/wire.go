//go:build wireinject

package bootstrap

import (
	"context"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideConfig,
	ProvideRegistry,
	ProvideMetrics,
	ProvideRedisClient,
	ProvideIdempotency,
)

var refreshSet = wire.NewSet(
	ProvideRateBounds,
	ProvideCompletionClient,
	ProvideRateProvider,
	ProvideRateFetcher,
	ProvideBoard,
	ProvideRefresher,
)

// InitApp builds the HTTP server and refresher plus their cleanup.
func InitApp(ctx context.Context) (*App, func(), error) {
	wire.Build(
		infraSet,
		refreshSet,
		ProvideOTCService,
		ProvideServer,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}
