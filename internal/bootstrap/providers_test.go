package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"otcrates-service/internal/application"
	"otcrates-service/internal/config"
	"otcrates-service/internal/infrastructure/provider"
	redisstore "otcrates-service/internal/infrastructure/redis"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProvideRateBounds(t *testing.T) {
	b, err := ProvideRateBounds(config.Config{RateMin: "7.0", RateMax: "8.5"})
	require.NoError(t, err)
	require.Equal(t, "7", b.Min.String())
	require.Equal(t, "8.5", b.Max.String())

	for _, c := range []config.Config{
		{RateMin: "x", RateMax: "8.5"},
		{RateMin: "7.0", RateMax: ""},
		{RateMin: "8.5", RateMax: "7.0"},
		{RateMin: "-1", RateMax: "7.0"},
	} {
		_, err := ProvideRateBounds(c)
		require.ErrorIs(t, err, ErrInvalidRateBounds)
	}
}

func TestProvideRateProvider(t *testing.T) {
	bounds, err := ProvideRateBounds(config.Config{RateMin: "7.0", RateMax: "8.5"})
	require.NoError(t, err)

	rp, err := ProvideRateProvider(config.Config{Provider: "fake"}, nil, bounds)
	require.NoError(t, err)
	require.IsType(t, &provider.Fake{}, rp)

	rp, err = ProvideRateProvider(config.Config{Provider: "gemini", SlabURL: "s", GrpURL: "g"}, nil, bounds)
	require.NoError(t, err)
	otc, ok := rp.(*provider.OTCRateProvider)
	require.True(t, ok)
	require.Equal(t, "s", otc.Prompt.SlabURL)

	_, err = ProvideRateProvider(config.Config{Provider: "nope"}, nil, bounds)
	require.Error(t, err)
}

func TestProvideRedisClient_Disabled(t *testing.T) {
	client, cleanup, err := ProvideRedisClient(context.Background(), config.Config{IdempotencyBackend: "none"}, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	require.Nil(t, client)
	require.IsType(t, application.NoopIdempotency{}, ProvideIdempotency(client, config.Config{}))
}

func TestProvideRedisClient_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := config.Config{IdempotencyBackend: "redis", RedisAddr: mr.Addr(), RedisTTL: time.Second}
	client, cleanup, err := ProvideRedisClient(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	require.NotNil(t, client)
	require.IsType(t, &redisstore.Store{}, ProvideIdempotency(client, cfg))
}

func TestProvideRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	cfg := config.Config{IdempotencyBackend: "redis", RedisAddr: "127.0.0.1:1"}
	_, _, err := ProvideRedisClient(ctx, cfg, zap.NewNop())
	require.Error(t, err)
}

func TestProvideServer_MountsMetrics(t *testing.T) {
	reg := ProvideRegistry()
	m := ProvideMetrics(reg)
	board := ProvideBoard()
	svc := application.NewOTCService(board, nil, nil)
	m.ResultDiscarded()

	cfg := config.Config{Port: "0", DisplayZone: "Nowhere/Invalid", RefreshInterval: time.Minute}
	srv := ProvideHTTPServer(cfg, ProvideServer(svc, reg, nil, cfg, zap.NewNop()))
	require.Equal(t, ":0", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "otc_refresh_results_discarded_total 1")
}

func TestProvideRefresher_RejectsTimeoutNotShorterThanInterval(t *testing.T) {
	board := ProvideBoard()
	m := ProvideMetrics(ProvideRegistry())

	for _, cfg := range []config.Config{
		{FetchTimeout: time.Minute, RefreshInterval: time.Minute},
		{FetchTimeout: 90 * time.Second, RefreshInterval: time.Minute},
	} {
		_, err := ProvideRefresher(nil, board, cfg, m, zap.NewNop())
		require.ErrorIs(t, err, ErrInvalidRefreshTiming)
	}

	r, err := ProvideRefresher(nil, board, config.Config{FetchTimeout: 30 * time.Second, RefreshInterval: time.Minute}, m, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, r)
}
