package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"otcrates-service/internal/application"
	"otcrates-service/internal/config"
	"otcrates-service/internal/domain"
	infraconfig "otcrates-service/internal/infrastructure/config"
	"otcrates-service/internal/infrastructure/gemini"
	httpserver "otcrates-service/internal/infrastructure/http"
	"otcrates-service/internal/infrastructure/httpx"
	"otcrates-service/internal/infrastructure/logx"
	"otcrates-service/internal/infrastructure/metrics"
	"otcrates-service/internal/infrastructure/provider"
	redisstore "otcrates-service/internal/infrastructure/redis"
	"otcrates-service/internal/infrastructure/worker"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	ErrInvalidRateBounds    = errors.New("invalid RATE_MIN/RATE_MAX")
	ErrInvalidRefreshTiming = errors.New("FETCH_TIMEOUT_MS must be shorter than REFRESH_INTERVAL_MS")
)

// App is everything cmd/api needs to run.
type App struct {
	Config    config.Config
	Log       *zap.Logger
	HTTP      *http.Server
	Refresher *worker.Refresher
}

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func ProvideMetrics(reg *prometheus.Registry) *metrics.RefreshMetrics {
	return metrics.NewRefreshMetrics(reg)
}

func ProvideRateBounds(cfg config.Config) (domain.RateBounds, error) {
	lo, err := decimal.NewFromString(cfg.RateMin)
	if err != nil {
		return domain.RateBounds{}, fmt.Errorf("%w: min %q", ErrInvalidRateBounds, cfg.RateMin)
	}
	hi, err := decimal.NewFromString(cfg.RateMax)
	if err != nil {
		return domain.RateBounds{}, fmt.Errorf("%w: max %q", ErrInvalidRateBounds, cfg.RateMax)
	}
	if !lo.IsPositive() || !lo.LessThan(hi) {
		return domain.RateBounds{}, fmt.Errorf("%w: [%s, %s]", ErrInvalidRateBounds, lo, hi)
	}
	return domain.RateBounds{Min: lo, Max: hi}, nil
}

// ProvideCompletionClient builds the Gemini client. A missing API key is
// logged, not returned: every fetch then falls back.
func ProvideCompletionClient(ctx context.Context, cfg config.Config, log *zap.Logger) application.CompletionClient {
	c := gemini.New(ctx, gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		BaseURL:    cfg.GeminiBaseURL,
		HTTPClient: httpx.NewClient("gemini", cfg.FetchTimeout, log),
	})
	if err := c.InitErr(); err != nil {
		log.Warn("gemini.unavailable", zap.Error(err))
	}
	return c
}

func ProvideRateProvider(cfg config.Config, client application.CompletionClient, bounds domain.RateBounds) (application.RateProvider, error) {
	switch cfg.Provider {
	case "fake":
		return provider.NewFake(decimal.RequireFromString("7.84"), decimal.RequireFromString("7.80")), nil
	case "gemini":
		return &provider.OTCRateProvider{
			Client: client,
			Prompt: provider.PromptParams{
				SlabURL:    cfg.SlabURL,
				GrpURL:     cfg.GrpURL,
				Instrument: cfg.Instrument,
			},
			Bounds: bounds,
		}, nil
	default:
		return nil, fmt.Errorf("unknown PROVIDER %q", cfg.Provider)
	}
}

func ProvideRateFetcher(rp application.RateProvider, cfg config.Config, m *metrics.RefreshMetrics, log *zap.Logger) *application.RateFetcher {
	return application.NewRateFetcher(rp,
		application.WithTimeout(cfg.FetchTimeout),
		application.WithRecorder(m),
		application.WithLogger(log),
	)
}

func ProvideBoard() *application.Board { return application.NewBoard(time.Now().UTC()) }

func ProvideRefresher(f *application.RateFetcher, b *application.Board, cfg config.Config, m *metrics.RefreshMetrics, log *zap.Logger) (*worker.Refresher, error) {
	if cfg.FetchTimeout >= cfg.RefreshInterval {
		return nil, fmt.Errorf("%w: %s >= %s", ErrInvalidRefreshTiming, cfg.FetchTimeout, cfg.RefreshInterval)
	}
	return worker.NewRefresher(f, b, cfg.RefreshInterval, m, log), nil
}

// ProvideRedisClient returns nil when IDEMPOTENCY_BACKEND is not "redis".
// Otherwise it waits a few seconds for Redis to answer PING.
func ProvideRedisClient(ctx context.Context, cfg config.Config, log *zap.Logger) (*redis.Client, func(), error) {
	if cfg.IdempotencyBackend != "redis" {
		return nil, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 100 * time.Millisecond
	exp.MaxElapsedTime = infraconfig.DefaultRedisPingWait
	op := func() error { return client.Ping(ctx).Err() }
	notify := func(err error, d time.Duration) {
		log.Warn("redis.ping_retry", zap.Error(err), zap.Duration("backoff", d))
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(exp, ctx), notify); err != nil {
		_ = client.Close()
		return nil, func() {}, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
	}
	cleanup := func() {
		log.Info("closing redis")
		_ = client.Close()
	}
	return client, cleanup, nil
}

func ProvideIdempotency(client *redis.Client, cfg config.Config) application.IdempotencyStore {
	if client == nil {
		return application.NoopIdempotency{}
	}
	return redisstore.New(client, cfg.RedisTTL)
}

func ProvideOTCService(b *application.Board, r *worker.Refresher, idem application.IdempotencyStore) *application.OTCService {
	return application.NewOTCService(b, r, idem)
}

func ProvideServer(svc *application.OTCService, reg *prometheus.Registry, client *redis.Client, cfg config.Config, log *zap.Logger) *httpserver.Server {
	zone, err := time.LoadLocation(cfg.DisplayZone)
	if err != nil {
		log.Warn("display zone not found, using UTC", zap.String("zone", cfg.DisplayZone), zap.Error(err))
		zone = time.UTC
	}
	opts := []httpserver.Option{
		httpserver.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
		httpserver.WithPageRefresh(cfg.RefreshInterval),
		httpserver.WithDisplayZone(zone),
	}
	if cfg.RefreshPerMinute > 0 {
		every := time.Minute / time.Duration(cfg.RefreshPerMinute)
		opts = append(opts, httpserver.WithRefreshLimiter(rate.NewLimiter(rate.Every(every), cfg.RefreshPerMinute)))
	}
	if client != nil {
		opts = append(opts, httpserver.WithReadinessCheck(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}))
	}
	return httpserver.NewServer(svc, opts...)
}

func ProvideHTTPServer(cfg config.Config, s *httpserver.Server) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpserver.NewRouter(s),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func ProvideApp(cfg config.Config, log *zap.Logger, srv *http.Server, r *worker.Refresher) *App {
	return &App{Config: cfg, Log: log, HTTP: srv, Refresher: r}
}
