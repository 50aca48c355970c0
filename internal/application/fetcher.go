package application

import (
	"context"
	"errors"
	"time"

	"otcrates-service/internal/domain"

	"go.uber.org/zap"
)

// RateFetcher wraps a RateProvider with a bounded timeout and the fallback
// policy: whatever goes wrong, callers get a usable snapshot.
type RateFetcher struct {
	provider RateProvider
	timeout  time.Duration
	clock    Clock
	recorder Recorder
	log      *zap.Logger
}

var _ SnapshotFetcher = (*RateFetcher)(nil)

type FetcherOption func(*RateFetcher)

func WithTimeout(d time.Duration) FetcherOption { return func(f *RateFetcher) { f.timeout = d } }
func WithClock(c Clock) FetcherOption           { return func(f *RateFetcher) { f.clock = c } }
func WithRecorder(r Recorder) FetcherOption     { return func(f *RateFetcher) { f.recorder = r } }
func WithLogger(l *zap.Logger) FetcherOption    { return func(f *RateFetcher) { f.log = l } }

func NewRateFetcher(provider RateProvider, opts ...FetcherOption) *RateFetcher {
	f := &RateFetcher{provider: provider}
	for _, opt := range opts {
		opt(f)
	}
	if f.clock == nil {
		f.clock = realClock{}
	}
	if f.recorder == nil {
		f.recorder = NoopRecorder{}
	}
	if f.log == nil {
		f.log = zap.NewNop()
	}
	return f
}

func (f *RateFetcher) FetchLiveOTCRates(ctx context.Context) domain.MarketSnapshot {
	start := f.clock.Now()
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	snap, err := f.provider.Get(ctx)
	if err != nil && errors.Is(ctx.Err(), context.Canceled) {
		// Superseded or shutting down; the caller drops this result.
		f.log.Debug("fetch.cancelled", zap.Error(err))
		return domain.FallbackSnapshot(f.clock.Now(), domain.FallbackUpstream)
	}
	if err != nil {
		reason := classify(err)
		f.log.Warn("fetch.fallback", zap.String("reason", string(reason)), zap.Error(err))
		snap = domain.FallbackSnapshot(f.clock.Now(), reason)
	} else {
		f.log.Info("fetch.live",
			zap.String("slab_rate", snap.BuyReferenceRate.String()),
			zap.String("grp_rate", snap.SellReferenceRate.String()),
			zap.Int("sources", len(snap.Sources)),
		)
	}
	f.recorder.FetchObserved(snap, f.clock.Now().Sub(start))
	return snap
}

func classify(err error) domain.FallbackReason {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.FallbackTimeout
	case errors.Is(err, domain.ErrNoJSON):
		return domain.FallbackNoJSON
	case errors.Is(err, domain.ErrMalformedJSON), errors.Is(err, domain.ErrMissingRate):
		return domain.FallbackParse
	case errors.Is(err, domain.ErrImplausibleRate):
		return domain.FallbackImplausible
	default:
		return domain.FallbackUpstream
	}
}
