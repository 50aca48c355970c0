package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"otcrates-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func liveSnapshot() domain.MarketSnapshot {
	return domain.MarketSnapshot{
		BuyReferenceRate:  decimal.RequireFromString("7.84"),
		SellReferenceRate: decimal.RequireFromString("7.80"),
		Summary:           "market calm",
		Sources:           []domain.Source{{URI: "https://otcrate.com/slab", Title: "otcrate"}},
		FetchedAt:         testNow,
		Provenance:        domain.ProvenanceLive,
	}
}

func Test_FetchLiveOTCRates_Live(t *testing.T) {
	t.Parallel()
	rec := &memRecorder{}
	f := NewRateFetcher(&fakeRateProvider{out: liveSnapshot()}, WithClock(fakeClock{t: testNow}), WithRecorder(rec))

	got := f.FetchLiveOTCRates(context.Background())
	require.True(t, got.IsLive())
	require.Equal(t, "7.84", got.BuyReferenceRate.String())
	require.Len(t, got.Sources, 1)
	require.Len(t, rec.fetches, 1)
}

func Test_FetchLiveOTCRates_FallbackReasons(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err  error
		want domain.FallbackReason
	}{
		{ErrUpstream, domain.FallbackUpstream},
		{fmt.Errorf("extract: %w", domain.ErrNoJSON), domain.FallbackNoJSON},
		{fmt.Errorf("decode: %w", domain.ErrMalformedJSON), domain.FallbackParse},
		{fmt.Errorf("slab_rate: %w", domain.ErrMissingRate), domain.FallbackParse},
		{fmt.Errorf("grp_rate: %w", domain.ErrImplausibleRate), domain.FallbackImplausible},
		{fmt.Errorf("call: %w", context.DeadlineExceeded), domain.FallbackTimeout},
	}
	for _, c := range cases {
		f := NewRateFetcher(&fakeRateProvider{err: c.err}, WithClock(fakeClock{t: testNow}))
		got := f.FetchLiveOTCRates(context.Background())
		require.Equal(t, domain.FallbackSnapshot(testNow, c.want), got, "err %v", c.err)
	}
}

func Test_FetchLiveOTCRates_TimeoutFallsBack(t *testing.T) {
	t.Parallel()
	f := NewRateFetcher(&fakeRateProvider{block: true}, WithTimeout(20*time.Millisecond))

	start := time.Now()
	got := f.FetchLiveOTCRates(context.Background())
	require.Less(t, time.Since(start), time.Second)
	require.Equal(t, domain.ProvenanceFallback, got.Provenance)
	require.Equal(t, domain.FallbackTimeout, got.FallbackReason)
	require.Equal(t, "7.82", got.BuyReferenceRate.String())
	require.Equal(t, "7.79", got.SellReferenceRate.String())
}

func Test_FetchLiveOTCRates_CancelledIsNotRecorded(t *testing.T) {
	t.Parallel()
	rec := &memRecorder{}
	f := NewRateFetcher(&fakeRateProvider{block: true}, WithTimeout(time.Second), WithRecorder(rec))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	got := f.FetchLiveOTCRates(ctx)
	require.Equal(t, domain.ProvenanceFallback, got.Provenance)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Empty(t, rec.fetches)
}

func Test_FetchLiveOTCRates_TimeoutIsRecorded(t *testing.T) {
	t.Parallel()
	rec := &memRecorder{}
	f := NewRateFetcher(&fakeRateProvider{block: true}, WithTimeout(10*time.Millisecond), WithRecorder(rec))

	got := f.FetchLiveOTCRates(context.Background())
	require.Equal(t, domain.FallbackTimeout, got.FallbackReason)
	require.Len(t, rec.fetches, 1)
}
