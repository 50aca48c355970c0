package application

import (
	"context"
	"time"

	"otcrates-service/internal/domain"
)

// Completion is the raw answer of a search-grounded completion call.
type Completion struct {
	Text    string
	Sources []domain.Source
}

// CompletionClient sends one prompt to a generative model with web search
// grounding enabled.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}

// RateProvider retrieves a live snapshot. Errors are returned as-is; the
// fallback policy lives in RateFetcher.
type RateProvider interface {
	Get(ctx context.Context) (domain.MarketSnapshot, error)
}

// SnapshotFetcher never fails: any error becomes a fallback snapshot.
type SnapshotFetcher interface {
	FetchLiveOTCRates(ctx context.Context) domain.MarketSnapshot
}

// RefreshTrigger starts an out-of-schedule fetch and returns its sequence.
type RefreshTrigger interface {
	Trigger() (uint64, error)
}

// Recorder receives refresh telemetry.
type Recorder interface {
	FetchObserved(s domain.MarketSnapshot, took time.Duration)
	SnapshotApplied(v domain.Versioned)
	ResultDiscarded()
}

// NoopRecorder drops everything.
type NoopRecorder struct{}

func (NoopRecorder) FetchObserved(domain.MarketSnapshot, time.Duration) {}
func (NoopRecorder) SnapshotApplied(domain.Versioned)                   {}
func (NoopRecorder) ResultDiscarded()                                   {}
