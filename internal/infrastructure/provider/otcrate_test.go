package provider_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"otcrates-service/internal/application"
	"otcrates-service/internal/domain"
	"otcrates-service/internal/infrastructure/provider"

	"github.com/stretchr/testify/require"
)

type fakeCompletion struct {
	out    application.Completion
	err    error
	prompt string
}

func (f *fakeCompletion) Complete(_ context.Context, prompt string) (application.Completion, error) {
	f.prompt = prompt
	return f.out, f.err
}

var fixedNow = time.Date(2025, 11, 8, 12, 0, 0, 0, time.UTC)

func newProvider(c application.CompletionClient) *provider.OTCRateProvider {
	return &provider.OTCRateProvider{
		Client: c,
		Prompt: provider.PromptParams{SlabURL: "https://otcrate.com/slab", GrpURL: "https://otcrate.com/grp.html", Instrument: "USDT"},
		Bounds: domain.DefaultRateBounds(),
		Now:    func() time.Time { return fixedNow },
	}
}

func TestOTCRateProvider_HappyPath(t *testing.T) {
	fc := &fakeCompletion{out: application.Completion{
		Text:    `Here you go: {"slab_rate": 7.84, "grp_rate": 7.81, "summary": "平穩"} done`,
		Sources: []domain.Source{{URI: "https://otcrate.com/slab", Title: "otcrate.com"}},
	}}
	snap, err := newProvider(fc).Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "7.84", snap.BuyReferenceRate.String())
	require.Equal(t, "7.81", snap.SellReferenceRate.String())
	require.Equal(t, "平穩", snap.Summary)
	require.Equal(t, domain.ProvenanceLive, snap.Provenance)
	require.Equal(t, fixedNow, snap.FetchedAt)
	require.Len(t, snap.Sources, 1)
	require.Contains(t, fc.prompt, "https://otcrate.com/grp.html")
}

func TestOTCRateProvider_NoSourcesIsEmptySlice(t *testing.T) {
	fc := &fakeCompletion{out: application.Completion{Text: `{"slab_rate": 7.84, "grp_rate": 7.81}`}}
	snap, err := newProvider(fc).Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap.Sources)
	require.Empty(t, snap.Sources)
}

func TestOTCRateProvider_Errors(t *testing.T) {
	_, err := newProvider(&fakeCompletion{err: errors.New("quota exceeded")}).Get(context.Background())
	require.Error(t, err)

	_, err = newProvider(&fakeCompletion{out: application.Completion{Text: "sorry"}}).Get(context.Background())
	require.ErrorIs(t, err, domain.ErrNoJSON)
}

func TestOTCRateProvider_MalformedFallsBackThroughFetcher(t *testing.T) {
	fc := &fakeCompletion{out: application.Completion{Text: "no numbers today"}}
	f := application.NewRateFetcher(newProvider(fc))

	snap := f.FetchLiveOTCRates(context.Background())
	require.Equal(t, domain.ProvenanceFallback, snap.Provenance)
	require.Equal(t, domain.FallbackNoJSON, snap.FallbackReason)
	require.Equal(t, "7.82", snap.BuyReferenceRate.String())
	require.Equal(t, "7.79", snap.SellReferenceRate.String())
	require.Equal(t, "fetch failed", snap.Summary)
	require.Empty(t, snap.Sources)
}
