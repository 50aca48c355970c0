package provider

import (
	"context"
	"fmt"
	"time"

	"otcrates-service/internal/application"
	"otcrates-service/internal/domain"
)

// OTCRateProvider asks a search-grounded model to read the Slab and Grp
// pages and turns its answer into a live snapshot.
type OTCRateProvider struct {
	Client application.CompletionClient
	Prompt PromptParams
	Bounds domain.RateBounds
	Now    func() time.Time
}

var _ application.RateProvider = (*OTCRateProvider)(nil)

func (p *OTCRateProvider) Get(ctx context.Context) (domain.MarketSnapshot, error) {
	prompt, err := BuildPrompt(p.Prompt)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("otcrate: build prompt: %w", err)
	}

	resp, err := p.Client.Complete(ctx, prompt)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("otcrate: complete: %w", err)
	}

	raw, err := extractJSONObject(resp.Text)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("otcrate: %w", err)
	}
	rates, err := parseRates(raw, p.Bounds)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("otcrate: %w", err)
	}

	sources := resp.Sources
	if sources == nil {
		sources = []domain.Source{}
	}
	now := time.Now().UTC()
	if p.Now != nil {
		now = p.Now()
	}
	return domain.MarketSnapshot{
		BuyReferenceRate:  rates.Slab,
		SellReferenceRate: rates.Grp,
		Summary:           rates.Summary,
		Sources:           sources,
		FetchedAt:         now,
		Provenance:        domain.ProvenanceLive,
	}, nil
}
