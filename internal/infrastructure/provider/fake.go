package provider

import (
	"context"
	"time"

	"otcrates-service/internal/application"
	"otcrates-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Ensure Fake implements application.RateProvider.
var _ application.RateProvider = (*Fake)(nil)

// Fake returns a fixed live pair. Used when PROVIDER=fake for local runs
// without an API key.
type Fake struct {
	slab decimal.Decimal
	grp  decimal.Decimal
}

func NewFake(slab, grp decimal.Decimal) *Fake { return &Fake{slab: slab, grp: grp} }

func (f *Fake) Get(context.Context) (domain.MarketSnapshot, error) {
	return domain.MarketSnapshot{
		BuyReferenceRate:  f.slab,
		SellReferenceRate: f.grp,
		Summary:           "fake provider",
		Sources:           []domain.Source{},
		FetchedAt:         time.Now().UTC(),
		Provenance:        domain.ProvenanceLive,
	}, nil
}
