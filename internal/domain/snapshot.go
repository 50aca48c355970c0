package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Provenance string

const (
	ProvenanceLive     Provenance = "live"
	ProvenanceFallback Provenance = "fallback"
)

type FallbackReason string

const (
	FallbackNone        FallbackReason = ""
	FallbackPending     FallbackReason = "pending"
	FallbackUpstream    FallbackReason = "upstream_error"
	FallbackTimeout     FallbackReason = "timeout"
	FallbackNoJSON      FallbackReason = "no_json"
	FallbackParse       FallbackReason = "parse_error"
	FallbackImplausible FallbackReason = "implausible_rate"
)

const FallbackSummary = "fetch failed"

var (
	FallbackBuyReferenceRate  = decimal.RequireFromString("7.82")
	FallbackSellReferenceRate = decimal.RequireFromString("7.79")
)

// MarketSnapshot is one refresh result. It is replaced wholesale by the next
// one and never mutated after construction.
type MarketSnapshot struct {
	BuyReferenceRate  decimal.Decimal // Slab, HKD -> USDT
	SellReferenceRate decimal.Decimal // Grp, USDT -> HKD
	Summary           string
	Sources           []Source
	FetchedAt         time.Time
	Provenance        Provenance
	FallbackReason    FallbackReason
}

func (s MarketSnapshot) IsLive() bool { return s.Provenance == ProvenanceLive }

// FallbackSnapshot returns the fixed 7.82 / 7.79 pair served when a live
// fetch cannot be used.
func FallbackSnapshot(at time.Time, reason FallbackReason) MarketSnapshot {
	return MarketSnapshot{
		BuyReferenceRate:  FallbackBuyReferenceRate,
		SellReferenceRate: FallbackSellReferenceRate,
		Summary:           FallbackSummary,
		Sources:           []Source{},
		FetchedAt:         at,
		Provenance:        ProvenanceFallback,
		FallbackReason:    reason,
	}
}

// Versioned pairs a snapshot with the sequence number its fetch was started
// under. Higher sequences supersede lower ones regardless of completion order.
type Versioned struct {
	Seq      uint64
	Snapshot MarketSnapshot
}
