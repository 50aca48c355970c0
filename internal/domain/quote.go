package domain

import "github.com/shopspring/decimal"

const (
	PriceDisplayPlaces  = 3
	ResultDisplayPlaces = 2
)

// House spread applied on top of the reference rates.
var (
	BuyMarkup    = decimal.RequireFromString("0.03")
	SellMarkdown = decimal.RequireFromString("0.02")
)

// Quote holds the house prices derived from a snapshot. Values are kept at
// full precision; rounding happens only when formatting.
type Quote struct {
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
}

func NewQuote(s MarketSnapshot) Quote {
	return Quote{
		BuyPrice:  s.BuyReferenceRate.Add(BuyMarkup),
		SellPrice: s.SellReferenceRate.Sub(SellMarkdown),
	}
}

func (q Quote) BuyDisplay() string  { return q.BuyPrice.StringFixed(PriceDisplayPlaces) }
func (q Quote) SellDisplay() string { return q.SellPrice.StringFixed(PriceDisplayPlaces) }
