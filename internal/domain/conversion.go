package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionBuy  Direction = "buy"  // customer pays HKD, receives USDT
	DirectionSell Direction = "sell" // customer pays USDT, receives HKD
)

// ParseDirection is lenient: anything other than "sell" is a buy.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(DirectionSell)) {
		return DirectionSell
	}
	return DirectionBuy
}

// InputCurrency is what the customer enters an amount in.
func (d Direction) InputCurrency() string {
	if d == DirectionSell {
		return "USDT"
	}
	return "HKD"
}

// OutputCurrency is what the customer receives.
func (d Direction) OutputCurrency() string {
	if d == DirectionSell {
		return "HKD"
	}
	return "USDT"
}

type ConversionRequest struct {
	Direction Direction
	Amount    decimal.Decimal
}

// Amounts the calculator accepts. Anything longer, larger or written in
// exponent notation is treated like any other invalid input.
const maxAmountLen = 32

var MaxAmount = decimal.New(1, 15)

// ParseAmount coerces user input to a decimal. Empty, non-numeric or
// out-of-range input is zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || len(s) > maxAmountLen || strings.ContainsAny(s, "eE") {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if d.Abs().GreaterThan(MaxAmount) {
		return decimal.Zero
	}
	return d
}

type ConversionResult struct {
	Direction Direction
	Amount    decimal.Decimal
	Price     decimal.Decimal
	Result    decimal.Decimal
}

func (r ConversionResult) Display() string { return r.Result.StringFixed(ResultDisplayPlaces) }

// Convert applies the quote for the requested direction: BUY divides the HKD
// amount by the buy price, SELL multiplies the USDT amount by the sell price.
func Convert(q Quote, req ConversionRequest) ConversionResult {
	out := ConversionResult{Direction: req.Direction, Amount: req.Amount}
	switch req.Direction {
	case DirectionSell:
		out.Price = q.SellPrice
		out.Result = req.Amount.Mul(q.SellPrice)
	default:
		out.Direction = DirectionBuy
		out.Price = q.BuyPrice
		if q.BuyPrice.IsPositive() {
			out.Result = req.Amount.Div(q.BuyPrice)
		} else {
			out.Result = decimal.Zero
		}
	}
	return out
}
