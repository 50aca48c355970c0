package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RateBounds is the inclusive range a reference rate must fall in before the
// spread is applied to it.
type RateBounds struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func DefaultRateBounds() RateBounds {
	return RateBounds{
		Min: decimal.RequireFromString("7.0"),
		Max: decimal.RequireFromString("8.5"),
	}
}

func (b RateBounds) Check(name string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return fmt.Errorf("%s=%s: %w", name, v.String(), ErrImplausibleRate)
	}
	if v.LessThan(b.Min) || v.GreaterThan(b.Max) {
		return fmt.Errorf("%s=%s outside [%s, %s]: %w", name, v.String(), b.Min.String(), b.Max.String(), ErrImplausibleRate)
	}
	return nil
}
