package provider

import (
	"encoding/json"
	"fmt"
	"regexp"

	"otcrates-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Greedy across lines: first '{' to last '}'.
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

type ratesPayload struct {
	SlabRate *decimal.Decimal `json:"slab_rate"`
	GrpRate  *decimal.Decimal `json:"grp_rate"`
	Summary  string           `json:"summary"`
}

type parsedRates struct {
	Slab    decimal.Decimal
	Grp     decimal.Decimal
	Summary string
}

// extractJSONObject locates the candidate object in free-form model output.
func extractJSONObject(text string) (string, error) {
	m := jsonObjectRe.FindString(text)
	if m == "" {
		return "", domain.ErrNoJSON
	}
	return m, nil
}

// parseRates strictly decodes the candidate: both rates must be present,
// numeric (number or numeric string) and inside bounds.
func parseRates(raw string, bounds domain.RateBounds) (parsedRates, error) {
	var p ratesPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return parsedRates{}, fmt.Errorf("%w: %v", domain.ErrMalformedJSON, err)
	}
	if p.SlabRate == nil {
		return parsedRates{}, fmt.Errorf("slab_rate: %w", domain.ErrMissingRate)
	}
	if p.GrpRate == nil {
		return parsedRates{}, fmt.Errorf("grp_rate: %w", domain.ErrMissingRate)
	}
	if err := bounds.Check("slab_rate", *p.SlabRate); err != nil {
		return parsedRates{}, err
	}
	if err := bounds.Check("grp_rate", *p.GrpRate); err != nil {
		return parsedRates{}, err
	}
	return parsedRates{Slab: *p.SlabRate, Grp: *p.GrpRate, Summary: p.Summary}, nil
}
