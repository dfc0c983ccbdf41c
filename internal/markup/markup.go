// Package markup applies the service margin, expressed in basis points, to
// raw provider rates and computes the matching conversion fee.
package markup

import (
	"fmt"

	"github.com/dalfonso89/fx-rates-service/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultBasisPoints is 0.25%.
const DefaultBasisPoints = 25

// basisPointExponent scales basis points to a fraction (1 bp = 10^-4).
const basisPointExponent = -4

func fraction(basisPoints int) decimal.Decimal {
	return decimal.New(int64(basisPoints), basisPointExponent)
}

func multiplier(basisPoints int) decimal.Decimal {
	return decimal.NewFromInt(1).Add(fraction(basisPoints))
}

// Multiplier returns 1 + basisPoints/10000.
func Multiplier(basisPoints int) float64 {
	value, _ := multiplier(basisPoints).Float64()
	return value
}

// Percentage returns basisPoints/100, e.g. 25 -> 0.25.
func Percentage(basisPoints int) float64 {
	value, _ := decimal.New(int64(basisPoints), -2).Float64()
	return value
}

// Apply returns a new mapping with every rate multiplied by the markup
// multiplier. rates is not modified.
func Apply(rates map[string]float64, basisPoints int) map[string]float64 {
	factor := multiplier(basisPoints)

	marked := make(map[string]float64, len(rates))
	for code, rate := range rates {
		value, _ := decimal.NewFromFloat(rate).Mul(factor).Float64()
		marked[code] = value
	}
	return marked
}

// Fee is amount × basisPoints/10000.
func Fee(amount float64, basisPoints int) float64 {
	value, _ := decimal.NewFromFloat(amount).Mul(fraction(basisPoints)).Float64()
	return value
}

// Description is the user-facing markup disclosure.
func Description(basisPoints int) string {
	return fmt.Sprintf("Exchange rates include a %s%% markup (%d basis points) over the provider's mid-market rate",
		decimal.New(int64(basisPoints), -2).String(), basisPoints)
}

// Info bundles the disclosure for API consumers.
func Info(basisPoints int) models.MarkupInfo {
	return models.MarkupInfo{
		BasisPoints: basisPoints,
		Percentage:  Percentage(basisPoints),
		Multiplier:  Multiplier(basisPoints),
		Description: Description(basisPoints),
	}
}
