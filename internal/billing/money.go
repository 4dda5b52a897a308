// Package billing holds the invoice pricing and reporting engine. It performs no I/O:
// callers hand it branches, clients and invoices fetched from the store.
package billing

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds a money amount to two decimals, half away from zero.
// Every rounded figure the engine produces goes through here.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// RoundPercent rounds a percentage to a whole number, half away from zero
func RoundPercent(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(decimal.NewFromFloat(v).Round(0).IntPart())
}

// Percentage returns part/total*100 rounded to a whole number, or 0 when total is 0
func Percentage(part, total float64) int {
	if total == 0 {
		return 0
	}
	ratio := decimal.NewFromFloat(part).Div(decimal.NewFromFloat(total)).Mul(hundred)
	return int(ratio.Round(0).IntPart())
}

// SafeAverage returns sum/count rounded to two decimals, or 0 when count is 0
func SafeAverage(sum float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return decimal.NewFromFloat(sum).Div(decimal.NewFromInt(int64(count))).Round(2).InexactFloat64()
}

// safeAmount coerces a stored amount that cannot be trusted into a usable number
func safeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// sum adds amounts as decimals to avoid drift over long invoice lists
type sum struct {
	d decimal.Decimal
}

func (s *sum) add(v float64) {
	s.d = s.d.Add(decimal.NewFromFloat(safeAmount(v)))
}

func (s *sum) value() float64 {
	return s.d.Round(2).InexactFloat64()
}
