package analytics

import (
	"errors"
	"math"
	"strings"

	"inventory/utils"
)

// ErrInvalidSalesHistory is returned when a sales history sequence contains an
// element that is not a non-negative number.
var ErrInvalidSalesHistory = errors.New("sales history must contain only non-negative numbers")

// SalesHistory holds units sold per period, oldest first. Sequences may carry
// fractional quantities; the text form only ever yields whole numbers.
type SalesHistory []float64

// Float64s returns a copy of the history for the statistics functions.
func (h SalesHistory) Float64s() []float64 {
	out := make([]float64, len(h))
	copy(out, h)
	return out
}

// ParseHistoryText parses a comma separated list such as "5, 7,x,-3,9". Tokens that
// are not made only of decimal digits are dropped, so the example yields [5 7 9].
// Decimal digits from any script count, so "٣" yields 3.
func ParseHistoryText(s string) SalesHistory {
	history := SalesHistory{}
	for _, token := range strings.Split(s, ",") {
		n, ok := utils.ParseDigits(strings.TrimSpace(token))
		if !ok {
			continue
		}
		history = append(history, float64(n))
	}
	return history
}

// ValidateHistorySequence checks an already structured history. Unlike
// ParseHistoryText it never drops elements: a single negative or non-numeric
// element rejects the whole sequence.
func ValidateHistorySequence(items []interface{}) (SalesHistory, error) {
	history := make(SalesHistory, 0, len(items))
	for _, item := range items {
		v, ok := utils.ToFloat64(item)
		if !ok || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrInvalidSalesHistory
		}
		history = append(history, v)
	}
	return history, nil
}
