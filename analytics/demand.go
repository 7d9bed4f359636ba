// Package analytics turns a product's sales history and replenishment policy into
// demand statistics and a reorder recommendation. Everything here is a pure function
// over its arguments and safe for concurrent use.
package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DemandStatistics summarizes a sales history.
type DemandStatistics struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// ComputeDemandStatistics returns the arithmetic mean and the sample standard
// deviation ((n-1) denominator) of history. The mean of an empty history is 0 and
// the standard deviation of fewer than two observations is 0.
func ComputeDemandStatistics(history []float64) DemandStatistics {
	switch len(history) {
	case 0:
		return DemandStatistics{}
	case 1:
		return DemandStatistics{Mean: history[0]}
	}

	mean, stdDev := stat.MeanStdDev(history, nil)
	if math.IsNaN(stdDev) {
		stdDev = 0
	}
	return DemandStatistics{Mean: mean, StdDev: stdDev}
}
