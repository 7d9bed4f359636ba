package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

// Recommendation is the reorder advice derived from a product's history and policy.
// It is recomputed on every request and never persisted.
type Recommendation struct {
	AvgDailyDemand float64 `json:"avg_daily_demand"`
	DemandStdDev   float64 `json:"demand_std_dev"`
	SafetyStock    int     `json:"safety_stock"`
	ReorderPoint   int     `json:"reorder_point"`
	ServiceLevel   float64 `json:"service_level"`

	// Set when the corresponding input was replaced by its default.
	ServiceLevelDefaulted bool `json:"-"`
	LeadTimeDefaulted     bool `json:"-"`
}

// Degraded reports whether any input was substituted by a default.
func (r Recommendation) Degraded() bool {
	return r.ServiceLevelDefaulted || r.LeadTimeDefaulted
}

// ComputeRecommendation derives safety stock and reorder point from a daily sales
// history, a lead time in periods and a target service level.
//
// It never fails: a service level outside (0, 1) becomes DefaultServiceLevel, a lead
// time below 1 becomes DefaultLeadTime, and histories shorter than two observations
// produce zero variability, safety stock and reorder point.
func ComputeRecommendation(history []float64, leadTime int, serviceLevel float64) Recommendation {
	rec := Recommendation{ServiceLevel: serviceLevel}
	if !ValidServiceLevel(serviceLevel) {
		rec.ServiceLevel = DefaultServiceLevel
		rec.ServiceLevelDefaulted = true
	}
	if leadTime < 1 {
		leadTime = DefaultLeadTime
		rec.LeadTimeDefaulted = true
	}

	stats := ComputeDemandStatistics(history)
	rec.AvgDailyDemand = roundTo(stats.Mean, 2)
	if len(history) < 2 {
		return rec
	}

	safety := safetyStock(ZScore(rec.ServiceLevel), stats.StdDev, leadTime)
	reorder := stats.Mean*float64(leadTime) + safety

	rec.DemandStdDev = roundTo(stats.StdDev, 2)
	rec.SafetyStock = roundUnits(safety)
	rec.ReorderPoint = roundUnits(reorder)
	return rec
}

func safetyStock(zScore, stdDev float64, leadTime int) float64 {
	return zScore * stdDev * math.Sqrt(float64(leadTime))
}

// exactExponent is small enough for NewFromFloatWithExponent to keep every
// binary digit of a float64, down to the smallest subnormal.
const exactExponent = -1074

// exactDecimal returns the exact value of v, not its shortest decimal form, so
// 2.675 (stored as 2.67499...) rounds down like it does everywhere else.
func exactDecimal(v float64) decimal.Decimal {
	return decimal.NewFromFloatWithExponent(v, exactExponent)
}

// roundTo rounds half to even at the given number of decimal places.
func roundTo(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return exactDecimal(v).RoundBank(places).InexactFloat64()
}

// roundUnits rounds half to even to a whole number of inventory units.
func roundUnits(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(exactDecimal(v).RoundBank(0).IntPart())
}
