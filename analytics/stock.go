package analytics

import "math"

// StockStatus classifies on-hand quantity against a recommendation.
type StockStatus string

const (
	StockCritical StockStatus = "critical"
	StockReorder  StockStatus = "reorder"
	StockSurplus  StockStatus = "surplus"
	StockOK       StockStatus = "ok"
)

// surplusCoverDays is how many days of average demand above the reorder point
// count as surplus.
const surplusCoverDays = 7

// ClassifyStock compares quantity on hand with the safety stock and reorder point.
func ClassifyStock(quantity int, rec Recommendation) StockStatus {
	switch {
	case quantity <= rec.SafetyStock:
		return StockCritical
	case quantity <= rec.ReorderPoint:
		return StockReorder
	}

	threshold := float64(rec.ReorderPoint) + rec.AvgDailyDemand*surplusCoverDays
	if threshold > 0 && float64(quantity) > threshold {
		return StockSurplus
	}
	return StockOK
}

// RecommendedOrderQuantity suggests how many units to order so that stock returns
// above the reorder point with one extra day of average demand.
func RecommendedOrderQuantity(quantity int, rec Recommendation) int {
	qty := math.Ceil(float64(rec.ReorderPoint-quantity) + rec.AvgDailyDemand)
	if qty < 0 {
		return 0
	}
	return int(qty)
}
