package analytics

import (
	"encoding/json"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"

	"inventory/utils"
)

// DefaultServiceLevel is used whenever a supplied service level is missing or
// outside the open interval (0, 1).
const DefaultServiceLevel = 0.95

// DefaultLeadTime is the lead time assumed for products without one.
const DefaultLeadTime = 1

// ValidServiceLevel reports whether level lies strictly between 0 and 1.
func ValidServiceLevel(level float64) bool {
	return level > 0 && level < 1
}

// ResolveServiceLevel converts a loosely typed service level (a JSON number, a
// numeric string, or nil) into a usable value. The boolean is true when a supplied
// value had to be replaced by DefaultServiceLevel; a nil input silently yields the
// default.
func ResolveServiceLevel(raw interface{}) (float64, bool) {
	if raw == nil {
		return DefaultServiceLevel, false
	}

	var level float64
	switch v := raw.(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return DefaultServiceLevel, true
		}
		level = parsed
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return DefaultServiceLevel, true
		}
		level = parsed
	default:
		f, ok := utils.ToFloat64(raw)
		if !ok {
			return DefaultServiceLevel, true
		}
		level = f
	}

	if !ValidServiceLevel(level) {
		return DefaultServiceLevel, true
	}
	return level, false
}

// ZScore is the probit: the quantile of the standard normal distribution at level.
// level must lie in (0, 1).
func ZScore(level float64) float64 {
	return distuv.UnitNormal.Quantile(level)
}
