package lanes

import "math"

// DefaultTotalLanes is the standard lane pool of a plaza.
const DefaultTotalLanes = 8

// Allocate splits a plaza's lane pool between the north and south
// directions in proportion to observed volume. With no traffic at all the
// pool is split evenly with floor division; an odd leftover lane stays
// unassigned. Each direction is guaranteed at least one lane otherwise.
//
// Rounding can push the majority direction to the full pool, leaving the
// minority with its single floor lane and a nominal total above the pool.
// That asymmetry is the operating policy; do not rebalance it here.
func Allocate(northCount, southCount, totalLanes int) (northLanes, southLanes int) {
	total := northCount + southCount
	if total == 0 {
		return totalLanes / 2, totalLanes / 2
	}

	northRatio := float64(northCount) / float64(total)
	northLanes = int(math.Round(northRatio * float64(totalLanes)))
	if northLanes < 1 {
		northLanes = 1
	}
	southLanes = totalLanes - northLanes
	if southLanes < 1 {
		southLanes = 1
	}
	return northLanes, southLanes
}

// EfficiencyGain estimates the delay improvement of an allocation against
// the static two-lanes-per-direction baseline, as a percentage. The metric
// is undefined when the baseline delay is zero; ok is false in that case.
func EfficiencyGain(northCount, southCount, northLanes, southLanes int) (gainPct float64, ok bool) {
	baseDelay := math.Max(float64(northCount)/2, float64(southCount)/2)
	if baseDelay == 0 {
		return 0, false
	}
	optimizedDelay := math.Max(
		float64(northCount)/float64(northLanes),
		float64(southCount)/float64(southLanes),
	)
	return (baseDelay - optimizedDelay) / baseDelay * 100, true
}
