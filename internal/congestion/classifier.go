package congestion

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"toll-ops-service/internal/domain/toll"
)

var ErrInvalidRecord = errors.New("invalid record")

// Fixed thresholds for the live-status policy. They are deliberately
// constants, not derived from the observed distribution.
const (
	highThreshold   = 50
	mediumThreshold = 25
)

// ThresholdLevel maps an hourly traffic count to the Low/Medium/High scale.
func ThresholdLevel(trafficCount int) toll.CongestionLevel {
	switch {
	case trafficCount > highThreshold:
		return toll.CongestionHigh
	case trafficCount > mediumThreshold:
		return toll.CongestionMedium
	default:
		return toll.CongestionLow
	}
}

// Classify groups records by (plaza, hour) and computes per-bucket traffic
// metrics plus the threshold congestion level. An empty input yields an
// empty map. A record without a plaza id rejects the whole call: grouping
// by a missing key is undefined.
func Classify(records []toll.Record) (map[toll.BucketKey]toll.CongestionBucket, error) {
	type agg struct {
		count          int
		processingSum  float64
		processingSeen int
		lanes          map[string]struct{}
	}

	groups := make(map[toll.BucketKey]*agg)
	for i, r := range records {
		if r.PlazaID == "" {
			return nil, fmt.Errorf("%w: record %d has no plaza id", ErrInvalidRecord, i)
		}
		key := toll.BucketKey{PlazaID: r.PlazaID, Hour: r.Hour}
		g, ok := groups[key]
		if !ok {
			g = &agg{lanes: make(map[string]struct{})}
			groups[key] = g
		}
		g.count++
		if r.ProcessingTimeSec >= 0 {
			g.processingSum += r.ProcessingTimeSec
			g.processingSeen++
		}
		if r.Lane != "" {
			g.lanes[r.Lane] = struct{}{}
		}
	}

	buckets := make(map[toll.BucketKey]toll.CongestionBucket, len(groups))
	for key, g := range groups {
		avg := math.NaN()
		if g.processingSeen > 0 {
			avg = g.processingSum / float64(g.processingSeen)
		}
		buckets[key] = toll.CongestionBucket{
			PlazaID:           key.PlazaID,
			Hour:              key.Hour,
			TrafficCount:      g.count,
			AvgProcessingTime: avg,
			DistinctLanesOpen: len(g.lanes),
			CongestionLevel:   ThresholdLevel(g.count),
		}
	}
	return buckets, nil
}

// neutralLevel is assigned to every bucket when quantile binning is
// impossible, so pricing degrades to the base/surge middle band instead of
// failing.
const neutralLevel = 3

// AssignTrafficLevels bins bucket traffic counts into up to 5 quantile
// levels, 1 (lightest) through 5 (heaviest), for the pricing policy.
// Duplicate quantile edges are collapsed, so a narrow distribution may
// produce fewer than 5 levels. When no non-degenerate bin can be formed at
// all, every bucket gets the neutral level and degraded is true; callers
// should surface that as a warning, not a failure.
func AssignTrafficLevels(buckets map[toll.BucketKey]toll.CongestionBucket) (map[toll.BucketKey]int, bool) {
	levels := make(map[toll.BucketKey]int, len(buckets))
	if len(buckets) == 0 {
		return levels, false
	}

	values := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		values = append(values, float64(b.TrafficCount))
	}
	sort.Float64s(values)

	edges := quantileEdges(values, 5)
	if len(edges) < 2 {
		for key := range buckets {
			levels[key] = neutralLevel
		}
		return levels, true
	}

	for key, b := range buckets {
		levels[key] = binIndex(edges, float64(b.TrafficCount))
	}
	return levels, false
}

// quantileEdges returns the collapsed quantile boundaries for q bins over a
// sorted sample. Degenerate (duplicate) edges are dropped.
func quantileEdges(sorted []float64, q int) []float64 {
	edges := make([]float64, 0, q+1)
	for i := 0; i <= q; i++ {
		e := quantile(sorted, float64(i)/float64(q))
		if len(edges) == 0 || e > edges[len(edges)-1] {
			edges = append(edges, e)
		}
	}
	return edges
}

// quantile computes the p-quantile of a sorted sample with linear
// interpolation between order statistics.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// binIndex places v into a 1-based bin. The first bin is closed on the
// left; every other bin is half-open (lo, hi].
func binIndex(edges []float64, v float64) int {
	for i := 1; i < len(edges); i++ {
		if v <= edges[i] {
			return i
		}
	}
	return len(edges) - 1
}
