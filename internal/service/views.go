package service

import (
	"sort"
	"time"

	"toll-ops-service/internal/domain/toll"
)

type SnapshotInfo struct {
	ID             string    `json:"id"`
	LoadedAt       time.Time `json:"loaded_at"`
	Records        int       `json:"records"`
	Plazas         int       `json:"plazas"`
	Buckets        int       `json:"buckets"`
	LevelsDegraded bool      `json:"levels_degraded"`
}

// BucketView is a CongestionBucket shaped for JSON: the missing-average
// marker becomes an absent field instead of a NaN the encoder cannot emit.
type BucketView struct {
	PlazaID           string               `json:"plaza_id"`
	Hour              int                  `json:"hour"`
	TrafficCount      int                  `json:"traffic_count"`
	AvgProcessingTime *float64             `json:"avg_processing_time,omitempty"`
	DistinctLanesOpen int                  `json:"distinct_lanes_open"`
	CongestionLevel   toll.CongestionLevel `json:"congestion_level"`
	TrafficLevel      int                  `json:"traffic_level"`
}

type PlazaStatusView struct {
	PlazaID string `json:"plaza_id"`
	Hour    int    `json:"hour"`
	// Bucket is nil when the plaza saw no traffic at that hour; the caller
	// renders that as "insufficient data".
	Bucket *BucketView `json:"bucket,omitempty"`
}

type LaneAdviceView struct {
	Allocation toll.LaneAllocation `json:"allocation"`
	NorthCount int                 `json:"north_count"`
	SouthCount int                 `json:"south_count"`
	TotalLanes int                 `json:"total_lanes"`
	// EfficiencyGainPct is nil when the baseline delay is zero and the
	// metric is undefined.
	EfficiencyGainPct *float64 `json:"efficiency_gain_pct,omitempty"`
}

type PriceScheduleView struct {
	PlazaID         string            `json:"plaza_id"`
	SurgeMultiplier float64           `json:"surge_multiplier"`
	LevelsDegraded  bool              `json:"levels_degraded"`
	Quotes          []toll.PriceQuote `json:"quotes"`
}

type RerouteCandidate struct {
	toll.ProximityCandidate
	RouteLink string `json:"route_link"`
}

type RerouteView struct {
	Origin     toll.Plaza         `json:"origin"`
	Hour       int                `json:"hour"`
	RadiusKm   float64            `json:"radius_km"`
	Candidates []RerouteCandidate `json:"candidates"`
}

func snapshotInfo(snap *snapshot) SnapshotInfo {
	return SnapshotInfo{
		ID:             snap.id.String(),
		LoadedAt:       snap.loadedAt,
		Records:        len(snap.records),
		Plazas:         len(snap.plazas),
		Buckets:        len(snap.buckets),
		LevelsDegraded: snap.levelsDegraded,
	}
}

func bucketView(b toll.CongestionBucket, level int) BucketView {
	view := BucketView{
		PlazaID:           b.PlazaID,
		Hour:              b.Hour,
		TrafficCount:      b.TrafficCount,
		DistinctLanesOpen: b.DistinctLanesOpen,
		CongestionLevel:   b.CongestionLevel,
		TrafficLevel:      level,
	}
	if b.HasAvgProcessingTime() {
		avg := b.AvgProcessingTime
		view.AvgProcessingTime = &avg
	}
	return view
}

func sortQuotes(quotes []toll.PriceQuote) {
	sort.Slice(quotes, func(i, j int) bool {
		if quotes[i].Hour != quotes[j].Hour {
			return quotes[i].Hour < quotes[j].Hour
		}
		return quotes[i].BasePrice < quotes[j].BasePrice
	})
}
