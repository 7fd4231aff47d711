package toll

import (
	"math"
	"time"
)

// UnknownHour marks records whose initiated timestamp could not be parsed.
// Such records still count toward their plaza's unknown-hour bucket.
const UnknownHour = -1

type Direction string

const (
	DirectionNorth   Direction = "North"
	DirectionSouth   Direction = "South"
	DirectionUnknown Direction = "Unknown"
)

// Record is one normalized toll transaction. It is immutable once built;
// the computation packages read it and never write it back.
type Record struct {
	PlazaID           string     `json:"plaza_id"`
	Timestamp         *time.Time `json:"timestamp,omitempty"`
	Hour              int        `json:"hour"`
	Direction         Direction  `json:"direction"`
	VehicleClass      string     `json:"vehicle_class"`
	Lane              string     `json:"lane"`
	ProcessingTimeSec float64    `json:"processing_time_sec"`
	Latitude          float64    `json:"latitude"`
	Longitude         float64    `json:"longitude"`
}

type BucketKey struct {
	PlazaID string
	Hour    int
}

type CongestionLevel string

const (
	CongestionLow    CongestionLevel = "Low"
	CongestionMedium CongestionLevel = "Medium"
	CongestionHigh   CongestionLevel = "High"
)

// CongestionBucket aggregates one plaza's traffic for one hour. It is
// recomputed fresh on every classification; there is no identity across runs.
type CongestionBucket struct {
	PlazaID           string
	Hour              int
	TrafficCount      int
	AvgProcessingTime float64 // NaN when the bucket has no processing samples
	DistinctLanesOpen int
	CongestionLevel   CongestionLevel
}

// HasAvgProcessingTime reports whether the average is an actual measurement.
// Consumers must treat a missing average as "insufficient data", not zero.
func (b CongestionBucket) HasAvgProcessingTime() bool {
	return !math.IsNaN(b.AvgProcessingTime)
}

type LaneAllocation struct {
	PlazaID    string `json:"plaza_id"`
	Hour       int    `json:"hour"`
	NorthLanes int    `json:"north_lanes"`
	SouthLanes int    `json:"south_lanes"`
}

type PriceQuote struct {
	PlazaID         string  `json:"plaza_id"`
	Hour            int     `json:"hour"`
	VehicleClass    string  `json:"vehicle_class"`
	BasePrice       float64 `json:"base_price"`
	TrafficLevel    int     `json:"traffic_level"`
	SurgeMultiplier float64 `json:"surge_multiplier"`
	FinalPrice      float64 `json:"final_price"`
}

type ProximityCandidate struct {
	PlazaID         string          `json:"plaza_id"`
	DistanceKm      float64         `json:"distance_km"`
	TrafficCount    int             `json:"traffic_count"`
	CongestionLevel CongestionLevel `json:"congestion_level"`
}

// Plaza is a toll collection point with its representative coordinates.
type Plaza struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
