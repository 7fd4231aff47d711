package congestion

import (
	"errors"
	"reflect"
	"testing"

	"toll-ops-service/internal/domain/toll"
)

func TestThresholdLevel(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		expected toll.CongestionLevel
	}{
		{"zero", 0, toll.CongestionLow},
		{"low boundary", 25, toll.CongestionLow},
		{"medium lower boundary", 26, toll.CongestionMedium},
		{"medium upper boundary", 50, toll.CongestionMedium},
		{"high boundary", 51, toll.CongestionHigh},
		{"heavy", 500, toll.CongestionHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ThresholdLevel(tt.count); got != tt.expected {
				t.Errorf("ThresholdLevel(%d) = %q, want %q", tt.count, got, tt.expected)
			}
		})
	}
}

func makeRecords(plaza string, hour, n int, lane string, processing float64) []toll.Record {
	records := make([]toll.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, toll.Record{
			PlazaID:           plaza,
			Hour:              hour,
			Lane:              lane,
			ProcessingTimeSec: processing,
			VehicleClass:      "VC4",
			Direction:         toll.DirectionNorth,
		})
	}
	return records
}

func TestClassifyAggregates(t *testing.T) {
	records := append(makeRecords("Electronic City", 8, 30, "L1", 4.0),
		makeRecords("Electronic City", 8, 30, "L2", 8.0)...)
	records = append(records, makeRecords("Attibele", 8, 10, "L1", 5.0)...)

	buckets, err := Classify(records)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("Classify() returned %d buckets, want 2", len(buckets))
	}

	ec := buckets[toll.BucketKey{PlazaID: "Electronic City", Hour: 8}]
	if ec.TrafficCount != 60 {
		t.Errorf("traffic count = %d, want 60", ec.TrafficCount)
	}
	if ec.CongestionLevel != toll.CongestionHigh {
		t.Errorf("congestion level = %q, want High", ec.CongestionLevel)
	}
	if ec.DistinctLanesOpen != 2 {
		t.Errorf("distinct lanes = %d, want 2", ec.DistinctLanesOpen)
	}
	if ec.AvgProcessingTime != 6.0 {
		t.Errorf("avg processing time = %v, want 6.0", ec.AvgProcessingTime)
	}

	at := buckets[toll.BucketKey{PlazaID: "Attibele", Hour: 8}]
	if at.CongestionLevel != toll.CongestionLow {
		t.Errorf("congestion level = %q, want Low", at.CongestionLevel)
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	buckets, err := Classify(nil)
	if err != nil {
		t.Fatalf("Classify(nil) error = %v", err)
	}
	if len(buckets) != 0 {
		t.Errorf("Classify(nil) returned %d buckets, want 0", len(buckets))
	}
}

func TestClassifyMissingPlaza(t *testing.T) {
	records := []toll.Record{{PlazaID: "", Hour: 9}}
	if _, err := Classify(records); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Classify() error = %v, want ErrInvalidRecord", err)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	records := append(makeRecords("Hosur Road", 7, 40, "L3", 3.5),
		makeRecords("Hosur Road", 18, 55, "L1", 9.0)...)

	first, err := Classify(records)
	if err != nil {
		t.Fatalf("first Classify() error = %v", err)
	}
	second, err := Classify(records)
	if err != nil {
		t.Fatalf("second Classify() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Classify() is not idempotent over the same snapshot")
	}
}

func TestClassifyUnknownHourBucket(t *testing.T) {
	records := makeRecords("Attibele", toll.UnknownHour, 3, "L1", 2.0)
	buckets, err := Classify(records)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	b, ok := buckets[toll.BucketKey{PlazaID: "Attibele", Hour: toll.UnknownHour}]
	if !ok {
		t.Fatal("unknown-hour records did not form a bucket")
	}
	if b.TrafficCount != 3 {
		t.Errorf("traffic count = %d, want 3", b.TrafficCount)
	}
}

func TestAssignTrafficLevelsSpread(t *testing.T) {
	buckets := make(map[toll.BucketKey]toll.CongestionBucket)
	counts := []int{5, 10, 20, 40, 80, 160, 320, 640, 1280, 2560}
	for i, c := range counts {
		key := toll.BucketKey{PlazaID: "P", Hour: i}
		buckets[key] = toll.CongestionBucket{PlazaID: "P", Hour: i, TrafficCount: c}
	}

	levels, degraded := AssignTrafficLevels(buckets)
	if degraded {
		t.Fatal("AssignTrafficLevels() degraded on a spread distribution")
	}
	if len(levels) != len(buckets) {
		t.Fatalf("got %d levels, want %d", len(levels), len(buckets))
	}

	if lv := levels[toll.BucketKey{PlazaID: "P", Hour: 0}]; lv != 1 {
		t.Errorf("lightest bucket level = %d, want 1", lv)
	}
	if lv := levels[toll.BucketKey{PlazaID: "P", Hour: 9}]; lv != 5 {
		t.Errorf("heaviest bucket level = %d, want 5", lv)
	}
	for key, lv := range levels {
		if lv < 1 || lv > 5 {
			t.Errorf("bucket %v level = %d, out of range", key, lv)
		}
	}
}

func TestAssignTrafficLevelsUniformFallback(t *testing.T) {
	buckets := make(map[toll.BucketKey]toll.CongestionBucket)
	for i := 0; i < 6; i++ {
		key := toll.BucketKey{PlazaID: "P", Hour: i}
		buckets[key] = toll.CongestionBucket{PlazaID: "P", Hour: i, TrafficCount: 42}
	}

	levels, degraded := AssignTrafficLevels(buckets)
	if !degraded {
		t.Fatal("AssignTrafficLevels() did not flag a degenerate distribution")
	}
	for key, lv := range levels {
		if lv != 3 {
			t.Errorf("bucket %v level = %d, want neutral 3", key, lv)
		}
	}
}

func TestAssignTrafficLevelsEmpty(t *testing.T) {
	levels, degraded := AssignTrafficLevels(nil)
	if degraded {
		t.Error("AssignTrafficLevels(nil) flagged degraded")
	}
	if len(levels) != 0 {
		t.Errorf("AssignTrafficLevels(nil) returned %d levels, want 0", len(levels))
	}
}

func TestBucketMissingProcessingTime(t *testing.T) {
	records := []toll.Record{{PlazaID: "P", Hour: 1, ProcessingTimeSec: -1, Lane: "L1"}}
	buckets, err := Classify(records)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	b := buckets[toll.BucketKey{PlazaID: "P", Hour: 1}]
	if b.HasAvgProcessingTime() {
		t.Errorf("avg processing time = %v, want missing marker", b.AvgProcessingTime)
	}
}
