package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"toll-ops-service/internal/domain/toll"
)

var ErrInvalidRow = errors.New("invalid row")

// RawRow is one NETC transaction as it appears in the source file, before
// any typing.
type RawRow struct {
	PlazaID           string
	InitiatedTime     string
	Geocode           string
	VehicleClass      string
	Lane              string
	Direction         string
	ProcessingTimeSec string
}

// Initiated timestamps come as dd-mm-yyyy, occasionally with seconds.
var timestampLayouts = []string{
	"02-01-2006 15:04",
	"02-01-2006 15:04:05",
}

// NormalizeRow turns a raw transaction into a toll.Record. Plaza id and
// geocode are required; a row missing either is rejected outright.
// Recoverable defects are tagged instead of defaulted: a malformed timestamp
// yields the unknown-hour sentinel, an unmapped direction code becomes
// Unknown, and an unparsable processing time becomes a negative marker that
// downstream aggregation treats as a missing sample.
func NormalizeRow(raw RawRow) (toll.Record, error) {
	plaza := strings.TrimSpace(raw.PlazaID)
	if plaza == "" {
		return toll.Record{}, fmt.Errorf("%w: plaza id is required", ErrInvalidRow)
	}

	lat, lon, err := parseGeocode(raw.Geocode)
	if err != nil {
		return toll.Record{}, fmt.Errorf("%w: %v", ErrInvalidRow, err)
	}

	record := toll.Record{
		PlazaID:           plaza,
		Hour:              toll.UnknownHour,
		Direction:         parseDirection(raw.Direction),
		VehicleClass:      strings.TrimSpace(raw.VehicleClass),
		Lane:              strings.TrimSpace(raw.Lane),
		ProcessingTimeSec: -1,
		Latitude:          lat,
		Longitude:         lon,
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, strings.TrimSpace(raw.InitiatedTime)); err == nil {
			record.Timestamp = &ts
			record.Hour = ts.Hour()
			break
		}
	}

	if v, err := strconv.ParseFloat(strings.TrimSpace(raw.ProcessingTimeSec), 64); err == nil && v >= 0 {
		record.ProcessingTimeSec = v
	}

	return record, nil
}

func parseGeocode(geocode string) (lat, lon float64, err error) {
	parts := strings.SplitN(strings.TrimSpace(geocode), ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("geocode %q is not lat,lon", geocode)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode latitude %q: %v", parts[0], err)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode longitude %q: %v", parts[1], err)
	}
	return lat, lon, nil
}

func parseDirection(code string) toll.Direction {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "N", "NORTH":
		return toll.DirectionNorth
	case "S", "SOUTH":
		return toll.DirectionSouth
	default:
		return toll.DirectionUnknown
	}
}
