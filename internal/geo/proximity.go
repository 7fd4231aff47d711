package geo

import (
	"fmt"
	"math"
	"sort"

	"toll-ops-service/internal/domain/toll"
)

const earthRadiusKm = 6371.0

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Haversine returns the great-circle distance between two coordinates in
// kilometers.
func Haversine(a, b Point) float64 {
	lat1 := degreesToRadians(a.Lat)
	lon1 := degreesToRadians(a.Lon)
	lat2 := degreesToRadians(b.Lat)
	lon2 := degreesToRadians(b.Lon)

	dlat := lat2 - lat1
	dlon := lon2 - lon1
	h := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Nearby finds plazas within radiusKm of the origin plaza and returns their
// distances, keyed by plaza id. The origin plaza itself is always excluded.
func Nearby(originID string, origin Point, plazas []toll.Plaza, radiusKm float64) map[string]float64 {
	distances := make(map[string]float64)
	for _, p := range plazas {
		if p.ID == originID {
			continue
		}
		d := Haversine(origin, Point{Lat: p.Latitude, Lon: p.Longitude})
		if d <= radiusKm {
			distances[p.ID] = d
		}
	}
	return distances
}

// Recommend ranks the candidate plazas a driver could divert to at the given
// hour. Only plazas currently classified Low qualify; results are ordered by
// distance, then by traffic count. An empty slice means no alternative
// exists, which is a normal outcome rather than an error.
func Recommend(distances map[string]float64, buckets map[toll.BucketKey]toll.CongestionBucket, hour int) []toll.ProximityCandidate {
	candidates := make([]toll.ProximityCandidate, 0, len(distances))
	for id, dist := range distances {
		b, ok := buckets[toll.BucketKey{PlazaID: id, Hour: hour}]
		if !ok || b.CongestionLevel != toll.CongestionLow {
			continue
		}
		candidates = append(candidates, toll.ProximityCandidate{
			PlazaID:         id,
			DistanceKm:      dist,
			TrafficCount:    b.TrafficCount,
			CongestionLevel: b.CongestionLevel,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DistanceKm != candidates[j].DistanceKm {
			return candidates[i].DistanceKm < candidates[j].DistanceKm
		}
		return candidates[i].TrafficCount < candidates[j].TrafficCount
	})
	return candidates
}

// RouteLink builds a Google Maps driving-directions URL from the origin to
// an alternative plaza. It is a display convenience only; no routing is done
// here.
func RouteLink(origin, dest Point) string {
	return fmt.Sprintf(
		"https://www.google.com/maps/dir/?api=1&origin=%f,%f&destination=%f,%f&travelmode=driving",
		origin.Lat, origin.Lon, dest.Lat, dest.Lon,
	)
}
