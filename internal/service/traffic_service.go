package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"toll-ops-service/internal/config"
	"toll-ops-service/internal/congestion"
	"toll-ops-service/internal/domain/toll"
	"toll-ops-service/internal/geo"
	"toll-ops-service/internal/ingest"
	"toll-ops-service/internal/lanes"
	"toll-ops-service/internal/pricing"
	"toll-ops-service/internal/storage"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrNoSnapshot   = errors.New("no dataset loaded")
)

type directionCounts struct {
	north int
	south int
}

// snapshot is one fully derived view of a loaded dataset. The computation
// packages are pure, so everything derivable is computed once at load time
// and shared read-only between requests. This is the explicit memoization
// boundary; nothing below the service caches.
type snapshot struct {
	id             uuid.UUID
	loadedAt       time.Time
	records        []toll.Record
	plazas         []toll.Plaza
	plazaIndex     map[string]toll.Plaza
	buckets        map[toll.BucketKey]toll.CongestionBucket
	levels         map[toll.BucketKey]int
	levelsDegraded bool
	directional    map[toll.BucketKey]directionCounts
}

type TrafficService struct {
	loader *ingest.Loader
	store  *storage.R2Client
	cfg    *config.Config
	log    zerolog.Logger

	mu   sync.RWMutex
	snap *snapshot
}

func NewTrafficService(loader *ingest.Loader, store *storage.R2Client, cfg *config.Config, log zerolog.Logger) *TrafficService {
	return &TrafficService{
		loader: loader,
		store:  store,
		cfg:    cfg,
		log:    log,
	}
}

// Reload rebuilds the snapshot from the configured dataset. When an object
// key is configured and the store is available, the dataset is refreshed
// from the bucket first.
func (s *TrafficService) Reload(ctx context.Context) (SnapshotInfo, error) {
	if s.cfg.Data.ObjectKey != "" && s.store != nil {
		n, err := s.store.FetchDatasetToFile(ctx, s.cfg.Data.ObjectKey, s.cfg.Data.Path)
		if err != nil {
			return SnapshotInfo{}, fmt.Errorf("fetch dataset from bucket: %w", err)
		}
		s.log.Info().
			Str("object_key", s.cfg.Data.ObjectKey).
			Int64("bytes", n).
			Msg("fetched dataset from object storage")
	}

	records, err := s.loader.LoadFile(s.cfg.Data.Path)
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("load dataset: %w", err)
	}

	snap, err := buildSnapshot(records)
	if err != nil {
		return SnapshotInfo{}, err
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	if snap.levelsDegraded {
		s.log.Warn().
			Str("snapshot_id", snap.id.String()).
			Msg("quantile traffic levels degraded to neutral, distribution too narrow")
	}
	s.log.Info().
		Str("snapshot_id", snap.id.String()).
		Int("records", len(snap.records)).
		Int("plazas", len(snap.plazas)).
		Int("buckets", len(snap.buckets)).
		Msg("dataset snapshot rebuilt")

	return snapshotInfo(snap), nil
}

func buildSnapshot(records []toll.Record) (*snapshot, error) {
	buckets, err := congestion.Classify(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	levels, degraded := congestion.AssignTrafficLevels(buckets)

	plazaIndex := make(map[string]toll.Plaza)
	directional := make(map[toll.BucketKey]directionCounts)
	var plazas []toll.Plaza
	for _, r := range records {
		if _, ok := plazaIndex[r.PlazaID]; !ok {
			p := toll.Plaza{ID: r.PlazaID, Latitude: r.Latitude, Longitude: r.Longitude}
			plazaIndex[r.PlazaID] = p
			plazas = append(plazas, p)
		}
		key := toll.BucketKey{PlazaID: r.PlazaID, Hour: r.Hour}
		dc := directional[key]
		switch r.Direction {
		case toll.DirectionNorth:
			dc.north++
		case toll.DirectionSouth:
			dc.south++
		}
		directional[key] = dc
	}

	return &snapshot{
		id:             uuid.New(),
		loadedAt:       time.Now(),
		records:        records,
		plazas:         plazas,
		plazaIndex:     plazaIndex,
		buckets:        buckets,
		levels:         levels,
		levelsDegraded: degraded,
		directional:    directional,
	}, nil
}

func (s *TrafficService) current() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNoSnapshot
	}
	return s.snap, nil
}

// Ready reports whether a snapshot has been loaded.
func (s *TrafficService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap != nil
}

func (s *TrafficService) Snapshot() (SnapshotInfo, error) {
	snap, err := s.current()
	if err != nil {
		return SnapshotInfo{}, err
	}
	return snapshotInfo(snap), nil
}

func (s *TrafficService) Plazas() ([]toll.Plaza, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.plazas, nil
}

// CongestionTable returns the per-plaza congestion buckets, optionally
// restricted to one hour.
func (s *TrafficService) CongestionTable(hour *int) ([]BucketView, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	if hour != nil {
		if err := validateHour(*hour); err != nil {
			return nil, err
		}
	}

	views := make([]BucketView, 0, len(snap.buckets))
	for key, b := range snap.buckets {
		if hour != nil && key.Hour != *hour {
			continue
		}
		views = append(views, bucketView(b, snap.levels[key]))
	}
	return views, nil
}

// PlazaStatus reports one plaza's bucket for one hour. A plaza with no
// traffic at that hour is a valid answer carrying an explicit
// insufficient-data marker, not an error.
func (s *TrafficService) PlazaStatus(plazaID string, hour int) (PlazaStatusView, error) {
	snap, err := s.current()
	if err != nil {
		return PlazaStatusView{}, err
	}
	if err := validateHour(hour); err != nil {
		return PlazaStatusView{}, err
	}
	if _, ok := snap.plazaIndex[plazaID]; !ok {
		return PlazaStatusView{}, fmt.Errorf("%w: plaza %q", ErrNotFound, plazaID)
	}

	view := PlazaStatusView{PlazaID: plazaID, Hour: hour}
	key := toll.BucketKey{PlazaID: plazaID, Hour: hour}
	b, ok := snap.buckets[key]
	if !ok {
		return view, nil
	}
	bv := bucketView(b, snap.levels[key])
	view.Bucket = &bv
	return view, nil
}

// LaneAdvice computes the directional lane split for one plaza and hour.
func (s *TrafficService) LaneAdvice(plazaID string, hour, totalLanes int) (LaneAdviceView, error) {
	snap, err := s.current()
	if err != nil {
		return LaneAdviceView{}, err
	}
	if err := validateHour(hour); err != nil {
		return LaneAdviceView{}, err
	}
	if totalLanes == 0 {
		totalLanes = s.cfg.Traffic.TotalLanes
	}
	if totalLanes < 2 {
		return LaneAdviceView{}, fmt.Errorf("%w: total lanes must be at least 2", ErrInvalidInput)
	}
	if _, ok := snap.plazaIndex[plazaID]; !ok {
		return LaneAdviceView{}, fmt.Errorf("%w: plaza %q", ErrNotFound, plazaID)
	}

	dc := snap.directional[toll.BucketKey{PlazaID: plazaID, Hour: hour}]
	northLanes, southLanes := lanes.Allocate(dc.north, dc.south, totalLanes)

	view := LaneAdviceView{
		Allocation: toll.LaneAllocation{
			PlazaID:    plazaID,
			Hour:       hour,
			NorthLanes: northLanes,
			SouthLanes: southLanes,
		},
		NorthCount: dc.north,
		SouthCount: dc.south,
		TotalLanes: totalLanes,
	}
	if gain, ok := lanes.EfficiencyGain(dc.north, dc.south, northLanes, southLanes); ok {
		view.EfficiencyGainPct = &gain
	}
	return view, nil
}

// PriceSchedule quotes every vehicle class for each of a plaza's observed
// hours under the quantile pricing policy.
func (s *TrafficService) PriceSchedule(plazaID string, surge float64) (PriceScheduleView, error) {
	snap, err := s.current()
	if err != nil {
		return PriceScheduleView{}, err
	}
	if surge == 0 {
		surge = s.cfg.Traffic.SurgeMultiplier
	}
	if surge < 1.0 || surge > 3.0 {
		return PriceScheduleView{}, fmt.Errorf("%w: surge multiplier %v outside [1.0, 3.0]", ErrInvalidInput, surge)
	}
	if _, ok := snap.plazaIndex[plazaID]; !ok {
		return PriceScheduleView{}, fmt.Errorf("%w: plaza %q", ErrNotFound, plazaID)
	}

	view := PriceScheduleView{
		PlazaID:         plazaID,
		SurgeMultiplier: surge,
		LevelsDegraded:  snap.levelsDegraded,
	}
	for key := range snap.buckets {
		if key.PlazaID != plazaID {
			continue
		}
		level := snap.levels[key]
		for _, class := range pricing.VehicleClasses() {
			base := pricing.BasePrice(class)
			view.Quotes = append(view.Quotes, toll.PriceQuote{
				PlazaID:         plazaID,
				Hour:            key.Hour,
				VehicleClass:    class,
				BasePrice:       base,
				TrafficLevel:    level,
				SurgeMultiplier: surge,
				FinalPrice:      pricing.Price(base, level, surge),
			})
		}
	}
	sortQuotes(view.Quotes)
	return view, nil
}

// Reroute suggests less congested plazas within the radius of the origin
// plaza for the given hour. An empty candidate list is the "no alternative"
// answer, not an error.
func (s *TrafficService) Reroute(plazaID string, hour int, radiusKm float64) (RerouteView, error) {
	snap, err := s.current()
	if err != nil {
		return RerouteView{}, err
	}
	if err := validateHour(hour); err != nil {
		return RerouteView{}, err
	}
	if radiusKm == 0 {
		radiusKm = s.cfg.Traffic.SearchRadiusKm
	}
	if radiusKm <= 0 {
		return RerouteView{}, fmt.Errorf("%w: search radius must be positive", ErrInvalidInput)
	}
	origin, ok := snap.plazaIndex[plazaID]
	if !ok {
		return RerouteView{}, fmt.Errorf("%w: plaza %q", ErrNotFound, plazaID)
	}

	originPoint := geo.Point{Lat: origin.Latitude, Lon: origin.Longitude}
	distances := geo.Nearby(plazaID, originPoint, snap.plazas, radiusKm)
	candidates := geo.Recommend(distances, snap.buckets, hour)

	view := RerouteView{
		Origin:     origin,
		Hour:       hour,
		RadiusKm:   radiusKm,
		Candidates: make([]RerouteCandidate, 0, len(candidates)),
	}
	for _, c := range candidates {
		dest := snap.plazaIndex[c.PlazaID]
		view.Candidates = append(view.Candidates, RerouteCandidate{
			ProximityCandidate: c,
			RouteLink:          geo.RouteLink(originPoint, geo.Point{Lat: dest.Latitude, Lon: dest.Longitude}),
		})
	}
	return view, nil
}

func validateHour(hour int) error {
	if hour == toll.UnknownHour {
		return nil
	}
	if hour < 0 || hour > 23 {
		return fmt.Errorf("%w: hour %d outside [0, 23]", ErrInvalidInput, hour)
	}
	return nil
}
