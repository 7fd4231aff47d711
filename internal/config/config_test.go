package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_PATH", "netc.csv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Traffic.TotalLanes != 8 {
		t.Errorf("default total lanes = %d, want 8", cfg.Traffic.TotalLanes)
	}
	if cfg.Traffic.SurgeMultiplier != 1.8 {
		t.Errorf("default surge = %v, want 1.8", cfg.Traffic.SurgeMultiplier)
	}
	if cfg.Traffic.SearchRadiusKm != 5 {
		t.Errorf("default radius = %v, want 5", cfg.Traffic.SearchRadiusKm)
	}
}

func TestLoadRequiresDataPath(t *testing.T) {
	t.Setenv("DATA_PATH", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted an empty DATA_PATH")
	}
}

func TestLoadValidatesRanges(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"surge too high", "SURGE_MULTIPLIER", "3.5"},
		{"surge too low", "SURGE_MULTIPLIER", "0.5"},
		{"single lane pool", "TOTAL_LANES", "1"},
		{"negative radius", "SEARCH_RADIUS_KM", "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATA_PATH", "netc.csv")
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() accepted %s=%s", tt.key, tt.value)
			}
		})
	}
}
