package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DataConfig struct {
	// Path of the local transaction dataset (CSV or Excel).
	Path string
	// ObjectKey, when set, is fetched from R2 into Path on reload.
	ObjectKey string
}

type TrafficConfig struct {
	TotalLanes      int
	SurgeMultiplier float64
	SearchRadiusKm  float64
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	Data        DataConfig
	Traffic     TrafficConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		Data: DataConfig{
			Path:      v.GetString("DATA_PATH"),
			ObjectKey: v.GetString("DATASET_OBJECT_KEY"),
		},
		Traffic: TrafficConfig{
			TotalLanes:      v.GetInt("TOTAL_LANES"),
			SurgeMultiplier: v.GetFloat64("SURGE_MULTIPLIER"),
			SearchRadiusKm:  v.GetFloat64("SEARCH_RADIUS_KM"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Traffic.TotalLanes == 0 {
		cfg.Traffic.TotalLanes = 8
	}
	if cfg.Traffic.SurgeMultiplier == 0 {
		cfg.Traffic.SurgeMultiplier = 1.8
	}
	if cfg.Traffic.SearchRadiusKm == 0 {
		cfg.Traffic.SearchRadiusKm = 5
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Data.Path == "" {
		return fmt.Errorf("DATA_PATH is required")
	}
	if cfg.Traffic.TotalLanes < 2 {
		return fmt.Errorf("TOTAL_LANES must be at least 2, got %d", cfg.Traffic.TotalLanes)
	}
	if cfg.Traffic.SurgeMultiplier < 1.0 || cfg.Traffic.SurgeMultiplier > 3.0 {
		return fmt.Errorf("SURGE_MULTIPLIER must be within [1.0, 3.0], got %v", cfg.Traffic.SurgeMultiplier)
	}
	if cfg.Traffic.SearchRadiusKm <= 0 {
		return fmt.Errorf("SEARCH_RADIUS_KM must be positive, got %v", cfg.Traffic.SearchRadiusKm)
	}
	return nil
}
