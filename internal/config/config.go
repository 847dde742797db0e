package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr      string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath        string     `env:"DB_PATH" envDefault:"data/geoparty.db"`
	LogLevel      slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	ScoringPolicy string     `env:"SCORING_POLICY" envDefault:"exponential"`
	JitterDegrees float64    `env:"JITTER_DEGREES" envDefault:"0.075"`
	StreetViewURL string     `env:"STREETVIEW_URL"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
