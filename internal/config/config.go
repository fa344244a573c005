// Package config loads fetcher settings from environment variables.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// SourceSpec is one configured FDSN data centre, parsed from "NAME=URL".
type SourceSpec struct {
	Name string
	URL  string
}

// Config holds all fetcher settings, populated from environment variables.
// Catalog file path and event range come from CLI flags, not the environment,
// because they change per invocation.
type Config struct {
	ArchiveDir string `env:"ARCHIVE_DIR, default=seismic_station_data" validate:"required"`

	// Station resolution.
	MaxRadiusKm float64 `env:"MAX_RADIUS_KM, default=4000" validate:"gt=0"`
	MaxStations int     `env:"MAX_STATIONS, default=3" validate:"gte=1"`

	// Archive windows.
	WindowSpan  time.Duration `env:"WINDOW_SPAN, default=720h" validate:"gt=0"`
	GuardBuffer time.Duration `env:"GUARD_BUFFER, default=2h" validate:"gt=0"`

	// Remote sources and fallback channel order, broadest first.
	FDSNSources []string `env:"FDSN_SOURCES, default=IRIS=https://service.iris.edu,USGS=https://earthquake.usgs.gov" validate:"min=1"`
	Channels    []string `env:"CHANNEL_ORDER, default=BH*,HH*,LH*,BHZ,HHZ" validate:"min=1"`

	// Pacing against shared remote services. All deliberate sleeps.
	AttemptDelay time.Duration `env:"ATTEMPT_DELAY, default=200ms" validate:"gte=0"`
	WindowDelay  time.Duration `env:"WINDOW_DELAY, default=1s" validate:"gte=0"`
	StationDelay time.Duration `env:"STATION_DELAY, default=2s" validate:"gte=0"`
	EventDelay   time.Duration `env:"EVENT_DELAY, default=5s" validate:"gte=0"`

	FetchTimeout     time.Duration `env:"FETCH_TIMEOUT, default=30s" validate:"gt=0"`
	ProgressInterval int           `env:"PROGRESS_INTERVAL, default=10" validate:"gte=1"`

	HTTPAddr  string `env:"HTTP_ADDR, default=:8080" validate:"required"`
	LogLevel  string `env:"LOG_LEVEL, default=info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT, default=json" validate:"oneof=json text"`

	// Optional per-event record publication.
	KafkaEnabled bool     `env:"KAFKA_ENABLED, default=false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS, default=localhost:9092"`
	KafkaTopic   string   `env:"KAFKA_TOPIC, default=archive-event-records"`
}

// Load reads configuration from environment variables, applying defaults
// where unset, and validates ranges. Any error here is fatal to the run.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if cfg.GuardBuffer >= cfg.WindowSpan {
		return nil, fmt.Errorf("GUARD_BUFFER (%v) must be shorter than WINDOW_SPAN (%v)", cfg.GuardBuffer, cfg.WindowSpan)
	}
	if _, err := cfg.Sources(); err != nil {
		return nil, err
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return &cfg, nil
}

// Sources parses the FDSN_SOURCES entries into ordered SourceSpecs. Order is
// significant: it is the waveform fallback priority.
func (c *Config) Sources() ([]SourceSpec, error) {
	specs := make([]SourceSpec, 0, len(c.FDSNSources))
	for _, entry := range c.FDSNSources {
		name, rawURL, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok || name == "" || rawURL == "" {
			return nil, fmt.Errorf("malformed FDSN_SOURCES entry %q, want NAME=URL", entry)
		}
		specs = append(specs, SourceSpec{Name: name, URL: strings.TrimRight(rawURL, "/")})
	}
	return specs, nil
}
