package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "seismic_station_data", cfg.ArchiveDir)
	assert.InDelta(t, 4000.0, cfg.MaxRadiusKm, 1e-9)
	assert.Equal(t, 3, cfg.MaxStations)
	assert.Equal(t, 720*time.Hour, cfg.WindowSpan)
	assert.Equal(t, 2*time.Hour, cfg.GuardBuffer)
	assert.Equal(t, []string{"BH*", "HH*", "LH*", "BHZ", "HHZ"}, cfg.Channels)
	assert.Equal(t, 200*time.Millisecond, cfg.AttemptDelay)
	assert.Equal(t, time.Second, cfg.WindowDelay)
	assert.Equal(t, 2*time.Second, cfg.StationDelay)
	assert.Equal(t, 5*time.Second, cfg.EventDelay)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 10, cfg.ProgressInterval)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.KafkaEnabled)

	sources, err := cfg.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, SourceSpec{Name: "IRIS", URL: "https://service.iris.edu"}, sources[0])
	assert.Equal(t, SourceSpec{Name: "USGS", URL: "https://earthquake.usgs.gov"}, sources[1])
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ARCHIVE_DIR", "/var/lib/seismic")
	t.Setenv("MAX_RADIUS_KM", "1500")
	t.Setenv("MAX_STATIONS", "5")
	t.Setenv("CHANNEL_ORDER", "HHZ,BHZ")
	t.Setenv("EVENT_DELAY", "0s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/seismic", cfg.ArchiveDir)
	assert.InDelta(t, 1500.0, cfg.MaxRadiusKm, 1e-9)
	assert.Equal(t, 5, cfg.MaxStations)
	assert.Equal(t, []string{"HHZ", "BHZ"}, cfg.Channels)
	assert.Zero(t, cfg.EventDelay)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name, key, value string
	}{
		{"zero radius", "MAX_RADIUS_KM", "0"},
		{"zero stations", "MAX_STATIONS", "0"},
		{"negative attempt delay", "ATTEMPT_DELAY", "-1s"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "yaml"},
		{"zero progress interval", "PROGRESS_INTERVAL", "0"},
		{"malformed source", "FDSN_SOURCES", "not-a-pair"},
		{"source missing url", "FDSN_SOURCES", "IRIS="},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestLoad_RejectsBufferNotShorterThanSpan(t *testing.T) {
	t.Setenv("WINDOW_SPAN", "2h")
	t.Setenv("GUARD_BUFFER", "2h")

	_, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GUARD_BUFFER")
}

func TestSources_StripsTrailingSlash(t *testing.T) {
	cfg := &Config{FDSNSources: []string{"IRIS=https://service.iris.edu/"}}

	sources, err := cfg.Sources()
	require.NoError(t, err)
	assert.Equal(t, "https://service.iris.edu", sources[0].URL)
}

func TestSources_PreservesOrder(t *testing.T) {
	cfg := &Config{FDSNSources: []string{
		"USGS=https://earthquake.usgs.gov",
		"IRIS=https://service.iris.edu",
	}}

	sources, err := cfg.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "USGS", sources[0].Name)
	assert.Equal(t, "IRIS", sources[1].Name)
}
