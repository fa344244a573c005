// Command fetcher builds the before/after seismic waveform archive for an
// earthquake catalog. It processes events strictly sequentially, pacing
// requests to the FDSN data centres, and is safe to interrupt and restart:
// completed event directories are skipped on resume.
//
// Usage:
//
//	go run ./cmd/fetcher -catalog data/earthquake_1995-2023.csv          # all events
//	go run ./cmd/fetcher -catalog data/earthquake_1995-2023.csv -max 25  # first 25
//	go run ./cmd/fetcher -catalog ... -start 100 -max 50                 # events 101-150
//
// Service settings (archive root, radius, pacing, sources, Kafka) come from
// environment variables; see internal/config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/Tejaji-0/earthquake-detector/internal/adapter/fdsn"
	httpadapter "github.com/Tejaji-0/earthquake-detector/internal/adapter/http"
	kafkaadapter "github.com/Tejaji-0/earthquake-detector/internal/adapter/kafka"
	"github.com/Tejaji-0/earthquake-detector/internal/catalog"
	"github.com/Tejaji-0/earthquake-detector/internal/config"
	"github.com/Tejaji-0/earthquake-detector/internal/domain"
	"github.com/Tejaji-0/earthquake-detector/internal/observability"
	"github.com/Tejaji-0/earthquake-detector/internal/pipeline"
	"github.com/Tejaji-0/earthquake-detector/internal/station"
)

func main() {
	catalogPath := flag.String("catalog", "data/earthquake_1995-2023.csv", "path to the earthquake catalog CSV")
	startFrom := flag.Int("start", 0, "zero-based index of the first event to process")
	maxEvents := flag.Int("max", 0, "number of events to process (0 = all remaining)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	if err := run(ctx, cfg, logger, metrics, *catalogPath, *startFrom, *maxEvents); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("processing interrupted by user")
			return
		}
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, catalogPath string, startFrom, maxEvents int) error {
	events, err := catalog.Load(catalogPath, logger)
	if err != nil {
		return err
	}
	events = selectRange(events, startFrom, maxEvents)
	if len(events) == 0 {
		return fmt.Errorf("no events to process (catalog has none in the requested range)")
	}

	if err := os.MkdirAll(cfg.ArchiveDir, 0o755); err != nil {
		return fmt.Errorf("create archive root: %w", err)
	}

	specs, err := cfg.Sources()
	if err != nil {
		return err
	}

	clock := clockwork.NewRealClock()

	// Each FDSN data centre serves both as a station catalog and a waveform
	// source, in configured priority order.
	catalogs := make([]domain.StationCatalog, 0, len(specs))
	waveformSources := make([]domain.WaveformSource, 0, len(specs))
	for _, spec := range specs {
		client := fdsn.NewClient(spec.Name, spec.URL, cfg.FetchTimeout, logger)
		catalogs = append(catalogs, client)
		waveformSources = append(waveformSources, client)
	}
	logger.Info("fdsn sources configured", "count", len(specs), "primary", specs[0].Name)

	resolver := station.NewResolver(catalogs, station.NewBuiltinCatalog(), logger, metrics)
	retriever := pipeline.NewRetriever(waveformSources, cfg.Channels, cfg.AttemptDelay, clock, logger, metrics)
	archiver := pipeline.NewArchiver(resolver, retriever, pipeline.ArchiverOptions{
		ArchiveRoot:  cfg.ArchiveDir,
		MaxRadiusKm:  cfg.MaxRadiusKm,
		MaxStations:  cfg.MaxStations,
		WindowSpan:   cfg.WindowSpan,
		GuardBuffer:  cfg.GuardBuffer,
		WindowDelay:  cfg.WindowDelay,
		StationDelay: cfg.StationDelay,
	}, clock, logger, metrics)

	// Optional per-event record publication (feature-flagged via KAFKA_ENABLED).
	var publisher domain.OutcomePublisher
	if cfg.KafkaEnabled {
		kp := kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer func() {
			if err := kp.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		publisher = kp
		logger.Info("kafka publication enabled", "topic", cfg.KafkaTopic)
	}

	runner := pipeline.NewRunner(archiver, publisher, cfg.ArchiveDir, cfg.EventDelay, cfg.ProgressInterval, clock, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, runner, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}()

	_, err = runner.Run(ctx, events)
	return err
}

// selectRange applies the -start/-max window to the catalog order.
func selectRange(events []domain.Event, start, max int) []domain.Event {
	if start < 0 {
		start = 0
	}
	if start >= len(events) {
		return nil
	}
	events = events[start:]
	if max > 0 && max < len(events) {
		events = events[:max]
	}
	return events
}
