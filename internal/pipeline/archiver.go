package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Tejaji-0/earthquake-detector/internal/domain"
	"github.com/Tejaji-0/earthquake-detector/internal/observability"
)

const (
	beforeDirName    = "before_event"
	afterDirName     = "after_event"
	metadataFileName = "metadata.json"

	// stagingSuffix marks an in-progress event directory. Only the final
	// (suffix-free) name counts as "already processed" on resume.
	stagingSuffix = ".partial"
)

// StationResolver produces the ranked station subset for an event location.
type StationResolver interface {
	Resolve(ctx context.Context, center domain.GeoPoint, maxRadiusKm float64, maxResults int) []domain.RankedStation
}

// WindowRetriever fetches one station/window through the fallback order.
type WindowRetriever interface {
	Retrieve(ctx context.Context, network, station string, window domain.TimeWindow) (domain.Waveform, domain.RetrievalAttempt)
}

// ArchiverOptions are the per-run tuning parameters of the archiver.
type ArchiverOptions struct {
	ArchiveRoot  string
	MaxRadiusKm  float64
	MaxStations  int
	WindowSpan   time.Duration
	GuardBuffer  time.Duration
	WindowDelay  time.Duration // between the before and after fetches of one station
	StationDelay time.Duration // between successive stations
}

// Archiver builds the on-disk archive for one event at a time: derives the
// before/after windows, resolves stations, retrieves and persists waveforms,
// and writes the terminal metadata record.
type Archiver struct {
	resolver  StationResolver
	retriever WindowRetriever
	opts      ArchiverOptions
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewArchiver creates an Archiver.
func NewArchiver(resolver StationResolver, retriever WindowRetriever, opts ArchiverOptions, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Archiver {
	return &Archiver{
		resolver:  resolver,
		retriever: retriever,
		opts:      opts,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// Archive processes one event. Idempotent: if the event's archive directory
// already exists under its final name, the event is treated as already
// processed and returned with StatusSkipped without touching its contents or
// performing any fetches. Work happens in a staging directory renamed into
// place only after metadata.json is written, so an interrupted event is
// redone from scratch on resume rather than mistaken for complete.
func (a *Archiver) Archive(ctx context.Context, event domain.Event) (domain.EventRecord, error) {
	start := a.clock.Now()

	windows, err := domain.NewArchiveWindows(event.OccurredAt, a.opts.WindowSpan, a.opts.GuardBuffer)
	if err != nil {
		return domain.EventRecord{}, fmt.Errorf("derive windows for %q: %w", event.Title, err)
	}

	dirName := domain.EventDirName(event)
	finalDir := filepath.Join(a.opts.ArchiveRoot, dirName)

	if _, err := os.Stat(finalDir); err == nil {
		a.logger.Info("archive directory exists, skipping event", "dir", dirName)
		a.metrics.EventsSkipped.Inc()
		return domain.EventRecord{Event: event, Windows: windows, Status: domain.StatusSkipped}, nil
	}

	staging := finalDir + stagingSuffix
	if err := a.prepareStaging(staging); err != nil {
		return domain.EventRecord{}, err
	}

	stations := a.resolver.Resolve(ctx, event.Location, a.opts.MaxRadiusKm, a.opts.MaxStations)
	a.metrics.StationsResolved.Observe(float64(len(stations)))

	record := domain.EventRecord{
		Event:    event,
		Windows:  windows,
		Stations: []domain.StationOutcome{},
		Possible: len(stations) * 2,
	}

	if len(stations) == 0 {
		a.logger.Warn("no stations within radius from any source",
			"event", event.Title, "radius_km", a.opts.MaxRadiusKm)
		record.Status = domain.StatusNoStations
		return a.finalize(record, staging, finalDir, start)
	}

	a.logger.Info("stations resolved",
		"event", event.Title,
		"count", len(stations),
		"nearest", stations[0].Key(),
		"nearest_km", stations[0].DistanceKm,
	)

	for i, st := range stations {
		outcome, err := a.archiveStation(ctx, st, windows, staging)
		if err != nil {
			// Cancellation mid-event: leave the staging directory behind;
			// resume redoes this event from scratch.
			return domain.EventRecord{}, err
		}
		record.Stations = append(record.Stations, outcome)
		if outcome.Before.Retrieved() {
			record.Retrieved++
		}
		if outcome.After.Retrieved() {
			record.Retrieved++
		}

		if i < len(stations)-1 {
			if !sleepWithContext(ctx, a.clock, a.opts.StationDelay) {
				return domain.EventRecord{}, ctx.Err()
			}
		}
	}

	record.Status = deriveStatus(record.Stations)
	return a.finalize(record, staging, finalDir, start)
}

// archiveStation fetches and persists both windows for one station, before
// always first. Failures are local: a failed fetch or write degrades the
// attempt outcome but never aborts the event.
func (a *Archiver) archiveStation(ctx context.Context, st domain.RankedStation, windows domain.ArchiveWindows, staging string) (domain.StationOutcome, error) {
	outcome := domain.StationOutcome{Station: st.Station, DistanceKm: st.DistanceKm}

	outcome.Before = a.fetchAndPersist(ctx, st, windows.Before, staging, "before")
	if ctx.Err() != nil {
		return outcome, ctx.Err()
	}

	if !sleepWithContext(ctx, a.clock, a.opts.WindowDelay) {
		return outcome, ctx.Err()
	}

	outcome.After = a.fetchAndPersist(ctx, st, windows.After, staging, "after")
	if ctx.Err() != nil {
		return outcome, ctx.Err()
	}
	return outcome, nil
}

// fetchAndPersist runs the retrieval pipeline for one window and writes the
// waveform file on success. A file that fails to write is not recorded as
// retrieved.
func (a *Archiver) fetchAndPersist(ctx context.Context, st domain.RankedStation, window domain.TimeWindow, staging, side string) domain.RetrievalAttempt {
	wf, attempt := a.retriever.Retrieve(ctx, st.Network, st.Code, window)
	if !attempt.Retrieved() {
		return attempt
	}

	subdir := beforeDirName
	if side == "after" {
		subdir = afterDirName
	}
	path := filepath.Join(staging, subdir, fmt.Sprintf("%s_%s_%s.mseed", st.Network, st.Code, side))

	if err := os.WriteFile(path, wf.Data, 0o644); err != nil {
		a.logger.Error("waveform write failed",
			"station", st.Key(), "window", side, "path", path, "error", err)
		a.metrics.PersistenceFailures.Inc()
		return domain.RetrievalAttempt{Outcome: domain.OutcomeTransient, Error: fmt.Sprintf("persist waveform: %v", err)}
	}

	a.metrics.WaveformBytes.Add(float64(attempt.ByteSize))
	a.logger.Info("waveform saved",
		"station", st.Key(),
		"window", side,
		"source", attempt.SourceID,
		"channel", attempt.ChannelPattern,
		"records", attempt.RecordCount,
		"bytes", attempt.ByteSize,
	)
	return attempt
}

// prepareStaging creates a clean staging tree, removing any stale leftover
// from an interrupted earlier run.
func (a *Archiver) prepareStaging(staging string) error {
	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("remove stale staging dir: %w", err)
	}
	for _, dir := range []string{staging, filepath.Join(staging, beforeDirName), filepath.Join(staging, afterDirName)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			a.metrics.PersistenceFailures.Inc()
			return fmt.Errorf("create archive dir %s: %w", dir, err)
		}
	}
	return nil
}

// finalize stamps and writes the metadata record, then renames the staging
// directory to its final name, marking the event complete.
func (a *Archiver) finalize(record domain.EventRecord, staging, finalDir string, start time.Time) (domain.EventRecord, error) {
	record.ProcessedAt = a.clock.Now()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return domain.EventRecord{}, fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(staging, metadataFileName), data, 0o644); err != nil {
		a.metrics.PersistenceFailures.Inc()
		return domain.EventRecord{}, fmt.Errorf("write metadata: %w", err)
	}
	if err := os.Rename(staging, finalDir); err != nil {
		a.metrics.PersistenceFailures.Inc()
		return domain.EventRecord{}, fmt.Errorf("finalize archive dir: %w", err)
	}

	a.metrics.EventDuration.Observe(a.clock.Since(start).Seconds())
	a.logger.Info("event archived",
		"dir", filepath.Base(finalDir),
		"status", record.Status,
		"retrieved", record.Retrieved,
		"possible", record.Possible,
	)
	return record, nil
}

// deriveStatus maps station outcomes to the event's terminal status. Empty
// windows are normal (completed); only transient fetch or persist failures
// downgrade to partial_failure.
func deriveStatus(stations []domain.StationOutcome) domain.EventStatus {
	for _, s := range stations {
		if s.Before.Outcome == domain.OutcomeTransient || s.After.Outcome == domain.OutcomeTransient {
			return domain.StatusPartialFailure
		}
	}
	return domain.StatusCompleted
}
