package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Tejaji-0/earthquake-detector/internal/domain"
	"github.com/Tejaji-0/earthquake-detector/internal/observability"
)

// summaryFileName is the run-level summary, overwritten each run.
const summaryFileName = "processing_summary.json"

// EventArchiver archives one event and returns its terminal record.
type EventArchiver interface {
	Archive(ctx context.Context, event domain.Event) (domain.EventRecord, error)
}

// Runner iterates an ordered event sequence strictly sequentially, pacing
// requests between events and tracking aggregate success/failure counts.
type Runner struct {
	archiver         EventArchiver
	publisher        domain.OutcomePublisher // nil disables publication
	archiveRoot      string
	eventDelay       time.Duration
	progressInterval int
	clock            clockwork.Clock
	logger           *slog.Logger
	metrics          *observability.Metrics
	ready            atomic.Bool
}

// NewRunner creates a Runner. Pass a nil publisher to disable per-event
// record publication.
func NewRunner(archiver EventArchiver, publisher domain.OutcomePublisher, archiveRoot string, eventDelay time.Duration, progressInterval int, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		archiver:         archiver,
		publisher:        publisher,
		archiveRoot:      archiveRoot,
		eventDelay:       eventDelay,
		progressInterval: progressInterval,
		clock:            clock,
		logger:           logger,
		metrics:          metrics,
	}
}

// CheckReadiness returns nil once the runner has finished at least one event.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no events processed yet")
	}
	return nil
}

// Run processes the events in order and writes the run summary. Cancellation
// is checked at event boundaries: the in-flight event is allowed to stop via
// its own context checks, no further events start, and no summary file is
// written for an interrupted run (completed event directories remain valid
// and resumable). Individual event failures are counted, never fatal.
func (r *Runner) Run(ctx context.Context, events []domain.Event) (domain.RunSummary, error) {
	summary := domain.RunSummary{
		RunID:       uuid.NewString(),
		StartedAt:   r.clock.Now(),
		TotalEvents: len(events),
		ArchiveRoot: r.archiveRoot,
	}

	r.logger.Info("batch run started",
		"run_id", summary.RunID,
		"events", len(events),
		"archive_root", r.archiveRoot,
	)
	r.metrics.RunRunning.Set(1)
	defer r.metrics.RunRunning.Set(0)

	for i, event := range events {
		if ctx.Err() != nil {
			r.logger.Info("run cancelled, stopping before next event", "processed", i)
			summary.EndedAt = r.clock.Now()
			return summary, ctx.Err()
		}

		record, err := r.archiver.Archive(ctx, event)
		switch {
		case err != nil:
			summary.Failed++
			r.metrics.EventsProcessed.WithLabelValues("failed").Inc()
			r.logger.Error("event processing failed",
				"event", event.Title, "index", i+1, "error", err)
		case record.Status == domain.StatusSkipped:
			summary.Successful++
			summary.Skipped++
		default:
			summary.Successful++
			r.metrics.EventsProcessed.WithLabelValues(string(record.Status)).Inc()
			r.publish(ctx, record)
		}
		r.ready.Store(true)

		if r.progressInterval > 0 && (i+1)%r.progressInterval == 0 {
			r.checkpoint(i+1, len(events), summary)
		}

		if i < len(events)-1 {
			if !sleepWithContext(ctx, r.clock, r.eventDelay) {
				summary.EndedAt = r.clock.Now()
				return summary, ctx.Err()
			}
		}
	}

	summary.EndedAt = r.clock.Now()
	elapsed := summary.EndedAt.Sub(summary.StartedAt)
	if summary.TotalEvents > 0 {
		summary.SuccessRate = float64(summary.Successful) / float64(summary.TotalEvents) * 100
		summary.SecondsPerEvent = elapsed.Seconds() / float64(summary.TotalEvents)
	}

	if err := r.writeSummary(summary); err != nil {
		return summary, err
	}

	r.logger.Info("batch run complete",
		"run_id", summary.RunID,
		"total", summary.TotalEvents,
		"successful", summary.Successful,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"elapsed", elapsed.String(),
	)
	return summary, nil
}

// publish hands the record to the optional publisher. Publish failures are
// observational only and never affect the run.
func (r *Runner) publish(ctx context.Context, record domain.EventRecord) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, record); err != nil {
		r.logger.Warn("event record publish failed",
			"event", record.Event.Title, "error", err)
	}
}

// checkpoint emits a progress log line with the events-per-hour rate.
// Observational only; nothing is persisted.
func (r *Runner) checkpoint(done, total int, summary domain.RunSummary) {
	elapsed := r.clock.Since(summary.StartedAt)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(done) / elapsed.Hours()
	}
	r.logger.Info("progress checkpoint",
		"processed", done,
		"total", total,
		"successful", summary.Successful,
		"failed", summary.Failed,
		"events_per_hour", fmt.Sprintf("%.1f", rate),
	)
}

func (r *Runner) writeSummary(summary domain.RunSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}
	path := filepath.Join(r.archiveRoot, summaryFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write run summary: %w", err)
	}
	return nil
}
