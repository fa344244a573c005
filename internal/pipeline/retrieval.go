// Package pipeline orchestrates the batch archive run: waveform retrieval
// with fallback ordering, per-event archiving, and the sequential event loop.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Tejaji-0/earthquake-detector/internal/domain"
	"github.com/Tejaji-0/earthquake-detector/internal/observability"
)

// Retriever executes the multi-source, multi-channel waveform retrieval
// protocol for one (station, window) at a time. Attempts run strictly in
// sequence; remote services rate-limit aggressive concurrent access.
type Retriever struct {
	sources      []domain.WaveformSource
	channels     []string
	attemptDelay time.Duration
	clock        clockwork.Clock
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// NewRetriever creates a Retriever. Sources are tried in the given priority
// order; within each source, channels are tried broadest first. attemptDelay
// is slept between consecutive attempts to pace remote services.
func NewRetriever(sources []domain.WaveformSource, channels []string, attemptDelay time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Retriever {
	return &Retriever{
		sources:      sources,
		channels:     channels,
		attemptDelay: attemptDelay,
		clock:        clock,
		logger:       logger,
		metrics:      metrics,
	}
}

// Retrieve walks the (source, channel) fallback order until one attempt
// returns a non-empty waveform. First success wins; no further attempts are
// made. NotFound responses continue silently, transient errors are logged
// and absorbed. An exhausted order yields OutcomeEmpty (or OutcomeTransient
// when at least one source failed) — a normal terminal outcome, not an error.
func (r *Retriever) Retrieve(ctx context.Context, network, station string, window domain.TimeWindow) (domain.Waveform, domain.RetrievalAttempt) {
	sawTransient := false
	lastErr := ""

	for _, src := range r.sources {
		for _, channel := range r.channels {
			if ctx.Err() != nil {
				return domain.Waveform{}, domain.RetrievalAttempt{Outcome: domain.OutcomeSkipped, Error: ctx.Err().Error()}
			}

			wf, err := src.Fetch(ctx, network, station, channel, window)
			switch {
			case err == nil && !wf.Empty():
				r.metrics.FetchAttempts.WithLabelValues(src.SourceID(), "success").Inc()
				return wf, domain.RetrievalAttempt{
					Outcome:        domain.OutcomeSuccess,
					SourceID:       wf.SourceID,
					ChannelPattern: wf.Channel,
					RecordCount:    wf.RecordCount,
					ByteSize:       int64(len(wf.Data)),
				}
			case err == nil || errors.Is(err, domain.ErrNoData):
				// Absence of data is expected and common. Not an error.
				r.metrics.FetchAttempts.WithLabelValues(src.SourceID(), "no_data").Inc()
			default:
				r.metrics.FetchAttempts.WithLabelValues(src.SourceID(), "error").Inc()
				r.logger.Warn("waveform fetch failed, trying next option",
					"source", src.SourceID(),
					"station", network+"."+station,
					"channel", channel,
					"error", err,
				)
				sawTransient = true
				lastErr = err.Error()
			}

			if !sleepWithContext(ctx, r.clock, r.attemptDelay) {
				return domain.Waveform{}, domain.RetrievalAttempt{Outcome: domain.OutcomeSkipped, Error: ctx.Err().Error()}
			}
		}
	}

	if sawTransient {
		return domain.Waveform{}, domain.RetrievalAttempt{Outcome: domain.OutcomeTransient, Error: lastErr}
	}
	return domain.Waveform{}, domain.RetrievalAttempt{Outcome: domain.OutcomeEmpty}
}

// sleepWithContext sleeps d on the given clock, returning false if the
// context was cancelled first. Zero and negative durations return
// immediately.
func sleepWithContext(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
