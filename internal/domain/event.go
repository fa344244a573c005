package domain

import (
	"errors"
	"time"
)

// Event is one catalog earthquake. Read-only input, sourced from the CSV
// catalog; events are never mutated once parsed.
type Event struct {
	Title      string    `json:"title"`
	Magnitude  float64   `json:"magnitude"`
	OccurredAt time.Time `json:"datetime"`
	Location   GeoPoint  `json:"geo"`
	PlaceName  string    `json:"location"`
	Depth      float64   `json:"depth,omitempty"`
	Sig        int       `json:"significance,omitempty"`
}

// TimeWindow is a half-open-ended data request interval with Start < End.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the window length.
func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// AttemptOutcome classifies the result of one window retrieval.
type AttemptOutcome string

const (
	OutcomeSuccess   AttemptOutcome = "success"
	OutcomeEmpty     AttemptOutcome = "empty"     // exhausted the fallback order with no data anywhere
	OutcomeTransient AttemptOutcome = "transient" // at least one source failed; no data obtained
	OutcomeSkipped   AttemptOutcome = "skipped"   // never attempted (e.g. persist failure earlier)
)

// RetrievalAttempt summarizes the final result of the fallback retrieval for
// one (station, window). SourceID and ChannelPattern identify the winning
// pair on success and are empty otherwise.
type RetrievalAttempt struct {
	Outcome        AttemptOutcome `json:"outcome"`
	SourceID       string         `json:"source,omitempty"`
	ChannelPattern string         `json:"channel,omitempty"`
	RecordCount    int            `json:"record_count,omitempty"`
	ByteSize       int64          `json:"byte_size,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// Retrieved reports whether waveform data was obtained and persisted.
func (a RetrievalAttempt) Retrieved() bool {
	return a.Outcome == OutcomeSuccess
}

// StationOutcome records what was fetched for one ranked station.
type StationOutcome struct {
	Station    Station          `json:"station"`
	DistanceKm float64          `json:"distance_km"`
	Before     RetrievalAttempt `json:"before"`
	After      RetrievalAttempt `json:"after"`
}

// EventStatus is the terminal state of an archived event.
type EventStatus string

const (
	StatusCompleted       EventStatus = "completed"
	StatusNoStations      EventStatus = "no_stations_found"
	StatusPartialFailure  EventStatus = "partial_failure"
	// StatusSkipped marks an event whose archive directory already existed.
	// It is returned in memory only and never written to metadata.json.
	StatusSkipped EventStatus = "skipped"
)

// EventRecord is the metadata.json document written once per event directory.
// Terminal: never mutated after the directory is renamed into place.
type EventRecord struct {
	Event       Event            `json:"event_info"`
	Windows     ArchiveWindows   `json:"data_periods"`
	Stations    []StationOutcome `json:"stations"`
	ProcessedAt time.Time        `json:"processing_time"`
	Status      EventStatus      `json:"status"`
	Retrieved   int              `json:"successful_retrievals"`
	Possible    int              `json:"total_possible"`
}

// RunSummary is the processing_summary.json document written once per batch
// run, overwriting the previous run's summary.
type RunSummary struct {
	RunID           string    `json:"run_id"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	TotalEvents     int       `json:"total_events"`
	Successful      int       `json:"successful"`
	Failed          int       `json:"failed"`
	Skipped         int       `json:"skipped"`
	SuccessRate     float64   `json:"success_rate"`
	SecondsPerEvent float64   `json:"average_time_per_event"`
	ArchiveRoot     string    `json:"data_directory"`
}

// ErrNoData is the NotFound case of the waveform protocol: the source has no
// data for the requested parameters. Expected and common; callers fall back
// to the next (source, channel) pair without logging it as an error.
var ErrNoData = errors.New("no data available for request")
