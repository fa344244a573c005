package domain

import "context"

// Waveform is a raw time-bounded seismic payload from one source. The data is
// opaque miniSEED; only record count and size are derived from it.
type Waveform struct {
	Data        []byte
	RecordCount int
	SourceID    string // data centre that served it
	Channel     string // channel pattern that matched
}

// Empty reports whether the waveform carries no usable data.
func (w Waveform) Empty() bool {
	return len(w.Data) == 0
}

// StationCatalog lists candidate recording stations near a point. A catalog
// that is unreachable or has nothing in range returns an error or an empty
// slice; both are non-fatal to resolution.
type StationCatalog interface {
	// SourceID identifies the catalog in logs and station records.
	SourceID() string

	// Stations returns candidates within maxRadiusKm of center.
	Stations(ctx context.Context, center GeoPoint, maxRadiusKm float64) ([]Station, error)
}

// WaveformSource fetches a time-bounded waveform for one station and channel
// pattern. Returns ErrNoData when the source has nothing for the request;
// any other error is transient and triggers fallback.
type WaveformSource interface {
	SourceID() string
	Fetch(ctx context.Context, network, station, channelPattern string, window TimeWindow) (Waveform, error)
}

// OutcomePublisher receives the terminal record of each archived event.
// Optional: a nil publisher disables publication.
type OutcomePublisher interface {
	Publish(ctx context.Context, record EventRecord) error
}
