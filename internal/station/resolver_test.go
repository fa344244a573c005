package station_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tejaji-0/earthquake-detector/internal/domain"
	"github.com/Tejaji-0/earthquake-detector/internal/observability"
	"github.com/Tejaji-0/earthquake-detector/internal/station"
)

// --- mock catalog ---

type mockCatalog struct {
	id       string
	stations []domain.Station
	err      error
	calls    int
}

func (m *mockCatalog) SourceID() string { return m.id }

func (m *mockCatalog) Stations(_ context.Context, _ domain.GeoPoint, _ float64) ([]domain.Station, error) {
	m.calls++
	return m.stations, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// center is near Pasadena, CA for the tests below.
var center = domain.GeoPoint{Lat: 34.0522, Lon: -118.2437}

func sta(network, code string, lat, lon float64, source string) domain.Station {
	return domain.Station{
		Network:  network,
		Code:     code,
		Location: domain.GeoPoint{Lat: lat, Lon: lon},
		SourceID: source,
	}
}

// --- tests ---

func TestResolver_RadiusFilterIsMandatory(t *testing.T) {
	// The catalog misbehaves and returns a station far outside the radius;
	// the resolver must still enforce the filter.
	cat := &mockCatalog{id: "test", stations: []domain.Station{
		sta("CI", "PAS", 34.1484, -118.1717, "test"),  // ~26 km
		sta("IU", "MAJO", 36.5457, 138.2041, "test"),  // Japan, ~8800 km
		sta("IU", "KONO", 59.6491, 9.5982, "test"),    // Norway
	}}

	r := station.NewResolver([]domain.StationCatalog{cat}, nil, discardLogger(), observability.NewMetricsForTesting())
	got := r.Resolve(context.Background(), center, 500, 10)

	require.Len(t, got, 1)
	assert.Equal(t, "CI.PAS", got[0].Key())
	for _, s := range got {
		assert.LessOrEqual(t, s.DistanceKm, 500.0)
	}
}

func TestResolver_SortedByDistanceThenKey(t *testing.T) {
	cat := &mockCatalog{id: "test", stations: []domain.Station{
		sta("BK", "BRK", 37.8735, -122.2609, "test"),
		sta("CI", "PAS", 34.1484, -118.1717, "test"),
		sta("US", "WMOK", 34.7367, -98.7707, "test"),
	}}

	r := station.NewResolver([]domain.StationCatalog{cat}, nil, discardLogger(), observability.NewMetricsForTesting())
	got := r.Resolve(context.Background(), center, 10000, 10)

	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].DistanceKm, got[i-1].DistanceKm, "result must be sorted ascending")
	}
	assert.Equal(t, "CI.PAS", got[0].Key())
}

func TestResolver_DeduplicatesAcrossSources(t *testing.T) {
	// Same identity reported by two sources with slightly different
	// coordinates: the nearer occurrence wins.
	near := sta("CI", "PAS", 34.1484, -118.1717, "secondary")
	far := sta("CI", "PAS", 34.5, -118.0, "primary")

	a := &mockCatalog{id: "primary", stations: []domain.Station{far}}
	b := &mockCatalog{id: "secondary", stations: []domain.Station{near}}

	r := station.NewResolver([]domain.StationCatalog{a, b}, nil, discardLogger(), observability.NewMetricsForTesting())
	got := r.Resolve(context.Background(), center, 1000, 10)

	require.Len(t, got, 1)
	assert.Equal(t, "secondary", got[0].SourceID)
	assert.Equal(t, domain.DistanceKm(center, near.Location), got[0].DistanceKm)
}

func TestResolver_ExactDuplicateTieKeepsFirstSeen(t *testing.T) {
	same := sta("CI", "PAS", 34.1484, -118.1717, "")
	first, second := same, same
	first.SourceID = "first"
	second.SourceID = "second"

	a := &mockCatalog{id: "first", stations: []domain.Station{first}}
	b := &mockCatalog{id: "second", stations: []domain.Station{second}}

	r := station.NewResolver([]domain.StationCatalog{a, b}, nil, discardLogger(), observability.NewMetricsForTesting())
	got := r.Resolve(context.Background(), center, 1000, 10)

	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].SourceID)
}

func TestResolver_TruncatesToMaxResults(t *testing.T) {
	cat := &mockCatalog{id: "test", stations: []domain.Station{
		sta("CI", "PAS", 34.1484, -118.1717, "test"),
		sta("BK", "BRK", 37.8735, -122.2609, "test"),
		sta("US", "WMOK", 34.7367, -98.7707, "test"),
	}}

	r := station.NewResolver([]domain.StationCatalog{cat}, nil, discardLogger(), observability.NewMetricsForTesting())
	got := r.Resolve(context.Background(), center, 10000, 2)

	require.Len(t, got, 2)
	assert.Equal(t, "CI.PAS", got[0].Key())
}

func TestResolver_SourceFailureIsNotFatal(t *testing.T) {
	broken := &mockCatalog{id: "broken", err: errors.New("connection refused")}
	working := &mockCatalog{id: "working", stations: []domain.Station{
		sta("CI", "PAS", 34.1484, -118.1717, "working"),
	}}

	r := station.NewResolver([]domain.StationCatalog{broken, working}, nil, discardLogger(), observability.NewMetricsForTesting())
	got := r.Resolve(context.Background(), center, 1000, 10)

	require.Len(t, got, 1)
	assert.Equal(t, "CI.PAS", got[0].Key())
}

func TestResolver_FallbackWhenAllSourcesFail(t *testing.T) {
	broken := &mockCatalog{id: "broken", err: errors.New("unreachable")}

	r := station.NewResolver([]domain.StationCatalog{broken}, station.NewBuiltinCatalog(), discardLogger(), observability.NewMetricsForTesting())
	got := r.Resolve(context.Background(), center, 500, 5)

	// Pasadena and Berkeley are in the builtin list; Berkeley is outside 500 km.
	require.NotEmpty(t, got)
	assert.Equal(t, "CI.PAS", got[0].Key())
	assert.Equal(t, station.BuiltinSourceID, got[0].SourceID)
}

func TestResolver_FallbackNotUsedWhenSourcesYield(t *testing.T) {
	working := &mockCatalog{id: "working", stations: []domain.Station{
		sta("XX", "TEST", 34.0, -118.0, "working"),
	}}
	fallback := &mockCatalog{id: "fallback", stations: []domain.Station{
		sta("YY", "FALL", 34.0, -118.1, "fallback"),
	}}

	r := station.NewResolver([]domain.StationCatalog{working}, fallback, discardLogger(), observability.NewMetricsForTesting())
	got := r.Resolve(context.Background(), center, 1000, 10)

	require.Len(t, got, 1)
	assert.Equal(t, "XX.TEST", got[0].Key())
	assert.Zero(t, fallback.calls)
}

func TestResolver_EmptyResultIsValid(t *testing.T) {
	// Mid-Pacific center with a tiny radius: nothing in range anywhere,
	// including the fallback. Valid non-error outcome.
	empty := &mockCatalog{id: "empty"}

	r := station.NewResolver([]domain.StationCatalog{empty}, station.NewBuiltinCatalog(), discardLogger(), observability.NewMetricsForTesting())
	got := r.Resolve(context.Background(), domain.GeoPoint{Lat: -40, Lon: -140}, 100, 5)

	assert.Empty(t, got)
}
