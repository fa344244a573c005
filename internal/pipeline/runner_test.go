package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tejaji-0/earthquake-detector/internal/domain"
	"github.com/Tejaji-0/earthquake-detector/internal/observability"
)

// scriptedArchiver returns a scripted record or error per event title.
type scriptedArchiver struct {
	records map[string]domain.EventRecord
	errs    map[string]error
	calls   []string
}

func (s *scriptedArchiver) Archive(_ context.Context, event domain.Event) (domain.EventRecord, error) {
	s.calls = append(s.calls, event.Title)
	if err, ok := s.errs[event.Title]; ok {
		return domain.EventRecord{}, err
	}
	if record, ok := s.records[event.Title]; ok {
		return record, nil
	}
	return domain.EventRecord{Event: event, Status: domain.StatusCompleted}, nil
}

// capturingPublisher records every published record.
type capturingPublisher struct {
	records []domain.EventRecord
	err     error
}

func (p *capturingPublisher) Publish(_ context.Context, record domain.EventRecord) error {
	p.records = append(p.records, record)
	return p.err
}

func eventNamed(title string) domain.Event {
	return domain.Event{
		Title:      title,
		Magnitude:  6.5,
		OccurredAt: time.Date(2023, time.February, 6, 1, 17, 35, 0, time.UTC),
	}
}

func newTestRunner(t *testing.T, archiver EventArchiver, publisher domain.OutcomePublisher) (*Runner, string) {
	t.Helper()
	root := t.TempDir()
	r := NewRunner(archiver, publisher, root, 0, 10, clockwork.NewFakeClock(), discardLogger(), observability.NewMetricsForTesting())
	return r, root
}

func readSummaryFile(t *testing.T, root string) domain.RunSummary {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, summaryFileName))
	require.NoError(t, err)
	var summary domain.RunSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	return summary
}

func TestRun_ProcessesAllEventsInOrder(t *testing.T) {
	archiver := &scriptedArchiver{
		records: map[string]domain.EventRecord{
			"event-b": {Event: eventNamed("event-b"), Status: domain.StatusNoStations},
		},
	}
	events := []domain.Event{eventNamed("event-a"), eventNamed("event-b"), eventNamed("event-c")}

	runner, root := newTestRunner(t, archiver, nil)
	summary, err := runner.Run(context.Background(), events)
	require.NoError(t, err)

	assert.Equal(t, []string{"event-a", "event-b", "event-c"}, archiver.calls)
	assert.Equal(t, 3, summary.TotalEvents)
	assert.Equal(t, 3, summary.Successful)
	assert.Zero(t, summary.Failed)
	assert.InDelta(t, 100.0, summary.SuccessRate, 1e-9)
	assert.NotEmpty(t, summary.RunID)

	persisted := readSummaryFile(t, root)
	assert.Equal(t, summary.RunID, persisted.RunID)
	assert.Equal(t, 3, persisted.Successful)
	assert.Equal(t, root, persisted.ArchiveRoot)
}

func TestRun_EventFailureIsCountedNotFatal(t *testing.T) {
	archiver := &scriptedArchiver{
		errs: map[string]error{"event-b": errors.New("disk full")},
	}
	events := []domain.Event{eventNamed("event-a"), eventNamed("event-b"), eventNamed("event-c")}

	runner, _ := newTestRunner(t, archiver, nil)
	summary, err := runner.Run(context.Background(), events)
	require.NoError(t, err)

	assert.Len(t, archiver.calls, 3, "run continues past the failing event")
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.InDelta(t, 100.0*2/3, summary.SuccessRate, 1e-9)
}

func TestRun_SkippedEventsCountedSeparately(t *testing.T) {
	archiver := &scriptedArchiver{
		records: map[string]domain.EventRecord{
			"event-a": {Event: eventNamed("event-a"), Status: domain.StatusSkipped},
		},
	}
	publisher := &capturingPublisher{}
	events := []domain.Event{eventNamed("event-a"), eventNamed("event-b")}

	runner, _ := newTestRunner(t, archiver, publisher)
	summary, err := runner.Run(context.Background(), events)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Successful, "skipped counts as successful")
	assert.Equal(t, 1, summary.Skipped)

	// Skipped events are not republished.
	require.Len(t, publisher.records, 1)
	assert.Equal(t, "event-b", publisher.records[0].Event.Title)
}

func TestRun_PublishFailureDoesNotAffectRun(t *testing.T) {
	archiver := &scriptedArchiver{}
	publisher := &capturingPublisher{err: errors.New("broker unreachable")}

	runner, _ := newTestRunner(t, archiver, publisher)
	summary, err := runner.Run(context.Background(), []domain.Event{eventNamed("event-a")})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Successful)
	assert.Zero(t, summary.Failed)
}

func TestRun_CancellationStopsWithoutSummaryFile(t *testing.T) {
	archiver := &scriptedArchiver{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner, root := newTestRunner(t, archiver, nil)
	summary, err := runner.Run(ctx, []domain.Event{eventNamed("event-a"), eventNamed("event-b")})

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, archiver.calls, "no events start after cancellation")
	assert.False(t, summary.EndedAt.IsZero())

	_, statErr := os.Stat(filepath.Join(root, summaryFileName))
	assert.True(t, os.IsNotExist(statErr), "interrupted runs leave no summary file")
}

func TestRun_EmptyEventListWritesSummary(t *testing.T) {
	runner, root := newTestRunner(t, &scriptedArchiver{}, nil)
	summary, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Zero(t, summary.TotalEvents)
	assert.Zero(t, summary.SuccessRate)

	persisted := readSummaryFile(t, root)
	assert.Zero(t, persisted.TotalEvents)
}

// locationGatedResolver yields stations only for events away from the null
// island marker, so one synthetic event resolves to nothing.
type locationGatedResolver struct{}

func (locationGatedResolver) Resolve(_ context.Context, center domain.GeoPoint, _ float64, _ int) []domain.RankedStation {
	if center.Lat == 0 && center.Lon == 0 {
		return nil
	}
	return []domain.RankedStation{rankedStation("IU", "ANMO", 120)}
}

func TestRun_EndToEndWithArchiver(t *testing.T) {
	root := t.TempDir()
	clock := clockwork.NewFakeClock()
	metrics := observability.NewMetricsForTesting()

	archiver := NewArchiver(locationGatedResolver{}, &fakeRetriever{}, ArchiverOptions{
		ArchiveRoot: root,
		MaxRadiusKm: 4000,
		MaxStations: 3,
		WindowSpan:  720 * time.Hour,
		GuardBuffer: 2 * time.Hour,
	}, clock, discardLogger(), metrics)
	runner := NewRunner(archiver, nil, root, 0, 10, clock, discardLogger(), metrics)

	resolvableA := eventNamed("event-a")
	resolvableA.Location = domain.GeoPoint{Lat: 34.05, Lon: -118.24}
	resolvableB := eventNamed("event-b")
	resolvableB.Location = domain.GeoPoint{Lat: 37.22, Lon: 37.01}
	unresolvable := eventNamed("event-c") // zero-value location, no stations

	summary, err := runner.Run(context.Background(), []domain.Event{resolvableA, resolvableB, unresolvable})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalEvents)
	assert.Equal(t, 3, summary.Successful, "no-station events still produce a record")
	assert.Zero(t, summary.Failed)

	// All three event directories exist; exactly one carries the
	// no-stations status.
	noStations := 0
	for _, e := range []domain.Event{resolvableA, resolvableB, unresolvable} {
		record := readMetadata(t, filepath.Join(root, domain.EventDirName(e)))
		if record.Status == domain.StatusNoStations {
			noStations++
		} else {
			assert.Equal(t, domain.StatusCompleted, record.Status)
		}
	}
	assert.Equal(t, 1, noStations)
}

func TestCheckReadiness(t *testing.T) {
	runner, _ := newTestRunner(t, &scriptedArchiver{}, nil)

	assert.Error(t, runner.CheckReadiness(context.Background()), "not ready before any event")

	_, err := runner.Run(context.Background(), []domain.Event{eventNamed("event-a")})
	require.NoError(t, err)

	assert.NoError(t, runner.CheckReadiness(context.Background()))
}
