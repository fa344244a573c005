// Package catalog loads the earthquake event catalog from its CSV export.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Tejaji-0/earthquake-detector/internal/domain"
)

// primaryTimeLayout is the catalog's native date format (day-month-year).
const primaryTimeLayout = "02-01-2006 15:04"

// fallbackTimeLayouts are tried in order when the primary format fails.
var fallbackTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// requiredColumns must all be present in the CSV header.
var requiredColumns = []string{"title", "magnitude", "date_time", "latitude", "longitude", "location"}

// Load reads events from the catalog CSV at path. Rows with missing or
// unparseable coordinates are dropped; rows whose date cannot be parsed are
// skipped with a diagnostic. A missing file, unreadable CSV, or absent
// required column is a fatal configuration error.
func Load(path string, logger *slog.Logger) ([]domain.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	events, err := Parse(f, logger)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return events, nil
}

// Parse reads catalog events from CSV content.
func Parse(r io.Reader, logger *slog.Logger) ([]domain.Event, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged optional columns

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("catalog is missing required column %q", name)
		}
	}

	var events []domain.Event
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		event, ok := parseRow(row, col, line, logger)
		if ok {
			events = append(events, event)
		}
	}
	return events, nil
}

// parseRow converts one CSV row into an Event, reporting whether the row is
// usable. Skips, never fails: bad rows are a data-quality issue, not a run
// failure.
func parseRow(row []string, col map[string]int, line int, logger *slog.Logger) (domain.Event, bool) {
	lat, latOK := parseFloatField(row, col, "latitude")
	lon, lonOK := parseFloatField(row, col, "longitude")
	if !latOK || !lonOK {
		logger.Debug("dropping catalog row with missing coordinates", "line", line)
		return domain.Event{}, false
	}

	dateStr := field(row, col, "date_time")
	occurredAt, err := parseEventTime(dateStr)
	if err != nil {
		logger.Warn("skipping catalog row with unparseable date",
			"line", line, "date_time", dateStr)
		return domain.Event{}, false
	}

	magnitude, _ := parseFloatField(row, col, "magnitude")
	event := domain.Event{
		Title:      field(row, col, "title"),
		Magnitude:  magnitude,
		OccurredAt: occurredAt,
		Location:   domain.GeoPoint{Lat: lat, Lon: lon},
		PlaceName:  field(row, col, "location"),
	}
	if depth, ok := parseFloatField(row, col, "depth"); ok {
		event.Depth = depth
	}
	if sig := field(row, col, "sig"); sig != "" {
		if v, err := strconv.Atoi(sig); err == nil {
			event.Sig = v
		}
	}
	return event, true
}

// parseEventTime tries the primary day-month-year format first, then the
// general fallbacks. All times are treated as UTC.
func parseEventTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.ParseInLocation(primaryTimeLayout, s, time.UTC); err == nil {
		return t, nil
	}
	for _, layout := range fallbackTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseFloatField(row []string, col map[string]int, name string) (float64, bool) {
	s := field(row, col, name)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
