package domain

import (
	"fmt"
	"time"
)

// ArchiveWindows holds the before/after background windows for one event.
type ArchiveWindows struct {
	Before TimeWindow `json:"before"`
	After  TimeWindow `json:"after"`
}

// NewArchiveWindows derives the before/after windows around occurredAt.
// span is the window length on each side (default 30 days); buffer is the
// guard interval excluded on both sides of the event (default 2 hours).
// Returns an error unless before.start < before.end < occurredAt <
// after.start < after.end, which requires 0 < buffer < span.
func NewArchiveWindows(occurredAt time.Time, span, buffer time.Duration) (ArchiveWindows, error) {
	if buffer <= 0 || span <= buffer {
		return ArchiveWindows{}, fmt.Errorf("invalid windows: span %v must exceed buffer %v (both positive)", span, buffer)
	}
	return ArchiveWindows{
		Before: TimeWindow{Start: occurredAt.Add(-span), End: occurredAt.Add(-buffer)},
		After:  TimeWindow{Start: occurredAt.Add(buffer), End: occurredAt.Add(span)},
	}, nil
}
