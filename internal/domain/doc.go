// Package domain models earthquake catalog events, seismic stations, and the
// waveform archive produced for each event.
//
// # Data Sources
//
// Catalog events come from a CSV export of significant earthquakes (title,
// magnitude, date_time, latitude, longitude, location). Waveforms and station
// metadata come from FDSN web services (fdsnws-station and fdsnws-dataselect),
// a standard family of HTTP query protocols exposed by seismological data
// centres such as IRIS and USGS.
//
// # Archive Windows
//
// Each event is archived with two background windows of raw waveform data:
//
//	before: [occurred_at - 30d, occurred_at - buffer]
//	after:  [occurred_at + buffer, occurred_at + 30d]
//
// The buffer (default 2h) excludes data immediately adjacent to the event so
// that the strong-motion signal of the event itself does not contaminate the
// "background" windows. Invariant:
//
//	before.start < before.end < occurred_at < after.start < after.end
//
// # Channel Patterns
//
// FDSN channel codes identify instrument band, gain, and orientation. Fetches
// fall back from broad wildcarded groups to explicit vertical components:
//
//	BH*  broadband high-gain, any orientation
//	HH*  high broadband, any orientation
//	LH*  long-period, any orientation
//	BHZ  broadband high-gain, vertical only
//	HHZ  high broadband, vertical only
//
// # Archive Layout
//
// One directory per event under the archive root:
//
//	{root}/{YYYYMMDD_HHMM}_M{magnitude}_{sanitized-title}/
//	  before_event/{NET}_{STA}_before.mseed
//	  after_event/{NET}_{STA}_after.mseed
//	  metadata.json
//
// A directory that exists under its final name is a completed event and is
// skipped on later runs; this directory-existence check is the resume
// mechanism for multi-hour batch jobs. In-progress work happens under a
// ".partial" suffix that is renamed into place only after metadata.json is
// written, so a crash never leaves a final-named half-archive behind.
//
// # Station Identity
//
// Stations are identified by (network code, station code), e.g. "IU.ANMO".
// The same station reported by multiple data centres is one station; the
// occurrence with the smallest epicentral distance wins during deduplication.
package domain
