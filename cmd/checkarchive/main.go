// Command checkarchive verifies the integrity of a seismic waveform archive:
// every event directory has a parseable metadata.json, window invariants
// hold, every retrieval recorded as successful has its waveform file on
// disk, and the run summary is consistent. Leftover ".partial" staging
// directories are reported; they are redone automatically on the next run.
//
// Usage:
//
//	go run ./cmd/checkarchive -root seismic_station_data
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tejaji-0/earthquake-detector/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	root := flag.String("root", "seismic_station_data", "archive root directory")
	flag.Parse()

	if code := run(*root); code != 0 {
		os.Exit(code)
	}
}

func run(root string) int {
	entries, err := os.ReadDir(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read archive root: %v\n", err)
		return 1
	}

	var eventDirs, partialDirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".partial") {
			partialDirs = append(partialDirs, e.Name())
			continue
		}
		eventDirs = append(eventDirs, e.Name())
	}

	fmt.Println("=== Seismic Archive Integrity Check ===")
	fmt.Printf("root: %s | event dirs: %d | partial dirs: %d\n\n", root, len(eventDirs), len(partialDirs))

	for _, d := range partialDirs {
		fmt.Printf("NOTE: incomplete staging dir %s (will be redone on next run)\n", d)
	}

	records := make(map[string]domain.EventRecord, len(eventDirs))
	phases := []*phase{
		loadMetadata(root, eventDirs, records),
		checkWindows(records),
		checkWaveformFiles(root, records),
		checkSummary(root, len(eventDirs)),
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			allPassed = false
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("       - %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Println("\nall checks passed")
	return 0
}

func loadMetadata(root string, dirs []string, records map[string]domain.EventRecord) *phase {
	p := &phase{name: "metadata.json present and parseable"}
	for _, dir := range dirs {
		path := filepath.Join(root, dir, "metadata.json")
		data, err := os.ReadFile(path)
		if err != nil {
			p.errorf("%s: %v", dir, err)
			continue
		}
		var rec domain.EventRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			p.errorf("%s: parse metadata: %v", dir, err)
			continue
		}
		if rec.Status != domain.StatusCompleted && rec.Status != domain.StatusNoStations && rec.Status != domain.StatusPartialFailure {
			p.errorf("%s: unexpected persisted status %q", dir, rec.Status)
			continue
		}
		records[dir] = rec
	}
	return p
}

func checkWindows(records map[string]domain.EventRecord) *phase {
	p := &phase{name: "window invariants (before < event < after)"}
	for dir, rec := range records {
		w := rec.Windows
		at := rec.Event.OccurredAt
		ok := w.Before.Start.Before(w.Before.End) &&
			w.Before.End.Before(at) &&
			at.Before(w.After.Start) &&
			w.After.Start.Before(w.After.End)
		if !ok {
			p.errorf("%s: windows violate ordering around %s", dir, at)
		}
	}
	return p
}

func checkWaveformFiles(root string, records map[string]domain.EventRecord) *phase {
	p := &phase{name: "recorded retrievals have waveform files on disk"}
	for dir, rec := range records {
		retrieved := 0
		for _, st := range rec.Stations {
			if st.Before.Retrieved() {
				retrieved++
				requireFile(p, root, dir, "before_event", st.Station, "before")
			}
			if st.After.Retrieved() {
				retrieved++
				requireFile(p, root, dir, "after_event", st.Station, "after")
			}
		}
		if retrieved != rec.Retrieved {
			p.errorf("%s: metadata counts %d retrievals, station outcomes show %d", dir, rec.Retrieved, retrieved)
		}
	}
	return p
}

func requireFile(p *phase, root, dir, subdir string, st domain.Station, side string) {
	name := fmt.Sprintf("%s_%s_%s.mseed", st.Network, st.Code, side)
	path := filepath.Join(root, dir, subdir, name)
	info, err := os.Stat(path)
	if err != nil {
		p.errorf("%s: missing waveform file %s/%s", dir, subdir, name)
		return
	}
	if info.Size() == 0 {
		p.errorf("%s: empty waveform file %s/%s", dir, subdir, name)
	}
}

func checkSummary(root string, eventDirCount int) *phase {
	p := &phase{name: "run summary parseable and consistent"}
	data, err := os.ReadFile(filepath.Join(root, "processing_summary.json"))
	if err != nil {
		// A summary only exists after a run finished uninterrupted.
		p.errorf("read summary: %v", err)
		return p
	}
	var s domain.RunSummary
	if err := json.Unmarshal(data, &s); err != nil {
		p.errorf("parse summary: %v", err)
		return p
	}
	if s.Successful+s.Failed != s.TotalEvents {
		p.errorf("summary counts inconsistent: %d successful + %d failed != %d total", s.Successful, s.Failed, s.TotalEvents)
	}
	if s.EndedAt.Before(s.StartedAt) {
		p.errorf("summary ended_at precedes started_at")
	}
	if s.Successful > 0 && eventDirCount == 0 {
		p.errorf("summary reports %d successful events but archive has no event directories", s.Successful)
	}
	return p
}
