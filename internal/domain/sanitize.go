package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// maxTitleLen bounds the sanitized title portion of an event directory name.
const maxTitleLen = 60

// SafeDirName reduces a free-form event title to a filesystem-safe token:
// characters outside {alphanumeric, space, hyphen, underscore} are dropped,
// runs of spaces collapse to single underscores, and the result is truncated.
func SafeDirName(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}

	safe := strings.TrimRight(b.String(), " ")
	safe = strings.Join(strings.Fields(safe), "_")
	if len(safe) > maxTitleLen {
		safe = safe[:maxTitleLen]
	}
	return safe
}

// EventDirName derives the deterministic archive directory name for an event:
// "{YYYYMMDD_HHMM}_M{magnitude}_{safe-title}". Collisions between distinct
// events are tolerated; the directory-existence resume rule makes them
// first-writer-wins.
func EventDirName(e Event) string {
	mag := strconv.FormatFloat(e.Magnitude, 'f', -1, 64)
	return fmt.Sprintf("%s_M%s_%s", e.OccurredAt.UTC().Format("20060102_1504"), mag, SafeDirName(e.Title))
}
