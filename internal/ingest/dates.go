package ingest

import (
	"strings"
	"time"
)

// dateFormats are tried in priority order. The export wobbles between ISO
// and both slash conventions; month-first wins when either could apply.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
}

// ParseDate parses a purchase date. The second return value reports whether
// the input matched a known format; when it is false the current date is
// returned so a bad cell never stalls an import. Callers should log the raw
// value, because the fallback hides the corruption from everything
// downstream.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Now(), false
}
