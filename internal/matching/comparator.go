package matching

import (
	"strings"
	"time"
)

// TimeWindow is the largest clock distance, inclusive, at which two ledger
// entries are treated as the same event.
const TimeWindow = 2 * time.Minute

// DefaultInvoiceUTCOffsetSeconds is the invoicing ledger's fixed clock offset (UTC-5).
// Daylight saving transitions are not tracked.
const DefaultInvoiceUTCOffsetSeconds = -5 * 60 * 60

var absoluteLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var naiveLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// WithinTwoMinutes reports whether timestamp lies within TimeWindow of
// epochSeconds. Unparsable timestamps never match.
func WithinTwoMinutes(epochSeconds int64, timestamp string) bool {
	t, ok := parseTimestamp(timestamp, time.UTC)
	if !ok {
		return false
	}
	return within(epochSeconds, t.Unix())
}

// WithinTwoMinutesAdjusted shifts localTimestamp, which carries no zone, by
// offsetSeconds east of UTC before applying the WithinTwoMinutes rule.
func WithinTwoMinutesAdjusted(localTimestamp, timestamp string, offsetSeconds int) bool {
	local, ok := parseNaive(localTimestamp, time.FixedZone("", offsetSeconds))
	if !ok {
		return false
	}
	return WithinTwoMinutes(local.Unix(), timestamp)
}

func within(a, b int64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= int64(TimeWindow/time.Second)
}

func parseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseNaive(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	// already zoned
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
