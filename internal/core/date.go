package core

import (
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"1-2-2006",
	"01-02-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-Jan-2006",
	"02-Jan-06",
	"2 Jan 2006",
	"Mon Jan 02 2006",
}

// spreadsheet epoch for serial day numbers (1900 date system).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serial day numbers outside this range are not dates. The floor is
// 1927-05-18 so bare years such as "2025" are rejected.
const (
	minSerial = 10000
	maxSerial = 2958466
)

// ParseDate reads a date cell. Exports disagree on formats so several
// layouts are tried, then spreadsheet serial day numbers.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// JS-style Date.toString output, e.g. "Wed Jan 01 2025 00:00:00 GMT+0000".
	if len(s) > 15 {
		if t, err := time.Parse("Mon Jan 02 2006", s[:15]); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= minSerial && f < maxSerial {
		days := int(f)
		return serialEpoch.AddDate(0, 0, days), true
	}
	return time.Time{}, false
}

// DisplayDate renders a cell date as YYYY-MM-DD when it parses,
// otherwise the raw trimmed text.
func DisplayDate(s string) string {
	if t, ok := ParseDate(s); ok {
		return t.Format("2006-01-02")
	}
	return strings.TrimSpace(s)
}
