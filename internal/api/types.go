package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrIncomplete is returned when a schedule document lacks the fields needed
// to select days and decide staleness.
var ErrIncomplete = errors.New("incomplete prayer schedule")

// Zone is one entry of the JAKIM zone catalog returned by GET /zones.
type Zone struct {
	JakimCode string `json:"jakimCode"`
	Negeri    string `json:"negeri"` // state, e.g. "Kelantan"
	Daerah    string `json:"daerah"` // district(s) covered by the zone
}

// ZoneMatch is the response of GET /zones/{lat}/{long}.
type ZoneMatch struct {
	Zone   string `json:"zone"`
	Negeri string `json:"negeri"`
	Daerah string `json:"daerah"`
}

// Schedule is one zone's prayer times for a whole month, as returned by
// GET /v2/solat/{zone}.
type Schedule struct {
	Zone        string `json:"zone"`
	Year        int    `json:"year,omitempty"`
	Month       string `json:"month,omitempty"`        // e.g. "OCT"
	LastUpdated string `json:"last_updated,omitempty"` // RFC 3339
	Prayers     []Day  `json:"prayers"`

	// Raw holds the response body exactly as received so the cache can persist
	// the document unchanged. Empty for documents built in code.
	Raw json.RawMessage `json:"-"`
}

// Day holds one calendar day's prayer times as Unix epoch seconds.
type Day struct {
	Day     int    `json:"day"`
	Hijri   string `json:"hijri,omitempty"`
	Fajr    int64  `json:"fajr"`
	Syuruk  int64  `json:"syuruk,omitempty"`
	Dhuhr   int64  `json:"dhuhr"`
	Asr     int64  `json:"asr"`
	Maghrib int64  `json:"maghrib"`
	Isha    int64  `json:"isha"`
}

// Validate reports whether the document has a zone, at least one day and a
// resolvable period. The returned error wraps ErrIncomplete.
func (s *Schedule) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: empty document", ErrIncomplete)
	}
	if strings.TrimSpace(s.Zone) == "" {
		return fmt.Errorf("%w: missing zone", ErrIncomplete)
	}
	if len(s.Prayers) == 0 {
		return fmt.Errorf("%w: no prayer days", ErrIncomplete)
	}
	if _, _, ok := s.Period(); !ok {
		return fmt.Errorf("%w: missing month and last_updated", ErrIncomplete)
	}
	return nil
}

// Period returns the calendar month the document covers. The year and month
// fields take precedence; last_updated is used when either is absent.
func (s *Schedule) Period() (int, time.Month, bool) {
	if s == nil {
		return 0, 0, false
	}
	if s.Year > 0 {
		if m, ok := ParseMonth(s.Month); ok {
			return s.Year, m, true
		}
	}
	if s.LastUpdated != "" {
		t, err := time.Parse(time.RFC3339, s.LastUpdated)
		if err == nil {
			return t.Year(), t.Month(), true
		}
	}
	return 0, 0, false
}

// Covers reports whether the document's period is the calendar month of t.
// A document without a period never covers anything.
func (s *Schedule) Covers(t time.Time) bool {
	year, month, ok := s.Period()
	if !ok {
		return false
	}
	return year == t.Year() && month == t.Month()
}

// malayMonths lists the Malay abbreviations that differ from English ones.
var malayMonths = map[string]time.Month{
	"mac":  time.March,
	"mei":  time.May,
	"ogos": time.August,
	"ogo":  time.August,
	"okt":  time.October,
	"dis":  time.December,
}

// ParseMonth accepts month abbreviations ("OCT", "Okt"), full English names
// and numbers 1-12.
func ParseMonth(s string) (time.Month, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), true
		}
		return 0, false
	}
	if m, ok := malayMonths[v]; ok {
		return m, true
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if v == name || (len(v) == 3 && strings.HasPrefix(name, v)) {
			return m, true
		}
	}
	return 0, false
}
