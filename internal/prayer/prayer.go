package prayer

import (
	"fmt"
	"strings"
	"time"

	"github.com/smokyabdulrahman/solat/internal/api"
)

// Prayer represents a single prayer with its name and time.
type Prayer struct {
	Key  string // lower-case field name, e.g. "asr"
	Name string // display name, e.g. "Asr"
	Time time.Time
}

// Unix returns the prayer time as epoch seconds.
func (p Prayer) Unix() int64 {
	return p.Time.Unix()
}

// Names lists the five obligatory prayers in chronological order.
var Names = []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

// ShortNames maps prayer names to single-character abbreviations.
var ShortNames = map[string]string{
	"Fajr":    "F",
	"Syuruk":  "S",
	"Dhuhr":   "D",
	"Asr":     "A",
	"Maghrib": "M",
	"Isha":    "I",
}

// Times returns the five prayers of a day record in loc. Syuruk is not a prayer
// and is not included; use Sunrise for display.
func Times(d api.Day, loc *time.Location) []Prayer {
	if loc == nil {
		loc = time.Local
	}
	stamps := []int64{d.Fajr, d.Dhuhr, d.Asr, d.Maghrib, d.Isha}

	prayers := make([]Prayer, len(Names))
	for i, name := range Names {
		prayers[i] = Prayer{
			Key:  strings.ToLower(name),
			Name: name,
			Time: time.Unix(stamps[i], 0).In(loc),
		}
	}
	return prayers
}

// Sunrise returns the syuruk time of a day record, if present.
func Sunrise(d api.Day, loc *time.Location) (time.Time, bool) {
	if d.Syuruk == 0 {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(d.Syuruk, 0).In(loc), true
}

// SelectDay returns the record for the given calendar day number. It does not
// wrap across month boundaries.
func SelectDay(s *api.Schedule, day int) (api.Day, bool) {
	if s == nil {
		return api.Day{}, false
	}
	for _, d := range s.Prayers {
		if d.Day == day {
			return d, true
		}
	}
	return api.Day{}, false
}

// ResolveNext returns the earliest of the day's five prayers whose timestamp
// is strictly after now. It reports false when all five have passed.
func ResolveNext(d api.Day, now time.Time) (Prayer, bool) {
	cutoff := now.Unix()

	var next Prayer
	found := false
	for _, p := range Times(d, now.Location()) {
		if p.Unix() <= cutoff {
			continue
		}
		if !found || p.Unix() < next.Unix() {
			next = p
			found = true
		}
	}
	return next, found
}

// Last returns the latest of the day's five prayers.
func Last(d api.Day, loc *time.Location) Prayer {
	prayers := Times(d, loc)
	last := prayers[0]
	for _, p := range prayers[1:] {
		if p.Unix() > last.Unix() {
			last = p
		}
	}
	return last
}

// TimeRemaining returns the duration until the given prayer time.
func TimeRemaining(prayer Prayer, now time.Time) time.Duration {
	return prayer.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatCountdown formats a duration as zero-padded "HH:MM:SS", truncated to
// whole seconds. Negative durations render as "00:00:00".
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
