package display

import (
	"time"

	"github.com/smokyabdulrahman/solat/internal/prayer"
)

// PrayerDay is one displayed day of prayer times.
type PrayerDay struct {
	Heading   string // "Prayer Times for Today:" or "...Tomorrow:"
	Prayers   []prayer.Prayer
	Syuruk    time.Time // zero when unknown
	NextKey   string    // key of the upcoming prayer, "" when none
	Remaining time.Duration
	Now       time.Time
}

// PrayerTable lists the day's prayers in time order with syuruk after fajr.
// The upcoming prayer is highlighted with its countdown; earlier ones are dimmed.
func PrayerTable(d PrayerDay, layout string) *Table {
	t := NewTable("Prayer", "Time", "")
	t.SetTitle(d.Heading)

	for i, p := range d.Prayers {
		switch {
		case p.Key == d.NextKey:
			t.Add(RowHighlight, p.Name, p.Time.Format(layout), "<- next in "+prayer.FormatRemaining(d.Remaining))
		case !d.Now.IsZero() && !p.Time.After(d.Now):
			t.Add(RowPast, p.Name, p.Time.Format(layout))
		default:
			t.Add(RowPlain, p.Name, p.Time.Format(layout))
		}

		if i == 0 && !d.Syuruk.IsZero() {
			t.Add(RowAside, "Syuruk", d.Syuruk.Format(layout))
		}
	}
	return t
}
