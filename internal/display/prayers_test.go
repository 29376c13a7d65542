package display

import (
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/solat/internal/prayer"
)

func prayerDay(now time.Time) PrayerDay {
	at := func(h, m int) time.Time { return time.Date(2026, 10, 18, h, m, 0, 0, time.UTC) }
	return PrayerDay{
		Heading: "Prayer Times for Today:",
		Prayers: []prayer.Prayer{
			{Key: "fajr", Name: "Fajr", Time: at(5, 50)},
			{Key: "dhuhr", Name: "Dhuhr", Time: at(13, 5)},
			{Key: "asr", Name: "Asr", Time: at(16, 20)},
			{Key: "maghrib", Name: "Maghrib", Time: at(19, 0)},
			{Key: "isha", Name: "Isha", Time: at(20, 10)},
		},
		Syuruk:    at(7, 2),
		NextKey:   "asr",
		Remaining: at(16, 20).Sub(now),
		Now:       now,
	}
}

func TestPrayerTable(t *testing.T) {
	plain(t)

	now := time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)
	tbl := PrayerTable(prayerDay(now), "15:04")

	if tbl.Len() != 6 {
		t.Fatalf("Len() = %d, want 5 prayers plus syuruk", tbl.Len())
	}

	lines := strings.Split(tbl.Render(), "\n")
	if lines[0] != "Prayer Times for Today:" {
		t.Errorf("title = %q", lines[0])
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[4]), "Syuruk") {
		t.Errorf("syuruk should follow fajr, got %q", lines[4])
	}
	if !strings.Contains(lines[6], "Asr") || !strings.Contains(lines[6], "<- next in 2h 20m") {
		t.Errorf("asr row = %q", lines[6])
	}
}

func TestPrayerTable_KindsByTime(t *testing.T) {
	now := time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)
	tbl := PrayerTable(prayerDay(now), "15:04")

	want := []RowKind{RowPast, RowAside, RowPast, RowHighlight, RowPlain, RowPlain}
	for i, r := range tbl.rows {
		if r.kind != want[i] {
			t.Errorf("row %d (%s) kind = %v, want %v", i, r.cells[0], r.kind, want[i])
		}
	}
}

func TestPrayerTable_NoNextNoSyuruk(t *testing.T) {
	d := prayerDay(time.Date(2026, 10, 18, 22, 0, 0, 0, time.UTC))
	d.NextKey = ""
	d.Syuruk = time.Time{}

	tbl := PrayerTable(d, "15:04")
	if tbl.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", tbl.Len())
	}
	for _, r := range tbl.rows {
		if r.kind != RowPast {
			t.Errorf("%s kind = %v, want RowPast", r.cells[0], r.kind)
		}
	}
}
