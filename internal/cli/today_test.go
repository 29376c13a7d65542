package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/solat/internal/api"
	"github.com/smokyabdulrahman/solat/internal/display"
	"github.com/smokyabdulrahman/solat/internal/tracker"
)

func sampleFrame(now time.Time) tracker.Frame {
	day := api.Day{
		Day:     18,
		Hijri:   "1448-05-06",
		Fajr:    time.Date(2026, 10, 18, 5, 50, 0, 0, time.UTC).Unix(),
		Syuruk:  time.Date(2026, 10, 18, 7, 2, 0, 0, time.UTC).Unix(),
		Dhuhr:   time.Date(2026, 10, 18, 13, 5, 0, 0, time.UTC).Unix(),
		Asr:     time.Date(2026, 10, 18, 16, 20, 0, 0, time.UTC).Unix(),
		Maghrib: time.Date(2026, 10, 18, 19, 0, 0, 0, time.UTC).Unix(),
		Isha:    time.Date(2026, 10, 18, 20, 10, 0, 0, time.UTC).Unix(),
	}
	s := &api.Schedule{Zone: "KTN01", Year: 2026, Month: "OCT", Prayers: []api.Day{day}}
	return tracker.New(s, now, time.UTC).Tick(now)
}

func TestPrintTodayJSON(t *testing.T) {
	now := time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := printTodayJSON(&buf, sampleFrame(now), "KTN01", "15:04"); err != nil {
		t.Fatal(err)
	}

	var got todayJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Date != "2026-10-18" || got.Hijri != "1448-05-06" || got.Syuruk != "07:02" {
		t.Errorf("got %+v", got)
	}
	if got.Next == nil || got.Next.Prayer != "asr" || got.Next.Time != "16:20" || got.Next.Remaining != "02:20:00" {
		t.Errorf("next = %+v", got.Next)
	}
}

func TestPrintTodayJSON_NoNextPrayer(t *testing.T) {
	now := time.Date(2026, 10, 18, 22, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := printTodayJSON(&buf, sampleFrame(now), "KTN01", "15:04"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"next": null`) {
		t.Errorf("next should be null:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), tracker.TextNoTomorrow) {
		t.Errorf("status should explain the missing day:\n%s", buf.String())
	}
}

func TestPrintTodayRich(t *testing.T) {
	prev := display.Enabled()
	display.SetEnabled(false)
	defer display.SetEnabled(prev)

	now := time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	printTodayRich(&buf, sampleFrame(now), "KTN01 (Kelantan: Bachok)", "UTC", "3:04 PM")

	out := buf.String()
	for _, want := range []string{tracker.HeadingToday, "KTN01 (Kelantan: Bachok)", "Syuruk", "4:20 PM", "<- next in 2h 20m", "Asr in 02:20:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
