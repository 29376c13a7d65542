package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/smokyabdulrahman/solat/internal/api"
	"github.com/smokyabdulrahman/solat/internal/prayer"
)

// fakeFetcher serves canned schedules and zones and counts calls.
type fakeFetcher struct {
	schedule *api.Schedule
	zones    []api.Zone
	err      error
	calls    int
	zoneArg  string
}

func (f *fakeFetcher) FetchSchedule(_ context.Context, zone string) (*api.Schedule, error) {
	f.calls++
	f.zoneArg = zone
	if f.err != nil {
		return nil, f.err
	}
	s := *f.schedule
	s.Zone = zone
	return &s, nil
}

func (f *fakeFetcher) FetchZones(_ context.Context) ([]api.Zone, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.zones, nil
}

func sampleSchedule(year int, month string) *api.Schedule {
	return &api.Schedule{
		Zone:  "KTN01",
		Year:  year,
		Month: month,
		Prayers: []api.Day{
			{Day: 14, Fajr: 100, Dhuhr: 200, Asr: 300, Maghrib: 400, Isha: 500},
			{Day: 15, Fajr: 1000, Dhuhr: 2000, Asr: 3000, Maghrib: 4000, Isha: 5000},
		},
	}
}

var octNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// New
// ---------------------------------------------------------------------------

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "subdir", "cache")
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New(%q) error: %v", dir, err)
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("directory %q was not created", dir)
	}
}

// ---------------------------------------------------------------------------
// SaveSchedule / LoadSchedule
// ---------------------------------------------------------------------------

func TestSchedule_RoundTripSelectsSameDay(t *testing.T) {
	c, _ := New(t.TempDir())
	original := sampleSchedule(2026, "OCT")

	if err := c.SaveSchedule(original); err != nil {
		t.Fatalf("SaveSchedule error: %v", err)
	}
	loaded, err := c.LoadSchedule()
	if err != nil {
		t.Fatalf("LoadSchedule error: %v", err)
	}

	for _, day := range []int{14, 15, 16} {
		want, wantOK := prayer.SelectDay(original, day)
		got, gotOK := prayer.SelectDay(loaded, day)
		if wantOK != gotOK || !reflect.DeepEqual(want, got) {
			t.Errorf("day %d: reloaded = (%+v, %v), original = (%+v, %v)", day, got, gotOK, want, wantOK)
		}
	}
}

func TestSaveSchedule_WritesRawBody(t *testing.T) {
	c, _ := New(t.TempDir())
	raw := `{"zone":"KTN01","year":2026,"month":"OCT","extra":"kept","prayers":[{"day":1,"fajr":1,"dhuhr":2,"asr":3,"maghrib":4,"isha":5}]}`
	s := &api.Schedule{Zone: "KTN01", Raw: json.RawMessage(raw)}

	if err := c.SaveSchedule(s); err != nil {
		t.Fatalf("SaveSchedule error: %v", err)
	}
	data, err := os.ReadFile(c.SchedulePath())
	if err != nil {
		t.Fatalf("reading cache file: %v", err)
	}
	if string(data) != raw {
		t.Errorf("cache file = %s, want raw body %s", data, raw)
	}
}

func TestLoadSchedule_Missing(t *testing.T) {
	c, _ := New(t.TempDir())
	if _, err := c.LoadSchedule(); !errors.Is(err, ErrNoCache) {
		t.Errorf("LoadSchedule on empty dir = %v, want ErrNoCache", err)
	}
	if z := c.CachedZone(); z != "" {
		t.Errorf("CachedZone = %q, want empty", z)
	}
}

func TestLoadSchedule_Corrupted(t *testing.T) {
	c, _ := New(t.TempDir())
	os.WriteFile(c.SchedulePath(), []byte("not-json"), 0o644)

	_, err := c.LoadSchedule()
	if err == nil || errors.Is(err, ErrNoCache) {
		t.Errorf("LoadSchedule on corrupt file = %v, want decode error", err)
	}
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoad_NoCacheFetchesAndPersists(t *testing.T) {
	c, _ := New(t.TempDir())
	f := &fakeFetcher{schedule: sampleSchedule(2026, "OCT")}

	got, err := c.Load(context.Background(), f, "ktn01", octNow)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if f.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", f.calls)
	}
	if f.zoneArg != "KTN01" {
		t.Errorf("fetched zone = %q, want normalized KTN01", f.zoneArg)
	}
	if got.Zone != "KTN01" {
		t.Errorf("Zone = %q, want KTN01", got.Zone)
	}
	if c.CachedZone() != "KTN01" {
		t.Errorf("CachedZone = %q, want KTN01 after persist", c.CachedZone())
	}
}

func TestLoad_FreshCacheSkipsFetch(t *testing.T) {
	c, _ := New(t.TempDir())
	c.SaveSchedule(sampleSchedule(2026, "OCT"))
	f := &fakeFetcher{schedule: sampleSchedule(2026, "OCT")}

	if _, err := c.Load(context.Background(), f, "KTN01", octNow); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if f.calls != 0 {
		t.Errorf("fetch calls = %d, want 0 for a fresh cache", f.calls)
	}
}

func TestLoad_StaleMonthAlwaysFetches(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month string
	}{
		{"previous month", 2026, "SEP"},
		{"same month last year", 2025, "OCT"},
		{"next month", 2026, "NOV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := New(t.TempDir())
			c.SaveSchedule(sampleSchedule(tt.year, tt.month))
			f := &fakeFetcher{schedule: sampleSchedule(2026, "OCT")}

			got, err := c.Load(context.Background(), f, "KTN01", octNow)
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if f.calls != 1 {
				t.Errorf("fetch calls = %d, want 1 for a stale cache", f.calls)
			}
			if got.Month != "OCT" {
				t.Errorf("Month = %q, want refreshed OCT", got.Month)
			}
		})
	}
}

func TestLoad_IncompleteCacheFetches(t *testing.T) {
	c, _ := New(t.TempDir())
	os.WriteFile(c.SchedulePath(), []byte(`{"zone":"KTN01","prayers":[]}`), 0o644)
	f := &fakeFetcher{schedule: sampleSchedule(2026, "OCT")}

	if _, err := c.Load(context.Background(), f, "KTN01", octNow); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if f.calls != 1 {
		t.Errorf("fetch calls = %d, want 1 for an incomplete cache", f.calls)
	}
}

func TestLoad_OtherZoneFetches(t *testing.T) {
	c, _ := New(t.TempDir())
	c.SaveSchedule(sampleSchedule(2026, "OCT"))
	f := &fakeFetcher{schedule: sampleSchedule(2026, "OCT")}

	got, err := c.Load(context.Background(), f, "SGR01", octNow)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if f.calls != 1 || got.Zone != "SGR01" {
		t.Errorf("calls = %d zone = %q, want 1 fetch for SGR01", f.calls, got.Zone)
	}
}

func TestLoad_FetchFailureFallsBackToCache(t *testing.T) {
	c, _ := New(t.TempDir())
	c.SaveSchedule(sampleSchedule(2026, "SEP"))
	f := &fakeFetcher{err: errors.New("network down")}

	got, err := c.Load(context.Background(), f, "KTN01", octNow)
	if err != nil {
		t.Fatalf("Load should fall back to cache, got error: %v", err)
	}
	if got.Month != "SEP" {
		t.Errorf("Month = %q, want cached SEP", got.Month)
	}
}

func TestLoad_FetchFailureWithoutCache(t *testing.T) {
	c, _ := New(t.TempDir())
	netErr := errors.New("network down")
	f := &fakeFetcher{err: netErr}

	_, err := c.Load(context.Background(), f, "KTN01", octNow)
	if !errors.Is(err, netErr) {
		t.Fatalf("Load error = %v, want wrapped network error", err)
	}
}

func TestLoad_FetchFailureDoesNotFallBackToOtherZone(t *testing.T) {
	c, _ := New(t.TempDir())
	c.SaveSchedule(sampleSchedule(2026, "OCT"))
	f := &fakeFetcher{err: errors.New("network down")}

	if _, err := c.Load(context.Background(), f, "SGR01", octNow); err == nil {
		t.Fatal("Load should fail rather than return another zone's schedule")
	}
}

// ---------------------------------------------------------------------------
// Refresh
// ---------------------------------------------------------------------------

func TestRefresh_BypassesFreshCache(t *testing.T) {
	c, _ := New(t.TempDir())
	c.SaveSchedule(sampleSchedule(2026, "OCT"))
	f := &fakeFetcher{schedule: sampleSchedule(2026, "OCT")}

	if _, err := c.Refresh(context.Background(), f, "KTN01"); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if f.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", f.calls)
	}
}

func TestRefresh_FailureKeepsFile(t *testing.T) {
	c, _ := New(t.TempDir())
	c.SaveSchedule(sampleSchedule(2026, "OCT"))
	f := &fakeFetcher{err: errors.New("boom")}

	if _, err := c.Refresh(context.Background(), f, "SGR01"); err == nil {
		t.Fatal("Refresh should return the fetch error")
	}
	if c.CachedZone() != "KTN01" {
		t.Errorf("CachedZone = %q, cache file should be untouched", c.CachedZone())
	}
}

// ---------------------------------------------------------------------------
// LoadZones
// ---------------------------------------------------------------------------

func TestLoadZones_FetchesOnceThenReadsFile(t *testing.T) {
	c, _ := New(t.TempDir())
	f := &fakeFetcher{zones: []api.Zone{
		{JakimCode: "KTN01", Negeri: "Kelantan", Daerah: "Kota Bharu"},
	}}

	for i := 0; i < 2; i++ {
		zones, err := c.LoadZones(context.Background(), f)
		if err != nil {
			t.Fatalf("LoadZones error: %v", err)
		}
		if len(zones) != 1 || zones[0].JakimCode != "KTN01" {
			t.Fatalf("zones = %+v", zones)
		}
	}
	if f.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", f.calls)
	}
}

func TestLoadZones_CorruptFileRefetches(t *testing.T) {
	c, _ := New(t.TempDir())
	os.WriteFile(filepath.Join(c.Dir(), zonesFile), []byte("[oops"), 0o644)
	f := &fakeFetcher{zones: []api.Zone{{JakimCode: "JHR01"}}}

	if _, err := c.LoadZones(context.Background(), f); err != nil {
		t.Fatalf("LoadZones error: %v", err)
	}
	if f.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", f.calls)
	}
}

func TestLoadZones_FetchError(t *testing.T) {
	c, _ := New(t.TempDir())
	f := &fakeFetcher{err: errors.New("offline")}

	if _, err := c.LoadZones(context.Background(), f); err == nil {
		t.Fatal("expected error when catalog is missing and fetch fails")
	}
}
