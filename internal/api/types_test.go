package api

import (
	"errors"
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Month
		wantOK bool
	}{
		{"OCT", time.October, true},
		{"oct", time.October, true},
		{" Jan ", time.January, true},
		{"September", time.September, true},
		{"OKT", time.October, true},
		{"OGOS", time.August, true},
		{"DIS", time.December, true},
		{"MEI", time.May, true},
		{"12", time.December, true},
		{"13", 0, false},
		{"", 0, false},
		{"xyz", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMonth(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseMonth(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSchedule_Period(t *testing.T) {
	tests := []struct {
		name      string
		s         Schedule
		wantYear  int
		wantMonth time.Month
		wantOK    bool
	}{
		{
			name:      "year and month fields",
			s:         Schedule{Year: 2026, Month: "OCT", LastUpdated: "2026-09-28T10:00:00.000Z"},
			wantYear:  2026,
			wantMonth: time.October,
			wantOK:    true,
		},
		{
			name:      "last_updated fallback",
			s:         Schedule{LastUpdated: "2026-02-01T00:00:00.123Z"},
			wantYear:  2026,
			wantMonth: time.February,
			wantOK:    true,
		},
		{
			name:      "bad month falls back to last_updated",
			s:         Schedule{Year: 2026, Month: "??", LastUpdated: "2026-03-05T08:00:00Z"},
			wantYear:  2026,
			wantMonth: time.March,
			wantOK:    true,
		},
		{
			name:   "nothing usable",
			s:      Schedule{Month: "OCT", LastUpdated: "yesterday"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, m, ok := tt.s.Period()
			if ok != tt.wantOK || y != tt.wantYear || m != tt.wantMonth {
				t.Errorf("Period() = (%d, %v, %v), want (%d, %v, %v)", y, m, ok, tt.wantYear, tt.wantMonth, tt.wantOK)
			}
		})
	}
}

func TestSchedule_Covers(t *testing.T) {
	s := Schedule{Year: 2026, Month: "OCT"}

	if !s.Covers(time.Date(2026, 10, 31, 23, 59, 0, 0, time.UTC)) {
		t.Error("Covers should be true for a time inside October 2026")
	}
	if s.Covers(time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("Covers should be false for November 2026")
	}
	if s.Covers(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)) {
		t.Error("Covers should be false for October of another year")
	}

	var empty Schedule
	if empty.Covers(time.Now()) {
		t.Error("Covers should be false for a document without a period")
	}
}

func TestSchedule_Validate(t *testing.T) {
	valid := sampleSchedule()
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() on sample = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(s *Schedule)
	}{
		{"missing zone", func(s *Schedule) { s.Zone = "" }},
		{"no days", func(s *Schedule) { s.Prayers = nil }},
		{"no period", func(s *Schedule) { s.Year, s.Month, s.LastUpdated = 0, "", "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleSchedule()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrIncomplete) {
				t.Errorf("Validate() = %v, want ErrIncomplete", err)
			}
		})
	}

	var nilSchedule *Schedule
	if err := nilSchedule.Validate(); !errors.Is(err, ErrIncomplete) {
		t.Errorf("nil Validate() = %v, want ErrIncomplete", err)
	}
}
