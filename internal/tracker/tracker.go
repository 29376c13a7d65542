// Package tracker owns the live prayer state of a running session: the loaded
// month schedule, the day record on display and the notification mute flag.
// Tick is driven once per second by the UI loop.
package tracker

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/solat/internal/api"
	"github.com/smokyabdulrahman/solat/internal/prayer"
)

// Status describes what a Frame is showing.
type Status int

const (
	StatusCountdown  Status = iota // counting down to a prayer
	StatusDayDone                  // all of the day's prayers have passed
	StatusNoData                   // no record for today in the schedule
	StatusNoTomorrow               // rollover found no record for the next day
	StatusError                    // the tick failed; Text carries the error
)

// Fixed texts shown in place of a countdown.
const (
	TextNoMoreToday = "No more prayers for today"
	TextNoData      = "Prayer times not available"
	TextNoTomorrow  = "No prayer times available for tomorrow."

	HeadingToday    = "Prayer Times for Today:"
	HeadingTomorrow = "Prayer Times for Tomorrow:"
)

// Thresholds are the lead times at which an Alert is raised.
var Thresholds = []time.Duration{30 * time.Minute, 10 * time.Minute}

// Alert is a pending reminder for an upcoming prayer.
type Alert struct {
	Prayer prayer.Prayer
	Lead   time.Duration
}

// Title returns the notification title.
func (a Alert) Title() string {
	return "Prayer Time Reminder"
}

// Body returns the notification body, e.g. "Asr in 10 minutes (15:02)".
func (a Alert) Body() string {
	return fmt.Sprintf("%s in %d minutes (%s)", a.Prayer.Name, int(a.Lead.Minutes()), a.Prayer.Time.Format("15:04"))
}

// Frame is the result of one tick.
type Frame struct {
	Now        time.Time
	Status     Status
	Text       string // countdown line or fallback message
	Next       prayer.Prayer
	HasNext    bool
	Remaining  time.Duration
	Alerts     []Alert
	Heading    string
	Prayers    []prayer.Prayer // the displayed day's five prayers
	Syuruk     time.Time       // zero when the record has none
	Hijri      string
	RolledOver bool
}

// Tracker holds the session state. All methods except the mute accessors
// must be called from a single goroutine.
type Tracker struct {
	loc             *time.Location
	schedule        *api.Schedule
	current         *api.Day
	tomorrowMissing bool
	muted           atomic.Bool
}

// New builds a Tracker for s and selects the record for now's calendar day.
func New(s *api.Schedule, now time.Time, loc *time.Location) *Tracker {
	if loc == nil {
		loc = time.Local
	}
	t := &Tracker{loc: loc}
	t.SetSchedule(s, now)
	return t
}

// SetSchedule replaces the loaded document wholesale and reselects the
// record for now's calendar day. Nothing is selected when the document is
// for a different month than now.
func (t *Tracker) SetSchedule(s *api.Schedule, now time.Time) {
	t.schedule = s
	t.tomorrowMissing = false
	t.current = nil

	if s == nil {
		return
	}
	now = now.In(t.loc)
	// Day numbers repeat every month; a document for another month has no today.
	if !s.Covers(now) {
		log.Warn().Str("zone", s.Zone).Int("year", s.Year).Str("month", s.Month).
			Str("now", now.Format("2006-01")).Msg("schedule does not cover the current month")
		return
	}
	if d, ok := prayer.SelectDay(s, now.Day()); ok {
		t.current = &d
	} else {
		log.Warn().Str("zone", s.Zone).Int("day", now.Day()).Msg("no prayer times for today in schedule")
	}
}

// Schedule returns the loaded document, possibly nil.
func (t *Tracker) Schedule() *api.Schedule {
	return t.schedule
}

// Zone returns the zone code of the loaded document.
func (t *Tracker) Zone() string {
	if t.schedule == nil {
		return ""
	}
	return api.NormalizeZone(t.schedule.Zone)
}

// Location returns the time zone used for display.
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Current returns the day record on display.
func (t *Tracker) Current() (api.Day, bool) {
	if t.current == nil {
		return api.Day{}, false
	}
	return *t.current, true
}

// TomorrowMissing reports whether the last rollover found no next-day record.
func (t *Tracker) TomorrowMissing() bool {
	return t.tomorrowMissing
}

// Muted reports whether notifications are suppressed. Safe for concurrent use.
func (t *Tracker) Muted() bool {
	return t.muted.Load()
}

// SetMuted sets the mute flag. Safe for concurrent use.
func (t *Tracker) SetMuted(v bool) {
	t.muted.Store(v)
}

// ToggleMute flips the mute flag and returns the new value. Safe for
// concurrent use.
func (t *Tracker) ToggleMute() bool {
	for {
		old := t.muted.Load()
		if t.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Stale reports whether the loaded document does not cover now's calendar
// month and should be reloaded.
func (t *Tracker) Stale(now time.Time) bool {
	if t.schedule == nil {
		return true
	}
	return !t.schedule.Covers(now.In(t.loc))
}

// Rollover swaps in the next day's record once now is past the displayed
// record's last prayer. It returns true when a record was found. When there
// is none the displayed record is cleared and TomorrowMissing is set.
func (t *Tracker) Rollover(now time.Time) bool {
	if t.current == nil {
		return false
	}
	if !now.After(prayer.Last(*t.current, t.loc).Time) {
		return false
	}

	nextDay := t.current.Day + 1
	d, ok := prayer.SelectDay(t.schedule, nextDay)
	if !ok {
		log.Info().Int("day", nextDay).Msg("no prayer times for next day")
		t.current = nil
		t.tomorrowMissing = true
		return false
	}

	log.Debug().Int("day", nextDay).Msg("rolled over to next day")
	t.current = &d
	t.tomorrowMissing = false
	return true
}

// Tick computes the frame for now. When every prayer of the displayed day has
// passed, Rollover runs and the frame is recomputed against the new record.
func (t *Tracker) Tick(now time.Time) Frame {
	now = now.In(t.loc)
	f := t.frame(now)

	// Bounded so a document with bad timestamps cannot spin.
	rolled := false
	for i := 0; f.Status == StatusDayDone && i < 31; i++ {
		ok := t.Rollover(now)
		if !ok && !t.tomorrowMissing {
			break
		}
		rolled = rolled || ok
		f = t.frame(now)
	}
	f.RolledOver = rolled
	return f
}

func (t *Tracker) frame(now time.Time) Frame {
	f := Frame{Now: now}

	if t.current == nil {
		if t.tomorrowMissing {
			f.Status, f.Text = StatusNoTomorrow, TextNoTomorrow
		} else {
			f.Status, f.Text = StatusNoData, TextNoData
		}
		return f
	}

	d := *t.current
	f.Prayers = prayer.Times(d, t.loc)
	f.Hijri = d.Hijri
	if s, ok := prayer.Sunrise(d, t.loc); ok {
		f.Syuruk = s
	}
	f.Heading = HeadingToday
	if d.Day != now.Day() {
		f.Heading = HeadingTomorrow
	}

	next, ok := prayer.ResolveNext(d, now)
	if !ok {
		f.Status, f.Text = StatusDayDone, TextNoMoreToday
		return f
	}

	f.Status = StatusCountdown
	f.Next, f.HasNext = next, true
	f.Remaining = prayer.TimeRemaining(next, now)
	f.Text = prayer.CountdownText(next, now)
	f.Alerts = t.alerts(next, f.Remaining)
	return f
}

// alerts returns the reminders due at this tick: remaining time rounded to
// the nearest second must equal a threshold exactly.
func (t *Tracker) alerts(next prayer.Prayer, remaining time.Duration) []Alert {
	if t.Muted() {
		return nil
	}
	secs := math.Round(remaining.Seconds())
	for _, lead := range Thresholds {
		if secs == lead.Seconds() {
			return []Alert{{Prayer: next, Lead: lead}}
		}
	}
	return nil
}

// ErrorFrame builds the frame shown when a tick fails.
func ErrorFrame(now time.Time, err error) Frame {
	return Frame{Now: now, Status: StatusError, Text: fmt.Sprintf("Error: %v", err)}
}
