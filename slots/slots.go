// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package slots slices a date range and a daily availability window into
// fixed-length, flat-indexed time slots.
package slots

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultSlotMinutes = 30

	// MaxSlots bounds the size of one session's slot arena.
	MaxSlots = 5000

	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
	DateTimeLayout = "2006-01-02T15:04:05"
)

var ErrInvalidWindow = errors.New("invalid time window")

// Window describes the candidate period of a tuning session.
// StartDate and EndDate are calendar days (inclusive); only their year, month and
// day are used. DailyStart and DailyEnd are offsets from midnight.
type Window struct {
	StartDate   time.Time
	EndDate     time.Time
	DailyStart  time.Duration
	DailyEnd    time.Duration
	SlotMinutes int
	Location    *time.Location
}

// Slot is one generated candidate interval.
type Slot struct {
	Index int
	Start time.Time
	End   time.Time
}

// Validate checks the window without generating slots.
func (w Window) Validate() error {
	if w.StartDate.IsZero() || w.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end date are required", ErrInvalidWindow)
	}
	if day(w.EndDate, time.UTC).Before(day(w.StartDate, time.UTC)) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidWindow)
	}
	if w.DailyStart < 0 || w.DailyEnd > 24*time.Hour {
		return fmt.Errorf("%w: daily window must lie within one day", ErrInvalidWindow)
	}
	if w.DailyEnd <= w.DailyStart {
		return fmt.Errorf("%w: daily end must be after daily start", ErrInvalidWindow)
	}
	if w.SlotMinutes <= 0 {
		return fmt.Errorf("%w: slot length must be positive", ErrInvalidWindow)
	}
	return nil
}

// Generate emits consecutive slots for every day of the window. A trailing
// partial slot that does not fit before DailyEnd is dropped. Indices run across
// the whole range: day one's slots first, then day two's, and so on.
func Generate(w Window) ([]Slot, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	length := time.Duration(w.SlotMinutes) * time.Minute

	perDay := int((w.DailyEnd - w.DailyStart) / length)
	if perDay == 0 {
		return nil, fmt.Errorf("%w: daily window is shorter than one %d minute slot", ErrInvalidWindow, w.SlotMinutes)
	}

	first := day(w.StartDate, loc)
	last := day(w.EndDate, loc)

	var out []Slot
	for cur := first; !cur.After(last); cur = cur.AddDate(0, 0, 1) {
		end := clock(cur, w.DailyEnd)
		for start := clock(cur, w.DailyStart); !start.Add(length).After(end); start = start.Add(length) {
			if len(out) == MaxSlots {
				return nil, fmt.Errorf("%w: more than %d slots", ErrInvalidWindow, MaxSlots)
			}
			out = append(out, Slot{
				Index: len(out),
				Start: start,
				End:   start.Add(length),
			})
		}
	}

	return out, nil
}

// Bounds returns the first instant and last instant covered by the window.
func (w Window) Bounds() (time.Time, time.Time) {
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	return clock(day(w.StartDate, loc), w.DailyStart), clock(day(w.EndDate, loc), w.DailyEnd)
}

// Contains reports whether [start, end) lies inside one day's availability window
// within the date range.
func (w Window) Contains(start, end time.Time) bool {
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	start = start.In(loc)
	end = end.In(loc)

	d := day(start, loc)
	if d.Before(day(w.StartDate, loc)) || d.After(day(w.EndDate, loc)) {
		return false
	}
	return !start.Before(clock(d, w.DailyStart)) && !end.After(clock(d, w.DailyEnd))
}

func day(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// clock returns the wall-clock time offset past midnight on d's day, so a
// daylight saving shift on that day does not move it. "24:00" is the next
// midnight.
func clock(d time.Time, offset time.Duration) time.Time {
	h := int(offset / time.Hour)
	m := int(offset % time.Hour / time.Minute)
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, d.Location())
}

// ParseDate parses a calendar day such as "2025-09-01".
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrInvalidWindow, s)
	}
	return t, nil
}

// ParseClock parses a time of day such as "10:30" into an offset from midnight.
// "24:00" is accepted as the end of the day.
func ParseClock(s string) (time.Duration, error) {
	if s == "24:00" {
		return 24 * time.Hour, nil
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: bad time of day %q", ErrInvalidWindow, s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// FormatClock is the inverse of ParseClock.
func FormatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

// ParseDateTime accepts RFC 3339 or a zone-less "2006-01-02T15:04:05" read in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateTimeLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date-time %q", ErrInvalidWindow, s)
	}
	return t, nil
}
