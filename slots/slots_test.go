// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package slots

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func mustClock(t *testing.T, s string) time.Duration {
	t.Helper()
	d, err := ParseClock(s)
	if err != nil {
		t.Fatalf("ParseClock(%q): %v", s, err)
	}
	return d
}

func TestGenerateSingleDay(t *testing.T) {
	w := Window{
		StartDate:   mustDate(t, "2025-09-01"),
		EndDate:     mustDate(t, "2025-09-01"),
		DailyStart:  mustClock(t, "10:00"),
		DailyEnd:    mustClock(t, "12:00"),
		SlotMinutes: 30,
	}

	got, err := Generate(w)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := []string{"10:00-10:30", "10:30-11:00", "11:00-11:30", "11:30-12:00"}
	if len(got) != len(want) {
		t.Fatalf("got %d slots, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.Index != i {
			t.Errorf("slot %d has index %d", i, s.Index)
		}
		label := s.Start.Format("15:04") + "-" + s.End.Format("15:04")
		if label != want[i] {
			t.Errorf("slot %d = %s, want %s", i, label, want[i])
		}
		if s.Start.Format(DateLayout) != "2025-09-01" {
			t.Errorf("slot %d on wrong day %s", i, s.Start.Format(DateLayout))
		}
	}
}

func TestGenerateMultiDayIndexing(t *testing.T) {
	w := Window{
		StartDate:   mustDate(t, "2025-09-01"),
		EndDate:     mustDate(t, "2025-09-03"),
		DailyStart:  mustClock(t, "09:00"),
		DailyEnd:    mustClock(t, "10:00"),
		SlotMinutes: 20,
	}

	got, err := Generate(w)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(got) != 9 {
		t.Fatalf("got %d slots, want 9", len(got))
	}

	for i, s := range got {
		if s.Index != i {
			t.Errorf("slot %d has index %d", i, s.Index)
		}
		wantDay := w.StartDate.AddDate(0, 0, i/3).Format(DateLayout)
		if s.Start.Format(DateLayout) != wantDay {
			t.Errorf("slot %d on %s, want %s", i, s.Start.Format(DateLayout), wantDay)
		}
	}
	if got[3].Start.Format("15:04") != "09:00" {
		t.Errorf("day two should restart at 09:00, got %s", got[3].Start.Format("15:04"))
	}
}

func TestGenerateDropsPartialSlot(t *testing.T) {
	w := Window{
		StartDate:   mustDate(t, "2025-09-01"),
		EndDate:     mustDate(t, "2025-09-01"),
		DailyStart:  mustClock(t, "10:00"),
		DailyEnd:    mustClock(t, "11:45"),
		SlotMinutes: 30,
	}

	got, err := Generate(w)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d slots, want 3", len(got))
	}
	if last := got[2].End.Format("15:04"); last != "11:30" {
		t.Errorf("last slot ends at %s, want 11:30", last)
	}
}

func TestGenerateProperties(t *testing.T) {
	w := Window{
		StartDate:   mustDate(t, "2025-02-27"),
		EndDate:     mustDate(t, "2025-03-02"),
		DailyStart:  mustClock(t, "08:15"),
		DailyEnd:    mustClock(t, "17:40"),
		SlotMinutes: 45,
	}

	got, err := Generate(w)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for i, s := range got {
		if s.End.Sub(s.Start) != 45*time.Minute {
			t.Errorf("slot %d has length %v", i, s.End.Sub(s.Start))
		}
		if !w.Contains(s.Start, s.End) {
			t.Errorf("slot %d (%v-%v) escapes the daily window", i, s.Start, s.End)
		}
		if i == 0 {
			continue
		}
		prev := got[i-1]
		if s.Start.Before(prev.End) {
			t.Errorf("slot %d overlaps slot %d", i, i-1)
		}
		sameDay := s.Start.Format(DateLayout) == prev.Start.Format(DateLayout)
		if sameDay && !s.Start.Equal(prev.End) {
			t.Errorf("slot %d is not contiguous with slot %d", i, i-1)
		}
	}
}

func TestGenerateInvalidWindows(t *testing.T) {
	base := Window{
		StartDate:   mustDate(t, "2025-09-02"),
		EndDate:     mustDate(t, "2025-09-02"),
		DailyStart:  mustClock(t, "10:00"),
		DailyEnd:    mustClock(t, "12:00"),
		SlotMinutes: 30,
	}

	tests := []struct {
		name   string
		mutate func(w *Window)
	}{
		{"end date before start", func(w *Window) { w.EndDate = mustDate(t, "2025-09-01") }},
		{"daily end equals start", func(w *Window) { w.DailyEnd = w.DailyStart }},
		{"daily end before start", func(w *Window) { w.DailyEnd = mustClock(t, "09:00") }},
		{"zero slot length", func(w *Window) { w.SlotMinutes = 0 }},
		{"window shorter than slot", func(w *Window) { w.DailyEnd = mustClock(t, "10:20") }},
		{"missing dates", func(w *Window) { w.StartDate = time.Time{} }},
		{"too many slots", func(w *Window) {
			w.EndDate = mustDate(t, "2026-09-02")
			w.DailyStart = 0
			w.DailyEnd = 24 * time.Hour
			w.SlotMinutes = 15
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := base
			tt.mutate(&w)
			if _, err := Generate(w); !errors.Is(err, ErrInvalidWindow) {
				t.Errorf("Generate() error = %v, want ErrInvalidWindow", err)
			}
		})
	}
}

func TestGenerateInLocation(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	w := Window{
		StartDate:   mustDate(t, "2025-09-21"),
		EndDate:     mustDate(t, "2025-09-21"),
		DailyStart:  mustClock(t, "10:00"),
		DailyEnd:    mustClock(t, "11:00"),
		SlotMinutes: 60,
		Location:    loc,
	}

	got, err := Generate(w)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d slots, want 1", len(got))
	}
	if got[0].Start.UTC().Hour() != 1 {
		t.Errorf("10:00 KST should be 01:00 UTC, got %v", got[0].Start.UTC())
	}
}

func TestGenerateAcrossDaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	tests := []struct {
		name string
		date string
	}{
		{"spring forward", "2025-03-09"},
		{"fall back", "2025-11-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Window{
				StartDate:   mustDate(t, tt.date),
				EndDate:     mustDate(t, tt.date),
				DailyStart:  mustClock(t, "10:00"),
				DailyEnd:    mustClock(t, "12:00"),
				SlotMinutes: 30,
				Location:    loc,
			}

			got, err := Generate(w)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if len(got) != 4 {
				t.Fatalf("got %d slots, want 4", len(got))
			}
			if first := got[0].Start.In(loc).Format(ClockLayout); first != "10:00" {
				t.Errorf("first slot starts at %s, want 10:00", first)
			}
			if last := got[3].End.In(loc).Format(ClockLayout); last != "12:00" {
				t.Errorf("last slot ends at %s, want 12:00", last)
			}

			start, end := w.Bounds()
			if start.In(loc).Format(ClockLayout) != "10:00" || end.In(loc).Format(ClockLayout) != "12:00" {
				t.Errorf("Bounds() = %v, %v", start.In(loc), end.In(loc))
			}

			day := mustDate(t, tt.date)
			from := time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, loc)
			if !w.Contains(from, from.Add(30*time.Minute)) {
				t.Error("Contains(10:00-10:30) = false, want true")
			}
			if w.Contains(from.Add(-30*time.Minute), from) {
				t.Error("Contains(09:30-10:00) = true, want false")
			}
		})
	}
}

func TestParseHelpers(t *testing.T) {
	if d := mustClock(t, "24:00"); d != 24*time.Hour {
		t.Errorf("ParseClock(24:00) = %v", d)
	}
	if s := FormatClock(mustClock(t, "07:05")); s != "07:05" {
		t.Errorf("FormatClock round trip = %s", s)
	}
	if _, err := ParseClock("7pm"); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("ParseClock(7pm) error = %v", err)
	}
	if _, err := ParseDate("09/01/2025"); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("ParseDate error = %v", err)
	}

	loc := time.FixedZone("X", 3600)
	local, err := ParseDateTime("2025-09-01T10:30:00", loc)
	if err != nil {
		t.Fatalf("ParseDateTime() error = %v", err)
	}
	if local.UTC().Hour() != 9 {
		t.Errorf("zone-less value should be read in loc, got %v", local.UTC())
	}

	abs, err := ParseDateTime("2025-09-01T10:30:00Z", loc)
	if err != nil {
		t.Fatalf("ParseDateTime(RFC3339) error = %v", err)
	}
	if abs.UTC().Hour() != 10 {
		t.Errorf("RFC3339 value should keep its zone, got %v", abs.UTC())
	}
}
