package tests

import (
	"errors"
	"strings"
	"testing"
	"time"

	"scanparse/internal/resultparser/core"
	"scanparse/internal/resultparser/extract"
)

func TestCalendarParsedResultWithoutEnd(t *testing.T) {
	r, err := core.NewCalendarParsedResultIn(testZone, core.CalendarInput{
		Summary:  "Meetup",
		Start:    "20240101T153000",
		Location: "Room 1",
	})
	if err != nil {
		t.Fatalf("construct failed: %v", err)
	}
	if r.End() != nil {
		t.Fatalf("expected nil end, got %v", r.End())
	}
	if r.IsStartAllDay() || r.IsEndAllDay() {
		t.Fatalf("unexpected all-day flags")
	}
	if _, ok := r.Geo(); ok {
		t.Fatalf("expected no geo")
	}
	want := "Meetup\nMonday, January 1, 2024 3:30:00 PM\nRoom 1"
	if got := r.DisplayResult(); got != want {
		t.Fatalf("unexpected display:\n%s\nwant:\n%s", got, want)
	}
}

func TestCalendarParsedResultAllDayRange(t *testing.T) {
	r, err := core.NewCalendarParsedResultIn(testZone, core.CalendarInput{
		Summary:     "Conference",
		Start:       "20240311",
		End:         strPtr("20240313"),
		Attendee:    "ana@example.com",
		Description: "Bring badge",
		Geo:         &core.GeoPoint{Latitude: 52.37, Longitude: 4.89},
	})
	if err != nil {
		t.Fatalf("construct failed: %v", err)
	}
	if !r.IsStartAllDay() || !r.IsEndAllDay() {
		t.Fatalf("expected all-day start and end")
	}
	end := r.End()
	if end == nil || !end.Equal(time.Date(2024, time.March, 13, 0, 0, 0, 0, testZone)) {
		t.Fatalf("unexpected end: %v", end)
	}
	geo, ok := r.Geo()
	if !ok || geo.Latitude != 52.37 || geo.Longitude != 4.89 {
		t.Fatalf("unexpected geo: %+v ok=%v", geo, ok)
	}
	want := strings.Join([]string{
		"Conference",
		"Monday, March 11, 2024",
		"Wednesday, March 13, 2024",
		"ana@example.com",
		"Bring badge",
	}, "\n")
	if got := r.DisplayResult(); got != want {
		t.Fatalf("unexpected display:\n%s\nwant:\n%s", got, want)
	}
}

func TestCalendarParsedResultMixedGranularity(t *testing.T) {
	r, err := core.NewCalendarParsedResultIn(testZone, core.CalendarInput{
		Start: "20240101",
		End:   strPtr("20240101T120000Z"),
	})
	if err != nil {
		t.Fatalf("construct failed: %v", err)
	}
	if !r.IsStartAllDay() || r.IsEndAllDay() {
		t.Fatalf("unexpected all-day flags: start=%v end=%v", r.IsStartAllDay(), r.IsEndAllDay())
	}
	if got := r.End().Hour(); got != 15 {
		t.Fatalf("expected UTC end converted to local 15h, got %d", got)
	}
	if r.DisplayResult() != "Monday, January 1, 2024\nMonday, January 1, 2024 3:00:00 PM" {
		t.Fatalf("unexpected display: %q", r.DisplayResult())
	}
}

func TestCalendarParsedResultRejectsBadDates(t *testing.T) {
	tests := []struct {
		name  string
		in    core.CalendarInput
		field string
	}{
		{name: "bad_start", in: core.CalendarInput{Summary: "x", Start: "2024-01-01"}, field: "start"},
		{name: "empty_start", in: core.CalendarInput{Start: ""}, field: "start"},
		{name: "bad_end", in: core.CalendarInput{Start: "20240101", End: strPtr("20240101T1530")}, field: "end"},
		{name: "present_empty_end", in: core.CalendarInput{Start: "20240101", End: strPtr("")}, field: "end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := core.NewCalendarParsedResultIn(testZone, tt.in)
			if err == nil {
				t.Fatalf("expected error")
			}
			if r != nil {
				t.Fatalf("expected no result on error, got %+v", r)
			}
			var argErr *core.ArgumentError
			if !errors.As(err, &argErr) {
				t.Fatalf("expected ArgumentError, got %T", err)
			}
			if argErr.Field != tt.field {
				t.Fatalf("unexpected field: %q", argErr.Field)
			}
			var formatErr *extract.FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("expected wrapped FormatError, got %v", err)
			}
		})
	}
}

func TestCalendarParsedResultIsImmutable(t *testing.T) {
	geo := &core.GeoPoint{Latitude: 1, Longitude: 2}
	r, err := core.NewCalendarParsedResultIn(testZone, core.CalendarInput{
		Start: "20240101T080000",
		End:   strPtr("20240101T090000"),
		Geo:   geo,
	})
	if err != nil {
		t.Fatalf("construct failed: %v", err)
	}
	end := r.End()
	*end = end.Add(48 * time.Hour)
	geo.Latitude = 99

	if got := r.End(); got.Day() != 1 {
		t.Fatalf("end was mutated through accessor: %v", got)
	}
	if g, _ := r.Geo(); g.Latitude != 1 {
		t.Fatalf("geo was mutated through input: %+v", g)
	}
}

func TestNewCalendarParsedResultUsesLocalZone(t *testing.T) {
	r, err := core.NewCalendarParsedResult(core.CalendarInput{Start: "20240101"})
	if err != nil {
		t.Fatalf("construct failed: %v", err)
	}
	if r.Start().Location() != time.Local {
		t.Fatalf("expected time.Local, got %v", r.Start().Location())
	}
	if r.Type() != core.ResultCalendar {
		t.Fatalf("unexpected type: %s", r.Type())
	}
}
