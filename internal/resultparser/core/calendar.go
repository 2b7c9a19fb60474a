package core

import (
	"encoding/json"
	"strings"
	"time"

	"scanparse/internal/resultparser/extract"
)

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CalendarInput holds the already-split fields of a calendar record.
// Start and End are RFC 2445 DATE or DATE-TIME tokens. A nil End means the
// event has no end; a non-nil End must parse like Start.
type CalendarInput struct {
	Summary     string
	Start       string
	End         *string
	Location    string
	Attendee    string
	Description string
	Geo         *GeoPoint
}

// CalendarParsedResult is a calendar event.
type CalendarParsedResult struct {
	summary     string
	start       time.Time
	startAllDay bool
	end         *time.Time
	endAllDay   bool
	location    string
	attendee    string
	description string
	geo         *GeoPoint
}

// NewCalendarParsedResult builds a calendar result with time.Local as the
// local zone.
func NewCalendarParsedResult(in CalendarInput) (*CalendarParsedResult, error) {
	return NewCalendarParsedResultIn(time.Local, in)
}

// NewCalendarParsedResultIn builds a calendar result, resolving floating and
// UTC tokens against loc. It returns an *ArgumentError when Start, or a
// present End, is not a valid token.
func NewCalendarParsedResultIn(loc *time.Location, in CalendarInput) (*CalendarParsedResult, error) {
	start, err := extract.ParseDateIn(in.Start, loc)
	if err != nil {
		return nil, &ArgumentError{Field: "start", Value: in.Start, Err: err}
	}
	var end *time.Time
	if in.End != nil {
		parsed, err := extract.ParseDateIn(*in.End, loc)
		if err != nil {
			return nil, &ArgumentError{Field: "end", Value: *in.End, Err: err}
		}
		end = &parsed
	}
	var geo *GeoPoint
	if in.Geo != nil {
		g := *in.Geo
		geo = &g
	}
	return &CalendarParsedResult{
		summary:     in.Summary,
		start:       start,
		startAllDay: extract.IsAllDayToken(in.Start),
		end:         end,
		endAllDay:   in.End != nil && extract.IsAllDayToken(*in.End),
		location:    in.Location,
		attendee:    in.Attendee,
		description: in.Description,
		geo:         geo,
	}, nil
}

func (r *CalendarParsedResult) Type() ResultType { return ResultCalendar }

func (r *CalendarParsedResult) Summary() string { return r.summary }

func (r *CalendarParsedResult) Start() time.Time { return r.start }

// IsStartAllDay reports whether the start was given as a whole day.
func (r *CalendarParsedResult) IsStartAllDay() bool { return r.startAllDay }

// End returns nil when the event has no end.
func (r *CalendarParsedResult) End() *time.Time {
	if r.end == nil {
		return nil
	}
	end := *r.end
	return &end
}

// IsEndAllDay reports whether the end was given as a whole day.
func (r *CalendarParsedResult) IsEndAllDay() bool { return r.endAllDay }

func (r *CalendarParsedResult) Location() string { return r.location }

func (r *CalendarParsedResult) Attendee() string { return r.attendee }

func (r *CalendarParsedResult) Description() string { return r.description }

// Geo returns the event coordinates, if any were given.
func (r *CalendarParsedResult) Geo() (GeoPoint, bool) {
	if r.geo == nil {
		return GeoPoint{}, false
	}
	return *r.geo, true
}

func (r *CalendarParsedResult) DisplayResult() string {
	var b strings.Builder
	b.Grow(100)
	appendField(&b, r.summary)
	appendField(&b, extract.FormatDate(r.startAllDay, &r.start))
	appendField(&b, extract.FormatDate(r.endAllDay, r.end))
	appendField(&b, r.location)
	appendField(&b, r.attendee)
	appendField(&b, r.description)
	return b.String()
}

// MarshalJSON implements json.Marshaler.
func (r *CalendarParsedResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Summary     string     `json:"summary,omitempty"`
		Start       time.Time  `json:"start"`
		StartAllDay bool       `json:"start_all_day"`
		End         *time.Time `json:"end,omitempty"`
		EndAllDay   bool       `json:"end_all_day"`
		Location    string     `json:"location,omitempty"`
		Attendee    string     `json:"attendee,omitempty"`
		Description string     `json:"description,omitempty"`
		Geo         *GeoPoint  `json:"geo,omitempty"`
	}{
		Summary:     r.summary,
		Start:       r.start,
		StartAllDay: r.startAllDay,
		End:         r.end,
		EndAllDay:   r.endAllDay,
		Location:    r.location,
		Attendee:    r.attendee,
		Description: r.description,
		Geo:         r.geo,
	})
}
