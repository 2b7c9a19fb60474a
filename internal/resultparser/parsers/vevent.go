package parsers

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"scanparse/internal/resultparser/core"
)

const (
	beginVEvent    = "BEGIN:VEVENT"
	beginVCalendar = "BEGIN:VCALENDAR"
)

var textUnescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)

// VEventParser recognizes iCalendar VEVENT records, with or without a
// VCALENDAR envelope, and builds a CalendarParsedResult from the first event.
type VEventParser struct {
	loc    *time.Location
	logger *slog.Logger
}

// NewVEventParser creates v event parser. Floating and UTC times are
// resolved against loc; nil means time.Local.
func NewVEventParser(loc *time.Location, logger *slog.Logger) *VEventParser {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VEventParser{loc: loc, logger: logger}
}

func (p *VEventParser) Parse(raw string) (core.ParsedResult, bool) {
	if !strings.Contains(raw, beginVEvent) {
		return nil, false
	}
	cal, err := ical.ParseCalendar(strings.NewReader(calendarEnvelope(raw)))
	if err != nil {
		p.logger.Debug("vevent_rejected", "reason", "ical_parse", "error", err)
		return nil, false
	}
	events := cal.Events()
	if len(events) == 0 {
		p.logger.Debug("vevent_rejected", "reason", "no_event")
		return nil, false
	}
	in, err := calendarInputFromVEvent(events[0])
	if err != nil {
		p.logger.Debug("vevent_rejected", "reason", "fields", "error", err)
		return nil, false
	}
	result, err := core.NewCalendarParsedResultIn(p.loc, in)
	if err != nil {
		p.logger.Debug("vevent_rejected", "reason", "dates", "error", err)
		return nil, false
	}
	return result, true
}

func calendarInputFromVEvent(ve *ical.VEvent) (core.CalendarInput, error) {
	var in core.CalendarInput
	start, ok := propertyValue(ve, ical.ComponentPropertyDtStart)
	if !ok || start == "" {
		return in, errors.New("missing DTSTART")
	}
	in.Start = start
	if end, ok := propertyValue(ve, ical.ComponentPropertyDtEnd); ok {
		in.End = &end
	}
	in.Summary = textValue(ve, ical.ComponentPropertySummary)
	in.Location = textValue(ve, ical.ComponentPropertyLocation)
	in.Description = textValue(ve, ical.ComponentPropertyDescription)
	in.Attendee = stripMailto(textValue(ve, ical.ComponentPropertyAttendee))
	if geo, ok := propertyValue(ve, ical.ComponentPropertyGeo); ok {
		in.Geo = parseGeo(geo)
	}
	return in, nil
}

func propertyValue(ve *ical.VEvent, prop ical.ComponentProperty) (string, bool) {
	p := ve.GetProperty(prop)
	if p == nil {
		return "", false
	}
	return strings.TrimSpace(p.Value), true
}

func textValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	v, _ := propertyValue(ve, prop)
	return textUnescaper.Replace(v)
}

func stripMailto(v string) string {
	if len(v) >= len("mailto:") && strings.EqualFold(v[:len("mailto:")], "mailto:") {
		return v[len("mailto:"):]
	}
	return v
}

// parseGeo reads a GEO value ("lat;lon"). Unparsable values yield nil.
func parseGeo(v string) *core.GeoPoint {
	parts := strings.Split(v, ";")
	if len(parts) != 2 {
		return nil
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil
	}
	return &core.GeoPoint{Latitude: lat, Longitude: lon}
}

// calendarEnvelope normalizes line endings to CRLF and wraps a bare VEVENT in
// a VCALENDAR so the ical reader accepts it. Text before the first BEGIN line
// is dropped and components left open by a truncated payload are closed.
func calendarEnvelope(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := make([]string, 0, strings.Count(text, "\n")+4)
	if idx := strings.Index(text, beginVCalendar); idx >= 0 {
		text = text[idx:]
	} else {
		text = text[strings.Index(text, beginVEvent):]
		lines = append(lines, beginVCalendar, "VERSION:2.0")
	}

	var open []string
	if len(lines) > 0 {
		open = append(open, "VCALENDAR")
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "BEGIN:"):
			open = append(open, strings.TrimPrefix(upper, "BEGIN:"))
		case strings.HasPrefix(upper, "END:"):
			if n := len(open); n > 0 && open[n-1] == strings.TrimPrefix(upper, "END:") {
				open = open[:n-1]
			}
		}
		lines = append(lines, line)
	}
	for i := len(open) - 1; i >= 0; i-- {
		lines = append(lines, "END:"+open[i])
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}
