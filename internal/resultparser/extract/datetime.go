package extract

import (
	"fmt"
	"regexp"
	"time"
)

// RFC 2445 DATE (20081021) or DATE-TIME (20081021T123000, 20081021T123000Z).
var dateTimeTokenRE = regexp.MustCompile(`^[0-9]{8}(T[0-9]{6}Z?)?$`)

const (
	dateLayout     = "20060102"
	dateTimeLayout = "20060102T150405"

	longDateLayout = "Monday, January 2, 2006"
	fullDateLayout = "Monday, January 2, 2006 3:04:05 PM"
)

// FormatError reports a token that is not an RFC 2445 DATE or DATE-TIME.
type FormatError struct {
	Input  string
	Reason string
}

// Error implements error.
func (e *FormatError) Error() string {
	if e == nil {
		return "invalid date format"
	}
	if e.Reason != "" {
		return fmt.Sprintf("invalid date format %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid date format %q", e.Input)
}

// ParseDate parses token as a DATE or DATE-TIME, treating time.Local as the
// local zone.
func ParseDate(token string) (time.Time, error) {
	return ParseDateIn(token, time.Local)
}

// ParseDateIn parses token as a DATE or DATE-TIME.
//
// DATE values and DATE-TIME values without a trailing Z are floating: they
// are read as wall-clock values in loc. A trailing Z marks UTC, and the
// result is converted into loc.
func ParseDateIn(token string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if !dateTimeTokenRE.MatchString(token) {
		return time.Time{}, &FormatError{Input: token, Reason: "expected YYYYMMDD[THHMMSS[Z]]"}
	}
	switch len(token) {
	case len(dateLayout):
		t, err := time.ParseInLocation(dateLayout, token, loc)
		if err != nil {
			return time.Time{}, &FormatError{Input: token, Reason: err.Error()}
		}
		return t, nil
	case len(dateTimeLayout) + 1:
		t, err := time.ParseInLocation(dateTimeLayout, token[:len(dateTimeLayout)], time.UTC)
		if err != nil {
			return time.Time{}, &FormatError{Input: token, Reason: err.Error()}
		}
		return t.In(loc), nil
	case len(dateTimeLayout):
		t, err := time.ParseInLocation(dateTimeLayout, token, loc)
		if err != nil {
			return time.Time{}, &FormatError{Input: token, Reason: err.Error()}
		}
		return t, nil
	default:
		return time.Time{}, &FormatError{Input: token, Reason: "unexpected length"}
	}
}

// IsAllDayToken reports whether token carries only a date. It must be
// derived from the token: a local midnight DATE-TIME looks the same once
// parsed.
func IsAllDayToken(token string) bool {
	return len(token) == len(dateLayout)
}

// FormatDate renders t for display. A nil t renders as "".
func FormatDate(allDay bool, t *time.Time) string {
	if t == nil {
		return ""
	}
	if allDay {
		return t.Format(longDateLayout)
	}
	return t.Format(fullDateLayout)
}
