package extract

import (
	"regexp"
)

const (
	uriPatternEnd = `(:\d{1,5})?` + // port
		`(/|\?|$)` // path, query or nothing

	uriWithSchemePattern = `[a-zA-Z0-9]{2,}:(/)*` + // scheme
		`[a-zA-Z0-9\-]+(\.[a-zA-Z0-9\-]+)*` + // host name elements
		uriPatternEnd

	uriWithoutSchemePattern = `([a-zA-Z0-9\-]+\.)+[a-zA-Z0-9\-]{2,}` + // host name elements
		uriPatternEnd
)

var (
	uriWithSchemeRE    = regexp.MustCompile(uriWithSchemePattern)
	uriWithoutSchemeRE = regexp.MustCompile(uriWithoutSchemePattern)
)

// LooksLikeURI reports whether text starts with something shaped like a URI,
// with or without a scheme. Only matches beginning at index 0 count, so
// leading whitespace or prose before the URI rejects it.
func LooksLikeURI(text string) bool {
	if matchesAtStart(uriWithSchemeRE, text) {
		return true
	}
	return matchesAtStart(uriWithoutSchemeRE, text)
}

func matchesAtStart(re *regexp.Regexp, text string) bool {
	loc := re.FindStringIndex(text)
	return loc != nil && loc[0] == 0
}
