package parsers

import (
	"strings"

	"scanparse/internal/resultparser/core"
	"scanparse/internal/resultparser/extract"
)

// urlMarker is the odd "URL:" scheme some encoders emit.
const urlMarker = "URL:"

// URIParser recognizes payloads that look like a URI.
type URIParser struct{}

func NewURIParser() *URIParser {
	return &URIParser{}
}

func (p *URIParser) Parse(raw string) (core.ParsedResult, bool) {
	text := strings.TrimSpace(strings.TrimPrefix(raw, urlMarker))
	if !extract.LooksLikeURI(text) {
		return nil, false
	}
	return core.NewURIParsedResult(text, ""), true
}
