package core

import (
	"fmt"
	"strings"
)

// ResultType tags the variant of a ParsedResult. Parsers living outside this
// module may declare their own values.
type ResultType string

const (
	ResultCalendar ResultType = "calendar"
	ResultURI      ResultType = "uri"
	ResultText     ResultType = "text"
)

// ParsedResult is an immutable classification of a scanned payload.
type ParsedResult interface {
	Type() ResultType
	// DisplayResult joins the present fields, one per line.
	DisplayResult() string
}

// Parser attempts to classify raw text. A false second return means the
// input is not of this parser's type; the dispatcher moves on to the next
// parser.
type Parser interface {
	Parse(raw string) (ParsedResult, bool)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(raw string) (ParsedResult, bool)

// Parse calls f(raw).
func (f ParserFunc) Parse(raw string) (ParsedResult, bool) {
	return f(raw)
}

// ArgumentError reports a field that a result could not be built from.
type ArgumentError struct {
	Field string
	Value string
	Err   error
}

// Error implements error.
func (e *ArgumentError) Error() string {
	if e == nil {
		return "invalid argument"
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// Unwrap returns the underlying cause.
func (e *ArgumentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// appendField adds value to b on its own line. Empty values are skipped.
func appendField(b *strings.Builder, value string) {
	if value == "" {
		return
	}
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(value)
}

// Envelope is the wire projection of a ParsedResult.
type Envelope struct {
	Type    ResultType   `json:"type"`
	Display string       `json:"display"`
	Result  ParsedResult `json:"result"`
}

// NewEnvelope wraps r for output.
func NewEnvelope(r ParsedResult) Envelope {
	return Envelope{Type: r.Type(), Display: r.DisplayResult(), Result: r}
}
