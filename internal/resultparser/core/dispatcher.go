package core

import (
	"fmt"
	"log/slog"
)

// Dispatcher tries parsers in a fixed order and returns the first match.
type Dispatcher struct {
	parsers []Parser
	logger  *slog.Logger
}

// NewDispatcher creates dispatcher. Parsers are tried in the order given;
// nil entries are dropped.
func NewDispatcher(logger *slog.Logger, parsers ...Parser) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	cloned := make([]Parser, 0, len(parsers))
	for _, p := range parsers {
		if p == nil {
			continue
		}
		cloned = append(cloned, p)
	}
	return &Dispatcher{parsers: cloned, logger: logger}
}

// Len returns the number of registered parsers.
func (d *Dispatcher) Len() int {
	if d == nil {
		return 0
	}
	return len(d.parsers)
}

// Parse classifies raw. It never returns nil: when no parser matches, the
// result is a TextParsedResult holding raw.
func (d *Dispatcher) Parse(raw string) ParsedResult {
	if d == nil {
		return NewTextParsedResult(raw, "")
	}
	for i, p := range d.parsers {
		result, ok := p.Parse(raw)
		if !ok || result == nil {
			continue
		}
		d.logger.Debug("result_classified", "type", result.Type(), "parser", fmt.Sprintf("%T", p), "position", i)
		return result
	}
	d.logger.Debug("result_classified", "type", ResultText, "parser", "fallback")
	return NewTextParsedResult(raw, "")
}
