package resultparser

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"scanparse/internal/resultparser/core"
	"scanparse/internal/resultparser/parsers"
)

const (
	ParserCalendar = "calendar"
	ParserURI      = "uri"
)

// DefaultOrder lists parsers by priority. Calendar records come first so a
// VEVENT is never mistaken for a URI.
var DefaultOrder = []string{ParserCalendar, ParserURI}

var (
	defaultOnce       sync.Once
	defaultDispatcher *core.Dispatcher
)

// UnknownParserError reports a parser name with no registered constructor.
type UnknownParserError struct {
	Name string
}

// Error handles internal error behavior.
func (e *UnknownParserError) Error() string {
	if e == nil {
		return "unknown parser"
	}
	return fmt.Sprintf("unknown parser %q (known: %s)", e.Name, strings.Join(DefaultOrder, ", "))
}

// Parse classifies raw with the default dispatcher.
func Parse(raw string) core.ParsedResult {
	return DefaultDispatcher().Parse(raw)
}

func DefaultDispatcher() *core.Dispatcher {
	defaultOnce.Do(func() {
		d, err := NewDispatcher(nil, nil, DefaultOrder...)
		if err != nil {
			panic(err)
		}
		defaultDispatcher = d
	})
	return defaultDispatcher
}

// NewDispatcher builds a dispatcher trying the named parsers in order. An
// empty names list uses DefaultOrder. loc is the zone calendar times resolve
// against; nil means time.Local.
func NewDispatcher(logger *slog.Logger, loc *time.Location, names ...string) (*core.Dispatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(names) == 0 {
		names = DefaultOrder
	}
	seen := make(map[string]struct{}, len(names))
	list := make([]core.Parser, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		p, err := newParser(name, logger, loc)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return core.NewDispatcher(logger, list...), nil
}

func newParser(name string, logger *slog.Logger, loc *time.Location) (core.Parser, error) {
	switch name {
	case ParserCalendar:
		return parsers.NewVEventParser(loc, logger.With("parser", ParserCalendar)), nil
	case ParserURI:
		return parsers.NewURIParser(), nil
	default:
		return nil, &UnknownParserError{Name: name}
	}
}
