package tests

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"scanparse/internal/resultparser"
	"scanparse/internal/resultparser/core"
	"scanparse/internal/resultparser/fetch"
)

// testZone is a fixed "local" zone so results do not depend on the host TZ.
var testZone = time.FixedZone("UTC+3", 3*60*60)

type fakeFetcher struct {
	responses map[string]*fetch.Response
	errs      map[string]error
	calls     []string
}

func (f *fakeFetcher) Get(_ context.Context, rawURL string) (*fetch.Response, error) {
	if f == nil {
		return nil, fmt.Errorf("fetcher is nil")
	}
	f.calls = append(f.calls, rawURL)
	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	if resp, ok := f.responses[rawURL]; ok {
		return resp, nil
	}
	keys := make([]string, 0, len(f.responses))
	for k := range f.responses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return nil, fmt.Errorf("no fake response for %s; available: %v", rawURL, keys)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDispatcher(names ...string) *core.Dispatcher {
	d, err := resultparser.NewDispatcher(quietLogger(), testZone, names...)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }
