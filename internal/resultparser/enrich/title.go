package enrich

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"scanparse/internal/resultparser/core"
	"scanparse/internal/resultparser/fetch"
)

const (
	maxTitleRunes = 200
	hintNonPublic = "non-public host"
)

// Fetcher retrieves a page for title lookup.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (*fetch.Response, error)
}

// TitleUnavailableError reports a page whose title could not be read.
type TitleUnavailableError struct {
	URL  string
	Hint string
}

// Error handles internal error behavior.
func (e *TitleUnavailableError) Error() string {
	if e == nil {
		return "title unavailable"
	}
	if e.Hint != "" {
		return fmt.Sprintf("title unavailable for %s: %s", e.URL, e.Hint)
	}
	return fmt.Sprintf("title unavailable for %s", e.URL)
}

// TitleResolver fills in URIParsedResult titles from the linked page.
type TitleResolver struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewTitleResolver(fetcher Fetcher, logger *slog.Logger) *TitleResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &TitleResolver{fetcher: fetcher, logger: logger}
}

// Resolve returns a copy of result titled after the page it links to. Results
// that already have a title, or whose URI is not http(s), are returned as is.
// Hosts outside the public internet are never fetched.
func (r *TitleResolver) Resolve(ctx context.Context, result *core.URIParsedResult) (*core.URIParsedResult, error) {
	if result == nil {
		return nil, fmt.Errorf("nil result")
	}
	if result.Title() != "" {
		return result, nil
	}
	href := result.Href()
	u, err := url.Parse(href)
	if err != nil || u == nil {
		return result, nil
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return result, nil
	}
	if r == nil || r.fetcher == nil {
		return nil, fmt.Errorf("title resolver is not configured")
	}
	if !publicHost(u.Hostname()) {
		return nil, &TitleUnavailableError{URL: href, Hint: hintNonPublic}
	}

	resp, err := r.fetcher.Get(ctx, href)
	if err != nil {
		var blocked *fetch.BlockedAddressError
		if errors.As(err, &blocked) {
			return nil, &TitleUnavailableError{URL: href, Hint: hintNonPublic}
		}
		return nil, err
	}
	if resp.Status >= http.StatusBadRequest {
		return nil, &TitleUnavailableError{URL: href, Hint: fmt.Sprintf("status %d", resp.Status)}
	}
	if !resp.IsHTML() {
		return nil, &TitleUnavailableError{URL: href, Hint: "not html: " + resp.ContentType}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, err
	}
	title := pageTitle(doc)
	if title == "" {
		return nil, &TitleUnavailableError{URL: href, Hint: "no title"}
	}
	r.logger.Debug("title_resolved", "domain", result.Domain(), "status", resp.Status)
	return result.WithTitle(title), nil
}

// publicHost rejects IP literals outside the public internet and localhost
// names. Names that resolve to internal addresses are refused by the fetcher.
func publicHost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" || host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return false
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return fetch.IsPublicAddr(addr)
	}
	return true
}

func pageTitle(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if clean := cleanTitle(v); clean != "" {
			return clean
		}
	}
	return cleanTitle(doc.Find("title").First().Text())
}

func cleanTitle(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > maxTitleRunes {
		s = strings.TrimSpace(string(runes[:maxTitleRunes]))
	}
	return s
}
