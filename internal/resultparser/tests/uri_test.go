package tests

import (
	"testing"

	"scanparse/internal/resultparser/core"
	"scanparse/internal/resultparser/extract"
	"scanparse/internal/resultparser/parsers"
)

func TestLooksLikeURI(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "http://example.com", want: true},
		{input: "HTTPS://EXAMPLE.COM/PATH", want: true},
		{input: "https://example.com:8443/a?b=c", want: true},
		{input: "ftp:files.example.org", want: true},
		{input: "example.com/path", want: true},
		{input: "example.com", want: true},
		{input: "example.com?q=1", want: true},
		{input: "example.com:8080", want: true},
		{input: "sub-domain.example.co.uk/x y z", want: true},
		{input: "not a url at all", want: false},
		{input: "  http://example.com", want: false},
		{input: "http://", want: false},
		{input: "http://example.com is great", want: false},
		{input: "visit example.com", want: false},
		{input: "mailto:bob@example.com", want: false},
		{input: "tel:+15551234567", want: false},
		{input: "a.b", want: false},
		{input: "example", want: false},
		{input: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := extract.LooksLikeURI(tt.input); got != tt.want {
				t.Fatalf("LooksLikeURI(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestURIParser(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantURI string
		match   bool
	}{
		{name: "plain", input: "http://example.com", wantURI: "http://example.com", match: true},
		{name: "trimmed", input: "  http://example.com  ", wantURI: "http://example.com", match: true},
		{name: "url_marker", input: "URL:http://example.com", wantURI: "http://example.com", match: true},
		{name: "url_marker_with_space", input: "URL: example.com/menu\n", wantURI: "example.com/menu", match: true},
		{name: "lowercase_marker_kept", input: "url:example.com", wantURI: "url:example.com", match: true},
		{name: "prose", input: "hello world", match: false},
		{name: "empty_after_marker", input: "URL:", match: false},
	}
	p := parsers.NewURIParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := p.Parse(tt.input)
			if ok != tt.match {
				t.Fatalf("match = %v, want %v", ok, tt.match)
			}
			if !ok {
				if result != nil {
					t.Fatalf("expected nil result on no-match, got %T", result)
				}
				return
			}
			uri, isURI := result.(*core.URIParsedResult)
			if !isURI {
				t.Fatalf("expected URIParsedResult, got %T", result)
			}
			if uri.URI() != tt.wantURI {
				t.Fatalf("unexpected uri: %q", uri.URI())
			}
			if uri.Title() != "" {
				t.Fatalf("expected no title, got %q", uri.Title())
			}
			if uri.Type() != core.ResultURI {
				t.Fatalf("unexpected type: %s", uri.Type())
			}
		})
	}
}

func TestURIParsedResultHrefAndDomain(t *testing.T) {
	tests := []struct {
		uri    string
		href   string
		domain string
	}{
		{uri: "http://example.com", href: "http://example.com", domain: "example.com"},
		{uri: "example.com/path", href: "http://example.com/path", domain: "example.com"},
		{uri: "example.com:8080/x", href: "http://example.com:8080/x", domain: "example.com"},
		{uri: "https://www.bbc.co.uk/news", href: "https://www.bbc.co.uk/news", domain: "bbc.co.uk"},
		{uri: "mailto:bob@example.com", href: "mailto:bob@example.com", domain: ""},
		{uri: "http://127.0.0.1/x", href: "http://127.0.0.1/x", domain: ""},
		{uri: "192.168.1.10:8080/a", href: "http://192.168.1.10:8080/a", domain: ""},
		{uri: "http://[::1]:8080/", href: "http://[::1]:8080/", domain: ""},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			r := core.NewURIParsedResult(tt.uri, "")
			if got := r.Href(); got != tt.href {
				t.Fatalf("Href() = %q, want %q", got, tt.href)
			}
			if got := r.Domain(); got != tt.domain {
				t.Fatalf("Domain() = %q, want %q", got, tt.domain)
			}
		})
	}
}

func TestURIParsedResultDisplay(t *testing.T) {
	r := core.NewURIParsedResult("http://example.com", "")
	if got := r.DisplayResult(); got != "http://example.com" {
		t.Fatalf("unexpected display: %q", got)
	}
	titled := r.WithTitle("Example Domain")
	if got := titled.DisplayResult(); got != "Example Domain\nhttp://example.com" {
		t.Fatalf("unexpected titled display: %q", got)
	}
	if r.Title() != "" {
		t.Fatalf("WithTitle must not modify the receiver")
	}
}
