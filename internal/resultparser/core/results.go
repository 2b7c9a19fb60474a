package core

import (
	"encoding/json"
	"net/netip"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// TextParsedResult is the fallback for payloads no parser claimed.
type TextParsedResult struct {
	text     string
	language string
}

// NewTextParsedResult creates text parsed result.
func NewTextParsedResult(text, language string) *TextParsedResult {
	return &TextParsedResult{text: text, language: language}
}

func (r *TextParsedResult) Type() ResultType { return ResultText }

func (r *TextParsedResult) Text() string { return r.text }

// Language is the payload's language tag, if one was known.
func (r *TextParsedResult) Language() string { return r.language }

func (r *TextParsedResult) DisplayResult() string { return r.text }

// MarshalJSON implements json.Marshaler.
func (r *TextParsedResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Text     string `json:"text"`
		Language string `json:"language,omitempty"`
	}{r.text, r.language})
}

var (
	// RFC 3986 scheme followed by its colon.
	schemeRE   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)
	hostPortRE = regexp.MustCompile(`^[a-zA-Z0-9\-.]+:\d{1,5}(/|\?|$)`)
)

// URIParsedResult is a payload that looks like a URI.
type URIParsedResult struct {
	uri   string
	title string
}

// NewURIParsedResult creates u r i parsed result.
func NewURIParsedResult(uri, title string) *URIParsedResult {
	return &URIParsedResult{uri: uri, title: title}
}

func (r *URIParsedResult) Type() ResultType { return ResultURI }

// URI is the text that was matched, without any normalization.
func (r *URIParsedResult) URI() string { return r.uri }

func (r *URIParsedResult) Title() string { return r.title }

// WithTitle returns a copy of r carrying title.
func (r *URIParsedResult) WithTitle(title string) *URIParsedResult {
	return &URIParsedResult{uri: r.uri, title: title}
}

// Href returns the URI with http:// prepended when it carries no scheme.
// A leading host:port is not a scheme.
func (r *URIParsedResult) Href() string {
	uri := strings.TrimSpace(r.uri)
	if uri == "" {
		return ""
	}
	if !schemeRE.MatchString(uri) || hostPortRE.MatchString(uri) {
		return "http://" + uri
	}
	return uri
}

// Domain returns the registrable domain (eTLD+1) of the URI's host, or ""
// when there is none. IP hosts have none.
func (r *URIParsedResult) Domain() string {
	u, err := url.Parse(r.Href())
	if err != nil || u == nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	if _, err := netip.ParseAddr(host); err == nil {
		return ""
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return domain
}

func (r *URIParsedResult) DisplayResult() string {
	var b strings.Builder
	appendField(&b, r.title)
	appendField(&b, r.uri)
	return b.String()
}

// MarshalJSON implements json.Marshaler.
func (r *URIParsedResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		URI    string `json:"uri"`
		Href   string `json:"href"`
		Domain string `json:"domain,omitempty"`
		Title  string `json:"title,omitempty"`
	}{r.uri, r.Href(), r.Domain(), r.title})
}
