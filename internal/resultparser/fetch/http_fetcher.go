package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultUserAgent = "Mozilla/5.0 (compatible; ScanParse/1.0)"
	maxBodyBytes     = 5 << 20
)

// Response is a fetched page.
type Response struct {
	URL         string
	Status      int
	ContentType string
	Body        []byte
}

// IsHTML reports whether the response declares an HTML media type. An empty
// Content-Type is treated as HTML.
func (r *Response) IsHTML() bool {
	if r == nil {
		return false
	}
	ct := strings.ToLower(strings.TrimSpace(r.ContentType))
	if ct == "" {
		return true
	}
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}

// HTTPFetcher is a retrying GET client with a per-host rate limit.
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	retries     int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	limiter     *HostRateLimiter
	logger      *slog.Logger

	randMu sync.Mutex
	rand   *rand.Rand
}

// Config tunes HTTPFetcher. Zero values pick defaults.
type Config struct {
	Timeout      time.Duration
	Retries      int
	BaseBackoff  time.Duration
	MaxBackoff   time.Duration
	RateLimitRPS float64
	RateBurst    int
	UserAgent    string
	// AllowPrivateNetworks lets the fetcher dial loopback and private
	// addresses. Off by default.
	AllowPrivateNetworks bool
}

// NewHTTPFetcher creates h t t p fetcher. Unless cfg.AllowPrivateNetworks is
// set, dials to non-public addresses fail with BlockedAddressError.
func NewHTTPFetcher(logger *slog.Logger, cfg Config) *HTTPFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 250 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 2 * time.Second
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 1
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 2
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = defaultUserAgent
	}
	dialer := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       60 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if cfg.AllowPrivateNetworks {
		transport.Proxy = http.ProxyFromEnvironment
	} else {
		// A proxy would dial on our behalf and bypass the address check.
		dialer.Control = publicOnlyControl
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		userAgent:   cfg.UserAgent,
		retries:     cfg.Retries,
		baseBackoff: cfg.BaseBackoff,
		maxBackoff:  cfg.MaxBackoff,
		limiter:     NewHostRateLimiter(cfg.RateLimitRPS, cfg.RateBurst),
		logger:      logger,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Get fetches rawURL, retrying transient failures and 429/5xx statuses.
func (f *HTTPFetcher) Get(ctx context.Context, rawURL string) (*Response, error) {
	if f == nil {
		return nil, errors.New("fetcher is nil")
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	host := parsedURL.Hostname()

	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if err := f.limiter.Wait(ctx, host); err != nil {
			return nil, err
		}
		resp, err := f.doRequest(ctx, rawURL)
		if err == nil {
			if shouldRetryStatus(resp.Status) && attempt < f.retries {
				lastErr = fmt.Errorf("transient status %d", resp.Status)
				f.logger.Warn("fetch_retry_status", "host", host, "status", resp.Status, "attempt", attempt+1)
				if err := f.sleepBackoff(ctx, attempt); err != nil {
					return resp, err
				}
				continue
			}
			return resp, nil
		}
		lastErr = err
		if !isTransientError(err) || attempt >= f.retries {
			return nil, err
		}
		f.logger.Warn("fetch_retry_error", "host", host, "attempt", attempt+1, "error", err)
		if err := f.sleepBackoff(ctx, attempt); err != nil {
			return nil, err
		}
	}
	if lastErr == nil {
		lastErr = errors.New("fetch failed")
	}
	return nil, lastErr
}

func (f *HTTPFetcher) doRequest(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	out := &Response{
		URL:         resp.Request.URL.String(),
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}
	if err != nil {
		return out, err
	}
	return out, nil
}

func (f *HTTPFetcher) sleepBackoff(ctx context.Context, attempt int) error {
	d := backoffDuration(f.baseBackoff, attempt, f.jitter)
	if d > f.maxBackoff {
		d = f.maxBackoff
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (f *HTTPFetcher) jitter(max int64) int64 {
	if max <= 0 {
		return 0
	}
	f.randMu.Lock()
	defer f.randMu.Unlock()
	return f.rand.Int63n(max + 1)
}

// shouldRetryStatus reports whether should retry status.
func shouldRetryStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500 && status <= 599
}

// isTransientError reports whether transient error condition is met.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
