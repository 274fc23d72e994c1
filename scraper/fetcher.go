package scraper

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// userAgents is the identity pool rotated across requests to reduce
// fingerprint-based blocking.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:123.0) Gecko/20100101 Firefox/123.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_3) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
}

// FetchError wraps any failure to retrieve a product page: transport errors,
// timeouts and non-2xx responses. The monitor treats it as "skip this
// product, continue the pass".
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher performs the page GET with anti-blocking measures: a rotating
// User-Agent, a randomized pre-request delay and a bounded timeout.
type Fetcher struct {
	client   *http.Client
	logger   *zap.Logger
	MinDelay time.Duration
	MaxDelay time.Duration
}

func NewFetcher(logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
		MinDelay: 1500 * time.Millisecond,
		MaxDelay: 4 * time.Second,
	}
}

// SetTimeout overrides the per-request timeout (15s by default).
func (f *Fetcher) SetTimeout(d time.Duration) {
	f.client.Timeout = d
}

// Fetch retrieves the page body at url. It sleeps a random interval inside
// the configured window first, so consecutive requests in a pass never hit
// hosts in a tight burst; the sleep aborts early on context cancellation.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.delay(ctx); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	ua := userAgents[rand.Intn(len(userAgents))]
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-CO,es;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("DNT", "1")
	// Accept-Encoding is left to the transport so gzip bodies arrive decoded.

	f.logger.Debug("fetching page", zap.String("url", url), zap.String("user_agent", ua))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	return body, nil
}

// delay sleeps for a uniformly random duration in [MinDelay, MaxDelay].
func (f *Fetcher) delay(ctx context.Context) error {
	window := f.MaxDelay - f.MinDelay
	wait := f.MinDelay
	if window > 0 {
		wait += time.Duration(rand.Int63n(int64(window)))
	}
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
