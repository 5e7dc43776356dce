package banks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"banks-etl/models"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher retrieves the raw HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher performs a single plain GET per call. A zero timeout waits
// indefinitely.
type HTTPFetcher struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPFetcher returns an HTTPFetcher. client may be nil.
func NewHTTPFetcher(client *http.Client, timeout time.Duration) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPFetcher{client: client, timeout: timeout}
}

// Fetch downloads url. Any transport failure or non-2xx status is a *models.FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &models.FetchError{URL: url, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &models.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &models.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &models.FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	return string(body), nil
}
