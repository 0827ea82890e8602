package feed

import (
	"context"
	"io"
	"net/http"
	"time"

	"hknews/internal/types"
)

// userAgent mimics a desktop browser; several of the configured publishers
// reject requests with a default Go client identity.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Fetcher downloads raw feed payloads. One bounded-timeout GET per call,
// no retries: a failed feed contributes nothing until the next cycle.
type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{},
	}
}

// Fetch performs a single GET against url with the given timeout budget and
// returns the raw response body. Network errors, timeouts and non-2xx
// responses all surface as a *types.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, types.NewFetchError(url, 0, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, types.NewFetchError(url, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, types.NewFetchError(url, resp.StatusCode, nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewFetchError(url, 0, err)
	}

	return data, nil
}
