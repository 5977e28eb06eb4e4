package engage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"
)

const userAgent = "FirefoxMarketing/1.0 Go"

// httpTransport handles HTTP communication with the Engage server. It
// retries 5xx and network errors with exponential backoff and full
// jitter; 4xx responses fail immediately.
type httpTransport struct {
	client     *http.Client
	endpoint   string
	maxRetries int
}

func newHTTPTransport(cfg Config) *httpTransport {
	return &httpTransport{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		endpoint:   cfg.Endpoint,
		maxRetries: cfg.MaxRetries,
	}
}

// post sends body as JSON to path and decodes the response into out
// when out is non-nil. The API key travels per call because identity is
// bound after the transport is built.
func (t *httpTransport) post(ctx context.Context, path, apiKey string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("engage: marshal request: %w", err)
	}
	return t.do(ctx, http.MethodPost, path, apiKey, encoded, out)
}

// get fetches path and decodes the response into out when non-nil.
func (t *httpTransport) get(ctx context.Context, path, apiKey string, out any) error {
	return t.do(ctx, http.MethodGet, path, apiKey, nil, out)
}

func (t *httpTransport) do(ctx context.Context, method, path, apiKey string, body []byte, out any) error {
	url := t.endpoint + path

	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			delay := exponentialBackoff(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return fmt.Errorf("engage: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", userAgent)
		if apiKey != "" {
			req.Header.Set("X-API-Key", apiKey)
		}

		resp, err := t.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("engage: request failed: %w", err)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if out != nil {
				err = json.NewDecoder(resp.Body).Decode(out)
			} else {
				// Drain so the connection can be reused.
				_, _ = io.Copy(io.Discard, resp.Body)
			}
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("engage: decode response: %w", err)
			}
			return nil
		}

		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return fmt.Errorf("engage: client error: status %d", resp.StatusCode)
		}
		lastErr = fmt.Errorf("engage: server error: status %d", resp.StatusCode)
	}

	return lastErr
}

// exponentialBackoff calculates the delay before a retry attempt using
// exponential backoff with full jitter. Base delay 100ms, cap 10s.
func exponentialBackoff(attempt int) time.Duration {
	const (
		baseDelay = 100 * time.Millisecond
		maxDelay  = 10 * time.Second
	)

	delay := float64(baseDelay) * math.Pow(2, float64(attempt))
	if delay > float64(maxDelay) {
		delay = float64(maxDelay)
	}
	jitter := rand.Float64() * delay

	return time.Duration(jitter)
}
