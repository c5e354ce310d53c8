// Package googlebooks imports catalog entries from the Google Books volumes API.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/books/v1"

	// the volumes endpoint refuses maxResults above 40
	MaxPageSize = 40

	rateBurst = 2

	maxRetries   = 4
	initialDelay = 1 * time.Second
	maxDelay     = 16 * time.Second
)

// Client talks to the volumes API with client-side throttling and retries.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	log         *slog.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewClient(baseURL, apiKey string, rps float64, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if rps <= 0 {
		rps = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), rateBurst),
		log:         log.With("component", "googlebooks"),
		sleep:       sleepCtx,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Search returns one page of volumes matching query, starting at startIndex.
func (c *Client) Search(ctx context.Context, query string, startIndex, maxResults int) (*VolumesResponse, error) {
	if maxResults < 1 || maxResults > MaxPageSize {
		maxResults = MaxPageSize
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("startIndex", strconv.Itoa(startIndex))
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("printType", "books")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	var result VolumesResponse
	if err := c.getJSON(ctx, c.baseURL+"/volumes?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("search volumes %q: %w", query, err)
	}
	return &result, nil
}

// Download fetches a raw resource such as a cover image.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	return c.do(ctx, rawURL)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	body, err := c.do(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// do performs a GET with rate limiting and exponential backoff on 429 and 5xx.
func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("failed to read response: %w", readErr)
			case resp.StatusCode == http.StatusOK:
				return body, nil
			case !shouldRetry(resp.StatusCode):
				return nil, &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
			default:
				lastErr = &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
				if retryAfter, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && retryAfter > 0 {
					delay = time.Duration(retryAfter) * time.Second
				}
			}
		}

		if attempt == maxRetries {
			break
		}
		c.log.Warn("request failed, retrying",
			"attempt", attempt+1, "max_retries", maxRetries, "delay", delay, "error", lastErr)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
		delay = min(delay*2, maxDelay)
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries+1, lastErr)
}

// HTTPError is a non-200 answer from the API.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
