// Package nasa implements the outbound client for the NASA NeoWs feed API.
package nasa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/orbitwatch/neo-data-service/internal/config"
	"github.com/orbitwatch/neo-data-service/internal/domain"
	"github.com/orbitwatch/neo-data-service/internal/observability"
)

// Client fetches close-approach records from the NeoWs /feed endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	attempts   int
	retryDelay time.Duration
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a feed client from config.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey:  cfg.NasaAPIKey,
		baseURL: cfg.NasaBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.NasaTimeout,
		},
		attempts:   cfg.NasaRetryAttempts,
		retryDelay: cfg.NasaRetryDelay,
		logger:     logger,
		metrics:    metrics,
	}
}

// feedResponse is the NeoWs /feed envelope. Records are grouped under a map
// keyed by date string.
type feedResponse struct {
	NearEarthObjects map[string][]domain.RawNeoRecord `json:"near_earth_objects"`
}

// Fetch returns the raw NEO records for one calendar date. It requests the
// single-day range [date, date] and extracts the list under the date key;
// an absent key is a valid empty day, not an error.
//
// Transport failures and 5xx/429 responses are retried up to the configured
// attempt count with a fixed delay between attempts. Other non-2xx statuses
// fail immediately. A persistent failure status is returned as a
// *domain.ProviderHTTPError; a persistent transport failure as a wrapped
// transport error.
func (c *Client) Fetch(ctx context.Context, date string) ([]domain.RawNeoRecord, error) {
	params := url.Values{
		"start_date": {date},
		"end_date":   {date},
		"api_key":    {c.apiKey},
	}
	fullURL := c.baseURL + "/feed?" + params.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			if !sleepWithContext(ctx, c.retryDelay) {
				break
			}
		}

		records, retryable, err := c.doRequest(ctx, fullURL, date)
		if err == nil {
			return records, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		if attempt < c.attempts {
			c.logger.Warn("feed request failed, retrying",
				"date", date, "attempt", attempt, "error", err)
		}
	}

	if ctx.Err() != nil && lastErr == nil {
		lastErr = ctx.Err()
	}
	c.logger.Error("feed request failed", "date", date, "error", lastErr)
	return nil, lastErr
}

// doRequest performs one feed request. The second return value reports
// whether the failure is worth retrying.
func (c *Client) doRequest(ctx context.Context, fullURL, date string) ([]domain.RawNeoRecord, bool, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues("transport_error").Inc()
		return nil, true, fmt.Errorf("feed request for %s: %w", date, err)
	}
	defer resp.Body.Close()

	c.metrics.ProviderRequestDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.metrics.ProviderRequests.WithLabelValues("http_error").Inc()
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retryable, &domain.ProviderHTTPError{Status: resp.StatusCode, Body: string(body)}
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		c.metrics.ProviderRequests.WithLabelValues("transport_error").Inc()
		return nil, true, fmt.Errorf("decode feed response: %w", err)
	}

	c.metrics.ProviderRequests.WithLabelValues("success").Inc()
	return feed.NearEarthObjects[date], false, nil
}

// IsTransportError reports whether err is a network-level failure rather
// than a provider failure status.
func IsTransportError(err error) bool {
	var httpErr *domain.ProviderHTTPError
	return err != nil && !errors.As(err, &httpErr)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
