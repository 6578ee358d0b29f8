package cwa

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"tide_notification_bot/internal/domain/tide"

	"github.com/sirupsen/logrus"
)

// maxBodyBytes bounds how much of a response is read; a single-day forecast is a few KB.
const maxBodyBytes = 2 << 20

// Client fetches tide forecasts from the CWA open-data API (dataset F-A0021-001).
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Entry
}

// NewClient creates a CWA client. An empty apiKey is accepted; every lookup
// then fails with tide.ErrMissingAPIKey without touching the network.
func NewClient(baseURL, apiKey string, logger *logrus.Entry) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// FetchDaily retrieves the forecast of regionID for date (YYYY-MM-DD).
// There is no retry and no caching.
func (c *Client) FetchDaily(ctx context.Context, date, regionID string) (*tide.DailyForecast, error) {
	if c.apiKey == "" {
		return nil, tide.ErrMissingAPIKey
	}

	params := url.Values{}
	params.Add("Authorization", c.apiKey)
	params.Add("format", "JSON")
	params.Add("LocationId", regionID)
	params.Add("Date", date)
	params.Add("limit", "1")

	requestURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", tide.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	log := c.logger.WithFields(logrus.Fields{"region_id": regionID, "date": date})
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("Tide request failed")
		return nil, fmt.Errorf("%w: %v", tide.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithField("status", resp.StatusCode).Warn("Tide API returned non-2xx status")
		return nil, fmt.Errorf("%w: API returned status %d", tide.ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", tide.ErrUpstream, err)
	}

	forecast, err := ParseDaily(body)
	if err != nil {
		log.WithError(err).Info("Tide response carried no usable forecast")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"events":   len(forecast.Events),
		"duration": time.Since(started).String(),
	}).Debug("Tide forecast fetched")
	return forecast, nil
}
