package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.waktusolat.app"
	userAgent      = "solat/1.0"

	// requestsPerSecond and requestBurst throttle outgoing calls so repeated
	// zone changes or reloads cannot hammer the public API.
	requestsPerSecond = 1
	requestBurst      = 3
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.Code, e.Body)
}

// Client communicates with the waktusolat prayer times API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	// BaseURL is the API base URL. Defaults to the waktusolat API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		BaseURL: defaultBaseURL,
	}
}

// FetchZones fetches the JAKIM zone catalog.
func (c *Client) FetchZones(ctx context.Context) ([]Zone, error) {
	body, err := c.get(ctx, "/zones")
	if err != nil {
		return nil, err
	}

	var zones []Zone
	if err := json.Unmarshal(body, &zones); err != nil {
		return nil, fmt.Errorf("failed to decode zones: %w", err)
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("API returned an empty zone list")
	}
	return zones, nil
}

// FetchSchedule fetches the current month's prayer schedule for a zone code.
func (c *Client) FetchSchedule(ctx context.Context, zone string) (*Schedule, error) {
	code := NormalizeZone(zone)
	if code == "" {
		return nil, fmt.Errorf("zone code is required")
	}

	body, err := c.get(ctx, "/v2/solat/"+url.PathEscape(code))
	if err != nil {
		return nil, err
	}

	var s Schedule
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("failed to decode schedule for %s: %w", code, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("schedule for %s: %w", code, err)
	}
	s.Raw = body

	return &s, nil
}

// FetchZoneByCoordinates asks the API which zone contains the given point.
func (c *Client) FetchZoneByCoordinates(ctx context.Context, lat, lon float64) (*ZoneMatch, error) {
	path := fmt.Sprintf("/zones/%s/%s",
		strconv.FormatFloat(lat, 'f', 6, 64),
		strconv.FormatFloat(lon, 'f', 6, 64))

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var m ZoneMatch
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("failed to decode zone lookup: %w", err)
	}
	if m.Zone == "" {
		return nil, fmt.Errorf("no zone found for %.4f, %.4f", lat, lon)
	}
	return &m, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("API request throttled: %w", err)
		}
	}

	reqURL := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read API response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}

// NormalizeZone trims and upper-cases a zone code ("ktn01 " -> "KTN01").
func NormalizeZone(zone string) string {
	return strings.ToUpper(strings.TrimSpace(zone))
}
