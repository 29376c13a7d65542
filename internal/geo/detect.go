// Package geo suggests a prayer zone from the caller's public IP address.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/solat/internal/api"
)

// ErrOutsideCoverage is returned when the detected location is not in Malaysia.
var ErrOutsideCoverage = errors.New("location is outside JAKIM zone coverage")

// Location holds geographic coordinates detected from the user's IP.
type Location struct {
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Timezone    string  `json:"timezone"`
}

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Timezone    string  `json:"timezone"`
}

// geoAPIURL is the geolocation API endpoint. It is a variable (not a constant)
// so that tests can override it with an httptest server URL.
var geoAPIURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,countryCode,timezone"

// ZoneLocator maps coordinates to a zone. *api.Client implements it.
type ZoneLocator interface {
	FetchZoneByCoordinates(ctx context.Context, lat, lon float64) (*api.ZoneMatch, error)
}

// DetectLocation uses ip-api.com to determine the user's location from their
// public IP address. This is a free service that requires no API key.
func DetectLocation(ctx context.Context) (*Location, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geoAPIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build geolocation request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if result.Status != "success" {
		return nil, fmt.Errorf("geolocation failed: %s", result.Message)
	}

	return &Location{
		Latitude:    result.Lat,
		Longitude:   result.Lon,
		City:        result.City,
		Country:     result.Country,
		CountryCode: result.CountryCode,
		Timezone:    result.Timezone,
	}, nil
}

// SuggestZone detects the caller's location and asks the prayer API which
// zone contains it.
func SuggestZone(ctx context.Context, z ZoneLocator) (*api.ZoneMatch, *Location, error) {
	loc, err := DetectLocation(ctx)
	if err != nil {
		return nil, nil, err
	}
	if loc.CountryCode != "" && loc.CountryCode != "MY" {
		return nil, loc, fmt.Errorf("%w: detected %s", ErrOutsideCoverage, loc.Country)
	}

	log.Debug().Float64("lat", loc.Latitude).Float64("lon", loc.Longitude).Str("city", loc.City).Msg("detected location")

	match, err := z.FetchZoneByCoordinates(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return nil, loc, fmt.Errorf("zone lookup: %w", err)
	}
	return match, loc, nil
}
