// SPDX-License-Identifier: AGPL-3.0-only
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Sumanth-CBRE/Weatherbot/internal/config"
	"github.com/Sumanth-CBRE/Weatherbot/internal/logging"
)

// Client performs weather lookups against the NWS API with Open-Meteo as a
// global fallback and Nominatim for geocoding.
//
// Every lookup method returns a best-effort descriptive string and never an
// error: upstream failures become fallback messages so the caller can hand
// the text straight back to the model.
type Client struct {
	nws       *resty.Client
	openMeteo *resty.Client
	nominatim *resty.Client

	// forecastURLs caches the NWS gridpoint forecast URL per coordinate;
	// the points lookup result for a location is stable.
	forecastURLs *lru.Cache[string, string]

	logger *logging.Logger
}

// NewClient creates a weather Client from configuration.
func NewClient(cfg config.WeatherConfig, logger *logging.Logger) (*Client, error) {
	cache, err := lru.New[string, string](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create forecast cache: %w", err)
	}

	nws := resty.New().
		SetBaseURL(cfg.NWSBaseURL).
		SetTimeout(cfg.NWSTimeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/geo+json")

	openMeteo := resty.New().
		SetBaseURL(cfg.OpenMeteoBaseURL).
		SetTimeout(cfg.FallbackTimeout)

	nominatim := resty.New().
		SetBaseURL(cfg.NominatimBaseURL).
		SetTimeout(cfg.FallbackTimeout).
		SetHeader("User-Agent", cfg.UserAgent)

	return &Client{
		nws:          nws,
		openMeteo:    openMeteo,
		nominatim:    nominatim,
		forecastURLs: cache,
		logger:       logger,
	}, nil
}

type alertsResponse struct {
	Features []alertFeature `json:"features"`
}

type alertFeature struct {
	Properties alertProperties `json:"properties"`
}

type alertProperties struct {
	Event       string `json:"event"`
	AreaDesc    string `json:"areaDesc"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Instruction string `json:"instruction"`
}

type pointsResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []forecastPeriod `json:"periods"`
	} `json:"properties"`
}

type forecastPeriod struct {
	Name             string `json:"name"`
	Temperature      int    `json:"temperature"`
	TemperatureUnit  string `json:"temperatureUnit"`
	WindSpeed        string `json:"windSpeed"`
	WindDirection    string `json:"windDirection"`
	DetailedForecast string `json:"detailedForecast"`
}

type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// Alerts returns active weather alerts for a two-letter US state code.
func (c *Client) Alerts(ctx context.Context, state string) string {
	var data alertsResponse
	if err := c.getJSON(ctx, c.nws, fmt.Sprintf("/alerts/active/area/%s", state), nil, &data); err != nil {
		c.logger.Warnf("Alerts lookup failed for %s: %v", state, err)
		return "Unable to fetch alerts or no alerts found."
	}

	if len(data.Features) == 0 {
		return "No active alerts for this state."
	}

	return formatAlerts(data.Features)
}

// Forecast returns the NWS forecast for a coordinate pair. NWS only covers
// US territory; use ForecastWithFallback for worldwide coordinates.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) string {
	forecastURL, err := c.forecastURL(ctx, lat, lon)
	if err != nil {
		c.logger.Warnf("Points lookup failed for (%f, %f): %v", lat, lon, err)
		return "Unable to fetch forecast data for this location."
	}

	var data forecastResponse
	if err := c.getJSON(ctx, c.nws, forecastURL, nil, &data); err != nil {
		c.logger.Warnf("Forecast lookup failed for (%f, %f): %v", lat, lon, err)
		return "Unable to fetch detailed forecast."
	}

	return formatForecast(data.Properties.Periods)
}

// ForecastWithFallback tries the NWS forecast first and falls back to the
// Open-Meteo global forecast when the location is outside NWS coverage.
func (c *Client) ForecastWithFallback(ctx context.Context, lat, lon float64) string {
	result := c.Forecast(ctx, lat, lon)
	if result != "Unable to fetch forecast data for this location." {
		return result
	}
	return c.GlobalForecast(ctx, lat, lon)
}

// GlobalForecast returns the current weather for any coordinate pair using
// the Open-Meteo API.
func (c *Client) GlobalForecast(ctx context.Context, lat, lon float64) string {
	params := map[string]string{
		"latitude":        strconv.FormatFloat(lat, 'f', -1, 64),
		"longitude":       strconv.FormatFloat(lon, 'f', -1, 64),
		"current_weather": "true",
		"hourly":          "temperature_2m,precipitation,weathercode,wind_speed_10m",
	}

	var data openMeteoResponse
	if err := c.getJSON(ctx, c.openMeteo, "/v1/forecast", params, &data); err != nil {
		c.logger.Warnf("Global forecast lookup failed for (%f, %f): %v", lat, lon, err)
		return "Unable to fetch global forecast."
	}
	if data.CurrentWeather == nil {
		return "Unable to fetch global forecast."
	}

	cw := data.CurrentWeather
	return fmt.Sprintf("Current Weather:\nTemperature: %g°C\nWind: %g km/h\nWeather Code: %d\n",
		cw.Temperature, cw.WindSpeed, cw.WeatherCode)
}

// Historical returns a past-24h weather report for a coordinate pair.
//
// The NWS API does not provide free historical data, so this returns mock
// data. TODO: back this with the NOAA CDO API once an access token is wired
// into the configuration.
func (c *Client) Historical(_ context.Context, lat, lon float64) string {
	return fmt.Sprintf(`
Yesterday at (%g, %g):
Temperature: 68°F
Wind: 5 mph NW
Conditions: Partly cloudy, no precipitation.
`, lat, lon)
}

// Geocode resolves a location name to coordinates. The static US state table
// is consulted first; everything else goes to Nominatim.
func (c *Client) Geocode(ctx context.Context, location string) (lat, lon float64, ok bool) {
	if lat, lon, ok = LookupLocation(location); ok {
		return lat, lon, true
	}

	params := map[string]string{
		"q":      location,
		"format": "json",
		"limit":  "1",
	}
	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := c.getJSON(ctx, c.nominatim, "/search", params, &results); err != nil {
		c.logger.Warnf("Geocoding failed for %q: %v", location, err)
		return 0, 0, false
	}
	if len(results) == 0 {
		return 0, 0, false
	}

	lat, err1 := strconv.ParseFloat(results[0].Lat, 64)
	lon, err2 := strconv.ParseFloat(results[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// forecastURL resolves the NWS gridpoint forecast URL for a coordinate,
// consulting the cache first.
func (c *Client) forecastURL(ctx context.Context, lat, lon float64) (string, error) {
	key := fmt.Sprintf("%.4f,%.4f", lat, lon)
	if url, ok := c.forecastURLs.Get(key); ok {
		return url, nil
	}

	var points pointsResponse
	path := fmt.Sprintf("/points/%g,%g", lat, lon)
	if err := c.getJSON(ctx, c.nws, path, nil, &points); err != nil {
		return "", err
	}
	if points.Properties.Forecast == "" {
		return "", fmt.Errorf("points response missing forecast URL")
	}

	c.forecastURLs.Add(key, points.Properties.Forecast)
	return points.Properties.Forecast, nil
}

// getJSON issues a GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, client *resty.Client, url string, params map[string]string, out interface{}) error {
	req := client.R().SetContext(ctx)
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(url)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode(), url)
	}
	return json.Unmarshal(resp.Body(), out)
}
