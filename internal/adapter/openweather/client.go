// Package openweather fetches the current "feels like" temperature from the
// OpenWeather API.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org"

// Client implements the temperature source against the OpenWeather
// current-weather endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an OpenWeather client with a bounded request timeout.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// FeelsLike fetches the current feels-like temperature in Fahrenheit for a
// zip code.
func (c *Client) FeelsLike(ctx context.Context, zipCode string) (float64, error) {
	params := url.Values{
		"q":     {zipCode},
		"appid": {c.apiKey},
		"units": {"imperial"},
	}
	u := c.baseURL + "/data/2.5/weather?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("openweather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	c.logger.Debug("fetched weather", "zip_code", zipCode, "feels_like", payload.Main.FeelsLike)
	return payload.Main.FeelsLike, nil
}

// OpenWeather API response types.

type response struct {
	Main conditions `json:"main"`
}

type conditions struct {
	FeelsLike float64 `json:"feels_like"`
}
