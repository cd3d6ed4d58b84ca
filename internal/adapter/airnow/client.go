// Package airnow fetches current pollutant observations from the EPA AirNow
// API for a postal code.
package airnow

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

	"github.com/vicholz/airmonitor/internal/domain"
)

const defaultBaseURL = "https://www.airnowapi.org"

// Client implements the air-quality source against the AirNow
// current-observation endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an AirNow client with a bounded request timeout.
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

// Current fetches the observation set for a zip code and reduces it to a
// per-pollutant reading map. A successful return always contains the PM2.5
// and O3 keys; the evaluator relies on that guarantee.
func (c *Client) Current(ctx context.Context, zipCode string, distanceMiles int) (map[string]domain.PollutantReading, error) {
	params := url.Values{
		"format":   {"application/json"},
		"zipCode":  {zipCode},
		"distance": {strconv.Itoa(distanceMiles)},
		"API_KEY":  {c.apiKey},
	}
	u := c.baseURL + "/aq/observation/zipCode/current/?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("airnow request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("airnow API error: status %d: %s", resp.StatusCode, body)
	}

	var observations []observation
	if err := json.NewDecoder(resp.Body).Decode(&observations); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	readings := make(map[string]domain.PollutantReading, len(observations))
	for _, obs := range observations {
		readings[obs.ParameterName] = domain.PollutantReading{
			AQI:           obs.AQI,
			CategoryIndex: obs.Category.Number,
		}
	}

	for _, pollutant := range []string{domain.PollutantPM25, domain.PollutantO3} {
		if _, ok := readings[pollutant]; !ok {
			return nil, fmt.Errorf("airnow response for %s missing %s observation", zipCode, pollutant)
		}
	}

	c.logger.Debug("fetched air quality observations", "zip_code", zipCode, "pollutants", len(readings))
	return readings, nil
}

// AirNow API response types.

type observation struct {
	ParameterName string   `json:"ParameterName"`
	AQI           float64  `json:"AQI"`
	Category      category `json:"Category"`
}

type category struct {
	Number int    `json:"Number"`
	Name   string `json:"Name"`
}
