// Package airnowgov scrapes the airnow.gov city dashboard as an alternate
// reading source for locations where the observation API is unreliable. The
// dashboard reports one combined AQI and the current temperature; the city is
// fixed by the dashboard URL, so the zip code arguments are ignored.
package airnowgov

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/vicholz/airmonitor/internal/domain"
)

// Dashboard CSS classes carrying the values we extract.
const (
	aqiClass  = "aqi"
	tempClass = "weather-value"
)

// Client fetches and parses the dashboard page. It implements both the
// air-quality and the temperature source interfaces.
type Client struct {
	pageURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a scraper for the given dashboard URL.
func NewClient(pageURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		pageURL: pageURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Current returns the dashboard's combined AQI as a reading map. The page
// does not break the value down by pollutant, so the combined reading is
// recorded under both watched keys; that keeps the observation set complete
// for evaluation and the thresholds still apply per category.
func (c *Client) Current(ctx context.Context, _ string, _ int) (map[string]domain.PollutantReading, error) {
	page, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	text, err := firstTextByClass(page, aqiClass)
	if err != nil {
		return nil, fmt.Errorf("extract AQI: %w", err)
	}
	aqi, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil, fmt.Errorf("parse AQI value %q: %w", text, err)
	}

	reading := domain.PollutantReading{AQI: aqi, CategoryIndex: categoryForAQI(aqi)}
	c.logger.Debug("scraped combined AQI", "aqi", aqi, "category_index", reading.CategoryIndex)

	return map[string]domain.PollutantReading{
		domain.PollutantPM25: reading,
		domain.PollutantO3:   reading,
	}, nil
}

// FeelsLike returns the dashboard's displayed temperature in Fahrenheit.
func (c *Client) FeelsLike(ctx context.Context, _ string) (float64, error) {
	page, err := c.fetch(ctx)
	if err != nil {
		return 0, err
	}

	text, err := firstTextByClass(page, tempClass)
	if err != nil {
		return 0, fmt.Errorf("extract temperature: %w", err)
	}
	temp, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("parse temperature value %q: %w", text, err)
	}

	c.logger.Debug("scraped temperature", "temperature", temp)
	return temp, nil
}

func (c *Client) fetch(ctx context.Context) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dashboard request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("dashboard error: status %d: %s", resp.StatusCode, body)
	}

	page, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse dashboard HTML: %w", err)
	}
	return page, nil
}

// firstTextByClass returns the concatenated text content of the first element
// carrying the given CSS class.
func firstTextByClass(root *html.Node, class string) (string, error) {
	node := findByClass(root, class)
	if node == nil {
		return "", fmt.Errorf("no element with class %q", class)
	}
	text := strings.TrimSpace(textContent(node))
	if text == "" {
		return "", fmt.Errorf("element with class %q is empty", class)
	}
	return text, nil
}

func findByClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key != "class" {
				continue
			}
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return n
				}
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findByClass(child, class); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(textContent(child))
	}
	return b.String()
}

// categoryForAQI buckets a combined AQI value into the standard EPA category
// scale used by the observation API.
func categoryForAQI(aqi float64) int {
	switch {
	case aqi <= 50:
		return 1
	case aqi <= 100:
		return 2
	case aqi <= 150:
		return 3
	case aqi <= 200:
		return 4
	case aqi <= 300:
		return 5
	default:
		return 6
	}
}
