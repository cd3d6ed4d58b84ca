// Command probe fetches a single reading from one source and prints it as
// indented JSON, for checking credentials and provider behavior without
// touching the state file or sending mail.
//
// Usage:
//
//	go run ./cmd/probe -source airnow -zip 94521
//	go run ./cmd/probe -source openweather -zip 94521 -out weather.json
//	go run ./cmd/probe -source scraper -url "https://www.airnow.gov/?city=Concord&state=CA&country=USA"
//
// API keys come from the environment (AIRNOW_API_KEY, OPENWEATHER_API_KEY);
// a .env file in the working directory is honored.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/vicholz/airmonitor/internal/adapter/airnow"
	"github.com/vicholz/airmonitor/internal/adapter/airnowgov"
	"github.com/vicholz/airmonitor/internal/adapter/openweather"
)

func main() {
	source := flag.String("source", "airnow", "source to probe: airnow, openweather, or scraper")
	zipCode := flag.String("zip", "94521", "zip code to fetch readings for")
	distance := flag.Int("distance", 25, "airnow search radius in miles")
	pageURL := flag.String("url", "https://www.airnow.gov/?city=Concord&state=CA&country=USA", "dashboard URL for the scraper source")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	out := flag.String("out", "", "write JSON to this file instead of stdout")
	flag.Parse()

	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var (
		result any
		err    error
	)
	switch *source {
	case "airnow":
		c := airnow.NewClient(os.Getenv("AIRNOW_API_KEY"), *timeout, logger)
		result, err = c.Current(ctx, *zipCode, *distance)
	case "openweather":
		c := openweather.NewClient(os.Getenv("OPENWEATHER_API_KEY"), *timeout, logger)
		result, err = c.FeelsLike(ctx, *zipCode)
	case "scraper":
		c := airnowgov.NewClient(*pageURL, *timeout, logger)
		var readings, temp any
		readings, err = c.Current(ctx, *zipCode, *distance)
		if err == nil {
			temp, err = c.FeelsLike(ctx, *zipCode)
		}
		result = map[string]any{"air_quality": readings, "temperature": temp}
	default:
		fmt.Fprintf(os.Stderr, "unknown source %q\n", *source)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("probe failed", "source", *source, "error", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if *out != "" {
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			logger.Error("write output file", "path", *out, "error", err)
			os.Exit(1)
		}
		return
	}
	os.Stdout.Write(data)
}
