package openweather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     testAPIKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_FeelsLike_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "94521", r.URL.Query().Get("q"))
		assert.Equal(t, testAPIKey, r.URL.Query().Get("appid"))
		assert.Equal(t, "imperial", r.URL.Query().Get("units"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"main":{"temp":71.2,"feels_like":69.8,"humidity":40}}`))
	}))
	defer srv.Close()

	temp, err := testClient(srv.URL).FeelsLike(context.Background(), "94521")
	require.NoError(t, err)
	assert.Equal(t, 69.8, temp)
}

func TestClient_FeelsLike_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FeelsLike(context.Background(), "94521")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestClient_FeelsLike_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FeelsLike(context.Background(), "94521")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_FeelsLike_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // refuse connections

	_, err := testClient(srv.URL).FeelsLike(context.Background(), "94521")
	require.Error(t, err)
}
