package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/arso-exporter/internal/store"
	"github.com/i474232898/arso-exporter/internal/weather"
)

type failingRenderer struct{}

func (failingRenderer) Render() (string, error) {
	return "", errors.New("collector exploded")
}

type staticStatus weather.Status

func (s staticStatus) Status() weather.Status { return weather.Status(s) }

func newTestApp(t *testing.T, r Renderer, st StatusSource) *fiber.App {
	t.Helper()
	app := fiber.New()
	RegisterRoutes(app, r, st)
	return app
}

func get(t *testing.T, app *fiber.App, path string) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestBanner(t *testing.T) {
	app := newTestApp(t, failingRenderer{}, staticStatus{})

	resp, body := get(t, app, "/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Try /metrics\r\n", body)
}

func TestMetricsEndpoint(t *testing.T) {
	gauges, err := store.NewMemoryStore([]weather.Family{{Name: "arso_temperature", Help: "Temperature"}})
	require.NoError(t, err)
	require.NoError(t, gauges.Set("arso_temperature", "Ljubljana", 5.2))
	app := newTestApp(t, gauges, staticStatus{})

	resp, body := get(t, app, "/metrics")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, metricsContentType, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, body, `arso_temperature{city="Ljubljana"} 5.2`)
}

func TestMetricsEndpointRenderFailure(t *testing.T) {
	app := newTestApp(t, failingRenderer{}, staticStatus{})

	resp, body := get(t, app, "/metrics")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "collector exploded")
}

func TestStatusEndpoint(t *testing.T) {
	t.Run("after success", func(t *testing.T) {
		st := staticStatus{
			Source:      "arso",
			ReportTime:  "2024-01-01 12:00",
			LastSuccess: time.Date(2024, 1, 1, 12, 5, 0, 0, time.UTC),
			Rows:        1,
			Published:   []string{"Ljubljana"},
		}
		resp, body := get(t, newTestApp(t, failingRenderer{}, st), "/api/v1/status")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got weather.Status
		require.NoError(t, json.Unmarshal([]byte(body), &got))
		assert.Equal(t, "2024-01-01 12:00", got.ReportTime)
		assert.Equal(t, []string{"Ljubljana"}, got.Published)
	})

	t.Run("never succeeded", func(t *testing.T) {
		st := staticStatus{Source: "arso", LastError: "connection error: refused"}
		resp, _ := get(t, newTestApp(t, failingRenderer{}, st), "/api/v1/status")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestHealth(t *testing.T) {
	app := NewApp("arso-exporter")
	RegisterRoutes(app, failingRenderer{}, staticStatus{})

	resp, body := get(t, app, "/health")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","service":"arso-exporter"}`, body)
}
