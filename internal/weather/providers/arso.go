package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/arso-exporter/internal/common"
	"github.com/i474232898/arso-exporter/internal/weather"
)

// DefaultARSOURL is the latest surface observations table published by ARSO.
const DefaultARSOURL = "https://meteo.arso.gov.si/uploads/probase/www/observ/surface/text/sl/observationAms_si_latest.html"

// maxDocumentSize bounds the body read from the source.
const maxDocumentSize = 8 << 20

// ARSOFetcher implements weather.Fetcher for the ARSO observation page.
type ARSOFetcher struct {
	name    string
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewARSOFetcher creates a fetcher for url. An empty url selects DefaultARSOURL.
func NewARSOFetcher(client *http.Client, url string, backoff BackoffConfig) *ARSOFetcher {
	if url == "" {
		url = DefaultARSOURL
	}
	return &ARSOFetcher{
		name: "arso",
		url:  url,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: backoff,
		},
		circuit: newCircuitBreaker("arso"),
	}
}

func (f *ARSOFetcher) Name() string {
	return f.name
}

// Fetch downloads the observation page. Every failure wraps weather.ErrConnection.
func (f *ARSOFetcher) Fetch(ctx context.Context) ([]byte, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/html")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, f.httpCfg, f.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", weather.ErrConnection, f.url, err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" && !common.HasAny(strings.ToLower(ct), "text/html", "application/xhtml") {
		return nil, fmt.Errorf("%w: %s: unexpected content type %q", weather.ErrConnection, f.url, ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %v", weather.ErrConnection, f.url, err)
	}
	return body, nil
}
