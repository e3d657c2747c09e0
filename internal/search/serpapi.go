package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SerpAPIEndpoint is the SerpAPI JSON search endpoint.
const SerpAPIEndpoint = "https://serpapi.com/search.json"

// SerpAPIProvider searches Google through SerpAPI.
type SerpAPIProvider struct {
	apiKey   string
	endpoint string
	locale   Locale
	client   *http.Client
}

// NewSerpAPIProvider creates a provider. An empty endpoint uses SerpAPIEndpoint.
func NewSerpAPIProvider(apiKey, endpoint string, locale Locale) (*SerpAPIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("serpapi requires an API key")
	}
	if endpoint == "" {
		endpoint = SerpAPIEndpoint
	}
	return &SerpAPIProvider{
		apiKey:   apiKey,
		endpoint: endpoint,
		locale:   locale,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type serpResponse struct {
	OrganicResults []struct {
		Link string `json:"link"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

// TopResult returns the first organic result link for query.
func (p *SerpAPIProvider) TopResult(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("api_key", p.apiKey)
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("num", "1")
	if p.locale.Location != "" {
		params.Set("location", p.locale.Location)
	}
	if p.locale.GoogleDomain != "" {
		params.Set("google_domain", p.locale.GoogleDomain)
	}
	if p.locale.Country != "" {
		params.Set("gl", p.locale.Country)
	}
	if p.locale.Language != "" {
		params.Set("hl", p.locale.Language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("serpapi request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read serpapi response: %w", err)
	}

	var data serpResponse
	if err := json.Unmarshal(body, &data); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("serpapi returned HTTP %d", resp.StatusCode)
		}
		return "", fmt.Errorf("failed to decode serpapi response: %w", err)
	}

	if data.Error != "" {
		// An empty result set is reported as an error message with HTTP 200.
		if resp.StatusCode == http.StatusOK && strings.Contains(strings.ToLower(data.Error), "hasn't returned any results") {
			return "", nil
		}
		return "", fmt.Errorf("serpapi error (HTTP %d): %s", resp.StatusCode, data.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("serpapi returned HTTP %d", resp.StatusCode)
	}

	if len(data.OrganicResults) == 0 {
		return "", nil
	}
	return data.OrganicResults[0].Link, nil
}
