package search

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// GoogleProvider searches with the Google Programmable Search (Custom Search JSON) API.
type GoogleProvider struct {
	svc    *customsearch.Service
	cx     string
	locale Locale
}

// NewGoogleProvider creates a provider for search engine cx. Extra client options
// (endpoint, HTTP client) are passed through to the API client.
func NewGoogleProvider(ctx context.Context, apiKey, cx string, locale Locale, opts ...option.ClientOption) (*GoogleProvider, error) {
	if apiKey == "" || cx == "" {
		return nil, fmt.Errorf("google search requires an API key and a search engine id")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &GoogleProvider{svc: svc, cx: cx, locale: locale}, nil
}

// TopResult returns the first result link for query.
func (p *GoogleProvider) TopResult(ctx context.Context, query string) (string, error) {
	call := p.svc.Cse.List().Cx(p.cx).Q(query).Num(1).Context(ctx)
	if p.locale.Country != "" {
		call = call.Gl(p.locale.Country)
	}
	if p.locale.Language != "" {
		call = call.Hl(p.locale.Language)
	}

	resp, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("search failed: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", nil
	}
	return resp.Items[0].Link, nil
}
