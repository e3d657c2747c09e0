// Package search resolves product names to a canonical retail link through a web search provider.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Provider returns the top organic result for a query, or "" when there are no results.
type Provider interface {
	TopResult(ctx context.Context, query string) (string, error)
}

// Locale scopes searches to a region.
type Locale struct {
	Country      string // gl, e.g. "in"
	Language     string // hl, e.g. "en"
	Location     string // e.g. "India"
	GoogleDomain string // e.g. "google.co.in"
}

// DefaultLocale returns the India locale.
func DefaultLocale() Locale {
	return Locale{
		Country:      "in",
		Language:     "en",
		Location:     "India",
		GoogleDomain: "google.co.in",
	}
}

// LinkResolver turns a product name into at most one URL.
type LinkResolver struct {
	provider Provider
	timeout  time.Duration
}

// NewLinkResolver creates a resolver. A positive timeout bounds each provider call.
func NewLinkResolver(provider Provider, timeout time.Duration) *LinkResolver {
	return &LinkResolver{provider: provider, timeout: timeout}
}

// Resolve returns the top link for name. ("", nil) means the search found nothing.
// Provider errors are returned as is; there is no retry.
func (r *LinkResolver) Resolve(ctx context.Context, name string) (string, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return "", nil
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	link, err := r.provider.TopResult(ctx, query)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", query, err)
	}
	return strings.TrimSpace(link), nil
}
