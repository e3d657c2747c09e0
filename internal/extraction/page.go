package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonathan/gift-finder/internal/fetch"
	"github.com/jonathan/gift-finder/internal/llm"
	"github.com/jonathan/gift-finder/internal/prompts"
)

// BrowserMode selects when pages are rendered in headless Chrome.
type BrowserMode string

const (
	// BrowserAuto renders only pages whose plain HTTP text is too thin.
	BrowserAuto BrowserMode = "auto"
	// BrowserAlways renders every page.
	BrowserAlways BrowserMode = "always"
	// BrowserNever uses plain HTTP only.
	BrowserNever BrowserMode = "never"
)

// Extraction generation defaults.
const (
	DefaultMaxOutputTokens = 2000
	DefaultMaxInputTokens  = 20000
	extractTemperature     = 0
)

// PageOptions configures a PageCollaborator.
type PageOptions struct {
	Browser         BrowserMode
	PageTimeout     time.Duration
	UserAgent       string
	MaxInputTokens  int
	MaxOutputTokens int
	Currency        string
}

// PageCollaborator fetches a product page, reduces it to text and image candidates,
// and asks the LLM for a record matching the schema.
type PageCollaborator struct {
	client    llm.Client
	opts      PageOptions
	truncator *fetch.Truncator
	logger    *slog.Logger
}

// NewPageCollaborator creates a collaborator. Zero options take the defaults.
func NewPageCollaborator(client llm.Client, opts PageOptions, logger *slog.Logger) *PageCollaborator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Browser == "" {
		opts.Browser = BrowserAuto
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = fetch.DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = fetch.DefaultUserAgent
	}
	if opts.MaxInputTokens <= 0 {
		opts.MaxInputTokens = DefaultMaxInputTokens
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if opts.Currency == "" {
		opts.Currency = "INR"
	}

	truncator, err := fetch.NewTruncator(opts.MaxInputTokens)
	if err != nil {
		logger.Warn("token counting falls back to a character estimate", "error", err)
	}

	return &PageCollaborator{client: client, opts: opts, truncator: truncator, logger: logger}
}

// Extract implements Collaborator.
func (p *PageCollaborator) Extract(ctx context.Context, pageURL string, schema Schema) (json.RawMessage, error) {
	if err := fetch.ValidateURL(pageURL); err != nil {
		return nil, err
	}

	html, err := p.load(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	retailer := fetch.DetectRetailer(pageURL)
	text, err := fetch.ExtractMainText(html, fetch.RetailerContentSelectors(retailer), fetch.RetailerNoiseSelectors(retailer)...)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("page %s has no readable content", pageURL)
	}

	text, cut := p.truncator.Truncate(text)
	if cut {
		p.logger.Debug("page text truncated", "url", pageURL, "max_tokens", p.opts.MaxInputTokens)
	}
	if images := fetch.ExtractImageLinks(html, pageURL, retailer); len(images) > 0 {
		text += "\n\nCandidate image URLs:\n" + strings.Join(images, "\n")
	}

	prompt, err := p.buildPrompt(schema, pageURL, text)
	if err != nil {
		return nil, err
	}

	out, err := p.client.GenerateJSON(ctx, prompt, llm.TierStandard,
		llm.WithTemperature(extractTemperature),
		llm.WithMaxTokens(p.opts.MaxOutputTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("LLM extraction failed: %w", err)
	}
	return json.RawMessage(out), nil
}

// load returns the page HTML, falling back to the browser for thin or failed HTTP fetches in auto mode.
func (p *PageCollaborator) load(ctx context.Context, pageURL string) (string, error) {
	browserOpts := fetch.BrowserOptions{Timeout: p.opts.PageTimeout, UserAgent: p.opts.UserAgent, Logger: p.logger}

	if p.opts.Browser == BrowserAlways {
		return fetch.WithBrowser(ctx, pageURL, browserOpts)
	}

	fetchOpts := fetch.DefaultOptions()
	fetchOpts.Timeout = p.opts.PageTimeout
	fetchOpts.UserAgent = p.opts.UserAgent

	result, httpErr := fetch.URL(ctx, pageURL, fetchOpts)
	if httpErr == nil {
		text, _ := fetch.ExtractMainText(result.HTML, fetch.DefaultTextSelectors())
		if p.opts.Browser == BrowserNever || !fetch.ShouldUseBrowser(text) {
			return result.HTML, nil
		}
	} else if p.opts.Browser == BrowserNever {
		return "", httpErr
	}

	p.logger.Debug("falling back to headless browser", "url", pageURL, "http_error", httpErr)
	html, err := fetch.WithBrowser(ctx, pageURL, browserOpts)
	if err != nil {
		if httpErr != nil {
			return "", errors.Join(httpErr, err)
		}
		// Thin HTTP content still beats nothing
		return result.HTML, nil
	}
	return html, nil
}

func (p *PageCollaborator) buildPrompt(schema Schema, pageURL, text string) (string, error) {
	fields, err := llm.FieldsFromJSONSchema(schema.Definition)
	if err != nil {
		return "", err
	}
	instruction, err := prompts.Render(prompts.ExtractionFile, "extract-product", map[string]string{
		"Currency": p.opts.Currency,
	})
	if err != nil {
		return "", err
	}

	return llm.BuildExtractionPrompt(llm.ExtractionSchema{
		Name:        schema.Name,
		Description: instruction + "\n\nPage URL: " + pageURL,
		Fields:      fields,
	}, text), nil
}
