// Package fetch - browser.go renders JavaScript-heavy product pages in headless Chrome.
package fetch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the minimum extracted text length to consider an HTTP fetch good enough.
// Shorter pages are likely rendered client side and are retried in the browser.
const MinContentLength = 500

// removeOverlaysJS deletes modal dialogs and fixed overlays that hide product content.
const removeOverlaysJS = `(() => {
  const sel = '[role="dialog"], [aria-modal="true"], .modal, .popup, .overlay, #onetrust-banner-sdk';
  document.querySelectorAll(sel).forEach(el => el.remove());
  document.querySelectorAll('body *').forEach(el => {
    const s = window.getComputedStyle(el);
    if ((s.position === 'fixed' || s.position === 'sticky') && parseInt(s.zIndex || '0', 10) > 100) el.remove();
  });
  return true;
})()`

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely rendered client side.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// BrowserOptions configures a headless render.
type BrowserOptions struct {
	Timeout   time.Duration
	UserAgent string
	// Settle is how long to wait after the body is ready before reading the DOM.
	Settle time.Duration
	Logger *slog.Logger
}

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, opts BrowserOptions) (string, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Settle <= 0 {
		opts.Settle = time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("starting headless browser", "url", url)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(opts.UserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	var html string
	var removed bool
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(opts.Settle),
		chromedp.Evaluate(removeOverlaysJS, &removed),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	logger.Debug("rendered page", "url", url, "bytes", len(html), "overlays_removed", removed)
	return html, nil
}
