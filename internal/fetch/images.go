package fetch

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxImageLinks bounds how many image links are harvested from one page.
const MaxImageLinks = 10

var imageAttrs = []string{"data-old-hires", "data-src", "src"}

var nonProductImageHints = []string{"logo", "sprite", "icon", "banner", "pixel", "transparent", "/ads/"}

// ExtractImageLinks harvests absolute product image URLs from a page: og:image first,
// then retailer gallery images. Logos, sprites and inline data URIs are skipped.
func ExtractImageLinks(html, pageURL string, retailer Retailer) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	base, _ := url.Parse(pageURL)

	var links []string
	seen := make(map[string]bool)
	add := func(raw string) {
		if len(links) >= MaxImageLinks {
			return
		}
		link := absoluteImageURL(base, raw)
		if link == "" || seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	}

	doc.Find("meta[property='og:image'], meta[name='og:image'], meta[name='twitter:image']").Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("content", ""))
	})

	for _, selector := range RetailerImageSelectors(retailer) {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			// Amazon lists every resolution as the keys of a JSON object
			if dynamic, ok := s.Attr("data-a-dynamic-image"); ok {
				var sizes map[string]json.RawMessage
				if json.Unmarshal([]byte(dynamic), &sizes) == nil {
					for link := range sizes {
						add(link)
						break
					}
				}
			}
			for _, attr := range imageAttrs {
				if v, ok := s.Attr(attr); ok && v != "" {
					add(v)
					break
				}
			}
		})
	}
	return links
}

func absoluteImageURL(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "data:") {
		return ""
	}
	lower := strings.ToLower(raw)
	if strings.HasSuffix(lower, ".svg") || strings.HasSuffix(lower, ".gif") {
		return ""
	}
	for _, hint := range nonProductImageHints {
		if strings.Contains(lower, hint) {
			return ""
		}
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	return ref.String()
}
