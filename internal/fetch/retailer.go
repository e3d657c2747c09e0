// Package fetch - retailer.go provides retailer detection and retailer-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Retailer represents a known e-commerce site.
type Retailer string

const (
	// RetailerAmazon is amazon.in / amazon.com
	RetailerAmazon Retailer = "amazon"
	// RetailerFlipkart is flipkart.com
	RetailerFlipkart Retailer = "flipkart"
	// RetailerMyntra is myntra.com
	RetailerMyntra Retailer = "myntra"
	// RetailerNykaa is nykaa.com
	RetailerNykaa Retailer = "nykaa"
	// RetailerUnknown is any other site
	RetailerUnknown Retailer = "unknown"
)

// DetectRetailer identifies the retailer from a product URL.
func DetectRetailer(urlStr string) Retailer {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return RetailerUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case strings.Contains(host, "amazon.") || host == "amzn.in" || host == "amzn.to":
		return RetailerAmazon
	case strings.HasSuffix(host, "flipkart.com"):
		return RetailerFlipkart
	case strings.HasSuffix(host, "myntra.com"):
		return RetailerMyntra
	case strings.HasSuffix(host, "nykaa.com"):
		return RetailerNykaa
	default:
		return RetailerUnknown
	}
}

// RetailerContentSelectors returns the product content selectors for a retailer.
func RetailerContentSelectors(retailer Retailer) []string {
	switch retailer {
	case RetailerAmazon:
		return []string{"#dp-container", "#dp", "#ppd", "#centerCol"}
	case RetailerFlipkart:
		return []string{"#container main", "#container"}
	case RetailerMyntra:
		return []string{".pdp-details", "main"}
	case RetailerNykaa:
		return []string{"#product-page", "main"}
	default:
		return DefaultTextSelectors()
	}
}

// RetailerNoiseSelectors returns noise exclusion selectors for a retailer.
func RetailerNoiseSelectors(retailer Retailer) []string {
	common := []string{
		"form[action*='search']",
		".breadcrumb",
		".breadcrumbs",
		".social-share",
		".share-buttons",
		".cookie-consent",
		".newsletter",
		"[aria-modal='true']",
	}

	switch retailer {
	case RetailerAmazon:
		return append(common,
			"#navbar",
			"#nav-main",
			"#rhf",
			"#sims-consolidated-1_feature_div",
			"#sp_detail",
			"#customerReviews",
			"#similarities_feature_div",
		)
	case RetailerFlipkart:
		return append(common, "._1ZMrY_", "._38U37R")
	default:
		return common
	}
}

// RetailerImageSelectors returns selectors for product gallery images, most specific first.
func RetailerImageSelectors(retailer Retailer) []string {
	switch retailer {
	case RetailerAmazon:
		return []string{"#landingImage", "#imgTagWrapperId img", "#altImages img"}
	case RetailerFlipkart:
		return []string{"img[loading='eager']", "ul li img"}
	default:
		return []string{"[itemprop='image']", ".product img", "main img"}
	}
}
