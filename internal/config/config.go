// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by MergeWithDefaults when a field is unset.
const (
	DefaultLLMProvider      = "gemini"
	DefaultResearchProvider = "perplexity"
	DefaultSearchProvider   = "google"
	DefaultCountry          = "in"
	DefaultLanguage         = "en"
	DefaultLocation         = "India"
	DefaultGoogleDomain     = "google.co.in"
	DefaultMarket           = "India"
	DefaultCurrency         = "INR"
	DefaultCurrencySymbol   = "₹"
	DefaultConcurrency      = 10
	DefaultProgressEvery    = 2
	DefaultIdeaCount        = 10
	DefaultPageTimeoutSecs  = 45
	DefaultLinkTimeoutSecs  = 20
	DefaultMaxOutputTokens  = 2000
	DefaultMaxInputTokens   = 20000
	DefaultBrowserMode      = "auto"
	DefaultPort             = 8080
	DefaultAzureAPIVersion  = "2024-10-21"
)

// Config is the application configuration. It can be loaded from a JSON or
// YAML file and overlaid with environment variables. All fields are optional;
// missing values take defaults or must be provided via CLI flags.
type Config struct {
	// LLM used for parsing, formatting and extraction
	LLMProvider     string `json:"llm_provider,omitempty" yaml:"llm_provider,omitempty"` // gemini, openai or azure
	LLMModel        string `json:"llm_model,omitempty" yaml:"llm_model,omitempty"`       // overrides the standard tier model
	APIKey          string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	AzureEndpoint   string `json:"azure_endpoint,omitempty" yaml:"azure_endpoint,omitempty"`
	AzureDeployment string `json:"azure_deployment,omitempty" yaml:"azure_deployment,omitempty"`
	AzureAPIVersion string `json:"azure_api_version,omitempty" yaml:"azure_api_version,omitempty"`

	// LLM used for product idea research
	ResearchProvider string `json:"research_provider,omitempty" yaml:"research_provider,omitempty"` // perplexity or same
	ResearchModel    string `json:"research_model,omitempty" yaml:"research_model,omitempty"`
	PerplexityAPIKey string `json:"perplexity_api_key,omitempty" yaml:"perplexity_api_key,omitempty"`

	// Web search
	SearchProvider string `json:"search_provider,omitempty" yaml:"search_provider,omitempty"` // google or serpapi
	GoogleAPIKey   string `json:"google_api_key,omitempty" yaml:"google_api_key,omitempty"`
	GoogleCX       string `json:"google_cx,omitempty" yaml:"google_cx,omitempty"`
	SerpAPIKey     string `json:"serpapi_key,omitempty" yaml:"serpapi_key,omitempty"`
	Country        string `json:"country,omitempty" yaml:"country,omitempty"`   // gl
	Language       string `json:"language,omitempty" yaml:"language,omitempty"` // hl
	Location       string `json:"location,omitempty" yaml:"location,omitempty"`
	GoogleDomain   string `json:"google_domain,omitempty" yaml:"google_domain,omitempty"`

	// Market
	Market         string `json:"market,omitempty" yaml:"market,omitempty"`
	Currency       string `json:"currency,omitempty" yaml:"currency,omitempty"`
	CurrencySymbol string `json:"currency_symbol,omitempty" yaml:"currency_symbol,omitempty"`
	IdeaCount      int    `json:"idea_count,omitempty" yaml:"idea_count,omitempty"`

	// Pipeline
	Concurrency     int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	ProgressEvery   int    `json:"progress_every,omitempty" yaml:"progress_every,omitempty"`
	PageTimeoutSecs int    `json:"page_timeout_seconds,omitempty" yaml:"page_timeout_seconds,omitempty"`
	LinkTimeoutSecs int    `json:"link_timeout_seconds,omitempty" yaml:"link_timeout_seconds,omitempty"`
	MaxOutputTokens int    `json:"max_output_tokens,omitempty" yaml:"max_output_tokens,omitempty"`
	MaxInputTokens  int    `json:"max_input_tokens,omitempty" yaml:"max_input_tokens,omitempty"`
	BrowserMode     string `json:"browser_mode,omitempty" yaml:"browser_mode,omitempty"` // auto, always or never

	// Behavior
	Verbose   bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"`

	// Server
	Port        int  `json:"port,omitempty" yaml:"port,omitempty"`
	RequireAuth bool `json:"require_auth,omitempty" yaml:"require_auth,omitempty"`
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// FromEnv overlays values from environment variables onto c. Variables that
// are unset or empty leave the existing value alone.
func (c *Config) FromEnv() error {
	setString(&c.LLMProvider, "LLM_PROVIDER")
	setString(&c.LLMModel, "LLM_MODEL")
	switch c.LLMProvider {
	case "openai":
		setString(&c.APIKey, "OPENAI_API_KEY")
	case "azure":
		setString(&c.APIKey, "AZURE_OPENAI_API_KEY")
	default:
		setString(&c.APIKey, "GEMINI_API_KEY")
	}
	setString(&c.AzureEndpoint, "AZURE_OPENAI_ENDPOINT")
	setString(&c.AzureDeployment, "AZURE_OPENAI_DEPLOYMENT")
	setString(&c.AzureAPIVersion, "AZURE_OPENAI_API_VERSION")

	setString(&c.ResearchProvider, "RESEARCH_PROVIDER")
	setString(&c.ResearchModel, "RESEARCH_MODEL")
	setString(&c.PerplexityAPIKey, "PERPLEXITY_API_KEY")

	setString(&c.SearchProvider, "SEARCH_PROVIDER")
	setString(&c.GoogleAPIKey, "GOOGLE_API_KEY")
	setString(&c.GoogleCX, "GOOGLE_CSE_ID")
	setString(&c.SerpAPIKey, "SERPAPI_API_KEY")
	setString(&c.Country, "SEARCH_COUNTRY")
	setString(&c.Language, "SEARCH_LANGUAGE")
	setString(&c.Location, "SEARCH_LOCATION")

	setString(&c.BrowserMode, "BROWSER_MODE")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")

	ints := []struct {
		dst *int
		key string
	}{
		{&c.Concurrency, "CONCURRENCY"},
		{&c.PageTimeoutSecs, "PAGE_TIMEOUT_SECONDS"},
		{&c.LinkTimeoutSecs, "LINK_TIMEOUT_SECONDS"},
		{&c.MaxInputTokens, "MAX_INPUT_TOKENS"},
		{&c.Port, "PORT"},
	}
	for _, v := range ints {
		if err := setInt(v.dst, v.key); err != nil {
			return err
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %v", key, err)
	}
	*dst = n
	return nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for API keys since those are only needed by the
// commands that call out to a provider.
func (c *Config) Validate() error {
	if !oneOf(c.LLMProvider, "", "gemini", "openai", "azure") {
		return fmt.Errorf("config error: unknown 'llm_provider' %q", c.LLMProvider)
	}
	if !oneOf(c.ResearchProvider, "", "perplexity", "same") {
		return fmt.Errorf("config error: unknown 'research_provider' %q", c.ResearchProvider)
	}
	if !oneOf(c.SearchProvider, "", "google", "serpapi") {
		return fmt.Errorf("config error: unknown 'search_provider' %q", c.SearchProvider)
	}
	if !oneOf(c.BrowserMode, "", "auto", "always", "never") {
		return fmt.Errorf("config error: unknown 'browser_mode' %q", c.BrowserMode)
	}
	if c.LogFormat != "" && !oneOf(c.LogFormat, "text", "json") {
		return fmt.Errorf("config error: 'log_format' must be text or json")
	}

	nonNegative := []struct {
		name  string
		value int
	}{
		{"concurrency", c.Concurrency},
		{"progress_every", c.ProgressEvery},
		{"idea_count", c.IdeaCount},
		{"page_timeout_seconds", c.PageTimeoutSecs},
		{"link_timeout_seconds", c.LinkTimeoutSecs},
		{"max_output_tokens", c.MaxOutputTokens},
		{"max_input_tokens", c.MaxInputTokens},
		{"port", c.Port},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", f.name)
		}
	}
	if c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.LLMProvider == "azure" && c.AzureEndpoint == "" {
		return fmt.Errorf("config error: 'azure_endpoint' is required for the azure provider")
	}

	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults,
// then from the package defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	strs := []struct {
		dst      *string
		fallback string
		builtin  string
	}{
		{&result.LLMProvider, defaults.LLMProvider, DefaultLLMProvider},
		{&result.LLMModel, defaults.LLMModel, ""},
		{&result.APIKey, defaults.APIKey, ""},
		{&result.AzureEndpoint, defaults.AzureEndpoint, ""},
		{&result.AzureDeployment, defaults.AzureDeployment, ""},
		{&result.AzureAPIVersion, defaults.AzureAPIVersion, DefaultAzureAPIVersion},
		{&result.ResearchProvider, defaults.ResearchProvider, DefaultResearchProvider},
		{&result.ResearchModel, defaults.ResearchModel, ""},
		{&result.PerplexityAPIKey, defaults.PerplexityAPIKey, ""},
		{&result.SearchProvider, defaults.SearchProvider, DefaultSearchProvider},
		{&result.GoogleAPIKey, defaults.GoogleAPIKey, ""},
		{&result.GoogleCX, defaults.GoogleCX, ""},
		{&result.SerpAPIKey, defaults.SerpAPIKey, ""},
		{&result.Country, defaults.Country, DefaultCountry},
		{&result.Language, defaults.Language, DefaultLanguage},
		{&result.Location, defaults.Location, DefaultLocation},
		{&result.GoogleDomain, defaults.GoogleDomain, DefaultGoogleDomain},
		{&result.Market, defaults.Market, DefaultMarket},
		{&result.Currency, defaults.Currency, DefaultCurrency},
		{&result.CurrencySymbol, defaults.CurrencySymbol, DefaultCurrencySymbol},
		{&result.BrowserMode, defaults.BrowserMode, DefaultBrowserMode},
		{&result.LogLevel, defaults.LogLevel, "info"},
		{&result.LogFormat, defaults.LogFormat, "text"},
	}
	for _, s := range strs {
		if *s.dst == "" {
			*s.dst = s.fallback
		}
		if *s.dst == "" {
			*s.dst = s.builtin
		}
	}

	ints := []struct {
		dst      *int
		fallback int
		builtin  int
	}{
		{&result.IdeaCount, defaults.IdeaCount, DefaultIdeaCount},
		{&result.Concurrency, defaults.Concurrency, DefaultConcurrency},
		{&result.ProgressEvery, defaults.ProgressEvery, DefaultProgressEvery},
		{&result.PageTimeoutSecs, defaults.PageTimeoutSecs, DefaultPageTimeoutSecs},
		{&result.LinkTimeoutSecs, defaults.LinkTimeoutSecs, DefaultLinkTimeoutSecs},
		{&result.MaxOutputTokens, defaults.MaxOutputTokens, DefaultMaxOutputTokens},
		{&result.MaxInputTokens, defaults.MaxInputTokens, DefaultMaxInputTokens},
		{&result.Port, defaults.Port, DefaultPort},
	}
	for _, n := range ints {
		if *n.dst == 0 {
			*n.dst = n.fallback
		}
		if *n.dst == 0 {
			*n.dst = n.builtin
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// PageTimeout is the per-page extraction timeout.
func (c *Config) PageTimeout() time.Duration {
	return time.Duration(c.PageTimeoutSecs) * time.Second
}

// LinkTimeout is the per-search timeout.
func (c *Config) LinkTimeout() time.Duration {
	return time.Duration(c.LinkTimeoutSecs) * time.Second
}
