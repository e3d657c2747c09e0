// Package llm provides centralized LLM configuration and client abstractions.
// This package enables easy switching between model tiers and providers.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: reformatting, classification
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: parsing, structured extraction
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning
	TierAdvanced ModelTier = "advanced"
	// TierResearch is for web-grounded research answers (product idea generation)
	TierResearch ModelTier = "research"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI chat completions API
	ProviderOpenAI Provider = "openai"
	// ProviderAzureOpenAI is an Azure OpenAI deployment; model names are deployment names
	ProviderAzureOpenAI Provider = "azure"
	// ProviderPerplexity is the OpenAI-compatible Perplexity API
	ProviderPerplexity Provider = "perplexity"
)

// PerplexityBaseURL is the OpenAI-compatible endpoint of the Perplexity API.
const PerplexityBaseURL = "https://api.perplexity.ai"

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string

	// BaseURL overrides the API endpoint (OpenAI-compatible providers only).
	BaseURL string
	// APIVersion is the Azure OpenAI API version.
	APIVersion string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o",
			TierAdvanced: "gpt-4o",
		},
	}
}

// DefaultAzureConfig returns an Azure OpenAI configuration serving every tier from one deployment.
func DefaultAzureConfig(endpoint, deployment, apiVersion string) *Config {
	return &Config{
		Provider:   ProviderAzureOpenAI,
		BaseURL:    endpoint,
		APIVersion: apiVersion,
		Models: map[ModelTier]string{
			TierStandard: deployment,
		},
	}
}

// DefaultPerplexityConfig returns the Perplexity configuration used for research
func DefaultPerplexityConfig() *Config {
	return &Config{
		Provider: ProviderPerplexity,
		BaseURL:  PerplexityBaseURL,
		Models: map[ModelTier]string{
			TierResearch: "sonar-pro",
			TierStandard: "sonar",
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}
