package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

var (
	// ErrAPIKeyRequired is returned when a client is built without credentials
	ErrAPIKeyRequired = errors.New("API key is required")
	// ErrEmptyResponse is returned when the provider answers with no usable content
	ErrEmptyResponse = errors.New("no content in response")
)

// OpenAIClient implements Client for OpenAI-compatible chat completion APIs:
// OpenAI itself, Azure OpenAI deployments and Perplexity.
type OpenAIClient struct {
	client openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI-compatible client
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	var opts []option.RequestOption
	switch config.Provider {
	case ProviderAzureOpenAI:
		if config.BaseURL == "" {
			return nil, fmt.Errorf("azure endpoint is required")
		}
		opts = append(opts,
			azure.WithEndpoint(config.BaseURL, config.APIVersion),
			azure.WithAPIKey(apiKey),
		)
	default:
		opts = append(opts, option.WithAPIKey(apiKey))
		if config.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(config.BaseURL))
		}
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier, opts ...Option) (string, error) {
	return c.complete(ctx, prompt, tier, false, ResolveOptions(opts))
}

// GenerateJSON generates JSON content using the specified model tier
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier, opts ...Option) (string, error) {
	text, err := c.complete(ctx, prompt, tier, true, ResolveOptions(opts))
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string, tier ModelTier, jsonMode bool, o CallOptions) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if o.System != "" {
		messages = append(messages, openai.SystemMessage(o.System))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(modelName),
		Messages:    messages,
		Temperature: openai.Float(o.Temperature),
	}
	if o.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.MaxTokens))
	}
	// Perplexity rejects the json_object response format; its answers are cleaned instead.
	if jsonMode && c.config.Provider != ProviderPerplexity {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{
				Type: "json_object",
			},
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	return completion.Choices[0].Message.Content, nil
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (c *OpenAIClient) Close() error {
	return nil
}

// IsRateLimited reports whether err is an HTTP 429 from an OpenAI-compatible API.
func IsRateLimited(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
