package ideas

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/gift-finder/internal/llm"
	"github.com/jonathan/gift-finder/internal/prompts"
	"github.com/jonathan/gift-finder/internal/types"
)

// Generation settings for the reformatting call.
const (
	formatTemperature = 0.1
	formatMaxTokens   = 4000
)

// Formatter reformats raw recommendation text into structured ProductIdeas.
type Formatter interface {
	Format(ctx context.Context, raw string) ([]types.ProductIdea, error)
}

// LLMFormatter implements Formatter with a JSON-mode LLM call.
type LLMFormatter struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMFormatter creates a formatter backed by client's standard tier.
func NewLLMFormatter(client llm.Client) *LLMFormatter {
	return &LLMFormatter{client: client, tier: llm.TierStandard}
}

// Format returns the product ideas found in raw, in the order the model listed them.
// Malformed price bounds become a 0/0 range; ideas without a name are dropped.
func (f *LLMFormatter) Format(ctx context.Context, raw string) ([]types.ProductIdea, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &FormatError{Message: "nothing to format"}
	}

	prompt := prompts.Format(prompts.MustGet(prompts.FormattingFile, "format-product-ideas"), map[string]string{
		"Recommendations": raw,
	})

	responseText, err := f.client.GenerateJSON(ctx, prompt, f.tier,
		llm.WithTemperature(formatTemperature),
		llm.WithMaxTokens(formatMaxTokens),
	)
	if err != nil {
		return nil, &FormatError{Message: "reformatting call failed", Cause: err}
	}

	return parseProductIdeas(responseText)
}

func parseProductIdeas(jsonText string) ([]types.ProductIdea, error) {
	var envelope types.ProductIdeas
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(jsonText)), &envelope); err != nil {
		return nil, &FormatError{Message: "failed to parse JSON response", Raw: jsonText, Cause: err}
	}

	ideas := make([]types.ProductIdea, 0, len(envelope.ProductIdeas))
	for _, idea := range envelope.ProductIdeas {
		idea.Name = strings.TrimSpace(idea.Name)
		if err := idea.Validate(); err != nil {
			continue
		}
		ideas = append(ideas, idea)
	}

	if len(ideas) == 0 {
		return nil, &FormatError{Message: "no product ideas in response", Raw: jsonText}
	}
	return ideas, nil
}
