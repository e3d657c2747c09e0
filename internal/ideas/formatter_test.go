package ideas

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/gift-finder/internal/llm"
	"github.com/jonathan/gift-finder/internal/llm/llmtest"
	"github.com/jonathan/gift-finder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMFormatter_Format(t *testing.T) {
	client := &llmtest.MockClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return `{"product_ideas": [
				{"name": "SG RSD Xtreme English Willow Bat", "category": "Cricket Bats",
				 "estimated_price_range": {"min": "₹2,199", "max": "₹2,899"},
				 "why_recommended": "Lightweight willow", "search_keywords": ["SG RSD Xtreme"]},
				{"name": "  ", "estimated_price_range": {"min": 1, "max": 2}},
				{"name": "SS Cricket Kit Bag", "estimated_price_range": {"min": "ask seller", "max": 2500}}
			]}`, nil
		},
	}

	ideas, err := NewLLMFormatter(client).Format(context.Background(), "1. SG RSD Xtreme ...")
	require.NoError(t, err)
	require.Len(t, ideas, 2)

	assert.Equal(t, "SG RSD Xtreme English Willow Bat", ideas[0].Name)
	assert.Equal(t, types.PriceRange{Min: 2199, Max: 2899}, ideas[0].EstimatedPriceRange)
	assert.Equal(t, []string{"SG RSD Xtreme"}, ideas[0].SearchKeywords)
	assert.Equal(t, "SS Cricket Kit Bag", ideas[1].Name)
	assert.Equal(t, types.PriceRange{}, ideas[1].EstimatedPriceRange)

	call := client.LastCall()
	assert.True(t, call.JSON)
	assert.Equal(t, 0.1, call.Options.Temperature)
	assert.Equal(t, 4000, call.Options.MaxTokens)
	assert.Contains(t, call.Prompt, "1. SG RSD Xtreme ...")
}

func TestLLMFormatter_Format_Errors(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		response string
		apiErr   error
	}{
		{name: "empty input", raw: " "},
		{name: "provider failure", raw: "ideas", apiErr: errors.New("timeout")},
		{name: "not JSON", raw: "ideas", response: "Sorry, here are some ideas"},
		{name: "no ideas", raw: "ideas", response: `{"product_ideas": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &llmtest.MockClient{
				GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
					return tt.response, tt.apiErr
				},
			}
			ideas, err := NewLLMFormatter(client).Format(context.Background(), tt.raw)
			assert.Nil(t, ideas)
			var fmtErr *FormatError
			assert.True(t, errors.As(err, &fmtErr))
		})
	}
}
