// Package parsing turns a free-text gift request into a structured GiftRequest using LLM extraction.
package parsing

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/gift-finder/internal/llm"
	"github.com/jonathan/gift-finder/internal/prompts"
	"github.com/jonathan/gift-finder/internal/types"
)

// Generation settings for request parsing.
const (
	parseTemperature = 0
	parseMaxTokens   = 1000
)

// Parser turns free text into a GiftRequest.
type Parser interface {
	Parse(ctx context.Context, text string) (*types.GiftRequest, error)
}

// LLMParser implements Parser with a single JSON-mode LLM call.
type LLMParser struct {
	client   llm.Client
	tier     llm.ModelTier
	currency string
}

// NewLLMParser creates a parser. currency names the unit of budget amounts (e.g. "INR").
func NewLLMParser(client llm.Client, currency string) *LLMParser {
	if currency == "" {
		currency = "INR"
	}
	return &LLMParser{client: client, tier: llm.TierStandard, currency: currency}
}

// Parse extracts a structured GiftRequest from text.
func (p *LLMParser) Parse(ctx context.Context, text string) (*types.GiftRequest, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Field: "request", Message: "gift request text is empty"}
	}

	responseText, err := p.client.GenerateJSON(ctx, p.buildPrompt(text), p.tier,
		llm.WithTemperature(parseTemperature),
		llm.WithMaxTokens(parseMaxTokens),
	)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate content from LLM", Cause: err}
	}

	req, err := parseJSONResponse(responseText)
	if err != nil {
		return nil, err
	}

	if err := postProcessRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (p *LLMParser) buildPrompt(text string) string {
	template := prompts.MustGet(prompts.ParsingFile, "parse-gift-request")
	return prompts.Format(template, map[string]string{
		"Request":    text,
		"Currency":   p.currency,
		"DefaultMin": strconv.Itoa(types.DefaultBudgetMin),
		"DefaultMax": strconv.Itoa(types.DefaultBudgetMax),
	})
}

func parseJSONResponse(jsonText string) (*types.GiftRequest, error) {
	var req types.GiftRequest
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(jsonText)), &req); err != nil {
		return nil, &ParseError{Message: "failed to parse JSON response", Raw: jsonText, Cause: err}
	}
	return &req, nil
}

// postProcessRequest normalizes the budget, drops placeholder values and validates the result.
func postProcessRequest(req *types.GiftRequest) error {
	req.Recipient.Gender = dropPlaceholder(req.Recipient.Gender)
	req.Recipient.AgeGroup = dropPlaceholder(req.Recipient.AgeGroup)
	req.Recipient.Relationship = dropPlaceholder(req.Recipient.Relationship)
	req.Occasion = dropPlaceholder(req.Occasion)
	req.SearchQueries = cleanList(req.SearchQueries)
	req.GiftCategories = cleanList(req.GiftCategories)
	req.Budget.Normalize()

	if len(req.GiftCategories) == 0 {
		return &ValidationError{Field: "gift_categories", Message: "at least one gift category is required"}
	}

	if err := req.Validate(); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return &ValidationError{Field: verrs[0].Namespace(), Message: verrs[0].Error()}
		}
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

func dropPlaceholder(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "N/A") {
		return ""
	}
	return s
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = dropPlaceholder(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
