// Package ideas researches gift product ideas and reformats them into structured ProductIdeas.
package ideas

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonathan/gift-finder/internal/llm"
	"github.com/jonathan/gift-finder/internal/prompts"
	"github.com/jonathan/gift-finder/internal/types"
)

// Generation settings for the research call.
const (
	researchTemperature = 0.7
	researchMaxTokens   = 4000
)

// DefaultIdeaCount is how many products the research call asks for.
const DefaultIdeaCount = 10

const notSpecified = "Not specified"

// Generator produces unstructured product recommendations for a parsed request.
type Generator interface {
	Generate(ctx context.Context, text string, req *types.GiftRequest) (string, error)
}

// GeneratorOptions localizes the research prompt.
type GeneratorOptions struct {
	Market         string // e.g. "India"
	CurrencySymbol string // e.g. "₹"
	Count          int
}

// LLMGenerator implements Generator with a web-grounded research model (Perplexity sonar-pro by default).
type LLMGenerator struct {
	client llm.Client
	opts   GeneratorOptions
}

// NewLLMGenerator creates a generator backed by client's research tier.
func NewLLMGenerator(client llm.Client, opts GeneratorOptions) *LLMGenerator {
	if opts.Market == "" {
		opts.Market = "India"
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "₹"
	}
	if opts.Count <= 0 {
		opts.Count = DefaultIdeaCount
	}
	return &LLMGenerator{client: client, opts: opts}
}

// Generate returns the research model's raw answer.
func (g *LLMGenerator) Generate(ctx context.Context, text string, req *types.GiftRequest) (string, error) {
	if req == nil {
		return "", &GenerationError{Message: "parsed request is required"}
	}

	system := prompts.Format(prompts.MustGet(prompts.ResearchFile, "generate-ideas-system"), map[string]string{
		"Market": g.opts.Market,
		"Count":  strconv.Itoa(g.opts.Count),
	})

	content, err := g.client.GenerateContent(ctx, g.buildUserPrompt(text, req), llm.TierResearch,
		llm.WithSystem(system),
		llm.WithTemperature(researchTemperature),
		llm.WithMaxTokens(researchMaxTokens),
	)
	if err != nil {
		return "", &GenerationError{Message: "research call failed", Cause: err}
	}
	if strings.TrimSpace(content) == "" {
		return "", &GenerationError{Message: "research call returned no content"}
	}
	return content, nil
}

func (g *LLMGenerator) buildUserPrompt(text string, req *types.GiftRequest) string {
	interests := "No specific interests mentioned"
	if len(req.Recipient.Interests) > 0 {
		interests = strings.Join(req.Recipient.Interests, ", ")
	}

	categories := make([]string, len(req.GiftCategories))
	for i, c := range req.GiftCategories {
		categories[i] = "- " + c
	}

	template := prompts.MustGet(prompts.ResearchFile, "generate-ideas-user")
	return prompts.Format(template, map[string]string{
		"Request":        text,
		"AgeGroup":       orNotSpecified(req.Recipient.AgeGroup),
		"Relationship":   orNotSpecified(req.Recipient.Relationship),
		"Gender":         orNotSpecified(req.Recipient.Gender),
		"Occasion":       orNotSpecified(req.Occasion),
		"Interests":      interests,
		"CurrencySymbol": g.opts.CurrencySymbol,
		"BudgetMin":      strconv.Itoa(req.Budget.Min),
		"BudgetMax":      strconv.Itoa(req.Budget.Max),
		"Categories":     strings.Join(categories, "\n"),
		"Market":         g.opts.Market,
	})
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}
