package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/gift-finder/internal/config"
	"github.com/jonathan/gift-finder/internal/extraction"
	"github.com/jonathan/gift-finder/internal/ideas"
	"github.com/jonathan/gift-finder/internal/llm"
	"github.com/jonathan/gift-finder/internal/parsing"
	"github.com/jonathan/gift-finder/internal/pipeline"
	"github.com/jonathan/gift-finder/internal/search"
)

// llmConfig maps the configured provider to model tiers.
func llmConfig(cfg config.Config) (*llm.Config, error) {
	var lc *llm.Config
	switch cfg.LLMProvider {
	case "", "gemini":
		lc = llm.DefaultGeminiConfig()
	case "openai":
		lc = llm.DefaultOpenAIConfig()
	case "azure":
		if cfg.AzureDeployment == "" {
			return nil, fmt.Errorf("azure_deployment is required for the azure provider")
		}
		lc = llm.DefaultAzureConfig(cfg.AzureEndpoint, cfg.AzureDeployment, cfg.AzureAPIVersion)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
	if cfg.LLMModel != "" {
		lc = lc.WithModel(llm.TierStandard, cfg.LLMModel)
	}
	return lc, nil
}

func newLLMClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	lc, err := llmConfig(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required for provider %s (set the provider's API key environment variable or api_key in the config file)", lc.Provider)
	}
	return llm.NewClient(ctx, lc, cfg.APIKey)
}

// newResearchClient returns the client used for idea research. With research
// provider "same" the primary client serves the research tier too.
func newResearchClient(ctx context.Context, cfg config.Config, primary llm.Client) (llm.Client, bool, error) {
	if cfg.ResearchProvider == "same" {
		return primary, false, nil
	}
	if cfg.PerplexityAPIKey == "" {
		return nil, false, fmt.Errorf("PERPLEXITY_API_KEY is required for idea research (or set research_provider: same)")
	}
	pc := llm.DefaultPerplexityConfig()
	if cfg.ResearchModel != "" {
		pc = pc.WithModel(llm.TierResearch, cfg.ResearchModel)
	}
	client, err := llm.NewClient(ctx, pc, cfg.PerplexityAPIKey)
	if err != nil {
		return nil, false, err
	}
	return client, true, nil
}

func locale(cfg config.Config) search.Locale {
	return search.Locale{
		Country:      cfg.Country,
		Language:     cfg.Language,
		Location:     cfg.Location,
		GoogleDomain: cfg.GoogleDomain,
	}
}

func newSearchProvider(ctx context.Context, cfg config.Config) (search.Provider, error) {
	switch cfg.SearchProvider {
	case "", "google":
		if cfg.GoogleAPIKey == "" || cfg.GoogleCX == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY and GOOGLE_CSE_ID are required for the google search provider")
		}
		p, err := search.NewGoogleProvider(ctx, cfg.GoogleAPIKey, cfg.GoogleCX, locale(cfg))
		if err != nil {
			return nil, err
		}
		return p, nil
	case "serpapi":
		p, err := search.NewSerpAPIProvider(cfg.SerpAPIKey, "", locale(cfg))
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported search provider %q", cfg.SearchProvider)
	}
}

// app holds the wired components and what must be closed afterwards.
type app struct {
	parser       *parsing.LLMParser
	orchestrator *pipeline.Orchestrator
	recommender  *pipeline.Recommender
	closers      []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c()
	}
}

// newOrchestrator wires search and extraction around client.
func newOrchestrator(ctx context.Context, cfg config.Config, client llm.Client, logger *slog.Logger) (*pipeline.Orchestrator, error) {
	provider, err := newSearchProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	schema, err := extraction.ProductMetadataSchema()
	if err != nil {
		return nil, err
	}

	collaborator := extraction.NewPageCollaborator(client, extraction.PageOptions{
		Browser:         extraction.BrowserMode(cfg.BrowserMode),
		PageTimeout:     cfg.PageTimeout(),
		MaxInputTokens:  cfg.MaxInputTokens,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Currency:        cfg.Currency,
	}, logger)

	return pipeline.NewOrchestrator(
		search.NewLinkResolver(provider, cfg.LinkTimeout()),
		extraction.NewMetadataExtractor(collaborator, schema, cfg.PageTimeout(), logger),
		pipeline.Options{
			Concurrency:   cfg.Concurrency,
			ProgressEvery: cfg.ProgressEvery,
			Logger:        logger,
		},
	), nil
}

// newApp wires every component the full pipeline needs.
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{}

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)

	research, owned, err := newResearchClient(ctx, cfg, client)
	if err != nil {
		a.Close()
		return nil, err
	}
	if owned {
		a.closers = append(a.closers, research.Close)
	}

	orch, err := newOrchestrator(ctx, cfg, client, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.parser = parsing.NewLLMParser(client, cfg.Currency)
	a.orchestrator = orch
	a.recommender = pipeline.NewRecommender(
		a.parser,
		ideas.NewLLMGenerator(research, ideas.GeneratorOptions{
			Market:         cfg.Market,
			CurrencySymbol: cfg.CurrencySymbol,
			Count:          cfg.IdeaCount,
		}),
		ideas.NewLLMFormatter(client),
		orch,
		logger,
	)
	return a, nil
}
