package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/gift-finder/internal/ideas"
	"github.com/jonathan/gift-finder/internal/metrics"
	"github.com/jonathan/gift-finder/internal/parsing"
	"github.com/jonathan/gift-finder/internal/types"
)

// Recommendation is the full output of one gift request.
type Recommendation struct {
	ID         string                `json:"id"`
	Request    string                `json:"request"`
	Parsed     *types.GiftRequest    `json:"parsed_request"`
	RawIdeas   string                `json:"raw_ideas,omitempty"`
	Ideas      []types.ProductIdea   `json:"ideas"`
	Candidates []types.CandidateView `json:"candidates"`
	StartedAt  time.Time             `json:"started_at"`
	Duration   time.Duration         `json:"duration_ns"`
}

// Recommender runs a free-text request through parsing, idea research,
// formatting and candidate enrichment.
type Recommender struct {
	parser       parsing.Parser
	generator    ideas.Generator
	formatter    ideas.Formatter
	orchestrator *Orchestrator
	logger       *slog.Logger
}

// NewRecommender wires the batch stages to an orchestrator.
func NewRecommender(parser parsing.Parser, generator ideas.Generator, formatter ideas.Formatter, orchestrator *Orchestrator, logger *slog.Logger) *Recommender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recommender{
		parser:       parser,
		generator:    generator,
		formatter:    formatter,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Recommend executes the pipeline for one request. Failures before candidate
// work begins are returned as *StageError; per-candidate failures are recorded
// on the candidates. onProgress may be nil.
func (r *Recommender) Recommend(ctx context.Context, text string, onProgress ProgressCallback) (*Recommendation, error) {
	rec := &Recommendation{
		ID:        uuid.New().String(),
		Request:   text,
		StartedAt: time.Now(),
	}
	logger := r.logger.With("request_id", rec.ID)
	emit := func(stage string, completed, total int) {
		if onProgress != nil {
			onProgress(newEvent(stage, completed, total))
		}
	}

	logger.Info("parsing gift request")
	parsed, err := r.parser.Parse(ctx, text)
	if err != nil {
		return nil, r.fail(logger, StageParseRequest, err)
	}
	rec.Parsed = parsed
	emit(StageParseRequest, 1, 1)

	logger.Info("researching product ideas", "categories", len(parsed.GiftCategories))
	raw, err := r.generator.Generate(ctx, text, parsed)
	if err != nil {
		return nil, r.fail(logger, StageGenerateIdeas, err)
	}
	rec.RawIdeas = raw
	emit(StageGenerateIdeas, 1, 1)

	productIdeas, err := r.formatter.Format(ctx, raw)
	if err != nil {
		return nil, r.fail(logger, StageFormatIdeas, err)
	}
	rec.Ideas = productIdeas
	emit(StageFormatIdeas, len(productIdeas), len(productIdeas))
	logger.Info("structured product ideas", "count", len(productIdeas))

	candidates := r.resolve(ctx, productIdeas, onProgress)
	rec.Candidates = types.Views(candidates)
	rec.Duration = time.Since(rec.StartedAt)

	metrics.RecordBatch(metrics.OutcomeOK)
	logger.Info("recommendation complete", "candidates", len(candidates), "duration", rec.Duration.Round(time.Millisecond))
	return rec, nil
}

// Resolve runs only candidate enrichment for ideas the caller already has.
func (r *Recommender) Resolve(ctx context.Context, productIdeas []types.ProductIdea, onProgress ProgressCallback) []types.CandidateView {
	candidates := r.resolve(ctx, productIdeas, onProgress)
	metrics.RecordBatch(metrics.OutcomeOK)
	return types.Views(candidates)
}

func (r *Recommender) resolve(ctx context.Context, productIdeas []types.ProductIdea, onProgress ProgressCallback) []types.Candidate {
	orch := r.orchestrator
	if onProgress != nil {
		orch = orch.WithProgress(onProgress)
	}
	return orch.Run(ctx, productIdeas)
}

func (r *Recommender) fail(logger *slog.Logger, stage string, err error) error {
	metrics.RecordBatch(metrics.OutcomeFailed)
	logger.Error("pipeline stage failed", "stage", stage, "error", err)
	return &StageError{Stage: stage, Err: err}
}
