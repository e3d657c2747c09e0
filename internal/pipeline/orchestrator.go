// Package pipeline resolves gift ideas into enriched product candidates.
//
// The Orchestrator runs two bounded fan-out rounds over the candidates: link
// resolution, then metadata extraction once every link is settled. Item
// failures are recorded on the candidate and never abort the batch.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonathan/gift-finder/internal/metrics"
	"github.com/jonathan/gift-finder/internal/types"
	"github.com/jonathan/gift-finder/internal/workerpool"
)

// LinkResolver finds at most one canonical link for a product name.
type LinkResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// MetadataExtractor turns a link into a metadata result; it reports failures as data.
type MetadataExtractor interface {
	Extract(ctx context.Context, link string) *types.MetadataResult
}

// Options configures an Orchestrator.
type Options struct {
	// Concurrency caps in-flight external calls per stage. Zero means workerpool.DefaultConcurrency.
	Concurrency int
	// ProgressEvery batches progress events. Zero means DefaultProgressEvery.
	ProgressEvery int
	// Events receives progress events. The orchestrator never closes it.
	Events chan<- Event
	// OnProgress is called synchronously for every progress event.
	OnProgress ProgressCallback
	Logger     *slog.Logger
}

// Orchestrator drives link resolution and metadata extraction for a batch of ideas.
type Orchestrator struct {
	resolver  LinkResolver
	extractor MetadataExtractor
	opts      Options
	logger    *slog.Logger
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(resolver LinkResolver, extractor MetadataExtractor, opts Options) *Orchestrator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = workerpool.DefaultConcurrency
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{resolver: resolver, extractor: extractor, opts: opts, logger: logger}
}

// WithProgress returns a copy of o that reports progress to fn instead of the configured sinks.
func (o *Orchestrator) WithProgress(fn ProgressCallback) *Orchestrator {
	clone := *o
	clone.opts.Events = nil
	clone.opts.OnProgress = fn
	return &clone
}

func (o *Orchestrator) sink() progressSink {
	return progressSink{events: o.opts.Events, onProgress: o.opts.OnProgress}
}

// Run returns one candidate per idea, in input order, after both stages have
// finished for every candidate.
func (o *Orchestrator) Run(ctx context.Context, ideas []types.ProductIdea) []types.Candidate {
	candidates := types.NewCandidates(ideas)
	if len(candidates) == 0 {
		return candidates
	}

	o.resolveLinks(ctx, candidates)
	o.extractMetadata(ctx, candidates)
	return candidates
}

func (o *Orchestrator) resolveLinks(ctx context.Context, candidates []types.Candidate) {
	start := time.Now()
	total := len(candidates)

	work := func(ctx context.Context, c types.Candidate) (link string, err error) {
		outcome := metrics.OutcomeFailed
		done := metrics.TrackInFlight(StageLinkResolution)
		defer func() { done(outcome) }()

		link, err = o.resolver.Resolve(ctx, c.Name)
		switch {
		case err != nil:
		case link == "":
			outcome = metrics.OutcomeMissing
		default:
			outcome = metrics.OutcomeOK
		}
		return link, err
	}

	resolved, completed := 0, 0
	for done := range workerpool.Run(ctx, candidates, o.opts.Concurrency, work) {
		candidates[done.Index].SetLink(done.Result, done.Err)
		if done.Err != nil {
			o.logger.Warn("link resolution failed", "candidate", done.Item.Name, "error", done.Err)
		} else if done.Result != "" {
			resolved++
		}

		completed++
		if shouldEmit(completed, total, o.opts.ProgressEvery) {
			o.sink().emit(ctx, newEvent(StageLinkResolution, completed, total))
		}
	}

	o.logger.Info("link resolution finished",
		"resolved", resolved, "total", total, "duration", time.Since(start).Round(time.Millisecond))
}

func (o *Orchestrator) extractMetadata(ctx context.Context, candidates []types.Candidate) {
	start := time.Now()
	total := len(candidates)

	work := func(ctx context.Context, c types.Candidate) (*types.MetadataResult, error) {
		if c.LinkErr != "" {
			return types.MetadataFailed(types.FailureSearch, c.LinkErr, ""), nil
		}
		if !c.HasLink() {
			return o.extractor.Extract(ctx, ""), nil
		}

		outcome := metrics.OutcomeFailed
		done := metrics.TrackInFlight(StageMetadataExtraction)
		defer func() { done(outcome) }()

		result := o.extractor.Extract(ctx, c.Link)
		if result != nil && result.Success {
			outcome = metrics.OutcomeOK
		}
		return result, nil
	}

	succeeded, completed := 0, 0
	for done := range workerpool.Run(ctx, candidates, o.opts.Concurrency, work) {
		result := done.Result
		switch {
		case done.Err != nil:
			result = types.MetadataFailed(types.FailureExtraction, done.Err.Error(), done.Item.Link)
		case result == nil:
			result = types.MetadataFailed(types.FailureExtraction, "extractor returned no result", done.Item.Link)
		}
		candidates[done.Index].Metadata = result
		if result.Success {
			succeeded++
		}

		completed++
		if shouldEmit(completed, total, o.opts.ProgressEvery) {
			o.sink().emit(ctx, newEvent(StageMetadataExtraction, completed, total))
		}
	}

	o.logger.Info("metadata extraction finished",
		"succeeded", succeeded, "total", total, "duration", time.Since(start).Round(time.Millisecond))
}
