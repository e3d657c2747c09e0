package pipeline

import (
	"context"
	"fmt"
)

// Stage names carried by progress events.
const (
	StageParseRequest       = "parse_request"
	StageGenerateIdeas      = "generate_ideas"
	StageFormatIdeas        = "format_ideas"
	StageLinkResolution     = "link_resolution"
	StageMetadataExtraction = "metadata_extraction"
)

// DefaultProgressEvery is how many completions are batched into one progress event.
const DefaultProgressEvery = 2

// Event is a progress update: Completed of Total items of Stage are done.
type Event struct {
	Stage     string `json:"stage"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Message   string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event Event)

func newEvent(stage string, completed, total int) Event {
	var msg string
	switch stage {
	case StageLinkResolution:
		msg = fmt.Sprintf("Processed %d of %d products", completed, total)
	case StageMetadataExtraction:
		msg = fmt.Sprintf("Extracted metadata for %d of %d products", completed, total)
	case StageParseRequest:
		msg = "Parsed gift request"
	case StageGenerateIdeas:
		msg = "Researched product ideas"
	case StageFormatIdeas:
		msg = fmt.Sprintf("Structured %d product ideas", total)
	default:
		msg = fmt.Sprintf("%s: %d of %d", stage, completed, total)
	}
	return Event{Stage: stage, Completed: completed, Total: total, Message: msg}
}

// progressSink fans an event out to a channel and a callback, either of which may be nil.
type progressSink struct {
	events     chan<- Event
	onProgress ProgressCallback
}

func (s progressSink) emit(ctx context.Context, ev Event) {
	if s.onProgress != nil {
		s.onProgress(ev)
	}
	if s.events != nil {
		select {
		case s.events <- ev:
		case <-ctx.Done():
		}
	}
}

// shouldEmit reports whether the completed-th completion of total gets an event.
func shouldEmit(completed, total, every int) bool {
	if every <= 0 {
		every = DefaultProgressEvery
	}
	return completed%every == 0 || completed == total
}
