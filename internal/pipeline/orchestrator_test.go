package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/gift-finder/internal/types"
)

type linkOutcome struct {
	link string
	err  error
}

type fakeResolver struct {
	outcomes map[string]linkOutcome
	delay    time.Duration
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	panicOn  string
}

func (f *fakeResolver) Resolve(ctx context.Context, name string) (string, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if name == f.panicOn {
		panic("resolver exploded")
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if out, ok := f.outcomes[name]; ok {
		return out.link, out.err
	}
	return "https://www.amazon.in/dp/" + strings.ReplaceAll(name, " ", "-"), nil
}

type fakeExtractor struct {
	mu       sync.Mutex
	links    []string
	failFor  map[string]bool
	onCall   func()
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration
}

func (f *fakeExtractor) Extract(ctx context.Context, link string) *types.MetadataResult {
	if link == "" {
		return types.NoLinkFailure()
	}
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if f.onCall != nil {
		f.onCall()
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.links = append(f.links, link)
	f.mu.Unlock()

	if f.failFor[link] {
		return types.MetadataFailed(types.FailureExtraction, "page load timed out", link)
	}
	return types.MetadataOK(&types.ProductMetadata{Product: link, Website: "amazon.in"})
}

func (f *fakeExtractor) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.links...)
}

func TestRun_PreservesOrderAndCount(t *testing.T) {
	names := []string{"JBL Flip 6", "Kindle Paperwhite", "Fossil Watch", "Yoga Mat", "Bamboo Planter"}
	resolver := &fakeResolver{delay: 5 * time.Millisecond}
	orch := NewOrchestrator(resolver, &fakeExtractor{}, Options{Concurrency: 3})

	candidates := orch.Run(context.Background(), types.IdeasFromNames(names...))

	require.Len(t, candidates, len(names))
	for i, c := range candidates {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, names[i], c.Name)
		require.NotNil(t, c.Metadata)
		assert.True(t, c.Metadata.Success)
		assert.Equal(t, types.StatusMetadataOK, c.Status())
	}
}

func TestRun_Empty(t *testing.T) {
	resolver := &fakeResolver{}
	orch := NewOrchestrator(resolver, &fakeExtractor{}, Options{})

	candidates := orch.Run(context.Background(), nil)

	assert.Empty(t, candidates)
	assert.Equal(t, int32(0), resolver.calls.Load())
}

func TestRun_NoLinkSkipsExtraction(t *testing.T) {
	resolver := &fakeResolver{outcomes: map[string]linkOutcome{
		"Obscure Gadget": {link: ""},
	}}
	extractor := &fakeExtractor{}
	orch := NewOrchestrator(resolver, extractor, Options{Concurrency: 2})

	candidates := orch.Run(context.Background(), types.IdeasFromNames("JBL Flip 6", "Obscure Gadget"))

	require.Len(t, candidates, 2)
	missing := candidates[1]
	assert.False(t, missing.HasLink())
	require.NotNil(t, missing.Metadata)
	assert.False(t, missing.Metadata.Success)
	assert.Equal(t, types.FailureNoLink, missing.Metadata.Failure.Kind)
	assert.Equal(t, types.NoLinkReason, missing.Metadata.Failure.Reason)

	assert.Equal(t, []string{"https://www.amazon.in/dp/JBL-Flip-6"}, extractor.called())
}

func TestRun_SearchErrorRecorded(t *testing.T) {
	resolver := &fakeResolver{outcomes: map[string]linkOutcome{
		"Kindle": {err: errors.New("quota exceeded")},
	}}
	extractor := &fakeExtractor{}
	orch := NewOrchestrator(resolver, extractor, Options{})

	candidates := orch.Run(context.Background(), types.IdeasFromNames("Kindle", "Yoga Mat"))

	failed := candidates[0]
	assert.Equal(t, "quota exceeded", failed.LinkErr)
	assert.Empty(t, failed.Link)
	require.NotNil(t, failed.Metadata)
	assert.Equal(t, types.FailureSearch, failed.Metadata.Failure.Kind)
	assert.Equal(t, "quota exceeded", failed.Metadata.Failure.Reason)

	assert.True(t, candidates[1].Metadata.Success)
	assert.Len(t, extractor.called(), 1)
}

func TestRun_ResolverPanicIsolated(t *testing.T) {
	resolver := &fakeResolver{panicOn: "Cursed Item"}
	orch := NewOrchestrator(resolver, &fakeExtractor{}, Options{Concurrency: 2})

	candidates := orch.Run(context.Background(), types.IdeasFromNames("Cursed Item", "Yoga Mat", "Fossil Watch"))

	require.Len(t, candidates, 3)
	assert.Equal(t, types.FailureSearch, candidates[0].Metadata.Failure.Kind)
	assert.Contains(t, candidates[0].LinkErr, "resolver exploded")
	assert.True(t, candidates[1].Metadata.Success)
	assert.True(t, candidates[2].Metadata.Success)
}

func TestRun_ExtractionFailureIsolated(t *testing.T) {
	bad := "https://www.amazon.in/dp/Fossil-Watch"
	extractor := &fakeExtractor{failFor: map[string]bool{bad: true}}
	orch := NewOrchestrator(&fakeResolver{}, extractor, Options{})

	candidates := orch.Run(context.Background(), types.IdeasFromNames("JBL Flip 6", "Fossil Watch", "Yoga Mat"))

	assert.True(t, candidates[0].Metadata.Success)
	assert.False(t, candidates[1].Metadata.Success)
	assert.Equal(t, types.FailureExtraction, candidates[1].Metadata.Failure.Kind)
	assert.Equal(t, bad, candidates[1].Link)
	assert.True(t, candidates[2].Metadata.Success)
}

func TestRun_RespectsConcurrencyCap(t *testing.T) {
	names := make([]string, 8)
	for i := range names {
		names[i] = fmt.Sprintf("Gift %d", i)
	}
	resolver := &fakeResolver{delay: 10 * time.Millisecond}
	extractor := &fakeExtractor{delay: 10 * time.Millisecond}
	orch := NewOrchestrator(resolver, extractor, Options{Concurrency: 2})

	candidates := orch.Run(context.Background(), types.IdeasFromNames(names...))

	require.Len(t, candidates, len(names))
	assert.LessOrEqual(t, resolver.maxSeen.Load(), int32(2))
	assert.LessOrEqual(t, extractor.maxSeen.Load(), int32(2))
	assert.Equal(t, int32(len(names)), resolver.calls.Load())
}

func TestRun_ExtractionStartsAfterAllLinks(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E"}
	resolver := &fakeResolver{delay: 5 * time.Millisecond}
	var early atomic.Bool
	extractor := &fakeExtractor{onCall: func() {
		if resolver.calls.Load() != int32(len(names)) || resolver.inFlight.Load() != 0 {
			early.Store(true)
		}
	}}
	orch := NewOrchestrator(resolver, extractor, Options{Concurrency: 2})

	orch.Run(context.Background(), types.IdeasFromNames(names...))

	assert.False(t, early.Load(), "metadata extraction began before link resolution finished")
	assert.Len(t, extractor.called(), len(names))
}

func TestRun_Idempotent(t *testing.T) {
	resolver := &fakeResolver{outcomes: map[string]linkOutcome{"Nothing": {}}}
	orch := NewOrchestrator(resolver, &fakeExtractor{}, Options{Concurrency: 3})
	input := types.IdeasFromNames("JBL Flip 6", "Nothing", "Yoga Mat")

	first := orch.Run(context.Background(), input)
	second := orch.Run(context.Background(), input)

	assert.Equal(t, types.Views(first), types.Views(second))
}

func TestRun_ProgressCadence(t *testing.T) {
	var events []Event
	orch := NewOrchestrator(&fakeResolver{}, &fakeExtractor{}, Options{
		Concurrency: 2,
		OnProgress:  func(ev Event) { events = append(events, ev) },
	})

	orch.Run(context.Background(), types.IdeasFromNames("A", "B", "C", "D", "E"))

	require.Len(t, events, 6)
	wantCompleted := []int{2, 4, 5}
	for i, ev := range events[:3] {
		assert.Equal(t, StageLinkResolution, ev.Stage)
		assert.Equal(t, wantCompleted[i], ev.Completed)
		assert.Equal(t, 5, ev.Total)
	}
	for i, ev := range events[3:] {
		assert.Equal(t, StageMetadataExtraction, ev.Stage)
		assert.Equal(t, wantCompleted[i], ev.Completed)
	}
	assert.Equal(t, "Processed 2 of 5 products", events[0].Message)
	assert.Equal(t, "Extracted metadata for 5 of 5 products", events[5].Message)
}

func TestRun_EventsChannel(t *testing.T) {
	ch := make(chan Event, 16)
	orch := NewOrchestrator(&fakeResolver{}, &fakeExtractor{}, Options{Events: ch, ProgressEvery: 1})

	orch.Run(context.Background(), types.IdeasFromNames("A", "B", "C"))

	assert.Len(t, ch, 6)
	first := <-ch
	assert.Equal(t, 1, first.Completed)
	assert.Equal(t, StageLinkResolution, first.Stage)
}

func TestRun_CancelledContextDoesNotBlockOnEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch := make(chan Event) // nobody reads
	orch := NewOrchestrator(&fakeResolver{}, &fakeExtractor{}, Options{Events: ch})

	done := make(chan []types.Candidate)
	go func() { done <- orch.Run(ctx, types.IdeasFromNames("A", "B")) }()

	select {
	case candidates := <-done:
		assert.Len(t, candidates, 2)
		for _, c := range candidates {
			assert.NotNil(t, c.Metadata)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run blocked on an unread events channel after cancellation")
	}
}

func TestWithProgress_DoesNotMutateOriginal(t *testing.T) {
	var original, override int
	orch := NewOrchestrator(&fakeResolver{}, &fakeExtractor{}, Options{OnProgress: func(Event) { original++ }})

	orch.WithProgress(func(Event) { override++ }).Run(context.Background(), types.IdeasFromNames("A"))

	assert.Equal(t, 0, original)
	assert.Equal(t, 2, override)
}

func TestShouldEmit(t *testing.T) {
	assert.False(t, shouldEmit(1, 5, 2))
	assert.True(t, shouldEmit(2, 5, 2))
	assert.True(t, shouldEmit(5, 5, 2))
	assert.True(t, shouldEmit(1, 1, 2))
	assert.True(t, shouldEmit(2, 5, 0))
}
