package dialogue

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/voxaide/voxaide-core/core/capture"
	"github.com/voxaide/voxaide-core/core/events"
	"github.com/voxaide/voxaide-core/core/news"
	"github.com/voxaide/voxaide-core/core/resilience"
	"github.com/voxaide/voxaide-core/core/synthesis"
)

// scriptedCapture replays a fixed sequence of capture results. Once the
// script runs out it cancels the session context so loops terminate.
type scriptedCapture struct {
	mu      sync.Mutex
	script  []capture.Result
	cancel  context.CancelFunc
	stopped atomic.Bool

	// onListen, when set, observes each result about to be returned. Tests
	// use it to line up external signals with a specific turn.
	onListen func(result capture.Result)
}

func (c *scriptedCapture) Listen(ctx context.Context) capture.Result {
	c.mu.Lock()
	if len(c.script) == 0 {
		c.mu.Unlock()
		if c.cancel != nil {
			c.cancel()
		}
		return capture.Failure(capture.CodeOther)
	}
	result := c.script[0]
	c.script = c.script[1:]
	c.mu.Unlock()

	if c.onListen != nil {
		c.onListen(result)
	}
	return result
}

func (c *scriptedCapture) Stop() { c.stopped.Store(true) }

func transcripts(utterances ...string) []capture.Result {
	script := make([]capture.Result, 0, len(utterances))
	for _, utterance := range utterances {
		script = append(script, capture.Transcript(utterance))
	}
	return script
}

// countingWire is a synthesis wire client whose outcome is fixed; it counts
// how many times the gateway actually reached the wire.
type countingWire struct {
	calls atomic.Int32
	fail  bool
}

func (w *countingWire) Synthesize(context.Context, string) (synthesis.AudioHandle, error) {
	w.calls.Add(1)
	if w.fail {
		return synthesis.AudioHandle{}, &resilience.StatusError{Status: 503, Detail: "down"}
	}
	return synthesis.AudioHandle{Audio: []byte("pcm")}, nil
}

type staticNews struct {
	articles []news.Article
}

func (n *staticNews) TopHeadlines(context.Context) (resilience.Result[[]news.Article], error) {
	return resilience.Success(n.articles), nil
}

// misconfiguredNews reports an essential misconfiguration on every call and
// counts how often it was actually reached.
type misconfiguredNews struct {
	calls atomic.Int32
}

func (n *misconfiguredNews) TopHeadlines(context.Context) (resilience.Result[[]news.Article], error) {
	n.calls.Add(1)
	return resilience.Fallback[[]news.Article]("missing api key"),
		&resilience.ConfigurationError{Feature: "news", Reason: "missing api key"}
}

// bufferingPlayer stands in for an output device: it accepts audio silently
// and reports drain only when the test fires it.
type bufferingPlayer struct {
	mu      sync.Mutex
	drained func()
}

func (p *bufferingPlayer) SendAudio([]byte) error { return nil }
func (p *bufferingPlayer) ClearBuffer()           {}

func (p *bufferingPlayer) SetDrainedCallback(callback func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drained = callback
}

func (p *bufferingPlayer) drain() {
	p.mu.Lock()
	callback := p.drained
	p.mu.Unlock()
	if callback != nil {
		callback()
	}
}

func immediatePolicy(attempts int) resilience.Policy {
	return resilience.Policy{MaxAttempts: attempts, IsRetryableStatus: resilience.DefaultRetryableStatus}
}

func TestRunSetupWalksAllStepsAndPersists(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mic := &scriptedCapture{cancel: cancel, script: transcripts(
		"yes please",   // color adjustment on
		"no thanks",    // contrast stays normal
		"three",        // font scale 3
		"yes",          // simplify on
		"keep it slow", // free-text note
	)}

	colorAdjustAfterFirstTurn := false
	var orchestrator *Orchestrator
	orchestrator = NewOrchestrator(
		WithCaptureClient(mic),
		WithEventCallback(func(event events.Event) {
			if advanced, ok := event.(events.TurnAdvanced); ok && advanced.StepIndex == 1 {
				colorAdjustAfterFirstTurn = orchestrator.Session().Profile.ColorAdjust
			}
		}),
	)

	if err := orchestrator.RunSetup(ctx); err != nil {
		t.Fatalf("expected the setup session to finish, got %v", err)
	}

	if !colorAdjustAfterFirstTurn {
		t.Fatal("expected color adjustment enabled right after the first turn")
	}

	session := orchestrator.Session()
	if session.TurnState != TurnStateCompleted {
		t.Fatalf("expected the session completed, got %q", session.TurnState)
	}
	if session.Profile.ContrastMode != ContrastModeNone {
		t.Fatalf("expected normal contrast, got %q", session.Profile.ContrastMode)
	}
	if session.Profile.FontScale != 3 {
		t.Fatalf("expected font scale 3, got %d", session.Profile.FontScale)
	}
	if !session.Profile.Simplify {
		t.Fatal("expected simplification enabled")
	}
	if session.Profile.Note != "keep it slow" {
		t.Fatalf("expected the note captured, got %q", session.Profile.Note)
	}
}

func TestRunSetupPersistsCompletedProfile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mic := &scriptedCapture{cancel: cancel, script: transcripts("yes", "yes", "five", "no", "skip")}
	orchestrator := NewOrchestrator(WithCaptureClient(mic))

	if err := orchestrator.RunSetup(ctx); err != nil {
		t.Fatalf("expected the setup session to finish, got %v", err)
	}

	// A fresh session must observe the persisted profile.
	if err := orchestrator.restart(context.Background()); err != nil {
		t.Fatalf("expected a clean restart, got %v", err)
	}
	profile := orchestrator.Session().Profile
	if !profile.ColorAdjust || profile.ContrastMode != ContrastModeHigh || profile.FontScale != 5 {
		t.Fatalf("expected the persisted profile restored, got %+v", profile)
	}
}

func TestRunSetupCaptureFailureKeepsListening(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	script := []capture.Result{capture.Failure(capture.CodeNoSpeech)}
	script = append(script, transcripts("yes", "no", "two", "no", "skip")...)
	mic := &scriptedCapture{cancel: cancel, script: script}

	var failures []string
	orchestrator := NewOrchestrator(
		WithCaptureClient(mic),
		WithEventCallback(func(event events.Event) {
			if failed, ok := event.(events.CaptureFailed); ok {
				failures = append(failures, failed.Code)
			}
		}),
	)

	if err := orchestrator.RunSetup(ctx); err != nil {
		t.Fatalf("expected the failed capture to be retried, got %v", err)
	}
	if len(failures) != 1 || failures[0] != string(capture.CodeNoSpeech) {
		t.Fatalf("expected one no-speech failure event, got %v", failures)
	}
	if !orchestrator.Session().Profile.ColorAdjust {
		t.Fatal("expected the retried answer applied to the first step")
	}
}

func TestSynthesisFallbackIsStickyForTheWholeSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wire := &countingWire{fail: true}
	gateway := synthesis.NewGateway(wire, synthesis.WithPolicy(immediatePolicy(1)))
	mic := &scriptedCapture{cancel: cancel, script: transcripts("yes", "no", "one", "no", "skip")}
	orchestrator := NewOrchestrator(WithCaptureClient(mic), WithSynthesisGateway(gateway))

	if err := orchestrator.RunSetup(ctx); err != nil {
		t.Fatalf("expected the session to still complete textually, got %v", err)
	}

	if got := wire.calls.Load(); got != 1 {
		t.Fatalf("expected exactly one wire call before suppression, got %d", got)
	}
	if orchestrator.Session().TTSAvailable {
		t.Fatal("expected text-to-speech flagged unavailable for the session")
	}
	if orchestrator.Session().TurnState != TurnStateCompleted {
		t.Fatal("expected the session to progress to completion without audio")
	}
}

func TestRunCommandsFetchesAndReadsNews(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	headlines := make([]news.Article, 0, 5)
	for i := 1; i <= 5; i++ {
		headlines = append(headlines, news.Article{
			Title:       "Headline " + strconv.Itoa(i),
			Description: "Summary " + strconv.Itoa(i),
		})
	}

	wire := &countingWire{}
	gateway := synthesis.NewGateway(wire, synthesis.WithPolicy(immediatePolicy(1)))
	mic := &scriptedCapture{cancel: cancel, script: transcripts("get the news", "read article two")}

	orchestrator := NewOrchestrator(
		WithCaptureClient(mic),
		WithSynthesisGateway(gateway),
		WithNewsProvider(&staticNews{articles: headlines}),
	)

	err := orchestrator.RunCommands(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the loop to end with the context, got %v", err)
	}

	session := orchestrator.Session()
	if len(session.Articles) != 5 {
		t.Fatalf("expected 5 articles on the session, got %d", len(session.Articles))
	}
	if session.Speaking {
		t.Fatal("expected deviceless playback already resolved")
	}
	if session.Feedback != "Reading: Headline 2." {
		t.Fatalf("expected feedback for the second article, got %q", session.Feedback)
	}
}

func TestRunCommandsSurvivesMisconfiguredNews(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := &misconfiguredNews{}
	mic := &scriptedCapture{cancel: cancel, script: transcripts("get the news", "get the news", "zoom in")}

	var feedbacks []string
	orchestrator := NewOrchestrator(
		WithCaptureClient(mic),
		WithNewsProvider(provider),
		WithEventCallback(func(event events.Event) {
			if applied, ok := event.(events.ActionApplied); ok {
				feedbacks = append(feedbacks, applied.Feedback)
			}
		}),
	)

	err := orchestrator.RunCommands(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the loop to outlive the news failure, got %v", err)
	}

	if got := provider.calls.Load(); got != 1 {
		t.Fatalf("expected a single fetch before the halt, got %d", got)
	}
	if got := orchestrator.Session().Profile.FontScale; got != 3 {
		t.Fatalf("expected the follow-up command still applied, got font scale %d", got)
	}
	want := "News isn't configured on this device."
	if len(feedbacks) < 2 || feedbacks[0] != want || feedbacks[1] != want {
		t.Fatalf("expected the misconfiguration surfaced on both requests, got %v", feedbacks)
	}
}

func TestPlaybackDrainReleasesTheDialogue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	player := &bufferingPlayer{}
	wire := &countingWire{}
	gateway := synthesis.NewGateway(wire, synthesis.WithPolicy(immediatePolicy(1)))

	var spoken []string
	var speakingDuringArticle bool
	var orchestrator *Orchestrator
	mic := &scriptedCapture{cancel: cancel, script: transcripts("get the news", "read article one", "zoom in")}
	mic.onListen = func(result capture.Result) {
		if result.Transcript == "zoom in" {
			speakingDuringArticle = orchestrator.Session().Speaking
			player.drain()
		}
	}
	orchestrator = NewOrchestrator(
		WithCaptureClient(mic),
		WithSynthesisGateway(gateway),
		WithNewsProvider(&staticNews{articles: articles("Alpha", "Beta")}),
		WithPlaybackDevice(player),
		WithEventCallback(func(event events.Event) {
			if started, ok := event.(events.SynthesisStarted); ok {
				spoken = append(spoken, started.Text)
			}
		}),
	)

	err := orchestrator.RunCommands(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the loop to end with the context, got %v", err)
	}

	if !speakingDuringArticle {
		t.Fatal("expected the session speaking while the article buffer played")
	}
	session := orchestrator.Session()
	if session.Speaking {
		t.Fatal("expected speaking cleared once the buffer drained")
	}
	if session.Profile.FontScale != 3 {
		t.Fatalf("expected the follow-up zoom applied, got font scale %d", session.Profile.FontScale)
	}
	if !slices.Contains(spoken, "Text size is now 3 of 6.") {
		t.Fatalf("expected the zoom feedback voiced after the article finished, got %v", spoken)
	}
}

func TestRunCommandsUnknownArticleLeavesStateAlone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mic := &scriptedCapture{cancel: cancel, script: transcripts("get the news", "read the article about xyzzy")}
	orchestrator := NewOrchestrator(
		WithCaptureClient(mic),
		WithNewsProvider(&staticNews{articles: articles("Alpha", "Beta")}),
	)

	err := orchestrator.RunCommands(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the loop to end with the context, got %v", err)
	}
	if orchestrator.Session().Speaking {
		t.Fatal("expected no playback for an unknown article")
	}
}

func TestStopDiscardsTheInFlightTurn(t *testing.T) {
	orchestrator := NewOrchestrator(WithCaptureClient(&scriptedCapture{}))

	token := orchestrator.rotateToken()
	orchestrator.Stop()

	if !orchestrator.isStale(token) {
		t.Fatal("expected Stop to invalidate the in-flight turn token")
	}
	if got := orchestrator.Session().TurnState; got != TurnStateIdle {
		t.Fatalf("expected the session back to idle, got %q", got)
	}
}

func TestRunSetupRequiresACaptureClient(t *testing.T) {
	orchestrator := NewOrchestrator()

	err := orchestrator.RunSetup(context.Background())
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected a validation error without a capture client, got %v", err)
	}
}
