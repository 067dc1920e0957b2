package dialogue

import (
	"context"

	"github.com/voxaide/voxaide-core/core/audio"
	"github.com/voxaide/voxaide-core/core/capture"
	"github.com/voxaide/voxaide-core/core/events"
	"github.com/voxaide/voxaide-core/core/intent"
	"github.com/voxaide/voxaide-core/core/news"
	"github.com/voxaide/voxaide-core/core/profile"
	"github.com/voxaide/voxaide-core/core/resilience"
	"github.com/voxaide/voxaide-core/core/synthesis"
)

// NewsProvider fetches usable headlines through the resilience layer.
type NewsProvider interface {
	TopHeadlines(ctx context.Context) (resilience.Result[[]news.Article], error)
}

// Simplifier rewrites article text for easier reading. It never fails; a
// degraded simplifier returns its input unchanged.
type Simplifier interface {
	Simplify(ctx context.Context, text string) string
}

type OrchestratorOption func(*Orchestrator)

// WithSynthesisGateway sets the gateway used to voice prompts and feedback.
func WithSynthesisGateway(gateway *synthesis.Gateway) OrchestratorOption {
	return func(o *Orchestrator) {
		o.gateway = gateway
	}
}

// WithCaptureClient sets the speech capture client. The orchestrator cannot
// run without one.
func WithCaptureClient(client capture.Client) OrchestratorOption {
	return func(o *Orchestrator) {
		o.capture = client
	}
}

// WithClassifier replaces the default local-only classifier.
func WithClassifier(classifier *intent.Classifier) OrchestratorOption {
	return func(o *Orchestrator) {
		o.classifier = classifier
	}
}

func WithNewsProvider(provider NewsProvider) OrchestratorOption {
	return func(o *Orchestrator) {
		o.news = provider
	}
}

func WithSimplifier(simplifier Simplifier) OrchestratorOption {
	return func(o *Orchestrator) {
		o.simplifier = simplifier
	}
}

// WithProfileStore replaces the default in-memory store.
func WithProfileStore(store profile.Store) OrchestratorOption {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithPlaybackDevice sets the device player behind the session's exclusive
// audio channel. The orchestrator owns the channel itself so playback
// completion always resolves the session's speaking state.
func WithPlaybackDevice(player audio.Player) OrchestratorOption {
	return func(o *Orchestrator) {
		o.playbackDevice = player
	}
}

// WithSteps replaces the default guided setup sequence.
func WithSteps(steps []ConfigurationStep) OrchestratorOption {
	return func(o *Orchestrator) {
		o.steps = steps
	}
}

// WithEventCallback registers an observer for dialogue events. The callback
// runs synchronously on the orchestrator's goroutine.
func WithEventCallback(callback func(events.Event)) OrchestratorOption {
	return func(o *Orchestrator) {
		o.onEvent = callback
	}
}
