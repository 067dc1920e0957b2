package synthesis

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"

	"github.com/voxaide/voxaide-core/core/audio"
	"github.com/voxaide/voxaide-core/core/resilience"
)

// AudioHandle is the playable product of one synthesis call.
type AudioHandle struct {
	Audio    []byte
	Encoding audio.EncodingInfo
}

// WireClient performs one synthesis attempt against a speech service.
// Status-coded failures are *resilience.StatusError, service-declared
// degradation is *resilience.FallbackError; anything else is a transport
// failure.
type WireClient interface {
	Synthesize(ctx context.Context, text string) (AudioHandle, error)
}

// Gateway wraps a wire client in the resilience layer and tracks the sticky
// per-session availability flag: after the first fallback no further
// synthesis call is issued until Reset. A likely-persistent outage degrades
// fast instead of being retried every turn.
type Gateway struct {
	client WireClient
	policy resilience.Policy

	unavailable atomic.Bool
	onAudio     func([]byte)
}

type GatewayOption func(*Gateway)

// WithPolicy overrides the default synthesis retry policy.
func WithPolicy(policy resilience.Policy) GatewayOption {
	return func(g *Gateway) { g.policy = policy }
}

// WithAudioCallback is invoked with the synthesized audio on every
// successful Speak, before the result is returned.
func WithAudioCallback(callback func([]byte)) GatewayOption {
	return func(g *Gateway) {
		if callback != nil {
			g.onAudio = callback
		}
	}
}

// NewGateway builds a gateway. A nil client is a supported degraded mode:
// every Speak resolves to fallback and the dialogue continues silently.
func NewGateway(client WireClient, opts ...GatewayOption) *Gateway {
	gateway := &Gateway{
		client:  client,
		policy:  resilience.SynthesisPolicy(),
		onAudio: func([]byte) {},
	}
	for _, opt := range opts {
		opt(gateway)
	}
	return gateway
}

// Speak synthesizes text through the resilience layer. It never returns an
// error: every failure is a fallback and the first fallback makes the
// gateway unavailable for the rest of the session.
func (g *Gateway) Speak(ctx context.Context, text string) resilience.Result[AudioHandle] {
	ctx, span := tracer.Start(ctx, "speak")
	defer span.End()

	if g.client == nil {
		span.SetAttributes(attribute.String("synthesis.outcome", "unconfigured"))
		return resilience.Fallback[AudioHandle]("no synthesis client configured")
	}
	if g.unavailable.Load() {
		span.SetAttributes(attribute.String("synthesis.outcome", "suppressed"))
		return resilience.Fallback[AudioHandle]("synthesis disabled for this session after an earlier fallback")
	}

	result, _ := resilience.Call(ctx, func(ctx context.Context) (AudioHandle, error) {
		return g.client.Synthesize(ctx, text)
	}, g.policy)

	if !result.Ok() {
		g.unavailable.Store(true)
		span.SetAttributes(attribute.String("synthesis.outcome", "fallback"))
		return result
	}

	span.SetAttributes(attribute.String("synthesis.outcome", "success"))
	g.onAudio(result.Value().Audio)
	return result
}

// Available reports whether the gateway will still issue synthesis calls.
func (g *Gateway) Available() bool {
	return g.client != nil && !g.unavailable.Load()
}

// Reset clears the sticky flag. Only a session restart calls this.
func (g *Gateway) Reset() {
	g.unavailable.Store(false)
}
