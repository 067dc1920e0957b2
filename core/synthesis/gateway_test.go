package synthesis

import (
	"context"
	"testing"

	"github.com/voxaide/voxaide-core/core/resilience"
)

type fakeWireClient struct {
	calls int
	err   error
}

func (f *fakeWireClient) Synthesize(context.Context, string) (AudioHandle, error) {
	f.calls++
	if f.err != nil {
		return AudioHandle{}, f.err
	}
	return AudioHandle{Audio: []byte{1, 2, 3}}, nil
}

func TestSpeakReturnsAudioOnSuccess(t *testing.T) {
	client := &fakeWireClient{}
	var forwarded []byte
	gateway := NewGateway(client, WithAudioCallback(func(audio []byte) { forwarded = audio }))

	result := gateway.Speak(context.Background(), "hello")

	if !result.Ok() {
		t.Fatalf("expected success, got fallback: %s", result.FallbackReason())
	}
	if len(result.Value().Audio) == 0 {
		t.Fatal("expected audio payload")
	}
	if len(forwarded) == 0 {
		t.Fatal("expected audio callback to receive the payload")
	}
}

func TestSpeakFallbackIsSticky(t *testing.T) {
	client := &fakeWireClient{err: &resilience.FallbackError{Reason: "voice backend down"}}
	gateway := NewGateway(client)

	if result := gateway.Speak(context.Background(), "first"); result.Ok() {
		t.Fatal("expected fallback from degraded client")
	}
	callsAfterFirst := client.calls

	for range 3 {
		if result := gateway.Speak(context.Background(), "again"); result.Ok() {
			t.Fatal("expected suppressed synthesis to stay degraded")
		}
	}

	if client.calls != callsAfterFirst {
		t.Fatalf("expected no further wire calls after the first fallback, got %d extra", client.calls-callsAfterFirst)
	}
	if gateway.Available() {
		t.Fatal("expected gateway to report unavailable")
	}
}

func TestResetClearsStickyFlag(t *testing.T) {
	client := &fakeWireClient{err: &resilience.FallbackError{Reason: "outage"}}
	gateway := NewGateway(client)
	gateway.Speak(context.Background(), "first")

	client.err = nil
	gateway.Reset()

	if result := gateway.Speak(context.Background(), "after restart"); !result.Ok() {
		t.Fatalf("expected synthesis to resume after reset, got fallback: %s", result.FallbackReason())
	}
}

func TestSpeakWithoutClientFallsBack(t *testing.T) {
	gateway := NewGateway(nil)

	result := gateway.Speak(context.Background(), "anything")

	if result.Ok() {
		t.Fatal("expected fallback without a configured client")
	}
}
