package httpspeech

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voxaide/voxaide-core/core/resilience"
)

func TestSynthesizeDecodesAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"audio":"` + base64.StdEncoding.EncodeToString([]byte("pcm")) + `"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", WithVoice("calm"))
	handle, err := client.Synthesize(context.Background(), "hello")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(handle.Audio) != "pcm" {
		t.Fatalf("expected decoded audio %q, got %q", "pcm", handle.Audio)
	}
}

func TestSynthesizeDeclaredFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"fallback":true,"reason":"no credential"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Synthesize(context.Background(), "hello")

	var fallbackErr *resilience.FallbackError
	if !errors.As(err, &fallbackErr) {
		t.Fatalf("expected FallbackError, got %v", err)
	}
	if fallbackErr.Reason != "no credential" {
		t.Fatalf("expected the declared reason, got %q", fallbackErr.Reason)
	}
}

func TestSynthesizeStatusCodedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key")
	_, err := client.Synthesize(context.Background(), "hello")

	var statusErr *resilience.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Status != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", statusErr.Status)
	}
	if statusErr.Detail != "slow down" {
		t.Fatalf("expected extracted detail, got %q", statusErr.Detail)
	}
}
