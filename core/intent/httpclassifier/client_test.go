package httpclassifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voxaide/voxaide-core/core/intent"
)

func TestClassifySendsLabelSetAndSchema(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"label":"read article","parameter":"2"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "key")
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}

	label, err := client.Classify(context.Background(), "read article two", intent.CommandContext(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if label.Name != "read article" || label.Parameter != "2" {
		t.Fatalf("expected (read article, 2), got (%s, %s)", label.Name, label.Parameter)
	}
	if received["utterance"] != "read article two" {
		t.Fatalf("expected the utterance forwarded, got %v", received["utterance"])
	}
	if _, ok := received["labels"].([]any); !ok {
		t.Fatal("expected the enumerated label set in the request")
	}
	if _, ok := received["response_schema"].(map[string]any); !ok {
		t.Fatal("expected a response schema in the request")
	}
}

func TestClassifyEmptyLabelIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "key")
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}

	if _, err := client.Classify(context.Background(), "anything", intent.ToggleContext("contrast")); err == nil {
		t.Fatal("expected an error for a label-less response")
	}
}

func TestNewClientRequiresCredential(t *testing.T) {
	if _, err := NewClient("https://example.test", ""); err == nil {
		t.Fatal("expected construction to fail without an api key")
	}
	if _, err := NewClient("", "key"); err == nil {
		t.Fatal("expected construction to fail without an endpoint")
	}
}
