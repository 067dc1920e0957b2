package intent

import (
	"context"
	"errors"
	"testing"
)

type fakeRemoteTier struct {
	label Label
	err   error
	calls int
}

func (f *fakeRemoteTier) Classify(context.Context, string, Context) (Label, error) {
	f.calls++
	return f.label, f.err
}

func TestClassifyAcceptsRemoteLabelInSet(t *testing.T) {
	remote := &fakeRemoteTier{label: Label{Name: LabelDisable}}
	classifier := NewClassifier(WithRemoteTier(remote))

	label := classifier.Classify(context.Background(), "nah I would rather not", ToggleContext("contrast"))

	if label.Name != LabelDisable {
		t.Fatalf("expected the remote label %q, got %q", LabelDisable, label.Name)
	}
	if remote.calls != 1 {
		t.Fatalf("expected one remote call, got %d", remote.calls)
	}
}

func TestClassifyRejectsOutOfSetRemoteLabel(t *testing.T) {
	remote := &fakeRemoteTier{label: Label{Name: "delete everything"}}
	classifier := NewClassifier(WithRemoteTier(remote))

	label := classifier.Classify(context.Background(), "yes", ToggleContext("contrast"))

	if label.Name != LabelEnable {
		t.Fatalf("expected fallthrough to the local tier (%q), got %q", LabelEnable, label.Name)
	}
}

func TestClassifyFallsThroughOnRemoteFailure(t *testing.T) {
	remote := &fakeRemoteTier{err: errors.New("service unavailable")}
	classifier := NewClassifier(WithRemoteTier(remote))

	label := classifier.Classify(context.Background(), "turn it off", ToggleContext("contrast"))

	if label.Name != LabelDisable {
		t.Fatalf("expected the local tier to resolve %q, got %q", LabelDisable, label.Name)
	}
}

func TestClassifyCanonicalizesRemoteCase(t *testing.T) {
	remote := &fakeRemoteTier{label: Label{Name: "ENABLE"}}
	classifier := NewClassifier(WithRemoteTier(remote))

	label := classifier.Classify(context.Background(), "mhm", ToggleContext("contrast"))

	if label.Name != LabelEnable {
		t.Fatalf("expected canonical label %q, got %q", LabelEnable, label.Name)
	}
}

func TestClassifyWithoutRemoteTierIsLocalOnly(t *testing.T) {
	classifier := NewClassifier()

	label := classifier.Classify(context.Background(), "stop", CommandContext(nil))

	if label.Name != string(ActionStopAudio) {
		t.Fatalf("expected %q, got %q", ActionStopAudio, label.Name)
	}
}
