package audio

import "testing"

type fakePlayer struct {
	sent    [][]byte
	cleared int
	sendErr error
}

func (f *fakePlayer) SendAudio(audio []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, audio)
	return nil
}

func (f *fakePlayer) ClearBuffer() { f.cleared++ }

// drainablePlayer additionally exposes the buffer-drained signal.
type drainablePlayer struct {
	fakePlayer
	drained func()
}

func (d *drainablePlayer) SetDrainedCallback(callback func()) { d.drained = callback }

func TestChannelPlayIsExclusive(t *testing.T) {
	player := &fakePlayer{}
	channel := NewChannel(player)

	if err := channel.Play([]byte{1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := channel.Play([]byte{2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if player.cleared != 1 {
		t.Fatalf("expected prior playback to be cleared once, got %d", player.cleared)
	}
	if !channel.IsPlaying() {
		t.Fatal("expected channel to be playing after Play")
	}
}

func TestChannelStopIsSynchronousAndIdempotent(t *testing.T) {
	stopped := 0
	player := &fakePlayer{}
	channel := NewChannel(player, WithStoppedCallback(func() { stopped++ }))

	if err := channel.Play([]byte{1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	channel.Stop()

	if channel.IsPlaying() {
		t.Fatal("expected channel to be quiet after Stop")
	}
	if stopped != 1 {
		t.Fatalf("expected one stopped callback, got %d", stopped)
	}

	channel.Stop()
	if stopped != 1 {
		t.Fatalf("expected Stop on a quiet channel to be a no-op, got %d callbacks", stopped)
	}
}

func TestChannelWithoutDeviceCompletesImmediately(t *testing.T) {
	stopped := 0
	channel := NewChannel(nil, WithStoppedCallback(func() { stopped++ }))

	if err := channel.Play([]byte{1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if channel.IsPlaying() {
		t.Fatal("expected deviceless playback to resolve before Play returns")
	}
	if stopped != 1 {
		t.Fatalf("expected one completion callback, got %d", stopped)
	}

	channel.Stop()
	if stopped != 1 {
		t.Fatalf("expected Stop after completion to be a no-op, got %d callbacks", stopped)
	}
}

func TestChannelResolvesPlaybackOnDrain(t *testing.T) {
	stopped := 0
	player := &drainablePlayer{}
	channel := NewChannel(player, WithStoppedCallback(func() { stopped++ }))

	if err := channel.Play([]byte{1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !channel.IsPlaying() {
		t.Fatal("expected channel to be playing until the buffer drains")
	}

	player.drained()
	if channel.IsPlaying() {
		t.Fatal("expected the drain signal to resolve playback")
	}
	if stopped != 1 {
		t.Fatalf("expected one completion callback, got %d", stopped)
	}

	// A drain with nothing playing stays quiet.
	player.drained()
	if stopped != 1 {
		t.Fatalf("expected the idle drain to be a no-op, got %d callbacks", stopped)
	}
}
