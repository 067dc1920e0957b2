package audio

import (
	"fmt"
	"sync"
)

// Player is a device-level audio sink. Implementations buffer whatever they
// are sent and play it in order; ClearBuffer drops everything not yet
// played.
type Player interface {
	SendAudio(audio []byte) error
	ClearBuffer()
}

// Drainer is implemented by players that can report their buffer playing
// out. Channels use it to resolve playback completion; a player without it
// stays playing until explicitly stopped or replaced.
type Drainer interface {
	SetDrainedCallback(callback func())
}

// Channel is the single exclusive audio output of a session. Starting new
// playback implicitly stops whatever was playing before, and Stop is
// synchronous: when it returns, nothing is playing.
type Channel struct {
	mu      sync.Mutex
	player  Player
	playing bool

	onStopped func()
}

type ChannelOption func(*Channel)

// WithStoppedCallback is invoked whenever playback transitions to quiet,
// whether through Stop or through replacement by new playback.
func WithStoppedCallback(callback func()) ChannelOption {
	return func(c *Channel) { c.onStopped = callback }
}

// NewChannel wraps a device player. A nil player yields a channel that
// produces no sound and completes every playback immediately, which keeps
// the dialogue advancing on machines without an output device.
func NewChannel(player Player, opts ...ChannelOption) *Channel {
	channel := &Channel{player: player, onStopped: func() {}}
	for _, opt := range opts {
		opt(channel)
	}
	if drainer, ok := player.(Drainer); ok {
		drainer.SetDrainedCallback(channel.drained)
	}
	return channel
}

// Play starts playing the given audio, stopping any prior playback first.
// Playback resolves through the player's drain signal; without a device it
// resolves before Play returns. The device write happens outside the lock
// because synchronous players fire the drain signal from inside SendAudio.
func (c *Channel) Play(audio []byte) error {
	c.mu.Lock()
	if c.playing {
		c.stopLocked()
	}
	c.playing = true
	player := c.player
	if player == nil {
		c.playing = false
		c.onStopped()
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err := player.SendAudio(audio); err != nil {
		c.mu.Lock()
		c.playing = false
		c.mu.Unlock()
		return fmt.Errorf("failed to send audio to playback device: %w", err)
	}
	return nil
}

// drained resolves playback completion when the device buffer plays out.
func (c *Channel) drained() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		return
	}
	c.playing = false
	c.onStopped()
}

// Append adds audio to the current playback without interrupting it, for
// chunked synthesis output.
func (c *Channel) Append(audio []byte) error {
	c.mu.Lock()
	player := c.player
	if player == nil {
		// Deviceless playback already resolved; nothing to extend.
		c.mu.Unlock()
		return nil
	}
	c.playing = true
	c.mu.Unlock()

	if err := player.SendAudio(audio); err != nil {
		return fmt.Errorf("failed to append audio to playback device: %w", err)
	}
	return nil
}

// Stop synchronously stops playback. It is idempotent and safe to call when
// nothing is playing.
func (c *Channel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.playing {
		return
	}
	c.stopLocked()
}

func (c *Channel) stopLocked() {
	if c.player != nil {
		c.player.ClearBuffer()
	}
	c.playing = false
	c.onStopped()
}

// IsPlaying reports whether the channel currently has active playback.
func (c *Channel) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}
