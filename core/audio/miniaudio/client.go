package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/voxaide/voxaide-core/core/audio"
)

// Client is a malgo-backed playback device implementing audio.Player. It
// drains a shared byte buffer from the device callback, so SendAudio and
// ClearBuffer only ever touch the buffer under the lock.
type Client struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device

	encoding audio.EncodingInfo

	bufferMu  sync.Mutex
	buffer    []byte
	onDrained func()
}

func NewClient() (*Client, error) {
	return NewClientWithEncoding(audio.GetDefaultEncodingInfo())
}

func NewClientWithEncoding(encoding audio.EncodingInfo) (*Client, error) {
	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(string) {})
	if err != nil {
		return nil, fmt.Errorf("malgo InitContext failed: %w", err)
	}

	client := &Client{audioContext: audioCtx, encoding: encoding}

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.SampleRate = uint32(encoding.SampleRate)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.Alsa.NoMMap = 1
	config.PeriodSizeInFrames = uint32(encoding.SampleRate / 10) // ~100ms of audio
	config.Periods = 4

	bytesPerFrame := malgo.SampleSizeInBytes(malgo.FormatS16)
	client.device, err = malgo.InitDevice(
		audioCtx.Context,
		config,
		malgo.DeviceCallbacks{Data: client.drain(bytesPerFrame)},
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := client.device.Start(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	return client, nil
}

func (c *Client) SendAudio(audio []byte) error {
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}
	if !c.device.IsStarted() {
		return fmt.Errorf("device not started")
	}

	c.bufferMu.Lock()
	defer c.bufferMu.Unlock()
	c.buffer = append(c.buffer, audio...)
	return nil
}

func (c *Client) ClearBuffer() {
	c.bufferMu.Lock()
	defer c.bufferMu.Unlock()
	c.buffer = nil
}

func (c *Client) EncodingInfo() audio.EncodingInfo { return c.encoding }

// SetDrainedCallback registers the playback-completion signal, fired from
// the device callback when the last buffered byte has been handed to the
// device.
func (c *Client) SetDrainedCallback(callback func()) {
	c.bufferMu.Lock()
	defer c.bufferMu.Unlock()
	c.onDrained = callback
}

func (c *Client) Close() {
	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}
	if c.audioContext != nil {
		_ = c.audioContext.Uninit()
		c.audioContext.Free()
		c.audioContext = nil
	}
}

func (c *Client) drain(bytesPerFrame int) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame

		c.bufferMu.Lock()
		var drained func()
		switch {
		case len(c.buffer) == 0:
			// Already quiet; nothing newly drained.
		case len(c.buffer) < need:
			copy(pOutput, c.buffer)
			c.buffer = nil
			drained = c.onDrained
		default:
			copy(pOutput, c.buffer[:need])
			c.buffer = c.buffer[need:]
		}
		c.bufferMu.Unlock()

		// Fired outside the buffer lock: the callback walks back into the
		// channel and the session.
		if drained != nil {
			drained()
		}
	}
}
