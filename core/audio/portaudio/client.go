package portaudio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/voxaide/voxaide-core/core/audio"
)

// Client is a PortAudio-backed playback device implementing audio.Player,
// for platforms where the miniaudio backend is unavailable.
type Client struct {
	bufferSize int
	stream     *portaudio.Stream
	out        []int16

	leftoverMu sync.Mutex
	leftover   []byte
	onDrained  func()
}

func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(0, 1, audio.DefaultSampleRate, bufferSize, out)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	return &Client{bufferSize: bufferSize, stream: stream, out: out}, nil
}

func (c *Client) SendAudio(audioBytes []byte) error {
	chunkSize := c.bufferSize * 2 // linear16 frames

	c.leftoverMu.Lock()
	audioBytes = append(c.leftover, audioBytes...)
	c.leftover = nil
	c.leftoverMu.Unlock()

	for offset := 0; offset < len(audioBytes); offset += chunkSize {
		if offset+chunkSize > len(audioBytes) {
			c.leftoverMu.Lock()
			c.leftover = append([]byte(nil), audioBytes[offset:]...)
			c.leftoverMu.Unlock()
			break
		}

		if err := binary.Read(bytes.NewReader(audioBytes[offset:offset+chunkSize]), binary.LittleEndian, c.out); err != nil {
			return fmt.Errorf("failed to decode playback frames: %w", err)
		}
		if err := c.stream.Write(); err != nil {
			return fmt.Errorf("failed to write to portaudio stream: %w", err)
		}
	}

	// Stream writes are blocking, so the audio has played out by here.
	c.leftoverMu.Lock()
	drained := c.onDrained
	c.leftoverMu.Unlock()
	if drained != nil {
		drained()
	}
	return nil
}

// SetDrainedCallback registers the playback-completion signal, fired once
// all written frames have been handed to the blocking stream.
func (c *Client) SetDrainedCallback(callback func()) {
	c.leftoverMu.Lock()
	defer c.leftoverMu.Unlock()
	c.onDrained = callback
}

func (c *Client) ClearBuffer() {
	c.leftoverMu.Lock()
	defer c.leftoverMu.Unlock()
	c.leftover = nil
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

func (c *Client) Close() {
	_ = c.stream.Close()
	_ = portaudio.Terminate()
}
