package miniaudio

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"

	"github.com/voxaide/voxaide-core/core/audio"
)

// Source is a malgo-backed microphone stream usable as a live capture audio
// source. One Stream invocation owns the device for its whole duration.
type Source struct {
	encoding audio.EncodingInfo
}

func NewSource() *Source {
	return &Source{encoding: audio.GetDefaultEncodingInfo()}
}

func NewSourceWithEncoding(encoding audio.EncodingInfo) *Source {
	return &Source{encoding: encoding}
}

// Stream opens the default capture device and forwards raw frames to onAudio
// until the context is cancelled.
func (s *Source) Stream(ctx context.Context, onAudio func(audio []byte)) error {
	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(string) {})
	if err != nil {
		return fmt.Errorf("malgo InitContext failed: %w", err)
	}
	defer func() {
		_ = audioCtx.Uninit()
		audioCtx.Free()
	}()

	config := malgo.DefaultDeviceConfig(malgo.Capture)
	config.SampleRate = uint32(s.encoding.SampleRate)
	config.Capture.Format = malgo.FormatS16
	config.Capture.Channels = 1
	config.Alsa.NoMMap = 1

	device, err := malgo.InitDevice(audioCtx.Context, config, malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			if len(input) > 0 {
				onAudio(input)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	<-ctx.Done()
	return ctx.Err()
}
