package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/voxaide/voxaide-core/core/audio"
	"github.com/voxaide/voxaide-core/core/resilience"
	"github.com/voxaide/voxaide-core/core/synthesis"
)

// Voice selects a Deepgram speak model.
type Voice string

const (
	VoiceAsteria Voice = "aura-2-asteria-en"
	VoiceThalia  Voice = "aura-2-thalia-en"
	VoiceOrion   Voice = "aura-2-orion-en"
)

var defaultVoice = VoiceAsteria

// Client synthesizes one utterance per call over the Deepgram speak
// websocket, accumulating the streamed audio into a single handle so it
// satisfies the gateway's wire contract.
type Client struct {
	apiKey   string
	voice    Voice
	encoding audio.EncodingInfo
}

type ClientOption func(*Client)

func WithVoice(voice Voice) ClientOption {
	return func(c *Client) {
		if voice != "" {
			c.voice = voice
		}
	}
}

func WithEncodingInfo(encoding audio.EncodingInfo) ClientOption {
	return func(c *Client) {
		if !encoding.IsZero() {
			c.encoding = encoding
		}
	}
}

func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("deepgram api key not configured")
	}

	client := &Client{apiKey: apiKey, voice: defaultVoice, encoding: audio.GetDefaultEncodingInfo()}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type speakMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

func (c *Client) Synthesize(ctx context.Context, text string) (synthesis.AudioHandle, error) {
	conn, err := c.connect()
	if err != nil {
		return synthesis.AudioHandle{}, fmt.Errorf("failed to open speak socket: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	if err := conn.WriteJSON(speakMessage{Type: "Speak", Text: text}); err != nil {
		return synthesis.AudioHandle{}, fmt.Errorf("failed to send text: %w", err)
	}
	if err := conn.WriteJSON(speakMessage{Type: "Flush"}); err != nil {
		return synthesis.AudioHandle{}, fmt.Errorf("failed to flush: %w", err)
	}
	if err := conn.WriteJSON(speakMessage{Type: "Close"}); err != nil {
		return synthesis.AudioHandle{}, fmt.Errorf("failed to close stream: %w", err)
	}

	var collected []byte
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return synthesis.AudioHandle{}, fmt.Errorf("synthesis cancelled: %w", ctx.Err())
			}
			if len(collected) > 0 {
				// The socket closing after audio arrived is the normal end.
				return synthesis.AudioHandle{Audio: collected, Encoding: c.encoding}, nil
			}
			return synthesis.AudioHandle{}, fmt.Errorf("speak socket read failed: %w", err)
		}

		switch msgType {
		case websocket.BinaryMessage:
			collected = append(collected, msg...)
		case websocket.TextMessage:
			var parsed struct {
				Type        string `json:"type"`
				Description string `json:"description"`
			}
			if err := json.Unmarshal(msg, &parsed); err != nil {
				continue
			}
			switch parsed.Type {
			case "Flushed":
				if len(collected) > 0 {
					return synthesis.AudioHandle{Audio: collected, Encoding: c.encoding}, nil
				}
			case "Error":
				return synthesis.AudioHandle{}, &resilience.FallbackError{Reason: parsed.Description}
			}
		}
	}
}

func (c *Client) connect() (*websocket.Conn, error) {
	urlValues := url.Values{}
	urlValues.Set("encoding", c.encoding.Encoding.Name())
	urlValues.Set("sample_rate", strconv.Itoa(c.encoding.SampleRate))
	urlValues.Set("model", string(c.voice))
	urlValues.Set("container", "none")

	conn, _, err := websocket.DefaultDialer.Dial(
		(&url.URL{
			Scheme: "wss",
			Host:   "api.deepgram.com", Path: "/v1/speak",
			RawQuery: urlValues.Encode(),
		}).String(),
		http.Header{"Authorization": {"token " + c.apiKey}})
	return conn, err
}
