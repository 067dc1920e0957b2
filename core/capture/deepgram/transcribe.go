package deepgram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/codes"

	"github.com/voxaide/voxaide-core/core/audio"
	"github.com/voxaide/voxaide-core/core/capture"
)

// AudioSource feeds microphone audio into a capture invocation. Stream
// blocks until the context is cancelled.
type AudioSource interface {
	Stream(ctx context.Context, onAudio func(audio []byte)) error
}

// Client captures one utterance per Listen invocation over a Deepgram live
// transcription websocket.
type Client struct {
	apiKey   string
	source   AudioSource
	encoding audio.EncodingInfo

	stopMu sync.Mutex
	stop   context.CancelFunc
}

type ClientOption func(*Client)

func WithEncodingInfo(encoding audio.EncodingInfo) ClientOption {
	return func(c *Client) {
		if !encoding.IsZero() {
			c.encoding = encoding
		}
	}
}

// NewClient builds a live capture client. A missing API key is a
// construction-time error: the capability is checked once, not at every
// call site.
func NewClient(apiKey string, source AudioSource, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, &capture.UnavailableError{Reason: "deepgram api key not configured"}
	}

	client := &Client{apiKey: apiKey, source: source, encoding: audio.GetDefaultEncodingInfo()}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Listen opens a fresh websocket, streams source audio into it and resolves
// on the first completed utterance. One invocation yields exactly one
// result.
func (c *Client) Listen(ctx context.Context) capture.Result {
	ctx, span := tracer.Start(ctx, "capture utterance")
	defer span.End()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.stopMu.Lock()
	c.stop = cancel
	c.stopMu.Unlock()

	conn, err := c.connect()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open transcription socket")
		return capture.Failure(capture.CodeNetwork)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		// Forces the blocked ReadMessage below to return on cancellation.
		_ = conn.WriteJSON(struct {
			Type string `json:"type"`
		}{Type: string(api.TypeCloseStreamResponse)})
		_ = conn.Close()
	}()

	go func() {
		_ = c.source.Stream(ctx, func(chunk []byte) {
			_ = conn.WriteMessage(websocket.BinaryMessage, chunk)
		})
	}()

	return c.readUtterance(ctx, conn)
}

// Stop aborts an active Listen. The aborted invocation resolves with
// CodeOther.
func (c *Client) Stop() {
	c.stopMu.Lock()
	defer c.stopMu.Unlock()
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}

func (c *Client) connect() (*websocket.Conn, error) {
	listenURL, _ := url.Parse("wss://api.deepgram.com/v1/listen")
	queryParams := listenURL.Query()
	queryParams.Set("encoding", c.encoding.Encoding.Name())
	queryParams.Set("sample_rate", strconv.Itoa(c.encoding.SampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", "nova-3")
	queryParams.Set("language", "en-US")
	queryParams.Set("smart_format", "true")
	queryParams.Set("interim_results", "true")
	queryParams.Set("utterance_end_ms", "1000")
	queryParams.Set("endpointing", "300")
	queryParams.Set("vad_events", "true")
	listenURL.RawQuery = queryParams.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(listenURL.String(),
		http.Header{"Authorization": {"Token " + c.apiKey}})
	return conn, err
}

func (c *Client) readUtterance(ctx context.Context, conn *websocket.Conn) capture.Result {
	var accumulated string

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return capture.Failure(capture.CodeOther)
			}
			if accumulated != "" {
				return capture.Transcript(strings.TrimSpace(accumulated))
			}
			return capture.Failure(capture.CodeNetwork)
		}
		if msgType == websocket.BinaryMessage {
			continue
		}

		var header struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &header); err != nil {
			continue
		}

		switch api.TypeResponse(header.Type) {
		case api.TypeMessageResponse:
			var msgResp api.MessageResponse
			if err := json.Unmarshal(msg, &msgResp); err != nil {
				continue
			}
			if !msgResp.IsFinal || len(msgResp.Channel.Alternatives) == 0 {
				continue
			}
			segment := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
			if segment != "" {
				accumulated += " " + segment
			}
			if msgResp.SpeechFinal && strings.TrimSpace(accumulated) != "" {
				return capture.Transcript(strings.TrimSpace(accumulated))
			}

		case api.TypeUtteranceEndResponse:
			if transcript := strings.TrimSpace(accumulated); transcript != "" {
				return capture.Transcript(transcript)
			}
			return capture.Failure(capture.CodeNoSpeech)
		}
	}
}
