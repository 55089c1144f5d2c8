package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/aldenmarch/voicecal/core/audio"
	"github.com/aldenmarch/voicecal/core/texttospeech"
	"github.com/gorilla/websocket"
)

type speakRequest struct {
	ws *websocket.Conn
	mu sync.Mutex

	options texttospeech.SpeakOptions

	cancelled bool
	closed    bool
}

// Speak synthesizes one utterance. It returns once the request is sent;
// audio chunks arrive through the configured callbacks until the utterance
// is fully synthesized or cancelled.
func (c *TextToSpeechClient) Speak(ctx context.Context, text string, opts ...texttospeech.SpeakOption) error {
	req := &speakRequest{
		options: texttospeech.SpeakOptions{
			SpeechAudioCallback: func([]byte) {},
			SpeechEndedCallback: func() {},
			ErrorCallback:       func(error) {},
			EncodingInfo:        audio.GetDefaultEncodingInfo(),
		},
	}

	for _, opt := range opts {
		opt(&req.options)
	}

	var err error
	if req.ws, err = connectWebsocket(c.apiKey, c.voice, req.options.EncodingInfo); err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	c.activeMu.Lock()
	if c.active != nil {
		_ = c.active.cancel()
	}
	c.active = req
	c.activeMu.Unlock()

	go req.processIncomingMessages(ctx)

	if err := req.sendWebsocketMessage(speakMsg(text)); err != nil {
		_ = req.close()
		return fmt.Errorf("failed to send text to deepgram: %w", err)
	}
	if err := req.sendWebsocketMessage(flushMsg); err != nil {
		_ = req.close()
		return fmt.Errorf("failed to flush deepgram buffer: %w", err)
	}

	return nil
}

// Cancel drops the in-flight speech request, if any. Audio already handed
// to the playback callback is not recalled.
func (c *TextToSpeechClient) Cancel() error {
	c.activeMu.Lock()
	defer c.activeMu.Unlock()

	if c.active == nil {
		return nil
	}

	err := c.active.cancel()
	c.active = nil
	return err
}

func (c *TextToSpeechClient) Close(context.Context) error {
	return c.Cancel()
}

func connectWebsocket(apiKey string, voice Voice, encodingInfo audio.EncodingInfo) (*websocket.Conn, error) {
	urlValues := url.Values{}
	urlValues.Set("encoding", encodingInfo.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(encodingInfo.SampleRate))
	urlValues.Set("model", string(voice))
	urlValues.Set("container", "none")

	conn, _, err := websocket.DefaultDialer.Dial(
		(&url.URL{
			Scheme: "wss",
			Host:   "api.deepgram.com", Path: "/v1/speak",
			RawQuery: urlValues.Encode(),
		}).String(),
		http.Header{"Authorization": {"token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

func (r *speakRequest) processIncomingMessages(_ context.Context) {
	for {
		msgType, msg, err := r.ws.ReadMessage()
		if err != nil {
			if err.Error() != "websocket: close 1000 (normal)" && !r.cancelled && !r.closed {
				log.Printf("Websocket read error: %v", err)
				r.options.ErrorCallback(err)
			}
			_ = r.close()
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			if !r.cancelled && len(msg) > 0 {
				r.options.SpeechAudioCallback(msg)
			}
		case websocket.TextMessage:
			var parsedMsg struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(msg, &parsedMsg); err != nil {
				continue
			}

			if parsedMsg.Type == "Flushed" {
				r.options.SpeechEndedCallback()
				_ = r.close()
				return
			}
		}
	}
}

func (r *speakRequest) cancel() error {
	r.mu.Lock()
	if r.closed || r.cancelled {
		r.mu.Unlock()
		return nil
	}
	r.cancelled = true
	r.mu.Unlock()

	if err := r.sendWebsocketMessage(clearMsg); err != nil {
		return fmt.Errorf("failed to clear deepgram buffer: %w", err)
	}

	return r.close()
}

func (r *speakRequest) close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if r.ws == nil {
		return nil
	}
	_ = r.ws.WriteJSON(closeMsg)
	return r.ws.Close()
}

type websocketMessage struct {
	Type string `json:"type"`
}

var (
	speakMsg = func(text string) struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} {
		return struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{Type: "Speak", Text: text}
	}
	flushMsg = websocketMessage{Type: "Flush"}
	clearMsg = websocketMessage{Type: "Clear"}
	closeMsg = websocketMessage{Type: "Close"}
)

func (r *speakRequest) sendWebsocketMessage(msg any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.ws == nil {
		return fmt.Errorf("websocket connection closed")
	}

	if err := r.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write to websocket: %w", err)
	}
	return nil
}
