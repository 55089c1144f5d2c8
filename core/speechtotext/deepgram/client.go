// Package deepgram streams microphone audio to Deepgram's listen API and
// reports transcripts through the capture contract callbacks.
package deepgram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type TranscriptionClient struct {
	apiKey string
	model  string

	conn   *websocket.Conn
	connMu sync.Mutex

	// lastAudioTs tracks the last time real audio was written, used to
	// decide when keep-alives are needed.
	lastAudioTs time.Time

	// accumulatedTranscript collects finalized segments until the
	// utterance ends.
	accumulatedTranscript string
	unendedSegment        bool

	closeOnce sync.Once
}

type ClientOption func(*TranscriptionClient)

// WithModel overrides the recognition model.
func WithModel(model string) ClientOption {
	return func(c *TranscriptionClient) {
		if model != "" {
			c.model = model
		}
	}
}

func NewTranscriptionClient(apiKey string, opts ...ClientOption) (*TranscriptionClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	client := &TranscriptionClient{apiKey: apiKey, model: "nova-3"}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// SendAudio forwards one captured audio chunk to the recognition stream.
func (c *TranscriptionClient) SendAudio(audio []byte) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("transcription stream not open")
	}

	c.lastAudioTs = time.Now()
	if err := c.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write audio to deepgram: %w", err)
	}
	return nil
}

func (c *TranscriptionClient) sendKeepAlive() {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return
	}
	_ = c.conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: "KeepAlive"})
}

// Stop requests a graceful end of the recognition stream.
func (c *TranscriptionClient) Stop() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}
	if err := c.conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: "CloseStream"}); err != nil {
		return fmt.Errorf("failed to close deepgram stream: %w", err)
	}
	return nil
}

func (c *TranscriptionClient) Close(context.Context) error {
	var err error
	c.closeOnce.Do(func() {
		err = c.Stop()

		c.connMu.Lock()
		defer c.connMu.Unlock()
		if c.conn != nil {
			if closeErr := c.conn.Close(); err == nil {
				err = closeErr
			}
			c.conn = nil
		}
	})
	return err
}
