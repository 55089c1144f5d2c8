package assistant

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/aldenmarch/voicecal/core/audio"
	"github.com/aldenmarch/voicecal/core/speechtotext"
)

type captureCallbacks struct {
	onInterimTranscript func(transcript string)
	onTranscript        func(transcript string)
	onError             func(err error)
	// onStopped fires when the session dies without a Stop call, such as
	// a stream that cannot be reopened.
	onStopped func()
}

// captureSession is the voice input facade. It bridges the audio input
// device into the transcription client and keeps the stream alive: a
// transcription stream that ends while the session is still listening is
// reopened.
type captureSession struct {
	client CaptureClient
	input  AudioInput

	// listening reflects the requested session state, not the stream
	// state. The stream can drop and be reopened while listening stays
	// true.
	listening atomic.Bool

	callbacks   captureCallbacks
	baseContext context.Context
}

func (c *captureSession) setClient(client CaptureClient) {
	if c != nil {
		c.client = client
	}
}

func (c *captureSession) setInput(input AudioInput) {
	if c != nil {
		c.input = input
	}
}

// Supported reports whether voice capture is wired. Without it the
// assistant still accepts typed commands.
func (c *captureSession) Supported() bool {
	return c != nil && c.client != nil && c.input != nil
}

func (c *captureSession) IsListening() bool {
	return c != nil && c.listening.Load()
}

func (c *captureSession) configure(ctx context.Context, callbacks captureCallbacks) {
	if c == nil {
		return
	}

	c.baseContext = ctx
	c.callbacks = callbacks
}

func (c *captureSession) Start() error {
	if !c.Supported() {
		return fmt.Errorf("voice capture not configured")
	}

	if !c.listening.CompareAndSwap(false, true) {
		return nil
	}

	if err := c.openStream(); err != nil {
		c.listening.Store(false)
		return err
	}

	if err := c.input.StartCapture(c.baseContext, func(chunk []byte) {
		_ = c.client.SendAudio(chunk)
	}); err != nil {
		c.listening.Store(false)
		_ = c.client.Stop()
		return fmt.Errorf("failed to start audio capture: %w", err)
	}

	return nil
}

func (c *captureSession) openStream() error {
	encodingInfo := audio.GetDefaultEncodingInfo()
	if c.input != nil {
		encodingInfo = c.input.EncodingInfo()
	}

	if err := c.client.Start(
		c.baseContext,
		speechtotext.WithInterimTranscriptCallback(c.invokeInterimTranscript),
		speechtotext.WithTranscriptCallback(c.invokeTranscript),
		speechtotext.WithEndedCallback(c.onStreamEnded),
		speechtotext.WithErrorCallback(c.invokeError),
		speechtotext.WithEncodingInfo(encodingInfo),
	); err != nil {
		return fmt.Errorf("failed to start transcription stream: %w", err)
	}

	return nil
}

// onStreamEnded reopens the transcription stream when it drops out from
// under an active session.
func (c *captureSession) onStreamEnded() {
	if !c.IsListening() {
		return
	}

	if err := c.openStream(); err != nil {
		c.invokeError(fmt.Errorf("failed to restart transcription stream: %w", err))
		c.listening.Store(false)
		if c.input != nil {
			_ = c.input.StopCapture()
		}
		if c.callbacks.onStopped != nil {
			c.callbacks.onStopped()
		}
	}
}

func (c *captureSession) Stop() error {
	if c == nil || !c.listening.CompareAndSwap(true, false) {
		return nil
	}

	var errs []error
	if c.input != nil {
		if err := c.input.StopCapture(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop audio capture: %w", err))
		}
	}
	if c.client != nil {
		if err := c.client.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop transcription stream: %w", err))
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (c *captureSession) Close(ctx context.Context) error {
	if c == nil {
		return nil
	}

	c.listening.Store(false)

	if c.input != nil {
		_ = c.input.StopCapture()
		c.input.Close()
	}

	if c.client == nil {
		return nil
	}

	switch client := c.client.(type) {
	case interface{ Close(context.Context) error }:
		if err := client.Close(ctx); err != nil {
			return fmt.Errorf("failed to close transcription client: %w", err)
		}
	case interface{ Close() error }:
		if err := client.Close(); err != nil {
			return fmt.Errorf("failed to close transcription client: %w", err)
		}
	case interface{ Close() }:
		client.Close()
	}

	return nil
}

func (c *captureSession) invokeInterimTranscript(transcript string) {
	if c.callbacks.onInterimTranscript != nil {
		c.callbacks.onInterimTranscript(transcript)
	}
}

func (c *captureSession) invokeTranscript(transcript string) {
	if c.callbacks.onTranscript != nil {
		c.callbacks.onTranscript(transcript)
	}
}

func (c *captureSession) invokeError(err error) {
	if c.callbacks.onError != nil {
		c.callbacks.onError(err)
	}
}
