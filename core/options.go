package assistant

import (
	"context"
	"time"

	"github.com/aldenmarch/voicecal/core/audio"
	"github.com/aldenmarch/voicecal/core/dispatch"
	"github.com/aldenmarch/voicecal/core/resolver"
	"github.com/aldenmarch/voicecal/core/speechtotext"
	"github.com/aldenmarch/voicecal/core/texttospeech"
)

type AssistantOption func(*Assistant)

type CaptureClient interface {
	Start(ctx context.Context, opts ...speechtotext.CaptureOption) error
	SendAudio(audio []byte) error
	Stop() error
}

func WithCaptureClient(client CaptureClient) AssistantOption {
	return func(a *Assistant) {
		a.capture.setClient(client)
	}
}

type AudioInput interface {
	EncodingInfo() audio.EncodingInfo
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
	Close()
}

func WithAudioInput(input AudioInput) AssistantOption {
	return func(a *Assistant) {
		a.capture.setInput(input)
	}
}

type SpeechClient interface {
	Speak(ctx context.Context, text string, opts ...texttospeech.SpeakOption) error
	Cancel() error
}

func WithSpeechClient(client SpeechClient) AssistantOption {
	return func(a *Assistant) {
		a.speech.setClient(client)
	}
}

type AudioOutput interface {
	EncodingInfo() audio.EncodingInfo
	SendAudio(audio []byte) error
	ClearBuffer()
}

func WithAudioOutput(output AudioOutput) AssistantOption {
	return func(a *Assistant) {
		a.speech.setOutput(output)
	}
}

func WithResolver(r resolver.Resolver) AssistantOption {
	return func(a *Assistant) {
		if r != nil {
			a.resolver = r
		}
	}
}

func WithDispatcher(d *dispatch.Dispatcher) AssistantOption {
	return func(a *Assistant) {
		if d != nil {
			a.dispatcher = d
		}
	}
}

func WithClock(now func() time.Time) AssistantOption {
	return func(a *Assistant) {
		if now != nil {
			a.now = now
		}
	}
}

type SessionOptions struct {
	onStateChanged      func(state State)
	onInterimTranscript func(transcript string)
	onTranscript        func(transcript string)
	onTurn              func(turn ConversationTurn)
	onError             func(err error)
}

type SessionOption func(*SessionOptions)

// WithStateChangedCallback registers a callback for assistant state
// transitions.
func WithStateChangedCallback(callback func(state State)) SessionOption {
	return func(o *SessionOptions) {
		o.onStateChanged = callback
	}
}

// WithInterimTranscriptCallback registers a callback for the in-progress
// transcript of the current utterance. Each call replaces the previous
// value.
func WithInterimTranscriptCallback(callback func(transcript string)) SessionOption {
	return func(o *SessionOptions) {
		o.onInterimTranscript = callback
	}
}

// WithTranscriptCallback registers a callback for finalized utterance
// transcripts. Commands submitted through [Assistant.SubmitCommand] do not
// trigger this callback.
func WithTranscriptCallback(callback func(transcript string)) SessionOption {
	return func(o *SessionOptions) {
		o.onTranscript = callback
	}
}

// WithTurnCallback registers a callback for appended conversation turns.
func WithTurnCallback(callback func(turn ConversationTurn)) SessionOption {
	return func(o *SessionOptions) {
		o.onTurn = callback
	}
}

func WithErrorCallback(callback func(err error)) SessionOption {
	return func(o *SessionOptions) {
		o.onError = callback
	}
}
