// Package speechtotext defines the capture-transcription contract between
// the assistant and concrete speech recognition clients.
package speechtotext

import "github.com/aldenmarch/voicecal/core/audio"

type CaptureOptions struct {
	// InterimTranscriptCallback receives the mutable full-utterance
	// transcript so far. Each call replaces the previous value, it never
	// appends.
	InterimTranscriptCallback func(transcript string)
	// TranscriptCallback receives the finalized transcript for the
	// utterance.
	TranscriptCallback func(transcript string)

	SpeechStartedCallback func()
	// EndedCallback fires when the capture stream stops, expectedly or
	// not. The assistant uses it to restart capture while a session is
	// still meant to be listening.
	EndedCallback func()
	ErrorCallback func(err error)

	EncodingInfo audio.EncodingInfo
}

type CaptureOption func(*CaptureOptions)

func WithInterimTranscriptCallback(callback func(transcript string)) CaptureOption {
	return func(o *CaptureOptions) {
		o.InterimTranscriptCallback = callback
	}
}

func WithTranscriptCallback(callback func(transcript string)) CaptureOption {
	return func(o *CaptureOptions) {
		o.TranscriptCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) CaptureOption {
	return func(o *CaptureOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithEndedCallback(callback func()) CaptureOption {
	return func(o *CaptureOptions) {
		o.EndedCallback = callback
	}
}

func WithErrorCallback(callback func(err error)) CaptureOption {
	return func(o *CaptureOptions) {
		o.ErrorCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) CaptureOption {
	return func(o *CaptureOptions) {
		o.EncodingInfo = encodingInfo
	}
}
