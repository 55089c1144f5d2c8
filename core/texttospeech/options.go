// Package texttospeech defines the speech synthesis contract between the
// assistant and concrete synthesis clients.
package texttospeech

import "github.com/aldenmarch/voicecal/core/audio"

type SpeakOptions struct {
	// SpeechAudioCallback is called for each chunk of synthesized audio.
	SpeechAudioCallback func(audio []byte)
	// SpeechEndedCallback is called once all audio for the spoken text has
	// been produced, or after a cancellation.
	SpeechEndedCallback func()
	// ErrorCallback is called when synthesis fails. It usually means the
	// speech request was cancelled mid-flight.
	ErrorCallback func(err error)

	EncodingInfo audio.EncodingInfo
}

type SpeakOption func(*SpeakOptions)

func WithSpeechAudioCallback(callback func(audio []byte)) SpeakOption {
	return func(o *SpeakOptions) {
		o.SpeechAudioCallback = callback
	}
}

func WithSpeechEndedCallback(callback func()) SpeakOption {
	return func(o *SpeakOptions) {
		o.SpeechEndedCallback = callback
	}
}

func WithErrorCallback(callback func(err error)) SpeakOption {
	return func(o *SpeakOptions) {
		o.ErrorCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SpeakOption {
	return func(o *SpeakOptions) {
		if encodingInfo.IsZero() {
			return
		}

		o.EncodingInfo = encodingInfo
	}
}
