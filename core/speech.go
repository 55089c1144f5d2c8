package assistant

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/aldenmarch/voicecal/core/texttospeech"
)

// speechOutput is the voice output facade. Responses are spoken unless the
// assistant is muted; muting mid-response drops the rest of the audio.
type speechOutput struct {
	client SpeechClient
	output AudioOutput

	muted atomic.Bool
}

func (s *speechOutput) setClient(client SpeechClient) {
	if s != nil {
		s.client = client
	}
}

func (s *speechOutput) setOutput(output AudioOutput) {
	if s != nil {
		s.output = output
	}
}

func (s *speechOutput) isConfigured() bool {
	return s != nil && s.client != nil
}

func (s *speechOutput) IsMuted() bool {
	return s != nil && s.muted.Load()
}

// SetMuted flips voice output. Muting cancels in-flight synthesis and
// drops any audio not yet played.
func (s *speechOutput) SetMuted(muted bool) {
	if s == nil {
		return
	}

	if !muted {
		s.muted.Store(false)
		return
	}

	if s.muted.CompareAndSwap(false, true) {
		if s.client != nil {
			_ = s.client.Cancel()
		}
		if s.output != nil {
			s.output.ClearBuffer()
		}
	}
}

// Say synthesizes and plays the response text. Muted sessions skip
// synthesis entirely, the text is still logged by the caller.
func (s *speechOutput) Say(ctx context.Context, text string) error {
	if !s.isConfigured() || s.IsMuted() || text == "" {
		return nil
	}

	opts := []texttospeech.SpeakOption{}
	if s.output != nil {
		opts = append(opts,
			texttospeech.WithSpeechAudioCallback(func(chunk []byte) {
				if s.IsMuted() {
					return
				}
				_ = s.output.SendAudio(chunk)
			}),
			texttospeech.WithEncodingInfo(s.output.EncodingInfo()),
		)
	}

	if err := s.client.Speak(ctx, text, opts...); err != nil {
		return fmt.Errorf("failed to speak response: %w", err)
	}

	return nil
}

func (s *speechOutput) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}

	switch client := s.client.(type) {
	case interface{ Close(context.Context) error }:
		if err := client.Close(ctx); err != nil {
			return fmt.Errorf("failed to close speech client: %w", err)
		}
	case interface{ Close() error }:
		if err := client.Close(); err != nil {
			return fmt.Errorf("failed to close speech client: %w", err)
		}
	case interface{ Close() }:
		client.Close()
	}

	return nil
}
