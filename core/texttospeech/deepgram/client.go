// Package deepgram synthesizes assistant responses through Deepgram's
// speak API.
package deepgram

import (
	"fmt"
	"slices"
	"sync"
)

type Voice string

const (
	VoiceThalia  Voice = "aura-2-thalia-en"
	VoiceAsteria Voice = "aura-2-asteria-en"
	VoiceOrion   Voice = "aura-2-orion-en"
	VoiceArcas   Voice = "aura-2-arcas-en"

	defaultVoice = VoiceThalia
)

func GetAvailableVoices() []Voice {
	return []Voice{VoiceThalia, VoiceAsteria, VoiceOrion, VoiceArcas}
}

type TextToSpeechClient struct {
	apiKey string
	voice  Voice

	// active is the in-flight speech request, if any. Speak replaces it,
	// Cancel clears it.
	active   *speakRequest
	activeMu sync.Mutex
}

type ClientOption func(*TextToSpeechClient)

func WithVoice(voice Voice) ClientOption {
	return func(c *TextToSpeechClient) {
		if slices.Contains(GetAvailableVoices(), voice) {
			c.voice = voice
		}
	}
}

func NewTextToSpeechClient(apiKey string, opts ...ClientOption) (*TextToSpeechClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	client := &TextToSpeechClient{apiKey: apiKey, voice: defaultVoice}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func (c *TextToSpeechClient) SetVoice(voice Voice) error {
	if !slices.Contains(GetAvailableVoices(), voice) {
		return fmt.Errorf("invalid voice")
	}

	c.voice = voice
	return nil
}
