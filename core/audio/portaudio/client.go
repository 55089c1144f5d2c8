// Package portaudio plays synthesized speech through the default output
// device.
package portaudio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/aldenmarch/voicecal/core/audio"
	"github.com/gordonklaus/portaudio"
)

type Client struct {
	bufferSize    int
	stream        *portaudio.Stream
	leftoverAudio []byte

	out []int16
	mu  sync.Mutex
}

func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(0, 1, audio.DefaultSampleRate, bufferSize, out)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		stream:     stream,
		out:        out,
	}, nil
}

// SendAudio writes little-endian 16-bit samples to the output device in
// bufferSize frames. A trailing partial frame is held back until the next
// call fills it.
func (c *Client) SendAudio(audio []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	frameBytes := c.bufferSize * 2

	audio = append(c.leftoverAudio, audio...)
	for i := 0; ; i++ {
		if (i+1)*frameBytes > len(audio) {
			c.leftoverAudio = make([]byte, len(audio)-i*frameBytes)
			copy(c.leftoverAudio, audio[i*frameBytes:])
			break
		}

		if err := binary.Read(bytes.NewBuffer(audio[i*frameBytes:(i+1)*frameBytes]),
			binary.LittleEndian, c.out); err != nil {
			return fmt.Errorf("failed to frame audio: %w", err)
		}
		if err := c.stream.Write(); err != nil {
			return fmt.Errorf("failed to write to portaudio stream: %w", err)
		}
	}

	return nil
}

// ClearBuffer drops audio that has not been written to the device yet.
func (c *Client) ClearBuffer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leftoverAudio = nil
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream != nil {
		_ = c.stream.Close()
		c.stream = nil
	}
	_ = portaudio.Terminate()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
	}
}
