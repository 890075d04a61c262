// Package portaudio provides a combined capture and playback client over
// the default PortAudio devices. It is an alternative to miniaudio for
// hosts where malgo backends misbehave.
package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log"

	"github.com/gordonklaus/portaudio"
	"github.com/srabonm/tandem-core/core/audio"
)

type Client struct {
	bufferSize    int
	stream        *portaudio.Stream
	leftoverAudio []byte

	cancelCapture context.CancelFunc

	in  []int16
	out []int16
}

func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	in := make([]int16, bufferSize)
	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 1, audio.DefaultSampleRate, bufferSize, in, out)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		stream:     stream,
		in:         in,
		out:        out,
	}, nil
}

func (c *Client) Stream(ctx context.Context, onAudio func(audio []byte)) error {
	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := c.stream.Read(); err != nil {
				log.Printf("Warning: failed to read from portaudio stream: %v", err)
			}

			audioBuffer := bytes.Buffer{}
			binary.Write(&audioBuffer, binary.LittleEndian, c.in)
			onAudio(audioBuffer.Bytes())
		}
	}
}

// StartCapture runs the blocking capture loop in the background until
// StopCapture or context cancellation.
func (c *Client) StartCapture(ctx context.Context, onAudio func(audio []byte)) error {
	if c.cancelCapture != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancelCapture = cancel
	go func() {
		if err := c.Stream(ctx, onAudio); err != nil {
			log.Printf("Warning: portaudio capture stopped: %v", err)
		}
	}()
	return nil
}

func (c *Client) StopCapture() error {
	if c.cancelCapture != nil {
		c.cancelCapture()
		c.cancelCapture = nil
	}
	return nil
}

func (c *Client) Close() {
	c.stream.Close()
	portaudio.Terminate()
}

func (c *Client) SendAudio(audio []byte) error {
	bufferSize := c.bufferSize * 2

	audio = append(c.leftoverAudio, audio...)
	for i := range len(audio)/bufferSize + 1 {
		if (i+1)*bufferSize > len(audio) {
			c.leftoverAudio = make([]byte, len(audio)-i*bufferSize)
			copy(c.leftoverAudio, audio[i*bufferSize:])
			break
		}

		binary.Read(bytes.NewBuffer(audio[i*bufferSize:(i+1)*bufferSize]), binary.LittleEndian, c.out)
		c.stream.Write()
	}

	return nil
}

func (c *Client) ClearBuffer() {
	c.leftoverAudio = make([]byte, 0)
}

// AwaitDrain plays out whatever partial buffer is left, padding the last
// device write with silence.
func (c *Client) AwaitDrain() error {
	bufferSize := c.bufferSize * 2

	leftover := c.leftoverAudio
	c.leftoverAudio = make([]byte, 0)
	if len(leftover) == 0 {
		return nil
	}

	encodingInfo := c.EncodingInfo()
	for len(leftover) < bufferSize {
		leftover = append(leftover, encodingInfo.SilenceValue())
	}

	binary.Read(bytes.NewBuffer(leftover[:bufferSize]), binary.LittleEndian, c.out)
	c.stream.Write()
	return nil
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
	}
}
