// Package deepgram implements the texttospeech contract over Deepgram's
// speak websocket, one utterance per connection.
package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/srabonm/tandem-core/core/audio"
	"github.com/srabonm/tandem-core/core/texttospeech"
)

// voices is the aura voice catalog with the metadata the selection policy
// needs. The service exposes models, not voices; gender and locale are
// documented per model.
var voices = []texttospeech.Voice{
	{Name: "aura-2-thalia-en", Gender: texttospeech.GenderFemale, Locale: "en-US"},
	{Name: "aura-2-luna-en", Gender: texttospeech.GenderFemale, Locale: "en-US"},
	{Name: "aura-2-athena-en", Gender: texttospeech.GenderFemale, Locale: "en-GB"},
	{Name: "aura-2-orion-en", Gender: texttospeech.GenderMale, Locale: "en-US"},
	{Name: "aura-2-arcas-en", Gender: texttospeech.GenderMale, Locale: "en-US"},
	{Name: "aura-2-helios-en", Gender: texttospeech.GenderMale, Locale: "en-GB"},
}

type Client struct{}

func NewClient() *Client {
	return &Client{}
}

// Voices returns the catalog. It is static for this service, but the
// contract allows an empty or late-populated catalog.
func (c *Client) Voices(_ context.Context) ([]texttospeech.Voice, error) {
	catalog := make([]texttospeech.Voice, len(voices))
	copy(catalog, voices)
	return catalog, nil
}

// Speak synthesizes the full text as a single utterance and streams audio
// frames to the configured callback until done or cancelled.
func (c *Client) Speak(ctx context.Context, text string, opts ...texttospeech.SpeakOption) (texttospeech.Playback, error) {
	options := texttospeech.SpeakOptions{
		EncodingInfo: audio.GetDefaultEncodingInfo(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Voice.Name == "" {
		options.Voice = voices[0]
	}

	conn, err := connectWebsocket(options.Voice, options.EncodingInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to open websocket: %w", err)
	}

	utterance := &utterance{ws: conn, options: options, done: make(chan struct{})}

	if err := utterance.sendWebsocketMessage(sendTextMsg(text)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to send text: %w", err)
	}
	if err := utterance.sendWebsocketMessage(flushMsg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to flush: %w", err)
	}

	go utterance.processIncomingMessages(ctx)

	return utterance, nil
}

func connectWebsocket(voice texttospeech.Voice, encodingInfo audio.EncodingInfo) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	urlValues := url.Values{}
	urlValues.Set("encoding", encodingInfo.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(encodingInfo.SampleRate))
	urlValues.Set("model", voice.Name)
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

type utterance struct {
	ws   *websocket.Conn
	mu   sync.Mutex
	done chan struct{}

	options texttospeech.SpeakOptions

	cancelled bool
	endOnce   sync.Once
}

func (u *utterance) Done() <-chan struct{} { return u.done }

// Cancel stops synthesis and playback of this utterance. Safe to call more
// than once and after completion.
func (u *utterance) Cancel() error {
	u.mu.Lock()
	if u.cancelled {
		u.mu.Unlock()
		return nil
	}
	u.cancelled = true
	u.mu.Unlock()

	_ = u.sendWebsocketMessage(clearMsg)
	_ = u.sendWebsocketMessage(closeMsg)
	u.finish(true)
	return nil
}

func (u *utterance) processIncomingMessages(_ context.Context) {
	for {
		msgType, msg, err := u.ws.ReadMessage()
		if err != nil {
			u.mu.Lock()
			cancelled := u.cancelled
			u.mu.Unlock()
			if !cancelled && err.Error() != "websocket: close 1000 (normal)" {
				log.Println("Warning: websocket read error:", err)
				if u.options.ErrorCallback != nil {
					u.options.ErrorCallback(err)
				}
			}
			u.finish(cancelled)
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			u.mu.Lock()
			cancelled := u.cancelled
			u.mu.Unlock()
			if !cancelled && u.options.AudioCallback != nil {
				u.options.AudioCallback(msg)
			}
		case websocket.TextMessage:
			var parsedMsg struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(msg, &parsedMsg); err != nil {
				continue
			}
			if parsedMsg.Type == "Flushed" {
				// All audio for the utterance has been delivered.
				_ = u.sendWebsocketMessage(closeMsg)
				u.finish(false)
				return
			}
		}
	}
}

func (u *utterance) finish(cancelled bool) {
	u.endOnce.Do(func() {
		u.ws.Close()
		close(u.done)
		if u.options.EndedCallback != nil {
			u.options.EndedCallback(cancelled)
		}
	})
}

type websocketMessage struct {
	Type string `json:"type"`
}

var (
	sendTextMsg = func(text string) struct {
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

func (u *utterance) sendWebsocketMessage(msg any) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send websocket message: %w", err)
	}
	return nil
}
