// Package deepgram implements the speechtotext contract over Deepgram's
// live-listen websocket.
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
	"strings"
	"sync"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/srabonm/tandem-core/core/audio"
	"github.com/srabonm/tandem-core/core/speechtotext"
)

type TranscriptionClient struct {
	conn   *websocket.Conn
	connMu sync.Mutex

	stopRequested bool
	endOnce       *sync.Once
}

func NewTranscriptionClient() *TranscriptionClient {
	return &TranscriptionClient{}
}

// Transcribe opens a capture session. Callbacks fire from the read
// goroutine until the single end event.
func (s *TranscriptionClient) Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := &speechtotext.TranscriptionOptions{
		EncodingInfo: audio.GetDefaultEncodingInfo(),
		Locale:       "en-US",
	}
	for _, opt := range opts {
		opt(options)
	}

	conn, err := connectWebsocket(connectionOptions{
		sampleRate: options.EncodingInfo.SampleRate,
		encoding:   options.EncodingInfo.Format.Name(),
		locale:     options.Locale,

		detectSpeechStart: options.SpeechStartedCallback != nil,
		interimResults:    options.InterimTranscriptionCallback != nil,
	})
	if err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	s.connMu.Lock()
	s.conn = conn
	s.stopRequested = false
	s.endOnce = &sync.Once{}
	s.connMu.Unlock()

	go s.readAndProcessMessages(ctx, conn, *options)

	return nil
}

type connectionOptions struct {
	sampleRate int
	encoding   string
	locale     string

	detectSpeechStart bool
	interimResults    bool
}

func connectWebsocket(options connectionOptions) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	listenUrl, _ := url.Parse("wss://api.deepgram.com/v1/listen")
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", options.encoding)
	queryParams.Set("sample_rate", strconv.Itoa(options.sampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", "nova-3")
	queryParams.Set("language", options.locale)
	queryParams.Set("smart_format", "true")
	queryParams.Set("utterance_end_ms", "1000")
	queryParams.Set("interim_results", "true")
	queryParams.Set("endpointing", "300")
	if options.detectSpeechStart {
		queryParams.Set("vad_events", "true")
	}

	listenUrl.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(listenUrl.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

func (s *TranscriptionClient) SendAudio(audio []byte) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn == nil {
		return nil
	}
	if err := s.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

// StopStream requests an explicit end of the session. The service flushes
// any pending transcript before closing, and the end event fires with
// EndReasonStopped.
func (s *TranscriptionClient) StopStream() error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	s.stopRequested = true
	if s.conn != nil {
		if err := s.conn.WriteJSON(struct {
			Type string `json:"type"`
		}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
			return fmt.Errorf("failed to close deepgram stream through websocket: %w", err)
		}
	}
	return nil
}

func (s *TranscriptionClient) Close(ctx context.Context) error {
	return s.StopStream()
}

func (s *TranscriptionClient) readAndProcessMessages(_ context.Context, conn *websocket.Conn, options speechtotext.TranscriptionOptions) {
	endOnce := s.endOnce
	// The transcript accumulator lives on this goroutine so a restarted
	// session can never clobber a previous session's utterance.
	accumulated := ""
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			s.connMu.Lock()
			stopped := s.stopRequested
			s.conn = nil
			s.connMu.Unlock()
			conn.Close()

			if err.Error() != "websocket: close 1000 (normal)" && !stopped {
				log.Println("Warning: failed to read deepgram websocket message:", err)
				s.end(endOnce, options, speechtotext.EndReasonError, err)
				return
			}
			s.end(endOnce, options, speechtotext.EndReasonStopped, nil)
			return
		}
		if msgType != websocket.BinaryMessage {
			s.processMessage(msg, endOnce, &accumulated, options)
		}
	}
}

func (s *TranscriptionClient) processMessage(msg []byte, endOnce *sync.Once, accumulated *string, options speechtotext.TranscriptionOptions) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		log.Println("Warning: failed to unmarshal deepgram message:", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Warning: failed to unmarshal deepgram message:", err)
			return
		}
		if len(msgResp.Channel.Alternatives) == 0 {
			return
		}

		transcript := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
		if msgResp.IsFinal {
			if len(transcript) > 0 {
				if *accumulated != "" {
					*accumulated += " "
				}
				*accumulated += transcript
				if options.InterimTranscriptionCallback != nil {
					options.InterimTranscriptionCallback(*accumulated)
				}
			}
			if msgResp.SpeechFinal {
				s.finishUtterance(endOnce, *accumulated, options)
			}
			return
		}

		if len(transcript) > 0 && options.InterimTranscriptionCallback != nil {
			interim := *accumulated
			if interim != "" {
				interim += " "
			}
			options.InterimTranscriptionCallback(interim + transcript)
		}

	case api.TypeUtteranceEndResponse:
		s.finishUtterance(endOnce, *accumulated, options)

	case api.TypeSpeechStartedResponse:
		if options.SpeechStartedCallback != nil {
			options.SpeechStartedCallback()
		}
	}
}

func (s *TranscriptionClient) finishUtterance(endOnce *sync.Once, accumulated string, options speechtotext.TranscriptionOptions) {
	transcript := strings.TrimSpace(accumulated)
	if transcript == "" {
		return
	}

	if options.TranscriptionCallback != nil {
		options.TranscriptionCallback(transcript)
	}
	s.end(endOnce, options, speechtotext.EndReasonNatural, nil)

	s.connMu.Lock()
	conn := s.conn
	s.conn = nil
	s.connMu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

func (s *TranscriptionClient) end(endOnce *sync.Once, options speechtotext.TranscriptionOptions, reason speechtotext.EndReason, err error) {
	if endOnce == nil || options.EndedCallback == nil {
		return
	}
	endOnce.Do(func() { options.EndedCallback(reason, err) })
}
