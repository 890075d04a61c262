// Package orchestration owns the conversation timeline and arbitrates
// which of {user text, user voice, streaming model reply, game ply} may
// be in flight at any instant. It is a library-level boundary: the
// presentation layer issues intents and renders timeline snapshots, the
// provider collaborators (model stream, speech services, audio devices)
// plug in through options.
package orchestration

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/srabonm/tandem-core/core/events"
	"github.com/srabonm/tandem-core/core/games"
	"github.com/srabonm/tandem-core/core/llms"
	"github.com/srabonm/tandem-core/core/texttospeech"
	"github.com/srabonm/tandem-core/core/timeline"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultAIMoveDelay = 600 * time.Millisecond

// llmUnavailableMessage is appended once at startup when no model client
// could be configured. The session stays open; submissions will fail at
// the transport layer.
const llmUnavailableMessage = "I couldn't connect to my language model, so I won't be able to answer messages right now."

type Orchestrator struct {
	// mu is the session lock. Every state transition triggered by an
	// external event (intent, stream chunk, speech callback, timer) runs
	// under it; events are emitted after it is released.
	mu sync.Mutex

	store   *timeline.Store
	arbiter turnArbiter

	llm llm
	// turns is the prior-exchange history passed back to the model.
	turns []llms.Turn

	speechToText SpeechToText
	textToSpeech TextToSpeech
	audioInput   AudioInput
	audioOutput  AudioOutput

	// pendingInput is the draft input field fed by interim transcripts.
	pendingInput string

	voices             []texttospeech.Voice
	voiceOutputEnabled bool
	voiceGender        texttospeech.Gender
	playback           texttospeech.Playback
	// playbackSeq increments whenever playback ownership changes, so late
	// playback-end callbacks can tell they refer to a superseded session.
	playbackSeq uint64

	game        *gameSession
	aiMoveDelay time.Duration

	locale string

	orchestrateOptions OrchestrateOptions
	emitEvent          eventEmitter

	baseContext context.Context
	closeOnce   sync.Once
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		store:       timeline.NewStore(),
		arbiter:     newTurnArbiter(),
		llm:         newLLM(),
		voiceGender: texttospeech.GenderFemale,
		aiMoveDelay: defaultAIMoveDelay,
		locale:      "en-US",
		emitEvent:   noopEventEmitter,
		baseContext: context.Background(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Orchestrate binds the session to ctx and wires the presentation
// callbacks. Call it at most once per orchestrator instance.
func (o *Orchestrator) Orchestrate(ctx context.Context, opts ...OrchestrateOption) {
	o.orchestrateOptions = OrchestrateOptions{}
	for _, opt := range opts {
		opt(&o.orchestrateOptions)
	}
	o.emitEvent = newCallbackEventEmitter(o.orchestrateOptions)
	o.baseContext = ctx

	if !o.llm.isConfigured() {
		entryID := o.store.Append(timeline.Entry{
			Speaker: timeline.SpeakerAssistant,
			Text:    llmUnavailableMessage,
		})
		o.emitEvent(events.NewTimelineEntryAppended(entryID))
	}

	if o.textToSpeech != nil {
		go o.loadVoiceCatalog(ctx)
	}

	go func() {
		<-ctx.Done()
		o.Close()
	}()
}

func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		o.mu.Lock()
		playback := o.playback
		o.playback = nil
		if o.game != nil {
			o.game.stopTimer()
			o.game = nil
		}
		o.mu.Unlock()

		if playback != nil {
			_ = playback.Cancel()
		}

		if o.audioInput != nil {
			if err := o.audioInput.StopCapture(); err != nil {
				log.Println("Warning: failed to stop audio capture:", err)
			}
		}

		if o.speechToText != nil {
			if err := o.speechToText.Close(o.baseContext); err != nil {
				recordedErr := fmt.Errorf("failed to close speech-to-text client: %w", err)
				span := trace.SpanFromContext(o.baseContext)
				span.RecordError(recordedErr)
				span.SetStatus(codes.Error, recordedErr.Error())
			}
		}
	})
}

// Timeline returns a point-in-time deep snapshot of the entry log, safe
// to render while a reply is still streaming.
func (o *Orchestrator) Timeline() []timeline.Entry {
	return o.store.Snapshot()
}

func (o *Orchestrator) Mode() Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.arbiter.Mode()
}

// PendingInput returns the current draft input text fed by voice capture.
func (o *Orchestrator) PendingInput() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pendingInput
}

// ActiveGameKind reports the kind of the live game, if one is active.
func (o *Orchestrator) ActiveGameKind() (games.Kind, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.game == nil {
		return "", false
	}
	return o.game.engine.Kind(), true
}

func (o *Orchestrator) IsVoiceOutputEnabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.voiceOutputEnabled
}

func (o *Orchestrator) VoiceGender() texttospeech.Gender {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.voiceGender
}

// emit dispatches events collected under the session lock. It must only
// be called with the lock released; callbacks are free to re-enter the
// orchestrator.
func (o *Orchestrator) emit(pending []events.Event) {
	for _, event := range pending {
		o.emitEvent(event)
	}
}
