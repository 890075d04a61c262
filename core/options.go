package orchestration

import (
	"context"
	"time"

	"github.com/srabonm/tandem-core/core/audio"
	"github.com/srabonm/tandem-core/core/events"
	"github.com/srabonm/tandem-core/core/llms"
	"github.com/srabonm/tandem-core/core/speechtotext"
	"github.com/srabonm/tandem-core/core/texttospeech"
)

type OrchestratorOption func(*Orchestrator)

type LLMWithStream interface {
	PromptWithStream(ctx context.Context, prompt *string, opts ...llms.PromptOption) llms.Stream
}

func WithStreamingLLM(client LLMWithStream) OrchestratorOption {
	return func(o *Orchestrator) { o.llm.set(client) }
}

type SpeechToText interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
	StopStream() error
	Close(ctx context.Context) error
}

func WithSpeechToTextClient(client SpeechToText) OrchestratorOption {
	return func(o *Orchestrator) { o.speechToText = client }
}

type TextToSpeech interface {
	Voices(ctx context.Context) ([]texttospeech.Voice, error)
	Speak(ctx context.Context, text string, opts ...texttospeech.SpeakOption) (texttospeech.Playback, error)
}

func WithTextToSpeechClient(client TextToSpeech) OrchestratorOption {
	return func(o *Orchestrator) {
		o.textToSpeech = client
		o.voiceOutputEnabled = true
	}
}

type AudioInput interface {
	EncodingInfo() audio.EncodingInfo
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
}

func WithAudioInput(client AudioInput) OrchestratorOption {
	return func(o *Orchestrator) { o.audioInput = client }
}

type AudioOutput interface {
	EncodingInfo() audio.EncodingInfo
	SendAudio(audio []byte) error
	ClearBuffer()
}

func WithAudioOutput(client AudioOutput) OrchestratorOption {
	return func(o *Orchestrator) { o.audioOutput = client }
}

// WithInstructions sets the system instructions passed on every model
// call.
func WithInstructions(instructions string) OrchestratorOption {
	return func(o *Orchestrator) { o.llm.setInstructions(instructions) }
}

func WithTools(tools ...llms.Tool) OrchestratorOption {
	return func(o *Orchestrator) { o.llm.setTools(tools...) }
}

// WithOrchestrationTools exposes the orchestrator's own controls (voice
// output, voice gender) as model-invocable tools.
func WithOrchestrationTools() OrchestratorOption {
	return func(o *Orchestrator) { o.llm.appendTools(orchestrationTools(o)...) }
}

func WithVoiceOutputEnabled(enabled bool) OrchestratorOption {
	return func(o *Orchestrator) { o.voiceOutputEnabled = enabled }
}

func WithVoiceGender(gender texttospeech.Gender) OrchestratorOption {
	return func(o *Orchestrator) { o.voiceGender = gender }
}

// WithAIMoveDelay sets the pacing delay before the AI ply in an embedded
// game. The delay exists so the opponent's move reads as a discrete turn.
func WithAIMoveDelay(delay time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if delay > 0 {
			o.aiMoveDelay = delay
		}
	}
}

// WithLocale sets the capture language tag, e.g. "en-US".
func WithLocale(locale string) OrchestratorOption {
	return func(o *Orchestrator) {
		if locale != "" {
			o.locale = locale
		}
	}
}

type OrchestrateOptions struct {
	// onEvent receives every emitted event, before any typed callback.
	onEvent func(event events.Event)

	onModeChanged          func(mode Mode)
	onTimelineChanged      func(entryID string)
	onInterimTranscription func(transcript string)
	onTranscription        func(transcript string)
	onResponse             func(chunk string)
	onResponseEnd          func()
	onPlaybackEnded        func(cancelled bool)
}

type OrchestrateOption func(*OrchestrateOptions)

// WithEventCallback registers a callback for every orchestration event.
func WithEventCallback(callback func(event events.Event)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onEvent = callback }
}

func WithModeChangedCallback(callback func(mode Mode)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onModeChanged = callback }
}

// WithTimelineChangedCallback registers a callback invoked whenever an
// entry is appended or updated in place. The callback receives the
// affected entry's ID; render from a fresh [Orchestrator.Timeline]
// snapshot.
func WithTimelineChangedCallback(callback func(entryID string)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onTimelineChanged = callback }
}

// WithInterimTranscriptionCallback registers a callback for interim
// transcript snapshots. Each snapshot replaces the previous one.
func WithInterimTranscriptionCallback(callback func(transcript string)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onInterimTranscription = callback }
}

func WithTranscriptionCallback(callback func(transcript string)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onTranscription = callback }
}

func WithResponseCallback(callback func(chunk string)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onResponse = callback }
}

func WithResponseEndCallback(callback func()) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onResponseEnd = callback }
}

func WithPlaybackEndedCallback(callback func(cancelled bool)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onPlaybackEnded = callback }
}
