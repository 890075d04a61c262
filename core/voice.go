package orchestration

import (
	"context"
	"log"
	"strings"

	"github.com/srabonm/tandem-core/core/events"
	"github.com/srabonm/tandem-core/core/speechtotext"
	"github.com/srabonm/tandem-core/core/texttospeech"
)

// preferredVoices is the fixed fallback order used when no catalog voice
// matches the configured gender.
var preferredVoices = []string{"aura-2-thalia-en", "aura-2-orion-en"}

// StartCapture begins a voice capture session. Refused (no-op) while
// sending or a game is active. Starting capture preempts any playback in
// progress; capture and playback are never concurrent.
func (o *Orchestrator) StartCapture() {
	o.mu.Lock()

	if o.speechToText == nil {
		o.mu.Unlock()
		log.Println("Warning: no speech-to-text client configured, capture unavailable")
		return
	}

	if !o.arbiter.beginListening() {
		o.mu.Unlock()
		return
	}

	generation := o.arbiter.Generation()
	o.pendingInput = ""
	playback := o.playback
	o.playback = nil
	o.playbackSeq++
	ctx := o.baseContext
	client := o.speechToText
	o.mu.Unlock()

	if playback != nil {
		o.cancelPlayback(playback)
	}

	opts := []speechtotext.TranscriptionOption{
		speechtotext.WithLocale(o.locale),
		speechtotext.WithSpeechStartedCallback(func() {
			o.handleSpeechStarted(generation)
		}),
		speechtotext.WithInterimTranscriptionCallback(func(transcript string) {
			o.handleInterimTranscript(generation, transcript)
		}),
		speechtotext.WithTranscriptionCallback(func(transcript string) {
			o.handleFinalTranscript(generation, transcript)
		}),
		speechtotext.WithEndedCallback(func(reason speechtotext.EndReason, err error) {
			o.handleCaptureEnded(generation, reason, err)
		}),
	}
	if o.audioInput != nil {
		opts = append(opts, speechtotext.WithEncodingInfo(o.audioInput.EncodingInfo()))
	}

	if err := client.Transcribe(ctx, opts...); err != nil {
		log.Println("Warning: failed to start capture:", err)

		o.mu.Lock()
		var pending []events.Event
		if o.arbiter.Generation() == generation && o.arbiter.finishListening() {
			pending = append(pending, events.NewConversationModeChanged(string(ModeIdle)))
		}
		o.mu.Unlock()
		o.emit(pending)
		return
	}

	if o.audioInput != nil {
		if err := o.audioInput.StartCapture(ctx, func(audio []byte) {
			if err := client.SendAudio(audio); err != nil {
				log.Println("Warning: failed to forward captured audio:", err)
			}
		}); err != nil {
			log.Println("Warning: failed to start audio capture:", err)
		}
	}

	o.emit([]events.Event{events.NewConversationModeChanged(string(ModeListening))})
}

// StopCapture explicitly ends the capture session. A no-op unless
// listening.
func (o *Orchestrator) StopCapture() {
	o.mu.Lock()
	pending := o.stopCaptureLocked()
	o.mu.Unlock()

	o.emit(pending)
}

// stopCaptureLocked forces Listening back to Idle and stops the capture
// pipeline. The capture session's own end event arrives later and is
// discarded as stale.
func (o *Orchestrator) stopCaptureLocked() []events.Event {
	if !o.arbiter.finishListening() {
		return nil
	}

	if o.speechToText != nil {
		if err := o.speechToText.StopStream(); err != nil {
			log.Println("Warning: failed to stop transcription stream:", err)
		}
	}
	if o.audioInput != nil {
		if err := o.audioInput.StopCapture(); err != nil {
			log.Println("Warning: failed to stop audio capture:", err)
		}
	}

	return []events.Event{
		events.NewUserCaptureEnded(string(speechtotext.EndReasonStopped)),
		events.NewConversationModeChanged(string(ModeIdle)),
	}
}

func (o *Orchestrator) handleSpeechStarted(generation uint64) {
	o.mu.Lock()
	if o.arbiter.Generation() != generation {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	o.emit([]events.Event{events.NewUserSpeechStarted()})
}

// handleInterimTranscript replaces the pending input with the latest
// transcript revision. The speech engine revises its own guesses, so
// this is a replacement, never an append.
func (o *Orchestrator) handleInterimTranscript(generation uint64, transcript string) {
	o.mu.Lock()
	if o.arbiter.Generation() != generation {
		o.mu.Unlock()
		return
	}
	o.pendingInput = transcript
	o.mu.Unlock()

	o.emit([]events.Event{events.NewUserTranscriptInterimUpdated(transcript)})
}

func (o *Orchestrator) handleFinalTranscript(generation uint64, transcript string) {
	o.mu.Lock()
	if o.arbiter.Generation() != generation {
		o.mu.Unlock()
		return
	}
	o.pendingInput = transcript
	o.mu.Unlock()

	o.emit([]events.Event{events.NewUserTranscriptFinal(transcript)})
}

// handleCaptureEnded resolves the arbiter back to Idle when the capture
// session ends on its own. End events arriving after the arbiter already
// left Listening are idempotent no-ops.
func (o *Orchestrator) handleCaptureEnded(generation uint64, reason speechtotext.EndReason, err error) {
	if err != nil {
		log.Println("Warning: capture session ended with error:", err)
	}

	o.mu.Lock()
	if o.arbiter.Generation() != generation || !o.arbiter.finishListening() {
		o.mu.Unlock()
		return
	}

	if o.audioInput != nil {
		if stopErr := o.audioInput.StopCapture(); stopErr != nil {
			log.Println("Warning: failed to stop audio capture:", stopErr)
		}
	}
	o.mu.Unlock()

	o.emit([]events.Event{
		events.NewUserCaptureEnded(string(reason)),
		events.NewConversationModeChanged(string(ModeIdle)),
	})
}

func (o *Orchestrator) loadVoiceCatalog(ctx context.Context) {
	voices, err := o.textToSpeech.Voices(ctx)
	if err != nil {
		log.Println("Warning: failed to load voice catalog:", err)
		return
	}

	o.mu.Lock()
	o.voices = voices
	o.mu.Unlock()
}

// speak starts a playback session for the text, preempting any playback
// already in progress so at most one utterance is audible. Skipped
// silently when voice output is disabled or no voices are available yet.
func (o *Orchestrator) speak(text string) {
	o.mu.Lock()
	tts := o.textToSpeech
	enabled := o.voiceOutputEnabled
	voice, ok := o.pickVoiceLocked()
	prior := o.playback
	o.playback = nil
	o.playbackSeq++
	seq := o.playbackSeq
	ctx := o.baseContext
	o.mu.Unlock()

	if prior != nil {
		o.cancelPlayback(prior)
	}

	if tts == nil || !enabled || !ok {
		return
	}

	opts := []texttospeech.SpeakOption{
		texttospeech.WithVoice(voice),
		texttospeech.WithEndedCallback(func(cancelled bool) {
			go o.handlePlaybackEnded(seq, cancelled)
		}),
		texttospeech.WithErrorCallback(func(err error) {
			log.Println("Warning: playback error:", err)
		}),
	}
	if o.audioOutput != nil {
		opts = append(opts,
			texttospeech.WithEncodingInfo(o.audioOutput.EncodingInfo()),
			texttospeech.WithAudioCallback(func(audio []byte) {
				if err := o.audioOutput.SendAudio(audio); err != nil {
					log.Println("Warning: failed to queue playback audio:", err)
				}
			}),
		)
	}

	playback, err := tts.Speak(ctx, text, opts...)
	if err != nil {
		log.Println("Warning: failed to start playback:", err)
		return
	}

	o.mu.Lock()
	if o.playbackSeq != seq {
		// A newer exclusive activity claimed playback while this one was
		// starting.
		o.mu.Unlock()
		o.cancelPlayback(playback)
		return
	}
	o.playback = playback
	o.mu.Unlock()

	o.emit([]events.Event{events.NewAssistantPlaybackStarted(text)})
}

func (o *Orchestrator) cancelPlayback(playback texttospeech.Playback) {
	if err := playback.Cancel(); err != nil {
		log.Println("Warning: failed to cancel playback:", err)
	}
	if o.audioOutput != nil {
		o.audioOutput.ClearBuffer()
	}
}

func (o *Orchestrator) handlePlaybackEnded(seq uint64, cancelled bool) {
	o.mu.Lock()
	if o.playbackSeq == seq {
		o.playback = nil
	}
	o.mu.Unlock()

	o.emit([]events.Event{events.NewAssistantPlaybackEnded(cancelled)})
}

// pickVoiceLocked applies the voice selection policy: a voice matching
// the configured gender with an English locale, then the fixed preference
// list, then any English voice, then any voice at all. An empty catalog
// reports no voice and playback is skipped.
func (o *Orchestrator) pickVoiceLocked() (texttospeech.Voice, bool) {
	if len(o.voices) == 0 {
		return texttospeech.Voice{}, false
	}

	isEnglish := func(voice texttospeech.Voice) bool {
		return strings.HasPrefix(voice.Locale, "en")
	}

	for _, voice := range o.voices {
		if voice.Gender == o.voiceGender && isEnglish(voice) {
			return voice, true
		}
	}

	for _, name := range preferredVoices {
		for _, voice := range o.voices {
			if voice.Name == name {
				return voice, true
			}
		}
	}

	for _, voice := range o.voices {
		if isEnglish(voice) {
			return voice, true
		}
	}

	return o.voices[0], true
}

// SetVoiceOutput enables or disables spoken replies. Disabling cancels
// any playback in progress.
func (o *Orchestrator) SetVoiceOutput(enabled bool) {
	o.mu.Lock()
	o.voiceOutputEnabled = enabled
	var playback texttospeech.Playback
	if !enabled {
		playback = o.playback
		o.playback = nil
		o.playbackSeq++
	}
	o.mu.Unlock()

	if playback != nil {
		o.cancelPlayback(playback)
	}
}

// ToggleVoiceOutput flips spoken replies and reports the resulting state.
func (o *Orchestrator) ToggleVoiceOutput() bool {
	enabled := !o.IsVoiceOutputEnabled()
	o.SetVoiceOutput(enabled)
	return enabled
}

func (o *Orchestrator) SetVoiceGender(gender texttospeech.Gender) {
	switch gender {
	case texttospeech.GenderFemale, texttospeech.GenderMale, texttospeech.GenderNeutral:
	default:
		log.Println("Warning: unknown voice gender:", gender)
		return
	}

	o.mu.Lock()
	o.voiceGender = gender
	o.mu.Unlock()
}

func (o *Orchestrator) ToggleVoiceGender() {
	o.mu.Lock()
	if o.voiceGender == texttospeech.GenderMale {
		o.voiceGender = texttospeech.GenderFemale
	} else {
		o.voiceGender = texttospeech.GenderMale
	}
	o.mu.Unlock()
}
