package orchestration

import (
	"context"
	"testing"

	"github.com/srabonm/tandem-core/core/events"
	"github.com/srabonm/tandem-core/core/speechtotext"
	"github.com/srabonm/tandem-core/core/texttospeech"
)

func TestInterimTranscriptsReplacePendingInput(t *testing.T) {
	sttClient := &sttClientStub{}
	o := NewOrchestrator(WithSpeechToTextClient(sttClient))
	o.Orchestrate(context.Background())

	o.StartCapture()
	if o.Mode() != ModeListening {
		t.Fatalf("expected mode listening, got %v", o.Mode())
	}

	callbacks := sttClient.callbacks()
	if callbacks.InterimTranscriptionCallback == nil {
		t.Fatalf("expected interim callback to be configured")
	}

	callbacks.InterimTranscriptionCallback("hel")
	callbacks.InterimTranscriptionCallback("hello there")

	if o.PendingInput() != "hello there" {
		t.Fatalf("expected each revision to replace the previous one, got %q", o.PendingInput())
	}
}

func TestStopCaptureResolvesToIdleAndLateEndIsIgnored(t *testing.T) {
	sttClient := &sttClientStub{}
	o := NewOrchestrator(WithSpeechToTextClient(sttClient))

	captureEnds := 0
	o.Orchestrate(context.Background(), WithEventCallback(func(event events.Event) {
		if _, ok := event.(events.UserCaptureEnded); ok {
			captureEnds++
		}
	}))

	o.StartCapture()
	callbacks := sttClient.callbacks()

	o.StopCapture()
	if o.Mode() != ModeIdle {
		t.Fatalf("expected mode idle after explicit stop, got %v", o.Mode())
	}
	if !sttClient.stopped {
		t.Fatalf("expected the transcription stream to be stopped")
	}

	// The session's own end event arrives after the arbiter already left
	// Listening and must be an idempotent no-op.
	callbacks.EndedCallback(speechtotext.EndReasonStopped, nil)

	if o.Mode() != ModeIdle {
		t.Fatalf("expected mode to stay idle, got %v", o.Mode())
	}
	if captureEnds != 1 {
		t.Fatalf("expected exactly one capture end event, got %d", captureEnds)
	}
}

func TestNaturalCaptureEndResolvesToIdle(t *testing.T) {
	sttClient := &sttClientStub{}
	o := NewOrchestrator(WithSpeechToTextClient(sttClient))
	o.Orchestrate(context.Background())

	o.StartCapture()
	callbacks := sttClient.callbacks()

	callbacks.TranscriptionCallback("turn on the lights")
	callbacks.EndedCallback(speechtotext.EndReasonNatural, nil)

	if o.Mode() != ModeIdle {
		t.Fatalf("expected mode idle after natural end, got %v", o.Mode())
	}
	if o.PendingInput() != "turn on the lights" {
		t.Fatalf("expected final transcript in pending input, got %q", o.PendingInput())
	}
}

func TestPlaybackPreemptionLeavesOneAudibleUtterance(t *testing.T) {
	ttsClient := &ttsClientStub{voices: []texttospeech.Voice{
		{Name: "aura-2-thalia-en", Gender: texttospeech.GenderFemale, Locale: "en-US"},
	}}
	o := NewOrchestrator(WithTextToSpeechClient(ttsClient))
	o.Orchestrate(context.Background())
	o.mu.Lock()
	o.voices = ttsClient.voices
	o.mu.Unlock()

	o.speak("first utterance")
	o.speak("second utterance")

	spoken := ttsClient.spokenTexts()
	if len(spoken) != 2 {
		t.Fatalf("expected both utterances to be synthesized, got %v", spoken)
	}
	if !ttsClient.playbacks[0].isCancelled() {
		t.Fatalf("expected the first playback to be cancelled")
	}
	if ttsClient.playbacks[1].isCancelled() {
		t.Fatalf("expected the second playback to keep playing")
	}
}

func TestSubmitCancelsActivePlayback(t *testing.T) {
	client := &llmClientStub{stream: &streamStub{chunks: []string{"ok"}}}
	ttsClient := &ttsClientStub{voices: []texttospeech.Voice{
		{Name: "aura-2-thalia-en", Gender: texttospeech.GenderFemale, Locale: "en-US"},
	}}
	o := NewOrchestrator(WithStreamingLLM(client), WithTextToSpeechClient(ttsClient))

	done := make(chan struct{})
	o.Orchestrate(context.Background(), WithResponseEndCallback(func() { close(done) }))
	o.mu.Lock()
	o.voices = ttsClient.voices
	o.mu.Unlock()

	o.speak("previous reply")
	first := ttsClient.playbacks[0]

	o.SendPrompt("next question")
	awaitResponseEnd(t, done)

	if !first.isCancelled() {
		t.Fatalf("expected submit to cancel the active playback")
	}
}

func TestDisablingVoiceOutputCancelsPlayback(t *testing.T) {
	ttsClient := &ttsClientStub{voices: []texttospeech.Voice{
		{Name: "aura-2-thalia-en", Gender: texttospeech.GenderFemale, Locale: "en-US"},
	}}
	o := NewOrchestrator(WithTextToSpeechClient(ttsClient))
	o.Orchestrate(context.Background())
	o.mu.Lock()
	o.voices = ttsClient.voices
	o.mu.Unlock()

	o.speak("some reply")
	o.SetVoiceOutput(false)

	if !ttsClient.playbacks[0].isCancelled() {
		t.Fatalf("expected disabling voice output to cancel playback")
	}

	o.speak("another reply")
	if len(ttsClient.spokenTexts()) != 1 {
		t.Fatalf("expected no synthesis while voice output is disabled")
	}
}

func TestPickVoiceFallbackChain(t *testing.T) {
	female := texttospeech.Voice{Name: "aura-2-luna-en", Gender: texttospeech.GenderFemale, Locale: "en-US"}
	male := texttospeech.Voice{Name: "aura-2-orion-en", Gender: texttospeech.GenderMale, Locale: "en-US"}
	preferred := texttospeech.Voice{Name: "aura-2-thalia-en", Gender: texttospeech.GenderFemale, Locale: "en-US"}
	foreign := texttospeech.Voice{Name: "aura-2-estrella-es", Gender: texttospeech.GenderFemale, Locale: "es-419"}

	tests := []struct {
		name   string
		gender texttospeech.Gender
		voices []texttospeech.Voice
		want   string
		wantOK bool
	}{
		{"gender and locale match", texttospeech.GenderMale, []texttospeech.Voice{female, male}, male.Name, true},
		{"preference list fallback", texttospeech.GenderMale, []texttospeech.Voice{foreign, preferred}, preferred.Name, true},
		{"first english fallback", texttospeech.GenderMale, []texttospeech.Voice{foreign, female}, female.Name, true},
		{"any voice fallback", texttospeech.GenderMale, []texttospeech.Voice{foreign}, foreign.Name, true},
		{"empty catalog skips", texttospeech.GenderMale, nil, "", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			o := NewOrchestrator(WithVoiceGender(test.gender))
			o.voices = test.voices

			voice, ok := o.pickVoiceLocked()
			if ok != test.wantOK {
				t.Fatalf("expected ok=%t, got %t", test.wantOK, ok)
			}
			if ok && voice.Name != test.want {
				t.Fatalf("expected voice %q, got %q", test.want, voice.Name)
			}
		})
	}
}

func TestToggleVoiceGenderAlternates(t *testing.T) {
	o := NewOrchestrator()

	if o.VoiceGender() != texttospeech.GenderFemale {
		t.Fatalf("expected default gender female, got %v", o.VoiceGender())
	}

	o.ToggleVoiceGender()
	if o.VoiceGender() != texttospeech.GenderMale {
		t.Fatalf("expected male after toggle, got %v", o.VoiceGender())
	}

	o.ToggleVoiceGender()
	if o.VoiceGender() != texttospeech.GenderFemale {
		t.Fatalf("expected female after second toggle, got %v", o.VoiceGender())
	}
}
