// Package texttospeech defines the playback collaborator contract: a
// one-shot utterance synthesized from full text, cancellable in progress,
// selected from an enumerable voice catalog.
package texttospeech

import "github.com/srabonm/tandem-core/core/audio"

type Gender string

const (
	GenderFemale  Gender = "female"
	GenderMale    Gender = "male"
	GenderNeutral Gender = "neutral"
)

// Voice is one catalog entry. Locale is a BCP 47 language tag.
type Voice struct {
	Name   string
	Gender Gender
	Locale string
}

// Playback is an in-progress utterance. Done is closed when the utterance
// finishes or is cancelled.
type Playback interface {
	Cancel() error
	Done() <-chan struct{}
}

type SpeakOptions struct {
	Voice Voice
	// AudioCallback receives synthesized audio frames in order.
	AudioCallback func(audio []byte)
	// EndedCallback fires once, whether playback completed or was
	// cancelled.
	EndedCallback func(cancelled bool)
	ErrorCallback func(error)

	EncodingInfo audio.EncodingInfo
}

type SpeakOption func(*SpeakOptions)

func WithVoice(voice Voice) SpeakOption {
	return func(o *SpeakOptions) { o.Voice = voice }
}

func WithAudioCallback(callback func([]byte)) SpeakOption {
	return func(o *SpeakOptions) { o.AudioCallback = callback }
}

func WithEndedCallback(callback func(cancelled bool)) SpeakOption {
	return func(o *SpeakOptions) { o.EndedCallback = callback }
}

func WithErrorCallback(callback func(error)) SpeakOption {
	return func(o *SpeakOptions) { o.ErrorCallback = callback }
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SpeakOption {
	return func(o *SpeakOptions) {
		if encodingInfo.IsZero() {
			return
		}
		o.EncodingInfo = encodingInfo
	}
}
