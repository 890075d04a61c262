// Package speechtotext defines the capture collaborator contract: a
// session emits zero or more interim transcript revisions followed by
// exactly one end event.
package speechtotext

import "github.com/srabonm/tandem-core/core/audio"

type EndReason string

const (
	// EndReasonNatural is the end of the utterance as detected by the
	// service.
	EndReasonNatural EndReason = "natural"
	// EndReasonStopped is an explicit stop requested by the caller.
	EndReasonStopped EndReason = "stopped"
	EndReasonError   EndReason = "error"
)

type TranscriptionOptions struct {
	// InterimTranscriptionCallback receives transcript revisions. Each
	// revision fully replaces the previous one; the service refines its
	// own guesses.
	InterimTranscriptionCallback func(transcript string)
	// TranscriptionCallback receives the final transcript of the
	// utterance, before the end event.
	TranscriptionCallback func(transcript string)
	// EndedCallback is invoked exactly once per session. err is non-nil
	// only for EndReasonError.
	EndedCallback func(reason EndReason, err error)

	SpeechStartedCallback func()

	EncodingInfo audio.EncodingInfo
	// Locale is the fixed capture language tag, e.g. "en-US".
	Locale string
}

type TranscriptionOption func(*TranscriptionOptions)

func WithInterimTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.InterimTranscriptionCallback = callback }
}

func WithTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.TranscriptionCallback = callback }
}

func WithEndedCallback(callback func(reason EndReason, err error)) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.EndedCallback = callback }
}

func WithSpeechStartedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.SpeechStartedCallback = callback }
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.EncodingInfo = encodingInfo }
}

func WithLocale(locale string) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.Locale = locale }
}
