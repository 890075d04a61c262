package events

const (
	// KindUserSpeechStarted identifies the start of user speech activity.
	KindUserSpeechStarted Kind = "user_input.speech_started"
	// KindUserTranscriptInterimUpdated identifies mutable interim transcript snapshots.
	KindUserTranscriptInterimUpdated Kind = "user_input.transcript_interim_updated"
	// KindUserTranscriptFinal identifies the terminal transcript of an utterance.
	KindUserTranscriptFinal Kind = "user_input.transcript_final"
	// KindUserCaptureEnded identifies the end of a capture session.
	KindUserCaptureEnded Kind = "user_input.capture_ended"
)

// UserSpeechStarted marks detected user speech activity.
type UserSpeechStarted struct{ Base }

// NewUserSpeechStarted creates a user speech started event.
func NewUserSpeechStarted() UserSpeechStarted {
	return UserSpeechStarted{Base: NewBase(KindUserSpeechStarted)}
}

// UserTranscriptInterimUpdated carries the current interim transcript
// snapshot. Each snapshot replaces the previous one.
type UserTranscriptInterimUpdated struct {
	Base
	Transcript string
}

// NewUserTranscriptInterimUpdated creates an interim transcript updated event.
func NewUserTranscriptInterimUpdated(transcript string) UserTranscriptInterimUpdated {
	return UserTranscriptInterimUpdated{Base: NewBase(KindUserTranscriptInterimUpdated), Transcript: transcript}
}

// UserTranscriptFinal carries the terminal transcript for the utterance.
type UserTranscriptFinal struct {
	Base
	Transcript string
}

// NewUserTranscriptFinal creates a final transcript event.
func NewUserTranscriptFinal(transcript string) UserTranscriptFinal {
	return UserTranscriptFinal{Base: NewBase(KindUserTranscriptFinal), Transcript: transcript}
}

// UserCaptureEnded marks the end of a capture session. Reason names the
// cause: natural, stopped, or error.
type UserCaptureEnded struct {
	Base
	Reason string
}

// NewUserCaptureEnded creates a capture ended event.
func NewUserCaptureEnded(reason string) UserCaptureEnded {
	return UserCaptureEnded{Base: NewBase(KindUserCaptureEnded), Reason: reason}
}
