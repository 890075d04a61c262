package events

const (
	// KindAssistantPlaybackStarted identifies playback start for an utterance.
	KindAssistantPlaybackStarted Kind = "assistant_playback.started"
	// KindAssistantPlaybackEnded identifies the playback completion milestone.
	KindAssistantPlaybackEnded Kind = "assistant_playback.ended"
)

// AssistantPlaybackStarted marks the start of spoken playback.
type AssistantPlaybackStarted struct {
	Base
	Text string
}

// NewAssistantPlaybackStarted creates an assistant playback started event.
func NewAssistantPlaybackStarted(text string) AssistantPlaybackStarted {
	return AssistantPlaybackStarted{Base: NewBase(KindAssistantPlaybackStarted), Text: text}
}

// AssistantPlaybackEnded marks the end of spoken playback. Cancelled is
// true when the playback was preempted rather than played out.
type AssistantPlaybackEnded struct {
	Base
	Cancelled bool
}

// NewAssistantPlaybackEnded creates an assistant playback ended event.
func NewAssistantPlaybackEnded(cancelled bool) AssistantPlaybackEnded {
	return AssistantPlaybackEnded{Base: NewBase(KindAssistantPlaybackEnded), Cancelled: cancelled}
}
