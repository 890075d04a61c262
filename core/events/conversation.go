package events

const (
	// KindConversationModeChanged identifies arbiter mode transitions.
	KindConversationModeChanged Kind = "conversation.mode_changed"
)

// ConversationModeChanged marks a transition of the turn arbiter.
type ConversationModeChanged struct {
	Base
	Mode string
}

// NewConversationModeChanged creates a conversation mode changed event.
func NewConversationModeChanged(mode string) ConversationModeChanged {
	return ConversationModeChanged{Base: NewBase(KindConversationModeChanged), Mode: mode}
}
