package orchestration

import "github.com/srabonm/tandem-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts OrchestrateOptions) eventEmitter {
	return func(event events.Event) {
		if opts.onEvent != nil {
			opts.onEvent(event)
		}

		switch typedEvent := event.(type) {
		case events.ConversationModeChanged:
			if opts.onModeChanged != nil {
				opts.onModeChanged(Mode(typedEvent.Mode))
			}
		case events.TimelineEntryAppended:
			if opts.onTimelineChanged != nil {
				opts.onTimelineChanged(typedEvent.EntryID)
			}
		case events.TimelineEntryUpdated:
			if opts.onTimelineChanged != nil {
				opts.onTimelineChanged(typedEvent.EntryID)
			}
		case events.UserTranscriptInterimUpdated:
			if opts.onInterimTranscription != nil {
				opts.onInterimTranscription(typedEvent.Transcript)
			}
		case events.UserTranscriptFinal:
			if opts.onTranscription != nil {
				opts.onTranscription(typedEvent.Transcript)
			}
		case events.AssistantResponseSegment:
			if opts.onResponse != nil {
				opts.onResponse(typedEvent.Segment)
			}
		case events.AssistantResponseFinal:
			if opts.onResponseEnd != nil {
				opts.onResponseEnd()
			}
		case events.AssistantPlaybackEnded:
			if opts.onPlaybackEnded != nil {
				opts.onPlaybackEnded(typedEvent.Cancelled)
			}
		}
	}
}
