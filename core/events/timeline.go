package events

const (
	// KindTimelineEntryAppended identifies an entry added at the timeline tail.
	KindTimelineEntryAppended Kind = "timeline.entry_appended"
	// KindTimelineEntryUpdated identifies an in-place entry content change.
	KindTimelineEntryUpdated Kind = "timeline.entry_updated"
)

// TimelineEntryAppended marks a new entry at the end of the timeline.
type TimelineEntryAppended struct {
	Base
	EntryID string
}

// NewTimelineEntryAppended creates a timeline entry appended event.
func NewTimelineEntryAppended(entryID string) TimelineEntryAppended {
	return TimelineEntryAppended{Base: NewBase(KindTimelineEntryAppended), EntryID: entryID}
}

// TimelineEntryUpdated marks an in-place change of an existing entry.
type TimelineEntryUpdated struct {
	Base
	EntryID string
}

// NewTimelineEntryUpdated creates a timeline entry updated event.
func NewTimelineEntryUpdated(entryID string) TimelineEntryUpdated {
	return TimelineEntryUpdated{Base: NewBase(KindTimelineEntryUpdated), EntryID: entryID}
}
