package orchestration

import (
	"context"
	"log"
	"strings"

	"github.com/srabonm/tandem-core/core/events"
	"github.com/srabonm/tandem-core/core/llms"
	"github.com/srabonm/tandem-core/core/timeline"
	"go.opentelemetry.io/otel/codes"
)

// apologyMessage replaces a half-formed reply when the stream fails.
// Partial output is discarded wholesale; a truncated sentence is worse
// than a clear substitution.
const apologyMessage = "Sorry, I ran into a problem answering that. Please try again."

// SendPrompt submits user text for a streamed reply. Legal from Idle or
// Listening (capture is stopped as part of the submit); a no-op
// otherwise. Empty input after trimming is ignored.
func (o *Orchestrator) SendPrompt(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	o.mu.Lock()

	pending := o.stopCaptureLocked()

	if !o.arbiter.beginSending() {
		o.mu.Unlock()
		o.emit(pending)
		return
	}

	playback := o.playback
	o.playback = nil
	o.playbackSeq++

	o.pendingInput = ""

	userEntryID := o.store.Append(timeline.Entry{Speaker: timeline.SpeakerUser, Text: text})
	assistantEntryID := o.store.Append(timeline.Entry{Speaker: timeline.SpeakerAssistant})

	pending = append(pending,
		events.NewConversationModeChanged(string(ModeSending)),
		events.NewTimelineEntryAppended(userEntryID),
		events.NewTimelineEntryAppended(assistantEntryID),
	)

	generation := o.arbiter.Generation()
	ctx := o.baseContext
	o.mu.Unlock()

	if playback != nil {
		o.cancelPlayback(playback)
	}
	o.emit(pending)

	go o.accumulate(ctx, generation, text, assistantEntryID)
}

// accumulate folds the streamed reply into the pending assistant entry
// and resolves the arbiter back to Idle on exhaustion or failure.
func (o *Orchestrator) accumulate(ctx context.Context, generation uint64, prompt, entryID string) {
	ctx, span := tracer.Start(ctx, "accumulate streaming reply")
	defer span.End()

	response, err := o.llm.generate(ctx, prompt, o.historySnapshot(), func(chunk string) {
		o.foldChunk(generation, entryID, chunk)
	})

	o.mu.Lock()
	if o.arbiter.Generation() != generation {
		o.mu.Unlock()
		return
	}

	pending := []events.Event{}
	var finalText string
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Println("Warning: reply stream failed:", err)

		finalText = apologyMessage
		o.store.Replace(entryID, timeline.Entry{
			Speaker: timeline.SpeakerAssistant,
			Text:    apologyMessage,
		})
		pending = append(pending, events.NewTimelineEntryUpdated(entryID))
	} else {
		finalText = response.Content
		userTurn := llms.Turn{Role: llms.RoleUser, Content: prompt, ToolCalls: response.ToolCalls}
		o.turns = append(o.turns, userTurn,
			llms.Turn{Role: llms.RoleAssistant, Content: response.Content})
	}

	o.arbiter.finishSending()
	pending = append(pending,
		events.NewAssistantResponseFinal(finalText),
		events.NewConversationModeChanged(string(ModeIdle)),
	)
	o.mu.Unlock()

	o.emit(pending)

	if finalText != "" {
		o.speak(finalText)
	}
}

// foldChunk appends a stream chunk to the pending entry. Chunks arriving
// after the entry is no longer the tail, or after the sending turn is
// over, are dropped.
func (o *Orchestrator) foldChunk(generation uint64, entryID, chunk string) {
	o.mu.Lock()
	if o.arbiter.Generation() != generation {
		o.mu.Unlock()
		return
	}

	updated := o.store.MutateLast(entryID, func(entry *timeline.Entry) {
		entry.Text += chunk
	})
	o.mu.Unlock()

	if !updated {
		return
	}

	o.emit([]events.Event{
		events.NewTimelineEntryUpdated(entryID),
		events.NewAssistantResponseSegment(chunk),
	})
}

func (o *Orchestrator) historySnapshot() []llms.Turn {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]llms.Turn(nil), o.turns...)
}
