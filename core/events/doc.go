// Package events defines the typed orchestration event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - conversation.*
//   - timeline.*
//   - user_input.*
//   - assistant_response.*
//   - assistant_playback.*
//   - game.*
//
// conversation events
//
//   - ConversationModeChanged (conversation.mode_changed): the arbiter moved
//     to a new mode.
//
// timeline events
//
//   - TimelineEntryAppended (timeline.entry_appended): a new entry was added
//     to the end of the timeline.
//   - TimelineEntryUpdated (timeline.entry_updated): an existing entry's
//     content changed in place.
//
// user_input events
//
//   - UserSpeechStarted (user_input.speech_started): speech activity began.
//   - UserTranscriptInterimUpdated (user_input.transcript_interim_updated):
//     mutable full-transcript snapshot; each one replaces the previous.
//   - UserTranscriptFinal (user_input.transcript_final): terminal full
//     transcript for the utterance.
//   - UserCaptureEnded (user_input.capture_ended): the capture session is
//     over, whatever the reason.
//
// assistant_response events
//
//   - AssistantResponseSegment (assistant_response.segment): streamed
//     response text segment.
//   - AssistantResponseFinal (assistant_response.final): the response text
//     stream is complete.
//
// assistant_playback events
//
//   - AssistantPlaybackStarted (assistant_playback.started): spoken playback
//     started for an utterance.
//   - AssistantPlaybackEnded (assistant_playback.ended): spoken playback
//     finished or was cancelled.
//
// game events
//
//   - GameStarted (game.started): a game session began.
//   - GameSelectionChanged (game.selection_changed): the selected square
//     changed on the live board.
//   - GameEnded (game.ended): the game session concluded.
package events
