package orchestration

import (
	"fmt"
	"time"

	"github.com/srabonm/tandem-core/core/events"
	"github.com/srabonm/tandem-core/core/games"
	"github.com/srabonm/tandem-core/core/games/chess"
	"github.com/srabonm/tandem-core/core/games/tictactoe"
	"github.com/srabonm/tandem-core/core/timeline"
)

const forfeitNarration = "Game over, you forfeited. Up for another round sometime?"

// gameSession is the one live game. At most one exists system-wide; it is
// destroyed synchronously on conclusion or forfeit.
type gameSession struct {
	engine games.Engine
	// generation is the arbiter generation captured when the game began.
	// A scheduled AI ply re-checks it on fire and no-ops when the game it
	// was scheduled for is gone.
	generation uint64
	aiTimer    *time.Timer
}

func (g *gameSession) stopTimer() {
	if g.aiTimer != nil {
		g.aiTimer.Stop()
		g.aiTimer = nil
	}
}

func newEngine(kind games.Kind) (games.Engine, error) {
	switch kind {
	case games.KindTicTacToe:
		return tictactoe.New(), nil
	case games.KindChess:
		return chess.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", games.ErrUnknownKind, kind)
	}
}

func gameIntro(kind games.Kind) string {
	switch kind {
	case games.KindTicTacToe:
		return "Let's play tic-tac-toe! You're X and you go first. Tap a square to move."
	case games.KindChess:
		return "Let's play chess! You're white. Tap a piece, then tap where to move it."
	}
	return ""
}

// StartGame begins a game session of the given kind. Only legal from
// Idle; otherwise a no-op. Starting a game preempts any playback.
func (o *Orchestrator) StartGame(kind games.Kind) error {
	engine, err := newEngine(kind)
	if err != nil {
		return err
	}

	o.mu.Lock()
	if !o.arbiter.beginGame() {
		o.mu.Unlock()
		return nil
	}

	o.game = &gameSession{engine: engine, generation: o.arbiter.Generation()}

	playback := o.playback
	o.playback = nil
	o.playbackSeq++

	introID := o.store.Append(timeline.Entry{
		Speaker: timeline.SpeakerAssistant,
		Text:    gameIntro(kind),
	})
	boardID := o.appendBoardLocked("")

	pending := []events.Event{
		events.NewConversationModeChanged(string(ModeGameActive)),
		events.NewGameStarted(string(kind)),
		events.NewTimelineEntryAppended(introID),
		events.NewTimelineEntryAppended(boardID),
	}
	o.mu.Unlock()

	if playback != nil {
		o.cancelPlayback(playback)
	}
	o.emit(pending)
	return nil
}

// appendBoardLocked appends a board-widget entry carrying an immutable
// snapshot of the current position. text optionally annotates the entry.
func (o *Orchestrator) appendBoardLocked(text string) string {
	board := o.game.engine.Board()
	return o.store.Append(timeline.Entry{
		Speaker: timeline.SpeakerAssistant,
		Text:    text,
		Widget: &timeline.Widget{
			Game:        string(board.Kind),
			Cells:       board.Cells,
			HandleClick: o.ClickSquare,
		},
	})
}

// ClickSquare resolves a board click against the live game. Clicks routed
// through superseded board snapshots land here too and validate against
// the current position, so a stale board can never corrupt the game.
func (o *Orchestrator) ClickSquare(row, col int) {
	o.mu.Lock()
	if o.game == nil || !o.game.engine.IsHumanTurn() {
		o.mu.Unlock()
		return
	}

	result := o.game.engine.ApplyHumanMove(games.Square{Row: row, Col: col})
	if !result.Applied {
		isChess := o.game.engine.Kind() == games.KindChess
		o.mu.Unlock()

		if isChess {
			if result.Selection != nil {
				o.emit([]events.Event{events.NewGameSelectionChanged(result.Selection.Row, result.Selection.Col)})
			} else {
				o.emit([]events.Event{events.NewGameSelectionChanged(-1, -1)})
			}
		}
		return
	}

	boardID := o.appendBoardLocked("")
	pending := []events.Event{events.NewTimelineEntryAppended(boardID)}
	if o.game.engine.Kind() == games.KindChess {
		pending = append(pending, events.NewGameSelectionChanged(-1, -1))
	}

	var speakText string
	if outcome, over := o.game.engine.Outcome(); over {
		endEvents, narration := o.concludeGameLocked(outcome)
		pending = append(pending, endEvents...)
		speakText = narration
	} else {
		o.scheduleAIPlyLocked()
	}
	o.mu.Unlock()

	o.emit(pending)
	if speakText != "" {
		o.speak(speakText)
	}
}

// scheduleAIPlyLocked arms the pacing timer for the opponent's move. The
// delay is deliberate so the AI ply reads as a discrete turn.
func (o *Orchestrator) scheduleAIPlyLocked() {
	generation := o.game.generation
	o.game.aiTimer = time.AfterFunc(o.aiMoveDelay, func() {
		o.aiPly(generation)
	})
}

// aiPly plays the opponent's move. It no-ops when the game it was
// scheduled for has been forfeited or concluded.
func (o *Orchestrator) aiPly(generation uint64) {
	o.mu.Lock()
	if o.game == nil || o.game.generation != generation {
		o.mu.Unlock()
		return
	}

	applied, check := o.game.engine.ApplyAIMove()
	if !applied {
		o.mu.Unlock()
		return
	}

	text := ""
	if check {
		text = "Check."
	}
	boardID := o.appendBoardLocked(text)
	pending := []events.Event{events.NewTimelineEntryAppended(boardID)}

	var speakText string
	if outcome, over := o.game.engine.Outcome(); over {
		endEvents, narration := o.concludeGameLocked(outcome)
		pending = append(pending, endEvents...)
		speakText = narration
	}
	o.mu.Unlock()

	o.emit(pending)
	if speakText != "" {
		o.speak(speakText)
	}
}

func (o *Orchestrator) concludeGameLocked(outcome games.Outcome) ([]events.Event, string) {
	narration := o.game.engine.DescribeOutcome(outcome)
	return o.endGameLocked(narration, "outcome"), narration
}

// endGameLocked destroys the live game and appends the single concluding
// narration entry.
func (o *Orchestrator) endGameLocked(narration, reason string) []events.Event {
	kind := o.game.engine.Kind()
	o.game.stopTimer()
	o.game = nil
	o.arbiter.endGame()

	entryID := o.store.Append(timeline.Entry{
		Speaker: timeline.SpeakerAssistant,
		Text:    narration,
	})

	return []events.Event{
		events.NewTimelineEntryAppended(entryID),
		events.NewGameEnded(string(kind), reason),
		events.NewConversationModeChanged(string(ModeIdle)),
	}
}

// ForfeitGame ends the live game immediately, regardless of whose turn it
// is. Any scheduled AI ply is invalidated.
func (o *Orchestrator) ForfeitGame() {
	o.mu.Lock()
	if o.game == nil {
		o.mu.Unlock()
		return
	}
	pending := o.endGameLocked(forfeitNarration, "forfeit")
	o.mu.Unlock()

	o.emit(pending)
	o.speak(forfeitNarration)
}
