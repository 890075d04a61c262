package events

const (
	// KindGameStarted identifies the start of a game session.
	KindGameStarted Kind = "game.started"
	// KindGameSelectionChanged identifies a change of the selected square.
	KindGameSelectionChanged Kind = "game.selection_changed"
	// KindGameEnded identifies the conclusion of a game session.
	KindGameEnded Kind = "game.ended"
)

// GameStarted marks the beginning of a game session.
type GameStarted struct {
	Base
	Game string
}

// NewGameStarted creates a game started event.
func NewGameStarted(game string) GameStarted {
	return GameStarted{Base: NewBase(KindGameStarted), Game: game}
}

// GameSelectionChanged marks a change of the selected square on the live
// board. Row and Col are -1 when the selection was cleared.
type GameSelectionChanged struct {
	Base
	Row int
	Col int
}

// NewGameSelectionChanged creates a game selection changed event.
func NewGameSelectionChanged(row, col int) GameSelectionChanged {
	return GameSelectionChanged{Base: NewBase(KindGameSelectionChanged), Row: row, Col: col}
}

// GameEnded marks the conclusion of a game session. Reason names the
// cause: outcome or forfeit.
type GameEnded struct {
	Base
	Game   string
	Reason string
}

// NewGameEnded creates a game ended event.
func NewGameEnded(game, reason string) GameEnded {
	return GameEnded{Base: NewBase(KindGameEnded), Game: game, Reason: reason}
}
