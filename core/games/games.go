// Package games defines the closed set of embedded turn-based games and
// the uniform engine contract the orchestration core drives them through.
package games

import "fmt"

type Kind string

const (
	KindTicTacToe Kind = "tic-tac-toe"
	KindChess     Kind = "chess"
)

type Seat string

const (
	SeatHuman Seat = "human"
	SeatAI    Seat = "ai"
)

type Method string

const (
	MethodLine                 Method = "line"
	MethodDraw                 Method = "draw"
	MethodCheckmate            Method = "checkmate"
	MethodStalemate            Method = "stalemate"
	MethodThreefoldRepetition  Method = "threefold_repetition"
	MethodInsufficientMaterial Method = "insufficient_material"
)

// Outcome is a terminal game result. Winner is empty on draws.
type Outcome struct {
	Winner Seat
	Method Method
}

// Board is an immutable snapshot of a position. Cells holds display glyphs
// row-major from the top of the board; for chess, FEN carries the full
// serialized position alongside.
type Board struct {
	Kind  Kind
	Cells [][]string
	FEN   string
}

// MoveResult reports how a human click resolved. A click that is not a
// legal move never mutates game state; for chess it may instead move the
// square selection, surfaced through Selection (nil clears it).
type MoveResult struct {
	Applied   bool
	Check     bool
	Selection *Square
}

type Square struct {
	Row int
	Col int
}

// Engine runs exactly one game to completion, alternating human and AI
// plies. Implementations are not safe for concurrent use; the session
// controller serializes access.
type Engine interface {
	Kind() Kind
	// Board returns a fresh snapshot of the current position.
	Board() Board
	IsHumanTurn() bool
	// ApplyHumanMove resolves a clicked square against the live position.
	ApplyHumanMove(square Square) MoveResult
	// ApplyAIMove plays a uniform-random legal move for the opponent.
	// Check reports whether the move leaves the human in check.
	ApplyAIMove() (applied bool, check bool)
	// Outcome reports the terminal result, if the game is over.
	Outcome() (Outcome, bool)
	DescribeOutcome(outcome Outcome) string
}

// ErrUnknownKind is returned when a game kind outside the closed set is
// requested.
var ErrUnknownKind = fmt.Errorf("unknown game kind")
