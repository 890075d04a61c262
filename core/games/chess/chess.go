// Package chess adapts the notnil/chess rules engine to the games.Engine
// contract. The human plays white; the opponent plays black with a
// uniform-random policy. Legality, terminal-state detection and check
// detection are delegated to the rules engine.
package chess

import (
	"math/rand/v2"

	rules "github.com/notnil/chess"
	"github.com/srabonm/tandem-core/core/games"
)

type Engine struct {
	game *rules.Game

	// selection is the square the human has picked a piece from, if any.
	// It is presentation convenience layered on top of the rules engine
	// and never affects the position.
	selection *games.Square
}

func New() *Engine {
	return &Engine{game: rules.NewGame()}
}

func (e *Engine) Kind() games.Kind { return games.KindChess }

func (e *Engine) Board() games.Board {
	board := e.game.Position().Board()
	cells := make([][]string, 8)
	for row := range cells {
		cells[row] = make([]string, 8)
		for col := range cells[row] {
			cells[row][col] = glyph(board.Piece(squareAt(games.Square{Row: row, Col: col})))
		}
	}
	return games.Board{Kind: games.KindChess, Cells: cells, FEN: e.game.Position().String()}
}

func (e *Engine) IsHumanTurn() bool {
	if _, over := e.Outcome(); over {
		return false
	}
	return e.game.Position().Turn() == rules.White
}

// ApplyHumanMove treats the click as a move when a piece is already
// selected and the move is legal, and as a (re)selection otherwise: a
// square holding one of the human's pieces becomes the new selection, any
// other square clears it.
func (e *Engine) ApplyHumanMove(square games.Square) games.MoveResult {
	if !e.IsHumanTurn() {
		return games.MoveResult{Selection: e.selection}
	}
	if square.Row < 0 || square.Row >= 8 || square.Col < 0 || square.Col >= 8 {
		return games.MoveResult{Selection: e.selection}
	}

	if e.selection == nil {
		if e.holdsHumanPiece(square) {
			e.selection = &square
		}
		return games.MoveResult{Selection: e.selection}
	}

	if move := e.legalMove(*e.selection, square); move != nil {
		if err := e.game.Move(move); err != nil {
			// The move came from ValidMoves, so this only happens if the
			// position changed underneath us; treat it as a rejection.
			return games.MoveResult{Selection: e.selection}
		}
		e.selection = nil
		return games.MoveResult{Applied: true, Check: move.HasTag(rules.Check)}
	}

	if e.holdsHumanPiece(square) {
		e.selection = &square
	} else {
		e.selection = nil
	}
	return games.MoveResult{Selection: e.selection}
}

func (e *Engine) ApplyAIMove() (bool, bool) {
	if _, over := e.Outcome(); over {
		return false, false
	}
	if e.game.Position().Turn() != rules.Black {
		return false, false
	}

	moves := e.game.ValidMoves()
	if len(moves) == 0 {
		return false, false
	}

	move := moves[rand.IntN(len(moves))]
	if err := e.game.Move(move); err != nil {
		return false, false
	}
	return true, move.HasTag(rules.Check)
}

func (e *Engine) Outcome() (games.Outcome, bool) {
	if e.game.Outcome() == rules.NoOutcome {
		return games.Outcome{}, false
	}

	outcome := games.Outcome{}
	switch e.game.Outcome() {
	case rules.WhiteWon:
		outcome.Winner = games.SeatHuman
	case rules.BlackWon:
		outcome.Winner = games.SeatAI
	}

	switch e.game.Method() {
	case rules.Checkmate:
		outcome.Method = games.MethodCheckmate
	case rules.Stalemate:
		outcome.Method = games.MethodStalemate
	case rules.ThreefoldRepetition, rules.FivefoldRepetition:
		outcome.Method = games.MethodThreefoldRepetition
	case rules.InsufficientMaterial:
		outcome.Method = games.MethodInsufficientMaterial
	default:
		outcome.Method = games.MethodDraw
	}
	return outcome, true
}

func (e *Engine) DescribeOutcome(outcome games.Outcome) string {
	switch outcome.Method {
	case games.MethodCheckmate:
		if outcome.Winner == games.SeatHuman {
			return "Checkmate! You win. Impressive."
		}
		return "Checkmate! I win this one."
	case games.MethodStalemate:
		return "Stalemate. It's a draw."
	case games.MethodThreefoldRepetition:
		return "Draw by threefold repetition."
	case games.MethodInsufficientMaterial:
		return "Draw by insufficient material."
	default:
		return "It's a draw."
	}
}

func (e *Engine) holdsHumanPiece(square games.Square) bool {
	piece := e.game.Position().Board().Piece(squareAt(square))
	return piece != rules.NoPiece && piece.Color() == rules.White
}

// legalMove finds the legal move between the squares, defaulting promotion
// to a queen when the pawn reaches the back rank.
func (e *Engine) legalMove(from, to games.Square) *rules.Move {
	s1, s2 := squareAt(from), squareAt(to)
	var fallback *rules.Move
	for _, move := range e.game.ValidMoves() {
		if move.S1() != s1 || move.S2() != s2 {
			continue
		}
		switch move.Promo() {
		case rules.NoPieceType, rules.Queen:
			return move
		default:
			fallback = move
		}
	}
	return fallback
}

// squareAt maps grid coordinates (row 0 = rank 8, col 0 = file a) to the
// rules engine's square numbering (a1 = 0).
func squareAt(square games.Square) rules.Square {
	return rules.Square((7-square.Row)*8 + square.Col)
}

var glyphs = map[rules.Piece]string{
	rules.WhiteKing: "♔", rules.WhiteQueen: "♕", rules.WhiteRook: "♖",
	rules.WhiteBishop: "♗", rules.WhiteKnight: "♘", rules.WhitePawn: "♙",
	rules.BlackKing: "♚", rules.BlackQueen: "♛", rules.BlackRook: "♜",
	rules.BlackBishop: "♝", rules.BlackKnight: "♞", rules.BlackPawn: "♟",
}

func glyph(piece rules.Piece) string {
	return glyphs[piece]
}
