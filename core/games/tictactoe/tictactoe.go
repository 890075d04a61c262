// Package tictactoe implements the 3x3 game behind the games.Engine
// contract. The human plays X and always moves first; the opponent plays O
// with a uniform-random policy.
package tictactoe

import (
	"math/rand/v2"

	"github.com/srabonm/tandem-core/core/games"
)

const (
	markHuman = "X"
	markAI    = "O"
	size      = 3
)

type Engine struct {
	cells     [size][size]string
	humanTurn bool
	outcome   *games.Outcome
}

func New() *Engine {
	return &Engine{humanTurn: true}
}

func (e *Engine) Kind() games.Kind { return games.KindTicTacToe }

func (e *Engine) Board() games.Board {
	cells := make([][]string, size)
	for row := range e.cells {
		cells[row] = make([]string, size)
		copy(cells[row], e.cells[row][:])
	}
	return games.Board{Kind: games.KindTicTacToe, Cells: cells}
}

func (e *Engine) IsHumanTurn() bool {
	return e.outcome == nil && e.humanTurn
}

func (e *Engine) ApplyHumanMove(square games.Square) games.MoveResult {
	if e.outcome != nil || !e.humanTurn {
		return games.MoveResult{}
	}
	if square.Row < 0 || square.Row >= size || square.Col < 0 || square.Col >= size {
		return games.MoveResult{}
	}
	if e.cells[square.Row][square.Col] != "" {
		return games.MoveResult{}
	}

	e.cells[square.Row][square.Col] = markHuman
	e.humanTurn = false
	e.settle()
	return games.MoveResult{Applied: true}
}

func (e *Engine) ApplyAIMove() (bool, bool) {
	if e.outcome != nil || e.humanTurn {
		return false, false
	}

	open := []games.Square{}
	for row := range e.cells {
		for col := range e.cells[row] {
			if e.cells[row][col] == "" {
				open = append(open, games.Square{Row: row, Col: col})
			}
		}
	}
	if len(open) == 0 {
		return false, false
	}

	square := open[rand.IntN(len(open))]
	e.cells[square.Row][square.Col] = markAI
	e.humanTurn = true
	e.settle()
	return true, false
}

func (e *Engine) Outcome() (games.Outcome, bool) {
	if e.outcome == nil {
		return games.Outcome{}, false
	}
	return *e.outcome, true
}

func (e *Engine) DescribeOutcome(outcome games.Outcome) string {
	switch {
	case outcome.Winner == games.SeatHuman:
		return "You win! Well played."
	case outcome.Winner == games.SeatAI:
		return "I win this time. Rematch?"
	default:
		return "It's a draw."
	}
}

// settle records the outcome once a line is completed or the board fills.
func (e *Engine) settle() {
	if mark, ok := e.winningMark(); ok {
		winner := games.SeatAI
		if mark == markHuman {
			winner = games.SeatHuman
		}
		e.outcome = &games.Outcome{Winner: winner, Method: games.MethodLine}
		return
	}

	for row := range e.cells {
		for col := range e.cells[row] {
			if e.cells[row][col] == "" {
				return
			}
		}
	}
	e.outcome = &games.Outcome{Method: games.MethodDraw}
}

func (e *Engine) winningMark() (string, bool) {
	lines := [][3]games.Square{}
	for i := range size {
		lines = append(lines,
			[3]games.Square{{Row: i, Col: 0}, {Row: i, Col: 1}, {Row: i, Col: 2}},
			[3]games.Square{{Row: 0, Col: i}, {Row: 1, Col: i}, {Row: 2, Col: i}},
		)
	}
	lines = append(lines,
		[3]games.Square{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}},
		[3]games.Square{{Row: 0, Col: 2}, {Row: 1, Col: 1}, {Row: 2, Col: 0}},
	)

	for _, line := range lines {
		mark := e.cells[line[0].Row][line[0].Col]
		if mark == "" {
			continue
		}
		if e.cells[line[1].Row][line[1].Col] == mark && e.cells[line[2].Row][line[2].Col] == mark {
			return mark, true
		}
	}
	return "", false
}
