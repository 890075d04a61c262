package tictactoe

import (
	"testing"

	"github.com/srabonm/tandem-core/core/games"
)

func TestDiagonalWinEndsGame(t *testing.T) {
	engine := New()
	engine.cells = [3][3]string{
		{"X", "", ""},
		{"", "X", ""},
		{"", "", ""},
	}

	result := engine.ApplyHumanMove(games.Square{Row: 2, Col: 2})
	if !result.Applied {
		t.Fatalf("expected move on empty cell to apply")
	}

	outcome, over := engine.Outcome()
	if !over {
		t.Fatalf("expected the diagonal to end the game")
	}
	if outcome.Winner != games.SeatHuman || outcome.Method != games.MethodLine {
		t.Fatalf("expected a human line win, got %+v", outcome)
	}

	if applied, _ := engine.ApplyAIMove(); applied {
		t.Fatalf("expected no AI ply after a terminal position")
	}
}

func TestFullBoardWithoutLineIsDraw(t *testing.T) {
	engine := New()
	engine.cells = [3][3]string{
		{"X", "O", "X"},
		{"X", "O", "O"},
		{"O", "X", ""},
	}

	if result := engine.ApplyHumanMove(games.Square{Row: 2, Col: 2}); !result.Applied {
		t.Fatalf("expected the final move to apply")
	}

	outcome, over := engine.Outcome()
	if !over {
		t.Fatalf("expected a full board to end the game")
	}
	if outcome.Winner != "" || outcome.Method != games.MethodDraw {
		t.Fatalf("expected a draw, got %+v", outcome)
	}
}

func TestOccupiedAndOutOfTurnMovesAreRejected(t *testing.T) {
	engine := New()

	if result := engine.ApplyHumanMove(games.Square{Row: 1, Col: 1}); !result.Applied {
		t.Fatalf("expected opening move to apply")
	}
	if result := engine.ApplyHumanMove(games.Square{Row: 0, Col: 0}); result.Applied {
		t.Fatalf("expected out-of-turn human move to be rejected")
	}

	if applied, _ := engine.ApplyAIMove(); !applied {
		t.Fatalf("expected AI ply on its turn")
	}

	if result := engine.ApplyHumanMove(games.Square{Row: 1, Col: 1}); result.Applied {
		t.Fatalf("expected move on occupied cell to be rejected")
	}
	if result := engine.ApplyHumanMove(games.Square{Row: 3, Col: 0}); result.Applied {
		t.Fatalf("expected move outside the grid to be rejected")
	}
}

func TestAIMoveOnlyFillsEmptyCells(t *testing.T) {
	engine := New()
	engine.ApplyHumanMove(games.Square{Row: 0, Col: 0})

	before := engine.Board()
	if applied, _ := engine.ApplyAIMove(); !applied {
		t.Fatalf("expected AI ply to apply")
	}
	after := engine.Board()

	changed := 0
	for row := range after.Cells {
		for col := range after.Cells[row] {
			if before.Cells[row][col] != after.Cells[row][col] {
				changed++
				if before.Cells[row][col] != "" || after.Cells[row][col] != "O" {
					t.Fatalf("expected AI to place O on an empty cell, got %q -> %q",
						before.Cells[row][col], after.Cells[row][col])
				}
			}
		}
	}
	if changed != 1 {
		t.Fatalf("expected exactly one cell to change, got %d", changed)
	}
	if !engine.IsHumanTurn() {
		t.Fatalf("expected the turn to return to the human")
	}
}
