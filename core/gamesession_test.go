package orchestration

import (
	"context"
	"testing"
	"time"

	"github.com/srabonm/tandem-core/core/games"
	"github.com/srabonm/tandem-core/core/timeline"
)

type engineStub struct {
	kind      games.Kind
	humanTurn bool
	result    games.MoveResult
	aiCheck   bool
	over      bool
	outcome   games.Outcome
	narration string
}

func (e *engineStub) Kind() games.Kind { return e.kind }
func (e *engineStub) Board() games.Board {
	return games.Board{Kind: e.kind, Cells: [][]string{{""}}}
}
func (e *engineStub) IsHumanTurn() bool { return e.humanTurn }
func (e *engineStub) ApplyHumanMove(games.Square) games.MoveResult {
	return e.result
}
func (e *engineStub) ApplyAIMove() (bool, bool)      { return true, e.aiCheck }
func (e *engineStub) Outcome() (games.Outcome, bool) { return e.outcome, e.over }

func (e *engineStub) DescribeOutcome(games.Outcome) string { return e.narration }

func newGameTestOrchestrator() *Orchestrator {
	// A pacing delay the tests never wait out; AI plies are invoked
	// directly with a captured generation instead.
	return NewOrchestrator(
		WithStreamingLLM(&llmClientStub{stream: &streamStub{}}),
		WithAIMoveDelay(time.Hour),
	)
}

func TestStartGameAppendsIntroAndBoard(t *testing.T) {
	o := newGameTestOrchestrator()
	o.Orchestrate(context.Background())

	if err := o.StartGame(games.KindTicTacToe); err != nil {
		t.Fatalf("expected game to start, got %v", err)
	}

	if o.Mode() != ModeGameActive {
		t.Fatalf("expected mode game active, got %v", o.Mode())
	}
	if kind, ok := o.ActiveGameKind(); !ok || kind != games.KindTicTacToe {
		t.Fatalf("expected active tic-tac-toe game, got %v %t", kind, ok)
	}

	entries := o.Timeline()
	if len(entries) != 2 {
		t.Fatalf("expected intro and board entries, got %d", len(entries))
	}
	if entries[0].Widget != nil || entries[0].Text == "" {
		t.Fatalf("expected a text intro first, got %+v", entries[0])
	}
	if entries[1].Widget == nil {
		t.Fatalf("expected a board widget second, got %+v", entries[1])
	}
	if entries[1].Widget.HandleClick == nil {
		t.Fatalf("expected the board widget to carry a move handler")
	}
}

func TestStartGameRejectsUnknownKind(t *testing.T) {
	o := newGameTestOrchestrator()
	o.Orchestrate(context.Background())

	if err := o.StartGame(games.Kind("checkers")); err == nil {
		t.Fatalf("expected an error for an unknown game kind")
	}
	if o.Mode() != ModeIdle {
		t.Fatalf("expected mode to stay idle, got %v", o.Mode())
	}
}

func TestStartGameRefusedWhileAnotherIsActive(t *testing.T) {
	o := newGameTestOrchestrator()
	o.Orchestrate(context.Background())

	if err := o.StartGame(games.KindTicTacToe); err != nil {
		t.Fatalf("expected first game to start, got %v", err)
	}
	entryCount := o.store.Len()

	if err := o.StartGame(games.KindChess); err != nil {
		t.Fatalf("expected second start to be a silent no-op, got %v", err)
	}

	if kind, _ := o.ActiveGameKind(); kind != games.KindTicTacToe {
		t.Fatalf("expected the original game to stay active, got %v", kind)
	}
	if o.store.Len() != entryCount {
		t.Fatalf("expected no new entries, got %d", o.store.Len()-entryCount)
	}
}

func TestHumanMoveAppendsBoardAndSchedulesAIPly(t *testing.T) {
	o := newGameTestOrchestrator()
	o.Orchestrate(context.Background())

	if err := o.StartGame(games.KindTicTacToe); err != nil {
		t.Fatalf("expected game to start, got %v", err)
	}
	entryCount := o.store.Len()

	o.ClickSquare(1, 1)

	if o.store.Len() != entryCount+1 {
		t.Fatalf("expected one board entry for the ply, got %d new", o.store.Len()-entryCount)
	}
	last, _ := o.store.Last()
	if last.Widget == nil || last.Widget.Cells[1][1] != "X" {
		t.Fatalf("expected the new board to carry the human mark, got %+v", last.Widget)
	}

	o.mu.Lock()
	timerArmed := o.game != nil && o.game.aiTimer != nil
	o.mu.Unlock()
	if !timerArmed {
		t.Fatalf("expected an AI ply to be scheduled")
	}
}

func TestAIPlyRunsWhenGenerationStillCurrent(t *testing.T) {
	o := newGameTestOrchestrator()
	o.Orchestrate(context.Background())

	if err := o.StartGame(games.KindTicTacToe); err != nil {
		t.Fatalf("expected game to start, got %v", err)
	}

	o.ClickSquare(0, 0)
	o.mu.Lock()
	generation := o.game.generation
	o.mu.Unlock()
	entryCount := o.store.Len()

	o.aiPly(generation)

	if o.store.Len() != entryCount+1 {
		t.Fatalf("expected the AI ply to append one board entry, got %d new", o.store.Len()-entryCount)
	}
	last, _ := o.store.Last()
	marks := 0
	for _, row := range last.Widget.Cells {
		for _, cell := range row {
			if cell == "O" {
				marks++
			}
		}
	}
	if marks != 1 {
		t.Fatalf("expected exactly one opponent mark, got %d", marks)
	}
}

func TestAIPlyAnnotatesCheck(t *testing.T) {
	o := newGameTestOrchestrator()
	o.Orchestrate(context.Background())

	if err := o.StartGame(games.KindChess); err != nil {
		t.Fatalf("expected game to start, got %v", err)
	}

	o.mu.Lock()
	o.game.engine = &engineStub{kind: games.KindChess, aiCheck: true}
	generation := o.game.generation
	o.mu.Unlock()
	entryCount := o.store.Len()

	o.aiPly(generation)

	if o.store.Len() != entryCount+1 {
		t.Fatalf("expected one board entry for the ply, got %d new", o.store.Len()-entryCount)
	}
	last, _ := o.store.Last()
	if last.Widget == nil {
		t.Fatalf("expected the ply to append a board widget, got %+v", last)
	}
	if last.Text != "Check." {
		t.Fatalf("expected the board entry to announce check, got %q", last.Text)
	}
}

func TestForfeitAppendsOneConclusionAndInvalidatesAIPly(t *testing.T) {
	o := newGameTestOrchestrator()
	o.Orchestrate(context.Background())

	if err := o.StartGame(games.KindTicTacToe); err != nil {
		t.Fatalf("expected game to start, got %v", err)
	}

	o.ClickSquare(0, 0)
	o.mu.Lock()
	generation := o.game.generation
	o.mu.Unlock()

	entryCount := o.store.Len()
	o.ForfeitGame()

	if o.Mode() != ModeIdle {
		t.Fatalf("expected mode idle after forfeit, got %v", o.Mode())
	}
	if o.store.Len() != entryCount+1 {
		t.Fatalf("expected exactly one concluding entry, got %d new", o.store.Len()-entryCount)
	}
	last, _ := o.store.Last()
	if last.Text != forfeitNarration {
		t.Fatalf("expected forfeit narration, got %q", last.Text)
	}

	// The in-flight scheduled ply fires against the torn-down game and
	// must be a no-op.
	o.aiPly(generation)

	if o.store.Len() != entryCount+1 {
		t.Fatalf("expected the stale AI ply to be dropped, got %d entries", o.store.Len())
	}
	if o.Mode() != ModeIdle {
		t.Fatalf("expected mode to stay idle, got %v", o.Mode())
	}
}

func TestForfeitWithoutGameIsNoOp(t *testing.T) {
	o := newGameTestOrchestrator()
	o.Orchestrate(context.Background())

	o.ForfeitGame()

	if o.store.Len() != 0 {
		t.Fatalf("expected no entries, got %d", o.store.Len())
	}
	if o.Mode() != ModeIdle {
		t.Fatalf("expected mode idle, got %v", o.Mode())
	}
}

func TestTerminalHumanMoveConcludesGame(t *testing.T) {
	o := newGameTestOrchestrator()
	o.Orchestrate(context.Background())

	if err := o.StartGame(games.KindTicTacToe); err != nil {
		t.Fatalf("expected game to start, got %v", err)
	}

	stub := &engineStub{
		kind:      games.KindTicTacToe,
		humanTurn: true,
		result:    games.MoveResult{Applied: true},
		over:      true,
		outcome:   games.Outcome{Winner: games.SeatHuman, Method: games.MethodLine},
		narration: "You win! Well played.",
	}
	o.mu.Lock()
	o.game.engine = stub
	o.mu.Unlock()
	entryCount := o.store.Len()

	o.ClickSquare(0, 0)

	if o.Mode() != ModeIdle {
		t.Fatalf("expected mode idle after terminal move, got %v", o.Mode())
	}
	if _, ok := o.ActiveGameKind(); ok {
		t.Fatalf("expected the game state to be destroyed")
	}
	if o.store.Len() != entryCount+2 {
		t.Fatalf("expected board and narration entries, got %d new", o.store.Len()-entryCount)
	}
	last, _ := o.store.Last()
	if last.Text != stub.narration {
		t.Fatalf("expected narrated result, got %q", last.Text)
	}
}

func TestClickIgnoredWithoutGame(t *testing.T) {
	o := newGameTestOrchestrator()
	o.Orchestrate(context.Background())

	o.ClickSquare(0, 0)

	if o.store.Len() != 0 {
		t.Fatalf("expected no entries, got %d", o.store.Len())
	}
}

func TestRejectedMoveAppendsNothing(t *testing.T) {
	o := newGameTestOrchestrator()
	o.Orchestrate(context.Background())

	if err := o.StartGame(games.KindTicTacToe); err != nil {
		t.Fatalf("expected game to start, got %v", err)
	}

	o.ClickSquare(1, 1)
	entryCount := o.store.Len()

	// Out of turn: the AI ply has not run yet.
	o.ClickSquare(0, 0)

	if o.store.Len() != entryCount {
		t.Fatalf("expected the out-of-turn click to be rejected, got %d new", o.store.Len()-entryCount)
	}
}

func TestBoardWidgetsAreImmutableSnapshots(t *testing.T) {
	o := newGameTestOrchestrator()
	o.Orchestrate(context.Background())

	if err := o.StartGame(games.KindTicTacToe); err != nil {
		t.Fatalf("expected game to start, got %v", err)
	}

	var initialBoard timeline.Entry
	for _, entry := range o.Timeline() {
		if entry.Widget != nil {
			initialBoard = entry
		}
	}

	o.ClickSquare(1, 1)

	refreshed, _ := o.store.Entry(initialBoard.ID)
	if refreshed.Widget.Cells[1][1] != "" {
		t.Fatalf("expected the earlier board snapshot to stay as it was, got %q", refreshed.Widget.Cells[1][1])
	}
}
