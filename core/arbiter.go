package orchestration

// Mode is the arbiter's answer to "what may happen next". Exactly one
// mode holds at any instant.
type Mode string

const (
	ModeIdle       Mode = "idle"
	ModeSending    Mode = "sending"
	ModeListening  Mode = "listening"
	ModeGameActive Mode = "game_active"
)

// turnArbiter is the single source of truth for legal intents. Methods
// must be called with the orchestrator's session lock held; the lock is
// what serializes the asynchronous event sources.
//
// The generation counter increments on every exclusive-mode transition.
// Deferred callbacks capture the generation at scheduling time and no-op
// when it no longer matches, which is how stale stream chunks, expired
// game timers, and late capture-end events are discarded.
type turnArbiter struct {
	mode       Mode
	generation uint64
}

func newTurnArbiter() turnArbiter {
	return turnArbiter{mode: ModeIdle}
}

func (a *turnArbiter) Mode() Mode         { return a.mode }
func (a *turnArbiter) Generation() uint64 { return a.generation }

// transition moves to the target mode if the current mode matches the
// origin. An illegal transition is a no-op, never an error.
func (a *turnArbiter) transition(from, to Mode) bool {
	if a.mode != from {
		return false
	}

	a.mode = to
	a.generation++
	return true
}

func (a *turnArbiter) beginSending() bool   { return a.transition(ModeIdle, ModeSending) }
func (a *turnArbiter) finishSending() bool  { return a.transition(ModeSending, ModeIdle) }
func (a *turnArbiter) beginListening() bool { return a.transition(ModeIdle, ModeListening) }
func (a *turnArbiter) finishListening() bool {
	return a.transition(ModeListening, ModeIdle)
}
func (a *turnArbiter) beginGame() bool { return a.transition(ModeIdle, ModeGameActive) }
func (a *turnArbiter) endGame() bool   { return a.transition(ModeGameActive, ModeIdle) }
