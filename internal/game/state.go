package game

// Outcome is the session-level result flag.
type Outcome int

const (
	// OutcomeNone - the run is still going.
	OutcomeNone Outcome = iota
	// OutcomeVictory - every enemy has been defeated.
	OutcomeVictory
	// OutcomeGameOver - the player has been defeated.
	OutcomeGameOver
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeVictory:
		return "victory"
	case OutcomeGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Terminal returns true once the run has ended either way. After a
// terminal outcome only Restart and Quit are accepted.
func (o Outcome) Terminal() bool {
	return o != OutcomeNone
}

// MoveOutcome reports what a movement attempt did.
type MoveOutcome int

const (
	// MoveIgnored - session over or combat active; input dropped.
	MoveIgnored MoveOutcome = iota
	// MoveDone - the player occupies the new cell.
	MoveDone
	// MoveBlocked - terrain or another entity stopped the move.
	MoveBlocked
	// MoveEngaged - the move hit a live enemy and became a combat
	// trigger instead of a position change.
	MoveEngaged
)

// String returns the outcome name.
func (m MoveOutcome) String() string {
	switch m {
	case MoveIgnored:
		return "ignored"
	case MoveDone:
		return "moved"
	case MoveBlocked:
		return "blocked"
	case MoveEngaged:
		return "engaged"
	default:
		return "unknown"
	}
}
