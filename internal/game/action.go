package game

// Direction is one of the four movement directions.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Delta returns the cell offset for the direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ActionType enumerates the inputs the session understands.
type ActionType string

const (
	ActionMove            ActionType = "Move"
	ActionSprint          ActionType = "Sprint"
	ActionJump            ActionType = "Jump"
	ActionAdvance         ActionType = "Advance"
	ActionSelectCharacter ActionType = "SelectCharacter"
	ActionRestart         ActionType = "Restart"
	ActionQuit            ActionType = "Quit"
)

// Action is the tagged input the UI layer dispatches into the session.
// Keeping inputs as data keeps the state machine testable without any
// terminal plumbing.
type Action struct {
	Type      ActionType
	Direction Direction // ActionMove
	Variant   int       // ActionSelectCharacter (1..6)
	SprintOn  bool      // ActionSprint
}

// MoveAction builds a movement action.
func MoveAction(dir Direction) Action {
	return Action{Type: ActionMove, Direction: dir}
}

// SelectAction builds a character selection action.
func SelectAction(variant int) Action {
	return Action{Type: ActionSelectCharacter, Variant: variant}
}

// SprintAction builds a sprint toggle action.
func SprintAction(on bool) Action {
	return Action{Type: ActionSprint, SprintOn: on}
}
