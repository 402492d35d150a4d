package mux

// Action is what a key press asks the session to do.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionSplitHorizontal
	ActionSplitVertical
	ActionSelectPrev
	ActionSelectNext
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionQuit:
		return "quit"
	case ActionSplitHorizontal:
		return "split_horizontal"
	case ActionSplitVertical:
		return "split_vertical"
	case ActionSelectPrev:
		return "select_prev"
	case ActionSelectNext:
		return "select_next"
	default:
		return "unknown"
	}
}
