package tui

// ConsoleState is the state of the command console.
type ConsoleState int

const (
	StateIdle    ConsoleState = iota // Waiting for input
	StateSending                     // At least one command in flight
	StateFailed                      // Last command returned an error
)

// validTransitions defines the allowed ConsoleState transitions.
var validTransitions = map[ConsoleState][]ConsoleState{
	StateIdle:    {StateSending},
	StateSending: {StateIdle, StateFailed},
	StateFailed:  {StateSending, StateIdle},
}

// CanTransitionTo reports whether transitioning from s to next is valid.
func (s ConsoleState) CanTransitionTo(next ConsoleState) bool {
	for _, valid := range validTransitions[s] {
		if valid == next {
			return true
		}
	}
	return false
}

// Label returns a short uppercase label for the state.
func (s ConsoleState) Label() string {
	switch s {
	case StateIdle:
		return "READY"
	case StateSending:
		return "SENDING"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Symbol returns a single-character symbol representing the state.
func (s ConsoleState) Symbol() string {
	switch s {
	case StateIdle:
		return "✓"
	case StateSending:
		return "●"
	case StateFailed:
		return "✗"
	default:
		return "?"
	}
}
