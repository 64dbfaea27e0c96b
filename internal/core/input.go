package core

import "time"

// Action is a semantic input, decoupled from the physical key that produced it.
type Action int

const (
	ActionNone     Action = iota
	ActionLeft            // Shift piece left
	ActionRight           // Shift piece right
	ActionDown            // Soft drop one row
	ActionRotate          // Rotate clockwise
	ActionHardDrop        // Drop and lock
	ActionPause           // Toggle pause
	ActionRestart         // New run after game over
	ActionQuit            // Exit the program
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionDown:
		return "Down"
	case ActionRotate:
		return "Rotate"
	case ActionHardDrop:
		return "HardDrop"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions triggered since the previous tick.
// Repeated presses within one tick are counted so fast key repeat is not lost,
// and Order keeps them in the order they arrived.
type InputFrame struct {
	Actions map[Action]int
	Order   []Action

	// Elapsed is the wall-clock time since the previous tick.
	// Zero means the host did not measure it; games use their nominal tick.
	Elapsed time.Duration
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]int)}
}

// Set records one press of a.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]int)
	}
	f.Actions[a]++
	f.Order = append(f.Order, a)
}

// Has reports whether a was pressed at least once.
func (f InputFrame) Has(a Action) bool {
	return f.Count(a) > 0
}

// Count returns how many times a was pressed.
func (f InputFrame) Count(a Action) int {
	if f.Actions == nil {
		return 0
	}
	return f.Actions[a]
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Order = f.Order[:0]
	f.Elapsed = 0
}
