package view

// Effects are the actions to take when the view changes.
type Effects struct {
	// StartPolling starts pulling the stroke history, including an immediate pull.
	StartPolling bool
	// StopPolling stops pulling the stroke history.
	StopPolling bool
	// ClearMirror empties the canvas because a drawing phase ended.
	ClearMirror bool
}

// Transition determines the effects of moving from the previous view to the next one.
// The previous view is nil for the first snapshot of the session.
// Deriving the same phase twice has no effects.
func Transition(prev *View, next View) Effects {
	if prev == nil {
		return Effects{
			StartPolling: next.Polling,
		}
	}
	return Effects{
		StartPolling: !prev.Polling && next.Polling,
		StopPolling:  prev.Polling && !next.Polling,
		ClearMirror:  prev.Drawing && prev.Phase != next.Phase,
	}
}

// None determines if there is nothing to do.
func (e Effects) None() bool {
	return e == Effects{}
}
