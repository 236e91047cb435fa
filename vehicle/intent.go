package vehicle

import "sync/atomic"

// Motion identifies one directional control flag
type Motion uint8

const (
	MotionForward Motion = iota
	MotionBackward
	MotionLeft
	MotionRight
)

// Intent holds the player's directional control flags
// Input goroutines write flags; the frame loop reads a snapshot once per tick
// Level-triggered: reading never clears a flag
type Intent struct {
	forward  atomic.Bool
	backward atomic.Bool
	left     atomic.Bool
	right    atomic.Bool
}

// IntentState is a point-in-time copy of Intent
type IntentState struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
}

// Set raises or lowers a single flag
func (i *Intent) Set(m Motion, on bool) {
	switch m {
	case MotionForward:
		i.forward.Store(on)
	case MotionBackward:
		i.backward.Store(on)
	case MotionLeft:
		i.left.Store(on)
	case MotionRight:
		i.right.Store(on)
	}
}

// Get returns the current value of a single flag
func (i *Intent) Get(m Motion) bool {
	switch m {
	case MotionForward:
		return i.forward.Load()
	case MotionBackward:
		return i.backward.Load()
	case MotionLeft:
		return i.left.Load()
	case MotionRight:
		return i.right.Load()
	}
	return false
}

// Snapshot copies all flags
func (i *Intent) Snapshot() IntentState {
	return IntentState{
		Forward:  i.forward.Load(),
		Backward: i.backward.Load(),
		Left:     i.left.Load(),
		Right:    i.right.Load(),
	}
}

// Clear lowers every flag, used on race restart
func (i *Intent) Clear() {
	i.forward.Store(false)
	i.backward.Store(false)
	i.left.Store(false)
	i.right.Store(false)
}
