package input

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/vi-racer/vehicle"
)

// Action is a semantic command produced from a key event
type Action uint8

const (
	ActionNone Action = iota
	ActionForward
	ActionBackward
	ActionLeft
	ActionRight
	ActionPause
	ActionRespawn
	ActionQuit
	ActionConfirm
	ActionShare
	ActionRestart
	ActionMenuUp
	ActionMenuDown
	ActionToggleMute
	ActionToggleDebug
	ActionSelect1
	ActionSelect2
	ActionSelect3
	ActionSelect4
	ActionSelect5
	ActionSelect6
	ActionSelect7
	ActionSelect8
	ActionSelect9
)

var actionNames = map[Action]string{
	ActionNone:        "none",
	ActionForward:     "forward",
	ActionBackward:    "backward",
	ActionLeft:        "left",
	ActionRight:       "right",
	ActionPause:       "pause",
	ActionRespawn:     "respawn",
	ActionQuit:        "quit",
	ActionConfirm:     "confirm",
	ActionShare:       "share",
	ActionRestart:     "restart",
	ActionMenuUp:      "menu_up",
	ActionMenuDown:    "menu_down",
	ActionToggleMute:  "toggle_mute",
	ActionToggleDebug: "toggle_debug",
}

// actionByName is the reverse of actionNames plus select_1..select_9
var actionByName = func() map[string]Action {
	m := make(map[string]Action, len(actionNames)+9)
	for a, n := range actionNames {
		m[n] = a
	}
	for i := 1; i <= 9; i++ {
		m[fmt.Sprintf("select_%d", i)] = ActionSelect1 + Action(i-1)
	}
	return m
}()

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	if idx, ok := a.SelectIndex(); ok {
		return fmt.Sprintf("select_%d", idx+1)
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// ParseAction resolves a config action name
func ParseAction(name string) (Action, error) {
	a, ok := actionByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ActionNone, fmt.Errorf("unknown action %q", name)
	}
	return a, nil
}

// Motion maps driving actions to intent flags
func (a Action) Motion() (vehicle.Motion, bool) {
	switch a {
	case ActionForward:
		return vehicle.MotionForward, true
	case ActionBackward:
		return vehicle.MotionBackward, true
	case ActionLeft:
		return vehicle.MotionLeft, true
	case ActionRight:
		return vehicle.MotionRight, true
	default:
		return 0, false
	}
}

// SelectIndex returns the zero-based menu index of a select action
func (a Action) SelectIndex() (int, bool) {
	if a >= ActionSelect1 && a <= ActionSelect9 {
		return int(a - ActionSelect1), true
	}
	return 0, false
}
