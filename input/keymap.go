package input

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// KeyMap binds terminal keys and runes to actions
// Rune lookups are case-insensitive
type KeyMap struct {
	Keys  map[tcell.Key]Action
	Runes map[rune]Action
}

// DefaultKeyMap returns WASD and arrow driving with Latin and Cyrillic layout aliases
func DefaultKeyMap() *KeyMap {
	km := &KeyMap{
		Keys: map[tcell.Key]Action{
			tcell.KeyUp:     ActionForward,
			tcell.KeyDown:   ActionBackward,
			tcell.KeyLeft:   ActionLeft,
			tcell.KeyRight:  ActionRight,
			tcell.KeyEnter:  ActionConfirm,
			tcell.KeyEscape: ActionQuit,
			tcell.KeyCtrlC:  ActionQuit,
			tcell.KeyCtrlQ:  ActionQuit,
			tcell.KeyCtrlS:  ActionToggleMute,
			tcell.KeyCtrlD:  ActionToggleDebug,
		},
		Runes: map[rune]Action{
			'w': ActionForward, 'ц': ActionForward,
			's': ActionBackward, 'ы': ActionBackward,
			'a': ActionLeft, 'ф': ActionLeft,
			'd': ActionRight, 'в': ActionRight,
			'p': ActionPause, 'з': ActionPause,
			'r': ActionRespawn, 'к': ActionRespawn,
			'x': ActionShare, 'ч': ActionShare,
			'n': ActionRestart, 'т': ActionRestart,
			'k': ActionMenuUp, 'j': ActionMenuDown,
			' ': ActionConfirm,
		},
	}
	for i := 1; i <= 9; i++ {
		km.Runes[rune('0'+i)] = ActionSelect1 + Action(i-1)
	}
	return km
}

// Resolve maps a key event to an action
func (km *KeyMap) Resolve(ev *tcell.EventKey) Action {
	if ev.Key() == tcell.KeyRune {
		return km.Runes[unicode.ToLower(ev.Rune())]
	}
	return km.Keys[ev.Key()]
}

// keyByName is the lowercase reverse of tcell.KeyNames
var keyByName = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, n := range tcell.KeyNames {
		m[strings.ToLower(n)] = k
	}
	return m
}()

// Bind sets one binding from config: key is a single character, "space", or a tcell key name such as "Up" or "Ctrl-Q"
// Binding to "none" removes the key
func (km *KeyMap) Bind(key, action string) error {
	a, err := ParseAction(action)
	if err != nil {
		return fmt.Errorf("bind %q: %w", key, err)
	}

	if strings.EqualFold(key, "space") {
		key = " "
	}
	if utf8.RuneCountInString(key) == 1 {
		r, _ := utf8.DecodeRuneInString(key)
		r = unicode.ToLower(r)
		if a == ActionNone {
			delete(km.Runes, r)
		} else {
			km.Runes[r] = a
		}
		return nil
	}

	k, ok := keyByName[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("bind %q: unknown key name", key)
	}
	if a == ActionNone {
		delete(km.Keys, k)
	} else {
		km.Keys[k] = a
	}
	return nil
}

// BindAll applies a key → action table, stopping at the first error
func (km *KeyMap) BindAll(bindings map[string]string) error {
	for k, a := range bindings {
		if err := km.Bind(k, a); err != nil {
			return err
		}
	}
	return nil
}
