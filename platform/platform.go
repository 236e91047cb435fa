package platform

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/vi-racer/hud"
)

// HapticKind is a device feedback pattern
type HapticKind uint8

const (
	HapticLight HapticKind = iota
	HapticMedium
	HapticHeavy
	HapticSuccess
	HapticWarning
	HapticError
)

var hapticNames = [...]string{"light", "medium", "heavy", "success", "warning", "error"}

func (k HapticKind) String() string {
	if int(k) < len(hapticNames) {
		return hapticNames[k]
	}
	return fmt.Sprintf("haptic(%d)", uint8(k))
}

// Impact reports whether k is an impact pattern rather than a notification
func (k HapticKind) Impact() bool {
	return k <= HapticHeavy
}

// ErrUnavailable is returned by Share when no host can receive it
var ErrUnavailable = errors.New("platform unavailable")

// Platform is the host integration collaborator
// Every method is safe when the host is absent
type Platform interface {
	Available() bool
	Haptic(kind HapticKind)
	Share(result hud.Result) error
}

// Noop is the absent host
type Noop struct{}

func (Noop) Available() bool { return false }

func (Noop) Haptic(HapticKind) {}

func (Noop) Share(hud.Result) error { return ErrUnavailable }

// Multi fans calls out to every member
type Multi []Platform

// Available reports whether any member is available
func (m Multi) Available() bool {
	for _, p := range m {
		if p.Available() {
			return true
		}
	}
	return false
}

// Haptic forwards to every available member
func (m Multi) Haptic(kind HapticKind) {
	for _, p := range m {
		if p.Available() {
			p.Haptic(kind)
		}
	}
}

// Share succeeds if any available member accepts the result
func (m Multi) Share(result hud.Result) error {
	var errs []error
	shared := false
	for _, p := range m {
		if !p.Available() {
			continue
		}
		if err := p.Share(result); err != nil {
			errs = append(errs, err)
			continue
		}
		shared = true
	}
	if shared {
		return nil
	}
	if len(errs) == 0 {
		return ErrUnavailable
	}
	return errors.Join(errs...)
}
