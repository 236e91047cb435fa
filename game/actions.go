package game

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/vi-racer/input"
	"github.com/lixenwraith/vi-racer/platform"
	"github.com/lixenwraith/vi-racer/race"
	"github.com/lixenwraith/vi-racer/vehicle"
)

// Notices shown on the prompt line
const (
	NoticeShared      = "Result shared"
	NoticeShareFailed = "Share unavailable"
	NoticeMuted       = "Sound off"
	NoticeUnmuted     = "Sound on"
)

// HandleAction applies one input action; returns false when the player quits
func (s *Session) HandleAction(a input.Action) bool {
	if s.quitPending {
		return s.confirmQuit(a)
	}

	if m, ok := a.Motion(); ok {
		if s.race.State() == race.Running {
			s.latch.Press(m)
		}
		return true
	}
	if i, ok := a.SelectIndex(); ok {
		if s.race.State() == race.NotStarted && i < len(s.presets) {
			s.cursor = i
			s.startLogged()
		}
		return true
	}

	switch a {
	case input.ActionQuit:
		return s.requestQuit()
	case input.ActionPause:
		s.togglePause()
	case input.ActionRespawn:
		if err := s.Respawn(); err != nil {
			s.logger.Debug("respawn ignored", "err", err)
		}
	case input.ActionRestart:
		s.Restart()
	case input.ActionConfirm:
		if s.race.State() == race.NotStarted {
			s.startLogged()
		}
	case input.ActionMenuUp:
		s.moveCursor(-1)
	case input.ActionMenuDown:
		s.moveCursor(1)
	case input.ActionShare:
		if err := s.Share(); err != nil {
			s.logger.Debug("share ignored", "err", err)
		}
	case input.ActionToggleMute:
		s.toggleMute()
	case input.ActionToggleDebug:
		s.debug = !s.debug
	}
	return true
}

// togglePause flips Running and Paused for the pause key
func (s *Session) togglePause() {
	switch s.race.State() {
	case race.Running:
		s.race.Pause()
		s.latch.ReleaseAll()
	case race.Paused:
		if err := s.race.Resume(); err != nil {
			s.logger.Debug("resume ignored", "err", err)
		}
	}
}

// requestQuit exits from menus and results, and asks for confirmation mid-race
func (s *Session) requestQuit() bool {
	switch s.race.State() {
	case race.Running:
		s.race.Pause()
		s.latch.ReleaseAll()
		s.pausedForQuit = true
		s.quitPending = true
		return true
	case race.Paused:
		s.quitPending = true
		return true
	default:
		return false
	}
}

// confirmQuit resolves a pending quit: quit or confirm exits, anything else resumes
func (s *Session) confirmQuit(a input.Action) bool {
	if a == input.ActionQuit || a == input.ActionConfirm {
		return false
	}
	s.quitPending = false
	if s.pausedForQuit {
		s.pausedForQuit = false
		if err := s.race.Resume(); err != nil {
			s.logger.Debug("resume after quit prompt", "err", err)
		}
	}
	return true
}

func (s *Session) moveCursor(delta int) {
	if s.race.State() != race.NotStarted || len(s.presets) == 0 {
		return
	}
	n := len(s.presets)
	s.cursor = ((s.cursor+delta)%n + n) % n
}

func (s *Session) startLogged() {
	if err := s.Start(s.cursor); err != nil {
		s.logger.Warn("start failed", "err", err)
	}
}

// Start spawns preset i at the track start and begins the race
func (s *Session) Start(i int) error {
	if i < 0 || i >= len(s.presets) {
		return fmt.Errorf("%w: index %d", vehicle.ErrUnknownPreset, i)
	}
	if s.race.State() != race.NotStarted {
		return fmt.Errorf("%w: start from %s", race.ErrInvalidTransition, s.race.State())
	}
	cfg := s.presets[i]
	if s.car != nil {
		s.car.Dispose()
	}
	s.car = vehicle.Spawn(s.world, cfg, s.track.StartPosition())
	s.latch.ReleaseAll()
	s.result = nil
	s.notice = ""

	if err := s.race.Start(cfg); err != nil {
		s.car.Dispose()
		s.car = nil
		return err
	}
	id := s.race.SessionID()
	if r, ok := s.publisher.(sessionReceiver); ok {
		r.SetSession(id)
	}
	if r, ok := s.platform.(sessionReceiver); ok {
		r.SetSession(id)
	}
	s.logger.Info("session started", "session", id, "vehicle", cfg.Name)
	return nil
}

// Respawn returns the vehicle to the start at rest; while racing or paused
func (s *Session) Respawn() error {
	if err := s.race.Respawn(); err != nil {
		return err
	}
	s.latch.ReleaseAll()
	if !s.car.TeleportTo(s.track.StartPosition()) {
		s.logger.Warn("respawn: vehicle body missing", "id", s.car.ID())
	}
	return nil
}

// Restart abandons the race and returns to the vehicle menu
func (s *Session) Restart() {
	s.race.Restart()
	if s.car != nil {
		s.car.Dispose()
		s.car = nil
	}
	s.latch.ReleaseAll()
	s.result = nil
	s.notice = ""
	s.quitPending = false
	s.pausedForQuit = false
}

// Share sends the finished result to the platform with a light haptic
func (s *Session) Share() error {
	if s.result == nil {
		return fmt.Errorf("%w: share from %s", race.ErrInvalidTransition, s.race.State())
	}
	s.platform.Haptic(platform.HapticLight)
	if err := s.platform.Share(*s.result); err != nil {
		s.notice = NoticeShareFailed
		if !errors.Is(err, platform.ErrUnavailable) {
			s.logger.Warn("share failed", "err", err)
		}
		return err
	}
	s.notice = NoticeShared
	return nil
}

func (s *Session) toggleMute() {
	if s.audio == nil {
		return
	}
	if s.audio.ToggleMute() {
		s.notice = NoticeMuted
	} else {
		s.notice = NoticeUnmuted
	}
}
