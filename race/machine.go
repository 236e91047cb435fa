package race

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/lixenwraith/vi-racer/clock"
	"github.com/lixenwraith/vi-racer/event"
	"github.com/lixenwraith/vi-racer/track"
	"github.com/lixenwraith/vi-racer/vehicle"
)

// pauser is implemented by clocks that can exclude paused time
type pauser interface {
	Pause()
	Resume()
}

// Options configures a Machine
type Options struct {
	Track     *track.Track
	Clock     clock.TimeProvider // Nil uses a pausable clock over the monotonic provider
	Events    *event.EventQueue  // Nil disables emission
	TotalLaps int                // Zero uses TotalLaps
	Logger    *log.Logger        // Nil discards
	NewID     func() string      // Session id generator, nil uses uuid
}

// Machine is the race progression state machine
// Driven from the frame loop only; not safe for concurrent use
type Machine struct {
	track  *track.Track
	clock  clock.TimeProvider
	events *event.EventQueue
	logger *log.Logger
	newID  func() string

	state     State
	index     int
	laps      LapRecord
	total     time.Duration // Frozen on finish
	vehicle   string
	sessionID string

	prev    mgl64.Vec3
	hasPrev bool
	frame   int64
}

// NewMachine creates a machine in NotStarted
func NewMachine(opts Options) *Machine {
	if opts.Track == nil {
		opts.Track = track.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewPausableClock(nil)
	}
	if opts.TotalLaps <= 0 {
		opts.TotalLaps = TotalLaps
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	m := &Machine{
		track:  opts.Track,
		clock:  opts.Clock,
		events: opts.Events,
		logger: opts.Logger,
		newID:  opts.NewID,
	}
	m.laps.Total = opts.TotalLaps
	return m
}

// State returns the current phase
func (m *Machine) State() State {
	return m.state
}

// Laps returns a copy of the lap record
func (m *Machine) Laps() LapRecord {
	return m.laps
}

// CheckpointIndex returns the next expected checkpoint
func (m *Machine) CheckpointIndex() int {
	return m.index
}

// SessionID returns the id assigned at Start, empty before the first start
func (m *Machine) SessionID() string {
	return m.sessionID
}

// Track returns the track being raced
func (m *Machine) Track() *track.Track {
	return m.track
}

func (m *Machine) invalid(op string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, op, m.state)
}

func (m *Machine) emit(t event.EventType, payload any) {
	if m.events == nil {
		return
	}
	m.events.Push(event.RaceEvent{Type: t, Payload: payload, Frame: m.frame})
}

// Start begins a race with the selected vehicle
func (m *Machine) Start(cfg vehicle.Config) error {
	if m.state != NotStarted {
		return m.invalid("start")
	}
	now := m.clock.Now()
	m.vehicle = cfg.Name
	m.sessionID = m.newID()
	m.index = 0
	m.laps = LapRecord{Current: 1, Total: m.laps.Total, RaceStart: now, LapStart: now}
	m.total = 0
	m.hasPrev = false
	m.state = Running

	m.logger.Info("race started", "session", m.sessionID, "vehicle", cfg.Name, "laps", m.laps.Total)
	m.emit(event.EventRaceStarted, &event.RaceStartedPayload{
		SessionID: m.sessionID,
		Vehicle:   cfg.Name,
		TotalLaps: m.laps.Total,
	})
	return nil
}

// Pause moves a Running race to Paused; a no-op in every other state, including Paused
func (m *Machine) Pause() {
	if m.state != Running {
		return
	}
	m.state = Paused
	if p, ok := m.clock.(pauser); ok {
		p.Pause()
	}
	m.logger.Debug("race paused", "lap", m.laps.Current, "checkpoint", m.index)
	m.emit(event.EventPaused, nil)
}

// Resume returns a paused race to Running
func (m *Machine) Resume() error {
	if m.state != Paused {
		return m.invalid("resume")
	}
	m.resume()
	return nil
}

func (m *Machine) resume() {
	if p, ok := m.clock.(pauser); ok {
		p.Resume()
	}
	m.state = Running
	m.logger.Debug("race resumed")
	m.emit(event.EventResumed, nil)
}

// Restart returns to NotStarted from any state, clearing progress and timers
func (m *Machine) Restart() {
	if m.state == Paused {
		if p, ok := m.clock.(pauser); ok {
			p.Resume()
		}
	}
	m.state = NotStarted
	m.index = 0
	m.laps = LapRecord{Total: m.laps.Total}
	m.total = 0
	m.hasPrev = false
	m.logger.Info("race reset", "session", m.sessionID)
	m.emit(event.EventRestarted, nil)
}

// Respawn resets the checkpoint index to 0 and keeps the lap; legal while Running or Paused
// The caller teleports the vehicle
func (m *Machine) Respawn() error {
	if m.state != Running && m.state != Paused {
		return m.invalid("respawn")
	}
	m.index = 0
	m.hasPrev = false
	m.logger.Debug("respawn", "lap", m.laps.Current)
	m.emit(event.EventRespawned, nil)
	return nil
}

// Tick evaluates the vehicle position against the next checkpoint
// At most one checkpoint advances per call; returns whether one did
func (m *Machine) Tick(pos mgl64.Vec3) bool {
	m.frame++
	if m.state != Running {
		return false
	}

	from := pos
	if m.hasPrev {
		from = m.prev
	}
	m.prev = pos
	m.hasPrev = true

	if !m.track.SweptSatisfied(m.index, from, pos) {
		return false
	}

	passed := m.index
	m.index++
	wrapped := m.index >= m.track.Len()
	if wrapped {
		m.index = 0
	}
	m.emit(event.EventCheckpointPassed, &event.CheckpointPayload{Index: passed, Next: m.index, Lap: m.laps.Current})

	if wrapped {
		m.completeLap()
	}
	return true
}

func (m *Machine) completeLap() {
	now := m.clock.Now()
	lapTime := now.Sub(m.laps.LapStart)
	m.laps.record(lapTime)
	m.laps.LapStart = now
	best, _ := m.laps.Best()

	m.logger.Info("lap completed", "lap", m.laps.Current, "time", lapTime, "best", best)
	m.emit(event.EventLapCompleted, &event.LapPayload{Lap: m.laps.Current, Duration: lapTime, Best: best})

	m.laps.Current++
	if m.laps.Current > m.laps.Total {
		m.state = Finished
		m.total = now.Sub(m.laps.RaceStart)
		m.logger.Info("race finished", "session", m.sessionID, "total", m.total, "best", best)
		m.emit(event.EventRaceFinished, &event.RaceFinishedPayload{Total: m.total, Best: best})
	}
}

// TotalTime returns elapsed race time, frozen once finished
func (m *Machine) TotalTime() time.Duration {
	switch m.state {
	case Running, Paused:
		return m.clock.Now().Sub(m.laps.RaceStart)
	case Finished:
		return m.total
	default:
		return 0
	}
}

// LapTime returns elapsed time in the current lap
func (m *Machine) LapTime() time.Duration {
	switch m.state {
	case Running, Paused:
		return m.clock.Now().Sub(m.laps.LapStart)
	default:
		return 0
	}
}

// Snapshot returns the HUD view of race state
func (m *Machine) Snapshot() Snapshot {
	best, hasBest := m.laps.Best()
	lap := m.laps.Current
	if lap > m.laps.Total {
		lap = m.laps.Total
	}
	return Snapshot{
		State:           m.state,
		SessionID:       m.sessionID,
		Vehicle:         m.vehicle,
		Checkpoint:      m.index,
		CheckpointCount: m.track.Len(),
		Lap:             lap,
		TotalLaps:       m.laps.Total,
		LapTime:         m.LapTime(),
		TotalTime:       m.TotalTime(),
		LastLap:         m.laps.LastLap,
		BestLap:         best,
		HasBest:         hasBest,
	}
}
