package game

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-racer/clock"
	"github.com/lixenwraith/vi-racer/event"
	"github.com/lixenwraith/vi-racer/hud"
	"github.com/lixenwraith/vi-racer/input"
	"github.com/lixenwraith/vi-racer/physics"
	"github.com/lixenwraith/vi-racer/platform"
	"github.com/lixenwraith/vi-racer/quality"
	"github.com/lixenwraith/vi-racer/race"
	"github.com/lixenwraith/vi-racer/render"
	"github.com/lixenwraith/vi-racer/status"
	"github.com/lixenwraith/vi-racer/track"
	"github.com/lixenwraith/vi-racer/vehicle"
)

// Renderer is the display collaborator
type Renderer interface {
	quality.Renderer
	Draw(f render.Frame)
}

// Publisher receives every drained race event, e.g. the host bridge
type Publisher interface {
	Publish(ev event.RaceEvent)
}

// Muter is the audio control surface used by the mute key
type Muter interface {
	ToggleMute() bool
	Muted() bool
}

// Optional collaborator capabilities, discovered by assertion
type (
	sessionReceiver interface{ SetSession(id string) }
	playerNamer     interface{ PlayerName() (string, bool) }
	themeSource     interface{ Theme() (platform.ThemePayload, bool) }
	themeSetter     interface{ SetTheme(render.Theme) }
	availability    interface{ Available() bool }
	sentCounter     interface{ Sent() uint64 }
)

// Options configures a Session; zero values select defaults
type Options struct {
	Track     *track.Track
	Physics   physics.Params
	Presets   []vehicle.Config
	Vehicle   string // Preselected menu entry
	TotalLaps int
	Player    string
	Hold      time.Duration
	KeyMap    *input.KeyMap
	Platform  platform.Platform
	Publisher Publisher
	Audio     Muter
	Renderer  Renderer
	Tier      quality.Tier
	Time      clock.TimeProvider
	Status    *status.Registry
	Logger    *log.Logger
	NewID     func() string
}

type nopRenderer struct{}

func (nopRenderer) ApplySettings(quality.Settings) {}

func (nopRenderer) Draw(render.Frame) {}

// metrics caches registry pointers written every frame
type metrics struct {
	fps, avgFPS, speed, dropped *status.AtomicFloat
	frame, faults, subSteps     *atomic.Int64
	bodies, events, bridgeSent  *atomic.Int64
	bridge, audio, quitPending  *atomic.Bool
	tier, state                 *status.AtomicString
}

func newMetrics(r *status.Registry) metrics {
	return metrics{
		fps:         r.Floats.Get(status.KeyFPS),
		avgFPS:      r.Floats.Get(status.KeyAvgFPS),
		speed:       r.Floats.Get(status.KeySpeed),
		dropped:     r.Floats.Get(status.KeyDropped),
		frame:       r.Ints.Get(status.KeyFrame),
		faults:      r.Ints.Get(status.KeyFaults),
		subSteps:    r.Ints.Get(status.KeySubSteps),
		bodies:      r.Ints.Get(status.KeyBodies),
		events:      r.Ints.Get(status.KeyEvents),
		bridgeSent:  r.Ints.Get(status.KeyBridgeSent),
		bridge:      r.Bools.Get(status.KeyBridge),
		audio:       r.Bools.Get(status.KeyAudio),
		quitPending: r.Bools.Get(status.KeyQuitPending),
		tier:        r.Strings.Get(status.KeyTier),
		state:       r.Strings.Get(status.KeyState),
	}
}

// Session drives one player's race, one Frame per rendered frame
// HandleAction and Frame must be called from the same goroutine
type Session struct {
	track     *track.Track
	world     *physics.World
	intent    *vehicle.Intent
	latch     *input.Latch
	car       *vehicle.Controller
	race      *race.Machine
	events    *event.EventQueue
	quality   *quality.Controller
	platform  platform.Platform
	publisher Publisher
	audio     Muter
	renderer  Renderer
	keys      *input.KeyMap
	meter     *clock.FPSMeter
	status    *status.Registry
	metrics   metrics
	logger    *log.Logger

	presets []vehicle.Config
	cursor  int
	player  string

	result        *hud.Result
	notice        string
	quitPending   bool
	pausedForQuit bool
	debug         bool
	themed        bool

	frame  int64
	faults int64
}

// NewSession wires the world, track, race machine and quality loop
func NewSession(opts Options) (*Session, error) {
	if len(opts.Presets) == 0 {
		opts.Presets = vehicle.Presets()
	}
	for _, p := range opts.Presets {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	if opts.Track == nil {
		opts.Track = track.Default()
	}
	if opts.Physics.FixedStep <= 0 {
		opts.Physics = physics.DefaultParams()
	}
	if opts.Time == nil {
		opts.Time = clock.NewMonotonicTimeProvider()
	}
	if opts.KeyMap == nil {
		opts.KeyMap = input.DefaultKeyMap()
	}
	if opts.Platform == nil {
		opts.Platform = platform.Noop{}
	}
	if opts.Renderer == nil {
		opts.Renderer = nopRenderer{}
	}
	if opts.Status == nil {
		opts.Status = status.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Player == "" {
		opts.Player = hud.DefaultPlayer
	}

	cursor := 0
	if opts.Vehicle != "" {
		found := false
		for i, p := range opts.Presets {
			if strings.EqualFold(p.Name, opts.Vehicle) {
				cursor, found = i, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", vehicle.ErrUnknownPreset, opts.Vehicle)
		}
	}

	world := physics.NewWorld(opts.Physics)
	opts.Track.Install(world)

	events := event.NewEventQueue()
	intent := &vehicle.Intent{}
	logger := opts.Logger.WithPrefix("game")

	s := &Session{
		track:     opts.Track,
		world:     world,
		intent:    intent,
		latch:     input.NewLatch(intent, opts.Time, opts.Hold),
		events:    events,
		platform:  opts.Platform,
		publisher: opts.Publisher,
		audio:     opts.Audio,
		renderer:  opts.Renderer,
		keys:      opts.KeyMap,
		meter:     clock.NewFPSMeter(opts.Time),
		status:    opts.Status,
		metrics:   newMetrics(opts.Status),
		logger:    logger,
		presets:   opts.Presets,
		cursor:    cursor,
		player:    opts.Player,
	}
	s.race = race.NewMachine(race.Options{
		Track:     opts.Track,
		Clock:     clock.NewPausableClock(opts.Time),
		Events:    events,
		TotalLaps: opts.TotalLaps,
		Logger:    opts.Logger.WithPrefix("race"),
		NewID:     opts.NewID,
	})
	s.quality = quality.NewControllerAt(opts.Tier, opts.Renderer, opts.Logger.WithPrefix("quality"))
	return s, nil
}

// Race exposes the state machine for inspection
func (s *Session) Race() *race.Machine {
	return s.race
}

// World exposes the physics world for inspection
func (s *Session) World() *physics.World {
	return s.world
}

// Vehicle returns the active controller, nil before a race starts
func (s *Session) Vehicle() *vehicle.Controller {
	return s.car
}

// Quality returns the tier controller
func (s *Session) Quality() *quality.Controller {
	return s.quality
}

// Intent returns the control flags the input side writes
func (s *Session) Intent() *vehicle.Intent {
	return s.intent
}

// Latch returns the key-hold emulation feeding Intent
func (s *Session) Latch() *input.Latch {
	return s.latch
}

// Result returns the finished race summary, nil until the race finishes
func (s *Session) Result() *hud.Result {
	return s.result
}

// Notice returns the transient message line
func (s *Session) Notice() string {
	return s.notice
}

// Cursor returns the highlighted menu entry
func (s *Session) Cursor() int {
	return s.cursor
}

// Faults returns the number of frames that panicked
func (s *Session) Faults() int64 {
	return s.faults
}

// FrameNumber returns the count of frames driven so far
func (s *Session) FrameNumber() int64 {
	return s.frame
}

// QuitPending reports whether quit awaits confirmation
func (s *Session) QuitPending() bool {
	return s.quitPending
}

// Frame advances one frame: input latch, control, physics, checkpoints, events, quality, draw
// A panic inside the frame is logged and counted; the next frame runs normally
func (s *Session) Frame() {
	s.frame++
	defer func() {
		if r := recover(); r != nil {
			s.faults++
			s.metrics.faults.Store(s.faults)
			s.logger.Error("frame fault", "frame", s.frame, "panic", r, "stack", string(debug.Stack()))
		}
	}()

	delta, fps := s.meter.Tick()
	s.latch.Update()
	s.simulate(delta)
	s.drain()
	if fps > 0 {
		s.sampleQuality(fps)
	}
	s.publishStatus()
	s.applyHostTheme()
	s.renderer.Draw(s.View())
}

// applyHostTheme hands the host color scheme to the renderer once it arrives
func (s *Session) applyHostTheme() {
	if s.themed {
		return
	}
	src, ok := s.publisher.(themeSource)
	if !ok {
		return
	}
	dst, ok := s.renderer.(themeSetter)
	if !ok {
		return
	}
	p, ok := src.Theme()
	if !ok {
		return
	}
	dst.SetTheme(render.DefaultTheme().With(render.ThemeColors{
		Background: p.Background,
		Text:       p.Text,
		Hint:       p.Hint,
		Link:       p.Link,
		Button:     p.Button,
		ButtonText: p.ButtonText,
	}))
	s.themed = true
	s.logger.Info("host theme applied")
}

// simulate runs control, physics and race progress; the world is frozen unless racing or finished
func (s *Session) simulate(delta float64) {
	if s.car == nil {
		return
	}
	switch s.race.State() {
	case race.Running:
		s.car.Apply(s.intent.Snapshot())
	case race.Finished:
		s.car.Apply(vehicle.IntentState{})
	default:
		return
	}
	s.world.Step(delta)
	s.car.Stabilize()
	if pos, ok := s.car.Position(); ok {
		s.race.Tick(pos)
	}
}

func (s *Session) drain() {
	for _, ev := range s.events.Consume() {
		if s.publisher != nil {
			s.publisher.Publish(ev)
		}
		switch ev.Type {
		case event.EventRespawned:
			s.platform.Haptic(platform.HapticMedium)
		case event.EventRaceFinished:
			s.platform.Haptic(platform.HapticSuccess)
			if p, ok := ev.Payload.(*event.RaceFinishedPayload); ok {
				s.finish(p)
			}
		}
	}
}

func (s *Session) finish(p *event.RaceFinishedPayload) {
	r := &hud.Result{
		SessionID: s.race.SessionID(),
		Player:    s.playerName(),
		Total:     p.Total,
		Best:      p.Best,
	}
	if s.car != nil {
		r.Vehicle = s.car.Config().Name
	}
	s.result = r
	s.logger.Info("result", "session", r.SessionID, "player", r.Player, "total", r.Total, "best", r.Best)
}

// playerName prefers the name announced by the host
func (s *Session) playerName() string {
	if pn, ok := s.publisher.(playerNamer); ok {
		if name, ok := pn.PlayerName(); ok && name != "" {
			return name
		}
	}
	return s.player
}

func (s *Session) sampleQuality(fps float64) {
	from := s.quality.Tier()
	if !s.quality.Sample(fps) {
		return
	}
	s.events.Push(event.RaceEvent{
		Type:  event.EventTierChanged,
		Frame: s.frame,
		Payload: &event.TierChangedPayload{
			From:       from.String(),
			To:         s.quality.Tier().String(),
			AverageFPS: s.quality.DecisionFPS(),
		},
	})
}

func (s *Session) publishStatus() {
	m := s.metrics
	stats := s.world.Stats()
	m.frame.Store(s.frame)
	m.faults.Store(s.faults)
	m.fps.Set(s.quality.FPS())
	m.avgFPS.Set(s.quality.AverageFPS())
	m.tier.Store(s.quality.Tier().String())
	m.state.Store(s.race.State().String())
	m.subSteps.Store(int64(stats.SubSteps))
	m.dropped.Set(stats.DroppedTime)
	m.bodies.Store(int64(s.world.Len()))
	m.events.Store(int64(s.events.Dropped()))
	m.quitPending.Store(s.quitPending)
	if s.car != nil {
		m.speed.Set(s.car.Speed())
	} else {
		m.speed.Set(0)
	}
	if a, ok := s.publisher.(availability); ok {
		m.bridge.Store(a.Available())
	}
	if c, ok := s.publisher.(sentCounter); ok {
		m.bridgeSent.Store(int64(c.Sent()))
	}
	if s.audio != nil {
		m.audio.Store(!s.audio.Muted())
	}
}

// HUD builds the display snapshot for the current state
func (s *Session) HUD() hud.Snapshot {
	snap := hud.Snapshot{
		Race: s.race.Snapshot(),
		FPS:  s.quality.FPS(),
		Tier: s.quality.Tier(),
	}
	if s.car != nil {
		snap.Speed = s.car.Speed()
		snap.Upright = s.car.Upright()
		if pos, ok := s.car.Position(); ok {
			snap.OffTrack = s.track.Surface(pos) != track.SurfaceRoad
		}
	}
	return snap
}

// View assembles the render frame
func (s *Session) View() render.Frame {
	f := render.Frame{
		Number:      s.frame,
		Track:       s.track,
		HUD:         s.HUD(),
		Menu:        render.Menu{Presets: s.presets, Cursor: s.cursor},
		Result:      s.result,
		Notice:      s.notice,
		QuitPending: s.quitPending,
	}
	if s.car != nil {
		f.Color = s.car.Config().Color
		if pos, ok := s.car.Position(); ok {
			f.HasVehicle = true
			f.Position = pos
			f.Orientation, _ = s.car.Orientation()
		}
	}
	if s.debug {
		f.Debug = s.status.Dump()
	}
	return f
}

// HandleKey resolves a terminal key and applies its action; returns false to quit
func (s *Session) HandleKey(ev *tcell.EventKey) bool {
	return s.HandleAction(s.keys.Resolve(ev))
}
