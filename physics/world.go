package physics

import (
	"math"

	"github.com/akmonengine/feather"
	"github.com/go-gl/mathgl/mgl64"
)

// Simulation constants
const (
	FixedStep   = 1.0 / 60.0
	MaxSubSteps = 2
	Gravity     = -9.82
	Friction    = 0.7
	Restitution = 0.1
)

// stepEpsilon absorbs float error when the accumulator is a whole number of steps
const stepEpsilon = 1e-9

// Params configures a World
type Params struct {
	FixedStep   float64
	MaxSubSteps int
	Gravity     mgl64.Vec3
	Material    Material
	// AllowSleep gates sleeping world-wide; bodies still opt in individually
	AllowSleep bool
}

// Material holds the global contact response coefficients copied onto every body
type Material struct {
	Friction    float64
	Restitution float64
}

// DefaultParams returns the arcade tuning: 1/60 s sub-steps capped at 2 per call
func DefaultParams() Params {
	return Params{
		FixedStep:   FixedStep,
		MaxSubSteps: MaxSubSteps,
		Gravity:     mgl64.Vec3{0, Gravity, 0},
		Material: Material{
			Friction:    Friction,
			Restitution: Restitution,
		},
		AllowSleep: true,
	}
}

// Stats are cumulative world counters
type Stats struct {
	SubSteps    uint64
	DroppedTime float64 // Wall time discarded by the sub-step cap, seconds
}

// World owns every simulated body, keyed by id
// Integration and contacts run in a feather solver world, one solver step per sub-step
// Not safe for concurrent use: it is stepped and queried from the frame loop only
type World struct {
	params      Params
	solver      *feather.World
	bodies      map[string]*Body
	order       []string
	accumulator float64
	stats       Stats
}

// NewWorld creates an empty world
func NewWorld(params Params) *World {
	if params.FixedStep <= 0 {
		params.FixedStep = FixedStep
	}
	if params.MaxSubSteps <= 0 {
		params.MaxSubSteps = MaxSubSteps
	}
	return &World{
		params: params,
		solver: newSolver(params),
		bodies: make(map[string]*Body),
	}
}

// Params returns the world configuration
func (w *World) Params() Params {
	return w.params
}

// AddBody registers body under id, replacing any body already tracked under that id
func (w *World) AddBody(id string, body *Body) {
	if body == nil {
		return
	}
	if old, exists := w.bodies[id]; exists {
		w.detach(old)
	} else {
		w.order = append(w.order, id)
	}
	body.rb = newRigidBody(body, w.params.Material)
	w.solver.AddBody(body.rb)
	w.bodies[id] = body
}

// RemoveBody detaches and discards the body under id, no-op if absent
func (w *World) RemoveBody(id string) {
	b, exists := w.bodies[id]
	if !exists {
		return
	}
	w.detach(b)
	delete(w.bodies, id)
	for i, v := range w.order {
		if v == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

func (w *World) detach(b *Body) {
	if b.rb != nil {
		w.solver.RemoveBody(b.rb)
		b.rb = nil
	}
}

// Body looks up a body by id
func (w *World) Body(id string) (*Body, bool) {
	b, ok := w.bodies[id]
	return b, ok
}

// Len returns the number of tracked bodies
func (w *World) Len() int {
	return len(w.bodies)
}

// IDs returns body ids in registration order
func (w *World) IDs() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// Stats returns cumulative counters
func (w *World) Stats() Stats {
	return w.stats
}

// Step advances the world by wall-clock delta seconds using fixed sub-steps
// At most MaxSubSteps run per call; time beyond the cap is dropped in whole steps
// Returns the number of sub-steps executed
func (w *World) Step(wallDelta float64) int {
	if wallDelta > 0 {
		w.accumulator += wallDelta
	}

	h := w.params.FixedStep
	n := 0
	for w.accumulator+stepEpsilon >= h && n < w.params.MaxSubSteps {
		w.subStep(h)
		w.accumulator = max(w.accumulator-h, 0)
		n++
	}

	if w.accumulator+stepEpsilon >= h {
		whole := math.Floor((w.accumulator + stepEpsilon) / h)
		w.stats.DroppedTime += whole * h
		w.accumulator = max(w.accumulator-whole*h, 0)
	}

	w.stats.SubSteps += uint64(n)
	return n
}

// subStep pushes body state and accumulated forces into the solver, runs one
// solver step, then reads the result back and advances sleep bookkeeping
func (w *World) subStep(h float64) {
	for _, id := range w.order {
		w.bodies[id].push(h)
	}
	w.solver.Step(h)
	for _, id := range w.order {
		b := w.bodies[id]
		b.pull()
		if w.params.AllowSleep && !b.IsStatic() {
			b.trySleep(h)
		}
	}
}
