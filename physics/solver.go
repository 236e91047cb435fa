package physics

import (
	"math"

	"github.com/akmonengine/feather"
	"github.com/akmonengine/feather/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Broad-phase grid sizing, cells span a few car lengths
const (
	gridCellSize = 8.0
	gridCapacity = 1024
)

// maxDecayRate bounds the exponential damping rate for a fraction of 1 or more
const maxDecayRate = 50.0

// newSolver creates the feather world that integrates and resolves contacts
// World drives sub-stepping itself so the solver runs exactly one step per call
func newSolver(params Params) *feather.World {
	return &feather.World{
		Gravity:     params.Gravity,
		Substeps:    1,
		SpatialGrid: feather.NewSpatialGrid(gridCellSize, gridCapacity),
	}
}

// newRigidBody builds the solver proxy for b with the world material
func newRigidBody(b *Body, m Material) *actor.RigidBody {
	shape, pose := b.Shape.collider(b.Position, b.Orientation)

	kind := actor.BodyTypeDynamic
	density := b.Mass / b.Shape.volume()
	if b.IsStatic() {
		kind = actor.BodyTypeStatic
		density = 0
	}

	rb := actor.NewRigidBody(pose, shape, kind, density)
	rb.Material.StaticFriction = m.Friction
	rb.Material.DynamicFriction = m.Friction
	rb.Material.Restitution = m.Restitution
	rb.Material.LinearDamping = decayRate(b.LinearDamping)
	rb.Material.AngularDamping = decayRate(b.AngularDamping)
	return rb
}

// decayRate converts a fraction of velocity lost per second into the solver's
// exponential rate, v *= exp(-rate*dt)
func decayRate(fraction float64) float64 {
	switch {
	case fraction <= 0:
		return 0
	case fraction >= 1:
		return maxDecayRate
	default:
		return min(-math.Log1p(-fraction), maxDecayRate)
	}
}

// push copies body state into the proxy and folds the force accumulators into
// velocity for a sub-step of length h, then clears them
func (b *Body) push(h float64) {
	defer b.ClearForces()
	rb := b.rb
	if rb == nil || b.IsStatic() {
		return
	}

	rb.Material.LinearDamping = decayRate(b.LinearDamping)
	rb.Material.AngularDamping = decayRate(b.AngularDamping)
	rb.Transform.Position = b.Position
	rb.Transform.Rotation = b.Orientation

	if b.sleepState == Sleeping {
		rb.IsSleeping = true
		rb.Velocity = mgl64.Vec3{}
		rb.AngularVelocity = mgl64.Vec3{}
		b.parked = rb.Transform
		return
	}

	rb.IsSleeping = false
	rb.Velocity = b.Velocity.Add(b.Force.Mul(h / b.Mass))
	w := b.AngularVelocity
	if b.Torque != (mgl64.Vec3{}) {
		w = w.Add(rb.GetInverseInertiaWorld().Mul3x1(b.Torque).Mul(h))
	}
	rb.AngularVelocity = w
}

// pull reads the solved state back, a sleeping body holds its pose
func (b *Body) pull() {
	rb := b.rb
	if rb == nil || b.IsStatic() {
		return
	}

	if b.sleepState == Sleeping {
		rb.Transform = b.parked
		rb.Velocity = mgl64.Vec3{}
		rb.AngularVelocity = mgl64.Vec3{}
		return
	}

	b.Position = rb.Transform.Position
	b.Orientation = rb.Transform.Rotation.Normalize()
	b.Velocity = rb.Velocity
	b.AngularVelocity = rb.AngularVelocity
}
