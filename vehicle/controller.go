package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/physics"
	"github.com/lixenwraith/vi-racer/vmath"
)

// Chassis and control tuning
var (
	// Collision box, kept smaller than the visual body so the car does not snag
	HalfExtents = mgl64.Vec3{1.3, 0.6, 2.5}
)

const (
	LinearDamping  = 0.1
	AngularDamping = 0.3
	// ReverseFactor scales thrust when backing up or braking
	ReverseFactor = 0.5
	// YawDecay is applied per tick to yaw rate when no steering is held
	YawDecay = 0.9
)

// Controller turns intent into forces on the vehicle body
// The body is owned by the world and looked up by id on every call
type Controller struct {
	world *physics.World
	id    string
	cfg   Config
	speed float64
}

// Spawn creates the vehicle body at pos, registers it and returns its controller
// Sleeping is disabled so a stalled vehicle always remains recoverable by respawn
func Spawn(world *physics.World, cfg Config, pos mgl64.Vec3) *Controller {
	body := physics.NewBody(cfg.Mass, pos, physics.Box(HalfExtents))
	body.LinearDamping = LinearDamping
	body.AngularDamping = AngularDamping
	body.AllowSleep = false

	id := cfg.BodyID()
	world.AddBody(id, body)

	return &Controller{
		world: world,
		id:    id,
		cfg:   cfg,
	}
}

// ID returns the body key
func (c *Controller) ID() string {
	return c.id
}

// Config returns the preset driving this controller
func (c *Controller) Config() Config {
	return c.cfg
}

func (c *Controller) body() (*physics.Body, bool) {
	return c.world.Body(c.id)
}

// Apply converts the tick's intent into thrust and yaw rate, before the physics step
// Forward and backward together apply both forces
func (c *Controller) Apply(in IntentState) {
	b, ok := c.body()
	if !ok {
		return
	}

	forward := vmath.LocalForward(b.Orientation)
	thrust := c.cfg.Acceleration * c.cfg.Mass

	if in.Forward {
		b.ApplyForce(forward.Mul(thrust))
	}
	if in.Backward {
		b.ApplyForce(forward.Mul(-ReverseFactor * thrust))
	}

	switch {
	case in.Left:
		b.AngularVelocity[1] = c.cfg.Handling
	case in.Right:
		b.AngularVelocity[1] = -c.cfg.Handling
	default:
		b.AngularVelocity[1] *= YawDecay
	}
}

// Stabilize enforces the speed cap after the physics step and records the HUD speed
// Speed() reports the magnitude seen before clamping
func (c *Controller) Stabilize() {
	b, ok := c.body()
	if !ok {
		c.speed = 0
		return
	}
	c.speed = b.Speed()
	if v, clamped := vmath.ClampLength(b.Velocity, c.cfg.MaxSpeed); clamped {
		b.Velocity = v
	}
}

// Speed returns the last recorded speed in units/sec
func (c *Controller) Speed() float64 {
	return c.speed
}

// Velocity returns the current body velocity
func (c *Controller) Velocity() (mgl64.Vec3, bool) {
	b, ok := c.body()
	if !ok {
		return mgl64.Vec3{}, false
	}
	return b.Velocity, true
}

// Position returns the current world position
func (c *Controller) Position() (mgl64.Vec3, bool) {
	b, ok := c.body()
	if !ok {
		return mgl64.Vec3{}, false
	}
	return b.Position, true
}

// Orientation returns the current world orientation
func (c *Controller) Orientation() (mgl64.Quat, bool) {
	b, ok := c.body()
	if !ok {
		return mgl64.QuatIdent(), false
	}
	return b.Orientation, true
}

// Upright reports whether the body's up axis points above the horizon
func (c *Controller) Upright() bool {
	b, ok := c.body()
	if !ok {
		return false
	}
	return vmath.LocalUp(b.Orientation).Y() > 0
}

// TeleportTo resets the vehicle to pos at rest with identity orientation
// Motion state is cleared before the position write so no momentum carries through
func (c *Controller) TeleportTo(pos mgl64.Vec3) bool {
	b, ok := c.body()
	if !ok {
		return false
	}
	b.Velocity = mgl64.Vec3{}
	b.AngularVelocity = mgl64.Vec3{}
	b.ClearForces()
	b.Orientation = mgl64.QuatIdent()
	b.Position = pos
	b.WakeUp()
	c.speed = 0
	return true
}

// Dispose removes the body from the world
func (c *Controller) Dispose() {
	c.world.RemoveBody(c.id)
	c.speed = 0
}
