package physics

import (
	"github.com/akmonengine/feather/actor"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/vmath"
)

// SleepState tracks the sleep lifecycle of a dynamic body
type SleepState uint8

const (
	Awake SleepState = iota
	Sleepy
	Sleeping
)

func (s SleepState) String() string {
	switch s {
	case Awake:
		return "awake"
	case Sleepy:
		return "sleepy"
	case Sleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}

// Default sleep thresholds for bodies that allow sleeping
const (
	DefaultSleepSpeedLimit = 0.1
	DefaultSleepTimeLimit  = 1.0
)

// Body is a rigid body simulated by World
// Mass 0 marks the body static: it is never integrated and never moves from contacts
// The exported fields are authoritative; World copies them into its solver every sub-step
type Body struct {
	Mass            float64
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3

	// Accumulators, cleared after every fixed sub-step
	Force  mgl64.Vec3
	Torque mgl64.Vec3

	// Fraction of velocity lost per second
	LinearDamping  float64
	AngularDamping float64

	Shape Shape

	AllowSleep      bool
	SleepSpeedLimit float64
	SleepTimeLimit  float64

	sleepState SleepState
	idleTime   float64

	rb     *actor.RigidBody // Solver proxy, nil until added to a World
	parked actor.Transform  // Solver pose held while sleeping
}

// NewBody creates an awake body at pos with identity orientation
func NewBody(mass float64, pos mgl64.Vec3, shape Shape) *Body {
	return &Body{
		Mass:            mass,
		Position:        pos,
		Orientation:     mgl64.QuatIdent(),
		Shape:           shape,
		AllowSleep:      true,
		SleepSpeedLimit: DefaultSleepSpeedLimit,
		SleepTimeLimit:  DefaultSleepTimeLimit,
	}
}

// IsStatic reports whether the body is immovable
func (b *Body) IsStatic() bool {
	return b.Mass <= 0
}

// Speed returns the linear velocity magnitude
func (b *Body) Speed() float64 {
	return b.Velocity.Len()
}

// ApplyForce accumulates a force through the center of mass until the next sub-step
func (b *Body) ApplyForce(f mgl64.Vec3) {
	if b.IsStatic() {
		return
	}
	b.Force = b.Force.Add(f)
	b.WakeUp()
}

// ApplyTorque accumulates a world-space torque until the next sub-step
func (b *Body) ApplyTorque(t mgl64.Vec3) {
	if b.IsStatic() {
		return
	}
	b.Torque = b.Torque.Add(t)
	b.WakeUp()
}

// ClearForces zeroes the force and torque accumulators
func (b *Body) ClearForces() {
	b.Force = mgl64.Vec3{}
	b.Torque = mgl64.Vec3{}
}

// WakeUp returns the body to active integration
func (b *Body) WakeUp() {
	b.sleepState = Awake
	b.idleTime = 0
}

// Sleep stops integration until WakeUp or a force is applied
func (b *Body) Sleep() {
	b.sleepState = Sleeping
	b.Velocity = mgl64.Vec3{}
	b.AngularVelocity = mgl64.Vec3{}
}

// SleepState returns the current sleep lifecycle state
func (b *Body) SleepState() SleepState {
	return b.sleepState
}

// trySleep advances the sleep lifecycle after a sub-step of length h
func (b *Body) trySleep(h float64) {
	if !b.AllowSleep || b.sleepState == Sleeping {
		return
	}
	limitSq := b.SleepSpeedLimit * b.SleepSpeedLimit
	slow := vmath.MagSq(b.Velocity) < limitSq && vmath.MagSq(b.AngularVelocity) < limitSq

	switch {
	case !slow:
		b.sleepState = Awake
		b.idleTime = 0
	case b.sleepState == Awake:
		b.sleepState = Sleepy
		b.idleTime = 0
	default:
		b.idleTime += h
		if b.idleTime >= b.SleepTimeLimit {
			b.Sleep()
		}
	}
}
