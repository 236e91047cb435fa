package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// World axes, Y up
var (
	AxisX = mgl64.Vec3{1, 0, 0}
	AxisY = mgl64.Vec3{0, 1, 0}
	AxisZ = mgl64.Vec3{0, 0, 1}
)

// Epsilon is the tolerance used by approximate comparisons
const Epsilon = 1e-9

// Rotate returns v rotated through orientation q
// q must be a unit quaternion
func Rotate(q mgl64.Quat, v mgl64.Vec3) mgl64.Vec3 {
	return q.Rotate(v)
}

// LocalForward returns the body-space +Z axis in world space
func LocalForward(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(AxisZ)
}

// LocalRight returns the body-space +X axis in world space
func LocalRight(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(AxisX)
}

// LocalUp returns the body-space +Y axis in world space
func LocalUp(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(AxisY)
}

// MagSq returns the squared length of v
func MagSq(v mgl64.Vec3) float64 {
	return v.Dot(v)
}

// ClampLength rescales v to exactly max when longer, preserving direction
// Returns the clamped vector and true if clamping occurred
func ClampLength(v mgl64.Vec3, max float64) (mgl64.Vec3, bool) {
	magSq := MagSq(v)
	if magSq <= max*max {
		return v, false
	}
	mag := math.Sqrt(magSq)
	if mag == 0 {
		return v, false
	}
	return v.Mul(max / mag), true
}

// Distance returns the Euclidean distance between a and b
func Distance(a, b mgl64.Vec3) float64 {
	return b.Sub(a).Len()
}

// DistanceToSegment returns the closest distance from p to the segment [a, b]
// Degenerate segments collapse to a point distance
func DistanceToSegment(p, a, b mgl64.Vec3) float64 {
	ab := b.Sub(a)
	lenSq := MagSq(ab)
	if lenSq == 0 {
		return Distance(p, a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = Clamp(t, 0, 1)
	closest := a.Add(ab.Mul(t))
	return Distance(p, closest)
}

// Clamp limits x to [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// IntegrateOrientation advances q by angular velocity w over dt and renormalizes
// dq/dt = 0.5 * w * q, with w as a pure quaternion
func IntegrateOrientation(q mgl64.Quat, w mgl64.Vec3, dt float64) mgl64.Quat {
	if MagSq(w) == 0 {
		return q
	}
	spin := mgl64.Quat{W: 0, V: w}.Mul(q).Scale(0.5 * dt)
	return q.Add(spin).Normalize()
}

// Heading returns the yaw of q in radians, measured from +Z toward +X
func Heading(q mgl64.Quat) float64 {
	f := LocalForward(q)
	return math.Atan2(f.X(), f.Z())
}

// IsZero reports whether every component of v is exactly zero
func IsZero(v mgl64.Vec3) bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// ApproxEqual compares vectors component-wise within tol
func ApproxEqual(a, b mgl64.Vec3, tol float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
