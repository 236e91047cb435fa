package physics

import (
	"github.com/akmonengine/feather/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeKind discriminates collision geometry
type ShapeKind uint8

const (
	// ShapeBox is an oriented box described by half extents in body space
	ShapeBox ShapeKind = iota
	// ShapePlane is an infinite plane through the body position, Normal in body space
	ShapePlane
)

// Shape is the collision geometry attached to a body
type Shape struct {
	Kind        ShapeKind
	HalfExtents mgl64.Vec3
	Normal      mgl64.Vec3
}

// Box returns a box shape with the given half extents
func Box(halfExtents mgl64.Vec3) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: halfExtents}
}

// Plane returns an infinite plane facing normal
func Plane(normal mgl64.Vec3) Shape {
	return Shape{Kind: ShapePlane, Normal: normal.Normalize()}
}

// volume is the solid volume of a box; planes and degenerate boxes report 1 so
// density stays finite
func (s Shape) volume() float64 {
	h := s.HalfExtents
	v := 8 * h.X() * h.Y() * h.Z()
	if s.Kind != ShapeBox || v <= 0 {
		return 1
	}
	return v
}

// collider returns the solver shape and pose for a body at pos, rot
// Planes are expressed in world space with the solver pose at the origin
func (s Shape) collider(pos mgl64.Vec3, rot mgl64.Quat) (actor.ShapeInterface, actor.Transform) {
	if s.Kind == ShapePlane {
		n := rot.Rotate(s.Normal)
		return &actor.Plane{Normal: n, Distance: n.Dot(pos)},
			actor.Transform{Rotation: mgl64.QuatIdent()}
	}
	return &actor.Box{HalfExtents: s.HalfExtents}, actor.Transform{Position: pos, Rotation: rot}
}
