package track

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/physics"
	"github.com/lixenwraith/vi-racer/vmath"
)

// ProximityRadius is the distance under which a checkpoint counts as reached
const ProximityRadius = 15.0

// GroundID is the body key of the track's ground plane
const GroundID = "ground"

// ErrNoCheckpoints rejects tracks with an empty checkpoint sequence
var ErrNoCheckpoints = errors.New("track has no checkpoints")

// Surface classifies a ground position for display
type Surface uint8

const (
	SurfaceRoad Surface = iota
	SurfaceGrass
	SurfaceOff
)

// Layout is the flat track footprint, centered on the origin along Z
type Layout struct {
	RoadWidth  float64
	RoadLength float64
	GrassWidth float64 // Per side
}

// Track is an immutable ordered checkpoint sequence plus a start pose
// The checkpoint index held by the caller is authoritative: satisfaction is only
// ever tested against the next checkpoint in order
type Track struct {
	checkpoints []mgl64.Vec3
	radius      float64
	start       mgl64.Vec3
	layout      Layout
}

// New builds a track; checkpoints are copied
func New(checkpoints []mgl64.Vec3, start mgl64.Vec3, layout Layout) (*Track, error) {
	if len(checkpoints) == 0 {
		return nil, ErrNoCheckpoints
	}
	if layout.RoadWidth <= 0 || layout.RoadLength <= 0 {
		return nil, fmt.Errorf("track layout: road must have positive size, got %vx%v", layout.RoadWidth, layout.RoadLength)
	}
	cps := make([]mgl64.Vec3, len(checkpoints))
	copy(cps, checkpoints)
	return &Track{
		checkpoints: cps,
		radius:      ProximityRadius,
		start:       start,
		layout:      layout,
	}, nil
}

// Default returns the straight road: 3 checkpoints from z=-40 to z=+40, the last doubling as finish line
func Default() *Track {
	const count = 3
	spacing := 80.0 / (count - 1)
	cps := make([]mgl64.Vec3, 0, count)
	for i := 0; i < count; i++ {
		cps = append(cps, mgl64.Vec3{0, 0, -40 + float64(i)*spacing})
	}
	t, _ := New(cps, mgl64.Vec3{0, 5, -40}, Layout{RoadWidth: 15, RoadLength: 100, GrassWidth: 30})
	return t
}

// Len returns the number of checkpoints
func (t *Track) Len() int {
	return len(t.checkpoints)
}

// Radius returns the proximity radius
func (t *Track) Radius() float64 {
	return t.radius
}

// Layout returns the track footprint
func (t *Track) Layout() Layout {
	return t.layout
}

// StartPosition returns the spawn and respawn position, raised above the road
func (t *Track) StartPosition() mgl64.Vec3 {
	return t.start
}

// Checkpoint returns the checkpoint at index mod Len
func (t *Track) Checkpoint(index int) mgl64.Vec3 {
	return t.checkpoints[t.wrap(index)]
}

// Next returns the index following index, wrapping to 0 after the last checkpoint
func (t *Track) Next(index int) int {
	return t.wrap(index + 1)
}

// Checkpoints returns a copy of the sequence
func (t *Track) Checkpoints() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(t.checkpoints))
	copy(out, t.checkpoints)
	return out
}

// Finish returns the last checkpoint, drawn as the finish line
func (t *Track) Finish() mgl64.Vec3 {
	return t.checkpoints[len(t.checkpoints)-1]
}

func (t *Track) wrap(index int) int {
	n := len(t.checkpoints)
	index %= n
	if index < 0 {
		index += n
	}
	return index
}

// CheckpointSatisfied reports whether pos lies strictly within the radius of checkpoint index
func (t *Track) CheckpointSatisfied(index int, pos mgl64.Vec3) bool {
	return vmath.Distance(pos, t.Checkpoint(index)) < t.radius
}

// SweptSatisfied reports whether the path from→to passed within the radius of checkpoint index
// Catches fast vehicles that cross the gate between two samples
func (t *Track) SweptSatisfied(index int, from, to mgl64.Vec3) bool {
	return vmath.DistanceToSegment(t.Checkpoint(index), from, to) < t.radius
}

// Surface classifies pos against the footprint on the XZ plane
func (t *Track) Surface(pos mgl64.Vec3) Surface {
	halfLen := t.layout.RoadLength / 2
	if pos.Z() < -halfLen || pos.Z() > halfLen {
		return SurfaceOff
	}
	x := pos.X()
	if x < 0 {
		x = -x
	}
	switch {
	case x <= t.layout.RoadWidth/2:
		return SurfaceRoad
	case x <= t.layout.RoadWidth/2+t.layout.GrassWidth:
		return SurfaceGrass
	default:
		return SurfaceOff
	}
}

// Install registers the static ground plane into world
func (t *Track) Install(world *physics.World) {
	world.AddBody(GroundID, physics.NewBody(0, mgl64.Vec3{}, physics.Plane(vmath.AxisY)))
}
