package track

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-racer/physics"
)

func TestDefaultTrack(t *testing.T) {
	tr := Default()

	require.Equal(t, 3, tr.Len())
	assert.Equal(t, mgl64.Vec3{0, 0, -40}, tr.Checkpoint(0))
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, tr.Checkpoint(1))
	assert.Equal(t, mgl64.Vec3{0, 0, 40}, tr.Checkpoint(2))
	assert.Equal(t, tr.Checkpoint(2), tr.Finish())
	assert.Equal(t, mgl64.Vec3{0, 5, -40}, tr.StartPosition())
	assert.Equal(t, ProximityRadius, tr.Radius())
}

func TestCheckpointIndexWraps(t *testing.T) {
	tr := Default()
	assert.Equal(t, tr.Checkpoint(0), tr.Checkpoint(3))
	assert.Equal(t, tr.Checkpoint(2), tr.Checkpoint(-1))
	assert.Equal(t, 1, tr.Next(0))
	assert.Equal(t, 0, tr.Next(2))
}

func TestCheckpointSatisfiedIsStrict(t *testing.T) {
	tr := Default()

	assert.True(t, tr.CheckpointSatisfied(1, mgl64.Vec3{0, 0, 14.999}))
	assert.False(t, tr.CheckpointSatisfied(1, mgl64.Vec3{0, 0, 15}), "radius boundary is exclusive")
	assert.False(t, tr.CheckpointSatisfied(2, mgl64.Vec3{0, 0, 0}), "index is authoritative, not position")
}

func TestSweptSatisfiedCatchesTunnelling(t *testing.T) {
	tr := Default()
	from := mgl64.Vec3{0, 0, -20}
	to := mgl64.Vec3{0, 0, 20}

	assert.False(t, tr.CheckpointSatisfied(1, from))
	assert.False(t, tr.CheckpointSatisfied(1, to))
	assert.True(t, tr.SweptSatisfied(1, from, to))
	assert.False(t, tr.SweptSatisfied(1, mgl64.Vec3{20, 0, -20}, mgl64.Vec3{20, 0, 20}))
}

func TestCheckpointsIsACopy(t *testing.T) {
	tr := Default()
	cps := tr.Checkpoints()
	cps[0] = mgl64.Vec3{99, 99, 99}
	assert.Equal(t, mgl64.Vec3{0, 0, -40}, tr.Checkpoint(0))
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(nil, mgl64.Vec3{}, Layout{RoadWidth: 1, RoadLength: 1})
	assert.ErrorIs(t, err, ErrNoCheckpoints)

	_, err = New([]mgl64.Vec3{{}}, mgl64.Vec3{}, Layout{})
	assert.Error(t, err)
}

func TestSurface(t *testing.T) {
	tr := Default()
	assert.Equal(t, SurfaceRoad, tr.Surface(mgl64.Vec3{7, 0, 0}))
	assert.Equal(t, SurfaceGrass, tr.Surface(mgl64.Vec3{-20, 0, 10}))
	assert.Equal(t, SurfaceOff, tr.Surface(mgl64.Vec3{50, 0, 0}))
	assert.Equal(t, SurfaceOff, tr.Surface(mgl64.Vec3{0, 0, 51}))
}

func TestInstallAddsGround(t *testing.T) {
	w := physics.NewWorld(physics.DefaultParams())
	Default().Install(w)

	g, ok := w.Body(GroundID)
	require.True(t, ok)
	assert.True(t, g.IsStatic())
}
