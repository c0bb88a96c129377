package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoseFromSlice(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		p, err := PoseFromSlice([]float64{0, 0, 0, 1, 10, 20, 30})
		require.NoError(t, err)
		assert.Equal(t, [4]float64{0, 0, 0, 1}, p.Quat)
		assert.Equal(t, Vec3{10, 20, 30}, p.Trans)
	})

	t.Run("wrong length", func(t *testing.T) {
		t.Parallel()
		_, err := PoseFromSlice([]float64{1, 2, 3})
		assert.Error(t, err)
	})
}

func TestPoseApply(t *testing.T) {
	t.Parallel()

	t.Run("identity quaternion translates only", func(t *testing.T) {
		t.Parallel()
		p := Pose{Quat: [4]float64{0, 0, 0, 1}, Trans: Vec3{1, 2, 3}}
		got := p.Apply(Vec3{10, 0, 0})
		assert.InDelta(t, 11, got[0], 1e-9)
		assert.InDelta(t, 2, got[1], 1e-9)
		assert.InDelta(t, 3, got[2], 1e-9)
	})

	t.Run("90 degree yaw", func(t *testing.T) {
		t.Parallel()
		s := math.Sin(math.Pi / 4)
		p := Pose{Quat: [4]float64{0, 0, s, s}}
		got := p.Apply(Vec3{1, 0, 0})
		// Rotating +X by 90 degrees about Z yields +Y.
		assert.InDelta(t, 0, got[0], 1e-9)
		assert.InDelta(t, 1, got[1], 1e-9)
		assert.InDelta(t, 0, got[2], 1e-9)
	})

	t.Run("unnormalised quaternion", func(t *testing.T) {
		t.Parallel()
		s := math.Sin(math.Pi / 4)
		scaled := Pose{Quat: [4]float64{0, 0, 2 * s, 2 * s}}
		unit := Pose{Quat: [4]float64{0, 0, s, s}}
		a := scaled.Apply(Vec3{3, 4, 5})
		b := unit.Apply(Vec3{3, 4, 5})
		for i := range a {
			assert.InDelta(t, b[i], a[i], 1e-9)
		}
	})

	t.Run("zero quaternion is identity rotation", func(t *testing.T) {
		t.Parallel()
		p := Pose{Trans: Vec3{1, 1, 1}}
		got := p.Apply(Vec3{5, 6, 7})
		assert.Equal(t, Vec3{6, 7, 8}, got)
	})
}

func TestPoseApplyAll(t *testing.T) {
	t.Parallel()

	p := Pose{Quat: [4]float64{0, 0, 0, 1}, Trans: Vec3{100, 0, 0}}
	got := p.ApplyAll([]Vec3{{1, 0, 0}, {2, 0, 0}}, Vec3{100, 0, 0})

	// Translation and origin cancel, leaving the input unchanged.
	require.Len(t, got, 2)
	assert.InDelta(t, 1, got[0][0], 1e-9)
	assert.InDelta(t, 2, got[1][0], 1e-9)
}

func TestPoseIsZero(t *testing.T) {
	t.Parallel()
	assert.True(t, Pose{}.IsZero())
	assert.False(t, Pose{Quat: [4]float64{0, 0, 0, 1}}.IsZero())
	assert.False(t, Pose{Trans: Vec3{1, 0, 0}}.IsZero())
}

func TestRotateZ(t *testing.T) {
	t.Parallel()
	r := RotateZ(math.Pi / 2)
	// Column-vector convention: R * (1,0,0) = (0,1,0).
	assert.InDelta(t, 0, r.At(0, 0), 1e-9)
	assert.InDelta(t, -1, r.At(0, 1), 1e-9)
	assert.InDelta(t, 1, r.At(1, 0), 1e-9)
}
