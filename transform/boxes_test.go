package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBox3DFromSlice(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		b, err := Box3DFromSlice([]float64{1, 2, 3, 4, 2, 1.5, 0.5})
		require.NoError(t, err)
		assert.Equal(t, Vec3{1, 2, 3}, b.Center)
		assert.Equal(t, 4.0, b.Length)
		assert.Equal(t, 2.0, b.Width)
		assert.Equal(t, 1.5, b.Height)
		assert.Equal(t, 0.5, b.Yaw)
	})

	t.Run("wrong length", func(t *testing.T) {
		t.Parallel()
		_, err := Box3DFromSlice([]float64{1, 2, 3})
		assert.Error(t, err)
	})
}

func TestBox3DCorners(t *testing.T) {
	t.Parallel()

	t.Run("axis aligned", func(t *testing.T) {
		t.Parallel()
		b := Box3D{Center: Vec3{0, 0, 0}, Length: 2, Width: 4, Height: 6}
		corners := b.Corners()

		// Corner 0 has all-negative box-frame signs, corner 7 all-positive.
		assert.InDelta(t, -1, corners[0][0], 1e-9)
		assert.InDelta(t, -2, corners[0][1], 1e-9)
		assert.InDelta(t, -3, corners[0][2], 1e-9)
		assert.InDelta(t, 1, corners[7][0], 1e-9)
		assert.InDelta(t, 2, corners[7][1], 1e-9)
		assert.InDelta(t, 3, corners[7][2], 1e-9)
	})

	t.Run("yaw rotates in the xy plane", func(t *testing.T) {
		t.Parallel()
		b := Box3D{Center: Vec3{0, 0, 0}, Length: 2, Width: 2, Height: 2, Yaw: math.Pi / 2}
		corners := b.Corners()

		// Corner 4 has box-frame offsets (+1, -1, -1); yaw 90 maps them
		// to (+1, +1) in the lidar frame.
		assert.InDelta(t, 1, corners[4][0], 1e-9)
		assert.InDelta(t, 1, corners[4][1], 1e-9)
		assert.InDelta(t, -1, corners[4][2], 1e-9)
	})

	t.Run("translated", func(t *testing.T) {
		t.Parallel()
		b := Box3D{Center: Vec3{10, 20, 30}, Length: 2, Width: 2, Height: 2}
		corners := b.Corners()
		assert.InDelta(t, 9, corners[0][0], 1e-9)
		assert.InDelta(t, 19, corners[0][1], 1e-9)
		assert.InDelta(t, 29, corners[0][2], 1e-9)
	})
}

func TestBox3DEdgePolyline(t *testing.T) {
	t.Parallel()

	b := Box3D{Center: Vec3{0, 0, 0}, Length: 2, Width: 2, Height: 2}
	polyline := b.EdgePolyline()
	require.Len(t, polyline, 16)

	// Every consecutive pair must span exactly one box edge.
	for i := 0; i+1 < len(polyline); i++ {
		d := 0.0
		for j := 0; j < 3; j++ {
			diff := polyline[i+1][j] - polyline[i][j]
			d += diff * diff
		}
		assert.InDelta(t, 4.0, d, 1e-9, "segment %d is not an edge", i)
	}
}

func TestBox2D(t *testing.T) {
	t.Parallel()

	t.Run("from slice", func(t *testing.T) {
		t.Parallel()
		b, err := Box2DFromSlice([]float64{10, 20, 30, 40})
		require.NoError(t, err)
		assert.Equal(t, Box2D{X1: 10, Y1: 20, X2: 30, Y2: 40}, b)
		assert.True(t, b.Visible())
	})

	t.Run("wrong length", func(t *testing.T) {
		t.Parallel()
		_, err := Box2DFromSlice([]float64{10, 20})
		assert.Error(t, err)
	})

	t.Run("negative sentinel not visible", func(t *testing.T) {
		t.Parallel()
		b, err := Box2DFromSlice([]float64{-1, -1, -1, -1})
		require.NoError(t, err)
		assert.False(t, b.Visible())
	})
}
