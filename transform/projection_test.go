package transform

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCalibration(t *testing.T) Calibration {
	t.Helper()
	calib, err := NewCalibration(
		[][]float64{
			{1, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0, 1},
		},
		[][]float64{
			{100, 0, 320},
			{0, 100, 240},
			{0, 0, 1},
		},
		[]float64{0, 0, 0, 0, 0},
		640, 480,
	)
	require.NoError(t, err)
	return calib
}

func TestNewCalibration(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		calib := testCalibration(t)
		assert.Equal(t, 640, calib.Width)
		assert.Equal(t, 480, calib.Height)
	})

	t.Run("bad cam_to_velo shape", func(t *testing.T) {
		t.Parallel()
		_, err := NewCalibration([][]float64{{1, 0}, {0, 1}}, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, nil, 0, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cam_to_velo")
	})

	t.Run("ragged intrinsic rows", func(t *testing.T) {
		t.Parallel()
		identity := [][]float64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
		_, err := NewCalibration(identity, [][]float64{{1, 0, 0}, {0, 1}, {0, 0, 1}}, nil, 0, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cam_intrinsic")
	})
}

func TestVeloToCam(t *testing.T) {
	t.Parallel()

	calib, err := NewCalibration(
		[][]float64{
			{1, 0, 0, 5},
			{0, 1, 0, -2},
			{0, 0, 1, 1},
			{0, 0, 0, 1},
		},
		[][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		nil, 0, 0,
	)
	require.NoError(t, err)

	inv, err := calib.VeloToCam()
	require.NoError(t, err)

	// The inverse of a pure translation negates the offset.
	assert.InDelta(t, -5, inv.At(0, 3), 1e-9)
	assert.InDelta(t, 2, inv.At(1, 3), 1e-9)
	assert.InDelta(t, -1, inv.At(2, 3), 1e-9)
}

func TestProjectToImage(t *testing.T) {
	t.Parallel()
	calib := testCalibration(t)

	t.Run("forward point lands near principal point", func(t *testing.T) {
		t.Parallel()
		proj, err := ProjectToImage([]Vec3{{0, 0, 10}}, calib)
		require.NoError(t, err)
		require.Len(t, proj, 1)
		assert.InDelta(t, 320, proj[0].U, 1e-9)
		assert.InDelta(t, 240, proj[0].V, 1e-9)
		assert.InDelta(t, 10, proj[0].Depth, 1e-9)
	})

	t.Run("offset point", func(t *testing.T) {
		t.Parallel()
		proj, err := ProjectToImage([]Vec3{{1, 2, 10}}, calib)
		require.NoError(t, err)
		require.Len(t, proj, 1)
		assert.InDelta(t, 330, proj[0].U, 1e-9) // 100*1/10 + 320
		assert.InDelta(t, 260, proj[0].V, 1e-9) // 100*2/10 + 240
	})

	t.Run("points behind camera dropped", func(t *testing.T) {
		t.Parallel()
		proj, err := ProjectToImage([]Vec3{{0, 0, -10}, {0, 0, 0}, {0, 0, 5}}, calib)
		require.NoError(t, err)
		require.Len(t, proj, 1)
		assert.Equal(t, 2, proj[0].Index)
	})

	t.Run("missing intrinsic", func(t *testing.T) {
		t.Parallel()
		calib := testCalibration(t)
		calib.Intrinsic = nil
		_, err := ProjectToImage([]Vec3{{0, 0, 1}}, calib)
		assert.Error(t, err)
	})
}

func TestUndistort(t *testing.T) {
	t.Parallel()

	newTestImage := func() *image.RGBA {
		img := image.NewRGBA(image.Rect(0, 0, 640, 480))
		for y := 0; y < 480; y++ {
			for x := 0; x < 640; x++ {
				img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 255})
			}
		}
		return img
	}

	t.Run("zero coefficients are identity", func(t *testing.T) {
		t.Parallel()
		calib := testCalibration(t)
		src := newTestImage()

		out, err := Undistort(src, calib)
		require.NoError(t, err)
		assert.Equal(t, src.Pix, out.Pix)
	})

	t.Run("radial distortion moves off-center pixels", func(t *testing.T) {
		t.Parallel()
		calib := testCalibration(t)
		calib.Distortion = []float64{0.2, 0, 0, 0, 0}
		src := newTestImage()

		out, err := Undistort(src, calib)
		require.NoError(t, err)

		// The principal point is a fixed point of the model.
		assert.Equal(t, src.RGBAAt(320, 240), out.RGBAAt(320, 240))
		// A far corner samples from a different source pixel.
		assert.NotEqual(t, src.RGBAAt(0, 0), out.RGBAAt(0, 0))
	})

	t.Run("zero focal length rejected", func(t *testing.T) {
		t.Parallel()
		calib := testCalibration(t)
		calib.Intrinsic.Set(0, 0, 0)
		_, err := Undistort(newTestImage(), calib)
		assert.Error(t, err)
	})
}
