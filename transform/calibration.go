package transform

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Calibration holds the per-camera calibration recorded in sequence
// metadata: the camera-to-lidar rigid transform, the pinhole intrinsic
// matrix, lens distortion coefficients and the declared image resolution.
type Calibration struct {
	CamToVelo  *mat.Dense // 4x4 rigid transform, camera frame -> lidar frame
	Intrinsic  *mat.Dense // 3x3 pinhole matrix
	Distortion []float64  // k1 k2 p1 p2 [k3 ...], zero or absent = no distortion
	Width      int        // declared image width in pixels
	Height     int        // declared image height in pixels
}

// NewCalibration validates the raw metadata matrices and builds a
// Calibration. CamToVelo must be 4x4 and Intrinsic 3x3.
func NewCalibration(camToVelo, intrinsic [][]float64, distortion []float64, width, height int) (Calibration, error) {
	ctv, err := denseFromRows(camToVelo, 4, 4)
	if err != nil {
		return Calibration{}, fmt.Errorf("cam_to_velo: %w", err)
	}
	k, err := denseFromRows(intrinsic, 3, 3)
	if err != nil {
		return Calibration{}, fmt.Errorf("cam_intrinsic: %w", err)
	}
	return Calibration{
		CamToVelo:  ctv,
		Intrinsic:  k,
		Distortion: distortion,
		Width:      width,
		Height:     height,
	}, nil
}

// VeloToCam returns the inverse of CamToVelo, mapping lidar-frame points
// into the camera frame.
func (c Calibration) VeloToCam() (*mat.Dense, error) {
	if c.CamToVelo == nil {
		return nil, fmt.Errorf("calibration has no cam_to_velo transform")
	}
	var inv mat.Dense
	if err := inv.Inverse(c.CamToVelo); err != nil {
		return nil, fmt.Errorf("invert cam_to_velo: %w", err)
	}
	return &inv, nil
}

// denseFromRows converts a row-major [][]float64 into a Dense matrix,
// checking the expected shape.
func denseFromRows(rows [][]float64, r, c int) (*mat.Dense, error) {
	if len(rows) != r {
		return nil, fmt.Errorf("expected %dx%d matrix, got %d rows", r, c, len(rows))
	}
	data := make([]float64, 0, r*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("expected %dx%d matrix, row %d has %d columns", r, c, i, len(row))
		}
		data = append(data, row...)
	}
	return mat.NewDense(r, c, data), nil
}
