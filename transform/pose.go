// Package transform provides the rigid-body and camera geometry used by the
// devkit: frame poses, sensor calibration, lidar-to-image projection and
// oriented bounding boxes.
package transform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vec3 is a point or vector in 3D space, in meters.
type Vec3 [3]float64

// Pose is a rigid transform from the sensor frame into the world frame,
// stored as a unit quaternion plus translation. This matches the 7-element
// pose arrays recorded in sequence metadata: [qx qy qz qw tx ty tz].
type Pose struct {
	Quat  [4]float64 // x, y, z, w
	Trans Vec3
}

// PoseFromSlice builds a Pose from a 7-element metadata array.
func PoseFromSlice(v []float64) (Pose, error) {
	if len(v) != 7 {
		return Pose{}, fmt.Errorf("pose must have 7 elements (qx qy qz qw tx ty tz), got %d", len(v))
	}
	return Pose{
		Quat:  [4]float64{v[0], v[1], v[2], v[3]},
		Trans: Vec3{v[4], v[5], v[6]},
	}, nil
}

// IsZero reports whether the pose is entirely unset. A zero quaternion does
// not describe a rotation, so callers should treat such poses as missing.
func (p Pose) IsZero() bool {
	return p.Quat == [4]float64{} && p.Trans == Vec3{}
}

// RotationMatrix returns the 3x3 rotation matrix for the pose quaternion.
// The quaternion is normalised first; a zero quaternion yields identity.
func (p Pose) RotationMatrix() *mat.Dense {
	x, y, z, w := p.Quat[0], p.Quat[1], p.Quat[2], p.Quat[3]
	n := math.Sqrt(x*x + y*y + z*z + w*w)
	if n == 0 {
		return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	}
	x, y, z, w = x/n, y/n, z/n, w/n

	return mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w),
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w),
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y),
	})
}

// Apply transforms a sensor-frame point into the world frame.
func (p Pose) Apply(pt Vec3) Vec3 {
	r := p.RotationMatrix()
	return Vec3{
		r.At(0, 0)*pt[0] + r.At(0, 1)*pt[1] + r.At(0, 2)*pt[2] + p.Trans[0],
		r.At(1, 0)*pt[0] + r.At(1, 1)*pt[1] + r.At(1, 2)*pt[2] + p.Trans[1],
		r.At(2, 0)*pt[0] + r.At(2, 1)*pt[1] + r.At(2, 2)*pt[2] + p.Trans[2],
	}
}

// ApplyAll transforms sensor-frame points into the world frame, optionally
// shifting the result by -origin so clouds from consecutive frames can be
// accumulated around a common reference point.
func (p Pose) ApplyAll(pts []Vec3, origin Vec3) []Vec3 {
	r := p.RotationMatrix()
	out := make([]Vec3, len(pts))
	for i, pt := range pts {
		out[i] = Vec3{
			r.At(0, 0)*pt[0] + r.At(0, 1)*pt[1] + r.At(0, 2)*pt[2] + p.Trans[0] - origin[0],
			r.At(1, 0)*pt[0] + r.At(1, 1)*pt[1] + r.At(1, 2)*pt[2] + p.Trans[1] - origin[1],
			r.At(2, 0)*pt[0] + r.At(2, 1)*pt[1] + r.At(2, 2)*pt[2] + p.Trans[2] - origin[2],
		}
	}
	return out
}

// RotateZ returns the rotation matrix for a yaw angle about the Z axis.
func RotateZ(theta float64) *mat.Dense {
	c, s := math.Cos(theta), math.Sin(theta)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}
