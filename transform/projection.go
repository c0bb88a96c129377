package transform

import (
	"fmt"
	"image"
	"math"
)

// ImagePoint is a lidar point projected into pixel coordinates.
type ImagePoint struct {
	U, V  float64 // pixel column, row
	Depth float64 // camera-frame depth in meters (always > 0)
	Index int     // index of the source point in the input slice
}

// ProjectToImage projects lidar-frame points into pixel coordinates for the
// given camera. Points at or behind the camera plane are dropped, so the
// result may be shorter than the input; Index records the source point.
func ProjectToImage(pts []Vec3, calib Calibration) ([]ImagePoint, error) {
	veloToCam, err := calib.VeloToCam()
	if err != nil {
		return nil, err
	}
	if calib.Intrinsic == nil {
		return nil, fmt.Errorf("calibration has no intrinsic matrix")
	}
	k := calib.Intrinsic

	out := make([]ImagePoint, 0, len(pts))
	for i, p := range pts {
		// Homogeneous transform into the camera frame.
		cx := veloToCam.At(0, 0)*p[0] + veloToCam.At(0, 1)*p[1] + veloToCam.At(0, 2)*p[2] + veloToCam.At(0, 3)
		cy := veloToCam.At(1, 0)*p[0] + veloToCam.At(1, 1)*p[1] + veloToCam.At(1, 2)*p[2] + veloToCam.At(1, 3)
		cz := veloToCam.At(2, 0)*p[0] + veloToCam.At(2, 1)*p[1] + veloToCam.At(2, 2)*p[2] + veloToCam.At(2, 3)
		if cz <= 0 {
			continue
		}

		u := (k.At(0, 0)*cx + k.At(0, 1)*cy + k.At(0, 2)*cz) / cz
		v := (k.At(1, 0)*cx + k.At(1, 1)*cy + k.At(1, 2)*cz) / cz
		out = append(out, ImagePoint{U: u, V: v, Depth: cz, Index: i})
	}
	return out, nil
}

// Undistort corrects lens distortion using the Brown-Conrady model with the
// calibration's k1 k2 p1 p2 [k3] coefficients. Each destination pixel is
// mapped through the distortion model and sampled from the source image with
// nearest-neighbour lookup. With no (or all-zero) coefficients the output
// equals the input.
func Undistort(img image.Image, calib Calibration) (*image.RGBA, error) {
	if calib.Intrinsic == nil {
		return nil, fmt.Errorf("calibration has no intrinsic matrix")
	}
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)

	fx, fy := calib.Intrinsic.At(0, 0), calib.Intrinsic.At(1, 1)
	cx, cy := calib.Intrinsic.At(0, 2), calib.Intrinsic.At(1, 2)
	if fx == 0 || fy == 0 {
		return nil, fmt.Errorf("intrinsic matrix has zero focal length")
	}

	var k1, k2, p1, p2, k3 float64
	d := calib.Distortion
	if len(d) > 0 {
		k1 = d[0]
	}
	if len(d) > 1 {
		k2 = d[1]
	}
	if len(d) > 2 {
		p1 = d[2]
	}
	if len(d) > 3 {
		p2 = d[3]
	}
	if len(d) > 4 {
		k3 = d[4]
	}

	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			// Normalised camera coordinates of the destination pixel.
			x := (float64(px) - cx) / fx
			y := (float64(py) - cy) / fy

			r2 := x*x + y*y
			radial := 1 + k1*r2 + k2*r2*r2 + k3*r2*r2*r2
			xd := x*radial + 2*p1*x*y + p2*(r2+2*x*x)
			yd := y*radial + p1*(r2+2*y*y) + 2*p2*x*y

			sx := int(math.Round(fx*xd + cx))
			sy := int(math.Round(fy*yd + cy))
			if sx < bounds.Min.X || sx >= bounds.Max.X || sy < bounds.Min.Y || sy >= bounds.Max.Y {
				continue
			}
			out.Set(px, py, img.At(sx, sy))
		}
	}
	return out, nil
}
