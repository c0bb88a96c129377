package transform

import "fmt"

// Box3D is an oriented 3D bounding box: center position, dimensions along
// the box axes and a yaw rotation about the Z axis. This matches the
// 7-element boxes_3d rows in sequence metadata: [cx cy cz l w h yaw].
type Box3D struct {
	Center Vec3
	Length float64 // extent along box X
	Width  float64 // extent along box Y
	Height float64 // extent along box Z
	Yaw    float64 // rotation about Z, radians
}

// Box3DFromSlice builds a Box3D from a 7-element metadata row.
func Box3DFromSlice(v []float64) (Box3D, error) {
	if len(v) != 7 {
		return Box3D{}, fmt.Errorf("3d box must have 7 elements (cx cy cz l w h yaw), got %d", len(v))
	}
	return Box3D{
		Center: Vec3{v[0], v[1], v[2]},
		Length: v[3],
		Width:  v[4],
		Height: v[5],
		Yaw:    v[6],
	}, nil
}

// Corners returns the 8 box corners in lidar-frame coordinates. Corner i
// has box-frame signs derived from the bits of i: bit 2 selects the X face,
// bit 1 the Y face and bit 0 the Z face.
func (b Box3D) Corners() [8]Vec3 {
	r := RotateZ(b.Yaw)
	var out [8]Vec3
	for i := 0; i < 8; i++ {
		lx := (float64((i>>2)&1) - 0.5) * b.Length
		ly := (float64((i>>1)&1) - 0.5) * b.Width
		lz := (float64(i&1) - 0.5) * b.Height
		out[i] = Vec3{
			r.At(0, 0)*lx + r.At(0, 1)*ly + b.Center[0],
			r.At(1, 0)*lx + r.At(1, 1)*ly + b.Center[1],
			lz + b.Center[2],
		}
	}
	return out
}

// boxEdgePath traces all 12 box edges as a single polyline over the corner
// indices produced by Corners.
var boxEdgePath = [16]int{0, 1, 3, 2, 0, 4, 5, 7, 6, 4, 5, 1, 3, 7, 6, 2}

// EdgePolyline returns the box corners ordered so that consecutive pairs
// trace every edge of the box, suitable for wireframe drawing.
func (b Box3D) EdgePolyline() []Vec3 {
	corners := b.Corners()
	out := make([]Vec3, len(boxEdgePath))
	for i, idx := range boxEdgePath {
		out[i] = corners[idx]
	}
	return out
}

// Box2D is an axis-aligned image-plane bounding box in pixel coordinates.
type Box2D struct {
	X1, Y1, X2, Y2 float64
}

// Box2DFromSlice builds a Box2D from a 4-element metadata row.
func Box2DFromSlice(v []float64) (Box2D, error) {
	if len(v) != 4 {
		return Box2D{}, fmt.Errorf("2d box must have 4 elements (x1 y1 x2 y2), got %d", len(v))
	}
	return Box2D{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, nil
}

// Visible reports whether the box marks a visible object. The dataset
// records boxes with a negative first coordinate for objects outside the
// camera's view.
func (b Box2D) Visible() bool {
	return b.X1 >= 0
}
