package dataset

import (
	"fmt"
	"image"

	"github.com/oncedata/oncekit/pointcloud"
	"github.com/oncedata/oncekit/transform"
)

// UndistortImage loads a camera image and corrects its lens distortion
// using the sequence calibration.
func (d *Dataset) UndistortImage(seqID, frameID, camera string) (*image.RGBA, error) {
	img, err := d.LoadImage(seqID, frameID, camera)
	if err != nil {
		return nil, err
	}
	calib, err := d.Calib(seqID, camera)
	if err != nil {
		return nil, err
	}
	out, err := transform.Undistort(img, calib)
	if err != nil {
		return nil, fmt.Errorf("sequence %s frame %s camera %s: %w", seqID, frameID, camera, err)
	}
	return out, nil
}

// ProjectPointCloud loads the frame's point cloud and projects it into the
// pixel coordinates of one camera. Points behind the camera are dropped.
func (d *Dataset) ProjectPointCloud(seqID, frameID, camera string) ([]transform.ImagePoint, error) {
	cloud, err := d.LoadPointCloud(seqID, frameID)
	if err != nil {
		return nil, err
	}
	calib, err := d.Calib(seqID, camera)
	if err != nil {
		return nil, err
	}

	pts := make([]transform.Vec3, len(cloud))
	for i, p := range cloud {
		pts[i] = transform.Vec3{float64(p.X), float64(p.Y), float64(p.Z)}
	}
	proj, err := transform.ProjectToImage(pts, calib)
	if err != nil {
		return nil, fmt.Errorf("sequence %s frame %s camera %s: %w", seqID, frameID, camera, err)
	}
	return proj, nil
}

// ProjectBoxes projects each 3D annotation box of a frame into one camera
// as a wireframe polyline. Boxes partially behind the camera plane are
// dropped, since their polylines would be incomplete.
func (d *Dataset) ProjectBoxes(seqID, frameID, camera string) ([][]transform.ImagePoint, error) {
	annos, err := d.GetFrameAnno(seqID, frameID)
	if err != nil {
		return nil, err
	}
	calib, err := d.Calib(seqID, camera)
	if err != nil {
		return nil, err
	}

	var out [][]transform.ImagePoint
	for _, anno := range annos {
		polyline := anno.Box3D.EdgePolyline()
		proj, err := transform.ProjectToImage(polyline, calib)
		if err != nil {
			return nil, fmt.Errorf("sequence %s frame %s camera %s: %w", seqID, frameID, camera, err)
		}
		if len(proj) != len(polyline) {
			continue
		}
		out = append(out, proj)
	}
	return out, nil
}

// ConcatFrames accumulates the point clouds of count consecutive frames
// starting at frameID into the coordinate frame of the starting frame,
// using each frame's recorded world pose. count zero returns just the
// starting frame's cloud.
func (d *Dataset) ConcatFrames(seqID, frameID string, count int) (pointcloud.Cloud, error) {
	seq, _, err := d.frame(seqID, frameID)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("concat count must be non-negative, got %d", count)
	}

	start := -1
	for i, id := range seq.FrameIDs {
		if id == frameID {
			start = i
			break
		}
	}
	if start+count >= len(seq.FrameIDs) {
		return nil, fmt.Errorf("sequence %s: concat of %d frames from %s exceeds sequence length: %w",
			seqID, count+1, frameID, ErrUnknownFrame)
	}

	var origin transform.Vec3
	var merged pointcloud.Cloud
	for i := start; i <= start+count; i++ {
		id := seq.FrameIDs[i]
		frame := seq.Frames[id]
		if frame.Pose.IsZero() {
			return nil, fmt.Errorf("sequence %s frame %s has no pose", seqID, id)
		}
		if i == start {
			origin = frame.Pose.Trans
		}

		cloud, err := d.LoadPointCloud(seqID, id)
		if err != nil {
			return nil, err
		}
		pts := make([]transform.Vec3, len(cloud))
		for j, p := range cloud {
			pts[j] = transform.Vec3{float64(p.X), float64(p.Y), float64(p.Z)}
		}
		world := frame.Pose.ApplyAll(pts, origin)
		for j, w := range world {
			merged = append(merged, pointcloud.Point{
				X:         float32(w[0]),
				Y:         float32(w[1]),
				Z:         float32(w[2]),
				Intensity: cloud[j].Intensity,
			})
		}
	}
	return merged, nil
}
