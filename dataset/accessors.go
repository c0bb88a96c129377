package dataset

import (
	"fmt"
	"image"

	"github.com/oncedata/oncekit/imageio"
	"github.com/oncedata/oncekit/pointcloud"
	"github.com/oncedata/oncekit/transform"
)

// Frame returns the parsed per-frame metadata record.
func (d *Dataset) Frame(seqID, frameID string) (*Frame, error) {
	_, frame, err := d.frame(seqID, frameID)
	if err != nil {
		return nil, err
	}
	return frame, nil
}

// GetFrameAnno returns the annotation list for a frame. A frame present in
// the index with no annotations (e.g. test split frames) yields an empty
// list; only keys absent from the index are errors.
func (d *Dataset) GetFrameAnno(seqID, frameID string) ([]Annotation, error) {
	_, frame, err := d.frame(seqID, frameID)
	if err != nil {
		return nil, err
	}
	return frame.Annotations, nil
}

// FramePose returns the recorded world pose of a frame.
func (d *Dataset) FramePose(seqID, frameID string) (transform.Pose, error) {
	_, frame, err := d.frame(seqID, frameID)
	if err != nil {
		return transform.Pose{}, err
	}
	return frame.Pose, nil
}

// Calib returns the calibration for one camera of a sequence, failing with
// ErrUnknownCamera when the camera is not registered.
func (d *Dataset) Calib(seqID, camera string) (transform.Calibration, error) {
	seq, err := d.sequence(seqID)
	if err != nil {
		return transform.Calibration{}, err
	}
	calib, ok := seq.Calib[camera]
	if !ok {
		return transform.Calibration{}, fmt.Errorf("sequence %s camera %s: %w", seqID, camera, ErrUnknownCamera)
	}
	return calib, nil
}

// LoadPointCloud resolves the frame's binary point cloud file and decodes
// it. A missing file propagates the underlying fs.ErrNotExist.
func (d *Dataset) LoadPointCloud(seqID, frameID string) (pointcloud.Cloud, error) {
	if _, _, err := d.frame(seqID, frameID); err != nil {
		return nil, err
	}

	path := d.PointCloudPath(seqID, frameID)
	f, err := d.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cloud, err := pointcloud.Read(f)
	if err != nil {
		return nil, fmt.Errorf("sequence %s frame %s: %w", seqID, frameID, err)
	}
	return cloud, nil
}

// LoadImage resolves and decodes the frame's image for one camera, failing
// with ErrUnknownCamera when the camera is not registered for the sequence.
// A missing file propagates the underlying fs.ErrNotExist.
func (d *Dataset) LoadImage(seqID, frameID, camera string) (image.Image, error) {
	seq, _, err := d.frame(seqID, frameID)
	if err != nil {
		return nil, err
	}
	if _, ok := seq.Calib[camera]; !ok {
		return nil, fmt.Errorf("sequence %s camera %s: %w", seqID, camera, ErrUnknownCamera)
	}

	path := d.ImagePath(seqID, frameID, camera)
	f, err := d.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := imageio.DecodeJPEG(f)
	if err != nil {
		return nil, fmt.Errorf("sequence %s frame %s camera %s: %w", seqID, frameID, camera, err)
	}
	return img, nil
}
