package dataset

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/oncedata/oncekit/transform"
)

// Annotation is a single labeled object instance within a frame: a class
// from the fixed 5-class set, an oriented 3D box in the lidar frame and,
// where the object is visible, per-camera 2D boxes in pixel coordinates.
type Annotation struct {
	Class   string
	Box3D   transform.Box3D
	Boxes2D map[string]transform.Box2D
}

// Frame is the per-frame metadata loaded from a sequence record.
type Frame struct {
	ID          string
	Pose        transform.Pose
	NumPoints   int // declared point count, 0 when not recorded
	Annotations []Annotation
}

// Sequence is the in-memory record for one sequence: its split membership,
// per-camera calibration and frames keyed by frame ID.
type Sequence struct {
	ID       string
	Split    string
	Calib    map[string]transform.Calibration
	Frames   map[string]*Frame
	FrameIDs []string // sorted
}

// Cameras returns the camera names registered for the sequence, in the
// canonical CameraNames order followed by any extras sorted by name.
func (s *Sequence) Cameras() []string {
	out := make([]string, 0, len(s.Calib))
	seen := make(map[string]bool, len(s.Calib))
	for _, name := range CameraNames {
		if _, ok := s.Calib[name]; ok {
			out = append(out, name)
			seen[name] = true
		}
	}
	var extra []string
	for name := range s.Calib {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Raw on-disk shapes of the per-sequence JSON record. These are decoded and
// immediately converted into the typed structures above; nothing outside
// this file touches them.

type rawSequence struct {
	Calib  map[string]rawCalib `json:"calib"`
	Frames []rawFrame          `json:"frames"`
}

type rawCalib struct {
	CamToVelo    [][]float64 `json:"cam_to_velo"`
	CamIntrinsic [][]float64 `json:"cam_intrinsic"`
	Distortion   []float64   `json:"distortion"`
	Width        int         `json:"width"`
	Height       int         `json:"height"`
}

type rawFrame struct {
	FrameID   frameID   `json:"frame_id"`
	Pose      []float64 `json:"pose"`
	NumPoints int       `json:"num_points"`
	Annos     *rawAnnos `json:"annos"`
}

type rawAnnos struct {
	Names   []string               `json:"names"`
	Boxes3D [][]float64            `json:"boxes_3d"`
	Boxes2D map[string][][]float64 `json:"boxes_2d"`
}

// frameID accepts both string and numeric frame IDs; recorded sequences use
// integer timestamps, fixtures often use short strings.
type frameID string

func (f *frameID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = frameID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = frameID(n.String())
	return nil
}

// parseSequence decodes and validates a raw metadata record. All structural
// problems are reported against the sequence ID; callers wrap the result
// with ErrMalformedMetadata.
func parseSequence(id, split string, data []byte) (*Sequence, error) {
	var raw rawSequence
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	seq := &Sequence{
		ID:     id,
		Split:  split,
		Calib:  make(map[string]transform.Calibration, len(raw.Calib)),
		Frames: make(map[string]*Frame, len(raw.Frames)),
	}

	for cam, rc := range raw.Calib {
		calib, err := transform.NewCalibration(rc.CamToVelo, rc.CamIntrinsic, rc.Distortion, rc.Width, rc.Height)
		if err != nil {
			return nil, fmt.Errorf("camera %s: %w", cam, err)
		}
		seq.Calib[cam] = calib
	}

	for i, rf := range raw.Frames {
		fid := string(rf.FrameID)
		if fid == "" {
			return nil, fmt.Errorf("frame %d: missing frame_id", i)
		}
		if _, dup := seq.Frames[fid]; dup {
			return nil, fmt.Errorf("duplicate frame id %q", fid)
		}

		frame := &Frame{ID: fid, NumPoints: rf.NumPoints}
		if len(rf.Pose) > 0 {
			pose, err := transform.PoseFromSlice(rf.Pose)
			if err != nil {
				return nil, fmt.Errorf("frame %s: %w", fid, err)
			}
			frame.Pose = pose
		}
		if rf.Annos != nil {
			annos, err := parseAnnotations(rf.Annos)
			if err != nil {
				return nil, fmt.Errorf("frame %s: %w", fid, err)
			}
			frame.Annotations = annos
		}

		seq.Frames[fid] = frame
		seq.FrameIDs = append(seq.FrameIDs, fid)
	}
	sort.Strings(seq.FrameIDs)

	return seq, nil
}

func parseAnnotations(raw *rawAnnos) ([]Annotation, error) {
	if len(raw.Names) != len(raw.Boxes3D) {
		return nil, fmt.Errorf("annos has %d names but %d boxes_3d", len(raw.Names), len(raw.Boxes3D))
	}
	for cam, boxes := range raw.Boxes2D {
		if len(boxes) != len(raw.Names) {
			return nil, fmt.Errorf("annos has %d names but %d boxes_2d for camera %s", len(raw.Names), len(boxes), cam)
		}
	}

	annos := make([]Annotation, 0, len(raw.Names))
	for i, name := range raw.Names {
		if !validClass(name) {
			return nil, fmt.Errorf("annotation %d: unknown class %q", i, name)
		}
		box, err := transform.Box3DFromSlice(raw.Boxes3D[i])
		if err != nil {
			return nil, fmt.Errorf("annotation %d: %w", i, err)
		}

		anno := Annotation{Class: name, Box3D: box}
		for cam, boxes := range raw.Boxes2D {
			b2, err := transform.Box2DFromSlice(boxes[i])
			if err != nil {
				return nil, fmt.Errorf("annotation %d camera %s: %w", i, cam, err)
			}
			if !b2.Visible() {
				continue
			}
			if anno.Boxes2D == nil {
				anno.Boxes2D = make(map[string]transform.Box2D)
			}
			anno.Boxes2D[cam] = b2
		}
		annos = append(annos, anno)
	}
	return annos, nil
}

func validClass(name string) bool {
	for _, c := range Classes {
		if c == name {
			return true
		}
	}
	return false
}
