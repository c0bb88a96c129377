// Package dataset loads the on-disk ONCE dataset layout into an in-memory
// index and exposes per-frame accessors for annotations, point clouds and
// camera images.
//
// Expected layout:
//
//	root/
//	  ImageSets/<split>.txt          one sequence ID per line
//	  data/<seq>/<seq>.json          per-sequence metadata record
//	  data/<seq>/lidar_roof/<frame>.bin
//	  data/<seq>/<cam>/<frame>.jpg
//
// The index is built once by Open and is read-only afterwards, so a Dataset
// is safe for concurrent readers.
package dataset

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oncedata/oncekit/internal/fsutil"
)

// CameraNames lists the seven cameras mounted on the capture vehicle.
var CameraNames = []string{"cam01", "cam03", "cam05", "cam06", "cam07", "cam08", "cam09"}

// CameraTags gives the human-readable mounting position for each entry of
// CameraNames, in the same order.
var CameraTags = []string{"top", "top2", "left_back", "left_front", "right_front", "right_back", "back"}

// Classes is the fixed annotation class set.
var Classes = []string{"Car", "Truck", "Bus", "Pedestrian", "Cyclist"}

// KnownSplits lists the split names the dataset distribution ships manifests
// for. Open accepts any split name as long as its manifest exists.
var KnownSplits = []string{"train", "val", "test", "raw_small", "raw_medium", "raw_large"}

// CameraTag returns the mounting-position tag for a camera name, or the
// name itself if it is not one of the canonical cameras.
func CameraTag(camera string) string {
	for i, name := range CameraNames {
		if name == camera {
			return CameraTags[i]
		}
	}
	return camera
}

// Config describes where a dataset lives and which splits to index.
type Config struct {
	// Root is the dataset root directory, containing ImageSets/ and data/.
	Root string

	// Splits are the split names to load, e.g. ["train", "val"].
	Splits []string

	// FS overrides filesystem access; nil means the real filesystem.
	FS fsutil.FileSystem
}

// Validate checks the configuration before any file access.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("dataset root must not be empty")
	}
	if len(c.Splits) == 0 {
		return fmt.Errorf("at least one split must be requested")
	}
	return nil
}

// Dataset is the read-only handle over an indexed dataset root.
type Dataset struct {
	root      string
	fs        fsutil.FileSystem
	splits    map[string][]string // split -> sequence IDs in manifest order
	sequences map[string]*Sequence
}

// Open reads the split manifests and every referenced sequence metadata
// record, building the full index up front. Point clouds and images are not
// touched; they load lazily through the accessors.
func Open(cfg Config) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	fsys := cfg.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}

	d := &Dataset{
		root:      cfg.Root,
		fs:        fsys,
		splits:    make(map[string][]string, len(cfg.Splits)),
		sequences: make(map[string]*Sequence),
	}

	for _, split := range cfg.Splits {
		ids, err := d.loadManifest(split)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if prev, ok := d.sequences[id]; ok {
				return nil, fmt.Errorf("sequence %s listed in both %s and %s: %w",
					id, prev.Split, split, ErrMalformedMetadata)
			}
			seq, err := d.loadSequence(id, split)
			if err != nil {
				return nil, err
			}
			d.sequences[id] = seq
		}
		d.splits[split] = ids
	}

	return d, nil
}

// loadManifest reads ImageSets/<split>.txt and returns the listed sequence
// IDs. A missing manifest is an error, never an empty split.
func (d *Dataset) loadManifest(split string) ([]string, error) {
	path := filepath.Join(d.root, "ImageSets", split+".txt")
	data, err := d.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("split %s: %s: %w", split, path, ErrMissingManifest)
	}

	var ids []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		if seen[id] {
			return nil, fmt.Errorf("split %s: duplicate sequence %s: %w", split, id, ErrMalformedMetadata)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("split %s: read manifest: %w", split, err)
	}
	return ids, nil
}

// loadSequence reads and parses data/<seq>/<seq>.json.
func (d *Dataset) loadSequence(id, split string) (*Sequence, error) {
	path := filepath.Join(d.root, "data", id, id+".json")
	data, err := d.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sequence %s: read metadata: %w: %w", id, ErrMalformedMetadata, err)
	}
	seq, err := parseSequence(id, split, data)
	if err != nil {
		return nil, fmt.Errorf("sequence %s: %w: %w", id, ErrMalformedMetadata, err)
	}
	return seq, nil
}

// Splits returns the loaded split names.
func (d *Dataset) Splits() []string {
	out := make([]string, 0, len(d.splits))
	for split := range d.splits {
		out = append(out, split)
	}
	return out
}

// Sequences returns the sequence IDs for a loaded split, in manifest order.
func (d *Dataset) Sequences(split string) ([]string, error) {
	ids, ok := d.splits[split]
	if !ok {
		return nil, fmt.Errorf("split %s not loaded", split)
	}
	return ids, nil
}

// sequence resolves a sequence ID or fails with ErrUnknownSequence.
func (d *Dataset) sequence(seqID string) (*Sequence, error) {
	seq, ok := d.sequences[seqID]
	if !ok {
		return nil, fmt.Errorf("sequence %s: %w", seqID, ErrUnknownSequence)
	}
	return seq, nil
}

// frame resolves a (sequence, frame) pair or fails with ErrUnknownSequence
// or ErrUnknownFrame.
func (d *Dataset) frame(seqID, frameID string) (*Sequence, *Frame, error) {
	seq, err := d.sequence(seqID)
	if err != nil {
		return nil, nil, err
	}
	frame, ok := seq.Frames[frameID]
	if !ok {
		return nil, nil, fmt.Errorf("sequence %s frame %s: %w", seqID, frameID, ErrUnknownFrame)
	}
	return seq, frame, nil
}

// SplitOf returns the split a sequence belongs to.
func (d *Dataset) SplitOf(seqID string) (string, error) {
	seq, err := d.sequence(seqID)
	if err != nil {
		return "", err
	}
	return seq.Split, nil
}

// FrameIDs returns the sorted frame IDs of a sequence.
func (d *Dataset) FrameIDs(seqID string) ([]string, error) {
	seq, err := d.sequence(seqID)
	if err != nil {
		return nil, err
	}
	return seq.FrameIDs, nil
}

// Cameras returns the camera names registered for a sequence.
func (d *Dataset) Cameras(seqID string) ([]string, error) {
	seq, err := d.sequence(seqID)
	if err != nil {
		return nil, err
	}
	return seq.Cameras(), nil
}

// PointCloudPath returns the on-disk path of a frame's point cloud file.
// The path is derived from the layout alone; existence is not checked.
func (d *Dataset) PointCloudPath(seqID, frameID string) string {
	return filepath.Join(d.root, "data", seqID, "lidar_roof", frameID+".bin")
}

// ImagePath returns the on-disk path of a frame's image for one camera.
func (d *Dataset) ImagePath(seqID, frameID, camera string) string {
	return filepath.Join(d.root, "data", seqID, camera, frameID+".jpg")
}
