// Package pointcloud reads and writes the fixed-width binary point cloud
// files stored alongside each frame (lidar_roof/<frame>.bin).
package pointcloud

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Point is a single lidar return: sensor-frame coordinates in meters plus
// the laser return intensity.
type Point struct {
	X, Y, Z   float32
	Intensity float32
}

// PointSize is the on-disk size of one point record: four little-endian
// float32 values (x, y, z, intensity).
const PointSize = 16

// Cloud is a decoded point cloud.
type Cloud []Point

// Decode parses a binary point cloud blob. The blob must be a whole number
// of 16-byte records.
func Decode(data []byte) (Cloud, error) {
	if len(data)%PointSize != 0 {
		return nil, fmt.Errorf("truncated point cloud: %d bytes is not a multiple of %d", len(data), PointSize)
	}

	points := make(Cloud, len(data)/PointSize)
	for i := range points {
		offset := i * PointSize
		points[i] = Point{
			X:         math.Float32frombits(binary.LittleEndian.Uint32(data[offset:])),
			Y:         math.Float32frombits(binary.LittleEndian.Uint32(data[offset+4:])),
			Z:         math.Float32frombits(binary.LittleEndian.Uint32(data[offset+8:])),
			Intensity: math.Float32frombits(binary.LittleEndian.Uint32(data[offset+12:])),
		}
	}
	return points, nil
}

// Read decodes a point cloud from r, consuming it to EOF.
func Read(r io.Reader) (Cloud, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read point cloud: %w", err)
	}
	return Decode(data)
}

// Encode serialises a cloud into the on-disk binary format.
func Encode(c Cloud) []byte {
	blob := make([]byte, len(c)*PointSize)
	for i, p := range c {
		offset := i * PointSize
		binary.LittleEndian.PutUint32(blob[offset:], math.Float32bits(p.X))
		binary.LittleEndian.PutUint32(blob[offset+4:], math.Float32bits(p.Y))
		binary.LittleEndian.PutUint32(blob[offset+8:], math.Float32bits(p.Z))
		binary.LittleEndian.PutUint32(blob[offset+12:], math.Float32bits(p.Intensity))
	}
	return blob
}

// WriteFile encodes a cloud and writes it to path.
func WriteFile(path string, c Cloud) error {
	if err := os.WriteFile(path, Encode(c), 0o644); err != nil {
		return fmt.Errorf("write point cloud: %w", err)
	}
	return nil
}
