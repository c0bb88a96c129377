// Command export-frames renders per-frame visualisations for one sequence:
// camera images overlaid with projected lidar points and annotation boxes,
// a bird's-eye-view plot of the point cloud, and a manifest describing the
// export.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/oncedata/oncekit/dataset"
	"github.com/oncedata/oncekit/imageio"
	"github.com/oncedata/oncekit/internal/version"
	"github.com/oncedata/oncekit/pointcloud"
)

type exportConfig struct {
	Root      string
	Splits    []string
	SeqID     string
	FrameID   string
	Cameras   []string
	OutDir    string
	Undistort bool
	BEV       bool
	Concat    int
	Quality   int
}

// exportManifest is written alongside the rendered files so downstream
// pipelines can locate and attribute an export run.
type exportManifest struct {
	ExportID  string    `json:"export_id"`
	CreatedAt time.Time `json:"created_at"`
	Root      string    `json:"root"`
	SeqID     string    `json:"seq_id"`
	FrameID   string    `json:"frame_id"`
	Files     []string  `json:"files"`
}

var (
	pointColor = color.RGBA{R: 255, A: 255}
	boxColor   = color.RGBA{G: 255, A: 255}
	box2DColor = color.RGBA{B: 255, A: 255}
)

func main() {
	var (
		root        = flag.String("root", "", "dataset root directory (required)")
		splits      = flag.String("splits", "train,val,test", "comma-separated split names to index")
		seqID       = flag.String("seq", "", "sequence ID to export (required)")
		frameID     = flag.String("frame", "", "frame ID to export (required)")
		cameras     = flag.String("cameras", "", "comma-separated cameras (default: all registered)")
		outDir      = flag.String("out", "export", "output directory")
		undistort   = flag.Bool("undistort", true, "correct lens distortion before drawing overlays")
		bev         = flag.Bool("bev", true, "render a bird's-eye-view PNG of the point cloud")
		concat      = flag.Int("concat", 0, "accumulate this many following frames into the BEV")
		quality     = flag.Int("quality", 90, "JPEG quality for exported images")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *root == "" || *seqID == "" || *frameID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := exportConfig{
		Root:      *root,
		Splits:    strings.Split(*splits, ","),
		SeqID:     *seqID,
		FrameID:   *frameID,
		OutDir:    *outDir,
		Undistort: *undistort,
		BEV:       *bev,
		Concat:    *concat,
		Quality:   *quality,
	}
	if *cameras != "" {
		cfg.Cameras = strings.Split(*cameras, ",")
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg exportConfig) error {
	ds, err := dataset.Open(dataset.Config{Root: cfg.Root, Splits: cfg.Splits})
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return err
	}

	cams := cfg.Cameras
	if len(cams) == 0 {
		cams, err = ds.Cameras(cfg.SeqID)
		if err != nil {
			return err
		}
	}

	manifest := exportManifest{
		ExportID:  uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Root:      cfg.Root,
		SeqID:     cfg.SeqID,
		FrameID:   cfg.FrameID,
	}

	for _, cam := range cams {
		path, err := exportCamera(ds, cfg, cam)
		if err != nil {
			return err
		}
		manifest.Files = append(manifest.Files, path)
		log.Infof("wrote %s", path)
	}

	if cfg.BEV {
		path, err := exportBEV(ds, cfg)
		if err != nil {
			return err
		}
		manifest.Files = append(manifest.Files, path)
		log.Infof("wrote %s", path)
	}

	manifestPath := filepath.Join(cfg.OutDir, "manifest.json")
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return err
	}
	log.Infof("export %s complete: %d files", manifest.ExportID, len(manifest.Files))
	return nil
}

// exportCamera renders one camera's image with projected lidar points, 3D
// box wireframes and 2D boxes, and writes it as JPEG.
func exportCamera(ds *dataset.Dataset, cfg exportConfig, cam string) (string, error) {
	img, err := loadCameraImage(ds, cfg, cam)
	if err != nil {
		return "", err
	}

	proj, err := ds.ProjectPointCloud(cfg.SeqID, cfg.FrameID, cam)
	if err != nil {
		return "", err
	}
	for _, p := range proj {
		imageio.DrawDot(img, int(p.U), int(p.V), 2, pointColor)
	}

	boxes, err := ds.ProjectBoxes(cfg.SeqID, cfg.FrameID, cam)
	if err != nil {
		return "", err
	}
	for _, polyline := range boxes {
		for i := 0; i+1 < len(polyline); i++ {
			imageio.DrawLine(img,
				int(polyline[i].U), int(polyline[i].V),
				int(polyline[i+1].U), int(polyline[i+1].V),
				2, boxColor)
		}
	}

	annos, err := ds.GetFrameAnno(cfg.SeqID, cfg.FrameID)
	if err != nil {
		return "", err
	}
	for _, anno := range annos {
		if b, ok := anno.Boxes2D[cam]; ok {
			imageio.DrawRect(img, int(b.X1), int(b.Y1), int(b.X2), int(b.Y2), 2, box2DColor)
		}
	}

	path := filepath.Join(cfg.OutDir, fmt.Sprintf("%s_%s_%s.jpg", cfg.SeqID, cfg.FrameID, cam))
	if err := imageio.SaveJPEG(path, img, cfg.Quality); err != nil {
		return "", err
	}
	return path, nil
}

func loadCameraImage(ds *dataset.Dataset, cfg exportConfig, cam string) (*image.RGBA, error) {
	if cfg.Undistort {
		img, err := ds.UndistortImage(cfg.SeqID, cfg.FrameID, cam)
		if err != nil {
			return nil, err
		}
		return img, nil
	}
	img, err := ds.LoadImage(cfg.SeqID, cfg.FrameID, cam)
	if err != nil {
		return nil, err
	}
	return imageio.ToRGBA(img), nil
}

// exportBEV renders a top-down scatter of the frame's point cloud (or the
// accumulated cloud when -concat is set) and writes it as PNG.
func exportBEV(ds *dataset.Dataset, cfg exportConfig) (string, error) {
	var cloud pointcloud.Cloud
	var err error
	if cfg.Concat > 0 {
		cloud, err = ds.ConcatFrames(cfg.SeqID, cfg.FrameID, cfg.Concat)
	} else {
		cloud, err = ds.LoadPointCloud(cfg.SeqID, cfg.FrameID)
	}
	if err != nil {
		return "", err
	}

	pts := make(plotter.XYs, len(cloud))
	for i, p := range cloud {
		pts[i].X = float64(p.X)
		pts[i].Y = float64(p.Y)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s frame %s (%d points)", cfg.SeqID, cfg.FrameID, len(cloud))
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return "", fmt.Errorf("build scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(0.5)
	p.Add(scatter)

	path := filepath.Join(cfg.OutDir, fmt.Sprintf("%s_%s_bev.png", cfg.SeqID, cfg.FrameID))
	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save bev plot: %w", err)
	}
	return path, nil
}
