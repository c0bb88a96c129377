// Command dataset-report renders an HTML report for a dataset root: object
// counts per class, annotated objects per sequence and a summary of point
// cloud sizes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/oncedata/oncekit/dataset"
	"github.com/oncedata/oncekit/internal/version"
)

type reportConfig struct {
	Root    string
	Splits  []string
	OutFile string
}

func main() {
	var (
		root        = flag.String("root", "", "dataset root directory (required)")
		splits      = flag.String("splits", "train,val", "comma-separated split names to index")
		out         = flag.String("out", "dataset-report.html", "output HTML file")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *root == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := reportConfig{
		Root:    *root,
		Splits:  strings.Split(*splits, ","),
		OutFile: *out,
	}
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg reportConfig) error {
	ds, err := dataset.Open(dataset.Config{Root: cfg.Root, Splits: cfg.Splits})
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}

	classCounts := make(map[string]int)
	seqObjects := make(map[string]int)
	var pointCounts []float64

	for _, split := range cfg.Splits {
		seqIDs, err := ds.Sequences(split)
		if err != nil {
			return err
		}
		for _, seqID := range seqIDs {
			frameIDs, err := ds.FrameIDs(seqID)
			if err != nil {
				return err
			}
			for _, frameID := range frameIDs {
				annos, err := ds.GetFrameAnno(seqID, frameID)
				if err != nil {
					return err
				}
				for _, anno := range annos {
					classCounts[anno.Class]++
					seqObjects[seqID]++
				}

				n, err := framePointCount(ds, seqID, frameID)
				if err != nil {
					return err
				}
				if n > 0 {
					pointCounts = append(pointCounts, float64(n))
				}
			}
		}
	}

	page := components.NewPage()
	page.AddCharts(classBar(classCounts), sequenceBar(seqObjects))

	f, err := os.Create(cfg.OutFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	logPointSummary(pointCounts)
	log.Infof("report written to %s", cfg.OutFile)
	return nil
}

// framePointCount prefers the declared num_points from metadata and falls
// back to decoding the cloud. Frames without a point cloud file on disk are
// skipped with a warning rather than aborting the report.
func framePointCount(ds *dataset.Dataset, seqID, frameID string) (int, error) {
	frame, err := ds.Frame(seqID, frameID)
	if err != nil {
		return 0, err
	}
	if frame.NumPoints > 0 {
		return frame.NumPoints, nil
	}

	cloud, err := ds.LoadPointCloud(seqID, frameID)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warnf("sequence %s frame %s: no point cloud file", seqID, frameID)
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(cloud), nil
}

func classBar(counts map[string]int) *charts.Bar {
	data := make([]opts.BarData, 0, len(dataset.Classes))
	for _, class := range dataset.Classes {
		data = append(data, opts.BarData{Value: counts[class]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Objects per class"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(dataset.Classes).AddSeries("objects", data)
	return bar
}

func sequenceBar(counts map[string]int) *charts.Bar {
	seqIDs := make([]string, 0, len(counts))
	for seqID := range counts {
		seqIDs = append(seqIDs, seqID)
	}
	sort.Strings(seqIDs)

	data := make([]opts.BarData, 0, len(seqIDs))
	for _, seqID := range seqIDs {
		data = append(data, opts.BarData{Value: counts[seqID]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Objects per sequence"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(seqIDs).AddSeries("objects", data)
	return bar
}

func logPointSummary(counts []float64) {
	if len(counts) == 0 {
		return
	}
	sort.Float64s(counts)
	log.Infof("point clouds: n=%d mean=%.0f stddev=%.0f median=%.0f",
		len(counts),
		stat.Mean(counts, nil),
		stat.StdDev(counts, nil),
		stat.Quantile(0.5, stat.Empirical, counts, nil),
	)
}
