// Command dataset-info prints an inventory of a dataset root: sequences per
// split with their frame, camera and annotation counts.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"

	"github.com/oncedata/oncekit/dataset"
	"github.com/oncedata/oncekit/internal/version"
)

func main() {
	var (
		root        = flag.String("root", "", "dataset root directory (required)")
		splits      = flag.String("splits", "train,val,test", "comma-separated split names to index")
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

	ds, err := dataset.Open(dataset.Config{
		Root:   *root,
		Splits: strings.Split(*splits, ","),
	})
	if err != nil {
		log.Fatalf("open dataset: %v", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"split", "sequence", "frames", "cameras", "annotated", "objects"})

	for _, split := range strings.Split(*splits, ",") {
		seqIDs, err := ds.Sequences(split)
		if err != nil {
			log.Fatalf("list sequences: %v", err)
		}
		for _, seqID := range seqIDs {
			frameIDs, err := ds.FrameIDs(seqID)
			if err != nil {
				log.Fatalf("list frames: %v", err)
			}
			cameras, err := ds.Cameras(seqID)
			if err != nil {
				log.Fatalf("list cameras: %v", err)
			}

			annotated, objects := 0, 0
			for _, frameID := range frameIDs {
				annos, err := ds.GetFrameAnno(seqID, frameID)
				if err != nil {
					log.Fatalf("frame annotations: %v", err)
				}
				if len(annos) > 0 {
					annotated++
					objects += len(annos)
				}
			}

			table.Append([]string{
				split,
				seqID,
				fmt.Sprintf("%d", len(frameIDs)),
				fmt.Sprintf("%d", len(cameras)),
				fmt.Sprintf("%d", annotated),
				fmt.Sprintf("%d", objects),
			})
		}
	}

	table.Render()
}
