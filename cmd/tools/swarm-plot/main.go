// Command swarm-plot renders the spawn/despawn history of a recorded swarm
// run from the sqlite event log to a PNG scatter plot. Spawn positions are
// plotted in world frame; the point count in the title gives a quick sense
// of how busy the run was.
package main

import (
	"flag"
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/roadsim/swarm/internal/storage/sqlite"
)

func main() {
	var (
		dbPath  = flag.String("db", "swarm.db", "sqlite event log path")
		runID   = flag.String("run", "", "run id (empty picks the latest run)")
		outPath = flag.String("out", "swarm-run.png", "output PNG path")
	)
	flag.Parse()

	if err := run(*dbPath, *runID, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "swarm-plot: %v\n", err)
		os.Exit(1)
	}
}

func run(dbPath, runID, outPath string) error {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	store := sqlite.NewEventStore(db, nil)
	if runID == "" {
		runID, err = store.LatestRunID()
		if err != nil {
			return err
		}
	}

	events, err := store.ListEvents(runID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("run %s has no events", runID)
	}

	var spawns plotter.XYs
	despawned := 0
	for _, e := range events {
		switch e.Kind {
		case sqlite.KindSpawn:
			spawns = append(spawns, plotter.XY{X: e.X, Y: e.Y})
		case sqlite.KindDespawn:
			despawned++
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Swarm run %s: %d spawns, %d despawns", runID[:8], len(spawns), despawned)
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	scatter, err := plotter.NewScatter(spawns)
	if err != nil {
		return fmt.Errorf("build scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter, plotter.NewGrid())

	if err := p.Save(8*vg.Inch, 8*vg.Inch, outPath); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
