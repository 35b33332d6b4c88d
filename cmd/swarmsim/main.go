// Command swarmsim runs the swarm traffic engine headless on a synthetic
// straight-road network: an ego vehicle drives down the road while the
// engine populates and depopulates traffic around it. Events can be
// persisted to sqlite and the final evaluation's geometry rendered to HTML.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/roadsim/swarm/internal/config"
	"github.com/roadsim/swarm/internal/entities"
	"github.com/roadsim/swarm/internal/geom"
	"github.com/roadsim/swarm/internal/monitor"
	"github.com/roadsim/swarm/internal/monitoring"
	"github.com/roadsim/swarm/internal/roadnet"
	"github.com/roadsim/swarm/internal/storage/sqlite"
	"github.com/roadsim/swarm/internal/swarm"
	"github.com/roadsim/swarm/internal/units"
	"github.com/roadsim/swarm/internal/version"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional JSON tuning file")
		dbPath     = flag.String("db", "", "sqlite event log path (empty disables persistence)")
		plotPath   = flag.String("plot", "", "write final-evaluation geometry HTML here")
		duration   = flag.Float64("duration", 60.0, "simulated seconds to run")
		tick       = flag.Float64("tick", 0.02, "simulation tick in seconds")
		roadLen    = flag.Float64("road-length", 800.0, "synthetic road length")
		seed       = flag.Int64("seed", 0, "random seed (0 seeds from the clock)")
		speed      = flag.String("speed", "", "traffic speed with optional unit ("+units.GetValidUnitsString()+"), e.g. 54kph")
		debug      = flag.Bool("debug", false, "verbose per-evaluation logging")
		showVer    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Println("swarmsim", version.String())
		return
	}

	monitoring.SetDebug(*debug)

	cfg := swarm.DefaultConfig()
	cfg.InnerRadius = 20
	cfg.SemiMajorAxis = 60
	cfg.SemiMinorAxis = 40
	cfg.MaxVehicles = 12
	if *configPath != "" {
		tuning, err := config.LoadTuning(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "swarmsim: %v\n", err)
			os.Exit(1)
		}
		cfg = tuning.Apply(cfg)
	}
	if *speed != "" {
		v, err := units.ParseSpeed(*speed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "swarmsim: %v\n", err)
			os.Exit(1)
		}
		cfg.Velocity = v
	}

	net := roadnet.NewStaticNetwork(&roadnet.LineRoad{
		RoadID:  1,
		Heading: 0,
		Len:     *roadLen,
		LaneIDs: []int{-1, 1},
	})
	repo := entities.NewRepository()

	// Ego drives down the road at the swarm velocity and wraps near the end
	// so the ring never runs out of road.
	egoS := cfg.SemiMajorAxis
	ego := func() geom.Point {
		pt, err := net.EvalAt(1, egoS)
		if err != nil {
			return geom.Point{}
		}
		return pt
	}

	action := swarm.NewAction(cfg, net, repo, ego)
	if *seed != 0 {
		action.SetRand(rand.New(rand.NewSource(*seed)))
	}

	var store *sqlite.EventStore
	if *dbPath != "" {
		db, err := sqlite.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "swarmsim: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		store = sqlite.NewEventStore(db, monitoring.Logf)
		runID, err := store.BeginRun(cfg.InnerRadius, cfg.SemiMajorAxis, cfg.SemiMinorAxis, cfg.MaxVehicles)
		if err != nil {
			fmt.Fprintf(os.Stderr, "swarmsim: %v\n", err)
			os.Exit(1)
		}
		monitoring.Logf("swarmsim: recording run %s", runID)
		action.SetRecorder(store)
	}

	action.Start(0, *tick)
	wrap := *roadLen - cfg.SemiMajorAxis
	for simTime := 0.0; simTime <= *duration; simTime += *tick {
		action.Step(*tick, simTime)
		egoS += cfg.Velocity * *tick
		if egoS > wrap {
			egoS = cfg.SemiMajorAxis
		}
	}
	action.End()

	monitoring.Logf("swarmsim: done, fleet %d after %.1fs", repo.Count(), *duration)

	if *plotPath != "" {
		if err := writeGeometry(*plotPath, net, cfg, action); err != nil {
			fmt.Fprintf(os.Stderr, "swarmsim: %v\n", err)
			os.Exit(1)
		}
		monitoring.Logf("swarmsim: wrote geometry to %s", *plotPath)
	}
}

// writeGeometry re-tessellates the final state and renders it to HTML.
func writeGeometry(path string, net roadnet.Network, cfg swarm.Config, action *swarm.Action) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	defer f.Close()

	midSMjA, midSMnA := cfg.MidRadii()
	seg := swarm.NewSegmenter(net, swarm.ChunkSize(midSMjA, midSMnA))
	ringBoxes := swarm.EllipseSegments(action.RingInfo())

	if err := monitor.RenderGeometry(f, seg.RoadBoxes(), ringBoxes, action.LastSolutions()); err != nil {
		return fmt.Errorf("render geometry: %w", err)
	}
	return nil
}
