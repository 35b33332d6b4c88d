package swarm

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadsim/swarm/internal/entities"
	"github.com/roadsim/swarm/internal/geom"
	"github.com/roadsim/swarm/internal/roadnet"
)

// recordingSink collects lifecycle events for assertions.
type recordingSink struct {
	spawns   []int64
	despawns []string
}

func (r *recordingSink) RecordSpawn(simTime float64, vehicleID int64, roadID int64, laneID int, s, x, y float64) {
	r.spawns = append(r.spawns, vehicleID)
}

func (r *recordingSink) RecordDespawn(simTime float64, vehicleID int64, roadID int64, laneID int, reason string) {
	r.despawns = append(r.despawns, reason)
}

func lifecycleFixture(t *testing.T, maxVehicles int) (*Lifecycle, *entities.Repository) {
	t.Helper()
	net := roadnet.NewStaticNetwork(&roadnet.LineRoad{
		RoadID:  1,
		Len:     100,
		LaneIDs: []int{1},
	})
	cfg := DefaultConfig()
	cfg.InnerRadius = 20
	cfg.SemiMajorAxis = 40
	cfg.SemiMinorAxis = 40
	cfg.MaxVehicles = maxVehicles

	repo := entities.NewRepository()
	return NewLifecycle(cfg, net, repo, rand.New(rand.NewSource(1))), repo
}

// spawnOne places exactly one vehicle at arc length s. Drawing with the
// replacement quota equal to the remaining capacity pins the target count,
// so the placement is deterministic regardless of the rng.
func spawnOne(t *testing.T, lc *Lifecycle, s, simTime float64) {
	t.Helper()
	before := lc.ActiveCount()
	quota := lc.cfg.MaxVehicles - before
	lc.Spawn([]geom.Point{{X: s, Y: 0, H: 0}}, quota, simTime)
	require.Equal(t, before+1, lc.ActiveCount(), "expected exactly one spawn at s=%f", s)
}

func TestSpawnSpacingInvariant(t *testing.T) {
	lc, repo := lifecycleFixture(t, 2)

	spawnOne(t, lc, 30, 0.0)

	// 5 units from the first vehicle on the same lane: inside MinSpacing,
	// must be rejected, never committed.
	lc.Spawn([]geom.Point{{X: 35, Y: 0, H: 0}}, 1, 0.1)
	assert.Equal(t, 1, lc.ActiveCount(), "spawn within spacing must be rejected")
	assert.Equal(t, 1, repo.Count())

	spawnOne(t, lc, 50, 0.2)

	// Every same-road-same-lane pair keeps the configured separation.
	active := lc.Active()
	for i := range active {
		for j := i + 1; j < len(active); j++ {
			if active[i].RoadID != active[j].RoadID || active[i].LaneID != active[j].LaneID {
				continue
			}
			vi := repo.GetByID(active[i].VehicleID)
			vj := repo.GetByID(active[j].VehicleID)
			assert.GreaterOrEqual(t, math.Abs(vi.S-vj.S), lc.cfg.MinSpacing)
		}
	}
}

func TestSpawnRespectsFleetCapacity(t *testing.T) {
	lc, repo := lifecycleFixture(t, 1)

	spawnOne(t, lc, 30, 0.0)
	lc.Spawn([]geom.Point{{X: 80, Y: 0, H: 0}}, 1, 0.1)
	assert.Equal(t, 1, lc.ActiveCount(), "full fleet must not grow")
	assert.Equal(t, 1, repo.Count())
}

func TestSpawnOppositeLaneHeading(t *testing.T) {
	net := roadnet.NewStaticNetwork(&roadnet.LineRoad{
		RoadID:  1,
		Len:     100,
		LaneIDs: []int{-1}, // single opposite-direction lane
	})
	cfg := DefaultConfig()
	cfg.SemiMajorAxis, cfg.SemiMinorAxis, cfg.InnerRadius = 40, 40, 20
	cfg.MaxVehicles = 1
	repo := entities.NewRepository()
	lc := NewLifecycle(cfg, net, repo, rand.New(rand.NewSource(1)))

	lc.Spawn([]geom.Point{{X: 50, Y: 0, H: 0}}, 1, 0.0)
	require.Equal(t, 1, lc.ActiveCount())

	v := repo.GetByID(lc.Active()[0].VehicleID)
	assert.InDelta(t, math.Pi, v.H, 1e-12, "negative lane id travels opposite: heading offset by pi")
	assert.True(t, v.Flip)
	assert.Equal(t, -1, v.LaneID)
}

func TestDespawnOutsideOuterIsImmediate(t *testing.T) {
	lc, repo := lifecycleFixture(t, 1)
	spawnOne(t, lc, 50, 0.0)

	// Ego 40 units away puts the vehicle exactly on the outer boundary:
	// removed on the next evaluation, no hysteresis.
	removed := lc.Despawn(0.1, geom.Point{X: 10, Y: 0})
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, lc.ActiveCount())
	assert.Equal(t, 0, repo.Count())
}

func TestDespawnMidHysteresis(t *testing.T) {
	lc, _ := lifecycleFixture(t, 1)
	spawnOne(t, lc, 50, 0.0)

	// Ego 35 units away: between mid (30) and outer (40). The vehicle
	// accrues staleness but survives the patience window.
	beyondMid := geom.Point{X: 15, Y: 0}
	for i := 1; i <= 5; i++ {
		removed := lc.Despawn(float64(i), beyondMid)
		require.Zero(t, removed, "evaluation %d must not remove yet", i)
	}
	assert.Equal(t, 5, lc.Active()[0].StaleCount)

	// Exceeding the threshold on the 6th consecutive evaluation removes it.
	removed := lc.Despawn(6, beyondMid)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, lc.ActiveCount())
}

func TestDespawnStaleCountResets(t *testing.T) {
	lc, _ := lifecycleFixture(t, 1)
	spawnOne(t, lc, 50, 0.0)

	beyondMid := geom.Point{X: 15, Y: 0}
	wellInside := geom.Point{X: 50, Y: 0}

	for i := 1; i <= 3; i++ {
		lc.Despawn(float64(i), beyondMid)
	}
	require.Equal(t, 3, lc.Active()[0].StaleCount)

	// Coming back well inside the mid ellipse clears the counter.
	lc.Despawn(4, wellInside)
	require.Equal(t, 0, lc.Active()[0].StaleCount)

	// A fresh stale streak starts from zero again.
	for i := 5; i <= 9; i++ {
		removed := lc.Despawn(float64(i), beyondMid)
		require.Zero(t, removed)
	}
	assert.Equal(t, 1, lc.ActiveCount())
}

func TestDespawnMissingVehicleFreesSlot(t *testing.T) {
	lc, repo := lifecycleFixture(t, 1)
	spawnOne(t, lc, 50, 0.0)

	v := repo.GetByID(lc.Active()[0].VehicleID)
	repo.RemoveByName(v.Name)

	removed := lc.Despawn(0.1, geom.Point{X: 50, Y: 0})
	assert.Equal(t, 1, removed, "externally removed vehicle frees its slot")
	assert.Equal(t, 0, lc.ActiveCount())
}

func TestLifecycleRecorderSeesEvents(t *testing.T) {
	lc, _ := lifecycleFixture(t, 1)
	sink := &recordingSink{}
	lc.SetRecorder(sink)

	spawnOne(t, lc, 50, 0.0)
	lc.Despawn(0.1, geom.Point{X: 10, Y: 0})

	require.Len(t, sink.spawns, 1)
	require.Len(t, sink.despawns, 1)
	assert.Equal(t, DespawnOutsideOuter, sink.despawns[0])
}
