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

// actionFixture wires the reference scenario: a straight 100-unit road with
// one lane in each direction, the reference pose fixed at road center, and a
// 20/40x40 radius band around it. The mid ring (radius 30) crosses the
// centerline at x=20 and x=80.
func actionFixture(t *testing.T) (*Action, *entities.Repository, *int) {
	t.Helper()
	net := roadnet.NewStaticNetwork(&roadnet.LineRoad{
		RoadID:  1,
		Len:     100,
		LaneIDs: []int{-1, 1},
	})
	cfg := DefaultConfig()
	cfg.InnerRadius = 20
	cfg.SemiMajorAxis = 40
	cfg.SemiMinorAxis = 40
	cfg.MaxVehicles = 3

	repo := entities.NewRepository()
	poseCalls := 0
	a := NewAction(cfg, net, repo, func() geom.Point {
		poseCalls++
		return geom.Point{X: 50, Y: 0, H: 0}
	})
	a.SetRand(rand.New(rand.NewSource(1)))
	return a, repo, &poseCalls
}

func TestActionStartBuildsRoadIndex(t *testing.T) {
	a, _, _ := actionFixture(t)

	require.False(t, a.IsActive())
	a.Start(0, 0.05)
	require.True(t, a.IsActive())

	require.NotNil(t, a.RoadTree())
	assert.Greater(t, a.RoadTree().LeafCount(), 0)

	info := a.RingInfo()
	assert.InDelta(t, 30.0, info.SemiMajor, 1e-12, "mid semi-major is the inner/outer average")
	assert.InDelta(t, 30.0, info.SemiMinor, 1e-12)
}

func TestActionFindsRingCrossings(t *testing.T) {
	a, repo, _ := actionFixture(t)
	sink := &recordingSink{}
	a.SetRecorder(sink) // before Start: exercises the pending-attach path

	a.Start(0, 0.05)
	a.Step(0.05, 0)

	// The mid circle of radius 30 around (50, 0) crosses the centerline at
	// x=20 and x=80. The tessellated chords land within one sagitta of the
	// exact points.
	sols := a.LastSolutions()
	require.Len(t, sols, 2)
	xs := []float64{sols[0].X, sols[1].X}
	if xs[0] > xs[1] {
		xs[0], xs[1] = xs[1], xs[0]
	}
	assert.InDelta(t, 20, xs[0], 0.05)
	assert.InDelta(t, 80, xs[1], 0.05)
	for _, s := range sols {
		assert.InDelta(t, 0, s.Y, 1e-9, "crossings lie on the centerline")
	}

	// First evaluation: no removals, so the spawn target is drawn from
	// [0, fleet capacity]. Two crossing points bound the fleet at two.
	fleet := a.Lifecycle().ActiveCount()
	assert.LessOrEqual(t, fleet, 2)
	assert.Equal(t, fleet, repo.Count())
	assert.Len(t, sink.spawns, fleet)
	assert.Empty(t, sink.despawns)

	for _, rec := range a.Lifecycle().Active() {
		v := repo.GetByID(rec.VehicleID)
		require.NotNil(t, v)
		onRing := math.Abs(v.S-20) <= 0.05 || math.Abs(v.S-80) <= 0.05
		assert.True(t, onRing, "vehicle at s=%f is off the sampling ring", v.S)
	}
}

func TestActionStepThrottles(t *testing.T) {
	a, _, poseCalls := actionFixture(t)
	a.Start(0, 0.05)

	a.Step(0.05, 0)
	require.Equal(t, 1, *poseCalls, "first call always evaluates")

	a.Step(0.05, 0.05)
	assert.Equal(t, 1, *poseCalls, "below the step interval: no evaluation")

	a.Step(0.05, 0.1)
	assert.Equal(t, 2, *poseCalls, "interval elapsed: evaluates again")

	a.Step(0.05, 0.15)
	assert.Equal(t, 2, *poseCalls)

	a.Step(0.05, 0.2)
	assert.Equal(t, 3, *poseCalls)
}

func TestActionSteadyStateKeepsFleet(t *testing.T) {
	a, repo, _ := actionFixture(t)
	sink := &recordingSink{}
	a.SetRecorder(sink)
	a.Start(0, 0.05)

	// Nothing moves in this scenario, so spawned vehicles sit on the mid
	// ring, strictly inside both despawn boundaries: the fleet only grows.
	for i := 0; i <= 10; i++ {
		a.Step(0.05, float64(i)*0.1)
	}

	fleet := a.Lifecycle().ActiveCount()
	assert.GreaterOrEqual(t, fleet, 1)
	assert.LessOrEqual(t, fleet, 3)
	assert.Equal(t, fleet, repo.Count())
	assert.Len(t, sink.spawns, fleet)
	assert.Empty(t, sink.despawns, "stationary fleet inside the mid ring must not despawn")

	// Same-lane spacing holds across every evaluation.
	active := a.Lifecycle().Active()
	for i := range active {
		for j := i + 1; j < len(active); j++ {
			if active[i].RoadID != active[j].RoadID || active[i].LaneID != active[j].LaneID {
				continue
			}
			vi := repo.GetByID(active[i].VehicleID)
			vj := repo.GetByID(active[j].VehicleID)
			assert.Greater(t, math.Abs(vi.S-vj.S), 12.0)
		}
	}
}

func TestActionInactiveIsNoOp(t *testing.T) {
	a, repo, poseCalls := actionFixture(t)

	// Step before Start does nothing.
	a.Step(0.05, 0)
	assert.Zero(t, *poseCalls)
	assert.Zero(t, repo.Count())

	a.Start(0, 0.05)
	a.Step(0.05, 0)
	evaluated := *poseCalls

	a.Stop()
	require.False(t, a.IsActive())
	a.Step(0.05, 10)
	assert.Equal(t, evaluated, *poseCalls, "stopped action must not evaluate")

	a.Stop() // repeated stop is safe
	a.End()
	assert.False(t, a.IsActive())
}
