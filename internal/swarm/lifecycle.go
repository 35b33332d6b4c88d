package swarm

import (
	"math"
	"math/rand"

	"github.com/roadsim/swarm/internal/entities"
	"github.com/roadsim/swarm/internal/geom"
	"github.com/roadsim/swarm/internal/monitoring"
	"github.com/roadsim/swarm/internal/roadnet"
)

// SpawnInfo is the lifecycle record for one active vehicle. The vehicle
// itself is owned by the entity repository; the record references it by id
// only.
type SpawnInfo struct {
	VehicleID    int64
	StaleCount   int
	RoadID       int64
	LaneID       int
	SpawnSimTime float64
}

// EventRecorder receives spawn/despawn notifications. Implementations must
// not block: the lifecycle calls them synchronously inside the simulation
// step.
type EventRecorder interface {
	RecordSpawn(simTime float64, vehicleID int64, roadID int64, laneID int, s, x, y float64)
	RecordDespawn(simTime float64, vehicleID int64, roadID int64, laneID int, reason string)
}

// Despawn reasons passed to the EventRecorder.
const (
	DespawnOutsideOuter = "outside_outer"
	DespawnStale        = "stale"
	DespawnMissing      = "missing"
)

// Lifecycle owns the active-vehicle records and runs the spawn/despawn
// policy. All mutation happens inside the engine's Step call; there is no
// locking by design.
type Lifecycle struct {
	cfg      Config
	net      roadnet.Network
	repo     *entities.Repository
	rng      *rand.Rand
	sampler  *RoadSampler
	recorder EventRecorder

	active []SpawnInfo
}

// NewLifecycle creates a lifecycle manager drawing from the given engine.
func NewLifecycle(cfg Config, net roadnet.Network, repo *entities.Repository, rng *rand.Rand) *Lifecycle {
	return &Lifecycle{
		cfg:     cfg,
		net:     net,
		repo:    repo,
		rng:     rng,
		sampler: NewRoadSampler(net, rng),
	}
}

// SetRecorder attaches an event recorder. Pass nil to detach.
func (lc *Lifecycle) SetRecorder(r EventRecorder) { lc.recorder = r }

// Active returns the current lifecycle records.
func (lc *Lifecycle) Active() []SpawnInfo { return lc.active }

// ActiveCount returns the number of active records.
func (lc *Lifecycle) ActiveCount() int { return len(lc.active) }

// Spawn places new vehicles on the solution points. replace is the number of
// vehicles removed this evaluation; it becomes the lower bound of the target
// draw, the remaining fleet capacity the upper bound.
func (lc *Lifecycle) Spawn(sols []geom.Point, replace int, simTime float64) {
	capacity := lc.cfg.MaxVehicles - len(lc.active)
	if capacity <= 0 {
		return
	}

	for _, sel := range lc.sampler.Sample(sols, replace, capacity) {
		road, err := lc.net.RoadByID(sel.RoadID)
		if err != nil {
			monitoring.Logf("swarm: spawn selection on unknown road %d: %v", sel.RoadID, err)
			continue
		}

		// Draw LaneCount distinct lane indices without replacement.
		total := road.DrivingLaneCount(sel.Pos.S)
		want := sel.LaneCount
		if want > total {
			want = total
		}
		for _, laneIdx := range lc.rng.Perm(total)[:want] {
			lane, err := road.DrivingLaneByIdx(sel.Pos.S, laneIdx)
			if err != nil {
				monitoring.Logf("swarm: invalid lane index %d on road %d: %v", laneIdx, sel.RoadID, err)
				continue
			}
			if !lc.ensureSpacing(sel.Pos, lane.ID) {
				continue
			}

			v := lc.newVehicle(sel.Pos, lane.ID)
			id := lc.repo.Add(v)
			lc.active = append(lc.active, SpawnInfo{
				VehicleID:    id,
				StaleCount:   0,
				RoadID:       sel.Pos.RoadID,
				LaneID:       lane.ID,
				SpawnSimTime: simTime,
			})
			if lc.recorder != nil {
				lc.recorder.RecordSpawn(simTime, id, sel.Pos.RoadID, lane.ID, sel.Pos.S, v.X, v.Y)
			}
		}
	}
}

// ensureSpacing rejects a spawn when any active vehicle on the same road and
// lane lies within MinSpacing of arc length. The comparison is 1D along the
// centerline.
func (lc *Lifecycle) ensureSpacing(pos roadnet.TrackPos, laneID int) bool {
	for _, info := range lc.active {
		if info.LaneID != laneID || info.RoadID != pos.RoadID {
			continue
		}
		v := lc.repo.GetByID(info.VehicleID)
		if v == nil {
			continue
		}
		if math.Abs(v.S-pos.S) <= lc.cfg.MinSpacing {
			return false
		}
	}
	return true
}

// newVehicle builds a vehicle at the lane. Negative lane ids travel opposite
// to the centerline, so their heading is offset by pi and the model flipped.
func (lc *Lifecycle) newVehicle(pos roadnet.TrackPos, laneID int) *entities.Vehicle {
	h := pos.H
	flip := false
	if laneID < 0 {
		h += math.Pi
		flip = true
	}
	return &entities.Vehicle{
		X:         pos.X,
		Y:         pos.Y,
		H:         h,
		Flip:      flip,
		RoadID:    pos.RoadID,
		LaneID:    laneID,
		S:         pos.S,
		Speed:     lc.cfg.Velocity,
		ModelPath: lc.cfg.ModelPath,
	}
}

// Despawn evaluates every active record against the current reference pose
// and returns the removed count, which becomes the next evaluation's
// replacement quota.
//
// Policy per record: at or beyond the outer ellipse boundary the vehicle is
// removed unconditionally. At or beyond the mid ellipse (but inside the
// outer) its stale counter increments and removal happens once the counter
// exceeds the patience threshold. Well inside the mid ellipse the counter
// resets.
func (lc *Lifecycle) Despawn(simTime float64, ego geom.Point) int {
	midSMjA, midSMnA := lc.cfg.MidRadii()
	removed := 0
	kept := lc.active[:0]

	for i := range lc.active {
		info := &lc.active[i]
		v := lc.repo.GetByID(info.VehicleID)
		if v == nil {
			// Removed externally; free the slot and let the quota refill it.
			monitoring.Logf("swarm: vehicle %d vanished from repository", info.VehicleID)
			lc.record(simTime, info, DespawnMissing)
			removed++
			continue
		}

		outer := geom.EllipseMembership(ego.X, ego.Y, ego.H, lc.cfg.SemiMajorAxis, lc.cfg.SemiMinorAxis, v.X, v.Y)
		if outer >= 0 {
			lc.remove(simTime, info, v, DespawnOutsideOuter)
			removed++
			continue
		}

		mid := geom.EllipseMembership(ego.X, ego.Y, ego.H, midSMjA, midSMnA, v.X, v.Y)
		if mid >= 0 {
			info.StaleCount++
			if info.StaleCount > lc.cfg.Patience {
				lc.remove(simTime, info, v, DespawnStale)
				removed++
				continue
			}
		} else {
			info.StaleCount = 0
		}
		kept = append(kept, *info)
	}

	lc.active = kept
	return removed
}

func (lc *Lifecycle) remove(simTime float64, info *SpawnInfo, v *entities.Vehicle, reason string) {
	lc.repo.RemoveByName(v.Name)
	lc.record(simTime, info, reason)
}

func (lc *Lifecycle) record(simTime float64, info *SpawnInfo, reason string) {
	if lc.recorder != nil {
		lc.recorder.RecordDespawn(simTime, info.VehicleID, info.RoadID, info.LaneID, reason)
	}
}
