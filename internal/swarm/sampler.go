package swarm

import (
	"math/rand"

	"github.com/roadsim/swarm/internal/geom"
	"github.com/roadsim/swarm/internal/monitoring"
	"github.com/roadsim/swarm/internal/roadnet"
)

// SelectInfo is one intermediate placement selection: a road-relative
// position and how many lanes' worth of vehicles it should receive.
type SelectInfo struct {
	Pos       roadnet.TrackPos
	RoadID    int64
	LaneCount int
}

// RoadSampler turns ring/road crossing points into bounded placement
// selections. It owns no state beyond the injected rng, so successive
// evaluations reuse it.
type RoadSampler struct {
	net roadnet.Network
	rng *rand.Rand
}

// NewRoadSampler creates a sampler drawing from the given engine.
func NewRoadSampler(net roadnet.Network, rng *rand.Rand) *RoadSampler {
	return &RoadSampler{net: net, rng: rng}
}

// Sample draws a target spawn count uniformly from [minN, maxN] and
// distributes it over the solution points.
//
// With more points than target, the target count of distinct points is drawn
// without replacement and each gets exactly one lane. With fewer points,
// every point is used and the unmet quota is spread over points with spare
// lane capacity; points with no driving lanes return their share to the
// pool. The distribution is best-effort and may undershoot the target.
//
// maxN < minN is a configuration inconsistency: it is logged and the
// evaluation degrades to a no-spawn no-op.
func (rs *RoadSampler) Sample(sols []geom.Point, minN, maxN int) []SelectInfo {
	if maxN < minN {
		monitoring.Logf("swarm: unstable spawn bounds (max %d < min %d), skipping spawn", maxN, minN)
		return nil
	}
	target := minN + rs.rng.Intn(maxN-minN+1)
	if target <= 0 || len(sols) == 0 {
		return nil
	}

	info := make([]SelectInfo, 0, target)
	if target <= len(sols) {
		// Draw target distinct points without replacement.
		shuffled := make([]geom.Point, len(sols))
		copy(shuffled, sols)
		rs.rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		for _, pt := range shuffled[:target] {
			pos, ok := rs.resolve(pt)
			if !ok {
				continue
			}
			road, err := rs.net.RoadByID(pos.RoadID)
			if err != nil || road.DrivingLaneCount(pos.S) == 0 {
				continue
			}
			info = append(info, SelectInfo{Pos: pos, RoadID: pos.RoadID, LaneCount: 1})
		}
		return info
	}

	// Fewer points than target: every point gets one lane, and the unmet
	// quota is drawn per point from [0, min(remaining, available)], with
	// nonzero draws decremented by one to bias toward thin spread.
	lanesLeft := target - len(sols)
	for _, pt := range sols {
		pos, ok := rs.resolve(pt)
		if !ok {
			continue
		}
		road, err := rs.net.RoadByID(pos.RoadID)
		if err != nil {
			monitoring.Logf("swarm: no road for solution point (%.2f, %.2f): %v", pt.X, pt.Y, err)
			continue
		}
		nLanes := road.DrivingLaneCount(pos.S)
		if nLanes == 0 {
			lanesLeft++
			continue
		}

		extra := 0
		if lanesLeft > 0 {
			bound := lanesLeft
			if nLanes < bound {
				bound = nLanes
			}
			extra = rs.rng.Intn(bound + 1)
			if extra > 0 {
				extra--
			}
		}
		info = append(info, SelectInfo{Pos: pos, RoadID: pos.RoadID, LaneCount: 1 + extra})
		lanesLeft -= extra
	}
	return info
}

// resolve converts a crossing point to its owning road position. Resolution
// failures are logged and the candidate skipped; the pipeline continues.
func (rs *RoadSampler) resolve(pt geom.Point) (roadnet.TrackPos, bool) {
	pos, err := rs.net.TrackPos(pt.X, pt.Y, pt.H)
	if err != nil {
		monitoring.Logf("swarm: cannot resolve solution point (%.2f, %.2f): %v", pt.X, pt.Y, err)
		return roadnet.TrackPos{}, false
	}
	return pos, true
}
