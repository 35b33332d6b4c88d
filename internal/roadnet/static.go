package roadnet

import (
	"fmt"
	"math"

	"github.com/roadsim/swarm/internal/geom"
)

// StaticNetwork is an in-memory Network over straight roads. It covers the
// demo simulator and the engine tests; curved geometry enters through the
// Span interface, not through this type.
type StaticNetwork struct {
	roads []*LineRoad
	byID  map[int64]*LineRoad
}

// LineRoad is a straight road: a start pose, a heading, a length, and a set
// of signed driving-lane ids constant along the whole road.
type LineRoad struct {
	RoadID  int64
	StartX  float64
	StartY  float64
	Heading float64
	Len     float64
	// LaneIDs lists signed driving-lane ids, e.g. {-1, 1} for one lane in
	// each direction.
	LaneIDs []int

	span lineSpan
}

// NewStaticNetwork assembles a network from line roads.
func NewStaticNetwork(roads ...*LineRoad) *StaticNetwork {
	n := &StaticNetwork{byID: make(map[int64]*LineRoad, len(roads))}
	for _, r := range roads {
		r.span = lineSpan{road: r}
		n.roads = append(n.roads, r)
		n.byID[r.RoadID] = r
	}
	return n
}

// NumRoads returns the number of roads.
func (n *StaticNetwork) NumRoads() int { return len(n.roads) }

// RoadByIdx returns the i-th road.
func (n *StaticNetwork) RoadByIdx(i int) Road { return n.roads[i] }

// RoadByID returns the road with the given id.
func (n *StaticNetwork) RoadByID(id int64) (Road, error) {
	r, ok := n.byID[id]
	if !ok {
		return nil, fmt.Errorf("roadnet: no road with id %d", id)
	}
	return r, nil
}

// EvalAt returns the world pose at arc length s on the given road.
func (n *StaticNetwork) EvalAt(roadID int64, s float64) (geom.Point, error) {
	r, ok := n.byID[roadID]
	if !ok {
		return geom.Point{}, fmt.Errorf("roadnet: no road with id %d", roadID)
	}
	x, y, h := r.span.Evaluate(s)
	return geom.Point{X: x, Y: y, H: h}, nil
}

// TrackPos projects a world pose onto the network: the road with the
// smallest lateral offset whose projection falls inside [0, length] wins.
// The lane id is left at the lane closest in travel direction: positive when
// the pose heading roughly follows increasing s, negative otherwise.
func (n *StaticNetwork) TrackPos(x, y, h float64) (TrackPos, error) {
	best := TrackPos{}
	bestOffset := math.Inf(1)
	found := false

	for _, r := range n.roads {
		cosH := math.Cos(r.Heading)
		sinH := math.Sin(r.Heading)
		dx := x - r.StartX
		dy := y - r.StartY
		s := dx*cosH + dy*sinH
		lat := -dx*sinH + dy*cosH
		if s < 0 || s > r.Len {
			continue
		}
		if math.Abs(lat) < bestOffset {
			bestOffset = math.Abs(lat)
			best = TrackPos{RoadID: r.RoadID, S: s, X: x, Y: y, H: h}
			// Heading within a quarter turn of the road axis travels with
			// increasing s, the positive-id side. Negative ids run opposite
			// to the centerline direction.
			if math.Cos(h-r.Heading) >= 0 {
				best.LaneID = r.closestLane(1)
			} else {
				best.LaneID = r.closestLane(-1)
			}
			found = true
		}
	}
	if !found {
		return TrackPos{}, fmt.Errorf("roadnet: pose (%.2f, %.2f) is off the network", x, y)
	}
	return best, nil
}

// ID returns the road id.
func (r *LineRoad) ID() int64 { return r.RoadID }

// Length returns the road length.
func (r *LineRoad) Length() float64 { return r.Len }

// NumSpans returns 1: a line road is a single span.
func (r *LineRoad) NumSpans() int { return 1 }

// Span returns the road's only span.
func (r *LineRoad) Span(i int) Span { return &r.span }

// DrivingLaneCount returns the lane count, constant along a line road.
func (r *LineRoad) DrivingLaneCount(s float64) int { return len(r.LaneIDs) }

// DrivingLaneByIdx returns the idx-th driving lane.
func (r *LineRoad) DrivingLaneByIdx(s float64, idx int) (Lane, error) {
	if idx < 0 || idx >= len(r.LaneIDs) {
		return Lane{}, fmt.Errorf("roadnet: road %d has no driving lane index %d", r.RoadID, idx)
	}
	return Lane{Index: idx, ID: r.LaneIDs[idx]}, nil
}

// closestLane picks the lane id nearest to the wanted sign, falling back to
// any lane when the road is one-directional.
func (r *LineRoad) closestLane(sign int) int {
	for _, id := range r.LaneIDs {
		if (sign < 0) == (id < 0) {
			return id
		}
	}
	if len(r.LaneIDs) > 0 {
		return r.LaneIDs[0]
	}
	return 0
}

type lineSpan struct {
	road *LineRoad
}

func (sp *lineSpan) Type() SpanType  { return SpanLine }
func (sp *lineSpan) S() float64      { return 0 }
func (sp *lineSpan) Length() float64 { return sp.road.Len }

func (sp *lineSpan) Evaluate(s float64) (x, y, h float64) {
	r := sp.road
	x = r.StartX + s*math.Cos(r.Heading)
	y = r.StartY + s*math.Sin(r.Heading)
	return x, y, r.Heading
}
