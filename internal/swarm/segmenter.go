package swarm

import (
	"math"

	"github.com/roadsim/swarm/internal/aabb"
	"github.com/roadsim/swarm/internal/geom"
	"github.com/roadsim/swarm/internal/roadnet"
)

// Segmenter tessellates static road geometry into triangle bounding boxes.
// It runs once at action start; the resulting tree is immutable for the rest
// of the run.
type Segmenter struct {
	net      roadnet.Network
	chunkLen float64
}

// NewSegmenter creates a segmenter with the given chunk length. Non-positive
// chunk lengths take the 1.0 floor so tessellation always advances.
func NewSegmenter(net roadnet.Network, chunkLen float64) *Segmenter {
	if chunkLen <= 0 {
		chunkLen = 1.0
	}
	return &Segmenter{net: net, chunkLen: chunkLen}
}

// RoadBoxes tessellates every span of every road. Unknown spans are skipped,
// line spans get fixed-length chunking, everything else goes through curve
// tessellation.
func (sg *Segmenter) RoadBoxes() []*aabb.BBox {
	var boxes []*aabb.BBox
	for i := 0; i < sg.net.NumRoads(); i++ {
		road := sg.net.RoadByIdx(i)
		for j := 0; j < road.NumSpans(); j++ {
			span := road.Span(j)
			switch span.Type() {
			case roadnet.SpanUnknown:
			case roadnet.SpanLine:
				boxes = sg.lineBoxes(road.ID(), j, span, boxes)
			default:
				boxes = sg.curveBoxes(road.ID(), j, span, boxes)
			}
		}
	}
	return boxes
}

// lineBoxes chops a straight span into chunkLen pieces. The third vertex
// sits off the chord by a quarter of the chunk length so the leaf box has
// real area. Emitted [SI, SF] intervals are contiguous and cover the span
// exactly.
func (sg *Segmenter) lineBoxes(roadID int64, spanIdx int, span roadnet.Span, boxes []*aabb.BBox) []*aabb.BBox {
	start := span.S()
	end := start + span.Length()
	for dist := start; dist < end; {
		ds := dist + sg.chunkLen
		if ds > end {
			ds = end
		}
		x0, y0, _ := span.Evaluate(dist)
		x1, y1, _ := span.Evaluate(ds)
		l := math.Hypot(x1-x0, y1-y0)
		tri := &geom.Triangle{
			A:       geom.Point{X: x0, Y: y0},
			B:       geom.Point{X: x1, Y: y1},
			C:       geom.Point{X: (x0+x1)/2 + l/4, Y: (y0+y1)/2 + l/4},
			SI:      dist,
			SF:      ds,
			RoadID:  roadID,
			SpanIdx: spanIdx,
		}
		boxes = append(boxes, aabb.NewBBox(tri))
		dist = ds
	}
	return boxes
}

// curveBoxes tessellates a curved span. Chunks start at chunkLen and are
// halved until the heading change across the chunk stays within the ring's
// angular step, so tight curvature gets finer triangles. The control vertex
// is the intersection of the endpoint tangents; parallel tangents (locally
// straight geometry) fall back to an off-chord midpoint exactly like the
// line case.
func (sg *Segmenter) curveBoxes(roadID int64, spanIdx int, span roadnet.Span, boxes []*aabb.BBox) []*aabb.BBox {
	start := span.S()
	end := start + span.Length()
	for dist := start; dist < end; {
		step := sg.chunkLen
		x0, y0, h0 := span.Evaluate(dist)

		ds := dist + step
		if ds > end {
			ds = end
		}
		x1, y1, h1 := span.Evaluate(ds)
		for headingDelta(h0, h1) > AngularStep && step > sg.chunkLen/8 {
			step /= 2
			ds = dist + step
			if ds > end {
				ds = end
			}
			x1, y1, h1 = span.Evaluate(ds)
		}

		var x2, y2 float64
		if headingDelta(h0, h1) < 1e-6 {
			l := math.Hypot(x1-x0, y1-y0)
			x2 = (x0+x1)/2 + l/4
			y2 = (y0+y1)/2 + l/4
		} else {
			x2, y2 = geom.TangentIntersection(x0, y0, h0, x1, y1, h1)
		}

		tri := &geom.Triangle{
			A:       geom.Point{X: x0, Y: y0},
			B:       geom.Point{X: x1, Y: y1},
			C:       geom.Point{X: x2, Y: y2},
			SI:      dist,
			SF:      ds,
			RoadID:  roadID,
			SpanIdx: spanIdx,
		}
		boxes = append(boxes, aabb.NewBBox(tri))
		dist = ds
	}
	return boxes
}

// headingDelta returns the absolute angular difference normalized to [0, pi].
func headingDelta(a, b float64) float64 {
	d := math.Mod(math.Abs(b-a), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
