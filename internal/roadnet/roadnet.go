package roadnet

import "github.com/roadsim/swarm/internal/geom"

// SpanType tags a geometry span. Unknown spans are skipped by the segmenter;
// line spans get the fast fixed-length chunking; everything else goes through
// generic curve tessellation.
type SpanType int

const (
	SpanUnknown SpanType = iota
	SpanLine
	SpanOther
)

// Span is one geometry piece of a road centerline.
type Span interface {
	// Type returns the span's geometry class.
	Type() SpanType
	// S returns the arc length at which the span starts on its road.
	S() float64
	// Length returns the span's arc length.
	Length() float64
	// Evaluate returns the world pose at road arc length s, which must lie
	// within [S(), S()+Length()]. The returned heading is the centerline
	// tangent.
	Evaluate(s float64) (x, y, h float64)
}

// Lane is a driving lane at some arc length. ID is signed: positive ids run
// with increasing s, negative ids opposite to the centerline direction.
type Lane struct {
	Index int
	ID    int
}

// Road is one road of the network.
type Road interface {
	ID() int64
	Length() float64
	NumSpans() int
	Span(i int) Span
	// DrivingLaneCount returns the number of driving lanes at arc length s.
	DrivingLaneCount(s float64) int
	// DrivingLaneByIdx returns the idx-th driving lane at arc length s.
	DrivingLaneByIdx(s float64, idx int) (Lane, error)
}

// TrackPos is a road-relative position with its world-frame equivalent.
type TrackPos struct {
	RoadID int64
	LaneID int
	S      float64

	X float64
	Y float64
	H float64
}

// Network is the read-only road model contract.
type Network interface {
	NumRoads() int
	RoadByIdx(i int) Road
	RoadByID(id int64) (Road, error)
	// TrackPos converts a world pose to the closest road-relative position.
	TrackPos(x, y, h float64) (TrackPos, error)
	// EvalAt returns the world pose at arc length s on the given road. The
	// returned point's H is the centerline tangent.
	EvalAt(roadID int64, s float64) (geom.Point, error)
}
