package geom

import "math"

// Point is a 2D position with an optional heading. It is used both for
// geometry vertices (heading ignored) and for placement candidates, where H
// carries the road tangent at the point.
type Point struct {
	X float64
	Y float64
	H float64
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Triangle is a coarse convex approximation of one road or ellipse arc
// segment. A and B are the arc endpoints, C the control vertex that gives the
// bounding box real area. SI and SF delimit the arc-length interval the
// triangle represents.
//
// RoadID and SpanIdx identify the source span in the road network. They are
// kept as plain ids rather than references so the triangle never outlives or
// pins road storage it does not own.
type Triangle struct {
	A Point
	B Point
	C Point

	SI float64
	SF float64

	RoadID  int64
	SpanIdx int
}

// SegmentIntersection computes the crossing of segments p0-p1 and q0-q1.
// It returns the crossing point, the parameter t in [0,1] locating the
// crossing along p0-p1, and whether the segments actually cross. Collinear
// overlaps report no crossing.
func SegmentIntersection(p0, p1, q0, q1 Point) (Point, float64, bool) {
	rx := p1.X - p0.X
	ry := p1.Y - p0.Y
	sx := q1.X - q0.X
	sy := q1.Y - q0.Y

	denom := rx*sy - ry*sx
	if math.Abs(denom) < 1e-12 {
		return Point{}, 0, false
	}

	qpx := q0.X - p0.X
	qpy := q0.Y - p0.Y
	t := (qpx*sy - qpy*sx) / denom
	u := (qpx*ry - qpy*rx) / denom

	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, 0, false
	}
	return Point{X: p0.X + t*rx, Y: p0.Y + t*ry}, t, true
}
