package swarm

import (
	"math"

	"github.com/roadsim/swarm/internal/aabb"
	"github.com/roadsim/swarm/internal/geom"
)

// AngularStep is the ring tessellation step: pi/36 rad, ~72 segments per
// revolution.
const AngularStep = math.Pi / 36

// seamOffset shifts the first segment by half a step so the ring closes on a
// full-width segment instead of a zero-length one.
const seamOffset = math.Pi / 72

// EllipseInfo carries the current sampling-ring parameters, recomputed from
// the reference object each evaluation.
type EllipseInfo = aabb.EllipseInfo

// ChunkSize derives the road tessellation chunk length from the ring step:
// the chord spanned by one angular step on the mid ellipse, rounded up to
// the next 0.01. A degenerate ellipse that rounds to zero falls back to 1.0
// so the segmenter always advances.
func ChunkSize(midSMjA, midSMnA float64) float64 {
	x0, y0 := geom.ParamEllipse(0, 0, 0, midSMjA, midSMnA, 0)
	x1, y1 := geom.ParamEllipse(AngularStep, 0, 0, midSMjA, midSMnA, 0)
	size := math.Ceil(math.Hypot(x1-x0, y1-y0)*100) / 100
	if size == 0 {
		return 1.0
	}
	return size
}

// EllipseSegments tessellates one full revolution of the sampling ring into
// triangles and returns their leaf boxes. Per segment: the two boundary
// points of the angular interval plus the intersection of the boundary
// tangents as control point. Near-parallel tangents fall back to the chord
// midpoint inside TangentIntersection rather than producing a singular
// solve.
func EllipseSegments(info EllipseInfo) []*aabb.BBox {
	pose := info.Pose
	boxes := make([]*aabb.BBox, 0, int(2*math.Pi/AngularStep)+1)

	limit := 2*math.Pi - seamOffset
	for alpha := -seamOffset; alpha < limit; {
		da := alpha + AngularStep
		if da > limit {
			da = limit
		}

		x0, y0 := geom.ParamEllipse(alpha, pose.X, pose.Y, info.SemiMajor, info.SemiMinor, pose.H)
		x1, y1 := geom.ParamEllipse(da, pose.X, pose.Y, info.SemiMajor, info.SemiMinor, pose.H)

		theta0 := geom.EllipseTangentAngle(info.SemiMajor, info.SemiMinor, alpha, pose.H)
		theta1 := geom.EllipseTangentAngle(info.SemiMajor, info.SemiMinor, da, pose.H)
		x2, y2 := geom.TangentIntersection(x0, y0, theta0, x1, y1, theta1)

		boxes = append(boxes, aabb.MakeTriangleBBox(x0, y0, x1, y1, x2, y2))
		alpha = da
	}
	return boxes
}
