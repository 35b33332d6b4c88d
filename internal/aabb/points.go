package aabb

import (
	"math"

	"github.com/roadsim/swarm/internal/geom"
)

// solutionDedupeEpsilon is the distance below which two crossing points are
// considered the same solution. Crossings landing near a shared triangle
// vertex would otherwise be reported twice.
const solutionDedupeEpsilon = 1e-6

// ringMembershipTolerance bounds how far (in signed implicit-equation units)
// a crossing point may sit from the sampling ring before it is rejected as a
// numerical artifact. A chord point of a pi/36 arc segment deviates from the
// exact ellipse by under 2e-3, well inside this bound.
const ringMembershipTolerance = 0.05

// TrianglePair couples one road triangle with one ellipse triangle whose
// bounding boxes overlap.
type TrianglePair struct {
	Road    *geom.Triangle
	Ellipse *geom.Triangle
}

// EllipseInfo carries the sampling-ring parameters of the evaluation that
// produced the ellipse triangles: semi axes of the mid ellipse and the pose
// of the reference object.
type EllipseInfo struct {
	SemiMajor float64
	SemiMinor float64
	Pose      geom.Point
}

// RoadEvaluator resolves a road id and arc length to a world pose. The
// returned point's H is the road tangent at that arc length.
type RoadEvaluator interface {
	EvalAt(roadID int64, s float64) (geom.Point, error)
}

// ProcessCandidates resolves overlapping leaf-box pairs to the underlying
// triangle pairs.
func ProcessCandidates(candidates []Candidate) []TrianglePair {
	pairs := make([]TrianglePair, 0, len(candidates))
	for _, c := range candidates {
		rt := c.First.Triangle()
		et := c.Second.Triangle()
		if rt == nil || et == nil {
			continue
		}
		pairs = append(pairs, TrianglePair{Road: rt, Ellipse: et})
	}
	return pairs
}

// FindPoints resolves triangle pairs to exact crossing points between the
// road chord (the A-B edge, which follows the road centerline) and the
// ellipse chord (the A-B edge, which follows the ring arc). The control
// vertices only pad the bounding boxes and take no part in the intersection.
//
// Each crossing point inherits its heading from the road tangent at the
// interpolated arc length, never from the ellipse. When the evaluator cannot
// resolve the road the chord direction is used as a fallback so a transient
// lookup failure does not drop the candidate.
func FindPoints(pairs []TrianglePair, info EllipseInfo, eval RoadEvaluator) []geom.Point {
	var sols []geom.Point
	for _, pair := range pairs {
		pt, t, ok := geom.SegmentIntersection(pair.Road.A, pair.Road.B, pair.Ellipse.A, pair.Ellipse.B)
		if !ok {
			continue
		}

		m := geom.EllipseMembership(info.Pose.X, info.Pose.Y, info.Pose.H, info.SemiMajor, info.SemiMinor, pt.X, pt.Y)
		if math.Abs(m) > ringMembershipTolerance {
			continue
		}

		s := pair.Road.SI + t*(pair.Road.SF-pair.Road.SI)
		if pose, err := eval.EvalAt(pair.Road.RoadID, s); err == nil {
			pt.H = pose.H
		} else {
			pt.H = math.Atan2(pair.Road.B.Y-pair.Road.A.Y, pair.Road.B.X-pair.Road.A.X)
		}

		if duplicateSolution(sols, pt) {
			continue
		}
		sols = append(sols, pt)
	}
	return sols
}

func duplicateSolution(sols []geom.Point, pt geom.Point) bool {
	for _, s := range sols {
		if geom.Dist(s, pt) < solutionDedupeEpsilon {
			return true
		}
	}
	return false
}
