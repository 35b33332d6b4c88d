package geom

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// tangentParallelEpsilon is the determinant threshold below which two tangent
// lines are treated as parallel and the intersection solve is skipped.
const tangentParallelEpsilon = 1e-9

// ParamEllipse evaluates the boundary of a rotated ellipse at parameter
// angle alpha. The ellipse is centered at (cx, cy) with semi-major axis smjA,
// semi-minor axis smnA, and rotated by hdg radians.
func ParamEllipse(alpha, cx, cy, smjA, smnA, hdg float64) (x, y float64) {
	cosH := math.Cos(hdg)
	sinH := math.Sin(hdg)
	cosA := math.Cos(alpha)
	sinA := math.Sin(alpha)
	x = cx + smjA*cosH*cosA - smnA*sinH*sinA
	y = cy + smjA*sinH*cosA + smnA*cosH*sinA
	return x, y
}

// EllipseTangentAngle returns the direction of the ellipse boundary tangent
// at parameter angle alpha, in world frame (the ellipse rotation hdg is
// already applied).
func EllipseTangentAngle(smjA, smnA, alpha, hdg float64) float64 {
	// d/dalpha of the unrotated parametrization is (-smjA sin a, smnA cos a).
	return math.Atan2(smnA*math.Cos(alpha), -smjA*math.Sin(alpha)) + hdg
}

// TangentIntersection intersects the line through (x0, y0) with direction
// theta0 and the line through (x1, y1) with direction theta1. Near-parallel
// tangents (a vanishing angular step produces them) make the system singular;
// in that case the midpoint of the two anchor points is returned instead of
// propagating a failed solve.
func TangentIntersection(x0, y0, theta0, x1, y1, theta1 float64) (x, y float64) {
	// Line form: sin(t)*x - cos(t)*y = sin(t)*x0 - cos(t)*y0.
	a := mat.NewDense(2, 2, []float64{
		math.Sin(theta0), -math.Cos(theta0),
		math.Sin(theta1), -math.Cos(theta1),
	})
	if math.Abs(mat.Det(a)) < tangentParallelEpsilon {
		return (x0 + x1) / 2, (y0 + y1) / 2
	}

	b := mat.NewVecDense(2, []float64{
		math.Sin(theta0)*x0 - math.Cos(theta0)*y0,
		math.Sin(theta1)*x1 - math.Cos(theta1)*y1,
	})
	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return (x0 + x1) / 2, (y0 + y1) / 2
	}
	return sol.AtVec(0), sol.AtVec(1)
}

// EllipseMembership evaluates the signed implicit equation of a rotated
// ellipse at (x, y). The result is negative inside the ellipse, zero on the
// boundary, and positive outside; the magnitude grows with distance but is
// not a metric distance.
func EllipseMembership(cx, cy, hdg, smjA, smnA, x, y float64) float64 {
	cosH := math.Cos(hdg)
	sinH := math.Sin(hdg)
	dx := x - cx
	dy := y - cy
	u := (cosH*dx + sinH*dy) / smjA
	v := (-sinH*dx + cosH*dy) / smnA
	return u*u + v*v - 1
}
