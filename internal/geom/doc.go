// Package geom owns the geometric primitives of the swarm traffic engine:
// points, triangles, rotated-ellipse parametrization, tangent construction,
// and segment intersection.
//
// Dependency rule: geom depends on nothing above the standard library and
// gonum; every other engine package may depend on it.
package geom
