// Package aabb implements the axis-aligned bounding box tree used to
// intersect static road geometry with the per-evaluation ellipse ring.
//
// The tree is built once over leaf boxes (recursive spatial-median split)
// and queried tree-vs-tree: overlapping leaf pairs become candidates, which
// resolve to triangle pairs and finally to exact crossing points whose
// heading is inherited from the road tangent.
//
// Dependency rule: aabb may depend on geom only. Road lookups go through the
// RoadEvaluator interface so the package never touches network storage.
package aabb
