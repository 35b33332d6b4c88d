package aabb

import (
	"math"
	"math/rand"
	"testing"

	"github.com/roadsim/swarm/internal/geom"
)

func randomBoxes(rng *rand.Rand, n int) []*BBox {
	boxes := make([]*BBox, 0, n)
	for i := 0; i < n; i++ {
		x := rng.Float64() * 200
		y := rng.Float64() * 200
		boxes = append(boxes, MakeTriangleBBox(x, y, x+rng.Float64()*5, y+rng.Float64()*5, x+1, y+2))
	}
	return boxes
}

func collectLeaves(t *Tree, out *[]*BBox) {
	if t.Empty() {
		return
	}
	if len(t.Children()) == 0 {
		*out = append(*out, t.BBox())
		return
	}
	for _, c := range t.Children() {
		collectLeaves(c, out)
	}
}

func TestTreeInvariantRootContainsAllLeaves(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	boxes := randomBoxes(rng, 100)

	tree := &Tree{}
	tree.Build(boxes)

	var leaves []*BBox
	collectLeaves(tree, &leaves)
	if len(leaves) != len(boxes) {
		t.Fatalf("tree has %d leaves, want %d", len(leaves), len(boxes))
	}
	if tree.LeafCount() != len(boxes) {
		t.Fatalf("LeafCount %d, want %d", tree.LeafCount(), len(boxes))
	}

	for i, leaf := range leaves {
		if !tree.BBox().Contains(leaf) {
			t.Fatalf("root box does not contain leaf %d", i)
		}
	}
}

func TestTreeNodeBoxesContainDescendants(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tree := &Tree{}
	tree.Build(randomBoxes(rng, 64))

	var walk func(n *Tree)
	walk = func(n *Tree) {
		for _, c := range n.Children() {
			if !n.BBox().Contains(c.BBox()) {
				t.Fatalf("node box does not contain child box")
			}
			walk(c)
		}
	}
	walk(tree)
}

func TestEmptyTreeQueriesAreNoOps(t *testing.T) {
	empty := &Tree{}
	empty.Build(nil)
	if !empty.Empty() {
		t.Fatal("tree built from no boxes is not empty")
	}

	full := &Tree{}
	full.Build(randomBoxes(rand.New(rand.NewSource(3)), 10))

	var candidates []Candidate
	empty.Intersect(full, &candidates)
	if len(candidates) != 0 {
		t.Fatalf("empty tree produced %d candidates", len(candidates))
	}
	full.Intersect(empty, &candidates)
	if len(candidates) != 0 {
		t.Fatalf("intersect against empty tree produced %d candidates", len(candidates))
	}
}

func TestIntersectDegenerateOverlapTerminates(t *testing.T) {
	// Every box identical: a naive traversal could recurse forever on
	// subtree pairs that never separate. The median split guarantees
	// strictly shrinking halves instead.
	boxes := make([]*BBox, 10)
	for i := range boxes {
		boxes[i] = MakeTriangleBBox(0, 0, 1, 0, 0.5, 0.5)
	}
	a := &Tree{}
	a.Build(boxes)
	b := &Tree{}
	b.Build(boxes)

	var candidates []Candidate
	a.Intersect(b, &candidates)
	if len(candidates) != 100 {
		t.Fatalf("got %d candidates, want all 100 leaf pairs", len(candidates))
	}
}

func TestIntersectFindsOnlyOverlappingPairs(t *testing.T) {
	// Two clusters far apart; only same-cluster pairs overlap.
	left := []*BBox{MakeTriangleBBox(0, 0, 1, 1, 0.5, 0)}
	right := []*BBox{MakeTriangleBBox(100, 100, 101, 101, 100.5, 100)}

	a := &Tree{}
	a.Build(append(append([]*BBox{}, left...), right...))
	b := &Tree{}
	b.Build(left)

	var candidates []Candidate
	a.Intersect(b, &candidates)
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	if candidates[0].Second != left[0] {
		t.Fatal("candidate does not reference the overlapping leaf")
	}
}

type fixedEvaluator struct {
	h float64
}

func (f fixedEvaluator) EvalAt(roadID int64, s float64) (geom.Point, error) {
	return geom.Point{X: s, Y: 0, H: f.h}, nil
}

func TestFindPointsHeadingFromRoadTangent(t *testing.T) {
	road := &geom.Triangle{
		A:      geom.Point{X: 15, Y: 0},
		B:      geom.Point{X: 25, Y: 0},
		C:      geom.Point{X: 20, Y: 2.5},
		SI:     15,
		SF:     25,
		RoadID: 1,
	}
	// Ring chord crossing the road at x=20; the ring triangle's own edge
	// direction is vertical and must not leak into the solution heading.
	ring := &geom.Triangle{
		A: geom.Point{X: 20, Y: -5},
		B: geom.Point{X: 20, Y: 5},
		C: geom.Point{X: 15, Y: 0},
	}

	// Mid ellipse centered at (50, 0) with radius 30 passes through (20, 0).
	info := EllipseInfo{SemiMajor: 30, SemiMinor: 30, Pose: geom.Point{X: 50, Y: 0}}
	sols := FindPoints([]TrianglePair{{Road: road, Ellipse: ring}}, info, fixedEvaluator{h: 0})

	if len(sols) != 1 {
		t.Fatalf("got %d solutions, want 1", len(sols))
	}
	if math.Abs(sols[0].X-20) > 1e-9 || math.Abs(sols[0].Y) > 1e-9 {
		t.Fatalf("solution at (%f, %f), want (20, 0)", sols[0].X, sols[0].Y)
	}
	if sols[0].H != 0 {
		t.Fatalf("solution heading %f, want road tangent 0", sols[0].H)
	}
}

func TestFindPointsDeduplicates(t *testing.T) {
	road := &geom.Triangle{
		A:      geom.Point{X: 15, Y: 0},
		B:      geom.Point{X: 25, Y: 0},
		SI:     15,
		SF:     25,
		RoadID: 1,
	}
	ring := &geom.Triangle{
		A: geom.Point{X: 20, Y: -5},
		B: geom.Point{X: 20, Y: 5},
	}
	info := EllipseInfo{SemiMajor: 30, SemiMinor: 30, Pose: geom.Point{X: 50, Y: 0}}

	pairs := []TrianglePair{{Road: road, Ellipse: ring}, {Road: road, Ellipse: ring}}
	sols := FindPoints(pairs, info, fixedEvaluator{})
	if len(sols) != 1 {
		t.Fatalf("got %d solutions, want 1 after dedupe", len(sols))
	}
}

func TestProcessCandidatesResolvesTriangles(t *testing.T) {
	tri := &geom.Triangle{A: geom.Point{X: 0, Y: 0}, B: geom.Point{X: 1, Y: 0}, C: geom.Point{X: 0.5, Y: 1}}
	leaf := NewBBox(tri)
	pairs := ProcessCandidates([]Candidate{{First: leaf, Second: leaf}})
	if len(pairs) != 1 || pairs[0].Road != tri || pairs[0].Ellipse != tri {
		t.Fatal("candidate did not resolve to its triangles")
	}

	// Internal-node boxes carry no triangle and are dropped.
	internal := &BBox{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}
	if got := ProcessCandidates([]Candidate{{First: internal, Second: leaf}}); len(got) != 0 {
		t.Fatalf("got %d pairs from triangle-less box, want 0", len(got))
	}
}
