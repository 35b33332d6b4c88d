package aabb

import "sort"

// Tree is a hierarchical spatial index over bounding boxes. Every node's box
// contains all descendant boxes; leaves map 1:1 to triangles. The zero value
// is an empty tree: it has no box and no children, and all queries on it are
// no-ops.
type Tree struct {
	box      *BBox
	children []*Tree
}

// Candidate is one overlapping leaf-box pair produced by Intersect. First
// comes from the receiver tree, Second from the argument tree.
type Candidate struct {
	First  *BBox
	Second *BBox
}

// Build constructs the hierarchy from leaf boxes using a recursive
// spatial-median split on the wider centroid axis. Building from an empty
// slice leaves the tree explicitly empty rather than failing.
func (t *Tree) Build(boxes []*BBox) {
	t.box = nil
	t.children = nil

	switch len(boxes) {
	case 0:
		return
	case 1:
		t.box = boxes[0]
		return
	}

	// Split axis: the one with the larger spread of box centers. Sorting by
	// center and cutting at the median keeps both halves non-empty, so the
	// recursion terminates even when every box overlaps every other.
	var minCX, maxCX, minCY, maxCY float64
	for i, b := range boxes {
		cx, cy := b.centerX(), b.centerY()
		if i == 0 || cx < minCX {
			minCX = cx
		}
		if i == 0 || cx > maxCX {
			maxCX = cx
		}
		if i == 0 || cy < minCY {
			minCY = cy
		}
		if i == 0 || cy > maxCY {
			maxCY = cy
		}
	}

	sorted := make([]*BBox, len(boxes))
	copy(sorted, boxes)
	if maxCX-minCX >= maxCY-minCY {
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].centerX() < sorted[j].centerX() })
	} else {
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].centerY() < sorted[j].centerY() })
	}

	mid := len(sorted) / 2
	left := &Tree{}
	right := &Tree{}
	left.Build(sorted[:mid])
	right.Build(sorted[mid:])

	t.children = []*Tree{left, right}
	t.box = union(left.box, right.box)
}

// Empty reports whether the tree holds no geometry.
func (t *Tree) Empty() bool { return t == nil || t.box == nil }

// BBox returns the root box, or nil for an empty tree.
func (t *Tree) BBox() *BBox { return t.box }

// Children returns the child subtrees. Leaves have none.
func (t *Tree) Children() []*Tree { return t.children }

func (t *Tree) leaf() bool { return len(t.children) == 0 }

// Intersect walks the receiver and other pairwise, pruning subtree pairs
// whose boxes do not overlap, and appends every overlapping leaf-box pair to
// out. Either tree being empty yields no candidates.
func (t *Tree) Intersect(other *Tree, out *[]Candidate) {
	if t.Empty() || other.Empty() || !t.box.Overlaps(other.box) {
		return
	}

	switch {
	case t.leaf() && other.leaf():
		*out = append(*out, Candidate{First: t.box, Second: other.box})
	case t.leaf():
		for _, c := range other.children {
			t.Intersect(c, out)
		}
	case other.leaf():
		for _, c := range t.children {
			c.Intersect(other, out)
		}
	default:
		for _, a := range t.children {
			for _, b := range other.children {
				a.Intersect(b, out)
			}
		}
	}
}

// LeafCount returns the number of leaves in the tree.
func (t *Tree) LeafCount() int {
	if t.Empty() {
		return 0
	}
	if t.leaf() {
		return 1
	}
	n := 0
	for _, c := range t.children {
		n += c.LeafCount()
	}
	return n
}
