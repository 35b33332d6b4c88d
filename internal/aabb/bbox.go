package aabb

import (
	"math"

	"github.com/roadsim/swarm/internal/geom"
)

// BBox is an axis-aligned bounding box. Leaf boxes own the triangle they
// were computed from; internal-node boxes are unions of child boxes and
// carry no triangle.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64

	tri *geom.Triangle
}

// NewBBox computes the bounding box of a triangle. The box keeps the
// triangle: it becomes a leaf of the tree.
func NewBBox(tri *geom.Triangle) *BBox {
	return &BBox{
		MinX: math.Min(tri.A.X, math.Min(tri.B.X, tri.C.X)),
		MinY: math.Min(tri.A.Y, math.Min(tri.B.Y, tri.C.Y)),
		MaxX: math.Max(tri.A.X, math.Max(tri.B.X, tri.C.X)),
		MaxY: math.Max(tri.A.Y, math.Max(tri.B.Y, tri.C.Y)),
		tri:  tri,
	}
}

// MakeTriangleBBox builds a triangle from raw vertices and returns its leaf
// box. Used by the ellipse sampler, where the triangle carries no road span.
func MakeTriangleBBox(x0, y0, x1, y1, x2, y2 float64) *BBox {
	return NewBBox(&geom.Triangle{
		A: geom.Point{X: x0, Y: y0},
		B: geom.Point{X: x1, Y: y1},
		C: geom.Point{X: x2, Y: y2},
	})
}

// Triangle returns the owned triangle, or nil for internal-node boxes.
func (b *BBox) Triangle() *geom.Triangle { return b.tri }

// Overlaps reports whether two boxes intersect, boundary contact included.
func (b *BBox) Overlaps(o *BBox) bool {
	return b.MinX <= o.MaxX && b.MaxX >= o.MinX &&
		b.MinY <= o.MaxY && b.MaxY >= o.MinY
}

// union returns the smallest box containing both inputs. The result carries
// no triangle.
func union(a, b *BBox) *BBox {
	return &BBox{
		MinX: math.Min(a.MinX, b.MinX),
		MinY: math.Min(a.MinY, b.MinY),
		MaxX: math.Max(a.MaxX, b.MaxX),
		MaxY: math.Max(a.MaxY, b.MaxY),
	}
}

// Contains reports whether o lies fully inside b.
func (b *BBox) Contains(o *BBox) bool {
	return b.MinX <= o.MinX && b.MinY <= o.MinY &&
		b.MaxX >= o.MaxX && b.MaxY >= o.MaxY
}

func (b *BBox) centerX() float64 { return (b.MinX + b.MaxX) / 2 }
func (b *BBox) centerY() float64 { return (b.MinY + b.MaxY) / 2 }
