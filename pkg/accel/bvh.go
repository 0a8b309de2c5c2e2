// Package accel implements acceleration structures over traceable
// primitives, satisfying interaction.Accel.
package accel

import (
	"math"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/shape"
)

// leafThreshold is the midpoint-split leaf cutoff: at or below it, linear search through a leaf beats the overhead
// of further subdivision.
const leafThreshold = 8

// primRef is one flattened traceable primitive: a shape together with
// the local primitive index the shape itself understands (a mesh's
// triangle index, or 0 for a single-primitive shape like a sphere).
type primRef struct {
	shape shape.Primitive
	index int
	bbox  core.AABB
}

// BVH is a bounding volume hierarchy over every primitive exposed by a
// set of shapes, built by splitting each node at the spatial midpoint of
// its longest axis rather than by full SAH partitioning.
type BVH struct {
	root   *bvhNode
	Center core.Vec3
	Radius float64
}

type bvhNode struct {
	bbox  core.AABB
	left  *bvhNode
	right *bvhNode
	prims []primRef // non-nil only for leaves
}

// NewBVH flattens every primitive exposed by shapes (PrimitiveCount() of
// each) into leaves and builds the hierarchy over them.
func NewBVH(shapes []shape.Primitive) *BVH {
	var prims []primRef
	for _, s := range shapes {
		n := s.PrimitiveCount()
		for i := 0; i < n; i++ {
			prims = append(prims, primRef{shape: s, index: i, bbox: s.PrimitiveBbox(i)})
		}
	}
	if len(prims) == 0 {
		return &BVH{Center: core.Vec3{}, Radius: 100.0}
	}

	root := buildBVH(prims)
	center := root.bbox.Center()
	radius := root.bbox.Max.Subtract(center).Length()
	return &BVH{root: root, Center: center, Radius: radius}
}

func buildBVH(prims []primRef) *bvhNode {
	bbox := prims[0].bbox
	for _, p := range prims[1:] {
		bbox = bbox.Union(p.bbox)
	}

	if len(prims) <= leafThreshold {
		return &bvhNode{bbox: bbox, prims: prims}
	}

	axis, splitPos, ok := findSplit(prims, bbox)
	if !ok {
		return &bvhNode{bbox: bbox, prims: prims}
	}

	left, right := partition(prims, axis, splitPos)
	if len(left) == 0 || len(right) == 0 {
		return &bvhNode{bbox: bbox, prims: prims}
	}

	return &bvhNode{bbox: bbox, left: buildBVH(left), right: buildBVH(right)}
}

func findSplit(prims []primRef, bbox core.AABB) (axis int, pos float64, ok bool) {
	axis = bbox.LongestAxis()
	var lo, hi float64
	switch axis {
	case 0:
		lo, hi = bbox.Min.X, bbox.Max.X
	case 1:
		lo, hi = bbox.Min.Y, bbox.Max.Y
	default:
		lo, hi = bbox.Min.Z, bbox.Max.Z
	}
	if hi <= lo {
		return 0, 0, false
	}
	return axis, (lo + hi) * 0.5, true
}

func partition(prims []primRef, axis int, splitPos float64) (left, right []primRef) {
	for _, p := range prims {
		c := p.bbox.Center()
		var v float64
		switch axis {
		case 0:
			v = c.X
		case 1:
			v = c.Y
		default:
			v = c.Z
		}
		if v < splitPos {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}
	return left, right
}

// ClosestHit implements interaction.Accel.
func (b *BVH) ClosestHit(ray core.Ray) interaction.PreliminaryIntersection {
	if b.root == nil {
		return interaction.PreliminaryIntersection{T: math.Inf(1)}
	}
	best := interaction.PreliminaryIntersection{T: math.Inf(1)}
	maxt := ray.Maxt
	b.closestHitNode(b.root, ray, maxt, &best)
	return best
}

func (b *BVH) closestHitNode(node *bvhNode, ray core.Ray, maxt float64, best *interaction.PreliminaryIntersection) float64 {
	if !node.bbox.Hit(ray, ray.Mint, maxt) {
		return maxt
	}

	if node.prims != nil {
		for _, p := range node.prims {
			t, u, v, ok := p.shape.IntersectPrimitive(ray, p.index)
			if ok && t < maxt {
				maxt = t
				best.T = t
				best.U = u
				best.V = v
				best.PrimIndex = p.index
				best.Shape = p.shape
			}
		}
		return maxt
	}

	if node.left != nil {
		maxt = b.closestHitNode(node.left, ray, maxt, best)
	}
	if node.right != nil {
		maxt = b.closestHitNode(node.right, ray, maxt, best)
	}
	return maxt
}

// AnyHit implements interaction.Accel; stops at the first hit found,
// used for shadow/occlusion queries where the hit identity doesn't
// matter.
func (b *BVH) AnyHit(ray core.Ray) bool {
	if b.root == nil {
		return false
	}
	return b.anyHitNode(b.root, ray)
}

func (b *BVH) anyHitNode(node *bvhNode, ray core.Ray) bool {
	if !node.bbox.Hit(ray, ray.Mint, ray.Maxt) {
		return false
	}
	if node.prims != nil {
		for _, p := range node.prims {
			if _, _, _, ok := p.shape.IntersectPrimitive(ray, p.index); ok {
				return true
			}
		}
		return false
	}
	if node.left != nil && b.anyHitNode(node.left, ray) {
		return true
	}
	if node.right != nil && b.anyHitNode(node.right, ray) {
		return true
	}
	return false
}

// Bbox returns the aggregate bounding box of the entire hierarchy.
func (b *BVH) Bbox() core.AABB {
	if b.root == nil {
		return core.AABB{}
	}
	return b.root.bbox
}
