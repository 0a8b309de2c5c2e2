package accel

import (
	"math"
	"testing"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/shape"
)

func TestBVHClosestHitFindsNearestSphere(t *testing.T) {
	near := shape.NewSphere(core.Vec3{X: 0, Y: 0, Z: 5}, 1)
	far := shape.NewSphere(core.Vec3{X: 0, Y: 0, Z: 10}, 1)
	bvh := NewBVH([]shape.Primitive{near, far})

	ray := core.NewRay(core.Vec3{}, core.Vec3{X: 0, Y: 0, Z: 1})
	pi := bvh.ClosestHit(ray)
	if !pi.IsValid() {
		t.Fatalf("expected a hit")
	}
	if pi.Shape != near {
		t.Fatalf("expected the nearer sphere to win, got a hit on %v", pi.Shape)
	}
	if math.Abs(pi.T-4.0) > 1e-6 {
		t.Fatalf("expected t=4, got %v", pi.T)
	}
}

func TestBVHClosestHitMissesEmptyDirection(t *testing.T) {
	s := shape.NewSphere(core.Vec3{X: 0, Y: 0, Z: 5}, 1)
	bvh := NewBVH([]shape.Primitive{s})

	ray := core.NewRay(core.Vec3{}, core.Vec3{X: 1, Y: 0, Z: 0})
	pi := bvh.ClosestHit(ray)
	if pi.IsValid() {
		t.Fatalf("expected a miss for a ray pointing away from the sphere")
	}
}

func TestBVHAnyHitDetectsOcclusion(t *testing.T) {
	s := shape.NewSphere(core.Vec3{X: 0, Y: 0, Z: 5}, 1)
	bvh := NewBVH([]shape.Primitive{s})

	blocked := core.NewRay(core.Vec3{}, core.Vec3{X: 0, Y: 0, Z: 1})
	if !bvh.AnyHit(blocked) {
		t.Fatalf("expected AnyHit to report occlusion")
	}

	clear := core.NewRay(core.Vec3{}, core.Vec3{X: 1, Y: 0, Z: 0})
	if bvh.AnyHit(clear) {
		t.Fatalf("expected AnyHit to report no occlusion")
	}
}

func TestBVHHandlesManyPrimitivesAcrossSplits(t *testing.T) {
	var shapes []shape.Primitive
	for i := 0; i < 50; i++ {
		shapes = append(shapes, shape.NewSphere(core.Vec3{X: float64(i) * 3, Y: 0, Z: 0}, 1))
	}
	bvh := NewBVH(shapes)

	ray := core.NewRayTo(core.Vec3{X: 147, Y: 0, Z: -10}, core.Vec3{X: 147, Y: 0, Z: 0})
	pi := bvh.ClosestHit(ray)
	if !pi.IsValid() {
		t.Fatalf("expected a hit on the sphere at x=147")
	}
}

func TestBVHEmptySceneMissesEverything(t *testing.T) {
	bvh := NewBVH(nil)
	ray := core.NewRay(core.Vec3{}, core.Vec3{X: 0, Y: 0, Z: 1})
	if bvh.ClosestHit(ray).IsValid() {
		t.Fatalf("expected an empty BVH to report no hits")
	}
	if bvh.AnyHit(ray) {
		t.Fatalf("expected an empty BVH to report no occlusion")
	}
}
