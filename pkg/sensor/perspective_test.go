package sensor

import (
	"math"
	"testing"

	"github.com/asprenderer/aspirin/pkg/core"
)

func newTestCamera() *Perspective {
	return NewPerspective(PerspectiveConfig{
		Origin: core.Vec3{X: 0, Y: 0, Z: 0},
		Target: core.Vec3{X: 0, Y: 0, Z: 1},
		Up:     core.Vec3{X: 0, Y: 1, Z: 0},
		FovY:   90,
		Width:  100, Height: 100,
	})
}

func TestPerspectiveCenterPixelPointsForward(t *testing.T) {
	cam := newTestCamera()
	ray, _ := cam.SampleRay(core.Vec2{X: 50, Y: 50}, core.Vec2{})
	if !ray.Direction.Equals(core.Vec3{X: 0, Y: 0, Z: 1}) {
		t.Fatalf("expected the center pixel to point straight down +z, got %v", ray.Direction)
	}
}

func TestPerspectiveOriginMatchesCameraPosition(t *testing.T) {
	cam := NewPerspective(PerspectiveConfig{
		Origin: core.Vec3{X: 1, Y: 2, Z: 3},
		Target: core.Vec3{X: 1, Y: 2, Z: 4},
		Up:     core.Vec3{X: 0, Y: 1, Z: 0},
		FovY:   60, Width: 64, Height: 64,
	})
	ray, _ := cam.SampleRay(core.Vec2{X: 32, Y: 32}, core.Vec2{})
	if !ray.Origin.Equals(core.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("expected every sampled ray to originate at the camera position, got %v", ray.Origin)
	}
}

func TestPerspectiveLeftEdgeBendsTowardNegativeX(t *testing.T) {
	cam := newTestCamera()
	left, _ := cam.SampleRay(core.Vec2{X: 0, Y: 50}, core.Vec2{})
	right, _ := cam.SampleRay(core.Vec2{X: 100, Y: 50}, core.Vec2{})
	if left.Direction.X >= 0 {
		t.Fatalf("expected the left edge of the image to bend toward -x, got %v", left.Direction)
	}
	if right.Direction.X <= 0 {
		t.Fatalf("expected the right edge of the image to bend toward +x, got %v", right.Direction)
	}
}

func TestPerspectiveTopEdgeBendsTowardPositiveY(t *testing.T) {
	cam := newTestCamera()
	top, _ := cam.SampleRay(core.Vec2{X: 50, Y: 0}, core.Vec2{})
	bottom, _ := cam.SampleRay(core.Vec2{X: 50, Y: 100}, core.Vec2{})
	if top.Direction.Y <= 0 {
		t.Fatalf("expected the top row of the image to bend toward +y, got %v", top.Direction)
	}
	if bottom.Direction.Y >= 0 {
		t.Fatalf("expected the bottom row of the image to bend toward -y, got %v", bottom.Direction)
	}
}

func TestPerspectiveDifferentialMatchesPrincipalRay(t *testing.T) {
	cam := newTestCamera()
	rd, _ := cam.SampleRayDifferential(core.Vec2{X: 37, Y: 61}, core.Vec2{})
	principal, _ := cam.SampleRay(core.Vec2{X: 37, Y: 61}, core.Vec2{})
	if !rd.Ray.Direction.Equals(principal.Direction) {
		t.Fatalf("expected the differential's principal ray to match SampleRay exactly")
	}
	if !rd.HasDifferentials {
		t.Fatalf("expected HasDifferentials to be set")
	}
	if rd.DirectionX.Equals(rd.Direction) {
		t.Fatalf("expected the x-offset auxiliary ray to differ from the principal ray")
	}
}

func TestPerspectiveFovYWidensWithLargerAngle(t *testing.T) {
	narrow := NewPerspective(PerspectiveConfig{
		Origin: core.Vec3{}, Target: core.Vec3{X: 0, Y: 0, Z: 1}, Up: core.Vec3{X: 0, Y: 1, Z: 0},
		FovY: 30, Width: 100, Height: 100,
	})
	wide := NewPerspective(PerspectiveConfig{
		Origin: core.Vec3{}, Target: core.Vec3{X: 0, Y: 0, Z: 1}, Up: core.Vec3{X: 0, Y: 1, Z: 0},
		FovY: 120, Width: 100, Height: 100,
	})
	nRay, _ := narrow.SampleRay(core.Vec2{X: 100, Y: 50}, core.Vec2{})
	wRay, _ := wide.SampleRay(core.Vec2{X: 100, Y: 50}, core.Vec2{})
	if math.Abs(wRay.Direction.X) <= math.Abs(nRay.Direction.X) {
		t.Fatalf("expected a wider FOV to bend the edge ray further from the forward axis")
	}
}
