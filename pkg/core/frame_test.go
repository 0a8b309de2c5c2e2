package core

import (
	"math"
	"testing"
)

func TestFrameOrthonormal(t *testing.T) {
	normals := []Vec3{
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: -1},
		{X: 1, Y: 0, Z: 0},
		{X: 0.267, Y: 0.535, Z: 0.802}, // arbitrary unit vector
		{X: 0.267, Y: 0.535, Z: -0.802},
	}

	const tol = 1e-5
	for _, n := range normals {
		n = n.Normalize()
		f := NewFrame(n)

		if math.Abs(f.S.Length()-1) > tol {
			t.Errorf("n=%v: |s|=%v, want 1", n, f.S.Length())
		}
		if math.Abs(f.T.Length()-1) > tol {
			t.Errorf("n=%v: |t|=%v, want 1", n, f.T.Length())
		}
		if math.Abs(f.N.Length()-1) > tol {
			t.Errorf("n=%v: |n|=%v, want 1", n, f.N.Length())
		}
		if math.Abs(f.S.Dot(f.T)) > tol {
			t.Errorf("n=%v: s.t=%v, want 0", n, f.S.Dot(f.T))
		}
		if math.Abs(f.S.Dot(f.N)) > tol {
			t.Errorf("n=%v: s.n=%v, want 0", n, f.S.Dot(f.N))
		}
		if math.Abs(f.T.Dot(f.N)) > tol {
			t.Errorf("n=%v: t.n=%v, want 0", n, f.T.Dot(f.N))
		}
		cross := f.S.Cross(f.T)
		if cross.Subtract(f.N).Length() > tol {
			t.Errorf("n=%v: s x t = %v, want n = %v", n, cross, f.N)
		}
	}
}

func TestFrameLocalWorldRoundTrip(t *testing.T) {
	n := Vec3{X: 0.267, Y: 0.535, Z: 0.802}.Normalize()
	f := NewFrame(n)
	v := Vec3{X: 0.3, Y: -0.7, Z: 0.2}.Normalize()

	local := f.ToLocal(v)
	world := f.ToWorld(local)

	if world.Subtract(v).Length() > 1e-9 {
		t.Errorf("round trip mismatch: got %v, want %v", world, v)
	}
}
