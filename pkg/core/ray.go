package core

import "math"

// Ray is a half-open parametric ray o + t*d, t in [Mint, Maxt). RcpDirection
// is cached at construction time since every slab test and phase/medium
// sampler divides by the ray direction at least once.
type Ray struct {
	Origin, Direction Vec3
	RcpDirection      Vec3
	Mint, Maxt        float64
}

// NewRay builds a ray with the default [RayEpsilon, +Inf) interval.
func NewRay(origin, direction Vec3) Ray {
	return newRayWithBounds(origin, direction, RayEpsilon, math.Inf(1))
}

// NewRayTo builds a normalized ray from origin toward target.
func NewRayTo(origin, target Vec3) Ray {
	return NewRay(origin, target.Subtract(origin).Normalize())
}

func newRayWithBounds(origin, direction Vec3, mint, maxt float64) Ray {
	r := Ray{Origin: origin, Direction: direction, Mint: mint, Maxt: maxt}
	r.update()
	return r
}

func (r *Ray) update() {
	r.RcpDirection = Vec3{X: 1 / r.Direction.X, Y: 1 / r.Direction.Y, Z: 1 / r.Direction.Z}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// SpawnRay constructs a ray leaving surface point p in direction d, with
// Mint offset far enough to avoid self-intersection with the surface the
// ray is spawned from.
func SpawnRay(p, d Vec3) Ray {
	maxAbs := math.Max(math.Abs(p.X), math.Max(math.Abs(p.Y), math.Abs(p.Z)))
	mint := (1 + maxAbs) * RayEpsilon
	return newRayWithBounds(p, d, mint, math.Inf(1))
}

// SpawnShadowRay builds a visibility ray from p toward a point at distance
// dist in direction d, shrinking Maxt by ShadowEpsilon so it does not
// re-intersect the target surface.
func SpawnShadowRay(p, d Vec3, dist float64) Ray {
	maxAbs := math.Max(math.Abs(p.X), math.Max(math.Abs(p.Y), math.Abs(p.Z)))
	mint := (1 + maxAbs) * RayEpsilon
	maxt := dist * (1 - ShadowEpsilon)
	return newRayWithBounds(p, d, mint, maxt)
}

// RayDifferential augments a primary ray with auxiliary rays offset by one
// pixel in x and y, used by textures that need screen-space footprints.
type RayDifferential struct {
	Ray
	HasDifferentials  bool
	OriginX, OriginY  Vec3
	DirectionX, DirectionY Vec3
}

// ScaleDifferential shrinks the auxiliary ray offsets by a per-sample
// factor (typically 1/sqrt(spp)) so that differentials reflect the actual
// footprint of one sub-pixel sample rather than a full pixel.
func (rd *RayDifferential) ScaleDifferential(scale float64) {
	if !rd.HasDifferentials {
		return
	}
	rd.OriginX = rd.Origin.Add(rd.OriginX.Subtract(rd.Origin).Multiply(scale))
	rd.OriginY = rd.Origin.Add(rd.OriginY.Subtract(rd.Origin).Multiply(scale))
	rd.DirectionX = rd.Direction.Add(rd.DirectionX.Subtract(rd.Direction).Multiply(scale))
	rd.DirectionY = rd.Direction.Add(rd.DirectionY.Subtract(rd.Direction).Multiply(scale))
}
