package interaction

import (
	"math"

	"github.com/asprenderer/aspirin/pkg/core"
)

// PreliminaryIntersection is the minimal geometric hit record an
// acceleration structure produces: enough to locate the hit primitive,
// but not yet promoted into a full SurfaceInteraction (computing shading
// partials is deferred until the integrator actually needs them).
type PreliminaryIntersection struct {
	T         float64
	U, V      float64
	PrimIndex int
	Shape     Shape
}

// IsValid reports whether the acceleration structure actually found a
// hit.
func (pi PreliminaryIntersection) IsValid() bool {
	return pi.Shape != nil && !math.IsInf(pi.T, 1)
}

// ComputeSurfaceInteraction promotes a preliminary intersection into a
// full SurfaceInteraction by delegating to the hit shape.
func (pi PreliminaryIntersection) ComputeSurfaceInteraction(ray core.Ray) SurfaceInteraction {
	if !pi.IsValid() {
		return SurfaceInteraction{T: math.Inf(1), MissDirection: ray.Direction}
	}
	return pi.Shape.ComputeSurfaceInteraction(ray, pi)
}

// SurfaceInteraction is the full interaction record at a surface point:
// geometry, shading frame, UV parameterisation and partials, and the
// incident direction expressed in the shading frame's local coordinates.
// A miss is represented by T == +Inf.
type SurfaceInteraction struct {
	P       core.Vec3 // world-space position
	Ng      core.Vec3 // geometric normal
	ShFrame core.Frame
	UV      core.Vec2
	Dpdu, Dpdv core.Vec3
	Dndu, Dndv core.Vec3

	Wi core.Vec3 // incident direction, expressed in ShFrame local coords

	// MissDirection is the world-space ray direction that produced this
	// interaction, stamped on a miss (T == +Inf) so an infinite/environment
	// emitter can look up radiance by direction. Zero on an actual hit.
	MissDirection core.Vec3

	T         float64
	PrimIndex int
	Shape     Shape

	HasUVPartials  bool
	Duvdx, Duvdy core.Vec2
}

// IsValid reports whether this interaction represents an actual hit.
func (si SurfaceInteraction) IsValid() bool {
	return !math.IsInf(si.T, 1)
}

// ToLocal expresses a world-space direction in the shading frame.
func (si SurfaceInteraction) ToLocal(v core.Vec3) core.Vec3 { return si.ShFrame.ToLocal(v) }

// ToWorld expresses a shading-frame-local direction in world space.
func (si SurfaceInteraction) ToWorld(v core.Vec3) core.Vec3 { return si.ShFrame.ToWorld(v) }

// SpawnRay constructs a ray leaving this interaction's position in
// world-space direction d, offset to avoid self-intersection.
func (si SurfaceInteraction) SpawnRay(d core.Vec3) core.Ray {
	return core.SpawnRay(si.P, d)
}

// Emitter returns the emitter attached to the hit shape, or nil.
func (si SurfaceInteraction) Emitter() Emitter {
	if si.Shape == nil {
		return nil
	}
	return si.Shape.Emitter()
}

// BSDF returns the BSDF attached to the hit shape, or nil.
func (si SurfaceInteraction) BSDF() BSDF {
	if si.Shape == nil {
		return nil
	}
	return si.Shape.BSDF()
}

// IsMediumTransition reports whether the hit surface is a bare
// medium-transition boundary (no BSDF attached, but an interior and/or
// exterior medium is).
func (si SurfaceInteraction) IsMediumTransition() bool {
	if si.Shape == nil {
		return false
	}
	if si.Shape.BSDF() != nil {
		return false
	}
	return si.Shape.InteriorMedium() != nil || si.Shape.ExteriorMedium() != nil
}

// TargetMedium returns the medium a ray continuing in world-space
// direction d enters after crossing this medium-transition surface: the
// exterior medium when d leaves along the geometric normal, the interior
// medium otherwise.
func (si SurfaceInteraction) TargetMedium(d core.Vec3) Medium {
	if si.Shape == nil {
		return nil
	}
	if d.Dot(si.Ng) > 0 {
		return si.Shape.ExteriorMedium()
	}
	return si.Shape.InteriorMedium()
}
