// Package shape implements the Shape contract (interaction.Shape): simple
// analytic primitives and an indexed triangle mesh, plus the Primitive
// interface the accel package's BVH builds over.
package shape

import (
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
)

// Primitive is the contract an acceleration structure builds leaves
// over: a shape may expose more than one traceable primitive (a triangle
// mesh exposes one per triangle), each with its own bounding box and
// ray-intersection routine, but they all report back through the same
// owning Shape so BSDF/Emitter/Medium attachment stays per-shape rather
// than per-primitive.
type Primitive interface {
	interaction.Shape
	PrimitiveCount() int
	PrimitiveBbox(i int) core.AABB
	// IntersectPrimitive tests primitive i against ray, returning the hit
	// parameter and two sub-surface coordinates (barycentric u,v for a
	// triangle; spherical u,v for an analytic sphere) in the same measure
	// ComputeSurfaceInteraction expects back through PreliminaryIntersection.
	IntersectPrimitive(ray core.Ray, i int) (t, u, v float64, ok bool)
}

// Attachment is the BSDF/Emitter/Medium bundle every concrete shape
// embeds, implementing the attachment quarter of interaction.Shape.
type Attachment struct {
	BSDFRef      interaction.BSDF
	EmitterRef   interaction.Emitter
	InteriorRef  interaction.Medium
	ExteriorRef  interaction.Medium
}

func (a *Attachment) BSDF() interaction.BSDF             { return a.BSDFRef }
func (a *Attachment) Emitter() interaction.Emitter        { return a.EmitterRef }
func (a *Attachment) InteriorMedium() interaction.Medium  { return a.InteriorRef }
func (a *Attachment) ExteriorMedium() interaction.Medium  { return a.ExteriorRef }
