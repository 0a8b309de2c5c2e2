package interaction

import "github.com/asprenderer/aspirin/pkg/core"

// PositionSample is a point sampled on a shape's surface in area measure.
type PositionSample struct {
	P, N  core.Vec3
	UV    core.Vec2
	Pdf   float64 // area measure; 0 signals "sample failed"
	Delta bool    // true when the support is a Dirac delta (point shapes)
}

// DirectionSample is a direction sampled with a solid-angle density,
// independent of any particular reference point.
type DirectionSample struct {
	D   core.Vec3
	Pdf float64
}

// DirectIllumSample extends a position/direction sample with the query
// origin and distance needed for emitter-to-reference (next-event
// estimation) queries.
type DirectIllumSample struct {
	P, N  core.Vec3
	UV    core.Vec2
	Pdf   float64 // solid-angle measure as seen from RefP
	Delta bool

	RefP core.Vec3
	D    core.Vec3
	Dist float64

	// Emitter is the light this sample was drawn from, recorded so a
	// scene holding several emitters can route a later pdf_emitter_direct
	// query back to the right one without re-searching.
	Emitter Emitter
}

// DirectIllumSampleFromRef builds a DirectIllumSample by computing the
// query direction and distance from a reference point to a sampled
// position, matching the reference renderer's
// DirectSample::make_with_interactions. When sampled.P coincides with
// refP (zero distance), d is taken from -wi instead and Dist is 0; an
// invalid sample at any other position is not detected.
func DirectIllumSampleFromRef(refP core.Vec3, sampled PositionSample, wi core.Vec3) DirectIllumSample {
	ds := DirectIllumSample{P: sampled.P, N: sampled.N, UV: sampled.UV, Pdf: sampled.Pdf, Delta: sampled.Delta, RefP: refP}
	d := sampled.P.Subtract(refP)
	dist := d.Length()
	if dist > 0 {
		ds.D = d.Multiply(1 / dist)
		ds.Dist = dist
	} else {
		ds.D = wi.Negate()
		ds.Dist = 0
	}
	return ds
}
