package emitter

import (
	"math"

	"github.com/asprenderer/aspirin/internal/envmap"
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// Environment is an infinite light bound to the scene's bounding sphere
// at BindScene time. With Image nil it emits a uniform Radiance from
// every direction; with Image set it looks up a spatially-varying
// radiance by equirectangularly projecting the query direction onto the
// decoded HDR map instead.
type Environment struct {
	Radiance spectrum.Spectrum
	Image    *envmap.Image
	bsphere  core.BoundingSphere
}

func NewEnvironment(radiance spectrum.Spectrum) *Environment {
	return &Environment{Radiance: radiance, bsphere: core.BoundingSphere{Radius: 1}}
}

// NewEnvironmentMap builds an environment light that samples radiance
// from a decoded equirectangular HDR map rather than a flat constant.
func NewEnvironmentMap(img *envmap.Image) *Environment {
	return &Environment{Image: img, bsphere: core.BoundingSphere{Radius: 1}}
}

// radianceFrom looks up the emitted radiance along world-space direction
// d: an equirectangular Image sample if one is bound, else the flat
// Radiance. Equirectangular convention matches the reference image
// loader's row-major, top-to-bottom layout: v=0 (image top) faces +Y.
func (e *Environment) radianceFrom(d core.Vec3) spectrum.Spectrum {
	if e.Image == nil {
		return e.Radiance
	}
	theta := math.Acos(math.Max(-1, math.Min(1, d.Y)))
	phi := math.Atan2(d.Z, d.X)
	u := (phi + core.Pi) / (2 * core.Pi)
	v := theta / core.Pi
	x := int(u * float64(e.Image.Width))
	y := int(v * float64(e.Image.Height))
	return e.Image.At(x, y)
}

// BindScene adopts bbox's bounding sphere, which BoundingSphere already
// pads by a relative 1e-3 so shadow rays aimed at the sampled point never
// self-intersect scene geometry sitting exactly on the sphere; the radius
// is clamped to at least RayEpsilon.
func (e *Environment) BindScene(bbox core.AABB) {
	e.bsphere = bbox.BoundingSphere()
	if e.bsphere.Radius < core.RayEpsilon {
		e.bsphere.Radius = core.RayEpsilon
	}
}

func (e *Environment) Flags() interaction.EmitterFlags { return interaction.EmitterInfinite }

// SampleRay samples a uniform direction and a uniformly distributed
// origin over the disk perpendicular to it at twice the bounding-sphere
// radius, approximating forward emission from an environment at
// infinity. Only light-tracing-style integrators (out of scope here)
// exercise this path; the surface/volumetric path integrators only ever
// call SampleDirect and Eval.
func (e *Environment) SampleRay(u2a, u2b core.Vec2) (core.Ray, spectrum.Spectrum) {
	d := core.SquareToUniformSphere(u2a.X, u2a.Y)
	frame := core.NewFrame(d)
	r := math.Sqrt(u2b.X) * e.bsphere.Radius
	phi := 2 * core.Pi * u2b.Y
	s, c := math.Sincos(phi)
	diskP := frame.ToWorld(core.Vec3{X: r * c, Y: r * s})
	origin := e.bsphere.Center.Add(diskP).Subtract(d.Multiply(2 * e.bsphere.Radius))

	pdf := core.SquareToUniformSpherePDF() / (core.Pi * e.bsphere.Radius * e.bsphere.Radius)
	power := e.radianceFrom(d).Scale(float32(1 / pdf))
	return core.NewRay(origin, d), power
}

// SampleDirect samples a uniform direction from ref and places the
// sampled point one bounding-sphere diameter (twice the radius) away, matching the
// reference constant-background emitter.
func (e *Environment) SampleDirect(ref interaction.SurfaceInteraction, u core.Vec2) (interaction.DirectIllumSample, spectrum.Spectrum) {
	d := core.SquareToUniformSphere(u.X, u.Y)
	dist := 2 * e.bsphere.Radius
	pdf := core.SquareToUniformSpherePDF()

	ds := interaction.DirectIllumSample{
		P: ref.P.Add(d.Multiply(dist)), N: d.Negate(), Pdf: pdf,
		RefP: ref.P, D: d, Dist: dist, Emitter: e,
	}
	return ds, e.radianceFrom(d).Scale(float32(1 / pdf))
}

func (e *Environment) PdfDirect(ds interaction.DirectIllumSample) float64 {
	return core.SquareToUniformSpherePDF()
}

// Eval returns the radiance arriving from si.MissDirection, the
// world-space ray direction ComputeSurfaceInteraction stamped onto a
// miss. A zero direction (e.g. a caller-constructed SurfaceInteraction
// with no miss direction recorded) falls back to the +Y pole.
func (e *Environment) Eval(si interaction.SurfaceInteraction) spectrum.Spectrum {
	d := si.MissDirection
	if d.X == 0 && d.Y == 0 && d.Z == 0 {
		d = core.Vec3{Y: 1}
	}
	return e.radianceFrom(d)
}
