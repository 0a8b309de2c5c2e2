package integrator

import (
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/scenecfg"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// Volumetric implements unidirectional path tracing through participating
// media: it carries an explicit "current medium" pointer, updated at every
// medium-transition surface, and at every bounce samples a free-flight
// distance before deciding whether the path scattered inside the medium or
// passed through to the next surface. Everything else (NEE, MIS, Russian
// roulette, depth guard) mirrors Path.
type Volumetric struct {
	Config
}

// NewVolumetric builds a volumetric path tracer with the given depth
// configuration.
func NewVolumetric(cfg Config) *Volumetric {
	return &Volumetric{Config: cfg}
}

// Li estimates the radiance arriving along ray, starting in vacuum (the
// camera is assumed to sit outside every medium).
func (v *Volumetric) Li(ray core.Ray, scene *scenecfg.Scene, sampler core.Sampler) spectrum.Spectrum {
	maxDepth := v.maxDepth()
	rrDepth := v.rrDepth()
	ctx := interaction.NewBSDFContext()
	pctx := interaction.PhaseFunctionContext{}

	si := scene.RayIntersect(ray)
	var currentMedium interaction.Medium
	throughput := spectrum.White
	result := spectrum.Black
	eta := 1.0
	scattered := false

	for depth := 1; depth <= maxDepth; depth++ {
		mi, mediumPdf, hasMedium := sampleMediumInteraction(currentMedium, ray, si, sampler)
		if hasMedium && mi.IsValid() {
			// Medium-scatter branch: the path terminated inside the medium
			// rather than reaching the next surface.
			if mediumPdf <= 0 {
				break
			}
			throughput = throughput.Mul(mi.SigmaS).Mul(mi.Transmittance).Scale(float32(1 / mediumPdf))

			ref := interaction.SurfaceInteraction{P: mi.P}
			u1, u2 := sampler.Next2D()
			ds, le := scene.SampleAttenuatedEmitterDirect(ref, currentMedium, core.Vec2{X: u1, Y: u2})
			if ds.Pdf > 0 {
				phase := currentMedium.PhaseFunction()
				phaseVal := phase.Eval(pctx, mi, ds.D)
				w := 1.0
				if ds.Emitter == nil || ds.Emitter.Flags()&interaction.EmitterDelta == 0 {
					w = core.MISWeight(ds.Pdf, phaseVal)
				}
				result = result.Add(throughput.Mul(le).Scale(float32(phaseVal * w)))
			}

			phase := currentMedium.PhaseFunction()
			u3x, u3y := sampler.Next2D()
			wo, pdfPhase, value := phase.Sample(pctx, mi, core.Vec2{X: u3x, Y: u3y})
			if pdfPhase <= 0 {
				break
			}
			throughput = throughput.Scale(float32(value / pdfPhase))
			scattered = true

			nextRay := mi.SpawnRay(wo)
			si = scene.RayIntersect(nextRay)
			ray = nextRay

			if !rouletteSurvives(depth, rrDepth, sampler, &throughput, eta) {
				break
			}
			continue
		}

		// Pass-through branch: no medium interaction inside this segment
		// (or no medium at all). Fold in the segment's transmittance and
		// continue exactly as the surface-only integrator does.
		if hasMedium {
			if mediumPdf <= 0 {
				break
			}
			throughput = throughput.Mul(mi.Transmittance).Scale(float32(1 / mediumPdf))
		}

		if !si.IsValid() {
			if (depth == 1 || scattered) && scene.Environment != nil {
				result = result.Add(throughput.Mul(scene.Environment.Eval(si)))
			}
			break
		}

		if emitter := si.Emitter(); emitter != nil && depth == 1 {
			result = result.Add(throughput.Mul(emitter.Eval(si)))
		}

		if depth >= maxDepth {
			break
		}

		bsdf := si.BSDF()
		if bsdf == nil {
			// A bare medium-transition surface: cross it and keep going
			// without spending a bounce.
			if si.IsMediumTransition() {
				currentMedium = si.TargetMedium(ray.Direction)
				ray = si.SpawnRay(ray.Direction)
				si = scene.RayIntersect(ray)
				depth--
				continue
			}
			break
		}

		if interaction.AnyFlag(bsdf.Flags(), interaction.FlagSmooth) {
			u1, u2 := sampler.Next2D()
			ds, le := scene.SampleAttenuatedEmitterDirect(si, currentMedium, core.Vec2{X: u1, Y: u2})
			if ds.Pdf > 0 {
				wo := si.ToLocal(ds.D)
				f := bsdf.Eval(ctx, si, wo)
				pBSDF := bsdf.Pdf(ctx, si, wo)
				w := 1.0
				if ds.Emitter == nil || ds.Emitter.Flags()&interaction.EmitterDelta == 0 {
					w = core.MISWeight(ds.Pdf, pBSDF)
				}
				result = result.Add(throughput.Mul(f).Mul(le).Scale(float32(w)))
			}
		}

		s1 := sampler.Next1D()
		s2x, s2y := sampler.Next2D()
		bs, fOverPdf := bsdf.Sample(ctx, si, s1, core.Vec2{X: s2x, Y: s2y})
		if fOverPdf.IsBlack() {
			break
		}
		scattered = scattered || bs.SampledType != interaction.FlagNull

		wo := si.ToWorld(bs.Wo)
		if si.IsMediumTransition() {
			currentMedium = si.TargetMedium(wo)
		}
		nextRay := si.SpawnRay(wo)
		siNext := scene.RayIntersect(nextRay)

		throughput = throughput.Mul(fOverPdf)
		eta *= bs.Eta

		emitterNext := scene.Environment
		if siNext.IsValid() {
			emitterNext = siNext.Emitter()
		}
		if emitterNext != nil {
			le := emitterNext.Eval(siNext)
			ds := directIllumFromBounce(si.P, wo, siNext)
			ds.Emitter = emitterNext
			pE := 0.0
			if !interaction.AnyFlag(bs.SampledType, interaction.FlagDelta) {
				pE = scene.PdfEmitterDirect(ds)
			}
			w := core.MISWeight(bs.Pdf, pE)
			result = result.Add(throughput.Mul(le).Scale(float32(w)))
		}

		if !rouletteSurvives(depth, rrDepth, sampler, &throughput, eta) {
			break
		}

		ray = nextRay
		si = siNext
	}
	return result
}

// sampleMediumInteraction draws a free-flight distance inside medium along
// the segment [ray.Mint, min(ray.Maxt, distance to si)), on a uniformly
// chosen spectral channel. hasMedium is false when there is no current
// medium, in which case the caller proceeds straight to the surface.
func sampleMediumInteraction(medium interaction.Medium, ray core.Ray, si interaction.SurfaceInteraction, sampler core.Sampler) (interaction.MediumInteraction, float64, bool) {
	if medium == nil {
		return interaction.MediumInteraction{}, 0, false
	}
	segment := ray
	if si.IsValid() {
		segment.Maxt = si.T
	}
	u := sampler.Next1D()
	channel := int(3 * u)
	if channel > 2 {
		channel = 2
	}
	mi, pdf := medium.SampleDistance(segment, sampler.Next1D(), channel)
	return mi, pdf, true
}

// rouletteSurvives applies Russian roulette in place on throughput,
// reporting whether the path should continue.
func rouletteSurvives(depth, rrDepth int, sampler core.Sampler, throughput *spectrum.Spectrum, eta float64) bool {
	if depth+1 < rrDepth {
		return true
	}
	q := float64(throughput.MaxComponent()) * eta * eta
	if q > 0.95 {
		q = 0.95
	}
	if q <= 0 || sampler.Next1D() >= q {
		return false
	}
	*throughput = throughput.Scale(float32(1 / q))
	return true
}
