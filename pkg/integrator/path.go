package integrator

import (
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/scenecfg"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// Path implements unidirectional path tracing with next-event estimation,
// the power-heuristic MIS weight and Russian roulette. It handles surfaces
// only; Volumetric adds the medium-transmittance bookkeeping on top of the
// same structure.
type Path struct {
	Config
}

// NewPath builds a surface path tracer with the given depth configuration.
func NewPath(cfg Config) *Path {
	return &Path{Config: cfg}
}

// Li estimates the radiance arriving along ray.
func (p *Path) Li(ray core.Ray, scene *scenecfg.Scene, sampler core.Sampler) spectrum.Spectrum {
	maxDepth := p.maxDepth()
	rrDepth := p.rrDepth()
	ctx := interaction.NewBSDFContext()

	si := scene.RayIntersect(ray)
	throughput := spectrum.White
	result := spectrum.Black
	eta := 1.0
	scattered := false

	for depth := 1; depth <= maxDepth; depth++ {
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
			break
		}

		if interaction.AnyFlag(bsdf.Flags(), interaction.FlagSmooth) {
			u1, u2 := sampler.Next2D()
			ds, le := scene.SampleEmitterDirect(si, core.Vec2{X: u1, Y: u2}, true)
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

		if depth+1 >= rrDepth {
			q := float64(throughput.MaxComponent()) * eta * eta
			if q > 0.95 {
				q = 0.95
			}
			if q <= 0 || sampler.Next1D() >= q {
				break
			}
			throughput = throughput.Scale(float32(1 / q))
		}

		si = siNext
	}
	return result
}

// directIllumFromBounce builds the DirectIllumSample a BSDF-sampled bounce
// implicitly produced, so its pdf can be re-evaluated as an emitter-direct
// density for MIS. refP/d are the spawning surface point and the sampled
// world-space direction; siNext is the interaction the bounce landed on
// (possibly invalid, signalling an environment hit at infinity).
func directIllumFromBounce(refP, d core.Vec3, siNext interaction.SurfaceInteraction) interaction.DirectIllumSample {
	ds := interaction.DirectIllumSample{RefP: refP, D: d}
	if siNext.IsValid() {
		ds.P = siNext.P
		ds.N = siNext.Ng
		ds.Dist = siNext.P.Subtract(refP).Length()
	}
	return ds
}
