package bsdf

import (
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// TwoSided wraps two purely-reflective BSDFs, forwarding to Front for
// front-facing wi (CosTheta(wi) >= 0) and to Back otherwise, flipping the
// local-frame z axis of every direction crossing the wrapper boundary so
// the wrapped BSDF always sees a front-facing query.
type TwoSided struct {
	Front, Back interaction.BSDF
}

// NewTwoSided panics if either side exposes any Transmission component:
// a two-sided wrapper only makes sense over purely reflective BSDFs,
// since it resolves sidedness by picking one of two reflectors rather
// than tracking which medium wi/wo cross into.
func NewTwoSided(front, back interaction.BSDF) *TwoSided {
	if front.Flags()&interaction.FlagTransmission != 0 || back.Flags()&interaction.FlagTransmission != 0 {
		panic("bsdf: TwoSided cannot wrap a BSDF with a Transmission component")
	}
	return &TwoSided{Front: front, Back: back}
}

func flipZ(v core.Vec3) core.Vec3 { return core.Vec3{X: v.X, Y: v.Y, Z: -v.Z} }

func (t *TwoSided) side(wi core.Vec3) interaction.BSDF {
	if core.CosTheta(wi) >= 0 {
		return t.Front
	}
	return t.Back
}

func (t *TwoSided) Flags() interaction.BSDFFlags { return t.Front.Flags() | t.Back.Flags() }

func (t *TwoSided) ComponentFlags(i int) interaction.BSDFFlags {
	n := t.Front.ComponentCount()
	if i < n {
		return t.Front.ComponentFlags(i)
	}
	return t.Back.ComponentFlags(i - n)
}

func (t *TwoSided) ComponentCount() int {
	return t.Front.ComponentCount() + t.Back.ComponentCount()
}

func (t *TwoSided) Sample(ctx interaction.BSDFContext, si interaction.SurfaceInteraction, sample1 float64, sample2 core.Vec2) (interaction.BSDFSample, spectrum.Spectrum) {
	flipped := core.CosTheta(si.Wi) < 0
	inner := si
	if flipped {
		inner.Wi = flipZ(si.Wi)
	}
	bs, weight := t.side(si.Wi).Sample(ctx, inner, sample1, sample2)
	if bs.Pdf <= 0 {
		return interaction.BSDFSample{}, spectrum.Black
	}
	if flipped {
		bs.Wo = flipZ(bs.Wo)
	}
	return bs, weight
}

func (t *TwoSided) Eval(ctx interaction.BSDFContext, si interaction.SurfaceInteraction, wo core.Vec3) spectrum.Spectrum {
	flipped := core.CosTheta(si.Wi) < 0
	inner := si
	innerWo := wo
	if flipped {
		inner.Wi = flipZ(si.Wi)
		innerWo = flipZ(wo)
	}
	return t.side(si.Wi).Eval(ctx, inner, innerWo)
}

func (t *TwoSided) Pdf(ctx interaction.BSDFContext, si interaction.SurfaceInteraction, wo core.Vec3) float64 {
	flipped := core.CosTheta(si.Wi) < 0
	inner := si
	innerWo := wo
	if flipped {
		inner.Wi = flipZ(si.Wi)
		innerWo = flipZ(wo)
	}
	return t.side(si.Wi).Pdf(ctx, inner, innerWo)
}
