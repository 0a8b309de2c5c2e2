package bsdf

import (
	"math"
	"testing"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
)

func TestSmoothDielectricNormalIncidenceReflectance(t *testing.T) {
	s := NewSmoothDielectric(1.5, 1.0)
	r, _, _, _ := DielectricFresnel(1.0, s.Eta)
	want := math.Pow((1.5-1.0)/(1.5+1.0), 2)
	if math.Abs(r-want) > 1e-9 {
		t.Fatalf("normal-incidence Fresnel reflectance: got %v want %v", r, want)
	}
}

func TestSmoothDielectricTotalInternalReflection(t *testing.T) {
	s := NewSmoothDielectric(1.0, 1.5) // light travelling inside glass, hitting from the dense side
	cosThetaI := 0.05                  // a grazing angle, steep enough to trigger TIR at eta=1/1.5
	r, _, _, _ := DielectricFresnel(cosThetaI, s.Eta)
	if r != 1 {
		t.Fatalf("expected total internal reflection (r=1) at grazing angle, got %v", r)
	}
}

func TestSmoothDielectricSampleIsEitherDeltaLobe(t *testing.T) {
	s := NewSmoothDielectric(1.5, 1.0)
	ctx := interaction.NewBSDFContext()
	si := siWithWi(core.Vec3{X: 0, Y: 0, Z: 1})

	rng := core.NewPCG32(1)
	rng.Seed(9)
	for i := 0; i < 200; i++ {
		u1 := rng.Next1D()
		u2x, u2y := rng.Next2D()
		bs, weight := s.Sample(ctx, si, u1, core.Vec2{X: u2x, Y: u2y})
		if bs.Pdf <= 0 {
			t.Fatalf("smooth dielectric must always produce a valid sample")
		}
		if weight.HasNegative() || weight.HasNaN() {
			t.Fatalf("invalid weight %v", weight)
		}
		isReflect := bs.SampledType == interaction.FlagDeltaReflection
		isTransmit := bs.SampledType == interaction.FlagDeltaTransmission
		if isReflect == isTransmit {
			t.Fatalf("sample must be exactly one delta lobe, got flags %v", bs.SampledType)
		}
	}
}
