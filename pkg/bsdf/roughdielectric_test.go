package bsdf

import (
	"testing"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
)

func TestRoughDielectricSampleStaysOnExpectedSide(t *testing.T) {
	rd := NewRoughDielectric(MicrofacetDistribution{Type: GGX, Alpha: 0.2}, 1.5, 1.0)
	ctx := interaction.NewBSDFContext()
	si := siWithWi(core.Vec3{X: 0, Y: 0, Z: 1})

	rng := core.NewPCG32(1)
	rng.Seed(13)
	reflected, transmitted := 0, 0
	for i := 0; i < 500; i++ {
		u1 := rng.Next1D()
		u2x, u2y := rng.Next2D()
		bs, weight := rd.Sample(ctx, si, u1, core.Vec2{X: u2x, Y: u2y})
		if bs.Pdf <= 0 {
			continue
		}
		if weight.HasNegative() || weight.HasNaN() {
			t.Fatalf("invalid sample weight %v", weight)
		}
		cosO := core.CosTheta(bs.Wo)
		switch bs.SampledType {
		case interaction.FlagGlossyReflection:
			reflected++
			if cosO <= 0 {
				t.Fatalf("reflection branch produced a transmitted direction: wo=%v", bs.Wo)
			}
		case interaction.FlagGlossyTransmission:
			transmitted++
			if cosO >= 0 {
				t.Fatalf("transmission branch produced a reflected direction: wo=%v", bs.Wo)
			}
		default:
			t.Fatalf("unexpected sampled component flags %v", bs.SampledType)
		}
	}
	if reflected == 0 || transmitted == 0 {
		t.Fatalf("expected both branches to fire over 500 draws, got reflected=%d transmitted=%d", reflected, transmitted)
	}
}

func TestRoughDielectricPdfNonNegative(t *testing.T) {
	rd := NewRoughDielectric(MicrofacetDistribution{Type: Beckmann, Alpha: 0.3}, 1.33, 1.0)
	ctx := interaction.NewBSDFContext()
	si := siWithWi(core.Vec3{X: 0, Y: 0, Z: 1})

	rng := core.NewPCG32(1)
	rng.Seed(17)
	for i := 0; i < 500; i++ {
		u1, u2 := rng.Next2D()
		wo := core.SquareToUniformSphere(u1, u2)
		if rd.Pdf(ctx, si, wo) < 0 {
			t.Fatalf("negative pdf for wo=%v", wo)
		}
	}
}
