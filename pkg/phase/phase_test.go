package phase

import (
	"math"
	"testing"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
)

func TestIsotropicValueEqualsPdf(t *testing.T) {
	p := NewIsotropic()
	ctx := interaction.PhaseFunctionContext{}
	mi := interaction.MediumInteraction{Wi: core.Vec3{X: 0, Y: 0, Z: 1}}

	rng := core.NewPCG32(1)
	rng.Seed(1)
	for i := 0; i < 50; i++ {
		u1, u2 := rng.Next2D()
		wo, pdf, value := p.Sample(ctx, mi, core.Vec2{X: u1, Y: u2})
		if pdf != value {
			t.Fatalf("isotropic phase must have value == pdf, got pdf=%v value=%v", pdf, value)
		}
		want := core.Inv4Pi
		if math.Abs(pdf-want) > 1e-9 {
			t.Fatalf("expected pdf 1/(4pi)=%v, got %v", want, pdf)
		}
		if p.Eval(ctx, mi, wo) != want {
			t.Fatalf("Eval must match the reference density everywhere")
		}
	}
}

func TestHenyeyGreensteinForwardBias(t *testing.T) {
	p := NewHenyeyGreenstein(0.8)
	ctx := interaction.PhaseFunctionContext{}
	mi := interaction.MediumInteraction{Wi: core.Vec3{X: 0, Y: 0, Z: 1}}

	// Wi points back along the incoming ray, so the ray travels along -z.
	forward := p.Eval(ctx, mi, core.Vec3{X: 0, Y: 0, Z: -1})
	backward := p.Eval(ctx, mi, core.Vec3{X: 0, Y: 0, Z: 1})
	if forward <= backward {
		t.Fatalf("g=0.8 should favour forward scattering: forward=%v backward=%v", forward, backward)
	}
}

func TestHenyeyGreensteinZeroGMatchesIsotropic(t *testing.T) {
	p := NewHenyeyGreenstein(0)
	ctx := interaction.PhaseFunctionContext{}
	mi := interaction.MediumInteraction{Wi: core.Vec3{X: 0, Y: 0, Z: 1}}
	v := p.Eval(ctx, mi, core.Vec3{X: 1, Y: 0, Z: 0})
	if math.Abs(v-core.Inv4Pi) > 1e-9 {
		t.Fatalf("g=0 should reduce to the isotropic density, got %v want %v", v, core.Inv4Pi)
	}
}

func TestHenyeyGreensteinSamplePdfConsistent(t *testing.T) {
	p := NewHenyeyGreenstein(-0.4)
	ctx := interaction.PhaseFunctionContext{}
	mi := interaction.MediumInteraction{Wi: core.Vec3{X: 0, Y: 1, Z: 0}}

	rng := core.NewPCG32(1)
	rng.Seed(4)
	for i := 0; i < 50; i++ {
		u1, u2 := rng.Next2D()
		wo, pdf, value := p.Sample(ctx, mi, core.Vec2{X: u1, Y: u2})
		if pdf != value {
			t.Fatalf("symmetric phase must have value == pdf")
		}
		evalAgain := p.Eval(ctx, mi, wo)
		if math.Abs(evalAgain-pdf) > 1e-9 {
			t.Fatalf("Eval(Sample()) must reproduce the sampled density: got %v want %v", evalAgain, pdf)
		}
	}
}
