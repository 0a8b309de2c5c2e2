package bsdf

import (
	"testing"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/spectrum"
	"github.com/asprenderer/aspirin/pkg/texture"
)

func siWithWiAndUV(wi core.Vec3, uv core.Vec2) interaction.SurfaceInteraction {
	si := siWithWi(wi)
	si.UV = uv
	return si
}

func TestTexturedDiffuseSamplesTheTextureAtTheHitUV(t *testing.T) {
	red := spectrum.New(1, 0, 0)
	blue := spectrum.New(0, 0, 1)
	bmp := texture.NewBitmap(2, 1, []spectrum.Spectrum{red, blue})
	d := NewTexturedDiffuse(bmp)
	ctx := interaction.NewBSDFContext()
	wi := core.Vec3{X: 0, Y: 0, Z: 1}

	left := siWithWiAndUV(wi, core.Vec2{X: 0.1, Y: 0.5})
	_, weight := d.Sample(ctx, left, 0.3, core.Vec2{X: 0.2, Y: 0.7})
	if weight != red {
		t.Fatalf("expected the left UV to sample red, got %v", weight)
	}

	right := siWithWiAndUV(wi, core.Vec2{X: 0.9, Y: 0.5})
	_, weight = d.Sample(ctx, right, 0.3, core.Vec2{X: 0.2, Y: 0.7})
	if weight != blue {
		t.Fatalf("expected the right UV to sample blue, got %v", weight)
	}
}

func TestTexturedDiffuseEvalMatchesDiffuseLawPerTexel(t *testing.T) {
	c := texture.NewConstant3(spectrum.Gray(0.5))
	d := NewTexturedDiffuse(c)
	ctx := interaction.NewBSDFContext()
	wi := core.Vec3{X: 0, Y: 0, Z: 1}
	wo := core.Vec3{X: 0, Y: 0, Z: 1}
	si := siWithWiAndUV(wi, core.Vec2{X: 0.4, Y: 0.6})

	f := d.Eval(ctx, si, wo)
	wantF := 0.5 * core.InvPi * core.CosTheta(wo)
	if diff := float64(f.R) - wantF; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("eval mismatch: got %v want %v", f.R, wantF)
	}
}

func TestTexturedDiffuseBackfacingIsBlack(t *testing.T) {
	c := texture.NewConstant3(spectrum.White)
	d := NewTexturedDiffuse(c)
	ctx := interaction.NewBSDFContext()
	wi := core.Vec3{X: 0, Y: 0, Z: -1}
	si := siWithWiAndUV(wi, core.Vec2{X: 0.5, Y: 0.5})
	bs, weight := d.Sample(ctx, si, 0.3, core.Vec2{X: 0.2, Y: 0.7})
	if bs.Pdf != 0 || !weight.IsBlack() {
		t.Fatalf("expected a black sample for backfacing wi, got pdf=%v weight=%v", bs.Pdf, weight)
	}
}
