package medium

import (
	"math"
	"testing"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

func TestHomogeneousTransmittanceDecaysExponentially(t *testing.T) {
	m := NewHomogeneous(spectrum.Gray(0.5), spectrum.Gray(0.3), 1.0)
	ray := core.NewRay(core.Vec3{}, core.Vec3{X: 0, Y: 0, Z: 1})
	ray.Mint = 0
	ray.Maxt = 2.0

	trans := m.EvalTransmittance(ray)
	sigmaT := 0.8
	want := math.Exp(-sigmaT * 2.0)
	if math.Abs(float64(trans.R)-want) > 1e-6 {
		t.Fatalf("transmittance mismatch: got %v want %v", trans.R, want)
	}
}

func TestHomogeneousSampleDistanceInsideSegmentIsValid(t *testing.T) {
	m := NewHomogeneous(spectrum.Gray(2.0), spectrum.Gray(0.0), 1.0)
	ray := core.NewRay(core.Vec3{X: 1, Y: 1, Z: 1}, core.Vec3{X: 0, Y: 0, Z: 1})
	ray.Mint = 0
	ray.Maxt = 100

	mi, pdf := m.SampleDistance(ray, 0.5, 0)
	if !mi.IsValid() {
		t.Fatalf("expected a valid medium interaction for u=0.5 across a long segment")
	}
	if pdf <= 0 {
		t.Fatalf("expected a positive pdf, got %v", pdf)
	}
	if mi.SigmaS.R != 2.0 {
		t.Fatalf("expected sigma_s to be forwarded onto the interaction, got %v", mi.SigmaS)
	}
}

func TestHomogeneousSampleDistancePastSegmentMisses(t *testing.T) {
	m := NewHomogeneous(spectrum.Gray(5.0), spectrum.Gray(0.0), 1.0)
	ray := core.NewRay(core.Vec3{}, core.Vec3{X: 0, Y: 0, Z: 1})
	ray.Mint = 0
	ray.Maxt = 0.001

	mi, pdf := m.SampleDistance(ray, 0.9999, 0)
	if mi.IsValid() {
		t.Fatalf("expected a miss (t=+Inf) for a very short segment and a large sample")
	}
	if pdf <= 0 || pdf > 1 {
		t.Fatalf("miss pdf should be the full-segment transmittance mean in (0,1], got %v", pdf)
	}
}

func TestHomogeneousZeroExtinctionChannelPassesThrough(t *testing.T) {
	m := NewHomogeneous(spectrum.Black, spectrum.Black, 1.0)
	ray := core.NewRay(core.Vec3{}, core.Vec3{X: 0, Y: 0, Z: 1})
	ray.Maxt = 10

	mi, pdf := m.SampleDistance(ray, 0.5, 0)
	if mi.IsValid() {
		t.Fatalf("a vacuum medium should never report a valid scattering event")
	}
	if pdf != 1 {
		t.Fatalf("expected unit pdf for a vacuum channel, got %v", pdf)
	}
}
