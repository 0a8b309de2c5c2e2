package render

import (
	"context"
	"testing"

	"github.com/asprenderer/aspirin/pkg/accel"
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/emitter"
	"github.com/asprenderer/aspirin/pkg/film"
	"github.com/asprenderer/aspirin/pkg/filter"
	"github.com/asprenderer/aspirin/pkg/integrator"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/scenecfg"
	"github.com/asprenderer/aspirin/pkg/sensor"
	"github.com/asprenderer/aspirin/pkg/shape"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

type countingWriter struct {
	width, height int
	nonzero       int
}

func (w *countingWriter) WritePixels(pixels []float32, width, height int) error {
	w.width, w.height = width, height
	for _, v := range pixels {
		if v > 0 {
			w.nonzero++
		}
	}
	return nil
}

func buildTestScene(t *testing.T, width, height int) (*scenecfg.Scene, *film.Film) {
	t.Helper()
	light := shape.NewSphere(core.Vec3{X: 0, Y: 0, Z: 5}, 1)
	em := emitter.NewArea(light, spectrum.Gray(6))
	light.EmitterRef = em

	bvh := accel.NewBVH([]shape.Primitive{light})
	cam := sensor.NewPerspective(sensor.PerspectiveConfig{
		Origin: core.Vec3{}, Target: core.Vec3{X: 0, Y: 0, Z: 1}, Up: core.Vec3{X: 0, Y: 1, Z: 0},
		FovY: 40, Width: width, Height: height,
	})
	sc := scenecfg.New([]interaction.Shape{light}, []interaction.Emitter{em}, nil, cam, bvh, light.Bbox())

	f := film.New(width, height, filter.NewBox(0.5))
	return sc, f
}

func TestRenderPopulatesFilmWithVisibleLight(t *testing.T) {
	sc, f := buildTestScene(t, 16, 16)
	integ := integrator.NewPath(integrator.Config{MaxDepth: 2, RRDepth: 100})
	sampler := core.NewPCG32(4)

	err := Render(context.Background(), sc, integ, f, sampler, Config{Workers: 2, BlockSize: 8})
	if err != nil {
		t.Fatalf("Render returned an error: %v", err)
	}

	w := &countingWriter{}
	if err := f.Develop(w); err != nil {
		t.Fatalf("Develop returned an error: %v", err)
	}
	if w.width != 16 || w.height != 16 {
		t.Fatalf("expected a 16x16 developed image, got %dx%d", w.width, w.height)
	}
	if w.nonzero == 0 {
		t.Fatalf("expected at least one nonzero pixel from the visible light")
	}
}

func TestRenderRespectsCancelledContext(t *testing.T) {
	sc, f := buildTestScene(t, 64, 64)
	integ := integrator.NewPath(integrator.Config{MaxDepth: 2, RRDepth: 100})
	sampler := core.NewPCG32(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Render(ctx, sc, integ, f, sampler, Config{Workers: 2, BlockSize: 8})
	if err == nil {
		t.Fatalf("expected Render to report the cancelled context")
	}
}
