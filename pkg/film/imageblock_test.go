package film

import (
	"math"
	"testing"

	"github.com/asprenderer/aspirin/pkg/filter"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

func TestImageBlockRejectsNaNAndNegative(t *testing.T) {
	f := filter.NewGaussian(0.5)
	b := NewImageBlock(Point2i{X: 4, Y: 4}, f)

	if b.Put(Vec2{X: 2, Y: 2}, spectrum.Spectrum{R: float32(math.NaN()), G: 0, B: 0}) {
		t.Errorf("Put with NaN component should return false")
	}
	if b.Put(Vec2{X: 2, Y: 2}, spectrum.Spectrum{R: -1, G: 0, B: 0}) {
		t.Errorf("Put with negative component should return false")
	}
}

func TestImageBlockPutAccumulatesWeight(t *testing.T) {
	f := filter.NewBox(0.75)
	b := NewImageBlock(Point2i{X: 4, Y: 4}, f)
	ok := b.Put(Vec2{X: 2, Y: 2}, spectrum.White)
	if !ok {
		t.Fatalf("expected Put to succeed")
	}
	// Developing by hand: total weight across splashed pixels should be > 0.
	total := float32(0)
	for _, p := range b.buffer {
		total += p.W
	}
	if total <= 0 {
		t.Fatalf("expected positive accumulated weight, got %v", total)
	}
}

func TestImageBlockAssociativeAccumulation(t *testing.T) {
	f := filter.NewBox(0.75)

	makeFilled := func() *ImageBlock {
		b := NewImageBlock(Point2i{X: 8, Y: 8}, f)
		b.Put(Vec2{X: 1, Y: 1}, spectrum.New(1, 0, 0))
		b.Put(Vec2{X: 5, Y: 5}, spectrum.New(0, 1, 0))
		return b
	}

	order1 := NewImageBlock(Point2i{X: 8, Y: 8}, f)
	a := makeFilled()
	order1.PutBlock(a)

	order2 := NewImageBlock(Point2i{X: 8, Y: 8}, f)
	b1 := NewImageBlock(Point2i{X: 8, Y: 8}, f)
	b1.Put(Vec2{X: 1, Y: 1}, spectrum.New(1, 0, 0))
	order2.PutBlock(b1)
	b2 := NewImageBlock(Point2i{X: 8, Y: 8}, f)
	b2.Put(Vec2{X: 5, Y: 5}, spectrum.New(0, 1, 0))
	order2.PutBlock(b2)

	for i := range order1.buffer {
		p1, p2 := order1.buffer[i], order2.buffer[i]
		if math.Abs(float64(p1.R-p2.R)) > 1e-6 || math.Abs(float64(p1.G-p2.G)) > 1e-6 ||
			math.Abs(float64(p1.W-p2.W)) > 1e-6 {
			t.Fatalf("pixel %d differs by interleaving: %v vs %v", i, p1, p2)
		}
	}
}
