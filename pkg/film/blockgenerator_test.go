package film

import "testing"

func TestSpiralCoverageExact(t *testing.T) {
	size := Point2i{X: 37, Y: 51}
	const blockSize = 16

	g := NewBlockGenerator(size, blockSize)

	covered := make([]bool, size.X*size.Y)
	count := 0
	for {
		offset, bsize, _, ok := g.NextBlock()
		if !ok {
			break
		}
		count++
		for y := offset.Y; y < offset.Y+bsize.Y; y++ {
			for x := offset.X; x < offset.X+bsize.X; x++ {
				idx := y*size.X + x
				if covered[idx] {
					t.Fatalf("pixel (%d,%d) covered more than once", x, y)
				}
				covered[idx] = true
			}
		}
	}

	if count != g.BlockCount() {
		t.Fatalf("issued %d blocks, want %d", count, g.BlockCount())
	}
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			if !covered[y*size.X+x] {
				t.Fatalf("pixel (%d,%d) never covered", x, y)
			}
		}
	}
}

func TestSpiralSentinelAfterExhaustion(t *testing.T) {
	g := NewBlockGenerator(Point2i{X: 8, Y: 8}, 16)
	_, _, _, ok := g.NextBlock()
	if !ok {
		t.Fatalf("expected first block to be valid")
	}
	if _, _, _, ok := g.NextBlock(); ok {
		t.Fatalf("expected sentinel after single block exhausted")
	}
}
