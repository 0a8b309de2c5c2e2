// Package film implements the reconstruction-filter splatting pipeline:
// per-tile ImageBlocks, the thread-safe Film accumulator, and the spiral
// BlockGenerator that drives the tile-parallel renderer.
package film

import (
	"math"
	"sync"

	"github.com/asprenderer/aspirin/pkg/filter"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

type pixel struct {
	R, G, B, W float32
}

// ImageBlock is a rectangular tile of radiance samples plus a border of
// width ceil(filterRadius - 0.5) so that filter splats along a tile's
// edge still land in the right place.
type ImageBlock struct {
	offset     Point2i
	size       Point2i
	borderSize int
	filter     *filter.Filter
	buffer     []pixel
	mu         sync.Mutex
}

// NewImageBlock allocates a block of the given logical size for the given
// reconstruction filter.
func NewImageBlock(size Point2i, f *filter.Filter) *ImageBlock {
	border := int(math.Ceil(f.Radius - 0.5))
	if border < 0 {
		border = 0
	}
	b := &ImageBlock{size: size, borderSize: border, filter: f}
	b.allocate()
	return b
}

func (b *ImageBlock) allocate() {
	w := b.size.X + 2*b.borderSize
	h := b.size.Y + 2*b.borderSize
	b.buffer = make([]pixel, w*h)
}

func (b *ImageBlock) bufWidth() int  { return b.size.X + 2*b.borderSize }
func (b *ImageBlock) bufHeight() int { return b.size.Y + 2*b.borderSize }

func (b *ImageBlock) Offset() Point2i     { return b.offset }
func (b *ImageBlock) Size() Point2i       { return b.size }
func (b *ImageBlock) BorderSize() int     { return b.borderSize }
func (b *ImageBlock) Filter() *filter.Filter { return b.filter }

// SetOffset repositions the block's origin in film pixel coordinates.
func (b *ImageBlock) SetOffset(o Point2i) { b.offset = o }

// SetSize resizes the block's logical extent, reallocating its buffer
// only when the extent actually changes (tiles are reused across the
// spiral, and most tiles share the generator's full block size).
func (b *ImageBlock) SetSize(s Point2i) {
	if s == b.size {
		return
	}
	b.size = s
	b.allocate()
}

// Clear zeros the accumulation buffer.
func (b *ImageBlock) Clear() {
	for i := range b.buffer {
		b.buffer[i] = pixel{}
	}
}

// Put splats value at pos (film pixel coordinates, possibly fractional)
// through the block's reconstruction filter. It returns false and records
// nothing if value contains a NaN or negative component.
func (b *ImageBlock) Put(pos Vec2, value spectrum.Spectrum) bool {
	if value.HasNaN() || value.HasNegative() {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Local position relative to the buffer's origin, which sits
	// borderSize pixels before the block's logical offset.
	lx := pos.X - float64(b.offset.X-b.borderSize)
	ly := pos.Y - float64(b.offset.Y-b.borderSize)

	r := b.filter.Radius
	x0 := int(math.Ceil(lx - r))
	x1 := int(math.Floor(lx + r))
	y0 := int(math.Ceil(ly - r))
	y1 := int(math.Floor(ly + r))

	width, height := b.bufWidth(), b.bufHeight()
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > width-1 {
		x1 = width - 1
	}
	if y1 > height-1 {
		y1 = height - 1
	}

	for y := y0; y <= y1; y++ {
		wy := b.filter.EvalDiscretised(float64(y) - ly)
		if wy == 0 {
			continue
		}
		row := y * width
		for x := x0; x <= x1; x++ {
			wx := b.filter.EvalDiscretised(float64(x) - lx)
			if wx == 0 {
				continue
			}
			w := float32(wx * wy)
			p := &b.buffer[row+x]
			p.R += value.R * w
			p.G += value.G * w
			p.B += value.B * w
			p.W += w
		}
	}
	return true
}

// PutBlock accumulates other into b at the rectangle implied by their
// offsets and sizes (including borders). The operation is associative and
// commutative over non-overlapping puts; overlapping puts are serialised
// by b's mutex.
func (b *ImageBlock) PutBlock(other *ImageBlock) {
	b.mu.Lock()
	defer b.mu.Unlock()
	other.mu.Lock()
	defer other.mu.Unlock()

	oWidth, oHeight := other.bufWidth(), other.bufHeight()
	bWidth, bHeight := b.bufWidth(), b.bufHeight()

	dx := (other.offset.X - other.borderSize) - (b.offset.X - b.borderSize)
	dy := (other.offset.Y - other.borderSize) - (b.offset.Y - b.borderSize)

	for y := 0; y < oHeight; y++ {
		ty := dy + y
		if ty < 0 || ty >= bHeight {
			continue
		}
		srcRow := y * oWidth
		dstRow := ty * bWidth
		for x := 0; x < oWidth; x++ {
			tx := dx + x
			if tx < 0 || tx >= bWidth {
				continue
			}
			src := &other.buffer[srcRow+x]
			dst := &b.buffer[dstRow+tx]
			dst.R += src.R
			dst.G += src.G
			dst.B += src.B
			dst.W += src.W
		}
	}
}

// Vec2 is a fractional 2-D position in film pixel coordinates.
type Vec2 struct {
	X, Y float64
}
