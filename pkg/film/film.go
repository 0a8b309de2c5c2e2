package film

import (
	"math"
	"sync"

	"github.com/asprenderer/aspirin/pkg/filter"
)

// Writer is the external collaborator that encodes a developed image to
// its destination; image I/O codecs are deliberately outside this
// package's scope.
type Writer interface {
	// WritePixels receives an interleaved (R,G,B) float32 buffer in
	// row-major order, already tonemapped to sRGB, plus the image
	// dimensions.
	WritePixels(pixels []float32, width, height int) error
}

// Film aggregates ImageBlocks produced by the integrator into the final
// developed image. It owns a single internal storage block sized to the
// full crop window and propagates its reconstruction filter to every
// ImageBlock the integrator allocates.
type Film struct {
	width, height int
	filter        *filter.Filter
	storage       *ImageBlock
	destFile      string
	mu            sync.Mutex
}

// New allocates a Film of the given pixel dimensions using f as both the
// storage block's filter and the filter every rendering tile must use.
func New(width, height int, f *filter.Filter) *Film {
	storage := NewImageBlock(Point2i{X: width, Y: height}, f)
	return &Film{width: width, height: height, filter: f, storage: storage}
}

func (film *Film) Width() int  { return film.width }
func (film *Film) Height() int { return film.height }

// Filter returns the reconstruction filter every rendering tile must be
// constructed with.
func (film *Film) Filter() *filter.Filter { return film.filter }

// SetDestinationFile records the output path Develop should eventually be
// written to; the actual encode is the CLI driver's responsibility.
func (film *Film) SetDestinationFile(path string) { film.destFile = path }

func (film *Film) DestinationFile() string { return film.destFile }

// Put thread-safely accumulates block into the film's internal storage.
func (film *Film) Put(block *ImageBlock) {
	film.mu.Lock()
	defer film.mu.Unlock()
	film.storage.PutBlock(block)
}

// sRGB gamma encode of a linear radiance value clamped to [0,1] first.
func linearToSRGB(v float32) float32 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return float32(1.055*math.Pow(float64(v), 1.0/2.4) - 0.055)
}

// Develop normalises every pixel by its accumulated filter weight,
// tonemaps to sRGB, and writes the result through w. Pixels that never
// received a contribution (W == 0) develop to black rather than NaN.
func (film *Film) Develop(w Writer) error {
	film.mu.Lock()
	defer film.mu.Unlock()

	pixels := make([]float32, film.width*film.height*3)
	bufWidth := film.storage.bufWidth()
	border := film.storage.borderSize

	for y := 0; y < film.height; y++ {
		for x := 0; x < film.width; x++ {
			p := film.storage.buffer[(y+border)*bufWidth+(x+border)]
			var r, g, b float32
			if p.W > 0 {
				r, g, b = p.R/p.W, p.G/p.W, p.B/p.W
			}
			idx := (y*film.width + x) * 3
			pixels[idx+0] = linearToSRGB(r)
			pixels[idx+1] = linearToSRGB(g)
			pixels[idx+2] = linearToSRGB(b)
		}
	}

	return w.WritePixels(pixels, film.width, film.height)
}
