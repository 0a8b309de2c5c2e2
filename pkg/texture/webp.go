package texture

import (
	"fmt"
	"image"
	"io"

	"github.com/chai2010/webp"

	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// LoadWebP decodes a WebP stream into a Bitmap, converting every pixel
// through image.Color.RGBA the same way the reference image loader
// converts PNG/JPEG pixels: 16-bit premultiplied components normalised
// to [0,1].
func LoadWebP(r io.Reader) (*Bitmap, error) {
	img, err := webp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("texture: decoding webp: %w", err)
	}
	return fromImage(img), nil
}

func fromImage(img image.Image) *Bitmap {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]spectrum.Spectrum, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pixels[y*width+x] = spectrum.New(
				float32(r)/65535,
				float32(g)/65535,
				float32(b)/65535,
			)
		}
	}
	return NewBitmap(width, height, pixels)
}
