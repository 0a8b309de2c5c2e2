// Package envmap loads HDR environment maps stored in the Portable
// Float Map (PFM) format into a row-major float32 RGB buffer. No
// library in this codebase's dependency surface decodes PFM (unlike
// PNG/JPEG, golang.org/x/image registers no PFM format), so this
// follows the reference image loader's read-the-whole-file-then-decode
// idiom by hand rather than reaching for a library that doesn't exist.
package envmap

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// Image is a decoded environment map: Pixels is row-major, top-to-bottom,
// left-to-right, one spectrum.Spectrum per pixel.
type Image struct {
	Width, Height int
	Pixels        []spectrum.Spectrum
}

// At returns the pixel at (x, y), clamping out-of-range coordinates to
// the image border.
func (img *Image) At(x, y int) spectrum.Spectrum {
	if x < 0 {
		x = 0
	}
	if x >= img.Width {
		x = img.Width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= img.Height {
		y = img.Height - 1
	}
	return img.Pixels[y*img.Width+x]
}

// Load decodes a PFM stream: a "PF" (color) or "Pf" (greyscale) magic,
// width/height, a byte-order-and-scale float, then raw 32-bit floats in
// bottom-to-top row order.
func Load(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	magic, err := readToken(br)
	if err != nil {
		return nil, fmt.Errorf("envmap: reading magic: %w", err)
	}
	color := magic == "PF"
	if !color && magic != "Pf" {
		return nil, fmt.Errorf("envmap: unrecognised PFM magic %q", magic)
	}

	width, height, err := readDimensions(br)
	if err != nil {
		return nil, err
	}

	scaleTok, err := readToken(br)
	if err != nil {
		return nil, fmt.Errorf("envmap: reading scale: %w", err)
	}
	scale, err := strconv.ParseFloat(scaleTok, 64)
	if err != nil {
		return nil, fmt.Errorf("envmap: invalid scale %q: %w", scaleTok, err)
	}
	littleEndian := scale < 0

	channels := 1
	if color {
		channels = 3
	}
	row := make([]byte, width*channels*4)
	pixels := make([]spectrum.Spectrum, width*height)

	// PFM rows are stored bottom-to-top.
	for y := height - 1; y >= 0; y-- {
		if _, err := io.ReadFull(br, row); err != nil {
			return nil, fmt.Errorf("envmap: reading row %d: %w", y, err)
		}
		for x := 0; x < width; x++ {
			if color {
				r := decodeFloat32(row[(x*3+0)*4:], littleEndian)
				g := decodeFloat32(row[(x*3+1)*4:], littleEndian)
				b := decodeFloat32(row[(x*3+2)*4:], littleEndian)
				pixels[y*width+x] = spectrum.New(r, g, b)
			} else {
				v := decodeFloat32(row[x*4:], littleEndian)
				pixels[y*width+x] = spectrum.Gray(v)
			}
		}
	}

	return &Image{Width: width, Height: height, Pixels: pixels}, nil
}

func decodeFloat32(b []byte, littleEndian bool) float32 {
	var bits uint32
	if littleEndian {
		bits = binary.LittleEndian.Uint32(b)
	} else {
		bits = binary.BigEndian.Uint32(b)
	}
	return math.Float32frombits(bits)
}

func readDimensions(br *bufio.Reader) (int, int, error) {
	wTok, err := readToken(br)
	if err != nil {
		return 0, 0, fmt.Errorf("envmap: reading width: %w", err)
	}
	hTok, err := readToken(br)
	if err != nil {
		return 0, 0, fmt.Errorf("envmap: reading height: %w", err)
	}
	width, err := strconv.Atoi(wTok)
	if err != nil {
		return 0, 0, fmt.Errorf("envmap: invalid width %q: %w", wTok, err)
	}
	height, err := strconv.Atoi(hTok)
	if err != nil {
		return 0, 0, fmt.Errorf("envmap: invalid height %q: %w", hTok, err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("envmap: non-positive dimensions %dx%d", width, height)
	}
	return width, height, nil
}

// readToken reads a single whitespace-delimited token, skipping any
// leading whitespace, per the PFM header's loosely-formatted ASCII
// fields.
func readToken(br *bufio.Reader) (string, error) {
	var sb strings.Builder
	skippingLeadingSpace := true
	for {
		b, err := br.ReadByte()
		if err != nil {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		if isPFMSpace(b) {
			if skippingLeadingSpace {
				continue
			}
			return sb.String(), nil
		}
		skippingLeadingSpace = false
		sb.WriteByte(b)
	}
}

func isPFMSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
