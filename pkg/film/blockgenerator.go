package film

import (
	"math"
	"sync"
)

// direction is the spiral stepper's current travel direction.
type direction int

const (
	dirRight direction = iota
	dirDown
	dirLeft
	dirUp
)

// BlockGenerator produces a finite, deterministic sequence of block
// rectangles covering a (width, height) image in blockSize tiles,
// visiting them in an outward square spiral starting at the image
// centre. Worker goroutines race safely on a single generator because
// every field access happens under mu.
type BlockGenerator struct {
	mu sync.Mutex

	imageSize  Point2i
	blockSize  int
	numBlocks  Point2i
	blocksLeft int
	nextID     int

	block     Point2i
	direction direction
	numSteps  int
	stepsLeft int
}

// NewBlockGenerator builds a generator covering an image of the given
// size in tiles no larger than blockSize on a side.
func NewBlockGenerator(imageSize Point2i, blockSize int) *BlockGenerator {
	numBlocks := Point2i{
		X: int(math.Ceil(float64(imageSize.X) / float64(blockSize))),
		Y: int(math.Ceil(float64(imageSize.Y) / float64(blockSize))),
	}
	g := &BlockGenerator{
		imageSize:  imageSize,
		blockSize:  blockSize,
		numBlocks:  numBlocks,
		blocksLeft: numBlocks.X * numBlocks.Y,
		direction:  dirRight,
		block:      Point2i{X: numBlocks.X / 2, Y: numBlocks.Y / 2},
		numSteps:   1,
		stepsLeft:  1,
	}
	return g
}

// BlockCount returns the total number of tiles this generator will issue.
func (g *BlockGenerator) BlockCount() int {
	return g.numBlocks.X * g.numBlocks.Y
}

// MaxBlockSize returns the tile size blocks are cut into (the final row
// and column may be smaller, clipped against the image bounds).
func (g *BlockGenerator) MaxBlockSize() int { return g.blockSize }

// NextBlock returns the next (offset, size, id) triple to render, or
// ok == false once every tile has been issued.
func (g *BlockGenerator) NextBlock() (offset, size Point2i, id int, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.blocksLeft == 0 {
		return Point2i{}, Point2i{}, 0, false
	}

	offset = Point2i{X: g.block.X * g.blockSize, Y: g.block.Y * g.blockSize}
	size = Point2i{
		X: min(g.blockSize, g.imageSize.X-offset.X),
		Y: min(g.blockSize, g.imageSize.Y-offset.Y),
	}
	id = g.nextID
	g.nextID++
	g.blocksLeft--

	if g.blocksLeft != 0 {
		for {
			switch g.direction {
			case dirRight:
				g.block.X++
			case dirDown:
				g.block.Y++
			case dirLeft:
				g.block.X--
			case dirUp:
				g.block.Y--
			}
			g.stepsLeft--
			if g.stepsLeft == 0 {
				g.direction = (g.direction + 1) % 4
				if g.direction == dirLeft || g.direction == dirRight {
					g.numSteps++
				}
				g.stepsLeft = g.numSteps
			}
			if g.block.X >= 0 && g.block.Y >= 0 &&
				g.block.X < g.numBlocks.X && g.block.Y < g.numBlocks.Y {
				break
			}
		}
	}

	return offset, size, id, true
}
