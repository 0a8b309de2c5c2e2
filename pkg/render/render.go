// Package render drives the tile-parallel worker pool: it walks the
// film's spiral block generator, hands each tile to a goroutine pool, and
// accumulates every finished tile into the shared film. Every piece of
// state a worker touches other than the block generator and the film is
// immutable scene data or a per-tile-cloned sampler, so tiles can
// complete in any order without changing the final image beyond
// floating-point re-association.
package render

import (
	"context"
	"math"
	"runtime"
	"sync"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/film"
	"github.com/asprenderer/aspirin/pkg/integrator"
	"github.com/asprenderer/aspirin/pkg/scenecfg"
)

// DefaultBlockSize matches the reference renderer's tile extent.
const DefaultBlockSize = 32

// Config controls the worker pool: how many goroutines render tiles
// concurrently and how large each tile is.
type Config struct {
	Workers   int
	BlockSize int
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

func (c Config) blockSize() int {
	if c.BlockSize <= 0 {
		return DefaultBlockSize
	}
	return c.BlockSize
}

type tileTask struct {
	offset, size film.Point2i
	id           int
}

// Render renders scene through integ onto f, using sampler as the
// per-worker sampler prototype (cloned once per goroutine and reseeded
// per tile so each tile's PCG32 stream is independent). It returns
// ctx.Err() if the context was cancelled before every tile completed; any
// tile already dispatched to a worker always runs to completion.
func Render(ctx context.Context, scene *scenecfg.Scene, integ integrator.Integrator, f *film.Film, sampler core.Sampler, cfg Config) error {
	gen := film.NewBlockGenerator(film.Point2i{X: f.Width(), Y: f.Height()}, cfg.blockSize())
	tasks := make(chan tileTask, gen.BlockCount())

	var wg sync.WaitGroup
	for i := 0; i < cfg.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(scene, integ, f, sampler.Clone(), tasks)
		}()
	}

	for {
		if ctx.Err() != nil {
			break
		}
		offset, size, id, ok := gen.NextBlock()
		if !ok {
			break
		}
		tasks <- tileTask{offset: offset, size: size, id: id}
	}
	close(tasks)
	wg.Wait()

	return ctx.Err()
}

// worker pulls tiles from tasks until the channel is drained, rendering
// each into a fresh ImageBlock and merging it into the shared film.
func worker(scene *scenecfg.Scene, integ integrator.Integrator, f *film.Film, sampler core.Sampler, tasks <-chan tileTask) {
	for t := range tasks {
		sampler.Seed(uint64(t.id))
		block := film.NewImageBlock(t.size, f.Filter())
		block.SetOffset(t.offset)
		renderBlock(scene, integ, block, sampler, t.offset, t.size)
		f.Put(block)
	}
}

// renderBlock draws sampler.SampleCount() jittered sub-samples per pixel
// over the tile, splatting each through the sensor and integrator into
// block.
func renderBlock(scene *scenecfg.Scene, integ integrator.Integrator, block *film.ImageBlock, sampler core.Sampler, offset, size film.Point2i) {
	spp := sampler.SampleCount()
	if spp <= 0 {
		spp = 1
	}
	diffScale := 1 / math.Sqrt(float64(spp))

	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			px := float64(offset.X + x)
			py := float64(offset.Y + y)
			for s := 0; s < spp; s++ {
				jx, jy := sampler.Next2D()
				pos := core.Vec2{X: px + jx, Y: py + jy}
				lensX, lensY := sampler.Next2D()

				ray, cameraWeight := scene.Sensor.SampleRayDifferential(pos, core.Vec2{X: lensX, Y: lensY})
				ray.ScaleDifferential(diffScale)

				li := integ.Li(ray.Ray, scene, sampler)
				contribution := li.Mul(cameraWeight)
				block.Put(film.Vec2{X: pos.X, Y: pos.Y}, contribution)
			}
		}
	}
}
