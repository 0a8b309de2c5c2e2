// Package integrator implements the light-transport estimators that turn a
// camera ray into a radiance estimate: a surface-only unidirectional path
// tracer and a volumetric variant that additionally steps through
// participating media. Both share the Config depth knobs and the
// power-heuristic MIS weight in pkg/core.
package integrator

import (
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/scenecfg"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// Integrator estimates the radiance arriving along a camera ray.
type Integrator interface {
	Li(ray core.Ray, scene *scenecfg.Scene, sampler core.Sampler) spectrum.Spectrum
}

// Config carries the two depth knobs every integrator in this package
// shares: the hard bounce limit and the bounce at which Russian roulette
// starts thinning the path.
type Config struct {
	MaxDepth int // <= 0 means unbounded
	RRDepth  int // <= 0 falls back to 5, the reference default
}

const unboundedDepth = 1 << 30

func (c Config) maxDepth() int {
	if c.MaxDepth <= 0 {
		return unboundedDepth
	}
	return c.MaxDepth
}

func (c Config) rrDepth() int {
	if c.RRDepth <= 0 {
		return 5
	}
	return c.RRDepth
}
