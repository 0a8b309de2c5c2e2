// Package sensor implements the scene's light-measurement endpoint: a
// thin-lens-free perspective camera built from a lookat transform and a
// vertical field of view, generalising the reference renderer's fixed
// viewport camera.
package sensor

import (
	"math"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// Perspective is a pinhole perspective camera. Film-space samples in
// [0,width]x[0,height] (continuous, sub-pixel precision allowed) are
// mapped to a world-space ray direction via the camera's basis and
// vertical field of view.
type Perspective struct {
	origin              core.Vec3
	forward, right, up  core.Vec3 // world-space camera basis (right-handed)
	tanHalfFovY         float64
	aspect              float64

	width, height int
	near, far     float64
	focusDistance float64
}

// PerspectiveConfig collects the parameters NewPerspective needs.
type PerspectiveConfig struct {
	Origin, Target, Up core.Vec3
	FovY               float64 // vertical field of view, degrees
	Width, Height      int
	Near, Far          float64
	FocusDistance      float64
}

// NewPerspective builds a perspective camera from a lookat + vertical
// FOV specification, the parameterisation the reference renderer's scene
// format exposes.
func NewPerspective(cfg PerspectiveConfig) *Perspective {
	near, far := cfg.Near, cfg.Far
	if near <= 0 {
		near = 1e-2
	}
	if far <= near {
		far = 1000.0
	}
	focus := cfg.FocusDistance
	if focus <= 0 {
		focus = cfg.Target.Subtract(cfg.Origin).Length()
		if focus <= 0 {
			focus = 1.0
		}
	}

	forward := cfg.Target.Subtract(cfg.Origin).Normalize()
	right := cfg.Up.Normalize().Cross(forward).Normalize()
	up := forward.Cross(right)

	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	return &Perspective{
		origin: cfg.Origin, forward: forward, right: right, up: up,
		tanHalfFovY: math.Tan(cfg.FovY * math.Pi / 360),
		aspect:      float64(width) / float64(height),
		width:       width, height: height,
		near: near, far: far, focusDistance: focus,
	}
}

func (p *Perspective) Width() int             { return p.width }
func (p *Perspective) Height() int            { return p.height }
func (p *Perspective) Near() float64          { return p.near }
func (p *Perspective) Far() float64           { return p.far }
func (p *Perspective) FocusDistance() float64 { return p.focusDistance }

// rasterToDirection maps a film-space position to a normalised
// world-space ray direction leaving the camera's origin.
func (p *Perspective) rasterToDirection(pos core.Vec2) core.Vec3 {
	ndcX := 2*pos.X/float64(p.width) - 1
	ndcY := 1 - 2*pos.Y/float64(p.height)

	sx := ndcX * p.tanHalfFovY * p.aspect
	sy := ndcY * p.tanHalfFovY

	d := p.right.Multiply(sx).Add(p.up.Multiply(sy)).Add(p.forward)
	return d.Normalize()
}

// SampleRay implements the sensor contract: pos is a continuous
// film-space pixel sample; lens is accepted but unused by this
// thin-lens-free camera, kept so the signature matches a future
// depth-of-field lens sampler.
func (p *Perspective) SampleRay(pos, lens core.Vec2) (core.Ray, spectrum.Spectrum) {
	d := p.rasterToDirection(pos)
	return core.NewRay(p.origin, d), spectrum.White
}

// SampleRayDifferential matches SampleRay on the principal ray and
// offsets the auxiliary rays by one pixel in image space.
func (p *Perspective) SampleRayDifferential(pos, lens core.Vec2) (core.RayDifferential, spectrum.Spectrum) {
	ray, w := p.SampleRay(pos, lens)
	dx := p.rasterToDirection(core.Vec2{X: pos.X + 1, Y: pos.Y})
	dy := p.rasterToDirection(core.Vec2{X: pos.X, Y: pos.Y + 1})

	rd := core.RayDifferential{
		Ray:              ray,
		HasDifferentials: true,
		OriginX:          ray.Origin,
		OriginY:          ray.Origin,
		DirectionX:       dx,
		DirectionY:       dy,
	}
	return rd, w
}
