package interaction

import "github.com/asprenderer/aspirin/pkg/core"

// BSDFContext filters which of a BSDF's components a sample/eval/pdf call
// is allowed to touch.
type BSDFContext struct {
	Mode      TransportMode
	TypeMask  BSDFFlags
	Component int // -1 means "any component"
}

// NewBSDFContext returns the default context: Radiance transport, every
// component enabled.
func NewBSDFContext() BSDFContext {
	return BSDFContext{Mode: Radiance, TypeMask: FlagAll, Component: -1}
}

// IsEnabled reports whether a component with the given flags and index is
// reachable under this context.
func (ctx BSDFContext) IsEnabled(flags BSDFFlags, component int) bool {
	if ctx.Component != -1 && ctx.Component != component {
		return false
	}
	return flags&ctx.TypeMask == flags
}

// BSDFSample is the outcome of a BSDF.Sample call.
type BSDFSample struct {
	Wo               core.Vec3 // outgoing direction, local frame
	Pdf              float64
	Eta              float64
	SampledType      BSDFFlags
	SampledComponent int
}

// PhaseFunctionContext has no fields today, but
// exists as a distinct type so a future anisotropic phase function can
// grow a query filter without changing every call site, mirroring how
// BSDFContext is threaded through every BSDF call.
type PhaseFunctionContext struct{}
