package core

import "math"

// Numerical constants shared by every sampling and intersection routine.
const (
	Pi     = math.Pi
	InvPi  = 1.0 / math.Pi
	Inv2Pi = 1.0 / (2.0 * math.Pi)
	Inv4Pi = 1.0 / (4.0 * math.Pi)

	// RayEpsilon bounds the self-intersection slop introduced by floating
	// point round-off when a ray is spawned from a surface point.
	// 1.5e3 * machine epsilon for float64 ~= 3.33e-13, which is far too
	// tight for the float32-precision geometry this renderer targets, so
	// the constant is pinned to the value the reference implementation
	// actually ships (computed against float32 epsilon, 1.5e3 * 1.19e-7).
	RayEpsilon = 1.5e3 * 1.1920929e-7

	// ShadowEpsilon shrinks a shadow ray's maxt so it does not re-hit the
	// surface it was cast toward.
	ShadowEpsilon = 10 * RayEpsilon
)
