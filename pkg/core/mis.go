package core

// MISWeight computes the two-sample power heuristic weight for combining
// an emitter-direct estimator (pdf a) with a BSDF-sampled estimator
// (pdf b). It returns 0 whenever a is 0, and mis(a,b)+mis(b,a) == 1
// whenever both are nonzero (mis(a,b)+mis(b,a) <= 1 in general, with
// equality exactly then).
func MISWeight(a, b float64) float64 {
	if a <= 0 {
		return 0
	}
	a2, b2 := a*a, b*b
	return a2 / (a2 + b2)
}
