// Package bsdf implements the BSDF abstraction (interaction.BSDF) and its
// reference implementations: diffuse, smooth dielectric, rough conductor,
// rough dielectric, and the two-sided wrapper.
package bsdf

import "math"

// DielectricFresnel computes the unpolarised Fresnel reflectance for a
// dielectric interface, given the cosine of the incident angle (signed:
// negative means the ray is inside the denser medium) and the relative
// IOR eta = eta_transmitted/eta_incident measured from outside. It
// returns the reflectance, the cosine of the transmitted angle (signed to
// match the transmitted side), and the two relative IORs needed to scale
// radiance across the interface (eta_it, eta_ti).
func DielectricFresnel(cosThetaI, eta float64) (r, cosThetaT, etaIT, etaTI float64) {
	if eta == 1 {
		return 0, -cosThetaI, 1, 1
	}

	var e float64
	if cosThetaI < 0 {
		e = 1 / eta
	} else {
		e = eta
	}

	cosThetaTSqr := 1 - (1-cosThetaI*cosThetaI)/(e*e)
	if cosThetaTSqr <= 0 {
		// Total internal reflection.
		return 1, 0, e, 1 / e
	}

	absCosThetaI := math.Abs(cosThetaI)
	absCosThetaT := math.Sqrt(cosThetaTSqr)

	rs := (absCosThetaI - e*absCosThetaT) / (absCosThetaI + e*absCosThetaT)
	rp := (e*absCosThetaI - absCosThetaT) / (e*absCosThetaI + absCosThetaT)
	r = 0.5 * (rs*rs + rp*rp)

	if cosThetaI < 0 {
		cosThetaT = absCosThetaT
	} else {
		cosThetaT = -absCosThetaT
	}

	return r, cosThetaT, e, 1 / e
}

// ConductorFresnel computes the unpolarised Fresnel reflectance of a
// conductor with complex relative IOR (eta, k) at incident cosine
// cosThetaI, using the standard closed-form approximation (Mitsuba's
// fresnel_conductor, itself following Born & Wolf).
func ConductorFresnel(cosThetaI, eta, k float64) float64 {
	cosTheta2 := cosThetaI * cosThetaI
	sinTheta2 := 1 - cosTheta2

	eta2 := eta * eta
	k2 := k * k

	t0 := eta2 - k2 - sinTheta2
	a2plusb2 := math.Sqrt(math.Max(0, t0*t0+4*k2*eta2))
	t1 := a2plusb2 + cosTheta2
	a := math.Sqrt(math.Max(0, 0.5*(a2plusb2+t0)))
	t2 := 2 * a * cosThetaI
	rs := (t1 - t2) / (t1 + t2)

	t3 := cosTheta2*a2plusb2 + sinTheta2*sinTheta2
	t4 := t2 * sinTheta2
	rp := rs * (t3 - t4) / (t3 + t4)

	return 0.5 * (rs + rp)
}
