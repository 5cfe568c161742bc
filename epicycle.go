package torusbench

import (
	"fmt"
	"math"
)

// EpicyclicFinder is an approximate local action-angle estimator built on the
// epicyclic expansion about the guiding center. Given only a phase-space
// point, it
//
//  1. finds the guiding radius Rg from L² = R³·∂Φ/∂R,
//  2. measures the epicyclic frequencies there,
//     κ² = ∂²Φ/∂R² + 3L²/Rg⁴,  ν² = ∂²Φ/∂z²,  Ω = L/Rg²,
//     using central finite differences of the potential gradient,
//  3. estimates the actions from the decoupled energies,
//     Jr ≈ E_R/κ,  Jz ≈ E_z/ν,  Jφ = L,
//     and the phase angles from the epicyclic (offset, velocity) pairs.
//
// The expansion is first-order in the epicycle amplitude: recovery is tight
// for near-circular orbits and degrades as Jr grows against Jφ. It works on
// any axisymmetric Potential and never learns how the input point was
// produced, which is exactly the contract a verification run tests.
type EpicyclicFinder struct {
	Pot Potential

	// Step is the relative finite-difference step for the frequency
	// derivatives. Zero selects the default of 1e-5.
	Step float64
}

const defaultEpicycleStep = 1e-5

// ActionAngles recovers an approximate action-angle estimate for the point.
func (f EpicyclicFinder) ActionAngles(p PosVelCyl) (ActionAngles, error) {
	if !p.IsFinite() || p.R <= 0 {
		return ActionAngles{}, fmt.Errorf("%w: invalid point %+v", ErrEstimation, p)
	}
	l := p.Lz()
	if l == 0 {
		return ActionAngles{}, fmt.Errorf("%w: zero angular momentum, no guiding center", ErrEstimation)
	}

	rg, err := f.guidingRadius(l, p.R)
	if err != nil {
		return ActionAngles{}, err
	}

	step := f.Step
	if step <= 0 {
		step = defaultEpicycleStep
	}
	h := step * rg

	d2R, d2Z, err := f.secondDerivatives(rg, h)
	if err != nil {
		return ActionAngles{}, err
	}
	kappa2 := d2R + 3*l*l/(rg*rg*rg*rg)
	if kappa2 <= 0 || d2Z <= 0 {
		return ActionAngles{}, fmt.Errorf("%w: non-oscillatory frequencies at Rg=%g (κ²=%g, ν²=%g)",
			ErrEstimation, rg, kappa2, d2Z)
	}
	kappa := math.Sqrt(kappa2)
	nu := math.Sqrt(d2Z)
	omega := l / (rg * rg) // signed circular frequency

	// Radial energy relative to the circular orbit of the same L.
	effAtR, err := f.effectivePotential(p.R, l)
	if err != nil {
		return ActionAngles{}, err
	}
	effAtRg, err := f.effectivePotential(rg, l)
	if err != nil {
		return ActionAngles{}, err
	}
	eR := 0.5*p.VR*p.VR + effAtR - effAtRg
	if eR < 0 {
		eR = 0
	}
	eZ := 0.5 * (p.VZ*p.VZ + d2Z*p.Z*p.Z)

	jr := eR / kappa
	jz := eZ / nu

	// Epicyclic phases: R = Rg − X cos θr, vR = Xκ sin θr.
	var thetar float64
	if jr > 0 {
		thetar = WrapAngle(math.Atan2(p.VR/kappa, rg-p.R))
	}
	thetaz := WrapAngle(math.Atan2(nu*p.Z, p.VZ))
	// Guiding-center azimuth: the leading epicyclic term of φ − θφ is
	// (2Ω/κ)(X/Rg) sin θr = 2Ω·vR/(κ²·Rg).
	thetaphi := WrapAngle(p.Phi - 2*omega*p.VR/(kappa2*rg))

	return ActionAngles{
		Actions: Actions{Jr: jr, Jz: jz, Jphi: l},
		Angles:  Angles{Thetar: thetar, Thetaz: thetaz, Thetaphi: thetaphi},
	}, nil
}

// radialForce returns ∂Φ/∂R in the plane z=0.
func (f EpicyclicFinder) radialForce(r float64) (float64, error) {
	_, grad, err := f.Pot.Evaluate(PosVelCyl{R: r})
	if err != nil {
		return 0, fmt.Errorf("%w: potential gradient at R=%g: %v", ErrEstimation, r, err)
	}
	return grad.DR, nil
}

// effectivePotential returns Φ(R, 0) + L²/(2R²).
func (f EpicyclicFinder) effectivePotential(r, l float64) (float64, error) {
	val, _, err := f.Pot.Evaluate(PosVelCyl{R: r})
	if err != nil {
		return 0, fmt.Errorf("%w: potential value at R=%g: %v", ErrEstimation, r, err)
	}
	return val + l*l/(2*r*r), nil
}

// secondDerivatives measures ∂²Φ/∂R² and ∂²Φ/∂z² at (rg, 0) by central
// differences of the gradient with step h.
func (f EpicyclicFinder) secondDerivatives(rg, h float64) (d2R, d2Z float64, err error) {
	fPlus, err := f.radialForce(rg + h)
	if err != nil {
		return 0, 0, err
	}
	fMinus, err := f.radialForce(rg - h)
	if err != nil {
		return 0, 0, err
	}
	d2R = (fPlus - fMinus) / (2 * h)

	_, gradUp, err := f.Pot.Evaluate(PosVelCyl{R: rg, Z: h})
	if err != nil {
		return 0, 0, fmt.Errorf("%w: potential gradient at z=%g: %v", ErrEstimation, h, err)
	}
	_, gradDown, err := f.Pot.Evaluate(PosVelCyl{R: rg, Z: -h})
	if err != nil {
		return 0, 0, fmt.Errorf("%w: potential gradient at z=%g: %v", ErrEstimation, -h, err)
	}
	d2Z = (gradUp.DZ - gradDown.DZ) / (2 * h)
	return d2R, d2Z, nil
}

// guidingRadius solves L² = r³·∂Φ/∂R by bracketed bisection, starting from
// the radius of the input point. The left side grows monotonically with r in
// any potential with a rising rotation curve near the orbit, so the bracket
// expansion terminates quickly for bound orbits.
func (f EpicyclicFinder) guidingRadius(l, r0 float64) (float64, error) {
	l2 := l * l
	residual := func(r float64) (float64, error) {
		force, err := f.radialForce(r)
		if err != nil {
			return 0, err
		}
		return r*r*r*force - l2, nil
	}

	lo, hi := r0, r0
	g, err := residual(r0)
	if err != nil {
		return 0, err
	}
	const maxExpand = 60
	for i := 0; g > 0 && i < maxExpand; i++ {
		lo /= 2
		if g, err = residual(lo); err != nil {
			return 0, err
		}
	}
	gLo := g
	if gLo > 0 {
		return 0, fmt.Errorf("%w: no guiding radius below R=%g", ErrEstimation, r0)
	}
	if g, err = residual(hi); err != nil {
		return 0, err
	}
	for i := 0; g < 0 && i < maxExpand; i++ {
		hi *= 2
		if g, err = residual(hi); err != nil {
			return 0, err
		}
	}
	if g < 0 {
		return 0, fmt.Errorf("%w: no guiding radius above R=%g (unbound orbit?)", ErrEstimation, r0)
	}

	for i := 0; i < 200 && hi-lo > 1e-14*hi; i++ {
		mid := 0.5 * (lo + hi)
		gm, err := residual(mid)
		if err != nil {
			return 0, err
		}
		if gm < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi), nil
}
