package torusbench

import (
	"fmt"
	"math"
)

// OscillatorPotential is the axisymmetric harmonic potential
//
//	Φ(R, z) = ½ (ω⊥² R² + ωz² z²)
//
// Its action-angle structure is fully analytic, which makes it the exact
// reference torus for verification runs: the vertical motion decouples into a
// one-dimensional oscillator, and the planar motion is the two-dimensional
// isotropic oscillator whose orbits are origin-centered ellipses. The orbital
// frequencies are constants of the potential,
//
//	Ωr = 2 ω⊥,  Ωz = ωz,  Ωφ = ω⊥ · sign(Jφ)
type OscillatorPotential struct {
	OmegaPerp float64 // planar spring frequency ω⊥
	OmegaZ    float64 // vertical spring frequency ωz
}

// Evaluate returns Φ and its gradient. The potential is defined on the whole
// phase space; only non-finite input is rejected.
func (o OscillatorPotential) Evaluate(p PosVelCyl) (float64, GradCyl, error) {
	if !p.IsFinite() {
		return 0, GradCyl{}, fmt.Errorf("%w: non-finite point", ErrEvaluation)
	}
	w2 := o.OmegaPerp * o.OmegaPerp
	n2 := o.OmegaZ * o.OmegaZ
	val := 0.5 * (w2*p.R*p.R + n2*p.Z*p.Z)
	return val, GradCyl{DR: w2 * p.R, DZ: n2 * p.Z}, nil
}

func (o OscillatorPotential) valid() bool {
	return o.OmegaPerp > 0 && o.OmegaZ > 0 &&
		!math.IsInf(o.OmegaPerp, 0) && !math.IsInf(o.OmegaZ, 0)
}

// oscPlanar holds the derived constants of the planar orbit for one torus:
// R² oscillates as a − c·cos θr between pericenter (θr = 0) and apocenter.
type oscPlanar struct {
	a, c float64
}

func newOscPlanar(ePerp, l, w float64) oscPlanar {
	a := ePerp / (w * w)
	d := ePerp*ePerp - l*l*w*w
	if d < 0 {
		d = 0
	}
	return oscPlanar{a: a, c: math.Sqrt(d) / (w * w)}
}

// azimuthOffset is the periodic part of the azimuth along the epicycle,
// φ = θφ + sign(L)·offset(θr). It is the closed form of ∫ L/R² dt minus the
// secular advance Ωφ·t, expressed so that it stays continuous and bounded by
// π/2 over the whole radial period:
//
//	offset(θ) = atan( (k−1)·sin(θ/2)·cos(θ/2) / (cos²(θ/2) + k·sin²(θ/2)) )
//
// with k = sqrt((a+c)/(a−c)). Only meaningful for L ≠ 0 (a > c).
func (pl oscPlanar) azimuthOffset(thetar float64) float64 {
	k := math.Sqrt((pl.a + pl.c) / (pl.a - pl.c))
	s, c := math.Sincos(0.5 * thetar)
	return math.Atan((k - 1) * s * c / (c*c + k*s*s))
}

// OscillatorMapper is the exact torus mapping for an OscillatorPotential: it
// turns action-angle coordinates into a cylindrical phase-space point in
// closed form.
type OscillatorMapper struct {
	Pot OscillatorPotential
}

// Frequencies returns the (action-independent) orbital frequencies of the
// torus with the given actions.
func (m OscillatorMapper) Frequencies(acts Actions) Frequencies {
	w := m.Pot.OmegaPerp
	return Frequencies{
		Omegar:   2 * w,
		Omegaz:   m.Pot.OmegaZ,
		Omegaphi: w * sign(acts.Jphi),
	}
}

// Map converts an action-angle point to a phase-space point.
func (m OscillatorMapper) Map(aa ActionAngles) (PosVelCyl, error) {
	if !m.Pot.valid() {
		return PosVelCyl{}, fmt.Errorf("%w: oscillator frequencies must be positive (ω⊥=%g, ωz=%g)",
			ErrConstruction, m.Pot.OmegaPerp, m.Pot.OmegaZ)
	}
	if !aa.Actions.Valid() {
		return PosVelCyl{}, fmt.Errorf("%w: invalid actions %+v", ErrConstruction, aa.Actions)
	}
	w, nu := m.Pot.OmegaPerp, m.Pot.OmegaZ

	// Vertical: exact 1D oscillator, z = A sin θz with A = sqrt(2Jz/ωz).
	az := math.Sqrt(2 * aa.Jz / nu)
	sz, cz := math.Sincos(aa.Thetaz)
	z := az * sz
	vz := az * nu * cz

	// Planar: 2D isotropic oscillator with angular momentum L = Jφ and
	// E⊥ = (2Jr + |L|)·ω⊥.
	l := aa.Jphi
	ePerp := (2*aa.Jr + math.Abs(l)) * w
	pl := newOscPlanar(ePerp, l, w)
	sr, cr := math.Sincos(aa.Thetar)
	r2 := pl.a - pl.c*cr
	if r2 < 0 {
		r2 = 0
	}
	r := math.Sqrt(r2)

	var vr, vphi, phi float64
	if r > 0 {
		vr = pl.c * w * sr / r
		vphi = l / r
	}
	if l != 0 {
		phi = WrapAngle(aa.Thetaphi + sign(l)*pl.azimuthOffset(aa.Thetar))
	} else {
		phi = WrapAngle(aa.Thetaphi)
	}

	return PosVelCyl{R: r, Z: z, Phi: phi, VR: vr, VZ: vz, VPhi: vphi}, nil
}

// MapWithFrequencies is Map plus the torus frequencies, for the one call the
// verifier makes before sampling.
func (m OscillatorMapper) MapWithFrequencies(aa ActionAngles) (PosVelCyl, Frequencies, error) {
	p, err := m.Map(aa)
	if err != nil {
		return PosVelCyl{}, Frequencies{}, err
	}
	return p, m.Frequencies(aa.Actions), nil
}

// OscillatorFinder inverts the oscillator torus mapping analytically. Paired
// with OscillatorMapper it closes an exact round trip, which pins down the
// verifier's zero-error baseline.
type OscillatorFinder struct {
	Pot OscillatorPotential
}

// ActionAngles recovers the exact action-angle coordinates of a point in the
// oscillator potential.
func (f OscillatorFinder) ActionAngles(p PosVelCyl) (ActionAngles, error) {
	if !f.Pot.valid() {
		return ActionAngles{}, fmt.Errorf("%w: oscillator frequencies must be positive (ω⊥=%g, ωz=%g)",
			ErrEstimation, f.Pot.OmegaPerp, f.Pot.OmegaZ)
	}
	if !p.IsFinite() || p.R < 0 {
		return ActionAngles{}, fmt.Errorf("%w: invalid point %+v", ErrEstimation, p)
	}
	w, nu := f.Pot.OmegaPerp, f.Pot.OmegaZ

	// Vertical component.
	ez := 0.5 * (p.VZ*p.VZ + nu*nu*p.Z*p.Z)
	jz := ez / nu
	thetaz := WrapAngle(math.Atan2(nu*p.Z, p.VZ))

	// Planar component.
	l := p.Lz()
	ePerp := 0.5*(p.VR*p.VR+p.VPhi*p.VPhi) + 0.5*w*w*p.R*p.R
	jr := (ePerp - math.Abs(l)*w) / (2 * w)
	if jr < 0 {
		jr = 0 // roundoff at exactly circular orbits
	}
	pl := newOscPlanar(ePerp, l, w)

	var thetar float64
	if pl.c > 1e-14*pl.a {
		thetar = WrapAngle(math.Atan2(p.VR*p.R/(pl.c*w), (pl.a-p.R*p.R)/pl.c))
	}
	thetaphi := p.Phi
	if l != 0 {
		thetaphi -= sign(l) * pl.azimuthOffset(thetar)
	}

	return ActionAngles{
		Actions: Actions{Jr: jr, Jz: jz, Jphi: l},
		Angles:  Angles{Thetar: thetar, Thetaz: thetaz, Thetaphi: WrapAngle(thetaphi)},
	}, nil
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
