package torusbench

import "math"

// PosVelCyl is a phase-space point in cylindrical coordinates (R, z, φ) with
// the conjugate velocities. This is the fixed frame shared by the potential,
// the torus mapper, and the action finder.
type PosVelCyl struct {
	R    float64 // cylindrical radius
	Z    float64 // height above the plane
	Phi  float64 // azimuth [rad]
	VR   float64 // radial velocity
	VZ   float64 // vertical velocity
	VPhi float64 // azimuthal velocity (R·dφ/dt)
}

// GradCyl is the gradient of a potential at a cylindrical point.
// DPhi is the derivative with respect to azimuth, zero for axisymmetric
// potentials.
type GradCyl struct {
	DR   float64
	DZ   float64
	DPhi float64
}

// KineticEnergy returns v²/2 for the point.
func (p PosVelCyl) KineticEnergy() float64 {
	return 0.5 * (p.VR*p.VR + p.VZ*p.VZ + p.VPhi*p.VPhi)
}

// Lz returns the z-component of angular momentum, R·vφ (signed).
func (p PosVelCyl) Lz() float64 {
	return p.R * p.VPhi
}

// IsFinite reports whether all six phase-space components are finite.
func (p PosVelCyl) IsFinite() bool {
	for _, v := range []float64{p.R, p.Z, p.Phi, p.VR, p.VZ, p.VPhi} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
