package torusbench

import (
	"fmt"
	"math"
)

// MiyamotoNagaiPotential is the familiar disk-like potential
//
//	Φ(R, z) = −GM / sqrt( R² + (A + sqrt(z² + B²))² )
//
// with scale length A and scale height B. It is the realistic potential for
// exercising an approximate action finder on near-circular disk orbits; no
// exact torus mapping exists for it.
type MiyamotoNagaiPotential struct {
	GM float64 // G times total mass, internal units
	A  float64 // radial scale length
	B  float64 // vertical scale height
}

// Evaluate returns Φ and its gradient.
func (m MiyamotoNagaiPotential) Evaluate(p PosVelCyl) (float64, GradCyl, error) {
	if m.GM <= 0 || m.A < 0 || m.B <= 0 {
		return 0, GradCyl{}, fmt.Errorf("%w: bad Miyamoto-Nagai parameters (GM=%g, A=%g, B=%g)",
			ErrEvaluation, m.GM, m.A, m.B)
	}
	if !p.IsFinite() {
		return 0, GradCyl{}, fmt.Errorf("%w: non-finite point", ErrEvaluation)
	}
	s := math.Sqrt(p.Z*p.Z + m.B*m.B)
	as := m.A + s
	d2 := p.R*p.R + as*as
	d := math.Sqrt(d2)
	val := -m.GM / d
	d3 := d2 * d
	grad := GradCyl{
		DR: m.GM * p.R / d3,
		DZ: m.GM * p.Z * as / (s * d3),
	}
	return val, grad, nil
}

// CircularVelocity returns the speed of a circular orbit of radius r in the
// plane, sqrt(R·∂Φ/∂R).
func (m MiyamotoNagaiPotential) CircularVelocity(r float64) float64 {
	as := m.A + m.B
	d2 := r*r + as*as
	return math.Sqrt(m.GM * r * r / (d2 * math.Sqrt(d2)))
}
