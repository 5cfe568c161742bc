package torusbench

import "math"

// Actions labels one invariant torus: radial, vertical and azimuthal action,
// in internal units of length²/time. Jr and Jz are non-negative; Jphi carries
// the sense of rotation in its sign. A value is immutable for the duration of
// a verification run.
type Actions struct {
	Jr   float64
	Jz   float64
	Jphi float64
}

// Angles is a triple of phase angles locating a point on a torus. Each
// component lives on a circle of period 2π and is kept in the canonical
// range [0, 2π); see WrapAngle.
type Angles struct {
	Thetar   float64
	Thetaz   float64
	Thetaphi float64
}

// ActionAngles is a specific point on a specific torus: an Actions value
// paired with an Angles value. It is not yet a phase-space point; the torus
// mapper performs that conversion.
type ActionAngles struct {
	Actions
	Angles
}

// Frequencies are the rates of angle advance per unit time for one torus.
// They are obtained once from the torus mapper, before sampling begins, and
// held fixed for the whole run.
type Frequencies struct {
	Omegar   float64
	Omegaz   float64
	Omegaphi float64
}

// Max returns the largest frequency by absolute value. This is the common
// denominator of the frequency-proportional angle grid.
func (f Frequencies) Max() float64 {
	return math.Max(math.Abs(f.Omegar), math.Max(math.Abs(f.Omegaz), math.Abs(f.Omegaphi)))
}

// Valid reports whether the actions describe a physically meaningful torus:
// all components finite and Jr, Jz non-negative.
func (a Actions) Valid() bool {
	if math.IsNaN(a.Jr) || math.IsNaN(a.Jz) || math.IsNaN(a.Jphi) {
		return false
	}
	if math.IsInf(a.Jr, 0) || math.IsInf(a.Jz, 0) || math.IsInf(a.Jphi, 0) {
		return false
	}
	return a.Jr >= 0 && a.Jz >= 0
}

const twoPi = 2 * math.Pi

// WrapAngle maps any real angle into the canonical half-open interval
// [0, 2π). The same convention is applied everywhere angles are produced,
// compared or differenced: WrapAngle(x + 2πk) == WrapAngle(x) for integer k.
func WrapAngle(x float64) float64 {
	w := math.Mod(x, twoPi)
	if w < 0 {
		w += twoPi
	}
	return w
}

// wrapDelta maps an angle difference into (−π, π], the minimal signed jump
// between two wrapped angles. A jump of exactly π resolves to +π, never −π;
// the unwrapping in AngleStat depends on this tie-break being fixed.
func wrapDelta(d float64) float64 {
	r := math.Mod(d, twoPi)
	if r > math.Pi {
		r -= twoPi
	} else if r <= -math.Pi {
		r += twoPi
	}
	return r
}
