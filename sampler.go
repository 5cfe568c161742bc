package torusbench

import (
	"fmt"
	"math"
)

// AngleGrid produces the deterministic angle triples that drive a
// verification run: n samples covering `periods` full periods of the fastest
// angle.
//
// All three components advance from a single index i at rates proportional to
// their own frequency relative to the fastest one:
//
//	θ_c(i) = wrap( i · (P/N) · 2π · Ω_c / Ω_max ),  Ω_max = max|Ω_c|
//
// Driving the angles from one shared index preserves the phase correlations
// dictated by the commensurability of the frequencies; sampling each angle
// independently would decouple exactly the correlations the recovery step is
// meant to test. Normalizing by Ω_max bounds the coverage to exactly
// `periods` periods of the fastest angle.
//
// Two equal frequencies produce identical phase trajectories over i; that is
// expected, not an error.
func AngleGrid(n int, periods float64, freq Frequencies) ([]Angles, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: sample count must be >= 1, got %d", ErrConfiguration, n)
	}
	if !(periods > 0) || math.IsInf(periods, 0) {
		return nil, fmt.Errorf("%w: period count must be positive and finite, got %g", ErrConfiguration, periods)
	}
	fmax := freq.Max()
	if fmax == 0 || math.IsNaN(fmax) || math.IsInf(fmax, 0) {
		return nil, fmt.Errorf("%w: max(|Ωr|,|Ωz|,|Ωφ|) = %g", ErrDegenerateFrequency, fmax)
	}

	step := periods / float64(n) * twoPi / fmax
	grid := make([]Angles, n)
	for i := 0; i < n; i++ {
		t := float64(i) * step
		grid[i] = Angles{
			Thetar:   WrapAngle(t * freq.Omegar),
			Thetaz:   WrapAngle(t * freq.Omegaz),
			Thetaphi: WrapAngle(t * freq.Omegaphi),
		}
	}
	return grid, nil
}
