package torusbench

import (
	"errors"
	"math"
	"testing"
)

// TestOscillatorPotential_Evaluate checks value and gradient against the
// closed form.
func TestOscillatorPotential_Evaluate(t *testing.T) {
	pot := OscillatorPotential{OmegaPerp: 2, OmegaZ: 3}
	val, grad, err := pot.Evaluate(PosVelCyl{R: 1.5, Z: -0.5})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	want := 0.5 * (4*1.5*1.5 + 9*0.25)
	if math.Abs(val-want) > 1e-14 {
		t.Errorf("Φ = %g, want %g", val, want)
	}
	if math.Abs(grad.DR-4*1.5) > 1e-14 || math.Abs(grad.DZ+9*0.5) > 1e-14 || grad.DPhi != 0 {
		t.Errorf("grad = %+v, want {6, -4.5, 0}", grad)
	}

	if _, _, err := pot.Evaluate(PosVelCyl{R: math.NaN()}); !errors.Is(err, ErrEvaluation) {
		t.Errorf("non-finite point: got %v, want ErrEvaluation", err)
	}
}

// TestOscillatorMapper_Frequencies checks the analytic constants
// Ωr = 2ω⊥, Ωz = ωz, Ωφ = ω⊥·sign(Jφ).
func TestOscillatorMapper_Frequencies(t *testing.T) {
	m := OscillatorMapper{Pot: OscillatorPotential{OmegaPerp: 1.3, OmegaZ: 0.9}}

	f := m.Frequencies(Actions{Jphi: 1})
	if f.Omegar != 2.6 || f.Omegaz != 0.9 || f.Omegaphi != 1.3 {
		t.Errorf("prograde frequencies = %+v", f)
	}
	f = m.Frequencies(Actions{Jphi: -1})
	if f.Omegaphi != -1.3 {
		t.Errorf("retrograde Ωφ = %g, want -1.3", f.Omegaphi)
	}
}

// TestOscillatorRoundTrip maps a grid of angle triples to phase space and
// inverts each point analytically: actions and angles must come back exactly.
func TestOscillatorRoundTrip(t *testing.T) {
	pot := OscillatorPotential{OmegaPerp: 1, OmegaZ: 1.2}
	mapper := OscillatorMapper{Pot: pot}
	finder := OscillatorFinder{Pot: pot}

	for _, target := range []Actions{
		{Jr: 0.1, Jz: 0.1, Jphi: 1},
		{Jr: 0.5, Jz: 0.02, Jphi: 0.3},
		{Jr: 0.05, Jz: 0.3, Jphi: -0.8}, // retrograde
	} {
		grid, err := AngleGrid(32, 3, mapper.Frequencies(target))
		if err != nil {
			t.Fatalf("AngleGrid failed: %v", err)
		}
		for i, angles := range grid {
			point, err := mapper.Map(ActionAngles{Actions: target, Angles: angles})
			if err != nil {
				t.Fatalf("Map failed at sample %d: %v", i, err)
			}
			rec, err := finder.ActionAngles(point)
			if err != nil {
				t.Fatalf("ActionAngles failed at sample %d: %v", i, err)
			}

			if math.Abs(rec.Jr-target.Jr) > 1e-10 ||
				math.Abs(rec.Jz-target.Jz) > 1e-10 ||
				math.Abs(rec.Jphi-target.Jphi) > 1e-10 {
				t.Fatalf("sample %d: actions %+v, want %+v", i, rec.Actions, target)
			}
			for _, d := range []float64{
				wrapDelta(rec.Thetar - angles.Thetar),
				wrapDelta(rec.Thetaz - angles.Thetaz),
				wrapDelta(rec.Thetaphi - angles.Thetaphi),
			} {
				if math.Abs(d) > 1e-8 {
					t.Fatalf("sample %d: angle residual %g for target %+v", i, d, target)
				}
			}
		}
	}
}

// TestOscillatorMapper_EnergyConstant verifies every point of a torus shares
// the analytic energy (2Jr+|Jφ|)·ω⊥ + Jz·ωz.
func TestOscillatorMapper_EnergyConstant(t *testing.T) {
	pot := OscillatorPotential{OmegaPerp: 1, OmegaZ: 1.2}
	mapper := OscillatorMapper{Pot: pot}
	target := Actions{Jr: 0.1, Jz: 0.1, Jphi: 1}
	wantE := (2*target.Jr+math.Abs(target.Jphi))*pot.OmegaPerp + target.Jz*pot.OmegaZ

	grid, err := AngleGrid(16, 2, mapper.Frequencies(target))
	if err != nil {
		t.Fatalf("AngleGrid failed: %v", err)
	}
	for i, angles := range grid {
		point, err := mapper.Map(ActionAngles{Actions: target, Angles: angles})
		if err != nil {
			t.Fatalf("Map failed at sample %d: %v", i, err)
		}
		e, err := TotalEnergy(pot, point)
		if err != nil {
			t.Fatalf("TotalEnergy failed at sample %d: %v", i, err)
		}
		if math.Abs(e-wantE) > 1e-10 {
			t.Errorf("sample %d: E = %.12f, want %.12f", i, e, wantE)
		}
	}
}

// TestOscillatorMapper_Pericenter pins the zero-angle reference point: the
// orbit sits at pericenter in the plane with vR = 0.
func TestOscillatorMapper_Pericenter(t *testing.T) {
	pot := OscillatorPotential{OmegaPerp: 1, OmegaZ: 1.2}
	mapper := OscillatorMapper{Pot: pot}
	target := Actions{Jr: 0.1, Jz: 0, Jphi: 1}

	point, freq, err := mapper.MapWithFrequencies(ActionAngles{Actions: target})
	if err != nil {
		t.Fatalf("MapWithFrequencies failed: %v", err)
	}
	if freq != mapper.Frequencies(target) {
		t.Errorf("frequencies = %+v", freq)
	}
	if math.Abs(point.VR) > 1e-14 || math.Abs(point.Z) > 1e-14 || math.Abs(point.Phi) > 1e-14 {
		t.Errorf("zero-angle point = %+v, want pericenter at φ=0", point)
	}
	// R² = a − c at pericenter.
	ePerp := (2*target.Jr + 1) * pot.OmegaPerp
	a := ePerp
	c := math.Sqrt(ePerp*ePerp - 1)
	if math.Abs(point.R*point.R-(a-c)) > 1e-12 {
		t.Errorf("pericenter R² = %.12f, want %.12f", point.R*point.R, a-c)
	}
}

// TestOscillatorMapper_Errors covers the construction failures.
func TestOscillatorMapper_Errors(t *testing.T) {
	m := OscillatorMapper{Pot: OscillatorPotential{OmegaPerp: 1, OmegaZ: 1}}
	if _, err := m.Map(ActionAngles{Actions: Actions{Jr: -0.1}}); !errors.Is(err, ErrConstruction) {
		t.Errorf("negative Jr: got %v, want ErrConstruction", err)
	}
	bad := OscillatorMapper{Pot: OscillatorPotential{OmegaPerp: 0, OmegaZ: 1}}
	if _, err := bad.Map(ActionAngles{}); !errors.Is(err, ErrConstruction) {
		t.Errorf("zero spring frequency: got %v, want ErrConstruction", err)
	}
}
