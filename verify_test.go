package torusbench

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

// flakyFinder wraps a real finder and fails at one sample index.
type flakyFinder struct {
	inner  ActionFinder
	failAt int
	calls  int
}

func (f *flakyFinder) ActionAngles(p PosVelCyl) (ActionAngles, error) {
	if f.calls == f.failAt {
		return ActionAngles{}, fmt.Errorf("%w: synthetic failure", ErrEstimation)
	}
	f.calls++
	return f.inner.ActionAngles(p)
}

func oscillatorSuite(omegaPerp, omegaZ float64) (OscillatorPotential, OscillatorMapper, OscillatorFinder) {
	pot := OscillatorPotential{OmegaPerp: omegaPerp, OmegaZ: omegaZ}
	return pot, OscillatorMapper{Pot: pot}, OscillatorFinder{Pot: pot}
}

// TestVerify_ExactFinderPasses closes the loop with the analytic inverse:
// the recovered statistics must be exact, so every bound passes with a wide
// margin and the fitted angle slopes reproduce the torus frequencies.
func TestVerify_ExactFinderPasses(t *testing.T) {
	pot, mapper, finder := oscillatorSuite(1, 1.2)
	cfg := DefaultVerifyConfig()
	target := Actions{Jr: 0.1, Jz: 0.1, Jphi: 1}

	rep, err := Verify(pot, mapper, finder, target, cfg)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	PrintReport(t, rep)
	AssertVerified(t, rep, cfg)
	AssertActionRecovery(t, rep, 1e-9)

	if rep.Scatter > 1e-9 {
		t.Errorf("exact round trip scatter = %g, want ~0", rep.Scatter)
	}
	// Fitted slope per index step is Ω_c · (P/N)·2π/Ω_max.
	step := cfg.Periods / float64(cfg.Samples) * 2 * math.Pi / rep.Freq.Max()
	for _, c := range []struct {
		name        string
		fitted, tor float64
	}{
		{"Ωr", rep.Angles.Freq.Omegar, rep.Freq.Omegar},
		{"Ωz", rep.Angles.Freq.Omegaz, rep.Freq.Omegaz},
		{"Ωφ", rep.Angles.Freq.Omegaphi, rep.Freq.Omegaphi},
	} {
		if math.Abs(c.fitted-step*c.tor) > 1e-9 {
			t.Errorf("%s: fitted slope %.12f, want %.12f", c.name, c.fitted, step*c.tor)
		}
	}
	if rep.Samples != cfg.Samples {
		t.Errorf("Samples = %d, want %d", rep.Samples, cfg.Samples)
	}
}

// TestVerify_EpicyclicNearCircular is the end-to-end scenario: a strongly
// azimuthal orbit probed by the approximate finder. The epicyclic expansion
// is accurate there, so the verdict is pass.
func TestVerify_EpicyclicNearCircular(t *testing.T) {
	pot, mapper, _ := oscillatorSuite(1, 1.2)
	finder := EpicyclicFinder{Pot: pot}
	cfg := DefaultVerifyConfig()
	target := Actions{Jr: 0.001, Jz: 0.001, Jphi: 1}

	rep, err := Verify(pot, mapper, finder, target, cfg)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	PrintReport(t, rep)
	if !rep.Pass {
		t.Errorf("near-circular orbit should pass: scatter=%.6f/%.6f dθ=[%.5f %.5f %.5f]",
			rep.Scatter, rep.ScatterNorm, rep.Angles.DispR, rep.Angles.DispZ, rep.Angles.DispPhi)
	}
	AssertActionRecovery(t, rep, 1e-3)
}

// TestVerify_EpicyclicRadialOrbit pushes the approximation outside its
// comfort zone: with Jr comparable to Jφ the epicycle amplitude is of order
// the guiding radius and the recovered radial phases smear out, so the run
// must fail on the angle bounds while the near-circular one passes.
func TestVerify_EpicyclicRadialOrbit(t *testing.T) {
	pot, mapper, _ := oscillatorSuite(1, 1.2)
	finder := EpicyclicFinder{Pot: pot}
	cfg := DefaultVerifyConfig()

	circular, err := Verify(pot, mapper, finder, Actions{Jr: 0.001, Jz: 0.001, Jphi: 1}, cfg)
	if err != nil {
		t.Fatalf("Verify (circular) failed: %v", err)
	}
	radial, err := Verify(pot, mapper, finder, Actions{Jr: 1, Jz: 0.001, Jphi: 1}, cfg)
	if err != nil {
		t.Fatalf("Verify (radial) failed: %v", err)
	}
	PrintReport(t, radial)

	if radial.Pass {
		t.Error("strongly radial orbit should not pass the angle bounds")
	}
	if radial.Angles.DispR <= circular.Angles.DispR {
		t.Errorf("radial θr dispersion %.5f should exceed circular %.5f",
			radial.Angles.DispR, circular.Angles.DispR)
	}
	// The adaptive bound loosens as the radial action grows against Jφ and
	// tightens for azimuthal-dominated orbits.
	if circular.ScatterNorm >= radial.ScatterNorm {
		t.Errorf("scatterNorm: circular %.6f should be tighter than radial %.6f",
			circular.ScatterNorm, radial.ScatterNorm)
	}
}

// TestVerify_ScaleInvariance multiplies all actions by a common factor: both
// scatter and scatterNorm are ratios of same-dimension quantities, so the
// decision metrics must not move.
func TestVerify_ScaleInvariance(t *testing.T) {
	pot, mapper, finder := oscillatorSuite(1, 1.2)
	cfg := DefaultVerifyConfig()

	base, err := Verify(pot, mapper, finder, Actions{Jr: 0.1, Jz: 0.1, Jphi: 1}, cfg)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	scaled, err := Verify(pot, mapper, finder, Actions{Jr: 100, Jz: 100, Jphi: 1000}, cfg)
	if err != nil {
		t.Fatalf("Verify (scaled) failed: %v", err)
	}

	if math.Abs(base.ScatterNorm-scaled.ScatterNorm) > 1e-12 {
		t.Errorf("scatterNorm moved under scaling: %.12f vs %.12f", base.ScatterNorm, scaled.ScatterNorm)
	}
	if math.Abs(base.Scatter-scaled.Scatter) > 1e-9 {
		t.Errorf("scatter moved under scaling: %.12g vs %.12g", base.Scatter, scaled.Scatter)
	}
	if base.Pass != scaled.Pass {
		t.Errorf("verdict moved under scaling: %v vs %v", base.Pass, scaled.Pass)
	}
}

// TestVerify_Determinism verifies repeated runs produce bit-identical metric
// tuples.
func TestVerify_Determinism(t *testing.T) {
	pot, mapper, _ := oscillatorSuite(1, 1.2)
	finder := EpicyclicFinder{Pot: pot}
	cfg := DefaultVerifyConfig()
	target := Actions{Jr: 0.01, Jz: 0.01, Jphi: 1}

	a, err := Verify(pot, mapper, finder, target, cfg)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	b, err := Verify(pot, mapper, finder, target, cfg)
	if err != nil {
		t.Fatalf("Verify (repeat) failed: %v", err)
	}
	ta, tb := a.Tuple(), b.Tuple()
	if len(ta) != 14 {
		t.Fatalf("metric tuple has %d entries, want 14", len(ta))
	}
	for i := range ta {
		if ta[i] != tb[i] {
			t.Errorf("tuple entry %d differs between identical runs: %v vs %v", i, ta[i], tb[i])
		}
	}
}

// TestVerify_ConfigurationErrors rejects bad inputs before sampling.
func TestVerify_ConfigurationErrors(t *testing.T) {
	pot, mapper, finder := oscillatorSuite(1, 1)
	cfg := DefaultVerifyConfig()

	if _, err := Verify(pot, mapper, finder, Actions{Jr: -1, Jphi: 1}, cfg); !errors.Is(err, ErrConfiguration) {
		t.Errorf("negative Jr: got %v, want ErrConfiguration", err)
	}

	bad := cfg
	bad.Samples = 0
	if _, err := Verify(pot, mapper, finder, Actions{Jphi: 1}, bad); !errors.Is(err, ErrConfiguration) {
		t.Errorf("N=0: got %v, want ErrConfiguration", err)
	}
	bad = cfg
	bad.Periods = 0
	if _, err := Verify(pot, mapper, finder, Actions{Jphi: 1}, bad); !errors.Is(err, ErrConfiguration) {
		t.Errorf("P=0: got %v, want ErrConfiguration", err)
	}
}

// TestVerify_CollaboratorFailureAborts verifies the first estimator error
// aborts the whole run with the sample index and no partial report.
func TestVerify_CollaboratorFailureAborts(t *testing.T) {
	pot, mapper, exact := oscillatorSuite(1, 1.2)
	finder := &flakyFinder{inner: exact, failAt: 7}
	cfg := DefaultVerifyConfig()

	rep, err := Verify(pot, mapper, finder, Actions{Jr: 0.1, Jz: 0.1, Jphi: 1}, cfg)
	if !errors.Is(err, ErrEstimation) {
		t.Fatalf("got %v, want ErrEstimation", err)
	}
	if rep != (Report{}) {
		t.Error("aborted run leaked a partial report")
	}
	if finder.calls != 7 {
		t.Errorf("finder called %d times before abort, want 7", finder.calls)
	}
	t.Logf("abort error: %v", err)
}
