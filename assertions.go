package torusbench

import "testing"

// AssertVerified fails the test when a verification report did not pass, with
// the full diagnostic breakdown of which bound was violated.
func AssertVerified(t *testing.T, rep Report, cfg VerifyConfig) {
	t.Helper()

	if rep.Scatter >= rep.ScatterNorm {
		t.Errorf("Action scatter too large: %.6f (adaptive bound: %.6f)\n"+
			"Recovered actions disagree with the torus beyond the action-scale tolerance.",
			rep.Scatter, rep.ScatterNorm)
	}
	if rep.Angles.DispR >= cfg.MaxDispR {
		t.Errorf("Radial angle dispersion too large: %.5f rad (max: %.5f)", rep.Angles.DispR, cfg.MaxDispR)
	}
	if rep.Angles.DispZ >= cfg.MaxDispZ {
		t.Errorf("Vertical angle dispersion too large: %.5f rad (max: %.5f)", rep.Angles.DispZ, cfg.MaxDispZ)
	}
	if rep.Angles.DispPhi >= cfg.MaxDispPhi {
		t.Errorf("Azimuthal angle dispersion too large: %.5f rad (max: %.5f)", rep.Angles.DispPhi, cfg.MaxDispPhi)
	}
	if rep.Pass {
		t.Logf("✓ Verified: scatter=%.6f < %.6f, dθ=[%.5f %.5f %.5f]",
			rep.Scatter, rep.ScatterNorm, rep.Angles.DispR, rep.Angles.DispZ, rep.Angles.DispPhi)
	}
}

// AssertActionRecovery fails the test when the mean recovered actions deviate
// from the generating actions by more than tol, relative to the action scale
// of the torus.
func AssertActionRecovery(t *testing.T, rep Report, tol float64) {
	t.Helper()

	scale := rep.Target.Jr + rep.Target.Jz
	if s := abs(rep.Target.Jphi); s > scale {
		scale = s
	}
	if scale == 0 {
		scale = 1
	}

	check := func(name string, got, want float64) {
		t.Helper()
		if abs(got-want)/scale > tol {
			t.Errorf("%s not recovered: got %.8f, want %.8f (rel. tol %.1e)", name, got, want, tol)
		}
	}
	check("Jr", rep.Actions.Avg.Jr, rep.Target.Jr)
	check("Jz", rep.Actions.Avg.Jz, rep.Target.Jz)
	check("Jphi", rep.Actions.Avg.Jphi, rep.Target.Jphi)

	t.Logf("✓ Mean actions: Jr=%.8f Jz=%.8f Jphi=%.8f (target %.4f %.4f %.4f)",
		rep.Actions.Avg.Jr, rep.Actions.Avg.Jz, rep.Actions.Avg.Jphi,
		rep.Target.Jr, rep.Target.Jz, rep.Target.Jphi)
}

// PrintReport dumps the full metric tuple to the test log in the fixed
// diagnostic order.
func PrintReport(t *testing.T, rep Report) {
	t.Helper()

	t.Logf("\n=== Verification report (N=%d) ===", rep.Samples)
	t.Logf("Verdict: pass=%v", rep.Pass)
	t.Logf("Actions (mean ± disp):")
	t.Logf("  Jr   = %.8f ± %.8f", rep.Actions.Avg.Jr, rep.Actions.Disp.Jr)
	t.Logf("  Jz   = %.8f ± %.8f", rep.Actions.Avg.Jz, rep.Actions.Disp.Jz)
	t.Logf("  Jphi = %.8f ± %.8f", rep.Actions.Avg.Jphi, rep.Actions.Disp.Jphi)
	t.Logf("Angle fits (slope per step, residual disp):")
	t.Logf("  θr   = %.6f, %.6f", rep.Angles.Freq.Omegar, rep.Angles.DispR)
	t.Logf("  θz   = %.6f, %.6f", rep.Angles.Freq.Omegaz, rep.Angles.DispZ)
	t.Logf("  θphi = %.6f, %.6f", rep.Angles.Freq.Omegaphi, rep.Angles.DispPhi)
	t.Logf("Torus frequencies: Ωr=%.6f Ωz=%.6f Ωφ=%.6f", rep.Freq.Omegar, rep.Freq.Omegaz, rep.Freq.Omegaphi)
	t.Logf("Scatter: %.6f (bound %.6f), energy %.6f", rep.Scatter, rep.ScatterNorm, rep.Energy)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
