// Package torusbench verifies that two independent constructions of a
// stellar orbit's action-angle coordinates agree.
//
// # Overview
//
// For one gravitational potential and one triple of actions (Jr, Jz, Jφ), a
// torus mapping provides ground truth: it turns action-angle coordinates into
// phase-space points that lie exactly on the invariant torus of those
// actions. An approximate local estimator (the "fudge" finder) is then asked
// to recover the action-angle coordinates of each point from the point
// alone. torusbench samples the torus, accumulates statistics of the
// recovered quantities and reduces them to a single pass/fail verdict.
//
// # The sampling design
//
// All three angles are driven from one shared sample index at rates
// proportional to their own orbital frequency:
//
//	θ_c(i) = wrap( i · (P/N) · 2π · Ω_c / Ω_max )
//
// so that N samples cover exactly P periods of the fastest angle while
// preserving the phase correlations dictated by the frequency ratios of the
// torus. See AngleGrid.
//
// # The decision rule
//
// Recovered actions feed an ActionStat (mean and dispersion per component);
// recovered angles feed an AngleStat, which unwraps the periodic phases,
// fits a frequency per component and measures the residual dispersion about
// the fit. The verdict combines a scale-normalized action scatter with fixed
// absolute bounds on the angle residuals:
//
//	scatter     = (σJr + σJz) / (μJr + μJz)
//	scatterNorm = 0.33 · sqrt( (μJr+μJz) / (μJr+μJz+|μJφ|) )
//	pass        = scatter < scatterNorm  ∧  dθr < 0.1  ∧  dθz < 1.0  ∧  dθφ < 0.05
//
// The adaptive bound shrinks as Jφ dominates the total action:
// azimuthal-dominated, near-circular orbits are expected to be recovered more
// precisely. All ratios are dimensionless; unit conversion (InternalUnits)
// touches only reported magnitudes.
//
// # Quick start
//
//	pot := torusbench.OscillatorPotential{OmegaPerp: 1, OmegaZ: 1.2}
//	rep, err := torusbench.Verify(
//	    pot,
//	    torusbench.OscillatorMapper{Pot: pot},
//	    torusbench.EpicyclicFinder{Pot: pot},
//	    torusbench.Actions{Jr: 0.1, Jz: 0.1, Jphi: 1},
//	    torusbench.DefaultVerifyConfig(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("pass=%v scatter=%.4f/%.4f\n", rep.Pass, rep.Scatter, rep.ScatterNorm)
//
// # Collaborators
//
// The core consumes three capability interfaces (Potential, TorusMapper and
// ActionFinder) with no common base type. The package ships an exact
// reference torus (the axisymmetric harmonic oscillator, whose action-angle
// structure is fully analytic), a disk-like Miyamoto-Nagai potential, and the
// EpicyclicFinder as the approximate estimator under test. Any external
// implementation with the same contracts plugs in unchanged.
//
// # Failure model
//
// A run either completes all N samples or aborts on the first collaborator
// error; partial statistics are never reported. The error taxonomy
// (ErrConfiguration, ErrDegenerateFrequency, ErrConstruction, ErrEvaluation,
// ErrEstimation) is checked with errors.Is.
package torusbench
