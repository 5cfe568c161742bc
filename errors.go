package torusbench

import "errors"

// Error taxonomy for a verification run.
//
// Every failure aborts the whole run: the angle statistics require a
// complete, index-ordered sample series, so a single bad sample invalidates
// the statistical comparison. There are no retries and no sample skipping.
// Partial accumulator state from an aborted run is never reported.
var (
	// ErrConfiguration marks invalid run inputs (sample count, period count,
	// negative actions) detected before any sampling begins.
	ErrConfiguration = errors.New("torusbench: invalid run configuration")

	// ErrDegenerateFrequency marks a torus whose normalization frequency
	// max(|Ωr|,|Ωz|,|Ωφ|) is zero; the angle grid cannot be generated.
	ErrDegenerateFrequency = errors.New("torusbench: degenerate frequencies")

	// ErrConstruction marks a torus mapping failure: the requested actions do
	// not correspond to a valid bound orbit in the potential.
	ErrConstruction = errors.New("torusbench: torus construction failed")

	// ErrEvaluation marks a potential evaluation outside its domain of
	// validity.
	ErrEvaluation = errors.New("torusbench: potential evaluation failed")

	// ErrEstimation marks an action finder failure: the local approximation
	// cannot be built at the given phase-space point.
	ErrEstimation = errors.New("torusbench: action estimation failed")
)
