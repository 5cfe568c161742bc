package torusbench

// The three external collaborators of a verification run. Any type with the
// right method set conforms; no common base type is required.

// Potential evaluates a gravitational potential at a phase-space point.
//
// Evaluate returns the potential value and its gradient, or an error wrapping
// ErrEvaluation if the point lies outside the potential's domain of validity.
type Potential interface {
	Evaluate(p PosVelCyl) (value float64, grad GradCyl, err error)
}

// TorusMapper turns action-angle coordinates into a phase-space point for one
// fixed potential.
//
// Map fails with an error wrapping ErrConstruction when the requested actions
// do not correspond to a valid bound orbit. MapWithFrequencies additionally
// returns the three orbital frequencies of the torus; the verifier calls it
// once, at zero angles, and holds the frequencies fixed for the whole run.
type TorusMapper interface {
	Map(aa ActionAngles) (PosVelCyl, error)
	MapWithFrequencies(aa ActionAngles) (PosVelCyl, Frequencies, error)
}

// ActionFinder recovers an action-angle estimate from a phase-space point
// alone, with no knowledge of how the point was produced. This is the system
// under test.
//
// ActionAngles fails with an error wrapping ErrEstimation when the underlying
// local approximation cannot be constructed at the point.
type ActionFinder interface {
	ActionAngles(p PosVelCyl) (ActionAngles, error)
}

// TotalEnergy returns Φ(p) + v²/2, the conserved orbital energy of the point
// in the given potential.
func TotalEnergy(pot Potential, p PosVelCyl) (float64, error) {
	val, _, err := pot.Evaluate(p)
	if err != nil {
		return 0, err
	}
	return val + p.KineticEnergy(), nil
}
