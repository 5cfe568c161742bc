package torusbench

import (
	"fmt"
	"math"
)

// VerifyConfig controls one verification run. The defaults reproduce the
// reference setup: 64 samples over 4 periods of the fastest angle.
type VerifyConfig struct {
	Samples int     // number of torus samples N
	Periods float64 // periods of the fastest angle to cover P

	// Decision thresholds. ScatterCoeff scales the adaptive action-scatter
	// bound; the three angle bounds are fixed absolute limits in radians.
	ScatterCoeff float64
	MaxDispR     float64
	MaxDispZ     float64
	MaxDispPhi   float64
}

// DefaultVerifyConfig returns the reference thresholds.
func DefaultVerifyConfig() VerifyConfig {
	return VerifyConfig{
		Samples:      64,
		Periods:      4,
		ScatterCoeff: 0.33,
		MaxDispR:     0.1,
		MaxDispZ:     1.0,
		MaxDispPhi:   0.05,
	}
}

// Report is the outcome of a verification run: the verdict plus every
// intermediate metric, for diagnostic output. All magnitudes are in internal
// units; unit conversion is applied only when reporting, never here.
type Report struct {
	Pass bool

	Target  Actions       // the generating actions of the torus
	Actions ActionMoments // recovered-action statistics
	Angles  AngleMoments  // recovered-angle fits and residuals

	Freq   Frequencies // torus frequencies from the mapper, per unit time
	Energy float64     // total energy at the zero-angle reference point

	Scatter     float64 // (σJr+σJz)/(μJr+μJz)
	ScatterNorm float64 // adaptive acceptance bound for Scatter
	Samples     int
}

// Tuple returns the diagnostic metrics in the fixed reference order:
//
//	μJr σJr μJz σJz μJφ σJφ  νr νz νφ  dθr dθz dθφ  scatter scatterNorm
//
// The action entries are in internal units; baseline comparison relies on
// this ordering.
func (r Report) Tuple() []float64 {
	return []float64{
		r.Actions.Avg.Jr, r.Actions.Disp.Jr,
		r.Actions.Avg.Jz, r.Actions.Disp.Jz,
		r.Actions.Avg.Jphi, r.Actions.Disp.Jphi,
		r.Angles.Freq.Omegar, r.Angles.Freq.Omegaz, r.Angles.Freq.Omegaphi,
		r.Angles.DispR, r.Angles.DispZ, r.Angles.DispPhi,
		r.Scatter, r.ScatterNorm,
	}
}

// Verify runs the full sampling-and-statistics comparison for one torus.
//
// The torus mapper provides ground truth: phase-space points that lie exactly
// on the torus of the target actions. The finder recovers an independent
// action-angle estimate from each point. Agreement is judged by the
// scale-normalized action scatter
//
//	scatter     = (σJr + σJz) / (μJr + μJz)
//	scatterNorm = 0.33 · sqrt( (μJr+μJz) / (μJr+μJz+|μJφ|) )
//
// and by fixed absolute bounds on the angle residual dispersions. The
// adaptive bound shrinks as the azimuthal action dominates the total:
// near-circular orbits are expected to be recovered more precisely, so less
// scatter is tolerated for them. Both ratios are dimensionless, so scaling
// all actions by a common factor leaves the verdict unchanged.
//
// Samples are generated, mapped and recovered strictly in index order, with
// no concurrency; the angle unwrapping depends on the ordering. The first
// error from any collaborator aborts the run and discards all partial state.
func Verify(pot Potential, mapper TorusMapper, finder ActionFinder, target Actions, cfg VerifyConfig) (Report, error) {
	if !target.Valid() {
		return Report{}, fmt.Errorf("%w: target actions %+v", ErrConfiguration, target)
	}
	if cfg.Samples < 1 {
		return Report{}, fmt.Errorf("%w: sample count must be >= 1, got %d", ErrConfiguration, cfg.Samples)
	}
	if !(cfg.Periods > 0) {
		return Report{}, fmt.Errorf("%w: period count must be positive, got %g", ErrConfiguration, cfg.Periods)
	}

	// Reference point at zero angles: fixes the frequencies once for the
	// whole run.
	refPoint, freq, err := mapper.MapWithFrequencies(ActionAngles{Actions: target})
	if err != nil {
		return Report{}, err
	}
	energy, err := TotalEnergy(pot, refPoint)
	if err != nil {
		return Report{}, err
	}

	grid, err := AngleGrid(cfg.Samples, cfg.Periods, freq)
	if err != nil {
		return Report{}, err
	}

	var acts ActionStat
	var angs AngleStat
	for i, angles := range grid {
		point, err := mapper.Map(ActionAngles{Actions: target, Angles: angles})
		if err != nil {
			return Report{}, fmt.Errorf("sample %d: %w", i, err)
		}
		recovered, err := finder.ActionAngles(point)
		if err != nil {
			return Report{}, fmt.Errorf("sample %d: %w", i, err)
		}
		acts.Add(recovered)
		angs.Add(float64(i), recovered)
	}

	rep := Report{
		Target:  target,
		Actions: acts.Finish(),
		Angles:  angs.Finish(),
		Freq:    freq,
		Energy:  energy,
		Samples: cfg.Samples,
	}

	sumAvg := rep.Actions.Avg.Jr + rep.Actions.Avg.Jz
	sumDisp := rep.Actions.Disp.Jr + rep.Actions.Disp.Jz
	if sumAvg != 0 {
		rep.Scatter = sumDisp / sumAvg
	}
	total := sumAvg + math.Abs(rep.Actions.Avg.Jphi)
	if total != 0 {
		rep.ScatterNorm = cfg.ScatterCoeff * math.Sqrt(sumAvg/total)
	}

	rep.Pass = rep.Scatter < rep.ScatterNorm &&
		rep.Angles.DispR < cfg.MaxDispR &&
		rep.Angles.DispZ < cfg.MaxDispZ &&
		rep.Angles.DispPhi < cfg.MaxDispPhi

	return rep, nil
}
