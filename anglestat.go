package torusbench

import "math"

// AngleStat accumulates the recovered phase angles of a sample series,
// associated with the generation index that stands in for elapsed time.
//
// Raw angles are only meaningful modulo 2π: a naive mean or variance is
// invalid near the wrap boundary. AngleStat therefore unwraps each component
// online (consecutive samples are compared with the minimal signed jump in
// (−π, π]) and on Finish fits, per component, a frequency (least-squares
// slope of unwrapped angle against index) and the dispersion of residuals
// about that linear fit.
//
// Samples must be added in strictly increasing index order; the unwrapping
// step is order-sensitive by construction. Like ActionStat, the accumulator
// is two-phase and Add after Finish panics.
type AngleStat struct {
	comps    [3]angleSeries
	finished bool
}

// AngleMoments is the finalized output of an AngleStat: fitted angle advance
// per index step and residual dispersion, per component.
type AngleMoments struct {
	Freq    Frequencies // unwrapped-angle slope per index step
	DispR   float64     // residual dispersion about the θr fit [rad]
	DispZ   float64
	DispPhi float64
	N       int
}

// angleSeries holds one component's unwrap state and centered regression
// moments. The unwrapped angles grow linearly over the run, so like
// ActionStat the series keeps running means and Welford-updated co-moments
// rather than raw sums of products, which would cancel away small residuals.
type angleSeries struct {
	n               float64
	prev, unwrapped float64
	meanX, meanY    float64
	cXX, cXY, cYY   float64
}

func (c *angleSeries) add(x, theta float64) {
	y := theta
	if c.n > 0 {
		y = c.unwrapped + wrapDelta(theta-c.prev)
	}
	c.prev = theta
	c.unwrapped = y
	c.n++
	dx := x - c.meanX
	dy := y - c.meanY
	c.meanX += dx / c.n
	c.meanY += dy / c.n
	c.cXX += dx * (x - c.meanX)
	c.cXY += dx * (y - c.meanY)
	c.cYY += dy * (y - c.meanY)
}

// fit returns the least-squares slope of unwrapped angle vs index and the
// population standard deviation of the residuals about the fitted line.
func (c *angleSeries) fit() (slope, disp float64) {
	if c.n < 2 || c.cXX == 0 {
		return 0, 0
	}
	slope = c.cXY / c.cXX
	ssr := c.cYY - slope*c.cXY
	if ssr < 0 {
		ssr = 0
	}
	return slope, math.Sqrt(ssr / c.n)
}

// Add folds one recovered sample's angles, taken at the given generation
// index, into the running statistics.
func (s *AngleStat) Add(index float64, aa ActionAngles) {
	if s.finished {
		panic("torusbench: AngleStat.Add after Finish")
	}
	s.comps[0].add(index, WrapAngle(aa.Thetar))
	s.comps[1].add(index, WrapAngle(aa.Thetaz))
	s.comps[2].add(index, WrapAngle(aa.Thetaphi))
}

// Finish fits each component and makes the accumulator read-only.
func (s *AngleStat) Finish() AngleMoments {
	s.finished = true
	var m AngleMoments
	m.N = int(s.comps[0].n)
	m.Freq.Omegar, m.DispR = s.comps[0].fit()
	m.Freq.Omegaz, m.DispZ = s.comps[1].fit()
	m.Freq.Omegaphi, m.DispPhi = s.comps[2].fit()
	return m
}
