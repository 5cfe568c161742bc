package torusbench

import "math"

// ActionStat accumulates first- and second-moment statistics of recovered
// actions, one sample at a time. Memory use is O(1) in the number of samples:
// each component carries a running mean and a centered second moment,
// updated with Welford's method. The recovered actions of a good finder
// differ only in the last few bits, so a naive sum-of-squares accumulation
// would lose the dispersion to cancellation; the centered update keeps it at
// full precision.
//
// The accumulator is two-phase. During the accumulating phase only Add is
// legal; Finish computes the moments and freezes the value. Calling Add after
// Finish is a programming error and panics. Actions carry no periodicity, so
// the result is independent of the order in which samples are added, up to
// floating-point roundoff.
type ActionStat struct {
	n            float64
	jr, jz, jphi moment
	finished     bool
}

// ActionMoments is the finalized output of an ActionStat: per-component
// arithmetic mean and population standard deviation.
type ActionMoments struct {
	Avg  Actions
	Disp Actions
	N    int
}

// moment tracks one component's mean and centered sum of squared deviations.
type moment struct {
	mean, m2 float64
}

func (m *moment) add(v, n float64) {
	d := v - m.mean
	m.mean += d / n
	m.m2 += d * (v - m.mean)
}

// disp returns the population standard deviation over n samples.
func (m *moment) disp(n float64) float64 {
	if m.m2 <= 0 {
		return 0
	}
	return math.Sqrt(m.m2 / n)
}

// Add folds one recovered sample's actions into the running moments.
func (s *ActionStat) Add(aa ActionAngles) {
	if s.finished {
		panic("torusbench: ActionStat.Add after Finish")
	}
	s.n++
	s.jr.add(aa.Jr, s.n)
	s.jz.add(aa.Jz, s.n)
	s.jphi.add(aa.Jphi, s.n)
}

// Finish computes mean and dispersion and makes the accumulator read-only.
func (s *ActionStat) Finish() ActionMoments {
	s.finished = true
	if s.n == 0 {
		return ActionMoments{}
	}
	return ActionMoments{
		Avg:  Actions{Jr: s.jr.mean, Jz: s.jz.mean, Jphi: s.jphi.mean},
		Disp: Actions{Jr: s.jr.disp(s.n), Jz: s.jz.disp(s.n), Jphi: s.jphi.disp(s.n)},
		N:    int(s.n),
	}
}
