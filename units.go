package torusbench

import "fmt"

// InternalUnits fixes the conversion between the program-internal unit basis
// and physical galactic units (kiloparsecs and megayears). It is an explicit
// immutable value passed to whatever needs physical-unit scaling; there is no
// ambient global unit state.
//
// Unit conversions touch only reported magnitudes. The pass/fail decision
// operates on dimensionless ratios and never sees them.
type InternalUnits struct {
	toKpc float64 // one internal length unit, in kpc
	toMyr float64 // one internal time unit, in Myr
}

// NewInternalUnits builds a unit system whose internal length unit equals
// lengthKpc kiloparsecs and whose internal time unit equals timeMyr megayears.
func NewInternalUnits(lengthKpc, timeMyr float64) (InternalUnits, error) {
	if lengthKpc <= 0 || timeMyr <= 0 {
		return InternalUnits{}, fmt.Errorf("%w: unit scales must be positive (length=%g kpc, time=%g Myr)",
			ErrConfiguration, lengthKpc, timeMyr)
	}
	return InternalUnits{toKpc: lengthKpc, toMyr: timeMyr}, nil
}

// GalacticUnits is the conventional basis of 1 kpc and 1 Myr, in which
// internal and physical values coincide.
func GalacticUnits() InternalUnits {
	return InternalUnits{toKpc: 1, toMyr: 1}
}

// ToKpc converts an internal length to kiloparsecs.
func (u InternalUnits) ToKpc(l float64) float64 { return l * u.toKpc }

// FromKpc converts a length in kiloparsecs to internal units.
func (u InternalUnits) FromKpc(l float64) float64 { return l / u.toKpc }

// ToMyr converts an internal time to megayears.
func (u InternalUnits) ToMyr(t float64) float64 { return t * u.toMyr }

// FromMyr converts a time in megayears to internal units.
func (u InternalUnits) FromMyr(t float64) float64 { return t / u.toMyr }

// ActionToPhysical converts an action (length²/time) from internal units to
// kpc²/Myr.
func (u InternalUnits) ActionToPhysical(j float64) float64 {
	return j * u.toKpc * u.toKpc / u.toMyr
}

// ActionFromPhysical converts an action from kpc²/Myr to internal units.
func (u InternalUnits) ActionFromPhysical(j float64) float64 {
	return j * u.toMyr / (u.toKpc * u.toKpc)
}

// FreqToPhysical converts a frequency (1/time) from internal units to 1/Myr.
func (u InternalUnits) FreqToPhysical(f float64) float64 {
	return f / u.toMyr
}
