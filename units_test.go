package torusbench

import (
	"errors"
	"math"
	"testing"
)

// TestInternalUnits_RoundTrip verifies physical and internal conversion are
// inverse operations.
func TestInternalUnits_RoundTrip(t *testing.T) {
	u, err := NewInternalUnits(2.5, 977.8)
	if err != nil {
		t.Fatalf("NewInternalUnits failed: %v", err)
	}
	for _, j := range []float64{0, 0.1, 1, 42.5} {
		back := u.ActionFromPhysical(u.ActionToPhysical(j))
		if math.Abs(back-j) > 1e-12*math.Max(1, j) {
			t.Errorf("action round trip %g -> %g", j, back)
		}
	}
	if got := u.ToKpc(2); got != 5 {
		t.Errorf("ToKpc(2) = %g, want 5", got)
	}
	if got := u.FromMyr(977.8); math.Abs(got-1) > 1e-15 {
		t.Errorf("FromMyr(977.8) = %g, want 1", got)
	}
}

// TestGalacticUnits is the identity basis: internal equals physical.
func TestGalacticUnits(t *testing.T) {
	u := GalacticUnits()
	if u.ActionToPhysical(0.1) != 0.1 || u.ToKpc(3) != 3 || u.ToMyr(7) != 7 {
		t.Error("galactic basis must be the identity conversion")
	}
}

// TestNewInternalUnits_Invalid rejects non-positive scales.
func TestNewInternalUnits_Invalid(t *testing.T) {
	if _, err := NewInternalUnits(0, 1); !errors.Is(err, ErrConfiguration) {
		t.Errorf("zero length scale: got %v, want ErrConfiguration", err)
	}
	if _, err := NewInternalUnits(1, -2); !errors.Is(err, ErrConfiguration) {
		t.Errorf("negative time scale: got %v, want ErrConfiguration", err)
	}
}
