package volux

import (
	"errors"
	"testing"
)

func TestPointSize_AbsoluteIgnoresDistance(t *testing.T) {
	policy := AbsolutePointSize(3.5)

	size, err := policy.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve(nil): %v", err)
	}
	if size != 3.5 {
		t.Errorf("Expected 3.5, got %v", size)
	}

	far := float32(1000)
	size, _ = policy.Resolve(&far)
	if size != 3.5 {
		t.Errorf("Absolute size changed with distance: %v", size)
	}
}

func TestPointSize_AbsoluteFloorsAtZero(t *testing.T) {
	policy := AbsolutePointSize(-2)
	size, _ := policy.Resolve(nil)
	if size != 0 {
		t.Errorf("Expected negative size to floor at 0, got %v", size)
	}
}

func TestPointSize_RelativeValidation(t *testing.T) {
	if _, err := RelativePointSize(2, 1); err == nil {
		t.Errorf("Expected min > max to be rejected")
	}
	if _, err := RelativePointSize(-1, 1); err == nil {
		t.Errorf("Expected negative min to be rejected")
	}
	if _, err := RelativePointSize(0.1, 2); err != nil {
		t.Errorf("Valid bounds rejected: %v", err)
	}
}

func TestPointSize_RelativeRequiresDistance(t *testing.T) {
	policy, _ := RelativePointSize(0.1, 2)
	_, err := policy.Resolve(nil)
	if !errors.Is(err, ErrMissingDistance) {
		t.Errorf("Expected ErrMissingDistance, got %v", err)
	}
}

func TestPointSize_RelativeFalloff(t *testing.T) {
	policy, _ := RelativePointSize(0.1, 2)

	zero := float32(0)
	size, err := policy.Resolve(&zero)
	if err != nil {
		t.Fatalf("Resolve(0): %v", err)
	}
	if size != 2 {
		t.Errorf("Resolve(0) = %v, expected max 2", size)
	}

	huge := float32(1e9)
	size, _ = policy.Resolve(&huge)
	if size < 0.1 || size > 0.1+1e-4 {
		t.Errorf("Resolve(1e9) = %v, expected to saturate at min 0.1", size)
	}

	// Monotonically non-increasing over growing distances, always in bounds.
	prev := float32(2)
	for _, d := range []float32{0.5, 1, 2, 5, 10, 50, 1000} {
		dist := d
		size, _ := policy.Resolve(&dist)
		if size > prev {
			t.Errorf("Size grew with distance: d=%v size=%v prev=%v", d, size, prev)
		}
		if size < 0.1 || size > 2 {
			t.Errorf("Size out of [min,max] at d=%v: %v", d, size)
		}
		prev = size
	}
}

func TestPointSize_RelativeNegativeDistanceClampsToMax(t *testing.T) {
	policy, _ := RelativePointSize(0.5, 4)
	neg := float32(-3)
	size, _ := policy.Resolve(&neg)
	if size != 4 {
		t.Errorf("Resolve(-3) = %v, expected max 4", size)
	}
}
