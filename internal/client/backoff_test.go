package client

import (
	"testing"
	"time"
)

func TestBackoff_GrowthAndCap(t *testing.T) {
	b := newBackoff(100*time.Millisecond, 400*time.Millisecond)

	// Jitter is +/-20%, so bound each delay against the unjittered value.
	wantBases := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		400 * time.Millisecond, // capped
	}

	for i, base := range wantBases {
		d := b.NextDelay()
		lo := time.Duration(float64(base) * 0.8)
		hi := time.Duration(float64(base) * 1.2)
		if d < lo || d > hi {
			t.Errorf("delay %d = %v, want within [%v, %v]", i, d, lo, hi)
		}
	}
}

func TestBackoff_Reset(t *testing.T) {
	b := newBackoff(100*time.Millisecond, time.Second)

	b.NextDelay()
	b.NextDelay()
	b.Reset()

	d := b.NextDelay()
	lo := time.Duration(float64(100*time.Millisecond) * 0.8)
	hi := time.Duration(float64(100*time.Millisecond) * 1.2)
	if d < lo || d > hi {
		t.Errorf("delay after Reset = %v, want within [%v, %v]", d, lo, hi)
	}
}
