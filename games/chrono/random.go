/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chrono

import (
	"math"
	"math/rand/v2"
)

const (
	minHueDistance = 30.0
	maxHueAttempts = 50
)

// Rand is the source of randomness a Session draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// hueDistance is the shorter way around the colour wheel between two hues.
func hueDistance(a, b float64) float64 {
	diff := math.Abs(a - b)
	return math.Min(diff, 360-diff)
}

// DistinctHue samples a hue in [0, 360) at least 30 degrees away from every
// existing hue. After 50 rejected samples the last one is returned as-is,
// so a saturated wheel cannot stall the caller.
func DistinctHue(rng Rand, existing []float64) float64 {
	var hue float64

	for attempt := 0; attempt < maxHueAttempts; attempt++ {
		hue = rng.Float64() * 360

		ok := true
		for _, h := range existing {
			if hueDistance(h, hue) < minHueDistance {
				ok = false
				break
			}
		}
		if ok {
			return hue
		}
	}

	return hue
}

// Shuffle returns a uniformly permuted copy of items (Fisher-Yates).
func Shuffle[T any](rng Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)

	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return out
}
