package chrono

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHueDistance(t *testing.T) {
	assert.InDelta(t, 20.0, hueDistance(350, 10), 1e-9)
	assert.InDelta(t, 180.0, hueDistance(0, 180), 1e-9)
	assert.InDelta(t, 0.0, hueDistance(42, 42), 1e-9)
}

func TestDistinctHueKeepsDistance(t *testing.T) {
	rng := seeded(7)
	existing := []float64{0, 90, 180}

	for range 1000 {
		hue := DistinctHue(rng, existing)
		require.GreaterOrEqual(t, hue, 0.0)
		require.Less(t, hue, 360.0)
		for _, h := range existing {
			require.GreaterOrEqual(t, hueDistance(h, hue), minHueDistance, "hue %.2f too close to %.0f", hue, h)
		}
	}
}

func TestDistinctHueGivesUpAfterFiftyAttempts(t *testing.T) {
	// Every point of the wheel is within 15 degrees of one of these.
	var saturated []float64
	for h := 0.0; h < 360; h += 30 {
		saturated = append(saturated, h)
	}

	rng := &countingRand{Rand: seeded(3)}
	hue := DistinctHue(rng, saturated)

	assert.Equal(t, maxHueAttempts, rng.floats)
	assert.GreaterOrEqual(t, hue, 0.0)
	assert.Less(t, hue, 360.0)
}

func TestShuffleIsPermutationAndLeavesInputAlone(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}
	orig := slices.Clone(in)

	out := Shuffle(seeded(11), in)

	assert.Equal(t, orig, in)
	assert.ElementsMatch(t, in, out)
}

func TestShuffleUniformFirstPosition(t *testing.T) {
	rng := seeded(5)
	in := []int{0, 1, 2, 3, 4}
	counts := make([]int, len(in))

	const trials = 10000
	for range trials {
		counts[Shuffle(rng, in)[0]]++
	}

	expected := float64(trials) / float64(len(in))
	for i, c := range counts {
		assert.InDelta(t, expected, float64(c), expected*0.1, "position 0 held %d too often/rarely", i)
	}
}
