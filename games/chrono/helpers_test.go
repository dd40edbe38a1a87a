package chrono

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const frame = 16 * time.Millisecond

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type recorder struct {
	cues  []Cue
	vibes [][]int
}

func (r *recorder) Play(c Cue, _ float64) { r.cues = append(r.cues, c) }
func (r *recorder) Vibrate(p ...int)      { r.vibes = append(r.vibes, p) }

func (r *recorder) count(c Cue) int {
	n := 0
	for _, got := range r.cues {
		if got == c {
			n++
		}
	}
	return n
}

// fixedRand never perturbs racers and always picks index 0.
type fixedRand struct{ f float64 }

func (r fixedRand) Float64() float64 { return r.f }
func (fixedRand) IntN(int) int       { return 0 }

type countingRand struct {
	Rand
	floats int
}

func (c *countingRand) Float64() float64 {
	c.floats++
	return c.Rand.Float64()
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0x5eed))
}

func newTestSession(t *testing.T, mode Mode) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := NewSession(epoch, Options{
		Mode:    mode,
		Width:   1000,
		Height:  800,
		Rand:    seeded(1),
		Effects: rec,
		Logger:  zerolog.Nop(),
	})
	return s, rec
}

// run ticks the session frame by frame from `from` until `from+d` and
// returns the new instant.
func run(s *Session, from time.Time, d time.Duration) time.Time {
	end := from.Add(d)
	for now := from; now.Before(end); {
		now = now.Add(frame)
		if now.After(end) {
			now = end
		}
		s.Tick(now)
	}
	return end
}

// runUntil ticks until cond holds or limit passes.
func runUntil(s *Session, from time.Time, limit time.Duration, cond func() bool) (time.Time, bool) {
	end := from.Add(limit)
	for now := from; now.Before(end); {
		now = now.Add(frame)
		s.Tick(now)
		if cond() {
			return now, true
		}
	}
	return end, false
}

func down(id int, x, y float64) ContactEvent {
	return ContactEvent{ID: id, X: x, Y: y, Phase: PhaseDown}
}

func up(id int) ContactEvent {
	return ContactEvent{ID: id, Phase: PhaseUp}
}

func winnersAndLosers(players []Player) (winners, losers int) {
	for _, p := range players {
		if p.IsWinner {
			winners++
		}
		if p.IsLoser {
			losers++
		}
	}
	return winners, losers
}
