package chrono

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaceDwellFiltersShortTaps(t *testing.T) {
	s, _ := newTestSession(t, Race)

	s.Apply(epoch, []ContactEvent{down(1, 100, 100)})
	assert.Empty(t, s.Players(), "no racer before the dwell")

	now := run(s, epoch, 100*time.Millisecond)
	s.Apply(now, []ContactEvent{up(1)})
	run(s, now, time.Second)

	assert.Equal(t, Idle, s.State())
	assert.Empty(t, s.Players())
	assert.Equal(t, 0, s.PendingTimers())
}

func TestRacersStayAfterLiftAndIgnoreMoves(t *testing.T) {
	s, _ := newTestSession(t, Race)

	s.Apply(epoch, []ContactEvent{down(1, 100, 100)})
	now := run(s, epoch, 200*time.Millisecond)
	require.Equal(t, RaceWaiting, s.State())
	require.Len(t, s.Players(), 1)

	s.Apply(now, []ContactEvent{{ID: 1, X: 600, Y: 600, Phase: PhaseMove}})
	assert.Equal(t, 100.0, s.Players()[0].X)

	s.Apply(now, []ContactEvent{up(1)})
	assert.Len(t, s.Players(), 1)
	assert.Equal(t, RaceWaiting, s.State())
}

func TestRaceCapsAtMaxTouches(t *testing.T) {
	s, _ := newTestSession(t, Race)

	var batch []ContactEvent
	for i := range 12 {
		batch = append(batch, down(i, float64(i), 0))
	}
	s.Apply(epoch, batch)
	run(s, epoch, 200*time.Millisecond)

	assert.Len(t, s.Players(), MaxTouches)
}

func TestRaceFullRound(t *testing.T) {
	s, rec := newTestSession(t, Race)

	s.Apply(epoch, []ContactEvent{down(1, 10, 10), down(2, 20, 20), down(3, 30, 30)})
	now := run(s, epoch, 200*time.Millisecond)
	require.Equal(t, RaceWaiting, s.State())
	require.Len(t, s.Players(), 3)

	now = run(s, now, 3*time.Second)
	require.Equal(t, RaceReady, s.State())
	assert.Equal(t, 1, rec.count(CueTeamSplit))

	players := s.Players()
	assert.InDelta(t, 100.0, players[0].X, 1e-9)
	assert.InDelta(t, 500.0, players[1].X, 1e-9)
	assert.InDelta(t, 900.0, players[2].X, 1e-9)
	for _, p := range players {
		assert.InDelta(t, 800-BaseCircleSize, p.Y, 1e-9)
		assert.Equal(t, Up, p.RaceDirection)
	}

	s.Apply(now, []ContactEvent{down(9, 0, 0)})
	now = run(s, now, 2*time.Second)
	require.Equal(t, Racing, s.State())
	assert.Len(t, s.Players(), 3, "late taps do not join a lined-up race")
	assert.Equal(t, 1, rec.count(CueWinner))

	now, ok := runUntil(s, now, 5*time.Minute, func() bool { return s.State() == RaceFinish })
	require.True(t, ok, "race never finished")
	assert.Equal(t, 1, rec.count(CueLoser))

	var ranks []int
	for _, p := range s.Players() {
		ranks = append(ranks, p.Rank)
		assert.InDelta(t, p.Size/2, p.Y, p.BaseSize*0.1+1, "racer %d stopped at the line", p.ID)
	}
	assert.ElementsMatch(t, []int{1, 2, 3}, ranks)

	run(s, now, 10*time.Second)
	assert.Equal(t, Idle, s.State())
	assert.Empty(t, s.Players())
}

func TestRaceRanksSameFrameFinishersByDistancePastLine(t *testing.T) {
	s, _ := newTestSession(t, Race)
	s.rng = fixedRand{f: 0.99}

	near := s.newPlayer(100, 66, true)
	near.VY = 2
	far := s.newPlayer(200, 67, true)
	far.VY = 4
	slow := s.newPlayer(300, 200, true)
	slow.VY = 1
	s.transition(Racing)

	now := epoch.Add(frame)
	s.Tick(now)

	assert.Equal(t, 1, far.Rank)
	assert.Equal(t, 2, near.Rank)
	assert.Equal(t, 0, slow.Rank)
	assert.Zero(t, far.VY)
	assert.InDelta(t, BaseCircleSize/2, far.Y, 1e-9)

	now, ok := runUntil(s, now, time.Minute, func() bool { return slow.Rank != 0 })
	require.True(t, ok)
	assert.Equal(t, 3, slow.Rank)

	run(s, now, time.Second)
	assert.Equal(t, RaceFinish, s.State())
	assert.Equal(t, 1, far.Rank, "ranks never change once given")
	assert.Equal(t, 2, near.Rank)
}

func TestRaceVelocityStaysClamped(t *testing.T) {
	s, _ := newTestSession(t, Race)

	p := s.newPlayer(0, 1e6, true)
	p.VY = 1
	s.transition(Racing)

	now := epoch
	for range 2000 {
		now = now.Add(frame)
		s.Tick(now)
		if p.Rank != 0 {
			break
		}
		assert.GreaterOrEqual(t, p.VY, minVelocity)
		assert.LessOrEqual(t, p.VY, maxVelocity)
	}
}

func TestRaceDownward(t *testing.T) {
	settings := DefaultSettings()
	settings.RaceDirection = Down

	s := NewSession(epoch, Options{
		Settings: settings,
		Mode:     Race,
		Width:    1000,
		Height:   800,
		Rand:     seeded(9),
		Logger:   zerolog.Nop(),
	})

	s.Apply(epoch, []ContactEvent{down(1, 0, 0), down(2, 0, 0)})
	now := run(s, epoch, 3200*time.Millisecond)
	require.Equal(t, RaceReady, s.State())
	for _, p := range s.Players() {
		assert.Equal(t, Down, p.RaceDirection)
		assert.InDelta(t, BaseCircleSize, p.Y, 1e-9)
	}

	_, ok := runUntil(s, now, 5*time.Minute, func() bool { return s.State() == RaceFinish })
	require.True(t, ok)

	for _, p := range s.Players() {
		assert.Greater(t, p.Y, 400.0)
	}
}
