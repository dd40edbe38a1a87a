/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chrono

import (
	"cmp"
	"slices"
	"strconv"
)

const (
	timerDwellPrefix = "race-dwell/"
	timerRaceStart   = "race-start"
	timerRaceReady   = "race-ready"
	timerRaceFinish  = "race-finish"
	timerRaceReset   = "race-reset"

	perturbChance = 0.05
	minVelocity   = 0.1
	maxVelocity   = 4.0
)

func dwellKey(contact int) string {
	return timerDwellPrefix + strconv.Itoa(contact)
}

// race lines everyone up and lets them run:
// IDLE -> RACE_WAITING -> RACE_READY -> RACING -> RACE_FINISH -> IDLE.
type race struct{}

func (race) setup(*Session) {}

// contactDown only arms the dwell filter; a tap released before it fires
// never becomes a racer.
func (race) contactDown(s *Session, ev ContactEvent) {
	switch s.state {
	case Idle, RaceWaiting:
	default:
		return
	}

	contact, x, y := ev.ID, ev.X, ev.Y
	s.timers.After(dwellKey(contact), s.settings.RaceDwell, func() {
		s.admitRacer(contact, x, y)
	})
}

func (race) contactMove(*Session, ContactEvent) {}

func (race) contactUp(s *Session, ev ContactEvent) {
	s.timers.Cancel(dwellKey(ev.ID))
	s.releaseContact(ev.ID)
}

func (race) settle(*Session) {}

func (race) resolve(*Session) {}

func (race) tick(s *Session) {
	if s.state != Racing {
		for _, p := range s.sorted() {
			s.breathe(p)
		}
		return
	}

	type crossing struct {
		p         *Player
		overshoot float64
	}

	var (
		ranked  int
		crossed []crossing
	)

	players := s.sorted()
	for _, p := range players {
		if p.Rank != 0 {
			ranked++
			s.breathe(p)
			continue
		}

		if over, done := s.runStep(p); done {
			crossed = append(crossed, crossing{p: p, overshoot: over})
		}
	}

	if len(crossed) == 0 {
		return
	}

	// Whoever got furthest past the line this frame finished first.
	slices.SortStableFunc(crossed, func(a, b crossing) int {
		return cmp.Compare(b.overshoot, a.overshoot)
	})
	for _, c := range crossed {
		ranked++
		c.p.Rank = ranked
	}

	s.fx.Play(CueTick, 2)
	s.fx.Vibrate(50)

	if ranked == len(players) {
		s.timers.After(timerRaceFinish, s.settings.RaceFinishDelay, s.finishRace)
	}
}

// runStep moves one racer a frame and reports how far past the finish line
// it ended up, if it got there.
func (s *Session) runStep(p *Player) (float64, bool) {
	if p.RaceDirection == Down {
		p.Y += p.VY
	} else {
		p.Y -= p.VY
	}

	if s.rng.Float64() < perturbChance {
		p.VY += (s.rng.Float64() - 0.4) * 2
	}
	p.VY = max(minVelocity, min(p.VY, maxVelocity))

	var over float64
	if p.RaceDirection == Down {
		line := s.height - p.Size/2
		if p.Y < line {
			return 0, false
		}
		over = p.Y - line
		p.Y = line
	} else {
		line := p.Size / 2
		if p.Y > line {
			return 0, false
		}
		over = line - p.Y
		p.Y = line
	}
	p.VY = 0

	return over, true
}

func (s *Session) admitRacer(contact int, x, y float64) {
	if s.state != Idle && s.state != RaceWaiting {
		return
	}

	p := s.addContact(contact, x, y, true)
	if p == nil {
		return
	}
	p.RaceDirection = s.settings.RaceDirection

	s.transition(RaceWaiting)
	s.timers.After(timerRaceStart, s.settings.RaceStartWindow, func() {
		if len(s.players) > 0 {
			s.readyRace()
		}
	})
}

func (s *Session) readyRace() {
	s.timers.CancelPrefix(timerDwellPrefix)
	s.timers.Cancel(timerRaceStart)
	s.transition(RaceReady)

	s.fx.Play(CueTeamSplit, 1)
	s.fx.Vibrate(100)

	s.lineUp()

	s.timers.After(timerRaceReady, s.settings.RaceReadyDelay, s.startRace)
}

// lineUp spreads the racers evenly across the middle 80% of the field on
// their starting line.
func (s *Session) lineUp() {
	players := s.sorted()
	n := len(players)

	width := s.width * 0.8
	startX := (s.width - width) / 2
	spacing := 0.0
	if n > 1 {
		spacing = width / float64(n-1)
	}

	for i, p := range players {
		p.X = startX + float64(i)*spacing
		if n == 1 {
			p.X = s.width / 2
		}
		if p.RaceDirection == Down {
			p.Y = s.settings.BaseSize
		} else {
			p.Y = s.height - s.settings.BaseSize
		}
	}
}

func (s *Session) startRace() {
	s.transition(Racing)

	s.fx.Play(CueWinner, 1)
	s.fx.Vibrate(200, 100, 200)

	for _, p := range s.sorted() {
		p.VY = s.rng.Float64() + 0.5
	}
}

func (s *Session) finishRace() {
	s.transition(RaceFinish)

	s.fx.Play(CueLoser, 1)
	s.log.Info().Int("racers", len(s.players)).Msg("race finished")

	s.timers.After(timerRaceReset, s.settings.ResultDuration, s.reset)
}
