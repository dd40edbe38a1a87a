/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chrono

import "math"

const (
	Chambers = 6

	// SightAngle is where the barrel points: straight up on screen.
	SightAngle = -math.Pi / 2

	timerRouletteSnap   = "roulette-snap"
	timerRouletteReveal = "roulette-reveal"
	timerRouletteResume = "roulette-resume"
	timerRouletteForced = "roulette-forced"
	timerRouletteReset  = "roulette-reset"
)

// normalizeAngle folds a into [0, 2π).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// angleDistance is the minimal circular distance between two angles.
func angleDistance(a, b float64) float64 {
	d := math.Abs(normalizeAngle(a) - normalizeAngle(b))
	return math.Min(d, 2*math.Pi-d)
}

// speedFactor scales the spin by how many chambers are still loaded.
func speedFactor(remaining int) float64 {
	return float64(7-remaining) * 0.5
}

// NearestChamber returns the chamber closest to the sight once the
// cylinder is turned by rotation. Equal distances go to the earlier entry.
func NearestChamber(chambers []*Player, rotation float64) *Player {
	var (
		best     *Player
		bestDist = math.Inf(1)
	)
	for _, c := range chambers {
		if d := angleDistance(c.Angle+rotation, SightAngle); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// roulette spins a six-chamber cylinder with one bullet:
// ROULETTE_SPINNING <-> ROULETTE_TRIGGERING -> ROULETTE_GAMEOVER.
type roulette struct{}

func (roulette) setup(s *Session) {
	bullet := s.rng.IntN(Chambers)

	for i := range Chambers {
		p := s.newPlayer(0, 0, false)
		p.Angle = float64(i) * 2 * math.Pi / Chambers
		p.BaseSize = s.settings.BaseSize * 0.6
		p.Size = p.BaseSize
		p.IsBullet = i == bullet
	}

	s.placeChambers()
	s.transition(RouletteSpinning)
}

func (roulette) contactDown(s *Session, _ ContactEvent) {
	if s.locked || s.state != RouletteSpinning {
		return
	}
	s.pullTrigger()
}

func (roulette) contactMove(*Session, ContactEvent) {}
func (roulette) contactUp(*Session, ContactEvent)   {}
func (roulette) settle(*Session)                    {}
func (roulette) resolve(*Session)                   {}

func (roulette) tick(s *Session) {
	if s.state == RouletteSpinning {
		s.rotation = normalizeAngle(s.rotation + s.settings.SpinSpeed*speedFactor(len(s.players)))
	}
	s.placeChambers()
}

// placeChambers puts every chamber on a ring around the centre of the field.
func (s *Session) placeChambers() {
	cx, cy := s.width/2, s.height/2
	r := math.Min(s.width, s.height) * 0.3

	for _, p := range s.players {
		a := p.Angle + s.rotation
		p.X = cx + r*math.Cos(a)
		p.Y = cy + r*math.Sin(a)
	}
}

// pullTrigger picks the chamber under the sight at this instant and locks
// the table until it is resolved.
func (s *Session) pullTrigger() {
	target := NearestChamber(s.sorted(), s.rotation)
	if target == nil {
		return
	}

	s.locked = true
	s.transition(RouletteTriggering)
	s.fx.Play(CueClick, 1)
	s.fx.Vibrate(30)

	id := target.ID
	s.log.Debug().Int("chamber", id).Float64("rotation", s.rotation).Msg("trigger")

	s.timers.After(timerRouletteSnap, s.settings.SnapDelay, func() {
		p, ok := s.players[id]
		if !ok {
			return
		}
		s.rotation = normalizeAngle(SightAngle - p.Angle)
		s.placeChambers()

		s.timers.After(timerRouletteReveal, s.settings.RevealDelay, func() {
			s.reveal(id)
		})
	})
}

func (s *Session) reveal(id int) {
	p, ok := s.players[id]
	if !ok {
		return
	}

	if p.IsBullet {
		s.gameOver(p)
		return
	}

	s.dropPlayer(id)
	s.fx.Play(CueTick, 1)

	// A lone bullet cannot be survived: it fires on its own.
	if len(s.players) == 1 {
		for _, last := range s.players {
			if last.IsBullet {
				s.timers.After(timerRouletteForced, s.settings.ForcedDelay, func() {
					s.gameOver(last)
				})
				return
			}
		}
	}

	s.timers.After(timerRouletteResume, s.settings.ResumeDelay, func() {
		s.locked = false
		s.transition(RouletteSpinning)
	})
}

func (s *Session) gameOver(p *Player) {
	p.IsLoser = true
	s.locked = true
	s.transition(RouletteGameOver)

	s.fx.Play(CueGunshot, 1)
	s.fx.Vibrate(300, 100, 300)
	s.log.Info().Int("chamber", p.ID).Msg("bang")

	s.timers.After(timerRouletteReset, s.settings.GameOverHold, s.reset)
}
