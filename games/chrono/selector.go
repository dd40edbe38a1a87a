/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chrono

const (
	timerPreCountdown = "pre-countdown"
	timerCountdown    = "countdown"
	timerResult       = "result"
)

// selector runs the chooser and team-split rounds:
// IDLE -> WAITING -> COUNTDOWN -> RESULT -> IDLE.
type selector struct {
	teams bool
}

func (selector) setup(*Session) {}

func (selector) contactDown(s *Session, ev ContactEvent) {
	switch s.state {
	case Idle, Waiting, Countdown:
	default:
		return
	}

	if s.addContact(ev.ID, ev.X, ev.Y, true) == nil {
		return
	}

	// A late arrival puts the round back into the grace period.
	if s.state == Countdown {
		s.timers.Cancel(timerCountdown)
		s.countdown = s.settings.CountdownSeconds
	}
	s.arrived = true
	s.transition(Waiting)
}

func (selector) contactMove(s *Session, ev ContactEvent) {
	s.moveContact(ev.ID, ev.X, ev.Y)
}

func (selector) contactUp(s *Session, ev ContactEvent) {
	if s.state == Result {
		return
	}
	s.removeContact(ev.ID)
}

func (selector) settle(s *Session) {
	n := len(s.players)

	switch s.state {
	case Waiting, Countdown:
		if n == 0 {
			s.reset()
			return
		}
	}

	if s.state == Waiting {
		switch {
		case n < 2:
			s.timers.Cancel(timerPreCountdown)
		case n != s.settledCount || s.arrived || !s.timers.Has(timerPreCountdown):
			s.timers.After(timerPreCountdown, s.settings.PreCountdown, func() {
				if s.state == Waiting && len(s.players) >= 2 {
					s.startCountdown()
				}
			})
		}
	}

	s.settledCount = n
	s.arrived = false
}

func (m selector) tick(s *Session) {
	for _, p := range s.sorted() {
		switch {
		case s.state == Result && p.IsWinner:
			// Growth stops well past the edge of the field.
			p.Size = min(p.Size*1.0765, 2*max(s.width, s.height))
		case s.state == Result && p.IsLoser:
			p.Size *= 0.9
			p.Opacity = max(0, p.Opacity-0.05)
			if p.Opacity <= 0 {
				s.dropPlayer(p.ID)
			}
		default:
			s.breathe(p)
		}
	}
}

func (m selector) resolve(s *Session) {
	players := s.sorted()

	if m.teams {
		a, b := SplitTeams(s.rng, players)
		s.fx.Play(CueTeamSplit, 1)
		s.fx.Vibrate(100, 50, 100)
		s.log.Info().Int("team_a", len(a)).Int("team_b", len(b)).Msg("teams split")
		return
	}

	winner := ChooseWinner(s.rng, players)
	s.fx.Play(CueWinner, 1)
	if len(players) > 1 {
		s.fx.Play(CueLoser, 1)
	}
	s.fx.Vibrate(300)
	s.log.Info().Int("winner", winner.ID).Int("players", len(players)).Msg("winner chosen")
}

func (s *Session) startCountdown() {
	s.timers.Cancel(timerPreCountdown)
	s.transition(Countdown)

	s.countdown = s.settings.CountdownSeconds
	s.fx.Play(CueTick, 1)
	s.fx.Vibrate(200)

	s.timers.Every(timerCountdown, s.settings.CountdownStep, func() {
		s.countdown--
		if s.countdown > 0 {
			s.fx.Play(CueTick, 1)
			s.fx.Vibrate(100)
			return
		}
		s.countdown = 0
		s.timers.Cancel(timerCountdown)
		s.enterResult()
	})
}

// enterResult resolves the round once. A player already carrying an
// outcome means the resolver has run and must not run again.
func (s *Session) enterResult() {
	s.transition(Result)

	if len(s.players) == 0 {
		s.reset()
		return
	}

	for _, p := range s.players {
		if p.annotated() {
			return
		}
	}

	s.strategy.resolve(s)
	s.timers.After(timerResult, s.settings.ResultDuration, s.reset)
}
