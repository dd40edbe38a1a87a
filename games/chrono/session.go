/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chrono

import (
	"cmp"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

// Mode is the kind of round a table plays.
type Mode string

const (
	Chooser   Mode = "chooser"
	TeamSplit Mode = "teamSplit"
	Race      Mode = "race"
	Roulette  Mode = "russianRoulette"
)

var Modes = []Mode{Chooser, TeamSplit, Race, Roulette}

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", ErrUnknownMode
}

// State is a node of the round lifecycle.
type State string

const (
	Idle      State = "IDLE"
	Waiting   State = "WAITING"
	Countdown State = "COUNTDOWN"
	Result    State = "RESULT"

	RaceWaiting State = "RACE_WAITING"
	RaceReady   State = "RACE_READY"
	Racing      State = "RACING"
	RaceFinish  State = "RACE_FINISH"

	RouletteSpinning   State = "ROULETTE_SPINNING"
	RouletteTriggering State = "ROULETTE_TRIGGERING"
	RouletteGameOver   State = "ROULETTE_GAMEOVER"
)

// terminal states dismiss on the next tap instead of taking new players.
func (st State) terminal() bool {
	return st == Result || st == RaceFinish
}

// Phase is where a contact is in its down/move/up life.
type Phase string

const (
	PhaseDown   Phase = "down"
	PhaseMove   Phase = "move"
	PhaseUp     Phase = "up"
	PhaseCancel Phase = "cancel"
)

// ContactEvent is one entry of an input batch.
type ContactEvent struct {
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Phase Phase   `json:"phase"`
}

// strategy is the per-mode half of the state machine.
type strategy interface {
	setup(s *Session)
	contactDown(s *Session, ev ContactEvent)
	contactMove(s *Session, ev ContactEvent)
	contactUp(s *Session, ev ContactEvent)
	settle(s *Session)
	tick(s *Session)
	resolve(s *Session)
}

func strategyFor(m Mode) strategy {
	switch m {
	case TeamSplit:
		return selector{teams: true}
	case Race:
		return race{}
	case Roulette:
		return roulette{}
	default:
		return selector{}
	}
}

type Options struct {
	Settings Settings
	Mode     Mode
	Width    float64
	Height   float64
	Rand     Rand
	Effects  Effects
	Logger   zerolog.Logger
}

// Session is the authoritative state of one table. It is not safe for
// concurrent use: a single goroutine feeds it input batches and frames.
type Session struct {
	settings Settings
	rng      Rand
	fx       Effects
	log      zerolog.Logger

	mode     Mode
	strategy strategy
	state    State

	players  map[int]*Player
	contacts map[int]int
	nextID   int

	countdown    int
	settledCount int
	arrived      bool // a contact joined since the last settle
	rotation     float64
	locked       bool
	idleSince    time.Time

	width  float64
	height float64

	timers *Scheduler
}

func NewSession(now time.Time, opts Options) *Session {
	if opts.Settings == (Settings{}) {
		opts.Settings = DefaultSettings()
	}
	if opts.Mode == "" {
		opts.Mode = Chooser
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.Rand == nil {
		opts.Rand = globalRand{}
	}
	if opts.Effects == nil {
		opts.Effects = nopEffects{}
	}

	s := &Session{
		settings: opts.Settings,
		rng:      opts.Rand,
		fx:       opts.Effects,
		log:      opts.Logger.With().Str("component", "chrono").Logger(),
		mode:     opts.Mode,
		strategy: strategyFor(opts.Mode),
		players:  make(map[int]*Player),
		contacts: make(map[int]int),
		width:    opts.Width,
		height:   opts.Height,
		timers:   NewScheduler(now),
	}
	s.reset()

	return s
}

func (s *Session) State() State { return s.state }
func (s *Session) Mode() Mode   { return s.mode }

// PendingTimers counts delayed actions not yet fired or cancelled.
func (s *Session) PendingTimers() int { return s.timers.Pending() }

// Players returns copies of the active players ordered by id.
func (s *Session) Players() []Player {
	out := make([]Player, 0, len(s.players))
	for _, p := range s.sorted() {
		out = append(out, *p)
	}
	return out
}

// Apply feeds one input batch at instant now. Timers due by now fire first.
// The batch is applied as a whole and the state is re-evaluated once.
func (s *Session) Apply(now time.Time, events []ContactEvent) {
	s.advance(now)

	dismissing := s.state.terminal()
	dismissed := false

	for _, ev := range events {
		switch ev.Phase {
		case PhaseDown:
			if dismissing {
				if !dismissed {
					s.log.Debug().Str("state", string(s.state)).Msg("tap to dismiss")
					s.reset()
					dismissed = true
				}
				continue
			}
			s.strategy.contactDown(s, ev)
		case PhaseMove:
			s.strategy.contactMove(s, ev)
		case PhaseUp, PhaseCancel:
			s.strategy.contactUp(s, ev)
		}
	}

	s.strategy.settle(s)
}

// AddContact is Apply with a single contact-down. It reports the player
// created for the contact, if there is one by the end of the call.
func (s *Session) AddContact(now time.Time, id int, x, y float64) (Player, bool) {
	s.Apply(now, []ContactEvent{{ID: id, X: x, Y: y, Phase: PhaseDown}})
	return s.contactPlayer(id)
}

// MoveContact is Apply with a single contact-move.
func (s *Session) MoveContact(now time.Time, id int, x, y float64) bool {
	_, ok := s.contactPlayer(id)
	s.Apply(now, []ContactEvent{{ID: id, X: x, Y: y, Phase: PhaseMove}})
	return ok
}

// RemoveContact is Apply with a single contact-up and reports whether the
// contact's player left the table.
func (s *Session) RemoveContact(now time.Time, id int) bool {
	p, ok := s.contactPlayer(id)
	s.Apply(now, []ContactEvent{{ID: id, Phase: PhaseUp}})
	if !ok {
		return false
	}
	_, still := s.players[p.ID]
	return !still
}

// Trigger pulls the trigger in roulette mode. It is the same as a tap.
func (s *Session) Trigger(now time.Time) {
	s.Apply(now, []ContactEvent{{ID: MouseContact, X: s.width / 2, Y: s.height / 2, Phase: PhaseDown}})
}

// Tick advances the session to now and runs one animation frame.
func (s *Session) Tick(now time.Time) {
	s.advance(now)
	s.strategy.tick(s)
}

// Reset abandons the current round and cancels every pending timer.
func (s *Session) Reset(now time.Time) {
	s.advance(now)
	s.reset()
}

// SetMode switches the game mode, which always resets the table. While
// players are on the table only a switch into or out of roulette is allowed.
func (s *Session) SetMode(now time.Time, m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}

	s.advance(now)

	if len(s.players) > 0 && s.mode != Roulette && m != Roulette {
		return ErrModeLocked
	}

	s.log.Debug().Str("from", string(s.mode)).Str("to", string(m)).Msg("mode")

	s.mode = m
	s.strategy = strategyFor(m)
	s.reset()

	return nil
}

// Resize updates the playing field to the renderer's canvas.
func (s *Session) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	if s.mode == Roulette {
		s.placeChambers()
	}
}

func (s *Session) advance(now time.Time) {
	s.timers.Advance(now)
}

func (s *Session) now() time.Time {
	return s.timers.Now()
}

func (s *Session) reset() {
	s.timers.CancelAll()
	clear(s.players)
	clear(s.contacts)

	s.nextID = 0
	s.countdown = s.settings.CountdownSeconds
	s.settledCount = 0
	s.arrived = false
	s.rotation = 0
	s.locked = false
	s.idleSince = s.now()
	s.transition(Idle)

	s.strategy.setup(s)
}

func (s *Session) transition(to State) {
	if s.state == to {
		return
	}
	s.log.Debug().
		Str("mode", string(s.mode)).
		Str("from", string(s.state)).
		Str("to", string(to)).
		Int("players", len(s.players)).
		Msg("transition")

	s.state = to
	if to == Idle {
		s.idleSince = s.now()
	}
}

func (s *Session) sorted() []*Player {
	return slices.SortedFunc(maps.Values(s.players), func(a, b *Player) int {
		return cmp.Compare(a.ID, b.ID)
	})
}

// breathe advances the idle size oscillation, three times faster while
// counting down.
func (s *Session) breathe(p *Player) {
	speed := 1.0
	if s.state == Countdown {
		speed = 3
	}
	p.AnimationPhase += 0.02 * speed
	p.Size = p.BaseSize + math.Sin(p.AnimationPhase)*(p.BaseSize*0.1)
}
