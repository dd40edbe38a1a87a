package chrono

// Cue names an audio cue the client knows how to synthesize.
type Cue string

const (
	CueTick      Cue = "tick"
	CueWinner    Cue = "winnerCue"
	CueTeamSplit Cue = "teamSplitCue"
	CueLoser     Cue = "loserCue"
	CueClick     Cue = "roundtableClickCue"
	CueGunshot   Cue = "gunshotCue"
)

// Effects receives the side effects of state transitions. Calls must not
// block; the session never waits on them.
type Effects interface {
	Play(cue Cue, rate float64)
	Vibrate(pattern ...int)
}

type nopEffects struct{}

func (nopEffects) Play(Cue, float64) {}
func (nopEffects) Vibrate(...int)    {}
