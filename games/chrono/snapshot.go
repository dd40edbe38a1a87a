package chrono

// Snapshot is everything a renderer needs for one frame. It shares no
// memory with the session.
type Snapshot struct {
	State     State    `json:"state"`
	Mode      Mode     `json:"mode"`
	Countdown int      `json:"countdown"`
	Players   []Player `json:"players"`
	Rotation  float64  `json:"rotation"`
	Locked    bool     `json:"locked"`
	Prompt    bool     `json:"prompt"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		State:     s.state,
		Mode:      s.mode,
		Countdown: s.countdown,
		Players:   s.Players(),
		Rotation:  s.rotation,
		Locked:    s.locked,
		Prompt:    s.promptDue(),
		Width:     s.width,
		Height:    s.height,
	}
}

// promptDue is true once an empty table has sat idle long enough to invite
// someone to tap.
func (s *Session) promptDue() bool {
	return s.state == Idle &&
		len(s.players) == 0 &&
		s.now().Sub(s.idleSince) >= s.settings.InactivityPrompt
}
