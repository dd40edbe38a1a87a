/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chrono

import "time"

const (
	// MaxTouches caps simultaneous contacts on one table.
	MaxTouches = 10

	// BaseCircleSize is the resting diameter of a contact's circle.
	BaseCircleSize = 130.345

	// MouseContact is the synthetic contact id a pointer device uses.
	MouseContact = -1
)

// Settings holds the pacing of a session. The zero value is not usable;
// start from DefaultSettings.
type Settings struct {
	MaxTouches int
	BaseSize   float64

	PreCountdown     time.Duration
	CountdownSeconds int
	CountdownStep    time.Duration
	ResultDuration   time.Duration
	InactivityPrompt time.Duration

	RaceDwell       time.Duration
	RaceStartWindow time.Duration
	RaceReadyDelay  time.Duration
	RaceFinishDelay time.Duration
	RaceDirection   Direction

	SpinSpeed    float64 // radians per frame at speed factor 1
	SnapDelay    time.Duration
	RevealDelay  time.Duration
	ResumeDelay  time.Duration
	ForcedDelay  time.Duration
	GameOverHold time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		MaxTouches: MaxTouches,
		BaseSize:   BaseCircleSize,

		PreCountdown:     2000 * time.Millisecond,
		CountdownSeconds: 3,
		CountdownStep:    time.Second,
		ResultDuration:   10 * time.Second,
		InactivityPrompt: 10 * time.Second,

		RaceDwell:       200 * time.Millisecond,
		RaceStartWindow: 3000 * time.Millisecond,
		RaceReadyDelay:  2000 * time.Millisecond,
		RaceFinishDelay: 500 * time.Millisecond,
		RaceDirection:   Up,

		SpinSpeed:    0.02,
		SnapDelay:    300 * time.Millisecond,
		RevealDelay:  1000 * time.Millisecond,
		ResumeDelay:  500 * time.Millisecond,
		ForcedDelay:  1000 * time.Millisecond,
		GameOverHold: 10 * time.Second,
	}
}
