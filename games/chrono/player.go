/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chrono

// Team is the side a player lands on in team-split rounds.
type Team string

const (
	NoTeam Team = ""
	TeamA  Team = "A"
	TeamB  Team = "B"
)

// Direction is the way a racer runs across the field.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection maps a flag value onto a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	}
	return "", ErrUnknownDirection
}

// Player is one contact on the table, or one chamber of the revolver.
type Player struct {
	ID int `json:"id"`

	X float64 `json:"x"`
	Y float64 `json:"y"`

	Hue            float64 `json:"hue"`
	Saturation     float64 `json:"saturation"`
	Opacity        float64 `json:"opacity"`
	Size           float64 `json:"size"`
	BaseSize       float64 `json:"baseSize"`
	AnimationPhase float64 `json:"-"`

	IsWinner bool `json:"isWinner,omitempty"`
	IsLoser  bool `json:"isLoser,omitempty"`
	Team     Team `json:"team,omitempty"`

	// Race. Rank 0 means not finished yet.
	VY            float64   `json:"-"`
	Rank          int       `json:"rank,omitempty"`
	RaceDirection Direction `json:"raceDirection,omitempty"`

	// Roulette. Angle is the chamber's slot on the cylinder, before rotation.
	IsBullet bool    `json:"-"`
	Angle    float64 `json:"angle,omitempty"`
}

// annotated reports whether a resolver has already touched this player.
func (p *Player) annotated() bool {
	return p.IsWinner || p.IsLoser || p.Team != NoTeam
}
