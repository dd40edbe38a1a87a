/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chrono

// ChooseWinner shuffles the players and crowns the first one. Everyone
// else is marked a loser. It returns the winner, or nil for no players.
func ChooseWinner(rng Rand, players []*Player) *Player {
	if len(players) == 0 {
		return nil
	}

	shuffled := Shuffle(rng, players)
	winner := shuffled[0]

	for _, p := range players {
		p.IsWinner = p == winner
		p.IsLoser = p != winner
		p.Team = NoTeam
	}

	return winner
}

// SplitTeams shuffles the players and cuts the deck at ceil(n/2): the first
// half is team A, the rest team B. Each team gets its own hue, at least 30
// degrees from the other.
func SplitTeams(rng Rand, players []*Player) (teamA, teamB []*Player) {
	shuffled := Shuffle(rng, players)
	mid := (len(shuffled) + 1) / 2
	teamA, teamB = shuffled[:mid], shuffled[mid:]

	hueA := DistinctHue(rng, nil)
	hueB := DistinctHue(rng, []float64{hueA})

	for _, p := range teamA {
		p.Team, p.Hue = TeamA, hueA
	}
	for _, p := range teamB {
		p.Team, p.Hue = TeamB, hueB
	}
	for _, p := range shuffled {
		p.IsWinner, p.IsLoser = false, false
		p.Saturation = 90
	}

	return teamA, teamB
}
