/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chrono

import "math"

func (s *Session) full() bool {
	return len(s.players) >= s.settings.MaxTouches
}

func (s *Session) hues() []float64 {
	hues := make([]float64, 0, len(s.players))
	for _, p := range s.players {
		hues = append(hues, p.Hue)
	}
	return hues
}

// newPlayer allocates the next id and places a resting circle at (x, y).
// Colourful players get a hue distinct from everyone already present;
// the rest stay neutral grey.
func (s *Session) newPlayer(x, y float64, colourful bool) *Player {
	p := &Player{
		ID:             s.nextID,
		X:              x,
		Y:              y,
		Opacity:        1,
		Size:           s.settings.BaseSize,
		BaseSize:       s.settings.BaseSize,
		AnimationPhase: s.rng.Float64() * math.Pi * 2,
	}
	if colourful {
		p.Hue = DistinctHue(s.rng, s.hues())
		p.Saturation = 90
	}

	s.nextID++
	s.players[p.ID] = p

	return p
}

// addContact binds a new contact to a new player. It returns nil when the
// contact is already bound or the table is full.
func (s *Session) addContact(contact int, x, y float64, colourful bool) *Player {
	if _, ok := s.contacts[contact]; ok {
		return nil
	}
	if s.full() {
		s.log.Debug().Int("contact", contact).Msg("table full, contact ignored")
		return nil
	}

	p := s.newPlayer(x, y, colourful)
	s.contacts[contact] = p.ID

	return p
}

func (s *Session) contactPlayer(contact int) (Player, bool) {
	id, ok := s.contacts[contact]
	if !ok {
		return Player{}, false
	}
	p, ok := s.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

func (s *Session) moveContact(contact int, x, y float64) bool {
	id, ok := s.contacts[contact]
	if !ok {
		return false
	}
	p, ok := s.players[id]
	if !ok {
		return false
	}
	p.X, p.Y = x, y
	return true
}

// removeContact unbinds the contact and takes its player off the table.
func (s *Session) removeContact(contact int) bool {
	id, ok := s.contacts[contact]
	if !ok {
		return false
	}
	delete(s.contacts, contact)

	if _, ok := s.players[id]; !ok {
		return false
	}
	delete(s.players, id)

	return true
}

// releaseContact unbinds the contact but leaves its player in play.
func (s *Session) releaseContact(contact int) {
	delete(s.contacts, contact)
}

// dropPlayer removes a player along with whatever contact points at it.
func (s *Session) dropPlayer(id int) {
	delete(s.players, id)
	for contact, pid := range s.contacts {
		if pid == id {
			delete(s.contacts, contact)
		}
	}
}
