package main

import (
	"slices"

	"github.com/Seednode/chronoselect/games/chrono"
)

// Messages coming from the table surface
type ClientMessage struct {
	Type   string                `json:"type"`             // "contacts", "reset", "mode", "resize"
	Events []chrono.ContactEvent `json:"events,omitempty"` // contacts
	Mode   string                `json:"mode,omitempty"`   // mode
	Width  float64               `json:"width,omitempty"`  // resize
	Height float64               `json:"height,omitempty"` // resize
}

// StateMessage carries one rendered frame of the session.
type StateMessage struct {
	Type  string          `json:"type"` // "state"
	State chrono.Snapshot `json:"state"`
}

// CueMessage asks the surface to synthesize an audio cue.
type CueMessage struct {
	Type string     `json:"type"` // "cue"
	Name chrono.Cue `json:"name"`
	Rate float64    `json:"rate"`
}

// VibrateMessage asks the surface for haptic feedback, in milliseconds
// alternating on and off.
type VibrateMessage struct {
	Type    string `json:"type"` // "vibrate"
	Pattern []int  `json:"pattern"`
}

// SimpleMessage is for generic notifications ("error", "replaced")
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// effectBuffer collects cues and vibrations raised while the session steps,
// so the hub can flush them ahead of the next state frame. It is owned by
// the hub goroutine.
type effectBuffer struct {
	pending []any
}

func (b *effectBuffer) Play(cue chrono.Cue, rate float64) {
	b.pending = append(b.pending, CueMessage{Type: "cue", Name: cue, Rate: rate})
}

func (b *effectBuffer) Vibrate(pattern ...int) {
	if len(pattern) == 0 {
		return
	}
	b.pending = append(b.pending, VibrateMessage{Type: "vibrate", Pattern: slices.Clone(pattern)})
}

func (b *effectBuffer) drain() []any {
	out := b.pending
	b.pending = nil
	return out
}
