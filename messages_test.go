package main

import (
	"encoding/json"
	"testing"

	"github.com/Seednode/chronoselect/games/chrono"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectBufferKeepsOrder(t *testing.T) {
	var b effectBuffer

	b.Play(chrono.CueTick, 2)
	pattern := []int{100, 50, 100}
	b.Vibrate(pattern...)
	b.Vibrate()
	pattern[0] = 999

	got := b.drain()
	require.Len(t, got, 2)
	assert.Equal(t, CueMessage{Type: "cue", Name: chrono.CueTick, Rate: 2}, got[0])
	assert.Equal(t, VibrateMessage{Type: "vibrate", Pattern: []int{100, 50, 100}}, got[1])

	assert.Empty(t, b.drain())
}

func TestClientMessageDecodesContacts(t *testing.T) {
	raw := `{"type":"contacts","events":[{"id":3,"x":10.5,"y":20,"phase":"down"},{"id":-1,"x":1,"y":2,"phase":"up"}]}`

	var msg ClientMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))

	assert.Equal(t, "contacts", msg.Type)
	assert.Equal(t, []chrono.ContactEvent{
		{ID: 3, X: 10.5, Y: 20, Phase: chrono.PhaseDown},
		{ID: chrono.MouseContact, X: 1, Y: 2, Phase: chrono.PhaseUp},
	}, msg.Events)
}

func TestCueMessageWireShape(t *testing.T) {
	data, err := json.Marshal(CueMessage{Type: "cue", Name: chrono.CueWinner, Rate: 1})
	require.NoError(t, err)

	assert.JSONEq(t, `{"type":"cue","name":"winnerCue","rate":1}`, string(data))
}
