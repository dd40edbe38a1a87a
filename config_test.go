package main

import (
	"testing"
	"time"

	"github.com/Seednode/chronoselect/games/chrono"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		bind:           "127.0.0.1",
		port:           8080,
		sessionTimeout: time.Minute,
		countdown:      3,
		inputRate:      1000,
		raceDirection:  "up",
		resultDuration: 10 * time.Second,
		tickRate:       60,
	}
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)
	require.NoError(t, cmd.ParseFlags(nil))

	require.NoError(t, cfg.validate())
	assert.Equal(t, 60, cfg.tickRate)
	assert.Equal(t, 3, cfg.countdown)
	assert.Equal(t, 120, cfg.inputRate)
	assert.Equal(t, "up", cfg.raceDirection)
	assert.Equal(t, 10*time.Second, cfg.resultDuration)
	assert.Equal(t, "http", cfg.scheme())
}

func TestFlagsOverrideDefaults(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)
	require.NoError(t, cmd.ParseFlags([]string{"--tick-rate", "30", "--race-direction", "down", "--countdown", "5"}))

	require.NoError(t, cfg.validate())
	assert.Equal(t, 30, cfg.tickRate)
	assert.Equal(t, "down", cfg.raceDirection)
	assert.Equal(t, 5, cfg.countdown)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("CHRONOSELECT_TICK_RATE", "24")
	t.Setenv("CHRONOSELECT_RESULT_DURATION", "4s")

	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, 24, cfg.tickRate)
	assert.Equal(t, 4*time.Second, cfg.resultDuration)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.port = 0 }},
		{"port too high", func(c *Config) { c.port = 70000 }},
		{"tick rate zero", func(c *Config) { c.tickRate = 0 }},
		{"tick rate too high", func(c *Config) { c.tickRate = 241 }},
		{"countdown zero", func(c *Config) { c.countdown = 0 }},
		{"countdown too long", func(c *Config) { c.countdown = 11 }},
		{"result duration", func(c *Config) { c.resultDuration = 0 }},
		{"result duration too long", func(c *Config) { c.resultDuration = 6 * time.Minute }},
		{"input rate", func(c *Config) { c.inputRate = 0 }},
		{"direction", func(c *Config) { c.raceDirection = "sideways" }},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.countdown = 5
	cfg.raceDirection = "down"
	cfg.resultDuration = 4 * time.Second

	s := cfg.settings()

	assert.Equal(t, 5, s.CountdownSeconds)
	assert.Equal(t, chrono.Down, s.RaceDirection)
	assert.Equal(t, 4*time.Second, s.ResultDuration)
	assert.Equal(t, 4*time.Second, s.GameOverHold)
	assert.Equal(t, chrono.MaxTouches, s.MaxTouches)
}

func TestFrameInterval(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, time.Second/60, cfg.frameInterval())

	cfg.tickRate = 1
	assert.Equal(t, time.Second, cfg.frameInterval())
}
