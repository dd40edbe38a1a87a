package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/chronoselect/games/chrono"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	port           int
	prefix         string
	profile        bool
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool

	countdown      int
	inputRate      int
	raceDirection  string
	resultDuration time.Duration
	tickRate       int
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.tickRate < 1 || c.tickRate > 240 {
		return fmt.Errorf("invalid tick rate (must be between 1-240 inclusive): %d", c.tickRate)
	}
	if c.countdown < 1 || c.countdown > 10 {
		return fmt.Errorf("invalid countdown (must be between 1-10 inclusive): %d", c.countdown)
	}
	if c.resultDuration <= 0 || c.resultDuration > 5*time.Minute {
		return fmt.Errorf("invalid result duration (must be between 0s-5m): %s", c.resultDuration)
	}
	if c.inputRate < 1 {
		return fmt.Errorf("invalid input rate (must be at least 1): %d", c.inputRate)
	}
	if _, err := chrono.ParseDirection(c.raceDirection); err != nil {
		return fmt.Errorf("invalid race direction %q: %w", c.raceDirection, err)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) frameInterval() time.Duration {
	return time.Second / time.Duration(c.tickRate)
}

// settings turns the pacing flags into engine settings.
func (c *Config) settings() chrono.Settings {
	s := chrono.DefaultSettings()
	s.CountdownSeconds = c.countdown
	s.ResultDuration = c.resultDuration
	s.GameOverHold = c.resultDuration
	s.RaceDirection = chrono.Direction(c.raceDirection)
	return s
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CHRONOSELECT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "chronoselect",
		Short:         "A finger-on-the-screen party picker: chooser, teams, races and roulette.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			setupLogging(cfg)
			return ServePage(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: CHRONOSELECT_BIND)")
	fs.IntVar(&cfg.countdown, "countdown", 3, "seconds counted down before a pick (env: CHRONOSELECT_COUNTDOWN)")
	fs.IntVar(&cfg.inputRate, "input-rate", 120, "input messages accepted per second per connection (env: CHRONOSELECT_INPUT_RATE)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: CHRONOSELECT_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: CHRONOSELECT_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: CHRONOSELECT_PROFILE)")
	fs.StringVar(&cfg.raceDirection, "race-direction", string(chrono.Up), "direction racers run, up or down (env: CHRONOSELECT_RACE_DIRECTION)")
	fs.DurationVar(&cfg.resultDuration, "result-duration", 10*time.Second, "how long an outcome stays on screen (env: CHRONOSELECT_RESULT_DURATION)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle tables are closed (env: CHRONOSELECT_SESSION_TIMEOUT)")
	fs.IntVar(&cfg.tickRate, "tick-rate", 60, "animation frames per second (env: CHRONOSELECT_TICK_RATE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: CHRONOSELECT_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: CHRONOSELECT_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: CHRONOSELECT_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: CHRONOSELECT_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("chronoselect v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
