// Package config defines the guard's configuration file schema, its defaults
// and loading with create-if-missing semantics.
package config

import (
	"github.com/hypersystems/hyperguard/action"
	"github.com/hypersystems/hyperguard/game"
)

// Config is the root of the guard configuration file.
type Config struct {
	Server Server           `toml:"server"`
	Guard  Guard            `toml:"guard"`
	Checks map[string]Check `toml:"checks" validate:"dive"`
}

// Server holds the daemon's operational settings. Hosts embedding the guard
// as a library ignore this section.
type Server struct {
	// APIAddress is the listen address of the admin HTTP API.
	APIAddress string `toml:"api_address"`

	// SentryDSN enables crash reporting when non-empty.
	SentryDSN string `toml:"sentry_dsn"`

	// LogLevel is a logrus level name.
	LogLevel string `toml:"log_level" validate:"omitempty,oneof=panic fatal error warn info debug trace"`

	// Simulate runs the built-in movement simulation as the sample source,
	// cheaters included.
	Simulate bool `toml:"simulate"`
}

// Guard holds the engine-wide settings shared by every check.
type Guard struct {
	// HistorySize is the capacity of each player's position history.
	HistorySize int `toml:"history_size" validate:"gte=2,lte=1024"`

	// Grace windows, in ticks, during which checks are suspended after the
	// corresponding event.
	JoinGraceTicks     uint64 `toml:"join_grace_ticks" validate:"lte=12000"`
	TeleportGraceTicks uint64 `toml:"teleport_grace_ticks" validate:"lte=12000"`
	DamageGraceTicks   uint64 `toml:"damage_grace_ticks" validate:"lte=12000"`
	VelocityGraceTicks uint64 `toml:"velocity_grace_ticks" validate:"lte=12000"`

	// RecentViolationCap bounds the in-memory ring of recent violations.
	RecentViolationCap int `toml:"recent_violation_cap" validate:"gte=1"`

	// Debug lowers the log level and enables verbose check output.
	Debug bool `toml:"debug"`

	Speeds Speeds `toml:"speeds"`
}

// Speeds holds the base horizontal speed per movement state, in blocks per
// tick. The defaults are the authoritative physics values; deployments may
// recalibrate them here.
type Speeds struct {
	Walk   float64 `toml:"walk" validate:"gt=0"`
	Sprint float64 `toml:"sprint" validate:"gt=0"`
	Sneak  float64 `toml:"sneak" validate:"gt=0"`
	Swim   float64 `toml:"swim" validate:"gt=0"`
	Climb  float64 `toml:"climb" validate:"gt=0"`
	Fly    float64 `toml:"fly" validate:"gt=0"`
	Glide  float64 `toml:"glide" validate:"gt=0"`
}

// Check is the tunable set for a single check. A check with no configuration
// block is treated as disabled.
type Check struct {
	Enabled bool `toml:"enabled"`

	// Tolerance widens the acceptable envelope of each detector; 0.1 allows
	// 10% over the physical expectation.
	Tolerance float64 `toml:"tolerance" validate:"gte=0,lte=1"`

	VLMultiplier         float64 `toml:"vl_multiplier" validate:"gt=0"`
	VLDecayRate          float64 `toml:"vl_decay_rate" validate:"gte=0"`
	VLDecayIntervalTicks uint64  `toml:"vl_decay_interval_ticks" validate:"gte=1"`
	MaxVL                float64 `toml:"max_vl" validate:"gt=0"`

	Thresholds []Threshold `toml:"thresholds" validate:"dive"`
}

// Threshold pairs a violation level with the action dispatched exactly once
// when the level is crossed.
type Threshold struct {
	VL       float64         `toml:"vl" validate:"gt=0"`
	Action   action.Action   `toml:"action"`
	Duration action.Duration `toml:"duration,omitempty"`
}

// DefaultCheck returns the default tunables shared by every check.
func DefaultCheck() Check {
	return Check{
		Enabled:              true,
		Tolerance:            0.1,
		VLMultiplier:         1.0,
		VLDecayRate:          0.5,
		VLDecayIntervalTicks: 20,
		MaxVL:                100,
		Thresholds: []Threshold{
			{VL: 20, Action: action.Warn()},
			{VL: 50, Action: action.Kick()},
			{VL: 100, Action: action.Ban()},
		},
	}
}

// Default returns the configuration written when no file exists yet.
func Default() Config {
	return Config{
		Server: Server{
			APIAddress: "127.0.0.1:8077",
			LogLevel:   "info",
			Simulate:   true,
		},
		Guard: Guard{
			HistorySize:        20,
			JoinGraceTicks:     100,
			TeleportGraceTicks: 40,
			DamageGraceTicks:   20,
			VelocityGraceTicks: 20,
			RecentViolationCap: 1000,
			Speeds: Speeds{
				Walk:   game.WalkSpeed,
				Sprint: game.SprintSpeed,
				Sneak:  game.SneakSpeed,
				Swim:   game.SwimSpeed,
				Climb:  game.ClimbSpeed,
				Fly:    game.FlySpeed,
				Glide:  game.GlideSpeed,
			},
		},
		Checks: map[string]Check{
			"speed":  DefaultCheck(),
			"fly":    DefaultCheck(),
			"nofall": DefaultCheck(),
			"phase":  DefaultCheck(),
		},
	}
}
