package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml"
)

var validate = validator.New()

// Load reads the configuration at path, creating the file with defaults when
// it does not exist yet. Missing engine-wide values are filled with their
// defaults, thresholds are sorted ascending and the normalized result is
// written back so the file always shows the effective configuration.
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(path, Default()); err != nil {
			return Config{}, fmt.Errorf("create default config: %w", err)
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := toml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	normalize(&c)
	if err := Validate(c); err != nil {
		return Config{}, err
	}
	if err := Save(path, c); err != nil {
		return Config{}, fmt.Errorf("write config back: %w", err)
	}
	return c, nil
}

// Save writes c to path as TOML.
func Save(path string, c Config) error {
	b, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate checks c for values the engine cannot run with.
func Validate(c Config) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for name, chk := range c.Checks {
		for _, t := range chk.Thresholds {
			if t.Action.String() == "" {
				return fmt.Errorf("invalid config: check %q threshold %v has no action", name, t.VL)
			}
		}
	}
	return nil
}

// normalize fills zero-valued engine-wide settings with defaults and sorts
// every check's thresholds ascending. A check block that is present keeps its
// explicit values; only fields whose zero value is unusable are defaulted.
func normalize(c *Config) {
	def := Default()
	if c.Server.APIAddress == "" {
		c.Server.APIAddress = def.Server.APIAddress
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = def.Server.LogLevel
	}
	if c.Guard.HistorySize == 0 {
		c.Guard.HistorySize = def.Guard.HistorySize
	}
	if c.Guard.RecentViolationCap == 0 {
		c.Guard.RecentViolationCap = def.Guard.RecentViolationCap
	}
	if c.Guard.Speeds == (Speeds{}) {
		c.Guard.Speeds = def.Guard.Speeds
	}
	if c.Checks == nil {
		c.Checks = def.Checks
	}
	for name, chk := range c.Checks {
		if chk.VLMultiplier == 0 {
			chk.VLMultiplier = 1.0
		}
		if chk.VLDecayIntervalTicks == 0 {
			chk.VLDecayIntervalTicks = 20
		}
		if chk.MaxVL == 0 {
			chk.MaxVL = 100
		}
		sort.Slice(chk.Thresholds, func(i, j int) bool {
			return chk.Thresholds[i].VL < chk.Thresholds[j].VL
		})
		c.Checks[name] = chk
	}
}
