package hyperguard

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/hypersystems/hyperguard/check"
	"github.com/hypersystems/hyperguard/game"
	"github.com/hypersystems/hyperguard/violation"
)

// ErrUnknownPlayer is returned by administrative operations naming a player
// the guard does not track.
var ErrUnknownPlayer = errors.New("hyperguard: unknown player")

// CheckStatus describes a registered check for the admin surface.
type CheckStatus struct {
	Name     string         `json:"name"`
	Category check.Category `json:"category"`
	Enabled  bool           `json:"enabled"`
}

// VL returns the player's current violation level for the named check.
func (g *Guard) VL(id uuid.UUID, check string) (float64, error) {
	p, ok := g.players.Player(id)
	if !ok {
		return 0, ErrUnknownPlayer
	}
	return p.VL(check), nil
}

// AllVLs returns the player's violation levels keyed by check name.
func (g *Guard) AllVLs(id uuid.UUID) (map[string]float64, error) {
	p, ok := g.players.Player(id)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	return p.VLs(), nil
}

// SetExempt toggles the player's administrative exemption from a single
// check.
func (g *Guard) SetExempt(id uuid.UUID, name string, exempt bool) error {
	p, ok := g.players.Player(id)
	if !ok {
		return ErrUnknownPlayer
	}
	if !g.hasCheck(name) {
		return fmt.Errorf("hyperguard: unknown check %q", name)
	}
	p.SetExempt(name, exempt)
	g.log.Infof("%s exemption from %s set to %v", p.Name(), name, exempt)
	return nil
}

// SetGloballyExempt toggles the player's exemption from every check.
func (g *Guard) SetGloballyExempt(id uuid.UUID, exempt bool) error {
	p, ok := g.players.Player(id)
	if !ok {
		return ErrUnknownPlayer
	}
	p.SetGloballyExempt(exempt)
	g.log.Infof("%s global exemption set to %v", p.Name(), exempt)
	return nil
}

// SetDebug toggles verbose per-check logging for the player.
func (g *Guard) SetDebug(id uuid.UUID, debug bool) error {
	p, ok := g.players.Player(id)
	if !ok {
		return ErrUnknownPlayer
	}
	p.SetDebug(debug)
	return nil
}

// SetCheckEnabled flips the named check's enabled flag in the live
// configuration. A disabled check stops processing and decaying immediately
// and keeps its recorded levels until re-enabled.
func (g *Guard) SetCheckEnabled(name string, enabled bool) error {
	if !g.conf.SetCheckEnabled(name, enabled) {
		return fmt.Errorf("hyperguard: unknown check %q", name)
	}
	g.log.Infof("check %s enabled set to %v", name, enabled)
	return nil
}

// RecentViolations returns recorded violations matching q, most recent
// first.
func (g *Guard) RecentViolations(q violation.Query) []violation.Violation {
	return g.engine.Recent(q)
}

// Reload re-reads the configuration from its backing file. The previous
// configuration stays live if loading fails.
func (g *Guard) Reload() error {
	if err := g.conf.Reload(); err != nil {
		return err
	}
	g.log.Info("configuration reloaded")
	return nil
}

// CheckStats summarizes the violation levels currently held against tracked
// players for one check.
type CheckStats struct {
	Check   string  `json:"check"`
	Players int     `json:"players"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	StdDev  float64 `json:"stdDev"`
	Max     float64 `json:"max"`
}

// Stats aggregates live violation levels across all tracked players, one
// entry per check with at least one recorded level.
func (g *Guard) Stats() []CheckStats {
	byCheck := make(map[string][]float64)
	for _, p := range g.players.All() {
		for name, vl := range p.VLs() {
			byCheck[name] = append(byCheck[name], vl)
		}
	}

	out := make([]CheckStats, 0, len(byCheck))
	for name, vls := range byCheck {
		max := 0.0
		for _, vl := range vls {
			if vl > max {
				max = vl
			}
		}
		out = append(out, CheckStats{
			Check:   name,
			Players: len(vls),
			Mean:    game.Mean(vls),
			Median:  game.Median(vls),
			StdDev:  game.StandardDeviation(vls),
			Max:     max,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Check < out[j].Check })
	return out
}

// Checks lists the registered checks with their live enabled state.
func (g *Guard) Checks() []CheckStatus {
	conf := g.conf.Current()
	out := make([]CheckStatus, 0, len(g.checks))
	for _, c := range g.checks {
		cc, ok := conf.Checks[c.Name()]
		out = append(out, CheckStatus{
			Name:     c.Name(),
			Category: c.Category(),
			Enabled:  ok && cc.Enabled,
		})
	}
	return out
}

func (g *Guard) hasCheck(name string) bool {
	for _, c := range g.checks {
		if c.Name() == name {
			return true
		}
	}
	return false
}
