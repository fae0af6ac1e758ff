package violation

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hypersystems/hyperguard/action"
	"github.com/hypersystems/hyperguard/check"
	"github.com/hypersystems/hyperguard/config"
	"github.com/hypersystems/hyperguard/internal/worker"
	"github.com/hypersystems/hyperguard/metrics"
	"github.com/hypersystems/hyperguard/player"
)

// Engine owns the violation ledger for every tracked player. Detections flow
// in through Flag and drain back down through DecayAll; the ring of recent
// violations stays queryable through Recent.
type Engine struct {
	log  *logrus.Logger
	conf *config.Store

	players *player.Manager
	perms   check.Permissions
	exec    action.Executor
	alert   Alerter

	recent *ring
}

// NewEngine builds an engine around the given collaborators. Nil perms, exec
// or alert fall back to no-op implementations.
func NewEngine(log *logrus.Logger, conf *config.Store, players *player.Manager, perms check.Permissions, exec action.Executor, alert Alerter) *Engine {
	if perms == nil {
		perms = check.NopPermissions{}
	}
	if exec == nil {
		exec = action.NopExecutor{}
	}
	if alert == nil {
		alert = NopAlerter{}
	}
	return &Engine{
		log:     log,
		conf:    conf,
		players: players,
		perms:   perms,
		exec:    exec,
		alert:   alert,
		recent:  newRing(conf.Guard().RecentViolationCap),
	}
}

// Flag applies a detection to the player's ledger: the base level is weighted
// by the check's multiplier, added to the player's score and the thresholds
// the new total reaches are dispatched, each at most once per excursion.
// Flag returns nil when the player is exempt or the check is not enabled.
func (e *Engine) Flag(tick uint64, p *player.Player, name string, category check.Category, d check.Detection) *Violation {
	if e.perms.HasBypass(p.ID(), "") || e.perms.HasBypass(p.ID(), name) {
		return nil
	}
	if p.GloballyExempt() || p.Exempted(name) {
		return nil
	}
	conf, ok := e.conf.Check(name)
	if !ok || !conf.Enabled {
		return nil
	}

	added := d.VL * conf.VLMultiplier
	total := p.AddVL(name, added, conf.MaxVL)

	v := Violation{
		PlayerID: p.ID(),
		Player:   p.Name(),
		Check:    name,
		Category: category,
		VL:       added,
		Total:    total,
		Details:  check.FormatDetails(d.Details),
		Tick:     tick,
		Time:     time.Now(),
	}
	e.recent.push(v)
	metrics.ViolationsTotal.WithLabelValues(name).Inc()
	e.log.Warnf("%s flagged %s (%s) VL: %.2f (+%.2f) [%s]", v.Player, v.Check, v.Category, v.Total, v.VL, v.Details)

	alert := e.alert
	worker.Submit(func() {
		alert.Alert(v)
	})

	e.evaluateThresholds(p, name, conf, total)
	return &v
}

// evaluateThresholds walks the check's thresholds in ascending order and
// dispatches every one the total has reached that has not fired during the
// current excursion. Thresholds are sorted at configuration load time.
func (e *Engine) evaluateThresholds(p *player.Player, name string, conf config.Check, total float64) {
	for _, t := range conf.Thresholds {
		if total < t.VL {
			break
		}
		if !p.MarkThreshold(name, t.VL) {
			continue
		}
		e.dispatch(p, name, t, total)
	}
}

func (e *Engine) dispatch(p *player.Player, name string, t config.Threshold, total float64) {
	duration := t.Duration.Std()
	if t.Action.RequiresDuration() && duration <= 0 {
		duration = action.DefaultTempBanDuration
	}
	metrics.ActionsTotal.WithLabelValues(t.Action.String()).Inc()
	e.log.Infof("dispatching %s to %s for %s at VL %.2f", t.Action, p.Name(), name, total)

	id, username := p.ID(), p.Name()
	exec := e.exec
	worker.Submit(func() {
		exec.Execute(id, username, name, t.Action, duration, total)
	})
}

// DecayAll applies one decay step for every enabled check whose interval
// divides the given tick. A level reaching zero drops its ledger entry and
// re-arms the check's thresholds. Checks that are disabled keep whatever
// level they had until they are enabled again.
func (e *Engine) DecayAll(tick uint64) {
	conf := e.conf.Current()
	for name, c := range conf.Checks {
		if !c.Enabled || c.VLDecayRate <= 0 {
			continue
		}
		if tick%c.VLDecayIntervalTicks != 0 {
			continue
		}
		for _, p := range e.players.All() {
			p.DecayVL(name, c.VLDecayRate)
		}
	}
}

// Recent returns recorded violations matching q, most recent first.
func (e *Engine) Recent(q Query) []Violation {
	return e.recent.recent(q)
}

// Recorded returns how many violations the ring currently holds.
func (e *Engine) Recorded() int {
	return e.recent.length()
}
