package hyperguard

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/thejerf/suture/v4"

	"github.com/hypersystems/hyperguard/check"
	"github.com/hypersystems/hyperguard/config"
	"github.com/hypersystems/hyperguard/metrics"
	"github.com/hypersystems/hyperguard/player"
)

// RunTick advances the engine one tick: every tracked player is sampled from
// the source and run through the enabled checks. Hosts embedding the guard
// into their own loop may call it directly instead of running TickService.
func (g *Guard) RunTick() {
	start := time.Now()
	tick := g.tick.Add(1)

	conf := g.conf.Current()
	env := &check.Env{Tick: tick, Guard: conf.Guard, Perms: g.perms}
	for _, p := range g.players.All() {
		s, ok := g.source.Snapshot(p.ID())
		if !ok {
			// Stale or missing host state: no sample this tick.
			continue
		}
		p.ApplySnapshot(s, tick)
		g.processPlayer(env, conf, p)
	}
	metrics.TickDuration.Observe(time.Since(start).Seconds())
}

func (g *Guard) processPlayer(env *check.Env, conf *config.Config, p *player.Player) {
	for _, c := range g.checks {
		cc, ok := conf.Checks[c.Name()]
		if !ok || !cc.Enabled {
			continue
		}
		env.Conf = cc
		g.processCheck(env, p, c)
	}
}

// processCheck runs a single check behind a recover barrier: a panicking
// check must not take down the tick pass or the other checks.
func (g *Guard) processCheck(env *check.Env, p *player.Player, c check.Check) {
	defer func() {
		if r := recover(); r != nil {
			metrics.CheckPanics.WithLabelValues(c.Name()).Inc()
			g.log.Errorf("check %s panicked processing %s: %v", c.Name(), p.Name(), r)
			sentry.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("check", c.Name())
				scope.SetTag("player", p.Name())
				sentry.CurrentHub().Recover(r)
			})
		}
	}()
	d, ok := c.Process(env, p)
	if !ok {
		return
	}
	if p.Debug() {
		g.log.Debugf("%s failed %s with vl %.2f [%s]", p.Name(), c.Name(), d.VL, check.FormatDetails(d.Details))
	}
	g.engine.Flag(env.Tick, p, c.Name(), c.Category(), d)
}

// TickService returns the supervised service driving RunTick at the fixed
// tick rate.
func (g *Guard) TickService() suture.Service {
	return &tickService{g: g}
}

// DecayService returns the supervised service draining violation levels. It
// runs on its own cadence so a slow tick pass never stalls decay.
func (g *Guard) DecayService() suture.Service {
	return &decayService{g: g}
}

type tickService struct {
	g *Guard
}

func (s *tickService) Serve(ctx context.Context) error {
	t := time.NewTicker(TickInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.g.RunTick()
		}
	}
}

func (s *tickService) String() string {
	return "hyperguard-tick"
}

// decayService counts its own ticks: decay intervals are measured in ticks
// of this cadence, independent of the sampling counter.
type decayService struct {
	g    *Guard
	tick uint64
}

func (s *decayService) Serve(ctx context.Context) error {
	t := time.NewTicker(TickInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.tick++
			s.g.engine.DecayAll(s.tick)
		}
	}
}

func (s *decayService) String() string {
	return "hyperguard-decay"
}
