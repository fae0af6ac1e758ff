// Command hyperguard runs the anomaly detector as a standalone daemon. It
// drives a simulated world populated with scripted movement profiles, serves
// the admin API and streams recorded violations to websocket subscribers.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"github.com/thejerf/suture/v4"

	"github.com/hypersystems/hyperguard"
	"github.com/hypersystems/hyperguard/action"
	"github.com/hypersystems/hyperguard/api"
	"github.com/hypersystems/hyperguard/config"
	"github.com/hypersystems/hyperguard/sim"
)

const configPath = "hyperguard.toml"

func main() {
	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}

	conf, err := config.Open(configPath)
	if err != nil {
		log.Fatalf("error loading %s: %v", configPath, err)
	}
	server := conf.Current().Server

	if level, err := logrus.ParseLevel(server.LogLevel); err == nil {
		log.Level = level
	}
	if conf.Guard().Debug {
		log.Level = logrus.DebugLevel
	}

	if server.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: server.SentryDSN}); err != nil {
			log.Errorf("error starting sentry: %v", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	world := sim.NewWorld()
	hub := api.NewHub(log)
	guard := hyperguard.New(log, conf, world, hyperguard.Options{
		Executor: action.LogExecutor{Log: log},
		Alerter:  hub,
	})

	root := suture.New("hyperguard", suture.Spec{
		EventHook: func(e suture.Event) {
			log.Warnf("supervisor: %s", e)
		},
	})
	root.Add(guard.DecayService())
	root.Add(api.NewServer(log, server.APIAddress, guard, hub))
	if server.Simulate {
		runner := sim.NewRunner(log, guard, world)
		spawn(log, runner)
		root.Add(runner)
	} else {
		// With the simulation off nothing spawns players; the daemon just
		// serves the admin API and metrics.
		root.Add(guard.TickService())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("hyperguard is up, admin API on %v", server.APIAddress)
	if err := root.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("supervisor stopped: %v", err)
	}
	log.Info("hyperguard shut down")
}

// spawn seeds the simulated world with two legitimate movement profiles and
// one of every cheat the checks cover.
func spawn(log *logrus.Logger, r *sim.Runner) {
	for _, p := range []sim.Profile{
		sim.NewWalker(mgl64.Vec3{0, 64, 0}),
		sim.NewSprinter(mgl64.Vec3{32, 64, 0}),
		sim.NewSpeeder(mgl64.Vec3{64, 64, 0}, 0),
		sim.NewFlyer(mgl64.Vec3{96, 64, 0}),
		sim.NewHoverer(mgl64.Vec3{128, 64, 0}),
		sim.NewNoFaller(mgl64.Vec3{160, 64, 0}),
		sim.NewPhaser(mgl64.Vec3{192, 64, 0}),
	} {
		if _, err := r.Spawn(p); err != nil {
			log.Errorf("error spawning %s: %v", p.Name(), err)
		}
	}
}
