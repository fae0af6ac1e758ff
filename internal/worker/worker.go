// Package worker runs fire-and-forget work on a small shared pool, keeping
// action dispatch and alert fan-out off the tick path.
package worker

import (
	"runtime"

	"github.com/getsentry/sentry-go"
)

var queue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go loop()
	}
}

func loop() {
	for f := range queue {
		run(f)
	}
}

func run(f func()) {
	defer sentry.Recover()
	f()
}

// Submit queues f for execution on the pool. It blocks once the queue is
// full.
func Submit(f func()) {
	queue <- f
}
