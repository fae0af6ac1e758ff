package action

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Executor carries out dispatched actions against players. The engine calls
// it off the tick goroutine, fire-and-forget; results are never awaited.
type Executor interface {
	// Execute carries out act against the player. The duration is zero for
	// actions that are not time-limited, and vl is the player's violation
	// level for the check at dispatch time.
	Execute(id uuid.UUID, name, check string, act Action, duration time.Duration, vl float64)
}

// NopExecutor drops every action. It stands in when the host does not
// provide an executor.
type NopExecutor struct{}

// Execute ...
func (NopExecutor) Execute(uuid.UUID, string, string, Action, time.Duration, float64) {}

// LogExecutor writes dispatched actions to a logger instead of carrying them
// out. The standalone daemon uses it, as it has no host to act through.
type LogExecutor struct {
	Log *logrus.Logger
}

// Execute ...
func (e LogExecutor) Execute(id uuid.UUID, name, check string, act Action, duration time.Duration, vl float64) {
	entry := e.Log.WithFields(logrus.Fields{
		"player": name,
		"id":     id,
		"check":  check,
		"vl":     vl,
	})
	if act.RequiresDuration() {
		entry.Warnf("dispatched %s (%s)", act, duration)
		return
	}
	entry.Warnf("dispatched %s", act)
}
