// Package violation owns the violation ledger: it weighs detections into
// per-player scores, records the resulting events and dispatches the actions
// of crossed thresholds.
package violation

import (
	"time"

	"github.com/google/uuid"

	"github.com/hypersystems/hyperguard/check"
)

// Violation is the immutable record of a single weighted detection.
type Violation struct {
	PlayerID uuid.UUID      `json:"playerId"`
	Player   string         `json:"player"`
	Check    string         `json:"check"`
	Category check.Category `json:"category"`

	// VL is the level this detection added after weighting; Total is the
	// player's level for the check right afterwards.
	VL    float64 `json:"vl"`
	Total float64 `json:"total"`

	Details string    `json:"details,omitempty"`
	Tick    uint64    `json:"tick"`
	Time    time.Time `json:"time"`
}

// Alerter receives each recorded violation for broadcast to observers.
// Delivery is fire-and-forget and a failing observer must not affect
// scoring.
type Alerter interface {
	Alert(v Violation)
}

// NopAlerter drops every alert.
type NopAlerter struct{}

// Alert ...
func (NopAlerter) Alert(Violation) {}

// Query selects recent violations. Zero fields match everything.
type Query struct {
	Player uuid.UUID
	Check  string
	Limit  int
}
