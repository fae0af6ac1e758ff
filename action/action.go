// Package action defines the graduated responses dispatched when a violation
// threshold is crossed, and the executor boundary that carries them out.
package action

import (
	"fmt"
	"strings"
)

// Action specifies a variant of response that should be carried out against a
// player once a violation threshold is crossed.
type Action struct {
	action
}

type action string

// Warn sends the player a warning message.
func Warn() Action {
	return Action{"warn"}
}

// Kick removes the player from the server.
func Kick() Action {
	return Action{"kick"}
}

// TempBan bans the player for a limited duration.
func TempBan() Action {
	return Action{"tempban"}
}

// Ban bans the player permanently.
func Ban() Action {
	return Action{"ban"}
}

// Parse returns the action named by s.
func Parse(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warn":
		return Warn(), nil
	case "kick":
		return Kick(), nil
	case "tempban":
		return TempBan(), nil
	case "ban":
		return Ban(), nil
	}
	return Action{}, fmt.Errorf("unknown action %q", s)
}

// String ...
func (a Action) String() string {
	return string(a.action)
}

// RemovesPlayer reports whether carrying out the action disconnects the
// player from the server.
func (a Action) RemovesPlayer() bool {
	return a.action == "kick" || a.action == "tempban" || a.action == "ban"
}

// RequiresDuration reports whether the action is time-limited.
func (a Action) RequiresDuration() bool {
	return a.action == "tempban"
}

// MarshalText ...
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.action), nil
}

// UnmarshalText ...
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
