package config

import (
	"errors"
	"sync"

	"go.uber.org/atomic"
)

// Store holds the live configuration and supports atomic replacement when an
// administrator reloads or retunes it. Readers always observe a complete,
// immutable configuration.
type Store struct {
	path string

	mu sync.Mutex // serializes writers
	v  atomic.Pointer[Config]
}

// NewStore wraps an already-loaded configuration. A store created this way
// has no backing file and cannot reload.
func NewStore(c Config) *Store {
	s := &Store{}
	s.v.Store(&c)
	return s
}

// Open loads the configuration at path into a store that can later reload
// from the same file.
func Open(path string) (*Store, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	s := NewStore(c)
	s.path = path
	return s, nil
}

// Current returns the live configuration. The returned value must be treated
// as read-only.
func (s *Store) Current() *Config {
	return s.v.Load()
}

// Guard returns the live engine-wide settings.
func (s *Store) Guard() Guard {
	return s.Current().Guard
}

// Check returns the named check's tunables. The second return value is false
// when the check has no configuration and must be treated as disabled.
func (s *Store) Check(name string) (Check, bool) {
	c, ok := s.Current().Checks[name]
	return c, ok
}

// Replace swaps in c wholesale.
func (s *Store) Replace(c Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Store(&c)
}

// Reload re-reads the backing file and swaps the result in. The previous
// configuration stays live when loading fails.
func (s *Store) Reload() error {
	if s.path == "" {
		return errors.New("config store has no backing file")
	}
	c, err := Load(s.path)
	if err != nil {
		return err
	}
	s.Replace(c)
	return nil
}

// SetCheckEnabled flips the enabled flag of the named check, reporting
// whether the check has a configuration block at all.
func (s *Store) SetCheckEnabled(name string, enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.v.Load()
	if _, ok := cur.Checks[name]; !ok {
		return false
	}
	next := cloneConfig(*cur)
	chk := next.Checks[name]
	chk.Enabled = enabled
	next.Checks[name] = chk
	s.v.Store(&next)
	return true
}

func cloneConfig(c Config) Config {
	out := c
	out.Checks = make(map[string]Check, len(c.Checks))
	for name, chk := range c.Checks {
		chk.Thresholds = append([]Threshold(nil), chk.Thresholds...)
		out.Checks[name] = chk
	}
	return out
}
