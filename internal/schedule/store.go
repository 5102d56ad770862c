package schedule

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"loom/internal/services"
)

// Store caches the slot plan read from a TOML resource. The cache is
// process-wide and read-mostly; Clear drops it so the next Load re-reads the
// file. A concurrent Clear may let one in-flight reader observe the previous
// plan for the duration of a single call, which is acceptable.
type Store struct {
	path string

	mu     sync.RWMutex
	plan   *Plan
	loaded bool
}

// NewStore builds a slot plan store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the cached slot plan, reading the resource on first use. A
// missing file yields an empty plan; a malformed file is a configuration
// error.
func (s *Store) Load() (*Plan, error) {
	s.mu.RLock()
	if s.loaded {
		plan := s.plan
		s.mu.RUnlock()
		return plan, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.plan, nil
	}

	plan, err := s.read()
	if err != nil {
		return nil, err
	}
	s.plan = plan
	s.loaded = true
	return plan, nil
}

// Clear drops the cached plan; the next Load re-reads the resource. Used by
// tests and after live edits to the slot plan file.
func (s *Store) Clear() {
	s.mu.Lock()
	s.plan = nil
	s.loaded = false
	s.mu.Unlock()
}

// Platform resolves a platform name or alias through the cached plan. Unknown
// names return (nil, nil); only a malformed resource produces an error.
func (s *Store) Platform(nameOrAlias string) (*Platform, error) {
	plan, err := s.Load()
	if err != nil {
		return nil, err
	}
	return plan.Platform(nameOrAlias), nil
}

// Canonical resolves a platform name or alias to its canonical key.
func (s *Store) Canonical(nameOrAlias string) (string, bool) {
	plan, err := s.Load()
	if err != nil {
		return "", false
	}
	return plan.Canonical(nameOrAlias)
}

func (s *Store) read() (*Plan, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// No slot plan configured: every platform has no schedule.
			return buildPlan(planDocument{})
		}
		return nil, services.Wrap(services.ErrConfiguration, "schedule", "load", "read slot plan", err)
	}

	var doc planDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "schedule", "load", "parse slot plan", err)
	}
	return buildPlan(doc)
}
