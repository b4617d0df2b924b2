package store

import (
	"sync"

	"delice/internal/domain"
)

// Settings caches the restaurant's singleton settings row.
type Settings struct {
	mu      sync.Mutex
	current domain.Settings
	loaded  bool
}

func NewSettings() *Settings { return &Settings{} }

func (s *Settings) Set(v domain.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = v
	s.loaded = true
}

func (s *Settings) Current() (domain.Settings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.loaded
}
