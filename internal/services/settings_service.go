package services

import (
	"context"

	"delice/internal/backend"
	"delice/internal/domain"
	"delice/internal/persist"
	"delice/internal/store"
)

type SettingsService struct {
	Backend *backend.Client
	Store   *store.Settings
	State   *persist.Store
}

func NewSettingsService(b *backend.Client, st *store.Settings, state *persist.Store) *SettingsService {
	return &SettingsService{Backend: b, Store: st, State: state}
}

// LoadLocal primes the store from the persisted snapshot, for a usable
// contact page before the first remote fetch lands.
func (s *SettingsService) LoadLocal() {
	if s.State == nil {
		return
	}
	if v, ok, err := s.State.LoadSettings(); err == nil && ok {
		s.Store.Set(v)
	}
}

// Fetch reads the singleton row. No row yet is not an error.
func (s *SettingsService) Fetch(ctx context.Context, token string) (domain.Settings, error) {
	v, ok, err := s.Backend.FetchSettings(ctx, token)
	if err != nil {
		return domain.Settings{}, err
	}
	if !ok {
		cur, _ := s.Store.Current()
		return cur, nil
	}
	s.commit(v)
	return v, nil
}

func (s *SettingsService) Save(ctx context.Context, token string, v domain.Settings) (domain.Settings, error) {
	saved, err := s.Backend.SaveSettings(ctx, token, v)
	if err != nil {
		return domain.Settings{}, err
	}
	s.commit(saved)
	return saved, nil
}

func (s *SettingsService) commit(v domain.Settings) {
	s.Store.Set(v)
	if s.State != nil {
		_ = s.State.SaveSettings(v)
	}
}
