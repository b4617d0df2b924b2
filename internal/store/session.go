package store

import (
	"sync"

	"delice/internal/domain"
)

// Session mirrors the auth collaborator's state. Apply is the only
// mutation path: sign-in-class events populate the token pair and
// user, SIGNED_OUT wipes everything whatever was there before.
type Session struct {
	mu      sync.Mutex
	session domain.Session
}

func NewSession() *Session { return &Session{} }

func (s *Session) Apply(ev domain.AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch ev.Type {
	case domain.EventSignedIn, domain.EventTokenRefreshed, domain.EventInitialSession:
		if ev.Session.AccessToken != "" {
			s.session = ev.Session
		}
	case domain.EventSignedOut:
		s.session = domain.Session{}
	}
}

func (s *Session) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.AccessToken
}

func (s *Session) SignedIn() bool { return s.Token() != "" }

func (s *Session) User() domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.User
}
