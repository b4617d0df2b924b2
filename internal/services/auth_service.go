package services

import (
	"context"
	"sync"

	"delice/internal/backend"
	"delice/internal/domain"
	"delice/internal/persist"
)

// AuthService fronts the auth collaborator and publishes AuthEvents on
// an explicit subscribe/unsubscribe bus. The session store is not
// touched directly; whoever owns the app lifetime subscribes it and
// releases the handle on teardown.
type AuthService struct {
	Backend *backend.Client
	State   *persist.Store

	mu     sync.Mutex
	subs   map[int]chan domain.AuthEvent
	nextID int
}

func NewAuthService(b *backend.Client, st *persist.Store) *AuthService {
	return &AuthService{Backend: b, State: st, subs: map[int]chan domain.AuthEvent{}}
}

// Subscribe returns an event channel and a release func. Release is
// idempotent and closes the channel.
func (s *AuthService) Subscribe() (<-chan domain.AuthEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan domain.AuthEvent, 8)
	s.subs[id] = ch
	released := false
	release := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if released {
			return
		}
		released = true
		delete(s.subs, id)
		close(ch)
	}
	return ch, release
}

func (s *AuthService) publish(ev domain.AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default: // slow subscriber loses the event rather than blocking auth
		}
	}
}

// Login signs the user in. On failure nothing is published or
// persisted, so an existing session stays untouched.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	sess, err := s.Backend.SignIn(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	s.commit(sess, domain.EventSignedIn)
	return sess, nil
}

func (s *AuthService) Signup(ctx context.Context, email, password string) (domain.Session, error) {
	sess, err := s.Backend.SignUp(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	s.commit(sess, domain.EventSignedIn)
	return sess, nil
}

// Logout clears local state and publishes SIGNED_OUT. The remote
// revoke is best effort; a dead network must not trap the user in a
// signed-in UI.
func (s *AuthService) Logout(ctx context.Context, accessToken string) {
	if accessToken != "" {
		_ = s.Backend.SignOut(ctx, accessToken)
	}
	if s.State != nil {
		_ = s.State.ClearSession()
	}
	s.publish(domain.AuthEvent{Type: domain.EventSignedOut})
}

// Restore runs at launch: load the persisted session, check the access
// token still stands, fall back to the refresh token, and give up by
// clearing what was stored. A valid session surfaces as
// INITIAL_SESSION, a refreshed one as TOKEN_REFRESHED.
func (s *AuthService) Restore(ctx context.Context) (domain.Session, bool) {
	if s.State == nil {
		return domain.Session{}, false
	}
	sess, ok, err := s.State.LoadSession()
	if err != nil || !ok || sess.Empty() {
		return domain.Session{}, false
	}
	if user, err := s.Backend.GetUser(ctx, sess.AccessToken); err == nil {
		sess.User = user
		s.commit(sess, domain.EventInitialSession)
		return sess, true
	}
	if sess.RefreshToken != "" {
		if fresh, err := s.Backend.Refresh(ctx, sess.RefreshToken); err == nil {
			s.commit(fresh, domain.EventTokenRefreshed)
			return fresh, true
		}
	}
	_ = s.State.ClearSession()
	return domain.Session{}, false
}

// Refresh trades the refresh token for a new pair mid-run.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.Session, error) {
	sess, err := s.Backend.Refresh(ctx, refreshToken)
	if err != nil {
		return domain.Session{}, err
	}
	s.commit(sess, domain.EventTokenRefreshed)
	return sess, nil
}

func (s *AuthService) commit(sess domain.Session, typ domain.AuthEventType) {
	if s.State != nil {
		_ = s.State.SaveSession(sess)
	}
	s.publish(domain.AuthEvent{Type: typ, Session: sess})
}
