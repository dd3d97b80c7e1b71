package gymauth

import (
	"sync"
)

// SessionState is a point-in-time snapshot of the observable session.
// IsAuthenticated tracks whether a user is present; the token-level check
// lives in SessionManager.IsAuthenticated, which re-reads the store.
type SessionState struct {
	User            *User
	IsAuthenticated bool
	IsLoading       bool
	Err             string
}

// SessionStore is the observable holding the current user and flags. It is
// an explicit instance, not package state, so tests and multi-tenant
// embedders construct isolated stores. Mutation happens only through
// SessionManager operations plus SetUser and ClearError.
type SessionStore struct {
	mu        sync.RWMutex
	state     SessionState
	listeners []func(SessionState)
}

// NewSessionStore returns a store in the initial state: no user, not
// authenticated, not loading, no error.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Snapshot returns the current state
func (s *SessionStore) Snapshot() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers a listener invoked after every mutation with the new
// state. It returns an unsubscribe function.
func (s *SessionStore) Subscribe(fn func(SessionState)) func() {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	index := len(s.listeners) - 1
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if index < len(s.listeners) {
			s.listeners[index] = nil
		}
	}
}

// SetUser overrides the current user directly; route initialization uses it
// after rehydration. IsAuthenticated derives from user presence.
func (s *SessionStore) SetUser(user *User) {
	s.mutate(func(state *SessionState) {
		state.User = user
		state.IsAuthenticated = user != nil
	})
}

// ClearError resets the error message without touching other fields
func (s *SessionStore) ClearError() {
	s.mutate(func(state *SessionState) {
		state.Err = ""
	})
}

func (s *SessionStore) beginAuth() {
	s.mutate(func(state *SessionState) {
		state.IsLoading = true
		state.Err = ""
	})
}

func (s *SessionStore) authSucceeded(user *User) {
	s.mutate(func(state *SessionState) {
		state.User = user
		state.IsAuthenticated = true
		state.IsLoading = false
	})
}

func (s *SessionStore) authFailed(message string) {
	s.mutate(func(state *SessionState) {
		state.Err = message
		state.IsLoading = false
	})
}

func (s *SessionStore) beginLogout() {
	s.mutate(func(state *SessionState) {
		state.IsLoading = true
	})
}

// finishLogout resets the session unconditionally, it runs on both the
// success and the failure path of a logout.
func (s *SessionStore) finishLogout() {
	s.mutate(func(state *SessionState) {
		state.User = nil
		state.IsAuthenticated = false
		state.IsLoading = false
	})
}

func (s *SessionStore) mutate(apply func(*SessionState)) {
	s.mu.Lock()
	apply(&s.state)
	snapshot := s.state
	listeners := make([]func(SessionState), 0, len(s.listeners))
	for _, fn := range s.listeners {
		if fn != nil {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
