package gymauth

import (
	"context"
	"sync"
)

var _ TokenStore = (*MemoryTokenStore)(nil)

// MemoryTokenStore keeps the token pair in process memory. It is the store
// used in tests and by embedders that do not want sessions to survive a
// restart; BunTokenStore is the durable variant.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemoryTokenStore returns an empty in-memory store
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// SetTokens stores both tokens under one lock acquisition
func (s *MemoryTokenStore) SetTokens(_ context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

// AccessToken returns the stored access token or empty
func (s *MemoryTokenStore) AccessToken(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, nil
}

// RefreshToken returns the stored refresh token or empty
func (s *MemoryTokenStore) RefreshToken(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh, nil
}

// Clear removes both tokens
func (s *MemoryTokenStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	return nil
}
