// Package preference remembers the role each client last selected.
package preference

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/apper-apps/mediconnect-code/internal/model"
)

// Store persists the active role per client id.
type Store interface {
	GetRole(ctx context.Context, clientID string) (model.Role, bool, error)
	SetRole(ctx context.Context, clientID string, r model.Role) error
}

// MemoryStore keeps preferences in process.
type MemoryStore struct {
	c *cache.Cache
}

// NewMemoryStore creates a store whose entries expire after ttl. Zero keeps them forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	exp := ttl
	if exp <= 0 {
		exp = cache.NoExpiration
	}
	return &MemoryStore{c: cache.New(exp, 10*time.Minute)}
}

func (s *MemoryStore) GetRole(_ context.Context, clientID string) (model.Role, bool, error) {
	v, ok := s.c.Get(clientID)
	if !ok {
		return "", false, nil
	}
	r, ok := v.(model.Role)
	return r, ok, nil
}

func (s *MemoryStore) SetRole(_ context.Context, clientID string, r model.Role) error {
	s.c.SetDefault(clientID, r)
	return nil
}
