package preference

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/role"
)

// Resolver picks the active role of a request.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve prefers an explicit role, then the stored preference of clientID,
// then the default role. Store failures fall back to the default.
func (r *Resolver) Resolve(ctx context.Context, explicit, clientID string) model.Role {
	if parsed, ok := role.Parse(explicit); ok {
		return parsed
	}
	if clientID == "" || r.store == nil {
		return role.Default
	}
	stored, ok, err := r.store.GetRole(ctx, clientID)
	if err != nil {
		log.Warn().Err(err).Str("client_id", clientID).Msg("Failed to load role preference")
		return role.Default
	}
	if !ok {
		return role.Default
	}
	return stored
}

func (r *Resolver) Save(ctx context.Context, clientID string, rl model.Role) error {
	if clientID == "" || r.store == nil {
		return nil
	}
	return r.store.SetRole(ctx, clientID, rl)
}
