package profile

import (
	"context"
	"fmt"

	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/store"
	"github.com/apper-apps/mediconnect-code/pkg/errors"
)

type ProfileService interface {
	GetProfile(ctx context.Context, r model.Role) (model.Profile, error)
	UpdateProfile(ctx context.Context, r model.Role, req *model.UpdateProfileRequest) (model.Profile, error)
}

type Service struct {
	repo *store.Collection[model.Profile]
}

func NewService(repo *store.Collection[model.Profile]) *Service {
	return &Service{repo: repo}
}

// GetProfile returns the profile kept for role r.
func (s *Service) GetProfile(ctx context.Context, r model.Role) (model.Profile, error) {
	if !r.Valid() {
		return model.Profile{}, errors.NewBadRequest(fmt.Sprintf("unknown role %q", r), nil)
	}
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to load profiles: %w", err)
	}
	for _, p := range all {
		if p.Role == r {
			return p, nil
		}
	}
	return model.Profile{}, errors.NewNotFound(store.EntityProfile, nil)
}

// UpdateProfile merges req into the role's profile. Fields of the other role
// are ignored and the role itself never changes.
func (s *Service) UpdateProfile(ctx context.Context, r model.Role, req *model.UpdateProfileRequest) (model.Profile, error) {
	current, err := s.GetProfile(ctx, r)
	if err != nil {
		return model.Profile{}, err
	}
	if req.Name != nil && *req.Name == "" {
		return model.Profile{}, errors.NewBadRequest("name is required", nil)
	}
	return s.repo.Update(ctx, current.ID, func(p *model.Profile) {
		req.Apply(p)
		p.Role = r
	})
}
