package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/client"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/identity"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/cache"
)

type clientPage struct {
	profiles []*client.Profile
	total    int64
}

type ClientServiceImpl struct {
	clientRepo client.Repository
	cache      *cache.Cache
	ttl        time.Duration
}

func NewClientService(clientRepo client.Repository, c *cache.Cache, ttl time.Duration) ClientService {
	return &ClientServiceImpl{
		clientRepo: clientRepo,
		cache:      c,
		ttl:        ttl,
	}
}

// GetClient is admin only; returns client.ErrClientNotFound if the profile doesn't exist
func (s *ClientServiceImpl) GetClient(ctx context.Context, id uuid.UUID) (*client.Profile, error) {
	if _, err := identity.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.profile(ctx, id)
}

func (s *ClientServiceImpl) ListClients(ctx context.Context, page, perPage int) ([]*client.Profile, int64, error) {
	if _, err := identity.RequireAdmin(ctx); err != nil {
		return nil, 0, err
	}

	result, err := cache.GetOrLoad(ctx, s.cache, pageKey(cacheKeyClients, page, perPage), s.ttl, func(ctx context.Context) (clientPage, error) {
		profiles, err := s.clientRepo.List(ctx, perPage, (page-1)*perPage)
		if err != nil {
			return clientPage{}, err
		}
		total, err := s.clientRepo.Count(ctx)
		if err != nil {
			return clientPage{}, err
		}
		return clientPage{profiles: profiles, total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return result.profiles, result.total, nil
}

func (s *ClientServiceImpl) GetMyProfile(ctx context.Context) (*client.Profile, error) {
	actor, err := identity.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, actor.UserID)
}

func (s *ClientServiceImpl) profile(ctx context.Context, id uuid.UUID) (*client.Profile, error) {
	return cache.GetOrLoad(ctx, s.cache, profileKey(id), s.ttl, func(ctx context.Context) (*client.Profile, error) {
		return s.clientRepo.GetByID(ctx, id)
	})
}
