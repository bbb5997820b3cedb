package service

import (
	"context"
	"time"

	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/ledger"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/identity"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/cache"
)

type StatsServiceImpl struct {
	ledgerRepo ledger.Repository
	cache      *cache.Cache
	ttl        time.Duration
}

func NewStatsService(ledgerRepo ledger.Repository, c *cache.Cache, ttl time.Duration) StatsService {
	return &StatsServiceImpl{ledgerRepo: ledgerRepo, cache: c, ttl: ttl}
}

func (s *StatsServiceImpl) FinancialStats(ctx context.Context) (*ledger.FinancialStats, error) {
	if _, err := identity.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return cache.GetOrLoad(ctx, s.cache, cacheKeyFinancialStats, s.ttl, s.ledgerRepo.FinancialStats)
}
