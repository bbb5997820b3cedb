package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/ledger"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/shared"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/identity"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/cache"
)

type transactionPage struct {
	transactions []*ledger.Transaction
	total        int64
}

type TransactionServiceImpl struct {
	ledgerRepo ledger.Repository
	cache      *cache.Cache
	ttl        time.Duration
}

func NewTransactionService(ledgerRepo ledger.Repository, c *cache.Cache, ttl time.Duration) TransactionService {
	return &TransactionServiceImpl{
		ledgerRepo: ledgerRepo,
		cache:      c,
		ttl:        ttl,
	}
}

// ListClientTransactions lets clients read their own history and admins read anyone's
func (s *TransactionServiceImpl) ListClientTransactions(ctx context.Context, clientID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error) {
	actor, err := identity.FromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !actor.IsAdmin() && actor.UserID != clientID {
		return nil, 0, shared.ErrForbidden
	}

	key := pageKey(transactionsKey(clientID), page, perPage)
	result, err := cache.GetOrLoad(ctx, s.cache, key, s.ttl, func(ctx context.Context) (transactionPage, error) {
		transactions, err := s.ledgerRepo.ListByClient(ctx, clientID, perPage, (page-1)*perPage)
		if err != nil {
			return transactionPage{}, err
		}
		total, err := s.ledgerRepo.CountByClient(ctx, clientID)
		if err != nil {
			return transactionPage{}, err
		}
		return transactionPage{transactions: transactions, total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return result.transactions, result.total, nil
}
