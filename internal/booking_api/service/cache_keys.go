package service

import (
	"fmt"

	"github.com/google/uuid"
)

// Cache key families invalidated after writes
const (
	cacheKeyCalendar       = "calendar"
	cacheKeyClients        = "clients"
	cacheKeyFinancialStats = "financial_stats"
)

func profileKey(id uuid.UUID) string {
	return "profile:" + id.String()
}

func transactionsKey(id uuid.UUID) string {
	return "transactions:" + id.String()
}

func pageKey(family string, page, perPage int) string {
	return fmt.Sprintf("%s:%d:%d", family, page, perPage)
}
