package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/slot"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/cache"
)

type AvailabilityServiceImpl struct {
	slotRepo slot.Repository
	cache    *cache.Cache
	location *time.Location
	ttl      time.Duration
	logger   *slog.Logger
}

func NewAvailabilityService(logger *slog.Logger, slotRepo slot.Repository, c *cache.Cache, location *time.Location, ttl time.Duration) AvailabilityService {
	return &AvailabilityServiceImpl{
		slotRepo: slotRepo,
		cache:    c,
		location: location,
		ttl:      ttl,
		logger:   logger,
	}
}

// SummarizeYear fetches every slot of the year in one query and folds it into
// day summaries. Fetch errors are returned as they are, without retries.
func (s *AvailabilityServiceImpl) SummarizeYear(ctx context.Context, year int) (map[string]slot.DaySummary, error) {
	key := fmt.Sprintf("%s:%d", cacheKeyCalendar, year)
	return cache.GetOrLoad(ctx, s.cache, key, s.ttl, func(ctx context.Context) (map[string]slot.DaySummary, error) {
		from, to := slot.YearWindow(year, s.location)

		slots, err := s.slotRepo.ListWithBookings(ctx, from, to)
		if err != nil {
			return nil, err
		}

		days := slot.Summarize(slots, s.location)
		s.logger.Debug("Summarized calendar year", "year", year, "slots", len(slots), "days", len(days))
		return days, nil
	})
}
