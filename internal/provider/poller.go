package provider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Baev1/okto/internal/cache"
	"github.com/Baev1/okto/internal/domain"
)

// Fetcher is the slice of Client the poller needs; swapped in tests.
type Fetcher interface {
	FetchUpcoming(ctx context.Context) ([]domain.LaunchInfo, error)
}

// Poller refreshes the launch cache from the provider. A failed poll leaves
// the previous snapshot in place.
type Poller struct {
	fetcher Fetcher
	cache   *cache.LaunchCache
	log     *zap.Logger
	timeout time.Duration
}

func NewPoller(fetcher Fetcher, c *cache.LaunchCache, log *zap.Logger) *Poller {
	return &Poller{
		fetcher: fetcher,
		cache:   c,
		log:     log,
		timeout: 45 * time.Second,
	}
}

// PollOnce fetches, transforms and atomically replaces the cache contents.
func (p *Poller) PollOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.fetcher.FetchUpcoming(ctx)
	if err != nil {
		p.log.Warn("launch poll failed, keeping previous snapshot", zap.Error(err))
		return
	}

	launches := make([]domain.LaunchRecord, 0, len(raw))
	for _, info := range raw {
		launches = append(launches, info.ToLaunchRecord())
	}
	p.cache.Replace(launches)

	p.log.Info("launch cache refreshed", zap.Int("launches", len(launches)))
}
