package marketdata

import (
	"context"
	"time"

	"github.com/wonny/edgelab/internal/contracts"
	"github.com/wonny/edgelab/pkg/logger"
	"github.com/wonny/edgelab/pkg/redis"
)

// CachedProvider wraps a PriceProvider with a redis TTL cache.
// 일봉은 장 마감 후 불변이므로 24h TTL로 충분
// ⭐ SSOT: 가격 캐시 정책은 여기서만 — 시뮬레이션 코어는 캐시를 모름
type CachedProvider struct {
	upstream contracts.PriceProvider
	cache    *redis.Cache
	ttl      time.Duration
	logger   *logger.Logger
}

// NewCachedProvider wraps upstream with a TTL cache
func NewCachedProvider(upstream contracts.PriceProvider, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = redis.TTLDaily
	}
	return &CachedProvider{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
		logger:   log,
	}
}

// History serves from cache when possible, falling through to upstream.
// 캐시 오류는 미스로 취급 — 데이터 경로는 항상 살아 있음.
func (p *CachedProvider) History(ctx context.Context, ticker string, from, to time.Time) (*contracts.PriceSeries, error) {
	key := redis.PriceSeriesKey(ticker, from, to)

	var cached contracts.PriceSeries
	found, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).Warn("Price cache read failed")
	}
	if found && cached.Len() > 0 {
		p.logger.WithField("ticker", ticker).Debug("Price cache hit")
		return &cached, nil
	}

	series, err := p.upstream.History(ctx, ticker, from, to)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, series, p.ttl); err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).Warn("Price cache write failed")
	}
	return series, nil
}
