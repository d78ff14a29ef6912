package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/edgelab/internal/contracts"
	"github.com/wonny/edgelab/internal/marketdata"
	"github.com/wonny/edgelab/pkg/logger"
	"github.com/wonny/edgelab/pkg/redis"
)

// PriceRefreshJob refetches daily bars for the benchmark and watchlist
// tickers after the close, repopulating the cache and the local store.
// ⭐ SSOT: 가격 데이터 갱신 배치는 여기서만
type PriceRefreshJob struct {
	source  contracts.PriceProvider // 캐시를 거치지 않는 원본 클라이언트
	repo    *marketdata.Repository  // nil이면 DB 저장 생략
	cache   *redis.Cache
	logger  *logger.Logger
	tickers []string
	years   int
}

// NewPriceRefreshJob creates the refresh job. tickers should include the
// benchmark ticker so comparisons never hit a cold cache.
func NewPriceRefreshJob(
	source contracts.PriceProvider,
	repo *marketdata.Repository,
	cache *redis.Cache,
	tickers []string,
	years int,
	log *logger.Logger,
) *PriceRefreshJob {
	if years < 1 {
		years = 1
	}
	return &PriceRefreshJob{
		source:  source,
		repo:    repo,
		cache:   cache,
		logger:  log,
		tickers: tickers,
		years:   years,
	}
}

// Name returns the job name
func (j *PriceRefreshJob) Name() string { return "price_refresh" }

// Schedule runs after the US close, weekdays (UTC 기준 21:30)
func (j *PriceRefreshJob) Schedule() string { return "0 30 21 * * 1-5" }

// Run refreshes every ticker, continuing past individual failures
func (j *PriceRefreshJob) Run(ctx context.Context) error {
	to := time.Now()
	from := to.AddDate(-j.years, 0, 0)

	var failed int
	for _, ticker := range j.tickers {
		if err := j.refresh(ctx, ticker, from, to); err != nil {
			failed++
			j.logger.WithError(err).WithField("ticker", ticker).Warn("Price refresh failed")
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"tickers": len(j.tickers),
		"failed":  failed,
	}).Info("Price refresh finished")

	if failed == len(j.tickers) && len(j.tickers) > 0 {
		return fmt.Errorf("price refresh failed for all %d tickers", failed)
	}
	return nil
}

func (j *PriceRefreshJob) refresh(ctx context.Context, ticker string, from, to time.Time) error {
	series, err := j.source.History(ctx, ticker, from, to)
	if err != nil {
		return err
	}

	if j.repo != nil {
		if err := j.repo.SaveBars(ctx, series); err != nil {
			return err
		}
	}

	key := redis.PriceSeriesKey(ticker, from, to)
	if err := j.cache.Set(ctx, key, series, redis.TTLDaily); err != nil {
		j.logger.WithError(err).WithField("ticker", ticker).Warn("Price cache write failed")
	}
	return nil
}
