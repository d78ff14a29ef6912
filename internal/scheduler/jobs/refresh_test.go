package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/edgelab/internal/contracts"
	"github.com/wonny/edgelab/pkg/logger"
	"github.com/wonny/edgelab/pkg/redis"
)

// mapProvider serves canned series, with optional per-ticker failures
type mapProvider struct {
	series map[string]*contracts.PriceSeries
	calls  []string
}

func (m *mapProvider) History(_ context.Context, ticker string, _, _ time.Time) (*contracts.PriceSeries, error) {
	m.calls = append(m.calls, ticker)
	s, ok := m.series[ticker]
	if !ok {
		return nil, errors.New("fetch failed")
	}
	return s, nil
}

func bars(ticker string) *contracts.PriceSeries {
	return &contracts.PriceSeries{
		Ticker: ticker,
		Bars: []contracts.PriceBar{
			{Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 100},
		},
	}
}

func TestPriceRefreshJob_PartialFailure(t *testing.T) {
	provider := &mapProvider{series: map[string]*contracts.PriceSeries{
		"SPY":  bars("SPY"),
		"AAPL": bars("AAPL"),
	}}
	cache := redis.NewCache(redis.Disabled(), "edgelab")

	job := NewPriceRefreshJob(provider, nil, cache, []string{"SPY", "AAPL", "GONE"}, 1, logger.NewNop())

	// 일부 실패는 작업 전체를 실패시키지 않음
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []string{"SPY", "AAPL", "GONE"}, provider.calls)
}

func TestPriceRefreshJob_AllFailed(t *testing.T) {
	provider := &mapProvider{series: map[string]*contracts.PriceSeries{}}
	cache := redis.NewCache(redis.Disabled(), "edgelab")

	job := NewPriceRefreshJob(provider, nil, cache, []string{"A", "B"}, 1, logger.NewNop())
	assert.Error(t, job.Run(context.Background()))
}

func TestPriceRefreshJob_Schedule(t *testing.T) {
	job := NewPriceRefreshJob(&mapProvider{}, nil, redis.NewCache(redis.Disabled(), "edgelab"),
		nil, 0, logger.NewNop())

	assert.Equal(t, "price_refresh", job.Name())
	assert.NotEmpty(t, job.Schedule())
	assert.Equal(t, 1, job.years) // 0은 최소 1년으로 보정
}
