package contracts

import (
	"context"
	"time"
)

// Strategy generates aligned entry/exit signals from a price series
// ⭐ SSOT: 전략 시그널 계약은 여기서만 정의
// Strategies are registered implementations selected by name — never
// dynamically executed code.
type Strategy interface {
	// Name returns the unique registry key for this strategy
	Name() string

	// GenerateSignals maps a price series to entry/exit signal series of
	// identical length. Signals at index i may only use bars [0..i].
	GenerateSignals(prices *PriceSeries) (*SignalSeries, error)
}

// PriceProvider supplies daily price history for a ticker
// ⭐ SSOT: 가격 데이터 조회 인터페이스
// Caching and TTL policy live in the provider implementation, never in the
// simulation core.
type PriceProvider interface {
	History(ctx context.Context, ticker string, from, to time.Time) (*PriceSeries, error)
}
