package builtins

import (
	"github.com/wonny/edgelab/internal/contracts"
)

// BuyHold enters on the first bar and exits on the last.
// 벤치마크 대조용 기준 전략
type BuyHold struct{}

// NewBuyHold creates a buy-and-hold strategy
func NewBuyHold() *BuyHold {
	return &BuyHold{}
}

// Name returns the registry key
func (b *BuyHold) Name() string { return "buy_hold" }

// GenerateSignals enters at bar 0 and exits at the final bar so the round
// trip lands in the ledger with full fee accounting.
func (b *BuyHold) GenerateSignals(prices *contracts.PriceSeries) (*contracts.SignalSeries, error) {
	n := prices.Len()
	signals := &contracts.SignalSeries{
		Entries: make([]bool, n),
		Exits:   make([]bool, n),
	}
	if n > 1 {
		signals.Entries[0] = true
		signals.Exits[n-1] = true
	}
	return signals, nil
}
