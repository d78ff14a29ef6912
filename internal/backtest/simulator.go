package backtest

import (
	"fmt"
	"math"

	"github.com/wonny/edgelab/internal/contracts"
)

// Simulator converts entry/exit signals into a trade ledger and equity curve
// ⭐ SSOT: 백테스팅 시뮬레이션은 여기서만
// Long/flat 단일 포지션, 전액 투입 모델. 내부 상태 없음 — 호출마다 독립 실행.
type Simulator struct{}

// NewSimulator creates a new portfolio simulator
func NewSimulator() *Simulator {
	return &Simulator{}
}

// position is the transient LONG state during a walk
type position struct {
	entryIndex int
	entryPrice float64 // slippage-adjusted execution price
	quantity   float64
	notional   float64 // quantity * entryPrice (= cash at entry)
	entryFee   float64
}

// Simulate walks the price series bar by bar through a {FLAT, LONG} state
// machine and returns the closed-trade ledger plus the per-bar equity curve.
//
// Execution model:
//   - buy at close*(1+slippage), sell at close*(1-slippage)
//   - fee = feeRate * notional, charged on both legs
//   - quantity = all available cash / entry price (no pyramiding, no margin)
//   - 같은 바에 enter/exit 동시 발생: FLAT이면 enter 우선, LONG이면 exit
//     우선이며 같은 바 재진입 없음
//   - 마지막 바에 열려 있는 포지션은 평가손익만 반영, 원장에는 기록하지 않음
func (s *Simulator) Simulate(
	prices *contracts.PriceSeries,
	signals *contracts.SignalSeries,
	initialCapital, feeRate, slippageRate float64,
) (contracts.TradeLedger, contracts.EquityCurve, error) {
	if err := prices.Validate(); err != nil {
		return nil, nil, err
	}
	if err := signals.Validate(prices.Len()); err != nil {
		return nil, nil, err
	}
	if initialCapital <= 0 || math.IsNaN(initialCapital) {
		return nil, nil, fmt.Errorf("%w: initial capital must be positive, got %f",
			contracts.ErrSimulation, initialCapital)
	}
	if feeRate < 0 || slippageRate < 0 {
		return nil, nil, fmt.Errorf("%w: fee and slippage rates must be non-negative",
			contracts.ErrSimulation)
	}

	ledger := make(contracts.TradeLedger, 0)
	equity := make(contracts.EquityCurve, 0, prices.Len())

	cash := initialCapital
	var pos *position

	for i, bar := range prices.Bars {
		if pos == nil {
			// FLAT: enter가 우선, exit는 no-op
			if signals.Entries[i] {
				buyPrice := bar.Close * (1.0 + slippageRate)
				notional := cash
				pos = &position{
					entryIndex: i,
					entryPrice: buyPrice,
					quantity:   cash / buyPrice,
					notional:   notional,
					entryFee:   notional * feeRate,
				}
				cash = 0
			}
		} else if signals.Exits[i] {
			// LONG: exit가 우선, 같은 바 재진입 없음
			sellPrice := bar.Close * (1.0 - slippageRate)
			exitNotional := pos.quantity * sellPrice
			exitFee := exitNotional * feeRate

			grossPnL := exitNotional - pos.notional
			fees := pos.entryFee + exitFee

			entryBar := prices.Bars[pos.entryIndex]
			ledger = append(ledger, contracts.Trade{
				EntryDate:  entryBar.Timestamp,
				ExitDate:   bar.Timestamp,
				EntryPrice: pos.entryPrice,
				ExitPrice:  sellPrice,
				Quantity:   pos.quantity,
				GrossPnL:   grossPnL,
				FeesPaid:   fees,
				NetPnL:     grossPnL - fees,
				Duration:   bar.Timestamp.Sub(entryBar.Timestamp),
			})

			cash = exitNotional - fees
			pos = nil
		}

		// Mark to market: LONG이면 종가 평가 − 진입 수수료, FLAT이면 현금
		value := cash
		if pos != nil {
			value = pos.quantity*bar.Close - pos.entryFee
		}
		equity = append(equity, contracts.EquityPoint{
			Date:  bar.Timestamp,
			Value: value,
		})
	}

	return ledger, equity, nil
}
