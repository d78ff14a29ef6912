package builtins

import (
	"github.com/wonny/edgelab/internal/strategy"
)

// RegisterAll registers the built-in strategies with their default
// parameters. 기본 파라미터: SMA 20/50, RSI 14/30/70.
func RegisterAll(r *strategy.Registry) error {
	smaCross, err := NewSMACross(20, 50)
	if err != nil {
		return err
	}
	rsi, err := NewRSIReversal(14, 30, 70)
	if err != nil {
		return err
	}

	if err := r.Register(NewBuyHold()); err != nil {
		return err
	}
	if err := r.Register(smaCross); err != nil {
		return err
	}
	return r.Register(rsi)
}
