package contracts

import "errors"

// Error taxonomy for simulation and analysis.
// 윈도우/티커 단위 오류는 배치를 중단시키지 않고 태그된 결과로 수집된다.
var (
	// ErrDataUnavailable indicates a missing or empty price series from the
	// data provider. Recoverable per window.
	ErrDataUnavailable = errors.New("price data unavailable")

	// ErrSignalAlignment indicates a signal/price length or index mismatch.
	ErrSignalAlignment = errors.New("signal series not aligned with price series")

	// ErrSimulation indicates malformed numeric input such as non-positive
	// prices or broken bar ordering.
	ErrSimulation = errors.New("simulation input invalid")

	// ErrInsufficientOverlap indicates fewer than the minimum aligned points
	// for a benchmark comparison. Degrades to neutral alpha/beta, never fatal.
	ErrInsufficientOverlap = errors.New("insufficient benchmark overlap")

	// ErrStrategyContract indicates a strategy whose output does not satisfy
	// the boolean-series contract. Fatal for the run.
	ErrStrategyContract = errors.New("strategy violated signal contract")
)
