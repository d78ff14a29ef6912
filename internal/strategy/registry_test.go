package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/edgelab/internal/contracts"
)

type stubStrategy string

func (s stubStrategy) Name() string { return string(s) }

func (s stubStrategy) GenerateSignals(prices *contracts.PriceSeries) (*contracts.SignalSeries, error) {
	n := prices.Len()
	return &contracts.SignalSeries{
		Entries: make([]bool, n),
		Exits:   make([]bool, n),
	}, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubStrategy("alpha")))

	got, err := r.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name())
}

func TestRegistry_UnknownName(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("missing")
	assert.ErrorIs(t, err, contracts.ErrStrategyContract)
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubStrategy("alpha")))
	assert.ErrorIs(t, r.Register(stubStrategy("alpha")), contracts.ErrStrategyContract)
}

func TestRegistry_EmptyNameRejected(t *testing.T) {
	r := NewRegistry()
	assert.ErrorIs(t, r.Register(stubStrategy("")), contracts.ErrStrategyContract)
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubStrategy("zeta")))
	require.NoError(t, r.Register(stubStrategy("alpha")))
	require.NoError(t, r.Register(stubStrategy("mid")))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
}
