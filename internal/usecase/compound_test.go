package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompound(t *testing.T) {
	r := Compound(1000)

	require.InDelta(t, 10.0, r.Stake, 1e-9)
	require.InDelta(t, 8.8, r.Profit, 1e-9)
	require.InDelta(t, 1008.8, r.NewCapital, 1e-9)
}

func TestCompoundProfitProportion(t *testing.T) {
	for _, capital := range []float64{0.01, 1, 250, 1000, 98765.43} {
		r := Compound(capital)
		require.InDelta(t, capital*StakeRate*ReturnRate, r.Profit, 1e-9)
		require.InDelta(t, capital+r.Profit, r.NewCapital, 1e-9)
	}
}

func TestCompoundNonPositiveCapital(t *testing.T) {
	for _, capital := range []float64{0, -1, -1000} {
		r := Compound(capital)
		require.Zero(t, r.Stake)
		require.Zero(t, r.Profit)
		require.Equal(t, capital, r.NewCapital)
	}
}

func TestCompoundN(t *testing.T) {
	results := CompoundN(1000, 2)
	require.Len(t, results, 2)

	require.InDelta(t, 1008.8, results[0].NewCapital, 1e-9)
	require.InDelta(t, 10.088, results[1].Stake, 1e-9)
	require.InDelta(t, 8.87744, results[1].Profit, 1e-9)
	require.InDelta(t, 1017.67744, results[1].NewCapital, 1e-9)
}

func TestCompoundNChains(t *testing.T) {
	results := CompoundN(5000, 3)
	capital := 5000.0
	for i, r := range results {
		want := Compound(capital)
		require.Equal(t, want, r, "round %d", i+1)
		capital = want.NewCapital
	}
}
