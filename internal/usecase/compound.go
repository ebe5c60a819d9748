package usecase

// Compounding parameters: 1% of capital is staked per signal and the
// stake returns 88% profit on a win.
const (
	StakeRate  = 0.01
	ReturnRate = 0.88
)

// TradeResult is the outcome of applying one compounding round.
type TradeResult struct {
	Stake      float64
	Profit     float64
	NewCapital float64
}

// Compound applies one compounding round to the given capital.
// Non-positive capital produces no stake and leaves capital unchanged.
func Compound(capital float64) TradeResult {
	if capital <= 0 {
		return TradeResult{NewCapital: capital}
	}
	stake := capital * StakeRate
	profit := stake * ReturnRate
	return TradeResult{
		Stake:      stake,
		Profit:     profit,
		NewCapital: capital + profit,
	}
}

// CompoundN chains n rounds, each staking from the previous round's result.
func CompoundN(capital float64, n int) []TradeResult {
	results := make([]TradeResult, 0, n)
	for i := 0; i < n; i++ {
		r := Compound(capital)
		results = append(results, r)
		capital = r.NewCapital
	}
	return results
}
