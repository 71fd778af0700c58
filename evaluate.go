package yieldrisk

// ProbabilityOfProfit sums the mass of every outcome whose profit is strictly
// positive. Break-even does not count as profit.
func ProbabilityOfProfit(pmf, profit []float64) (float64, error) {
	if len(pmf) != len(profit) {
		return 0, newError(ErrInvalidArgument).
			WithDetailsf("pmf has %d entries but profit has %d", len(pmf), len(profit))
	}

	profitable := make([]float64, 0, len(pmf))
	for i, f := range profit {
		if f > 0 {
			profitable = append(profitable, pmf[i])
		}
	}

	return clamp01(Mass(profitable)), nil
}

// BreakEven returns the smallest support value with a strictly positive profit.
// The second result is false when no outcome is profitable.
func BreakEven(support []int, profit []float64) (int, bool) {
	for i, f := range profit {
		if i >= len(support) {
			break
		}
		if f > 0 {
			return support[i], true
		}
	}
	return 0, false
}

func clamp01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
