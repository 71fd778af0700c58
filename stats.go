package yieldrisk

import "math"

// Summary holds the boundary and central-tendency statistics of a profit distribution.
type Summary struct {
	Min float64 `json:"min"` // Smallest profit on the support
	Max float64 `json:"max"` // Largest profit on the support

	// Expected is the probability-weighted average profit.
	Expected float64 `json:"expected"`
	// StdDev is the probability-weighted standard deviation of profit.
	StdDev float64 `json:"std_dev"`
	// Median is the smallest profit whose cumulative mass reaches one half.
	Median float64 `json:"median"`

	// SupportMean is the unweighted mean of the profit support values. It
	// ignores probabilities and is kept only as a diagnostic.
	SupportMean float64 `json:"support_mean"`
}

// Summarize computes Summary over an aligned profit/pmf pair.
func Summarize(profit, pmf []float64) (Summary, error) {
	if len(profit) == 0 {
		return Summary{}, newError(ErrInvalidArgument).WithDetails("profit distribution is empty")
	}
	if len(profit) != len(pmf) {
		return Summary{}, newError(ErrInvalidArgument).
			WithDetailsf("profit has %d entries but pmf has %d", len(profit), len(pmf))
	}

	s := Summary{Min: profit[0], Max: profit[0]}

	weighted := make([]float64, len(profit))
	var plain float64
	for i, f := range profit {
		s.Min = math.Min(s.Min, f)
		s.Max = math.Max(s.Max, f)
		weighted[i] = pmf[i] * f
		plain += f
	}
	s.Expected = Mass(weighted)
	s.SupportMean = plain / float64(len(profit))

	for i, f := range profit {
		d := f - s.Expected
		weighted[i] = pmf[i] * d * d
	}
	s.StdDev = math.Sqrt(math.Max(Mass(weighted), 0))

	s.Median = profit[len(profit)-1]
	var cumulative float64
	for i, p := range pmf {
		cumulative += p
		if cumulative >= 0.5-ProbabilityTolerance {
			s.Median = profit[i]
			break
		}
	}

	return s, nil
}
