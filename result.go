package yieldrisk

import "math"

// Result is the full output of one computation. Support, PMF and Profit are
// aligned: entry i describes aggregate outcome Support[i].
type Result struct {
	TrialCount int       `json:"trial_count"`
	Support    []int     `json:"support"`
	PMF        []float64 `json:"pmf"`
	Profit     []float64 `json:"profit"`

	ProbabilityOfProfit float64 `json:"probability_of_profit"`
	Summary             Summary `json:"summary"`

	// BreakEven is the smallest support value with positive profit, nil when
	// no outcome is profitable.
	BreakEven *int `json:"break_even,omitempty"`
}

// Validate validates the result data
func (r *Result) Validate() error {
	if r == nil {
		return newError(ErrInvalidArgument).WithDetails("nil result")
	}
	if err := ValidateTrialCount(r.TrialCount); err != nil {
		return err
	}
	if len(r.Support) == 0 {
		return newError(ErrInvalidArgument).WithDetails("empty support")
	}
	if len(r.PMF) != len(r.Support) || len(r.Profit) != len(r.Support) {
		return newError(ErrInvalidArgument).WithDetailsf("misaligned result: support=%d pmf=%d profit=%d",
			len(r.Support), len(r.PMF), len(r.Profit))
	}
	if mass := Mass(r.PMF); math.Abs(mass-1) > ProbabilityTolerance {
		return newError(ErrInvalidArgument).WithDetailsf("pmf mass is %g, want 1", mass)
	}
	if r.ProbabilityOfProfit < 0 || r.ProbabilityOfProfit > 1 {
		return newError(ErrInvalidArgument).WithDetailsf("probability of profit %g is outside [0, 1]", r.ProbabilityOfProfit)
	}
	return nil
}

// PercentOfProfit returns the probability of profit as a percentage
func (r *Result) PercentOfProfit() float64 {
	return r.ProbabilityOfProfit * 100.0
}

// Len returns the number of realizable aggregate outcomes.
func (r *Result) Len() int { return len(r.Support) }
