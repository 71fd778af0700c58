package yieldrisk

import (
	"context"
	"math"
	"sort"
)

// Simulator draws trial outcomes from an OutcomeModel by inverting its
// cumulative distribution.
type Simulator struct {
	generator  FloatGenerator
	values     []int
	cumulative []float64
}

// NewSimulator creates a simulator for model using generator
func NewSimulator(model OutcomeModel, generator FloatGenerator) (*Simulator, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	if generator == nil {
		return nil, newError(ErrInvalidArgument).WithDetails("nil random generator")
	}

	values := model.Values()
	cumulative := make([]float64, len(values))
	var sum float64
	for i, p := range model.Probabilities() {
		sum += p
		cumulative[i] = sum
	}
	// Ensure the last cumulative probability is exactly 1.0 to handle floating point precision
	cumulative[len(cumulative)-1] = 1.0

	return &Simulator{
		generator:  generator,
		values:     values,
		cumulative: cumulative,
	}, nil
}

// DrawTrial draws one trial outcome
func (s *Simulator) DrawTrial() (int, error) {
	u, err := s.generator.GenerateFloat()
	if err != nil {
		return 0, err
	}
	i := sort.Search(len(s.cumulative), func(i int) bool { return s.cumulative[i] > u })
	if i >= len(s.values) {
		i = len(s.values) - 1
	}
	return s.values[i], nil
}

// DrawAggregate draws n trials and returns their sum
func (s *Simulator) DrawAggregate(n int) (int, error) {
	total := 0
	for range n {
		v, err := s.DrawTrial()
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// SimulationResult is the empirical estimate from a Monte Carlo run
type SimulationResult struct {
	Sequences     int     `json:"sequences"`      // Simulated trial sequences
	Profitable    int     `json:"profitable"`     // Sequences with positive profit
	Probability   float64 `json:"probability"`    // Profitable / Sequences
	StandardError float64 `json:"standard_error"` // sqrt(p(1-p)/m) at the empirical p
	MeanProfit    float64 `json:"mean_profit"`    // Average simulated profit
}

// Within reports whether the empirical probability lies within k standard
// errors of expected, using the standard error implied by expected.
func (r *SimulationResult) Within(expected, k float64) bool {
	if r.Sequences == 0 {
		return false
	}
	se := math.Sqrt(expected * (1 - expected) / float64(r.Sequences))
	if se == 0 {
		return r.Probability == expected
	}
	return math.Abs(r.Probability-expected) <= k*se
}

// Simulate estimates the probability of profit for req by drawing sequences
// independent runs of req.TrialCount trials. It checks ctx between batches.
func Simulate(ctx context.Context, req Request, sequences int, generator FloatGenerator) (*SimulationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if sequences < 1 {
		return nil, newError(ErrInvalidArgument).WithDetailsf("sequence count %d must be at least 1", sequences)
	}

	sim, err := NewSimulator(req.Model, generator)
	if err != nil {
		return nil, err
	}

	totalCost := req.Cost.TotalCost(req.TrialCount)
	profitable := 0
	var profitSum float64

	for i := range sequences {
		if i%simulationBatchSize == 0 {
			if err := ctx.Err(); err != nil {
				return nil, newError(ErrSimulationCancelled).
					WithDetailsf("stopped after %d of %d sequences", i, sequences).
					WithCause(err)
			}
		}

		total, err := sim.DrawAggregate(req.TrialCount)
		if err != nil {
			return nil, newError(ErrSystemError).WithDetails("random generator failed").WithCause(err)
		}

		profit := req.Cost.Revenue(total) - totalCost
		profitSum += profit
		if profit > 0 {
			profitable++
		}
	}

	p := float64(profitable) / float64(sequences)
	return &SimulationResult{
		Sequences:     sequences,
		Profitable:    profitable,
		Probability:   p,
		StandardError: math.Sqrt(p * (1 - p) / float64(sequences)),
		MeanProfit:    profitSum / float64(sequences),
	}, nil
}
