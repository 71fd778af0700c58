package yieldrisk

import (
	"cmp"
	"math"
	"slices"
)

// Outcome is one possible result of a single trial and its probability.
type Outcome struct {
	Value       int     `json:"value"`       // Outcome value (e.g. fruit count)
	Probability float64 `json:"probability"` // Probability of this value (0-1)
}

// Validate validates a single outcome
func (o Outcome) Validate() error {
	if o.Value < 0 {
		return newError(ErrInvalidModel).WithDetailsf("outcome value %d is negative", o.Value)
	}
	if math.IsNaN(o.Probability) || math.IsInf(o.Probability, 0) {
		return newError(ErrInvalidModel).WithDetailsf("probability of value %d is not finite", o.Value)
	}
	if o.Probability < 0 || o.Probability > 1 {
		return newError(ErrInvalidModel).WithDetailsf("probability %g of value %d is outside [0, 1]", o.Probability, o.Value)
	}
	return nil
}

// OutcomeModel is the immutable description of one trial: distinct non-negative
// values, sorted ascending, whose probabilities sum to 1.
type OutcomeModel struct {
	outcomes []Outcome
}

// NewOutcomeModel builds a model from parallel value and probability slices.
func NewOutcomeModel(values []int, probabilities []float64) (OutcomeModel, error) {
	if len(values) == 0 {
		return OutcomeModel{}, newError(ErrInvalidModel).WithDetails("outcome set is empty")
	}
	if len(values) != len(probabilities) {
		return OutcomeModel{}, newError(ErrInvalidModel).
			WithDetailsf("%d values but %d probabilities", len(values), len(probabilities))
	}

	outcomes := make([]Outcome, len(values))
	for i, v := range values {
		outcomes[i] = Outcome{Value: v, Probability: probabilities[i]}
	}
	return NewOutcomeModelFromOutcomes(outcomes)
}

// NewOutcomeModelFromOutcomes builds a model from a list of outcomes.
func NewOutcomeModelFromOutcomes(outcomes []Outcome) (OutcomeModel, error) {
	if len(outcomes) == 0 {
		return OutcomeModel{}, newError(ErrInvalidModel).WithDetails("outcome set is empty")
	}

	sorted := slices.Clone(outcomes)
	slices.SortFunc(sorted, func(a, b Outcome) int { return cmp.Compare(a.Value, b.Value) })

	var total float64
	for i, o := range sorted {
		if err := o.Validate(); err != nil {
			return OutcomeModel{}, err
		}
		if i > 0 && sorted[i-1].Value == o.Value {
			return OutcomeModel{}, newError(ErrInvalidModel).WithDetailsf("duplicate outcome value %d", o.Value)
		}
		total += o.Probability
	}

	// Check if probabilities sum to approximately 1.0 (within tolerance)
	if math.Abs(total-1.0) > ProbabilityTolerance {
		return OutcomeModel{}, newError(ErrInvalidModel).
			WithDetailsf("probabilities sum to %g, want 1", total).
			WithMetadata("probability_sum", total)
	}

	return OutcomeModel{outcomes: sorted}, nil
}

// UniformOutcomeModel gives every value the same probability.
func UniformOutcomeModel(values ...int) (OutcomeModel, error) {
	if len(values) == 0 {
		return OutcomeModel{}, newError(ErrInvalidModel).WithDetails("outcome set is empty")
	}
	probabilities := make([]float64, len(values))
	for i := range probabilities {
		probabilities[i] = 1.0 / float64(len(values))
	}
	return NewOutcomeModel(values, probabilities)
}

// DefaultOutcomeModel is the gift tree model: 2, 3, 4 or 5 fruit, each with probability 0.25.
func DefaultOutcomeModel() OutcomeModel {
	m, err := UniformOutcomeModel(DefaultOutcomeValues...)
	if err != nil {
		panic(err)
	}
	return m
}

// Outcomes returns a copy of the outcomes sorted by value.
func (m OutcomeModel) Outcomes() []Outcome { return slices.Clone(m.outcomes) }

// Values returns the outcome values in ascending order.
func (m OutcomeModel) Values() []int {
	values := make([]int, len(m.outcomes))
	for i, o := range m.outcomes {
		values[i] = o.Value
	}
	return values
}

// Probabilities returns the probabilities aligned with Values.
func (m OutcomeModel) Probabilities() []float64 {
	probs := make([]float64, len(m.outcomes))
	for i, o := range m.outcomes {
		probs[i] = o.Probability
	}
	return probs
}

// Len returns the number of distinct outcomes.
func (m OutcomeModel) Len() int { return len(m.outcomes) }

// IsZero reports whether the model was never constructed.
func (m OutcomeModel) IsZero() bool { return len(m.outcomes) == 0 }

// Min returns the smallest outcome value.
func (m OutcomeModel) Min() int {
	if m.IsZero() {
		return 0
	}
	return m.outcomes[0].Value
}

// Max returns the largest outcome value.
func (m OutcomeModel) Max() int {
	if m.IsZero() {
		return 0
	}
	return m.outcomes[len(m.outcomes)-1].Value
}

// Mean returns the expected value of a single trial.
func (m OutcomeModel) Mean() float64 {
	var mean float64
	for _, o := range m.outcomes {
		mean += float64(o.Value) * o.Probability
	}
	return mean
}

// Validate re-checks a model, rejecting the zero value.
func (m OutcomeModel) Validate() error {
	if m.IsZero() {
		return newError(ErrInvalidModel).WithDetails("outcome set is empty")
	}
	_, err := NewOutcomeModelFromOutcomes(m.outcomes)
	return err
}
