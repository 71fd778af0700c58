package yieldrisk

import "fmt"

// Request bundles every parameter of one computation. Build it with
// NewRequest so that all validation happens before any convolution work.
type Request struct {
	TrialCount int                 `json:"trial_count"`
	Model      OutcomeModel        `json:"-"`
	Cost       CostModel           `json:"cost"`
	Strategy   ConvolutionStrategy `json:"strategy"`
}

// NewRequest validates and assembles a request.
func NewRequest(n int, model OutcomeModel, cost CostModel, strategy ConvolutionStrategy) (Request, error) {
	req := Request{
		TrialCount: n,
		Model:      model,
		Cost:       cost,
		Strategy:   strategy,
	}
	if req.Strategy == "" {
		req.Strategy = StrategyIterative
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// DefaultRequest returns a request for n gift trees at the default prices.
func DefaultRequest(n int) (Request, error) {
	return NewRequest(n, DefaultOutcomeModel(), DefaultCostModel(), StrategyIterative)
}

// Validate checks every parameter, including that the aggregated support fits.
func (r Request) Validate() error {
	if err := ValidateTrialCount(r.TrialCount); err != nil {
		return err
	}
	if err := r.Model.Validate(); err != nil {
		return err
	}
	if err := r.Cost.Validate(); err != nil {
		return err
	}
	if _, err := ParseConvolutionStrategy(string(r.Strategy)); err != nil {
		return err
	}
	if _, err := AggregatedSize(r.Model.Max()+1, r.TrialCount); err != nil {
		return err
	}
	return nil
}

// String 返回请求的简要描述
func (r Request) String() string {
	return fmt.Sprintf("n=%d outcomes=%v cost=%.0f revenue=%.0f strategy=%s",
		r.TrialCount, r.Model.Values(), r.Cost.CostPerTrial, r.Cost.UnitRevenue, r.Strategy)
}
