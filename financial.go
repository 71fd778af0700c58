package yieldrisk

import "math"

// CostModel is the linear revenue/cost model applied to an aggregate outcome.
type CostModel struct {
	CostPerTrial float64 `json:"cost_per_trial"` // Cost paid for every trial
	UnitRevenue  float64 `json:"unit_revenue"`   // Revenue per unit of aggregate outcome
}

// DefaultCostModel returns the gift tree prices: 1,900,000 per seed, 700,000 per fruit.
func DefaultCostModel() CostModel {
	return CostModel{
		CostPerTrial: DefaultCostPerTrial,
		UnitRevenue:  DefaultUnitRevenue,
	}
}

// CostPresets returns one cost model per seed price preset, all sharing the default unit revenue.
func CostPresets() []CostModel {
	presets := make([]CostModel, len(DefaultCostPresets))
	for i, c := range DefaultCostPresets {
		presets[i] = CostModel{CostPerTrial: c, UnitRevenue: DefaultUnitRevenue}
	}
	return presets
}

// Validate rejects non-finite or negative prices
func (c CostModel) Validate() error {
	if !isFinite(c.CostPerTrial) || c.CostPerTrial < 0 {
		return newError(ErrInvalidArgument).WithDetailsf("cost per trial %g must be finite and non-negative", c.CostPerTrial)
	}
	if !isFinite(c.UnitRevenue) || c.UnitRevenue < 0 {
		return newError(ErrInvalidArgument).WithDetailsf("unit revenue %g must be finite and non-negative", c.UnitRevenue)
	}
	return nil
}

// TotalCost is the cost of n trials.
func (c CostModel) TotalCost(n int) float64 { return float64(n) * c.CostPerTrial }

// Revenue is the income from an aggregate outcome value.
func (c CostModel) Revenue(value int) float64 { return float64(value) * c.UnitRevenue }

// Profit is the profit of an aggregate outcome value after n trials.
func (c CostModel) Profit(value, n int) float64 { return c.Revenue(value) - c.TotalCost(n) }

// MapProfit converts every support value into profit: F[i] = S[i]*r - n*c.
func MapProfit(support []int, n int, cost CostModel) ([]float64, error) {
	if err := ValidateTrialCount(n); err != nil {
		return nil, err
	}
	if err := cost.Validate(); err != nil {
		return nil, err
	}

	totalCost := cost.TotalCost(n)
	if math.IsInf(totalCost, 0) {
		return nil, newError(ErrNumericOverflow).WithDetailsf("total cost of %d trials overflows", n)
	}

	profit := make([]float64, len(support))
	for i, s := range support {
		profit[i] = cost.Revenue(s) - totalCost
		if math.IsInf(profit[i], 0) {
			return nil, newError(ErrNumericOverflow).
				WithDetailsf("revenue of outcome %d at %g per unit overflows", s, cost.UnitRevenue)
		}
	}
	return profit, nil
}
