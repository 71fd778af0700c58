package yieldrisk

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapProfit(t *testing.T) {
	cost := DefaultCostModel()

	for _, n := range []int{1, 2, 20} {
		support := make([]int, 0, 3*n+1)
		for s := 2 * n; s <= 5*n; s++ {
			support = append(support, s)
		}

		profit, err := MapProfit(support, n, cost)
		require.NoError(t, err)
		require.Len(t, profit, len(support))

		for i, s := range support {
			assert.InDelta(t, float64(s)*DefaultUnitRevenue-float64(n)*DefaultCostPerTrial, profit[i], 1e-6)
		}
		// 收益随结果单调递增
		for i := 1; i < len(profit); i++ {
			assert.Greater(t, profit[i], profit[i-1])
		}
	}
}

func TestMapProfit_InvalidInput(t *testing.T) {
	support := []int{2, 3}

	_, err := MapProfit(support, 0, DefaultCostModel())
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = MapProfit(support, 1, CostModel{CostPerTrial: -1, UnitRevenue: 1})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = MapProfit(support, 1, CostModel{CostPerTrial: 1, UnitRevenue: math.Inf(1)})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = MapProfit(support, 10, CostModel{CostPerTrial: math.MaxFloat64, UnitRevenue: 1})
	assert.True(t, errors.Is(err, ErrNumericOverflow))

	// 收益溢出同样报告
	_, err = MapProfit(support, 1, CostModel{CostPerTrial: 1, UnitRevenue: 1e308})
	assert.True(t, errors.Is(err, ErrNumericOverflow))
}

func TestCompute_RevenueOverflow(t *testing.T) {
	req, err := NewRequest(1, DefaultOutcomeModel(), CostModel{CostPerTrial: 1, UnitRevenue: 1e308}, "")
	require.NoError(t, err)

	result, err := Compute(req)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrNumericOverflow))
}

func TestCostModel(t *testing.T) {
	cost := DefaultCostModel()

	assert.Equal(t, 3_800_000.0, cost.TotalCost(2))
	assert.Equal(t, 2_800_000.0, cost.Revenue(4))
	assert.Equal(t, -1_000_000.0, cost.Profit(4, 2))
	assert.NoError(t, cost.Validate())
	assert.NoError(t, CostModel{}.Validate())
}

func TestCostPresets(t *testing.T) {
	presets := CostPresets()
	require.Len(t, presets, 3)

	assert.Equal(t, 1_900_000.0, presets[0].CostPerTrial)
	assert.Equal(t, 2_000_000.0, presets[1].CostPerTrial)
	assert.Equal(t, 2_100_000.0, presets[2].CostPerTrial)
	for _, p := range presets {
		assert.Equal(t, DefaultUnitRevenue, p.UnitRevenue)
	}
}
