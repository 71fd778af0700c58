package yieldrisk

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutcomeModel(t *testing.T) {
	tests := []struct {
		name          string
		values        []int
		probabilities []float64
		expectError   bool
	}{
		{"valid_uniform", []int{2, 3, 4, 5}, []float64{0.25, 0.25, 0.25, 0.25}, false},
		{"valid_skewed", []int{0, 10}, []float64{0.9, 0.1}, false},
		{"single_outcome", []int{7}, []float64{1}, false},
		{"within_tolerance", []int{1, 2}, []float64{0.5, 0.5000001}, false},
		{"empty", nil, nil, true},
		{"length_mismatch", []int{1, 2}, []float64{1}, true},
		{"negative_value", []int{-1, 2}, []float64{0.5, 0.5}, true},
		{"negative_probability", []int{1, 2}, []float64{-0.5, 1.5}, true},
		{"probability_above_one", []int{1}, []float64{1.5}, true},
		{"nan_probability", []int{1, 2}, []float64{math.NaN(), 1}, true},
		{"duplicate_value", []int{3, 3}, []float64{0.5, 0.5}, true},
		{"sum_below_one", []int{1, 2}, []float64{0.4, 0.4}, true},
		{"sum_above_one", []int{1, 2}, []float64{0.6, 0.6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := NewOutcomeModel(tt.values, tt.probabilities)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidModel))
				assert.True(t, model.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.values), model.Len())
		})
	}
}

func TestOutcomeModel_SortsValues(t *testing.T) {
	model, err := NewOutcomeModel([]int{5, 2, 4, 3}, []float64{0.1, 0.2, 0.3, 0.4})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3, 4, 5}, model.Values())
	assert.Equal(t, []float64{0.2, 0.4, 0.3, 0.1}, model.Probabilities())
	assert.Equal(t, 2, model.Min())
	assert.Equal(t, 5, model.Max())
}

func TestOutcomeModel_Immutable(t *testing.T) {
	values := []int{1, 2}
	probs := []float64{0.5, 0.5}
	model, err := NewOutcomeModel(values, probs)
	require.NoError(t, err)

	values[0] = 100
	probs[0] = 0.9
	outcomes := model.Outcomes()
	outcomes[0].Probability = 0

	assert.Equal(t, []int{1, 2}, model.Values())
	assert.Equal(t, []float64{0.5, 0.5}, model.Probabilities())
	assert.NoError(t, model.Validate())
}

func TestDefaultOutcomeModel(t *testing.T) {
	model := DefaultOutcomeModel()

	assert.Equal(t, []int{2, 3, 4, 5}, model.Values())
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, model.Probabilities())
	assert.InDelta(t, 3.5, model.Mean(), 1e-12)
}

func TestUniformOutcomeModel(t *testing.T) {
	model, err := UniformOutcomeModel(1, 2, 3)
	require.NoError(t, err)
	for _, p := range model.Probabilities() {
		assert.InDelta(t, 1.0/3.0, p, 1e-15)
	}

	_, err = UniformOutcomeModel()
	assert.True(t, errors.Is(err, ErrInvalidModel))
}

func TestOutcomeModel_ZeroValue(t *testing.T) {
	var model OutcomeModel

	assert.True(t, model.IsZero())
	assert.Equal(t, 0, model.Min())
	assert.Equal(t, 0, model.Max())
	assert.True(t, errors.Is(model.Validate(), ErrInvalidModel))
}
