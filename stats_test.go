package yieldrisk

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	profit := []float64{-500_000, 200_000, 900_000, 1_600_000}
	pmf := []float64{0.25, 0.25, 0.25, 0.25}

	s, err := Summarize(profit, pmf)
	require.NoError(t, err)

	assert.Equal(t, -500_000.0, s.Min)
	assert.Equal(t, 1_600_000.0, s.Max)
	assert.InDelta(t, 550_000.0, s.Expected, 1e-6)
	assert.InDelta(t, 550_000.0, s.SupportMean, 1e-6)
	assert.InDelta(t, 700_000*math.Sqrt(1.25), s.StdDev, 1e-3)
	assert.Equal(t, 200_000.0, s.Median)
}

func TestSummarize_WeightedDiffersFromSupportMean(t *testing.T) {
	profit := []float64{-100, 0, 1000}
	pmf := []float64{0.8, 0.15, 0.05}

	s, err := Summarize(profit, pmf)
	require.NoError(t, err)

	assert.InDelta(t, -30.0, s.Expected, 1e-9)
	assert.InDelta(t, 300.0, s.SupportMean, 1e-9)
	assert.Equal(t, -100.0, s.Median)
	assert.LessOrEqual(t, s.Min, s.Expected)
	assert.GreaterOrEqual(t, s.Max, s.Expected)
}

func TestSummarize_SinglePoint(t *testing.T) {
	s, err := Summarize([]float64{42}, []float64{1})
	require.NoError(t, err)

	assert.Equal(t, Summary{Min: 42, Max: 42, Expected: 42, StdDev: 0, Median: 42, SupportMean: 42}, s)
}

func TestSummarize_InvalidInput(t *testing.T) {
	_, err := Summarize(nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = Summarize([]float64{1, 2}, []float64{1})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
