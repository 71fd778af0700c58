package yieldrisk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceGenerator replays fixed floats
type sequenceGenerator struct {
	values []float64
	index  int
}

func (g *sequenceGenerator) GenerateFloat() (float64, error) {
	if g.index >= len(g.values) {
		return 0, errors.New("sequence exhausted")
	}
	v := g.values[g.index]
	g.index++
	return v, nil
}

func TestSimulator_DrawTrial(t *testing.T) {
	gen := &sequenceGenerator{values: []float64{0, 0.2499, 0.25, 0.5, 0.7499, 0.75, 0.9999}}
	sim, err := NewSimulator(DefaultOutcomeModel(), gen)
	require.NoError(t, err)

	expected := []int{2, 2, 3, 4, 4, 5, 5}
	for _, want := range expected {
		got, err := sim.DrawTrial()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err = sim.DrawTrial()
	assert.Error(t, err)
}

func TestSimulator_DrawAggregate(t *testing.T) {
	gen := &sequenceGenerator{values: []float64{0, 0.3, 0.6, 0.9}}
	sim, err := NewSimulator(DefaultOutcomeModel(), gen)
	require.NoError(t, err)

	total, err := sim.DrawAggregate(4)
	require.NoError(t, err)
	assert.Equal(t, 2+3+4+5, total)
}

func TestNewSimulator_InvalidInput(t *testing.T) {
	_, err := NewSimulator(OutcomeModel{}, NewSeededRandomGenerator(1))
	assert.True(t, errors.Is(err, ErrInvalidModel))

	_, err = NewSimulator(DefaultOutcomeModel(), nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestSimulate_AgreesWithExact(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Monte Carlo cross-check in short mode")
	}

	for n := 5; n <= 10; n++ {
		req, err := DefaultRequest(n)
		require.NoError(t, err)

		exact, err := Compute(req)
		require.NoError(t, err)

		sim, err := Simulate(context.Background(), req, DefaultSimulationSequences, NewSeededRandomGenerator(uint64(n)))
		require.NoError(t, err)

		assert.Equal(t, DefaultSimulationSequences, sim.Sequences)
		assert.True(t, sim.Within(exact.ProbabilityOfProfit, 4),
			"n=%d exact=%.6f simulated=%.6f se=%.6f", n, exact.ProbabilityOfProfit, sim.Probability, sim.StandardError)
		assert.InDelta(t, exact.Summary.Expected, sim.MeanProfit, 4*exact.Summary.StdDev/316)
	}
}

func TestSimulate_Cancelled(t *testing.T) {
	req, err := DefaultRequest(5)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Simulate(ctx, req, 10_000, NewSeededRandomGenerator(1))
	assert.True(t, errors.Is(err, ErrSimulationCancelled))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSimulate_InvalidInput(t *testing.T) {
	req, err := DefaultRequest(5)
	require.NoError(t, err)

	_, err = Simulate(context.Background(), req, 0, NewSeededRandomGenerator(1))
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = Simulate(context.Background(), Request{}, 10, NewSeededRandomGenerator(1))
	assert.Error(t, err)

	_, err = Simulate(context.Background(), req, 10, &sequenceGenerator{})
	assert.True(t, errors.Is(err, ErrSystemError))
}

func TestSimulationResult_Within(t *testing.T) {
	r := &SimulationResult{Sequences: 10_000, Probability: 0.51}
	assert.True(t, r.Within(0.5, 4))
	assert.False(t, r.Within(0.4, 4))

	certain := &SimulationResult{Sequences: 100, Probability: 1}
	assert.True(t, certain.Within(1, 4))
	assert.False(t, (&SimulationResult{}).Within(0.5, 4))
}
