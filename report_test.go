package yieldrisk

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatProbability(t *testing.T) {
	tests := []struct {
		p        float64
		mode     DisplayMode
		expected string
	}{
		{0.75, DisplayProbability, "0.7500"},
		{0.75, DisplayPercentage, "75.0000%"},
		{0.8125, DisplayPercentage, "81.2500%"},
		{0, DisplayProbability, "0.0000"},
		{1, DisplayPercentage, "100.0000%"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatProbability(tt.p, tt.mode))
		})
	}
}

func TestFormatGold(t *testing.T) {
	assert.Equal(t, "-500,000 gold", FormatGold(-500_000))
	assert.Equal(t, "1,600,000 gold", FormatGold(1_600_000))
	assert.Equal(t, "550,000 gold", FormatGold(550_000.2))
	assert.Equal(t, "0 gold", FormatGold(0))
}

func TestParseDisplayMode(t *testing.T) {
	mode, err := ParseDisplayMode("")
	require.NoError(t, err)
	assert.Equal(t, DisplayProbability, mode)

	mode, err = ParseDisplayMode("Percentage")
	require.NoError(t, err)
	assert.Equal(t, DisplayPercentage, mode)

	_, err = ParseDisplayMode("odds")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestFormatReport(t *testing.T) {
	report := FormatReport(testResult(t, 1), DisplayProbability)

	assert.Contains(t, report, "Probability of making a profit from 1 trial(s): 0.7500")
	assert.Contains(t, report, "Min Profit: -500,000 gold")
	assert.Contains(t, report, "Max Profit: 1,600,000 gold")
	assert.Contains(t, report, "Expected Profit: 550,000 gold")
	assert.Contains(t, report, "Median Profit: 200,000 gold")
	assert.Contains(t, report, "Unweighted Support Mean: 550,000 gold")
	assert.Contains(t, report, "Break-even: 3 units")

	percentage := FormatReport(testResult(t, 2), DisplayPercentage)
	assert.Contains(t, percentage, "Percentage of making a profit from 2 trial(s): 81.2500%")
}

func TestFormatReport_NoBreakEven(t *testing.T) {
	req, err := NewRequest(1, DefaultOutcomeModel(), CostModel{CostPerTrial: 10_000_000, UnitRevenue: 1}, "")
	require.NoError(t, err)
	result, err := Compute(req)
	require.NoError(t, err)

	assert.Contains(t, FormatReport(result, DisplayProbability), "Break-even: not reachable")
}

func TestFormatDistribution(t *testing.T) {
	out := FormatDistribution(testResult(t, 1), DisplayPercentage)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	assert.Len(t, lines, 5)
	assert.Contains(t, lines[0], "percentage")
	assert.Contains(t, lines[1], "25.0000%")
	assert.Contains(t, lines[4], "1,600,000 gold")
}
