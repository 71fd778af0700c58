package yieldrisk

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DisplayMode selects how probabilities are rendered
type DisplayMode string

const (
	DisplayProbability DisplayMode = "probability"
	DisplayPercentage  DisplayMode = "percentage"
)

// ParseDisplayMode parses a display mode name; empty means probability
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch DisplayMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DisplayProbability:
		return DisplayProbability, nil
	case DisplayPercentage:
		return DisplayPercentage, nil
	default:
		return "", newError(ErrInvalidArgument).WithDetailsf("unknown display mode %q", s)
	}
}

// FormatProbability renders p with four decimals, as a percentage if asked
func FormatProbability(p float64, mode DisplayMode) string {
	d := decimal.NewFromFloat(p)
	if mode == DisplayPercentage {
		return d.Mul(decimal.NewFromInt(100)).StringFixed(4) + "%"
	}
	return d.StringFixed(4)
}

// FormatGold renders a monetary amount rounded to whole gold with thousands separators
func FormatGold(amount float64) string {
	return humanize.Comma(decimal.NewFromFloat(amount).Round(0).IntPart()) + " gold"
}

// FormatReport renders the headline numbers of a result
func FormatReport(r *Result, mode DisplayMode) string {
	label := "Probability"
	if mode == DisplayPercentage {
		label = "Percentage"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s of making a profit from %d trial(s): %s\n",
		label, r.TrialCount, FormatProbability(r.ProbabilityOfProfit, mode))
	fmt.Fprintf(&b, "Min Profit: %s\n", FormatGold(r.Summary.Min))
	fmt.Fprintf(&b, "Max Profit: %s\n", FormatGold(r.Summary.Max))
	fmt.Fprintf(&b, "Expected Profit: %s\n", FormatGold(r.Summary.Expected))
	fmt.Fprintf(&b, "Profit Std Dev: %s\n", FormatGold(r.Summary.StdDev))
	fmt.Fprintf(&b, "Median Profit: %s\n", FormatGold(r.Summary.Median))
	fmt.Fprintf(&b, "Unweighted Support Mean: %s\n", FormatGold(r.Summary.SupportMean))
	if r.BreakEven != nil {
		fmt.Fprintf(&b, "Break-even: %d units\n", *r.BreakEven)
	} else {
		b.WriteString("Break-even: not reachable\n")
	}
	return b.String()
}

// FormatDistribution renders one line per realizable outcome
func FormatDistribution(r *Result, mode DisplayMode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%8s  %12s  %20s\n", "outcome", string(mode), "profit")
	for i, s := range r.Support {
		fmt.Fprintf(&b, "%8d  %12s  %20s\n", s, FormatProbability(r.PMF[i], mode), FormatGold(r.Profit[i]))
	}
	return b.String()
}
