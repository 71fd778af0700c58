package yieldrisk

import (
	"math"
	"slices"
	"strings"
)

// ConvolutionStrategy selects how the N-fold self-convolution is evaluated.
type ConvolutionStrategy string

const (
	// StrategyIterative folds N-1 convolutions with the single-trial PMF.
	StrategyIterative ConvolutionStrategy = "iterative"

	// StrategySquaring uses binary exponentiation, O(log N) convolutions.
	StrategySquaring ConvolutionStrategy = "squaring"
)

// ParseConvolutionStrategy maps a config string onto a strategy. The empty
// string selects StrategyIterative.
func ParseConvolutionStrategy(s string) (ConvolutionStrategy, error) {
	switch ConvolutionStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyIterative:
		return StrategyIterative, nil
	case StrategySquaring:
		return StrategySquaring, nil
	default:
		return "", newError(ErrInvalidArgument).WithDetailsf("unknown convolution strategy %q", s)
	}
}

// SingleTrialPMF builds the dense single-trial distribution: index v holds the
// probability of outcome v, every unlisted index (including 0) holds zero.
func SingleTrialPMF(model OutcomeModel) ([]float64, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	if model.Max() >= MaxSupportSize {
		return nil, newError(ErrNumericOverflow).
			WithDetailsf("largest outcome %d exceeds support limit %d", model.Max(), MaxSupportSize)
	}

	pmf := make([]float64, model.Max()+1)
	for _, o := range model.outcomes {
		pmf[o.Value] = o.Probability
	}

	if mass := Mass(pmf); math.Abs(mass-1) > ProbabilityTolerance {
		return nil, newError(ErrInvalidModel).WithDetailsf("single-trial mass is %g, want 1", mass)
	}
	return pmf, nil
}

// Convolve returns the discrete convolution of a and b, the distribution of the
// sum of two independent draws. The result has len(a)+len(b)-1 entries.
func Convolve(a, b []float64) []float64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		row := out[i : i+len(b)]
		for j, y := range b {
			row[j] += x * y
		}
	}
	return out
}

// AggregatedSize returns the length of the N-fold convolution of a PMF with the
// given width, or ErrNumericOverflow when it would exceed MaxSupportSize.
func AggregatedSize(width, n int) (int, error) {
	if width < 1 {
		return 0, newError(ErrInvalidArgument).WithDetails("distribution is empty")
	}
	if n < 1 {
		return 0, newError(ErrInvalidArgument).WithDetailsf("trial count %d must be at least 1", n)
	}

	span := width - 1
	if span > 0 && n > (MaxSupportSize-1)/span {
		return 0, newError(ErrNumericOverflow).
			WithDetailsf("%d trials over width %d exceed support limit %d", n, width, MaxSupportSize).
			WithMetadata("trial_count", n)
	}
	return n*span + 1, nil
}

// Aggregate returns the distribution of the sum of n independent draws from p.
// For n == 1 it returns a copy of p.
func Aggregate(p []float64, n int, strategy ConvolutionStrategy) ([]float64, error) {
	size, err := AggregatedSize(len(p), n)
	if err != nil {
		return nil, err
	}

	var out []float64
	switch strategy {
	case "", StrategyIterative:
		out = aggregateIterative(p, n)
	case StrategySquaring:
		out = aggregateSquaring(p, n)
	default:
		return nil, newError(ErrInvalidArgument).WithDetailsf("unknown convolution strategy %q", strategy)
	}

	if len(out) != size {
		return nil, newError(ErrSystemError).WithDetailsf("aggregated length %d, want %d", len(out), size)
	}
	return out, nil
}

func aggregateIterative(p []float64, n int) []float64 {
	acc := slices.Clone(p)
	for range n - 1 {
		acc = Convolve(acc, p)
	}
	return acc
}

func aggregateSquaring(p []float64, n int) []float64 {
	result := []float64{1}
	base := p
	for k := n; k > 0; k >>= 1 {
		if k&1 == 1 {
			result = Convolve(result, base)
		}
		if k > 1 {
			base = Convolve(base, base)
		}
	}
	return result
}

// Mass returns the total probability of p using compensated summation.
func Mass(p []float64) float64 {
	var sum, c float64
	for _, x := range p {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}
	return sum
}

// TrimSupport drops the structural zero padding below n*minOutcome. The
// returned support lists the realizable aggregate values and the returned PMF
// is an aligned copy of the remaining masses.
func TrimSupport(pmf []float64, n, minOutcome int) ([]int, []float64, error) {
	if n < 1 {
		return nil, nil, newError(ErrInvalidArgument).WithDetailsf("trial count %d must be at least 1", n)
	}
	if minOutcome < 0 {
		return nil, nil, newError(ErrInvalidArgument).WithDetailsf("minimum outcome %d is negative", minOutcome)
	}
	if minOutcome > 0 && n > math.MaxInt/minOutcome {
		return nil, nil, newError(ErrNumericOverflow).WithDetailsf("%d trials of minimum %d overflow", n, minOutcome)
	}

	offset := n * minOutcome
	if offset >= len(pmf) {
		return nil, nil, newError(ErrInvalidArgument).
			WithDetailsf("trim offset %d is outside a distribution of length %d", offset, len(pmf))
	}

	trimmed := slices.Clone(pmf[offset:])
	support := make([]int, len(trimmed))
	for i := range support {
		support[i] = offset + i
	}
	return support, trimmed, nil
}
