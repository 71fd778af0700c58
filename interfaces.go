package yieldrisk

import "context"

// Calculator defines the interface for distribution computations
type Calculator interface {
	// Compute builds the full profit distribution for one request
	Compute(ctx context.Context, req Request) (*Result, error)
}

// ResultCache stores computed results keyed by request fingerprint
type ResultCache interface {
	// Get returns the cached result; the bool is false on a miss
	Get(ctx context.Context, key string) (*Result, bool, error)

	// Set stores a result under key
	Set(ctx context.Context, key string, result *Result) error
}

// FloatGenerator produces uniform floats in [0, 1)
type FloatGenerator interface {
	GenerateFloat() (float64, error)
}
