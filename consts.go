package yieldrisk

import "time"

const (
	// ProbabilityTolerance is the tolerance for probability sum validation
	ProbabilityTolerance = 1e-6

	// DefaultUnitRevenue is the sell price of one unit of outcome (one gift fruit)
	DefaultUnitRevenue = 700_000.0

	// DefaultCostPerTrial is the cost of one trial (one gift tree seed)
	DefaultCostPerTrial = 1_900_000.0

	// DefaultTrialCount is the number of trials used when none is configured
	DefaultTrialCount = 20

	// MaxInteractiveTrialCount bounds the trial count offered to interactive callers
	MaxInteractiveTrialCount = 20

	// MaxSupportSize is the largest dense aggregated distribution the engine will build
	// It bounds memory, not time: convolution is quadratic in the support length
	MaxSupportSize = 1 << 24
)

// DefaultOutcomeValues are the possible fruit counts of a single gift tree.
var DefaultOutcomeValues = []int{2, 3, 4, 5}

// DefaultCostPresets are the seed prices offered by the original calculator.
var DefaultCostPresets = []float64{1_900_000, 2_000_000, 2_100_000}

const (
	// CacheKeyPrefix is the prefix for Redis result cache keys
	CacheKeyPrefix = "yieldrisk:result:"

	// DefaultCacheTTL is the default TTL for cached results
	DefaultCacheTTL = 10 * time.Minute

	// MinCacheTTL is the minimum TTL for cached results
	MinCacheTTL = 1 * time.Second

	// MaxCacheTTL is the maximum TTL for cached results
	MaxCacheTTL = 24 * time.Hour

	// DefaultRetryAttempts is the default number of retry attempts for cache operations
	DefaultRetryAttempts = 3

	// DefaultRetryInterval is the default base interval between retry attempts
	DefaultRetryInterval = 100 * time.Millisecond

	// MaxRetryAttempts is the maximum number of retry attempts allowed
	MaxRetryAttempts = 10

	// maxRetryDelay caps the exponential backoff between retries
	maxRetryDelay = 5 * time.Second

	// MaxSerializationSize is the maximum allowed size for a serialized Result (10MB)
	MaxSerializationSize = 10 * 1024 * 1024
)

const (
	// DefaultSimulationSequences is the default number of simulated trial sequences
	DefaultSimulationSequences = 100_000

	// simulationBatchSize is how many sequences run between context checks
	simulationBatchSize = 1024

	// DefaultFastRandomGeneratorCacheSize is the default cache size of SecureRandomGenerator
	DefaultFastRandomGeneratorCacheSize = 1024
)

const (
	// DefaultCircuitBreakerName is the default name for Circuit Breaker
	DefaultCircuitBreakerName = "yieldrisk-cache"

	// DefaultCircuitBreakerMaxRequests is the default max requests
	DefaultCircuitBreakerMaxRequests = 3

	// DefaultCircuitBreakerInterval is the default interval
	DefaultCircuitBreakerInterval = 60 * time.Second

	// DefaultCircuitBreakerTimeout is the default timeout
	DefaultCircuitBreakerTimeout = 30 * time.Second

	// DefaultCircuitBreakerFailureRatio is the default failure ratio
	DefaultCircuitBreakerFailureRatio = 0.6

	// DefaultCircuitBreakerMinRequests is the default min requests
	DefaultCircuitBreakerMinRequests = 3

	// DefaultCircuitBreakerOnStateChange is the default on state change
	DefaultCircuitBreakerOnStateChange = true
)

const (
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisPassword     = ""
	DefaultRedisDB           = 0
	DefaultRedisPoolSize     = 10
	DefaultRedisMinIdleConns = 2
	DefaultRedisMaxRetries   = 0
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
	DefaultRedisPoolTimeout  = 4 * time.Second
)
