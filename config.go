package yieldrisk

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config 配置结构
type Config struct {
	// 单次试验的结果分布
	Model *ModelConfig `mapstructure:"model"`

	// 成本与收益
	Cost *CostConfig `mapstructure:"cost"`

	// 计算引擎配置
	Engine *EngineConfig `mapstructure:"engine"`

	// 结果缓存配置
	Cache *CacheConfig `mapstructure:"cache"`

	// Redis 配置
	Redis *RedisConfig `mapstructure:"redis"`

	// 熔断器配置
	CircuitBreaker *CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// ModelConfig 结果分布配置
type ModelConfig struct {
	Values        []int     `mapstructure:"values"`
	Probabilities []float64 `mapstructure:"probabilities"`
}

// OutcomeModel 构建结果分布; 未给出概率时使用均匀分布
func (mc *ModelConfig) OutcomeModel() (OutcomeModel, error) {
	if len(mc.Probabilities) == 0 {
		return UniformOutcomeModel(mc.Values...)
	}
	return NewOutcomeModel(mc.Values, mc.Probabilities)
}

// CostConfig 成本配置
type CostConfig struct {
	CostPerTrial float64 `mapstructure:"cost_per_trial"`
	UnitRevenue  float64 `mapstructure:"unit_revenue"`
}

// CostModel 转换为成本模型
func (cc *CostConfig) CostModel() CostModel {
	return CostModel{CostPerTrial: cc.CostPerTrial, UnitRevenue: cc.UnitRevenue}
}

// EngineConfig 引擎配置
type EngineConfig struct {
	TrialCount int    `mapstructure:"trial_count"`
	Strategy   string `mapstructure:"strategy"`
	Verbose    bool   `mapstructure:"verbose"`
}

// CacheConfig 结果缓存配置
type CacheConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// DefaultCacheConfig 返回默认缓存配置
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Enabled:       false,
		KeyPrefix:     CacheKeyPrefix,
		TTL:           DefaultCacheTTL,
		RetryAttempts: DefaultRetryAttempts,
		RetryInterval: DefaultRetryInterval,
	}
}

// RedisConfig Redis 配置
type RedisConfig struct {
	// 连接配置
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// 连接池配置
	PoolSize     int `mapstructure:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns"`
	MaxRetries   int `mapstructure:"max_retries"`

	// 超时配置
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`

	// 集群配置
	ClusterMode  bool     `mapstructure:"cluster_mode"`
	ClusterAddrs []string `mapstructure:"cluster_addrs"`
}

// DefaultRedisConfig 返回默认的Redis配置
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         DefaultRedisAddr,
		Password:     DefaultRedisPassword,
		DB:           DefaultRedisDB,
		PoolSize:     DefaultRedisPoolSize,
		MinIdleConns: DefaultRedisMinIdleConns,
		MaxRetries:   DefaultRedisMaxRetries,
		DialTimeout:  DefaultRedisDialTimeout,
		ReadTimeout:  DefaultRedisReadTimeout,
		WriteTimeout: DefaultRedisWriteTimeout,
		PoolTimeout:  DefaultRedisPoolTimeout,
	}
}

// NewRedisClientFromConfig 从配置创建Redis客户端, 集群模式返回集群客户端
func NewRedisClientFromConfig(config *RedisConfig) redis.UniversalClient {
	if config == nil {
		config = DefaultRedisConfig()
	}

	addrs := []string{config.Addr}
	if config.ClusterMode && len(config.ClusterAddrs) > 0 {
		addrs = config.ClusterAddrs
	}

	opts := &redis.UniversalOptions{
		Addrs:        addrs,
		Password:     config.Password,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		PoolTimeout:  config.PoolTimeout,
	}
	if config.ClusterMode {
		return redis.NewClusterClient(opts.Cluster())
	}
	opts.DB = config.DB
	return redis.NewClient(opts.Simple())
}

// CircuitBreakerConfig 熔断器配置
type CircuitBreakerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Name          string        `mapstructure:"name"`
	MaxRequests   uint32        `mapstructure:"max_requests"`
	Interval      time.Duration `mapstructure:"interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FailureRatio  float64       `mapstructure:"failure_ratio"`
	MinRequests   uint32        `mapstructure:"min_requests"`
	OnStateChange bool          `mapstructure:"on_state_change"`
}

// DefaultCircuitBreakerConfig 返回默认熔断器配置
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Enabled:       true,
		Name:          DefaultCircuitBreakerName,
		MaxRequests:   DefaultCircuitBreakerMaxRequests,
		Interval:      DefaultCircuitBreakerInterval,
		Timeout:       DefaultCircuitBreakerTimeout,
		FailureRatio:  DefaultCircuitBreakerFailureRatio,
		MinRequests:   DefaultCircuitBreakerMinRequests,
		OnStateChange: DefaultCircuitBreakerOnStateChange,
	}
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Model: &ModelConfig{
			Values:        append([]int(nil), DefaultOutcomeValues...),
			Probabilities: []float64{0.25, 0.25, 0.25, 0.25},
		},
		Cost: &CostConfig{
			CostPerTrial: DefaultCostPerTrial,
			UnitRevenue:  DefaultUnitRevenue,
		},
		Engine: &EngineConfig{
			TrialCount: DefaultTrialCount,
			Strategy:   string(StrategyIterative),
		},
		Cache:          DefaultCacheConfig(),
		Redis:          DefaultRedisConfig(),
		CircuitBreaker: DefaultCircuitBreakerConfig(),
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Model == nil || c.Cost == nil || c.Engine == nil {
		return newError(ErrConfigInvalid).WithDetails("model, cost and engine sections are required")
	}

	if _, err := c.Request(); err != nil {
		return newError(ErrConfigInvalid).WithCause(err).WithDetails(err.Error())
	}

	if c.Cache != nil && c.Cache.Enabled {
		if c.Cache.TTL < MinCacheTTL || c.Cache.TTL > MaxCacheTTL {
			return newError(ErrConfigInvalid).WithDetailsf("cache ttl %v must be between %v and %v", c.Cache.TTL, MinCacheTTL, MaxCacheTTL)
		}
		if c.Cache.RetryAttempts < 0 || c.Cache.RetryAttempts > MaxRetryAttempts {
			return newError(ErrConfigInvalid).WithDetailsf("cache retry attempts must be between 0 and %d", MaxRetryAttempts)
		}
		if c.Cache.RetryInterval < 0 {
			return newError(ErrConfigInvalid).WithDetails("cache retry interval cannot be negative")
		}
		if c.Redis == nil || (c.Redis.Addr == "" && len(c.Redis.ClusterAddrs) == 0) {
			return newError(ErrConfigInvalid).WithDetails("redis address is required when the cache is enabled")
		}
		if c.Redis.PoolSize <= 0 {
			return newError(ErrConfigInvalid).WithDetails("redis pool size must be positive")
		}
	}

	if c.CircuitBreaker != nil && c.CircuitBreaker.Enabled {
		if c.CircuitBreaker.FailureRatio <= 0 || c.CircuitBreaker.FailureRatio > 1 {
			return newError(ErrConfigInvalid).WithDetails("circuit breaker failure ratio must be in (0, 1]")
		}
	}

	return nil
}

// Request 根据配置构建计算请求
func (c *Config) Request() (Request, error) {
	model, err := c.Model.OutcomeModel()
	if err != nil {
		return Request{}, err
	}
	strategy, err := ParseConvolutionStrategy(c.Engine.Strategy)
	if err != nil {
		return Request{}, err
	}
	return NewRequest(c.Engine.TrialCount, model, c.Cost.CostModel(), strategy)
}

// ConfigManager 配置管理器
type ConfigManager struct {
	viper  *viper.Viper
	config *Config
	mu     sync.RWMutex
}

// NewConfigManager 创建配置管理器
func NewConfigManager() *ConfigManager {
	v := viper.New()

	// 设置配置文件名和路径
	v.SetConfigName("yieldrisk")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/yieldrisk")
	v.AddConfigPath("$HOME/.yieldrisk")

	// 设置环境变量前缀
	v.SetEnvPrefix("YIELDRISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cm := &ConfigManager{viper: v}
	cm.setDefaults()
	return cm
}

// NewDefaultConfigManager 创建使用默认配置的配置管理器
func NewDefaultConfigManager() *ConfigManager {
	cm := NewConfigManager()
	cm.config = DefaultConfig()
	return cm
}

// SetConfigFile 指定配置文件路径
func (cm *ConfigManager) SetConfigFile(path string) { cm.viper.SetConfigFile(path) }

// RegisterFlags 注册命令行参数
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Int("trials", DefaultTrialCount, "number of independent trials")
	fs.Float64("cost", DefaultCostPerTrial, "cost per trial")
	fs.Float64("revenue", DefaultUnitRevenue, "revenue per unit of outcome")
	fs.String("strategy", string(StrategyIterative), "convolution strategy: iterative or squaring")
	fs.Bool("cache", false, "cache results in redis")
	fs.String("redis-addr", DefaultRedisAddr, "redis address")
	fs.Bool("verbose", false, "enable debug logging")
}

// BindFlags 将命令行参数绑定到配置项
func (cm *ConfigManager) BindFlags(fs *pflag.FlagSet) error {
	bindings := map[string]string{
		"engine.trial_count":  "trials",
		"cost.cost_per_trial": "cost",
		"cost.unit_revenue":   "revenue",
		"engine.strategy":     "strategy",
		"engine.verbose":      "verbose",
		"cache.enabled":       "cache",
		"redis.addr":          "redis-addr",
	}
	for key, name := range bindings {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := cm.viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// LoadConfig 加载配置
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	// 读取配置文件
	if err := cm.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// 配置文件不存在时使用默认配置
	}

	config, err := cm.decode()
	if err != nil {
		return nil, err
	}

	cm.mu.Lock()
	cm.config = config
	cm.mu.Unlock()
	return config, nil
}

func (cm *ConfigManager) decode() (*Config, error) {
	config := &Config{}
	if err := cm.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// setDefaults 设置默认配置值
func (cm *ConfigManager) setDefaults() {
	// 结果分布默认配置; 不设概率默认值, 未给出概率时按均匀分布处理
	cm.viper.SetDefault("model.values", DefaultOutcomeValues)

	// 成本默认配置
	cm.viper.SetDefault("cost.cost_per_trial", DefaultCostPerTrial)
	cm.viper.SetDefault("cost.unit_revenue", DefaultUnitRevenue)

	// 引擎默认配置
	cm.viper.SetDefault("engine.trial_count", DefaultTrialCount)
	cm.viper.SetDefault("engine.strategy", string(StrategyIterative))
	cm.viper.SetDefault("engine.verbose", false)

	// 缓存默认配置
	cm.viper.SetDefault("cache.enabled", false)
	cm.viper.SetDefault("cache.key_prefix", CacheKeyPrefix)
	cm.viper.SetDefault("cache.ttl", "10m")
	cm.viper.SetDefault("cache.retry_attempts", DefaultRetryAttempts)
	cm.viper.SetDefault("cache.retry_interval", "100ms")

	// Redis 默认配置
	cm.viper.SetDefault("redis.addr", DefaultRedisAddr)
	cm.viper.SetDefault("redis.password", DefaultRedisPassword)
	cm.viper.SetDefault("redis.db", DefaultRedisDB)
	cm.viper.SetDefault("redis.pool_size", DefaultRedisPoolSize)
	cm.viper.SetDefault("redis.min_idle_conns", DefaultRedisMinIdleConns)
	cm.viper.SetDefault("redis.max_retries", DefaultRedisMaxRetries)
	cm.viper.SetDefault("redis.dial_timeout", "5s")
	cm.viper.SetDefault("redis.read_timeout", "3s")
	cm.viper.SetDefault("redis.write_timeout", "3s")
	cm.viper.SetDefault("redis.pool_timeout", "4s")
	cm.viper.SetDefault("redis.cluster_mode", false)

	// 熔断器默认配置
	cm.viper.SetDefault("circuit_breaker.enabled", true)
	cm.viper.SetDefault("circuit_breaker.name", DefaultCircuitBreakerName)
	cm.viper.SetDefault("circuit_breaker.max_requests", DefaultCircuitBreakerMaxRequests)
	cm.viper.SetDefault("circuit_breaker.interval", "60s")
	cm.viper.SetDefault("circuit_breaker.timeout", "30s")
	cm.viper.SetDefault("circuit_breaker.failure_ratio", DefaultCircuitBreakerFailureRatio)
	cm.viper.SetDefault("circuit_breaker.min_requests", DefaultCircuitBreakerMinRequests)
	cm.viper.SetDefault("circuit_breaker.on_state_change", DefaultCircuitBreakerOnStateChange)
}

// WatchConfig 监听配置文件变化, 新配置验证通过后回调
func (cm *ConfigManager) WatchConfig(callback func(*Config), logger Logger) {
	if logger == nil {
		logger = NewSilentLogger()
	}

	cm.viper.OnConfigChange(func(e fsnotify.Event) {
		logger.Info("Config file changed: %s (%s)", e.Name, e.Op)

		config, err := cm.decode()
		if err != nil {
			// 记录错误但保留旧配置
			logger.Error("Ignoring invalid config change: %v", err)
			return
		}

		cm.mu.Lock()
		cm.config = config
		cm.mu.Unlock()

		if callback != nil {
			callback(config)
		}
	})
	cm.viper.WatchConfig()
}

// GetConfig 获取当前配置
func (cm *ConfigManager) GetConfig() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ReloadConfig 重新加载配置
func (cm *ConfigManager) ReloadConfig() (*Config, error) { return cm.LoadConfig() }

// NewEngineFromConfig 根据配置创建引擎; 启用缓存时返回的 closer 关闭 Redis 连接
func NewEngineFromConfig(config *Config, logger Logger) (*Engine, func() error, error) {
	if config == nil {
		return nil, nil, newError(ErrConfigInvalid).WithDetails("nil config")
	}
	if err := config.Validate(); err != nil {
		return nil, nil, err
	}
	if logger == nil {
		logger = &DefaultLogger{Verbose: config.Engine.Verbose}
	}

	engine := NewEngine(WithLogger(logger))
	closer := func() error { return nil }

	if config.Cache != nil && config.Cache.Enabled {
		client := NewRedisClientFromConfig(config.Redis)
		var cache ResultCache = NewRedisResultCacheFromConfig(client, config.Cache, logger)
		if config.CircuitBreaker != nil {
			cache = NewBreakerCache(cache, config.CircuitBreaker, logger)
		}
		engine.SetCache(cache)
		closer = client.Close
		logger.Info("Result cache enabled: prefix=%s, ttl=%v", config.Cache.KeyPrefix, config.Cache.TTL)
	}

	return engine, closer, nil
}
