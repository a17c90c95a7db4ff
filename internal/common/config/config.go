package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Inference InferenceConfig `mapstructure:"inference"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address        string `mapstructure:"address"`
	ReadTimeout    int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout   int    `mapstructure:"write_timeout"` // milliseconds
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

// InferenceConfig points the gateway at the managed inference platform.
// The base URL is injectable so deployments are not tied to a single upstream.
type InferenceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type CacheConfig struct {
	Backend string      `mapstructure:"backend"` // "memory" or "redis"
	TTL     int         `mapstructure:"ttl"`     // milliseconds
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RetryConfig bounds the quality-gated retry loops. The reference behavior
// retries immediately; the delay and backoff exist so load against a
// struggling upstream can be shaped without a code change.
type RetryConfig struct {
	TranslationAttempts int     `mapstructure:"translation_attempts"`
	MeaningAttempts     int     `mapstructure:"meaning_attempts"`
	Delay               int     `mapstructure:"delay"` // milliseconds between attempts
	BackoffFactor       float64 `mapstructure:"backoff_factor"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func (i InferenceConfig) TimeoutDuration() time.Duration {
	return time.Duration(i.Timeout) * time.Millisecond
}

func (c CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Millisecond
}

func (r RetryConfig) DelayDuration() time.Duration {
	return time.Duration(r.Delay) * time.Millisecond
}
